package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cameron-headspace/graphql-inspector/pkg/check"
	"github.com/cameron-headspace/graphql-inspector/pkg/config"
	"github.com/cameron-headspace/graphql-inspector/pkg/diff"
	"github.com/cameron-headspace/graphql-inspector/pkg/httputil"
	"github.com/cameron-headspace/graphql-inspector/pkg/observability"
	"github.com/cameron-headspace/graphql-inspector/pkg/schema"
)

// DefaultPath labels annotations when a request has no path
const DefaultPath = "schema.graphql"

// DiffRequest is the body of POST /api/v1/diff
type DiffRequest struct {
	Path            string   `json:"path"`
	Old             string   `json:"old"`
	New             string   `json:"new"`
	Interceptor     string   `json:"interceptor,omitempty"`
	FailOnDangerous *bool    `json:"fail_on_dangerous,omitempty"`
	Rules           []string `json:"rules,omitempty"`
}

// RuleInfo describes a post-processing rule
type RuleInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// compareDiff diffs two SDL documents
func (s *Server) compareDiff(w http.ResponseWriter, r *http.Request) {
	var req DiffRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Old, "old") || !httputil.RequireNonEmpty(w, req.New, "new") {
		return
	}
	if err := s.validate(&req); err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	sources := schema.SourcePair{
		Old: schema.Source{Name: req.Path, Body: req.Old},
		New: schema.Source{Name: req.Path, Body: req.New},
	}
	snapshot, err := s.cache.Load(sources)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	result, err := diff.Diff(r.Context(), diff.Input{
		Sources:        sources,
		Snapshot:       snapshot,
		InterceptorURL: req.Interceptor,
		Path:           req.Path,
	}, s.options(r.Context(), &req))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			observability.FromContext(r.Context()).Info("Client went away during diff")
			return
		}
		httputil.WriteInternalError(w, err)
		return
	}

	httputil.WriteJSONOrError(w, http.StatusOK, result, "failed to encode diff result")
}

// validate fills defaults into req and rejects unusable values
func (s *Server) validate(req *DiffRequest) error {
	if req.Path == "" {
		req.Path = DefaultPath
	}
	if req.Interceptor == "" {
		req.Interceptor = s.diff.InterceptorURL
	} else {
		if err := config.ValidateInterceptorURL(req.Interceptor); err != nil {
			return err
		}
		if !s.cfg.InterceptorAllowed(req.Interceptor) {
			return fmt.Errorf("interceptor URL not allowed: %q", req.Interceptor)
		}
	}
	if req.Rules == nil {
		req.Rules = s.diff.Rules
	}
	for _, name := range req.Rules {
		if _, ok := s.rules.GetRule(name); !ok {
			return fmt.Errorf("unknown rule: %s", name)
		}
	}
	return nil
}

func (s *Server) options(ctx context.Context, req *DiffRequest) diff.Options {
	failOnDangerous := s.diff.FailOnDangerous
	if req.FailOnDangerous != nil {
		failOnDangerous = *req.FailOnDangerous
	}
	return diff.Options{
		Logger:             observability.FromContext(ctx),
		Metrics:            s.metrics,
		InterceptorTimeout: s.diff.InterceptorTimeout,
		Rules:              req.Rules,
		Registry:           s.rules,
		Policy:             check.Policy{FailOnDangerous: failOnDangerous},
		Concurrency:        s.diff.Concurrency,
	}
}

// listRules lists the post-processing rules a request may name
func (s *Server) listRules(w http.ResponseWriter, r *http.Request) {
	rules := s.rules.GetAllRules()
	infos := make([]RuleInfo, 0, len(rules))
	for _, rule := range rules {
		infos = append(infos, RuleInfo{Name: rule.Name(), Description: rule.Description()})
	}
	httputil.WriteJSONOrError(w, http.StatusOK, infos, "failed to encode rules")
}

// cacheStats reports snapshot cache statistics
func (s *Server) cacheStats(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOrError(w, http.StatusOK, s.cache.Stats(), "failed to encode cache stats")
}

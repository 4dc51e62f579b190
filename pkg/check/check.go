// Package check turns classified changes into a check conclusion and
// per-change annotations.
package check

import (
	"fmt"

	"github.com/cameron-headspace/graphql-inspector/pkg/compatibility"
)

// Conclusion is the overall outcome of a diff
type Conclusion string

const (
	Success Conclusion = "success"
	Failure Conclusion = "failure"
	Neutral Conclusion = "neutral"
)

// ParseConclusion validates a conclusion received from outside the process
func ParseConclusion(s string) (Conclusion, error) {
	switch c := Conclusion(s); c {
	case Success, Failure, Neutral:
		return c, nil
	default:
		return "", fmt.Errorf("invalid conclusion %q", s)
	}
}

// AnnotationLevel is the severity shown next to an annotated line
type AnnotationLevel string

const (
	LevelNotice  AnnotationLevel = "notice"
	LevelWarning AnnotationLevel = "warning"
	LevelFailure AnnotationLevel = "failure"
)

// LevelFor maps a criticality level to an annotation level.
// Unknown levels are shown as notices.
func LevelFor(level compatibility.CriticalityLevel) AnnotationLevel {
	switch level {
	case compatibility.Breaking:
		return LevelFailure
	case compatibility.Dangerous:
		return LevelWarning
	default:
		return LevelNotice
	}
}

// Annotation points a change at a line of the schema file
type Annotation struct {
	Path            string          `json:"path"`
	StartLine       int             `json:"start_line"`
	EndLine         int             `json:"end_line"`
	AnnotationLevel AnnotationLevel `json:"annotation_level"`
	Title           string          `json:"title"`
	Message         string          `json:"message"`
}

// NewAnnotation builds the annotation for a change located at line of the file
// labelled path
func NewAnnotation(change compatibility.Change, path string, line int) Annotation {
	message := change.Criticality.Reason
	if message == "" {
		message = change.Message
	}
	return Annotation{
		Path:            path,
		StartLine:       line,
		EndLine:         line,
		AnnotationLevel: LevelFor(change.Criticality.Level),
		Title:           change.Message,
		Message:         message,
	}
}

// Policy tunes how a conclusion is derived
type Policy struct {
	// FailOnDangerous makes dangerous changes fail the check
	FailOnDangerous bool
}

// Resolve derives the conclusion from classified changes. It never returns Neutral.
func Resolve(changes []compatibility.Change, policy Policy) Conclusion {
	dangerous := false
	for _, c := range changes {
		switch c.Criticality.Level {
		case compatibility.Breaking:
			return Failure
		case compatibility.Dangerous:
			dangerous = true
		}
	}
	if dangerous && policy.FailOnDangerous {
		return Failure
	}
	return Success
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/cameron-headspace/graphql-inspector/pkg/check"
	"github.com/cameron-headspace/graphql-inspector/pkg/compatibility"
	"github.com/cameron-headspace/graphql-inspector/pkg/diff"
)

var validFormats = []string{FormatText, FormatJSON, FormatGitHub}

var (
	breakingColor    = color.New(color.FgRed, color.Bold)
	dangerousColor   = color.New(color.FgYellow)
	nonBreakingColor = color.New(color.FgGreen)
	locationColor    = color.New(color.Faint)
)

func isValidFormat(format string) bool {
	for _, f := range validFormats {
		if f == format {
			return true
		}
	}
	return false
}

func writeResult(w io.Writer, format string, result *diff.Result) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case FormatGitHub:
		return writeGitHub(w, result)
	default:
		return writeText(w, result)
	}
}

// writeText prints one line per change followed by a summary
func writeText(w io.Writer, result *diff.Result) error {
	if len(result.Changes) == 0 {
		_, err := fmt.Fprintf(w, "No changes detected\n\nConclusion: %s\n", result.Conclusion)
		return err
	}

	fmt.Fprintf(w, "Detected %d changes between schemas:\n\n", len(result.Changes))

	counts := make(map[compatibility.CriticalityLevel]int)
	for i, change := range result.Changes {
		counts[change.Criticality.Level]++
		annotation := result.Annotations[i]

		marker, c := markerFor(change.Criticality.Level)
		c.Fprintf(w, "  %s ", marker)
		fmt.Fprint(w, change.Message)
		locationColor.Fprintf(w, "  (%s:%d)\n", annotation.Path, annotation.StartLine)
	}

	fmt.Fprintln(w)
	if n := counts[compatibility.Breaking]; n > 0 {
		breakingColor.Fprintf(w, "%d breaking\n", n)
	}
	if n := counts[compatibility.Dangerous]; n > 0 {
		dangerousColor.Fprintf(w, "%d dangerous\n", n)
	}
	if n := counts[compatibility.NonBreaking]; n > 0 {
		nonBreakingColor.Fprintf(w, "%d non-breaking\n", n)
	}
	_, err := fmt.Fprintf(w, "\nConclusion: %s\n", result.Conclusion)
	return err
}

func markerFor(level compatibility.CriticalityLevel) (string, *color.Color) {
	switch level {
	case compatibility.Breaking:
		return "✖", breakingColor
	case compatibility.Dangerous:
		return "⚠", dangerousColor
	default:
		return "✔", nonBreakingColor
	}
}

// writeGitHub prints GitHub Actions workflow commands, one per annotation
func writeGitHub(w io.Writer, result *diff.Result) error {
	for _, a := range result.Annotations {
		_, err := fmt.Fprintf(w, "::%s file=%s,line=%d,endLine=%d,title=%s::%s\n",
			workflowCommand(a.AnnotationLevel),
			escapeProperty(a.Path),
			a.StartLine,
			a.EndLine,
			escapeProperty(a.Title),
			escapeData(a.Message),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func workflowCommand(level check.AnnotationLevel) string {
	switch level {
	case check.LevelFailure:
		return "error"
	case check.LevelWarning:
		return "warning"
	default:
		return "notice"
	}
}

var (
	dataEscaper     = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")
	propertyEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C")
)

func escapeData(s string) string {
	return dataEscaper.Replace(s)
}

func escapeProperty(s string) string {
	return propertyEscaper.Replace(s)
}

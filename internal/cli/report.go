package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"workshopsite/internal/domain"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
	dimColor  = color.New(color.Faint)
)

// printValidationReport writes one line per issue and a summary line.
func printValidationReport(w io.Writer, r domain.ValidationReport) {
	if r.OK() {
		okColor.Fprint(w, "OK")
		fmt.Fprintf(w, " %s: content is valid\n", r.Slug)
		return
	}
	for _, issue := range r.Issues {
		failColor.Fprint(w, "✗ ")
		fmt.Fprintf(w, "%s ", issue.Field)
		dimColor.Fprintf(w, "[%s]", issue.Rule)
		fmt.Fprintf(w, " %s\n", issue.Message)
	}
	failColor.Fprintf(w, "FAIL")
	fmt.Fprintf(w, " %s: %d issue(s)\n", r.Slug, len(r.Issues))
}

// printLinkReport lists broken links, or every link when verbose is set.
func printLinkReport(w io.Writer, r *domain.LinkReport, verbose bool) {
	for _, s := range r.Statuses {
		switch {
		case !s.OK:
			failColor.Fprint(w, "✗ ")
		case verbose:
			okColor.Fprint(w, "✓ ")
		default:
			continue
		}
		detail := fmt.Sprintf("%d", s.StatusCode)
		if s.Error != "" {
			detail = s.Error
		}
		fmt.Fprintf(w, "%s %s ", s.URL, detail)
		dimColor.Fprintf(w, "(%s)\n", s.Field)
	}
	broken := len(r.Broken())
	if broken == 0 {
		okColor.Fprint(w, "OK")
	} else {
		failColor.Fprint(w, "FAIL")
	}
	fmt.Fprintf(w, " %d link(s), %d broken, run %s\n", len(r.Statuses), broken, r.RunID)
}

// Package validation checks workshop content against its authoring rules:
// required fields, link syntax, paper ordering and schedule consistency.
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"workshopsite/internal/domain"
)

// Rule names reported in domain.Issue.Rule beyond the validator tags.
const (
	RuleSorted   = "sorted"
	RuleOrder    = "order"
	RuleOverlap  = "overlap"
	RuleMaterial = "material"
)

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("absurl", func(fl validator.FieldLevel) bool {
		return IsAbsoluteURL(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// IsAbsoluteURL reports whether s parses as a URL with both scheme and host.
func IsAbsoluteURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// Validate runs every rule and returns all issues found. A nil result means the
// content is publishable.
func Validate(w *domain.Workshop) []domain.Issue {
	if w == nil {
		return []domain.Issue{{Field: "workshop", Rule: "required", Message: "is missing"}}
	}
	var issues []domain.Issue
	issues = append(issues, structIssues(w)...)
	issues = append(issues, paperOrderIssues(w.Papers)...)
	issues = append(issues, scheduleIssues(w.Schedule)...)
	issues = append(issues, materialIssues(w)...)
	return issues
}

// Report wraps Validate into a domain.ValidationReport.
func Report(w *domain.Workshop) domain.ValidationReport {
	r := domain.ValidationReport{Issues: Validate(w)}
	if w != nil {
		r.Slug = w.Slug
	}
	if r.Issues == nil {
		r.Issues = []domain.Issue{}
	}
	return r
}

func structIssues(w *domain.Workshop) []domain.Issue {
	err := structValidator.Struct(w)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []domain.Issue{{Field: "workshop", Rule: "struct", Message: err.Error()}}
	}
	issues := make([]domain.Issue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, domain.Issue{
			Field:   fieldPath(fe.Namespace()),
			Rule:    fe.Tag(),
			Message: message(fe),
		})
	}
	return issues
}

// fieldPath drops the root type name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at least %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "absurl":
		return fmt.Sprintf("%q is not an absolute URL with scheme and host", fe.Value())
	}
	return fmt.Sprintf("failed %q rule", fe.Tag())
}

// paperOrderIssues checks ascending first-author surname order, ignoring case.
// Equal surnames are allowed in any order.
func paperOrderIssues(papers []domain.Paper) []domain.Issue {
	c := collate.New(language.Und, collate.IgnoreCase)
	var issues []domain.Issue
	for i := 1; i < len(papers); i++ {
		prev, cur := papers[i-1].FirstAuthorSurname(), papers[i].FirstAuthorSurname()
		if prev == "" || cur == "" {
			continue
		}
		if c.CompareString(prev, cur) > 0 {
			issues = append(issues, domain.Issue{
				Field:   fmt.Sprintf("papers[%d]", i),
				Rule:    RuleSorted,
				Message: fmt.Sprintf("first author %q must not come after %q", cur, prev),
			})
		}
	}
	return issues
}

// scheduleIssues checks that every slot ends after it starts and that no two
// consecutive slots overlap, within and across sessions. Touching slots
// (09:00-09:10, 09:10-09:30) are valid; gaps are allowed.
func scheduleIssues(sessions []domain.Session) []domain.Issue {
	var issues []domain.Issue
	var prev *domain.ScheduleSlot
	var prevField string
	for i := range sessions {
		for j := range sessions[i].Slots {
			slot := &sessions[i].Slots[j]
			field := fmt.Sprintf("schedule[%d].slots[%d]", i, j)
			if slot.Start >= slot.End {
				issues = append(issues, domain.Issue{
					Field:   field,
					Rule:    RuleOrder,
					Message: fmt.Sprintf("start %s must be before end %s", slot.Start, slot.End),
				})
			}
			if prev != nil && slot.Start < prev.End {
				issues = append(issues, domain.Issue{
					Field:   field,
					Rule:    RuleOverlap,
					Message: fmt.Sprintf("%s overlaps %s (%s)", slot.Range(), prevField, prev.Range()),
				})
			}
			prev, prevField = slot, field
		}
	}
	return issues
}

func materialIssues(w *domain.Workshop) []domain.Issue {
	var issues []domain.Issue
	for i, session := range w.Schedule {
		for j, slot := range session.Slots {
			if !slot.HasMaterial() {
				continue
			}
			if !IsAbsoluteURL(w.MaterialURL(slot)) {
				issues = append(issues, domain.Issue{
					Field:   fmt.Sprintf("schedule[%d].slots[%d].material", i, j),
					Rule:    RuleMaterial,
					Message: fmt.Sprintf("%q does not resolve to an absolute URL (set materials_base_url)", slot.Material),
				})
			}
		}
	}
	return issues
}

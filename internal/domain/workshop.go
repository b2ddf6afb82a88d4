package domain

import (
	"context"
	"strings"
	"time"
)

// Workshop is the complete content of a workshop page. It is authored once and
// rendered on every view; nothing in this module mutates it after loading.
type Workshop struct {
	Slug             string      `json:"slug" yaml:"slug" validate:"required"`
	Title            string      `json:"title" yaml:"title" validate:"required"`
	Date             string      `json:"date" yaml:"date" validate:"required"`
	Location         string      `json:"location" yaml:"location" validate:"required"`
	Abstract         []string    `json:"abstract" yaml:"abstract" validate:"min=1,dive,required"`
	Questions        []string    `json:"questions" yaml:"questions" validate:"dive,required"`
	Image            ImageCredit `json:"image" yaml:"image"`
	Organizers       []Organizer `json:"organizers" yaml:"organizers" validate:"min=1,dive"`
	MaterialsBaseURL string      `json:"materials_base_url,omitempty" yaml:"materials_base_url,omitempty" validate:"omitempty,absurl"`
	Schedule         []Session   `json:"schedule" yaml:"schedule" validate:"dive"`
	Papers           []Paper     `json:"papers" yaml:"papers" validate:"dive"`
	Drafts           Drafts      `json:"drafts" yaml:"drafts,omitempty"`
	UpdatedAt        time.Time   `json:"updated_at,omitempty" yaml:"-"`
}

// Organizer is a member of the organizing committee.
type Organizer struct {
	Name string `json:"name" yaml:"name" validate:"required"`
	URL  string `json:"url" yaml:"url" validate:"required,absurl"`
}

// Session is a contiguous block of schedule slots. Gaps between sessions
// (lunch, coffee) are intentional and not represented as slots.
type Session struct {
	Name  string         `json:"name" yaml:"name"`
	Slots []ScheduleSlot `json:"slots" yaml:"slots" validate:"min=1,dive"`
}

// ScheduleSlot is one row of the schedule table. Material is optional and may be
// a file name relative to Workshop.MaterialsBaseURL.
type ScheduleSlot struct {
	Start    ClockTime `json:"start" yaml:"start"`
	End      ClockTime `json:"end" yaml:"end"`
	Time     string    `json:"-" yaml:"time,omitempty"`
	Label    string    `json:"label" yaml:"label" validate:"required"`
	Material string    `json:"material,omitempty" yaml:"material,omitempty"`
}

// Range formats the slot as "09:10-09:30".
func (s ScheduleSlot) Range() string {
	return s.Start.String() + "-" + s.End.String()
}

// HasMaterial reports whether the slot links to slides or other material.
func (s ScheduleSlot) HasMaterial() bool {
	return strings.TrimSpace(s.Material) != ""
}

// Paper is an accepted submission.
type Paper struct {
	Authors []string `json:"authors" yaml:"authors" validate:"min=1,dive,required"`
	Title   string   `json:"title" yaml:"title" validate:"required"`
	URL     string   `json:"url" yaml:"url" validate:"required,absurl"`
}

// FirstAuthorSurname returns the last name token of the first author, or ""
// when the paper has no authors.
func (p Paper) FirstAuthorSurname() string {
	if len(p.Authors) == 0 {
		return ""
	}
	fields := strings.Fields(p.Authors[0])
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// AuthorLine joins the author list the way it is printed on the page.
func (p Paper) AuthorLine() string {
	switch len(p.Authors) {
	case 0:
		return ""
	case 1:
		return p.Authors[0]
	case 2:
		return p.Authors[0] + " and " + p.Authors[1]
	}
	return strings.Join(p.Authors[:len(p.Authors)-1], ", ") + " and " + p.Authors[len(p.Authors)-1]
}

// ImageCredit attributes the header image. URL may be a relative asset path.
type ImageCredit struct {
	URL        string `json:"url" yaml:"url" validate:"required"`
	Author     string `json:"author" yaml:"author" validate:"required"`
	AuthorURL  string `json:"author_url" yaml:"author_url" validate:"required,absurl"`
	License    string `json:"license" yaml:"license" validate:"required"`
	LicenseURL string `json:"license_url" yaml:"license_url" validate:"required,absurl"`
}

// Drafts holds editorial content kept alongside the page but never published.
type Drafts struct {
	Speakers      []SpeakerDraft `json:"speakers,omitempty" yaml:"speakers,omitempty"`
	CallForPapers *CallForPapers `json:"call_for_papers,omitempty" yaml:"call_for_papers,omitempty"`
}

// Empty reports whether there is no draft content.
func (d Drafts) Empty() bool {
	return len(d.Speakers) == 0 && d.CallForPapers == nil
}

// SpeakerDraft is an entry of the unpublished invited speaker list.
type SpeakerDraft struct {
	Name        string `json:"name" yaml:"name"`
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`
	URL         string `json:"url,omitempty" yaml:"url,omitempty"`
}

// CallForPapers is the withdrawn submission call.
type CallForPapers struct {
	Text     []string `json:"text,omitempty" yaml:"text,omitempty"`
	Topics   []string `json:"topics,omitempty" yaml:"topics,omitempty"`
	Deadline string   `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	Contact  string   `json:"contact,omitempty" yaml:"contact,omitempty"`
}

// AllSlots flattens the schedule in authored order.
func (w *Workshop) AllSlots() []ScheduleSlot {
	var out []ScheduleSlot
	for _, s := range w.Schedule {
		out = append(out, s.Slots...)
	}
	return out
}

// MaterialURL resolves a slot's material against MaterialsBaseURL. Absolute
// links are returned unchanged; "" means the slot has no material.
func (w *Workshop) MaterialURL(s ScheduleSlot) string {
	m := strings.TrimSpace(s.Material)
	if m == "" {
		return ""
	}
	if strings.Contains(m, "://") || w.MaterialsBaseURL == "" {
		return m
	}
	return strings.TrimRight(w.MaterialsBaseURL, "/") + "/" + strings.TrimLeft(m, "/")
}

// WorkshopRepository defines the interface for workshop content storage.
type WorkshopRepository interface {
	Get(ctx context.Context, slug string) (*Workshop, error)
	Save(ctx context.Context, w *Workshop) error
	List(ctx context.Context) ([]string, error)
}

// ContentFetcher downloads a content document published at a URL.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) (*Workshop, error)
}

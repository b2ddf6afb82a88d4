package linkcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"workshopsite/internal/domain"
)

func TestCollect(t *testing.T) {
	w := &domain.Workshop{
		Image: domain.ImageCredit{
			URL:        "img/header.jpg",
			AuthorURL:  "https://example.org/author",
			LicenseURL: "https://example.org/license",
		},
		Organizers:       []domain.Organizer{{Name: "A", URL: "https://example.org/a"}},
		MaterialsBaseURL: "https://example.org/slides",
		Schedule: []domain.Session{{Slots: []domain.ScheduleSlot{
			{Label: "Opening Remarks"},
			{Label: "David Duvenaud", Material: "DavidDuvenaud.pdf"},
		}}},
		Papers: []domain.Paper{{URL: "https://example.org/p.pdf"}},
	}

	assert.Equal(t, []domain.Link{
		{URL: "https://example.org/author", Field: "image.author_url"},
		{URL: "https://example.org/license", Field: "image.license_url"},
		{URL: "https://example.org/a", Field: "organizers[0].url"},
		{URL: "https://example.org/slides/DavidDuvenaud.pdf", Field: "schedule[0].slots[1].material"},
		{URL: "https://example.org/p.pdf", Field: "papers[0].url"},
	}, Collect(w))

	assert.Nil(t, Collect(nil))
}

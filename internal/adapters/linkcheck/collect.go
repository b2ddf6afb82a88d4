// Package linkcheck finds and probes the outbound links of a workshop page.
package linkcheck

import (
	"fmt"

	"workshopsite/internal/domain"
)

// Collect lists every outbound link of w with the field it came from, in page
// order. Relative material names are resolved against MaterialsBaseURL; the
// relative image asset is not an outbound link and is skipped.
func Collect(w *domain.Workshop) []domain.Link {
	if w == nil {
		return nil
	}
	var links []domain.Link
	add := func(url, field string) {
		if url != "" {
			links = append(links, domain.Link{URL: url, Field: field})
		}
	}
	add(w.Image.AuthorURL, "image.author_url")
	add(w.Image.LicenseURL, "image.license_url")
	for i, o := range w.Organizers {
		add(o.URL, fmt.Sprintf("organizers[%d].url", i))
	}
	for i, s := range w.Schedule {
		for j, slot := range s.Slots {
			add(w.MaterialURL(slot), fmt.Sprintf("schedule[%d].slots[%d].material", i, j))
		}
	}
	for i, p := range w.Papers {
		add(p.URL, fmt.Sprintf("papers[%d].url", i))
	}
	return links
}

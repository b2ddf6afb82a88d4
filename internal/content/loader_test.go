package content

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workshopsite/internal/domain"
)

func TestLoad_YAML(t *testing.T) {
	w, err := Load(filepath.Join("testdata", "pn-workshop.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "pn-workshop", w.Slug)
	assert.Len(t, w.Organizers, 3)
	require.Len(t, w.Schedule, 2)

	morning := w.Schedule[0].Slots
	assert.Equal(t, "09:00-09:10", morning[0].Range())
	assert.Equal(t, "Opening Remarks", morning[0].Label)
	assert.False(t, morning[0].HasMaterial())

	// "time" shorthand is expanded and cleared
	assert.Equal(t, "09:10-09:30", morning[1].Range())
	assert.Empty(t, morning[1].Time)
	assert.Equal(t, "DavidDuvenaud.pdf", morning[2].Material)

	require.NotNil(t, w.Drafts.CallForPapers)
	assert.Equal(t, "pn-workshop@example.org", w.Drafts.CallForPapers.Contact)
	assert.Len(t, w.Drafts.Speakers, 3)
}

func TestLoad_JSONDefaultsSlugFromFileName(t *testing.T) {
	w, err := Load(filepath.Join("testdata", "pn-workshop.json"))
	require.NoError(t, err)
	assert.Equal(t, "pn-workshop", w.Slug)
	assert.Equal(t, "JSON Workshop", w.Title)
	assert.Equal(t, domain.ClockTime(600), w.Schedule[0].Slots[0].Start)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "unknown-field.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "venue")

	_, err = Load(filepath.Join("testdata", "missing.yaml"))
	require.Error(t, err)

	tmp := filepath.Join(t.TempDir(), "page.toml")
	require.NoError(t, os.WriteFile(tmp, []byte("x"), 0o644))
	_, err = Load(tmp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestDecodeYAML_BadTimeRange(t *testing.T) {
	doc := `
title: T
schedule:
  - name: Morning
    slots:
      - {time: "9am", label: x}
`
	_, err := DecodeYAML(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedule[0].slots[0]")
}

func TestDecodeYAML_Empty(t *testing.T) {
	_, err := DecodeYAML(strings.NewReader(""))
	require.Error(t, err)
}

func TestEncodeYAML_RoundTrip(t *testing.T) {
	w, err := Load(filepath.Join("testdata", "pn-workshop.yaml"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeYAML(&buf, w))
	assert.Contains(t, buf.String(), "09:10")
	assert.NotContains(t, buf.String(), "time:")

	back, err := DecodeYAML(&buf)
	require.NoError(t, err)
	assert.Equal(t, w.AllSlots(), back.AllSlots())
	assert.Equal(t, w.Papers, back.Papers)
	assert.Equal(t, w.Drafts, back.Drafts)
}

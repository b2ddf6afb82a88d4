package controllers

import (
	"log/slog"
	"net/http"

	h "workshopsite/internal/delivery/http/helpers"
	"workshopsite/internal/domain"
)

// WorkshopResponse is the public JSON form of a workshop. Drafts are never included.
type WorkshopResponse struct {
	Slug             string             `json:"slug"`
	Title            string             `json:"title"`
	Date             string             `json:"date"`
	Location         string             `json:"location"`
	Abstract         []string           `json:"abstract"`
	Questions        []string           `json:"questions"`
	Image            domain.ImageCredit `json:"image"`
	Organizers       []domain.Organizer `json:"organizers"`
	Schedule         []SessionResponse  `json:"schedule"`
	Papers           []domain.Paper     `json:"papers"`
	MaterialsBaseURL string             `json:"materials_base_url,omitempty"`
}

// SessionResponse is a schedule session with materials resolved to absolute links.
type SessionResponse struct {
	Name  string         `json:"name"`
	Slots []SlotResponse `json:"slots"`
}

// SlotResponse is one schedule row. Material is empty when the row has none.
type SlotResponse struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Label    string `json:"label"`
	Material string `json:"material"`
}

func newWorkshopResponse(w *domain.Workshop) WorkshopResponse {
	resp := WorkshopResponse{
		Slug:             w.Slug,
		Title:            w.Title,
		Date:             w.Date,
		Location:         w.Location,
		Abstract:         w.Abstract,
		Questions:        w.Questions,
		Image:            w.Image,
		Organizers:       w.Organizers,
		Papers:           w.Papers,
		MaterialsBaseURL: w.MaterialsBaseURL,
		Schedule:         make([]SessionResponse, 0, len(w.Schedule)),
	}
	for _, s := range w.Schedule {
		session := SessionResponse{Name: s.Name, Slots: make([]SlotResponse, 0, len(s.Slots))}
		for _, slot := range s.Slots {
			session.Slots = append(session.Slots, SlotResponse{
				Start:    slot.Start.String(),
				End:      slot.End.String(),
				Label:    slot.Label,
				Material: w.MaterialURL(slot),
			})
		}
		resp.Schedule = append(resp.Schedule, session)
	}
	return resp
}

// SiteController serves the rendered page and its content for one workshop.
type SiteController struct {
	Logger  *slog.Logger
	Service domain.SiteService
	Slug    string
}

func NewSiteController(logger *slog.Logger, svc domain.SiteService, slug string) *SiteController {
	return &SiteController{Logger: logger, Service: svc, Slug: slug}
}

func (c *SiteController) writeHTML(w http.ResponseWriter, r *http.Request, page []byte, err error) {
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteDomainError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

// Page godoc
// @Summary Workshop page
// @Description Renders the public workshop page. Invalid content is refused with 422 rather than served.
// @Tags site
// @Produce html
// @Success 200 {string} string "HTML page"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: invalid_content"
// @Router / [get]
func (c *SiteController) Page(w http.ResponseWriter, r *http.Request) {
	page, err := c.Service.Page(r.Context(), c.Slug)
	c.writeHTML(w, r, page, err)
}

// Drafts godoc
// @Summary Draft preview
// @Description Renders the unpublished draft blocks (invited speakers, call for papers) for editors.
// @Tags site
// @Produce html
// @Security BearerAuth
// @Success 200 {string} string "HTML preview"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /drafts [get]
func (c *SiteController) Drafts(w http.ResponseWriter, r *http.Request) {
	page, err := c.Service.Drafts(r.Context(), c.Slug)
	c.writeHTML(w, r, page, err)
}

// Workshop godoc
// @Summary Workshop content
// @Description Returns the published workshop content as JSON. Draft blocks are omitted and slide links are resolved.
// @Tags api
// @Produce json
// @Success 200 {object} helpers.APIResponse{data=controllers.WorkshopResponse}
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/workshop [get]
func (c *SiteController) Workshop(w http.ResponseWriter, r *http.Request) {
	ws, err := c.Service.Workshop(r.Context(), c.Slug)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteDomainError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, r, http.StatusOK, newWorkshopResponse(ws))
}

// Validation godoc
// @Summary Content validation report
// @Description Checks author lists, paper order, schedule order and overlap, and link form. A report with issues is still a 200.
// @Tags api
// @Produce json
// @Success 200 {object} helpers.APIResponse{data=domain.ValidationReport}
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/validation [get]
func (c *SiteController) Validation(w http.ResponseWriter, r *http.Request) {
	report, err := c.Service.Validate(r.Context(), c.Slug)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteDomainError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, r, http.StatusOK, report)
}

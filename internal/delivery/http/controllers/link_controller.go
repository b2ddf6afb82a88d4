package controllers

import (
	"log/slog"
	"net/http"

	h "workshopsite/internal/delivery/http/helpers"
	"workshopsite/internal/domain"
)

// LinkReportResponse is a page of link statuses.
type LinkReportResponse struct {
	RunID    string              `json:"run_id,omitempty"`
	Slug     string              `json:"slug"`
	Broken   int                 `json:"broken"`
	Statuses []domain.LinkStatus `json:"statuses"`
	Meta     h.PaginationMeta    `json:"meta"`
}

type LinkController struct {
	Logger  *slog.Logger
	Service domain.LinkService
	Slug    string
}

func NewLinkController(logger *slog.Logger, svc domain.LinkService, slug string) *LinkController {
	return &LinkController{Logger: logger, Service: svc, Slug: slug}
}

func (c *LinkController) write(w http.ResponseWriter, r *http.Request, report *domain.LinkReport, err error) {
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteDomainError(w, r, err)
		return
	}
	p := h.ParsePagination(r)
	h.WriteJSONSuccess(w, r, http.StatusOK, LinkReportResponse{
		RunID:    report.RunID,
		Slug:     report.Slug,
		Broken:   len(report.Broken()),
		Statuses: h.Paginate(report.Statuses, p),
		Meta:     h.NewPaginationMeta(p.Page, p.PageSize, len(report.Statuses)),
	})
}

// Links godoc
// @Summary Cached link statuses
// @Description Returns the last known status of every outbound link. Links never checked have status_code 0.
// @Tags api
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 50, max 200)"
// @Success 200 {object} helpers.APIResponse{data=controllers.LinkReportResponse}
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/links [get]
func (c *LinkController) Links(w http.ResponseWriter, r *http.Request) {
	report, err := c.Service.Cached(r.Context(), c.Slug)
	c.write(w, r, report, err)
}

// Check godoc
// @Summary Run a link check
// @Description Probes every outbound link now and refreshes the cache.
// @Tags api
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse{data=controllers.LinkReportResponse}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/links/check [post]
func (c *LinkController) Check(w http.ResponseWriter, r *http.Request) {
	report, err := c.Service.CheckLinks(r.Context(), c.Slug)
	c.write(w, r, report, err)
}

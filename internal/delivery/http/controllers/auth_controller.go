package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "workshopsite/internal/delivery/http/helpers"
	"workshopsite/internal/domain"
)

// TokenRequest is the request body for POST /auth/token
type TokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (l TokenRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(l.Email) == "" {
		errs = append(errs, "email is required")
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// TokenResponse is the response body for POST /auth/token
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{Logger: logger, Service: svc}
}

// Token godoc
// @Summary Editor token
// @Description Exchange the editor's email and password for a JWT that unlocks the draft preview.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body TokenRequest true "Editor credentials"
// @Success 200 {object} helpers.APIResponse{data=controllers.TokenResponse}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/token [post]
func (c *AuthController) Token(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, err := c.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			c.Logger.WarnContext(r.Context(), "editor login refused", "email", req.Email)
			h.WriteJSONError(w, r, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid credentials")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, r, http.StatusInternalServerError, h.ErrCodeInternalError, "failed to issue token")
		return
	}
	h.WriteJSONSuccess(w, r, http.StatusOK, TokenResponse{Token: token, TokenType: "Bearer"})
}

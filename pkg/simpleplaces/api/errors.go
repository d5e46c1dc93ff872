package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/tendant/simple-places/pkg/simpleplaces"
)

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error  string               `json:"error"`
	Issues []simpleplaces.Issue `json:"issues,omitempty"`
}

func statusFor(err error) int {
	var verr *simpleplaces.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, simpleplaces.ErrPostNotFound),
		errors.Is(err, simpleplaces.ErrMediaOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, simpleplaces.ErrPostExists):
		return http.StatusConflict
	case errors.Is(err, simpleplaces.ErrMalformedSubmission),
		errors.Is(err, simpleplaces.ErrInvalidMediaOrder),
		errors.Is(err, simpleplaces.ErrInvalidSlider),
		errors.Is(err, simpleplaces.ErrInvalidMedia):
		return http.StatusBadRequest
	case errors.As(err, new(*http.MaxBytesError)):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, simpleplaces.ErrNoMediaStore):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := ErrorResponse{Error: err.Error()}

	var verr *simpleplaces.ValidationError
	if errors.As(err, &verr) {
		resp.Error = "validation failed"
		resp.Issues = verr.Issues
	}
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "err", err)
		resp.Error = http.StatusText(status)
	}

	render.Status(r, status)
	render.JSON(w, r, resp)
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.DebugContext(r.Context(), msg, "err", err)
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, ErrorResponse{Error: msg})
}


package server

import (
	"encoding/json"
	"errors"
	"net/http"

	errs "github.com/c112110130-dot/waste-system-django-sub002/pkg/errors"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/session"
)

type errorBody struct {
	Error string    `json:"error"`
	Code  errs.Code `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status and writes {error, code}.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := errs.GetCode(err), errs.UserMessage(err)
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrExpired):
		code = errs.ErrCodeNotFound
	case code == "":
		code, msg = errs.ErrCodeInternal, "internal error"
	}
	status := statusFor(code)
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "code", code, "error", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "code", code, "error", err)
	}
	writeJSON(w, status, errorBody{Error: msg, Code: code})
}

func statusFor(code errs.Code) int {
	switch code {
	case errs.ErrCodeMissingDataset,
		errs.ErrCodeInvalidInput,
		errs.ErrCodeInvalidDataset,
		errs.ErrCodeInvalidFormat,
		errs.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errs.ErrCodeMissingRenderTarget:
		return http.StatusConflict
	case errs.ErrCodeMissingCapability:
		return http.StatusNotImplemented
	case errs.ErrCodeNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

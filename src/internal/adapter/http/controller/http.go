package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/orgbook/orgbook-api/src/internal/adapter/http/middleware"
	"github.com/orgbook/orgbook-api/src/internal/domain"
)

// requesterFrom pulls the authenticated requester off the context, replying
// 401 when the auth middleware did not run.
func requesterFrom(w http.ResponseWriter, r *http.Request) (domain.Requester, bool) {
	requester, ok := middleware.RequesterFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}
	return requester, ok
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// statusFromError maps service errors onto HTTP status codes. Services wrap
// failures with the domain sentinels, so the mapping is a chain of errors.Is
// checks rather than message matching.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

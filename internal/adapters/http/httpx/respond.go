// Package httpx holds response helpers and middleware shared by the three
// service APIs.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matchday/refassign/internal/adapters/repository"
	"github.com/matchday/refassign/internal/peers"
)

// detailResponse mirrors the error body shape used across all services.
type detailResponse struct {
	Detail string `json:"detail"`
}

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteDetail writes an error body of the form {"detail": msg}.
func WriteDetail(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, detailResponse{Detail: msg})
}

// WriteError maps err through the error taxonomy and writes it.
func WriteError(w http.ResponseWriter, err error) {
	status, msg := StatusFor(err)
	WriteDetail(w, status, msg)
}

// StatusFor maps an error to its stable status class and user-visible
// message. Every class has exactly one code: referenced or requested
// entities that are absent answer 404, peer communication faults answer
// 502, local storage faults answer 503, conflicts answer 409. Anything
// unclassified is a plain 500 with the error's own message.
func StatusFor(err error) (int, string) {
	var nf *peers.NotFoundError
	var comm *peers.CommError
	switch {
	case errors.As(err, &nf):
		return http.StatusNotFound, nf.Error()
	case errors.As(err, &comm):
		return http.StatusBadGateway, comm.Error()
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, repository.ErrNotFound.Error()
	case errors.Is(err, repository.ErrDuplicateGame):
		return http.StatusConflict, repository.ErrDuplicateGame.Error()
	case errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict, repository.ErrDuplicate.Error()
	case errors.Is(err, repository.ErrUnavailable):
		return http.StatusServiceUnavailable, repository.ErrUnavailable.Error()
	}
	return http.StatusInternalServerError, err.Error()
}

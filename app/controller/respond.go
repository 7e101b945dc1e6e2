package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"vongtay-handmade/repository"
)

// writeJSON encodes v as the response body with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ writeJSON: Error encoding response: %v", err)
	}
}

// writeRepositoryError maps repository errors to HTTP status codes:
// validation → 400, not found → 404, consistency violation → 500.
// Capacity outcomes (sold out, per-customer limit) are results, not
// errors, and never reach this function.
func writeRepositoryError(w http.ResponseWriter, err error) {
	switch {
	case repository.IsValidation(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, repository.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case repository.IsConsistency(err):
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		http.Error(w, fmt.Sprintf("Internal error: %v", err), http.StatusInternalServerError)
	}
}

// pathID extracts the numeric ID segment following prefix in the URL path.
// For "/admin/orders/12/items" with prefix "/admin/orders/" it returns 12.
func pathID(path, prefix string) (int64, error) {
	trimmed := strings.TrimPrefix(path, prefix)
	segment := trimmed
	if i := strings.Index(trimmed, "/"); i >= 0 {
		segment = trimmed[:i]
	}
	id, err := strconv.ParseInt(segment, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", segment)
	}
	return id, nil
}

package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"carehub/internal/domain"
)

// writeReject writes the uniform rejection envelope. Every gate rejection is
// immediate and terminal for the request.
func writeReject(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(domain.Response{
		Success: false,
		Message: msg,
	}); err != nil {
		slog.Error("encoding error response", "error", err)
	}
}

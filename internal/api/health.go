package api

import "net/http"

// Healthz reports process liveness.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.writeData(w, http.StatusOK, "", map[string]string{"status": "ok"})
}

// Readyz reports whether the store is reachable.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	if _, err := h.accounts.Count(r.Context()); err != nil {
		h.logger.Error("readiness check", "error", err)
		h.writeError(w, http.StatusServiceUnavailable, "Store unavailable")
		return
	}
	h.writeData(w, http.StatusOK, "", map[string]string{"status": "ready"})
}

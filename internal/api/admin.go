package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"carehub/internal/carehub"
	"carehub/internal/domain"
)

// ListUsers returns every account without secrets.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		h.logger.Error("listing accounts", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	views := make([]accountView, len(accounts))
	for i, a := range accounts {
		views[i] = viewOf(a)
	}
	h.writeData(w, http.StatusOK, "", views)
}

// UpdateUserRole changes the role of the account named in the URL.
// Admins cannot demote themselves.
func (h *Handler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	caller, ok := carehub.CallerFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	var req updateRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Valid role is required")
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Valid role is required")
		return
	}

	id := chi.URLParam(r, "id")
	account, err := h.accounts.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("loading account", "error", err, "account_id", id)
		h.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if account.ID == caller.ID && role != domain.RoleAdmin {
		h.writeError(w, http.StatusForbidden, "Cannot change your own admin role")
		return
	}

	previous := account.Role
	account.Role = role
	account.UpdatedAt = h.now().UTC()
	if err := h.accounts.Save(r.Context(), account); err != nil {
		h.logger.Error("saving role change", "error", err, "account_id", id)
		h.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	h.logger.Info("role changed",
		"actor_id", caller.ID,
		"target_id", account.ID,
		"from", previous,
		"to", role,
		"request_id", carehub.RequestIDFromContext(r.Context()),
	)

	h.writeData(w, http.StatusOK, "User role updated successfully", account.Summary())
}

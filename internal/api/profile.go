package api

import (
	"errors"
	"net/http"

	"carehub/internal/carehub"
	"carehub/internal/domain"
)

// GetProfile returns the caller's own profile document.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := carehub.CallerFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	profile, err := h.profiles.FindByAccountID(r.Context(), caller.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		h.logger.Error("loading profile", "error", err, "account_id", caller.ID)
		h.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	h.writeData(w, http.StatusOK, "", profile)
}

// UpdateProfile upserts the caller's own profile document. The document is
// keyed on the caller id, so a caller can never write anyone else's profile.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := carehub.CallerFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	var upd profileUpdate
	if err := decodeJSON(r, &upd); err != nil {
		h.writeError(w, http.StatusBadRequest, "Malformed profile data")
		return
	}

	now := h.now().UTC()
	profile, err := h.profiles.FindByAccountID(r.Context(), caller.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			h.logger.Error("loading profile", "error", err, "account_id", caller.ID)
			h.writeError(w, http.StatusInternalServerError, "Server error")
			return
		}
		profile = domain.Profile{
			AccountID:   caller.ID,
			Preferences: domain.DefaultPreferences(),
			CreatedAt:   now,
		}
	}

	applyProfileUpdate(&profile, upd, caller.Role)
	profile.UpdatedAt = now

	if err := h.profiles.Save(r.Context(), profile); err != nil {
		h.logger.Error("saving profile", "error", err, "account_id", caller.ID)
		h.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	h.writeData(w, http.StatusOK, "Profile updated successfully", profile)
}

// applyProfileUpdate merges the writable sections into the stored document.
// Role-specific sections only apply to the matching role; admins may write
// both.
func applyProfileUpdate(profile *domain.Profile, upd profileUpdate, role domain.Role) {
	if upd.Bio != nil {
		profile.Bio = *upd.Bio
	}
	if upd.Address != nil {
		profile.Address = *upd.Address
	}
	if upd.EmergencyContact != nil {
		profile.EmergencyContact = *upd.EmergencyContact
	}
	if upd.Preferences != nil {
		profile.Preferences = *upd.Preferences
	}
	if upd.Caregiver != nil && (role == domain.RoleCaregiver || role == domain.RoleAdmin) {
		profile.Caregiver = *upd.Caregiver
	}
	if upd.CareRecipient != nil && (role == domain.RoleCareRecipient || role == domain.RoleAdmin) {
		profile.CareRecipient = *upd.CareRecipient
	}
}

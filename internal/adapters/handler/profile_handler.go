package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/vitaljournal/journal-service/internal/core/domain"
	"github.com/vitaljournal/journal-service/internal/core/ports"
)

// ProfileHandler handles HTTP requests for the single user profile
type ProfileHandler struct {
	profileService ports.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// SaveProfile handles PUT /profile - wholesale replacement
func (h *ProfileHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	var profile domain.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		log.Printf("[%s] Failed to decode request: %v", requestID, err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	saved, err := h.profileService.SaveProfile(r.Context(), &profile)
	if err != nil {
		log.Printf("[%s] Failed to save profile: %v", requestID, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	logStructured(requestID, "PUT", "/profile", http.StatusOK, time.Since(startTime))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(saved); err != nil {
		log.Printf("[%s] Failed to encode response: %v", requestID, err)
	}
}

// GetProfile handles GET /profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	profile, err := h.profileService.GetProfile(r.Context())
	if err != nil {
		log.Printf("[%s] Failed to get profile: %v", requestID, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if profile == nil {
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	}

	logStructured(requestID, "GET", "/profile", http.StatusOK, time.Since(startTime))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(profile); err != nil {
		log.Printf("[%s] Failed to encode response: %v", requestID, err)
	}
}

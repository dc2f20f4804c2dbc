package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/vitaljournal/journal-service/internal/core/domain"
	"github.com/vitaljournal/journal-service/internal/core/ports"
)

// HospitalHandler handles HTTP requests for hospital ingestion, location
// updates and lookup
type HospitalHandler struct {
	hospitalService ports.HospitalService
}

// NewHospitalHandler creates a new hospital handler
func NewHospitalHandler(hospitalService ports.HospitalService) *HospitalHandler {
	return &HospitalHandler{
		hospitalService: hospitalService,
	}
}

// HospitalView is a hospital plus its distance: display-formatted always,
// numeric kilometers only when the distance is actually known
type HospitalView struct {
	*domain.Hospital
	DistanceKm *float64 `json:"distance_km,omitempty"`
	Distance   string   `json:"distance"`
}

func toViews(hospitals []*domain.Hospital) []HospitalView {
	views := make([]HospitalView, 0, len(hospitals))
	for _, h := range hospitals {
		view := HospitalView{Hospital: h, Distance: domain.FormatDistance(h.DistanceKm)}
		if h.HasKnownDistance() {
			km := h.DistanceKm
			view.DistanceKm = &km
		}
		views = append(views, view)
	}
	return views
}

// IngestRequest is the body for POST /hospitals. Replace drops the stored
// directory and treats the batch as the new full set.
type IngestRequest struct {
	Replace   bool                      `json:"replace,omitempty"`
	Hospitals []ports.HospitalCandidate `json:"hospitals"`
}

// IngestResponse reports how many facilities were stored
type IngestResponse struct {
	Stored int `json:"stored"`
}

// IngestHospitals handles POST /hospitals - candidate facility ingestion
func (h *HospitalHandler) IngestHospitals(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[%s] Failed to decode request: %v", requestID, err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var stored int
	var err error
	if req.Replace {
		stored, err = h.hospitalService.ReplaceCandidates(r.Context(), req.Hospitals)
	} else {
		stored, err = h.hospitalService.IngestCandidates(r.Context(), req.Hospitals)
	}
	if err != nil {
		log.Printf("[%s] Failed to ingest hospitals: %v", requestID, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	HospitalsIngestedTotal.Add(float64(stored))
	logStructured(requestID, "POST", "/hospitals", http.StatusCreated, time.Since(startTime))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(IngestResponse{Stored: stored}); err != nil {
		log.Printf("[%s] Failed to encode response: %v", requestID, err)
	}
}

// LocationRequest is the body for PUT /location
type LocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// SetLocation handles PUT /location - updates the coordinates used for
// distance ranking; a body with null coordinates clears the location
func (h *HospitalHandler) SetLocation(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	var req LocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[%s] Failed to decode request: %v", requestID, err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Latitude == nil || req.Longitude == nil {
		h.hospitalService.SetLocation(nil)
	} else {
		h.hospitalService.SetLocation(&domain.Coordinates{
			Latitude:  *req.Latitude,
			Longitude: *req.Longitude,
		})
	}

	logStructured(requestID, "PUT", "/location", http.StatusNoContent, time.Since(startTime))

	w.WriteHeader(http.StatusNoContent)
}

// FindNearest handles GET /hospitals/nearest?q=... - top 3 by ascending distance
func (h *HospitalHandler) FindNearest(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	query := r.URL.Query().Get("q")
	hospitals, err := h.hospitalService.FindNearest(r.Context(), query)
	if err != nil {
		log.Printf("[%s] Failed to find nearest hospitals: q=%q, error=%v", requestID, query, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logStructured(requestID, "GET", "/hospitals/nearest", http.StatusOK, time.Since(startTime))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(toViews(hospitals)); err != nil {
		log.Printf("[%s] Failed to encode response: %v", requestID, err)
	}
}

// ListHospitals handles GET /hospitals?specialty=...&emergency=true - the
// full filtered set for browsing, unbounded
func (h *HospitalHandler) ListHospitals(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	filter := ports.HospitalFilter{
		Specialty: r.URL.Query().Get("specialty"),
	}
	if emergencyParam := r.URL.Query().Get("emergency"); emergencyParam != "" {
		emergencyOnly, err := strconv.ParseBool(emergencyParam)
		if err != nil {
			log.Printf("[%s] Invalid emergency parameter: %s", requestID, emergencyParam)
			http.Error(w, "invalid emergency parameter (must be boolean)", http.StatusBadRequest)
			return
		}
		filter.EmergencyOnly = emergencyOnly
	}

	hospitals, err := h.hospitalService.ListFiltered(r.Context(), filter)
	if err != nil {
		log.Printf("[%s] Failed to list hospitals: %v", requestID, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logStructured(requestID, "GET", "/hospitals", http.StatusOK, time.Since(startTime))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(toViews(hospitals)); err != nil {
		log.Printf("[%s] Failed to encode response: %v", requestID, err)
	}
}

package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vitaljournal/journal-service/internal/core/domain"
	"github.com/vitaljournal/journal-service/internal/core/ports"
)

// RecordHandler handles HTTP requests for check-in operations and the
// derived advisory output
type RecordHandler struct {
	recordService ports.RecordService
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(recordService ports.RecordService) *RecordHandler {
	return &RecordHandler{
		recordService: recordService,
	}
}

// CreateRecordResponse pairs the stored record with the assessment it produced
type CreateRecordResponse struct {
	Record     *domain.HealthRecord   `json:"record"`
	Assessment *domain.RiskAssessment `json:"assessment"`
}

// CreateRecord handles POST /records
func (h *RecordHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	var req ports.CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[%s] Failed to decode request: %v", requestID, err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	record, assessment, err := h.recordService.CreateRecord(r.Context(), req)
	if err != nil {
		log.Printf("[%s] Failed to create record: %v", requestID, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	RecordsCreatedTotal.WithLabelValues(string(assessment.Level)).Inc()
	logStructured(requestID, "POST", "/records", http.StatusCreated, time.Since(startTime))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(CreateRecordResponse{Record: record, Assessment: assessment}); err != nil {
		log.Printf("[%s] Failed to encode response: %v", requestID, err)
	}
}

// GetRecords handles GET /records?limit=N
func (h *RecordHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	var limit *int
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		limitInt, err := strconv.Atoi(limitParam)
		if err != nil || limitInt <= 0 {
			log.Printf("[%s] Invalid limit parameter: %s", requestID, limitParam)
			http.Error(w, "invalid limit parameter (must be positive integer)", http.StatusBadRequest)
			return
		}
		limit = &limitInt
	}

	records, err := h.recordService.GetRecords(r.Context(), limit)
	if err != nil {
		log.Printf("[%s] Failed to get records: %v", requestID, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []*domain.HealthRecord{}
	}

	logStructured(requestID, "GET", "/records", http.StatusOK, time.Since(startTime))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(records); err != nil {
		log.Printf("[%s] Failed to encode response: %v", requestID, err)
	}
}

// GetRecordByID handles GET /records/{record_id}
func (h *RecordHandler) GetRecordByID(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	recordIDStr := r.PathValue("record_id")
	recordID, err := uuid.Parse(recordIDStr)
	if err != nil {
		log.Printf("[%s] Invalid record ID: %v", requestID, err)
		http.Error(w, "invalid record ID", http.StatusBadRequest)
		return
	}

	record, err := h.recordService.GetRecordByID(r.Context(), recordID)
	if err != nil {
		log.Printf("[%s] Failed to get record: record_id=%s, error=%v", requestID, recordIDStr, err)
		if strings.Contains(err.Error(), "record not found") {
			http.Error(w, "record not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logStructured(requestID, "GET", "/records/"+recordIDStr, http.StatusOK, time.Since(startTime))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(record); err != nil {
		log.Printf("[%s] Failed to encode response: %v", requestID, err)
	}
}

// DeleteRecord handles DELETE /records/{record_id}
func (h *RecordHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	recordIDStr := r.PathValue("record_id")
	recordID, err := uuid.Parse(recordIDStr)
	if err != nil {
		log.Printf("[%s] Invalid record ID: %v", requestID, err)
		http.Error(w, "invalid record ID", http.StatusBadRequest)
		return
	}

	if err := h.recordService.DeleteRecord(r.Context(), recordID); err != nil {
		log.Printf("[%s] Failed to delete record: record_id=%s, error=%v", requestID, recordIDStr, err)
		if strings.Contains(err.Error(), "record not found") {
			http.Error(w, "record not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logStructured(requestID, "DELETE", "/records/"+recordIDStr, http.StatusNoContent, time.Since(startTime))

	w.WriteHeader(http.StatusNoContent)
}

// GetSuggestion handles GET /records/{record_id}/suggestion
func (h *RecordHandler) GetSuggestion(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	recordIDStr := r.PathValue("record_id")
	recordID, err := uuid.Parse(recordIDStr)
	if err != nil {
		log.Printf("[%s] Invalid record ID: %v", requestID, err)
		http.Error(w, "invalid record ID", http.StatusBadRequest)
		return
	}

	suggestion, err := h.recordService.SuggestForRecord(r.Context(), recordID)
	if err != nil {
		log.Printf("[%s] Failed to generate suggestion: record_id=%s, error=%v", requestID, recordIDStr, err)
		if strings.Contains(err.Error(), "record not found") {
			http.Error(w, "record not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logStructured(requestID, "GET", "/records/"+recordIDStr+"/suggestion", http.StatusOK, time.Since(startTime))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(suggestion); err != nil {
		log.Printf("[%s] Failed to encode response: %v", requestID, err)
	}
}

// GetAssessment handles GET /assessment - risk assessment for the latest record
func (h *RecordHandler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	assessment, err := h.recordService.AssessLatest(r.Context())
	if err != nil {
		log.Printf("[%s] Failed to assess latest record: %v", requestID, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logStructured(requestID, "GET", "/assessment", http.StatusOK, time.Since(startTime))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(assessment); err != nil {
		log.Printf("[%s] Failed to encode response: %v", requestID, err)
	}
}

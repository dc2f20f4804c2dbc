package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vitaljournal/journal-service/internal/core/domain"
	"github.com/vitaljournal/journal-service/internal/core/ports"
)

// RecordService implements business logic for check-in operations.
// Derives a risk assessment for every new record and publishes alerts for
// urgent-or-worse assessments (asynchronously).
type RecordService struct {
	recordRepo      ports.RecordRepository
	profileRepo     ports.ProfileRepository
	alertPublishers []ports.AlertPublisher
}

// NewRecordService creates a new record service. Every publisher receives
// each alert; typically one message broker plus one WebSocket hub.
func NewRecordService(
	recordRepo ports.RecordRepository,
	profileRepo ports.ProfileRepository,
	alertPublishers ...ports.AlertPublisher,
) *RecordService {
	return &RecordService{
		recordRepo:      recordRepo,
		profileRepo:     profileRepo,
		alertPublishers: alertPublishers,
	}
}

// CreateRecord appends a new check-in and returns it together with the risk
// assessment derived from (new record, full prior history). Out-of-range
// vitals are treated as absent rather than rejected, so creation never
// fails on bad sensor input.
func (s *RecordService) CreateRecord(ctx context.Context, req ports.CreateRecordRequest) (*domain.HealthRecord, *domain.RiskAssessment, error) {
	timestamp := req.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	record := &domain.HealthRecord{
		ID:           uuid.New(),
		Timestamp:    timestamp,
		Temperature:  req.Temperature,
		HeartRate:    req.HeartRate,
		SystolicBP:   req.SystolicBP,
		DiastolicBP:  req.DiastolicBP,
		OxygenLevel:  req.OxygenLevel,
		GlucoseLevel: req.GlucoseLevel,
		UrineNotes:   strings.TrimSpace(req.UrineNotes),
		Notes:        strings.TrimSpace(req.Notes),
		Symptoms:     cleanSymptoms(req.Symptoms),
		CreatedAt:    time.Now(),
	}
	domain.SanitizeVitals(record)

	// History is fetched before the insert so it holds only prior records
	history, err := s.recordRepo.GetRecords(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load record history: %w", err)
	}

	if err := s.recordRepo.CreateRecord(ctx, record); err != nil {
		return nil, nil, fmt.Errorf("failed to create record: %w", err)
	}

	s.logRecord(record, "created")

	assessment := domain.AssessRisk(record, history)

	// Urgent-or-worse assessments are published in a goroutine so check-in
	// latency is unaffected; publish failures are logged, never surfaced
	if assessment.Level.AtLeast(domain.RiskUrgent) {
		go func() {
			bgCtx := context.Background()
			for _, publisher := range s.alertPublishers {
				if err := publisher.PublishAlert(bgCtx, record, assessment); err != nil {
					log.Printf("Failed to publish alert for %s assessment: %v", assessment.Level, err)
				} else {
					s.logRecord(record, "alert_published")
				}
			}
		}()
	}

	return record, assessment, nil
}

// GetRecords retrieves check-ins newest first. The store gives no ordering
// guarantee, so the service re-sorts after retrieval; the sort is stable so
// records sharing a timestamp keep their insertion order.
func (s *RecordService) GetRecords(ctx context.Context, limit *int) ([]*domain.HealthRecord, error) {
	if limit != nil && *limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than 0")
	}

	records, err := s.recordRepo.GetRecords(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get records: %w", err)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})

	return records, nil
}

// GetRecordByID retrieves a specific check-in
func (s *RecordService) GetRecordByID(ctx context.Context, recordID uuid.UUID) (*domain.HealthRecord, error) {
	record, err := s.recordRepo.GetRecordByID(ctx, recordID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("record not found")
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("record not found")
	}
	return record, nil
}

// DeleteRecord deletes a check-in by ID
func (s *RecordService) DeleteRecord(ctx context.Context, recordID uuid.UUID) error {
	if err := s.recordRepo.DeleteRecord(ctx, recordID); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("record not found")
		}
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// AssessLatest derives the risk assessment for the most recent check-in.
// An empty record set yields a normal assessment, not an error.
func (s *RecordService) AssessLatest(ctx context.Context) (*domain.RiskAssessment, error) {
	records, err := s.GetRecords(ctx, nil)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &domain.RiskAssessment{
			Level:           domain.RiskNormal,
			Message:         "No check-ins recorded yet.",
			Recommendations: []string{"Log your first check-in to start tracking your vitals."},
		}, nil
	}
	return domain.AssessRisk(records[0], records[1:]), nil
}

// SuggestForRecord runs the suggestion engine for one record, with the
// records before it as history and the current profile (nil when none)
func (s *RecordService) SuggestForRecord(ctx context.Context, recordID uuid.UUID) (*domain.Suggestion, error) {
	records, err := s.GetRecords(ctx, nil)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, r := range records {
		if r.ID == recordID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("record not found")
	}

	profile, err := s.profileRepo.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	return domain.GenerateSuggestion(records[idx], records[idx+1:], profile), nil
}

// Interface compliance check
var _ ports.RecordService = (*RecordService)(nil)

// cleanSymptoms trims labels and drops empties; order is preserved
func cleanSymptoms(symptoms []string) []string {
	out := make([]string, 0, len(symptoms))
	for _, s := range symptoms {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// isNotFound recognizes "no rows" style errors from the repository,
// including those wrapped by retry logic
func isNotFound(err error) bool {
	if errors.Is(err, sql.ErrNoRows) {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "record not found") || strings.Contains(errStr, "no rows")
}

// logRecord logs structured JSON for record events
func (s *RecordService) logRecord(r *domain.HealthRecord, event string) {
	logEntry := map[string]interface{}{
		"event":      event,
		"record_id":  r.ID.String(),
		"symptoms":   r.Symptoms,
		"created_at": r.CreatedAt.Format(time.RFC3339),
	}

	if r.Temperature != nil {
		logEntry["temperature_raw"] = *r.Temperature
		if f, ok := domain.NormalizeTemperature(r.Temperature); ok {
			logEntry["temperature_f"] = f
		}
	}
	if r.HeartRate != nil {
		logEntry["heart_rate"] = *r.HeartRate
	}
	if r.OxygenLevel != nil {
		logEntry["oxygen_level"] = *r.OxygenLevel
	}
	if !r.Timestamp.IsZero() {
		logEntry["timestamp"] = r.Timestamp.Format(time.RFC3339)
	}

	jsonBytes, err := json.Marshal(logEntry)
	if err != nil {
		log.Printf("Failed to marshal record log entry: %v", err)
		return
	}

	log.Printf("%s", string(jsonBytes))
}

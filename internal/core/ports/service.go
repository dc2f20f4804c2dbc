package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vitaljournal/journal-service/internal/core/domain"
)

// RecordService defines the business logic for check-ins and the derived
// advisory output
type RecordService interface {
	// CreateRecord appends a new check-in, returning the stored record and
	// the risk assessment derived from it. Assessments at urgent level or
	// above are published as alerts asynchronously.
	CreateRecord(ctx context.Context, req CreateRecordRequest) (*domain.HealthRecord, *domain.RiskAssessment, error)

	// GetRecords retrieves check-ins newest first; limit is optional
	GetRecords(ctx context.Context, limit *int) ([]*domain.HealthRecord, error)

	// GetRecordByID retrieves a specific check-in
	GetRecordByID(ctx context.Context, recordID uuid.UUID) (*domain.HealthRecord, error)

	// DeleteRecord deletes a check-in by ID
	DeleteRecord(ctx context.Context, recordID uuid.UUID) error

	// AssessLatest derives the risk assessment for the most recent check-in.
	// With no records it returns a normal assessment, not an error.
	AssessLatest(ctx context.Context) (*domain.RiskAssessment, error)

	// SuggestForRecord runs the suggestion engine for one record using the
	// records before it as history and the current profile
	SuggestForRecord(ctx context.Context, recordID uuid.UUID) (*domain.Suggestion, error)
}

// ProfileService defines the business logic for the single user profile
type ProfileService interface {
	// SaveProfile replaces the profile wholesale, validating height and
	// weight against plausible ranges (out-of-range values are flagged,
	// not rejected)
	SaveProfile(ctx context.Context, profile *domain.UserProfile) (*domain.UserProfile, error)

	// GetProfile retrieves the profile; nil when none has been saved
	GetProfile(ctx context.Context) (*domain.UserProfile, error)
}

// HospitalService defines hospital ingestion, location tracking and lookup
type HospitalService interface {
	// IngestCandidates normalizes and stores candidate facilities, detecting
	// each one's category exactly once. Returns the number stored.
	IngestCandidates(ctx context.Context, candidates []HospitalCandidate) (int, error)

	// ReplaceCandidates clears the stored directory and ingests the batch as
	// the new full set. Returns the number stored.
	ReplaceCandidates(ctx context.Context, candidates []HospitalCandidate) (int, error)

	// SetLocation updates the current user coordinates used for distance
	// ranking; nil clears the location
	SetLocation(coords *domain.Coordinates)

	// Location returns the current coordinates, nil when unknown
	Location() *domain.Coordinates

	// FindNearest returns up to the 3 closest hospitals matching a free-text
	// disease/specialty query, ascending by distance with unknown distances last
	FindNearest(ctx context.Context, query string) ([]*domain.Hospital, error)

	// ListFiltered returns the full filtered set sorted ascending by
	// distance, unbounded
	ListFiltered(ctx context.Context, filter HospitalFilter) ([]*domain.Hospital, error)
}

// CreateRecordRequest is the input for creating a check-in. All vitals are
// optional; out-of-range values are silently treated as absent.
type CreateRecordRequest struct {
	Timestamp    time.Time `json:"timestamp"`
	Temperature  *float64  `json:"temperature,omitempty"`
	HeartRate    *float64  `json:"heart_rate,omitempty"`
	SystolicBP   *float64  `json:"systolic_bp,omitempty"`
	DiastolicBP  *float64  `json:"diastolic_bp,omitempty"`
	OxygenLevel  *float64  `json:"oxygen_level,omitempty"`
	GlucoseLevel *float64  `json:"glucose_level,omitempty"`
	UrineNotes   string    `json:"urine_notes,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	Symptoms     []string  `json:"symptoms,omitempty"`
}

// HospitalCandidate is raw facility data from the external directory.
// Fields are treated permissively: a missing name becomes "Unnamed", a
// missing phone "N/A", and empty specialties default to "General".
type HospitalCandidate struct {
	Name        string    `json:"name"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Description string    `json:"description,omitempty"`
	Specialties []string  `json:"specialties,omitempty"`
	Emergency   bool      `json:"emergency"`
}

// HospitalFilter selects hospitals for the browsing list. An empty or
// "all" specialty matches everything.
type HospitalFilter struct {
	EmergencyOnly bool   `json:"emergency_only"`
	Specialty     string `json:"specialty"`
}

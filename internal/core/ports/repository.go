package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vitaljournal/journal-service/internal/core/domain"
)

// RecordRepository defines durable storage for health records.
// The store guarantees keyed upsert and retrieve-all only; ordering is
// re-established by the service after retrieval.
type RecordRepository interface {
	// CreateRecord appends a new check-in; record ids are unique
	CreateRecord(ctx context.Context, record *domain.HealthRecord) error

	// GetRecords retrieves records sorted by timestamp descending with a
	// stable creation-order tie-break; limit is optional
	GetRecords(ctx context.Context, limit *int) ([]*domain.HealthRecord, error)

	// GetRecordByID retrieves a specific record
	GetRecordByID(ctx context.Context, recordID uuid.UUID) (*domain.HealthRecord, error)

	// DeleteRecord deletes a record by ID
	DeleteRecord(ctx context.Context, recordID uuid.UUID) error
}

// ProfileRepository defines storage for the single user profile
type ProfileRepository interface {
	// SaveProfile replaces the profile wholesale
	SaveProfile(ctx context.Context, profile *domain.UserProfile) error

	// GetProfile retrieves the profile; nil result and nil error when none exists
	GetProfile(ctx context.Context) (*domain.UserProfile, error)
}

// HospitalRepository defines storage for the hospital cache, keyed by name
type HospitalRepository interface {
	// UpsertHospital inserts or replaces a hospital by name
	UpsertHospital(ctx context.Context, hospital *domain.Hospital) error

	// ListHospitals retrieves all stored hospitals
	ListHospitals(ctx context.Context) ([]*domain.Hospital, error)

	// ClearHospitals removes every stored hospital
	ClearHospitals(ctx context.Context) error
}

// AlertPublisher defines the interface for publishing health alerts
type AlertPublisher interface {
	// PublishAlert publishes an alert event for an urgent-or-worse assessment
	PublishAlert(ctx context.Context, record *domain.HealthRecord, assessment *domain.RiskAssessment) error
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sony/gobreaker"
	"github.com/vitaljournal/journal-service/internal/core/domain"
	"github.com/vitaljournal/journal-service/internal/core/ports"
)

// SQLRepository implements RecordRepository, ProfileRepository and
// HospitalRepository using PostgreSQL.
// Includes retry logic and circuit breakers for resilience.
type SQLRepository struct {
	db         *sql.DB
	recordCB   *gobreaker.CircuitBreaker
	profileCB  *gobreaker.CircuitBreaker
	hospitalCB *gobreaker.CircuitBreaker
	maxRetries int
	retryDelay time.Duration
}

// NewSQLRepository creates a new PostgreSQL repository with circuit breakers
func NewSQLRepository(db *sql.DB) *SQLRepository {
	settings := gobreaker.Settings{
		Name:        "database",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	}

	return &SQLRepository{
		db:         db,
		recordCB:   gobreaker.NewCircuitBreaker(settings),
		profileCB:  gobreaker.NewCircuitBreaker(settings),
		hospitalCB: gobreaker.NewCircuitBreaker(settings),
		maxRetries: 3,
		retryDelay: 1 * time.Second,
	}
}

// executeWithRetry executes a database operation with retry logic
func (r *SQLRepository) executeWithRetry(ctx context.Context, operation func() error) error {
	var lastErr error
	for i := 0; i < r.maxRetries; i++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err
		// sql.ErrNoRows is not transient, don't retry it
		if errors.Is(err, sql.ErrNoRows) ||
			strings.Contains(strings.ToLower(err.Error()), "no rows") {
			return err
		}
		if i < r.maxRetries-1 {
			time.Sleep(r.retryDelay)
		}
	}
	return fmt.Errorf("operation failed after %d retries: %w", r.maxRetries, lastErr)
}

// RecordRepository implementation

func (r *SQLRepository) CreateRecord(ctx context.Context, record *domain.HealthRecord) error {
	_, err := r.recordCB.Execute(func() (interface{}, error) {
		return nil, r.executeWithRetry(ctx, func() error {
			query := `INSERT INTO health_records (
				id, timestamp, temperature, heart_rate, systolic_bp, diastolic_bp,
				oxygen_level, glucose_level, urine_notes, notes, symptoms, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
			_, err := r.db.ExecContext(ctx, query,
				record.ID,
				record.Timestamp,
				record.Temperature,
				record.HeartRate,
				record.SystolicBP,
				record.DiastolicBP,
				record.OxygenLevel,
				record.GlucoseLevel,
				record.UrineNotes,
				record.Notes,
				pq.Array(record.Symptoms),
				record.CreatedAt,
			)
			return err
		})
	})
	return err
}

func (r *SQLRepository) GetRecords(ctx context.Context, limit *int) ([]*domain.HealthRecord, error) {
	result, err := r.recordCB.Execute(func() (interface{}, error) {
		var records []*domain.HealthRecord
		err := r.executeWithRetry(ctx, func() error {
			query := `SELECT id, timestamp, temperature, heart_rate, systolic_bp, diastolic_bp,
				oxygen_level, glucose_level, urine_notes, notes, symptoms, created_at
				FROM health_records
				ORDER BY timestamp DESC, created_at ASC`

			args := []interface{}{}
			if limit != nil {
				query += " LIMIT $1"
				args = append(args, *limit)
			}

			rows, queryErr := r.db.QueryContext(ctx, query, args...)
			if queryErr != nil {
				return queryErr
			}
			defer rows.Close()

			records = records[:0]
			for rows.Next() {
				rec, err := scanRecord(rows)
				if err != nil {
					return err
				}
				records = append(records, rec)
			}

			return rows.Err()
		})
		if err != nil {
			return nil, err
		}
		return records, nil
	})

	if err != nil {
		return nil, err
	}

	return result.([]*domain.HealthRecord), nil
}

func (r *SQLRepository) GetRecordByID(ctx context.Context, recordID uuid.UUID) (*domain.HealthRecord, error) {
	result, err := r.recordCB.Execute(func() (interface{}, error) {
		var record *domain.HealthRecord

		err := r.executeWithRetry(ctx, func() error {
			query := `SELECT id, timestamp, temperature, heart_rate, systolic_bp, diastolic_bp,
				oxygen_level, glucose_level, urine_notes, notes, symptoms, created_at
				FROM health_records WHERE id = $1`

			rows, err := r.db.QueryContext(ctx, query, recordID)
			if err != nil {
				return err
			}
			defer rows.Close()

			if !rows.Next() {
				return sql.ErrNoRows
			}

			record, err = scanRecord(rows)
			return err
		})
		if err != nil {
			return nil, err
		}

		return record, nil
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) ||
			strings.Contains(strings.ToLower(err.Error()), "no rows") {
			return nil, fmt.Errorf("record not found")
		}
		return nil, err
	}

	if result == nil {
		return nil, fmt.Errorf("record not found")
	}

	return result.(*domain.HealthRecord), nil
}

func (r *SQLRepository) DeleteRecord(ctx context.Context, recordID uuid.UUID) error {
	_, err := r.recordCB.Execute(func() (interface{}, error) {
		return nil, r.executeWithRetry(ctx, func() error {
			result, err := r.db.ExecContext(ctx, `DELETE FROM health_records WHERE id = $1`, recordID)
			if err != nil {
				return err
			}

			rowsAffected, err := result.RowsAffected()
			if err != nil {
				return err
			}
			if rowsAffected == 0 {
				return fmt.Errorf("record not found")
			}

			return nil
		})
	})
	return err
}

// scanRecord scans a health record row from the database
func scanRecord(rows *sql.Rows) (*domain.HealthRecord, error) {
	var rec domain.HealthRecord
	var temperature, heartRate, systolic, diastolic, oxygen, glucose sql.NullFloat64
	var urineNotes, notes sql.NullString
	var symptoms pq.StringArray

	err := rows.Scan(
		&rec.ID, &rec.Timestamp,
		&temperature, &heartRate, &systolic, &diastolic, &oxygen, &glucose,
		&urineNotes, &notes, &symptoms, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Temperature = nullableFloat(temperature)
	rec.HeartRate = nullableFloat(heartRate)
	rec.SystolicBP = nullableFloat(systolic)
	rec.DiastolicBP = nullableFloat(diastolic)
	rec.OxygenLevel = nullableFloat(oxygen)
	rec.GlucoseLevel = nullableFloat(glucose)
	rec.UrineNotes = urineNotes.String
	rec.Notes = notes.String
	rec.Symptoms = []string(symptoms)

	return &rec, nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// ProfileRepository implementation
//
// The profiles table holds at most one row (id fixed at 1); SaveProfile
// replaces it wholesale.

func (r *SQLRepository) SaveProfile(ctx context.Context, profile *domain.UserProfile) error {
	_, err := r.profileCB.Execute(func() (interface{}, error) {
		return nil, r.executeWithRetry(ctx, func() error {
			query := `INSERT INTO profiles (
				id, name, date_of_birth, blood_type, height_cm, weight_kg,
				height_valid, weight_valid, phone, address,
				emergency_contact, emergency_phone, doctor_name, doctor_phone,
				medical_conditions, medications, allergies, updated_at
			) VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				date_of_birth = EXCLUDED.date_of_birth,
				blood_type = EXCLUDED.blood_type,
				height_cm = EXCLUDED.height_cm,
				weight_kg = EXCLUDED.weight_kg,
				height_valid = EXCLUDED.height_valid,
				weight_valid = EXCLUDED.weight_valid,
				phone = EXCLUDED.phone,
				address = EXCLUDED.address,
				emergency_contact = EXCLUDED.emergency_contact,
				emergency_phone = EXCLUDED.emergency_phone,
				doctor_name = EXCLUDED.doctor_name,
				doctor_phone = EXCLUDED.doctor_phone,
				medical_conditions = EXCLUDED.medical_conditions,
				medications = EXCLUDED.medications,
				allergies = EXCLUDED.allergies,
				updated_at = EXCLUDED.updated_at`
			_, err := r.db.ExecContext(ctx, query,
				profile.Name,
				profile.DateOfBirth,
				profile.BloodType,
				profile.HeightCm,
				profile.WeightKg,
				profile.HeightValid,
				profile.WeightValid,
				profile.Phone,
				profile.Address,
				profile.EmergencyContact,
				profile.EmergencyPhone,
				profile.DoctorName,
				profile.DoctorPhone,
				pq.Array(profile.MedicalConditions),
				pq.Array(profile.Medications),
				pq.Array(profile.Allergies),
				profile.UpdatedAt,
			)
			return err
		})
	})
	return err
}

func (r *SQLRepository) GetProfile(ctx context.Context) (*domain.UserProfile, error) {
	result, err := r.profileCB.Execute(func() (interface{}, error) {
		var profile domain.UserProfile
		var conditions, medications, allergies pq.StringArray

		err := r.executeWithRetry(ctx, func() error {
			query := `SELECT name, date_of_birth, blood_type, height_cm, weight_kg,
				height_valid, weight_valid, phone, address,
				emergency_contact, emergency_phone, doctor_name, doctor_phone,
				medical_conditions, medications, allergies, updated_at
				FROM profiles WHERE id = 1`
			row := r.db.QueryRowContext(ctx, query)
			return row.Scan(
				&profile.Name, &profile.DateOfBirth, &profile.BloodType,
				&profile.HeightCm, &profile.WeightKg,
				&profile.HeightValid, &profile.WeightValid,
				&profile.Phone, &profile.Address,
				&profile.EmergencyContact, &profile.EmergencyPhone,
				&profile.DoctorName, &profile.DoctorPhone,
				&conditions, &medications, &allergies, &profile.UpdatedAt,
			)
		})
		if err != nil {
			return nil, err
		}

		profile.MedicalConditions = []string(conditions)
		profile.Medications = []string(medications)
		profile.Allergies = []string(allergies)
		return &profile, nil
	})

	if err != nil {
		// Missing profile is a well-defined empty result, not a failure
		if errors.Is(err, sql.ErrNoRows) ||
			strings.Contains(strings.ToLower(err.Error()), "no rows") {
			return nil, nil
		}
		return nil, err
	}

	return result.(*domain.UserProfile), nil
}

// HospitalRepository implementation
//
// Hospitals are keyed by name; the cached distance is never persisted,
// it is recomputed by the service after every load.

func (r *SQLRepository) UpsertHospital(ctx context.Context, hospital *domain.Hospital) error {
	_, err := r.hospitalCB.Execute(func() (interface{}, error) {
		return nil, r.executeWithRetry(ctx, func() error {
			var latitude, longitude interface{}
			if hospital.Coordinates != nil {
				latitude = hospital.Coordinates.Latitude
				longitude = hospital.Coordinates.Longitude
			}

			query := `INSERT INTO hospitals (name, latitude, longitude, phone, category, specialties, emergency)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				ON CONFLICT (name) DO UPDATE SET
					latitude = EXCLUDED.latitude,
					longitude = EXCLUDED.longitude,
					phone = EXCLUDED.phone,
					category = EXCLUDED.category,
					specialties = EXCLUDED.specialties,
					emergency = EXCLUDED.emergency`
			_, err := r.db.ExecContext(ctx, query,
				hospital.Name,
				latitude,
				longitude,
				hospital.Phone,
				string(hospital.Category),
				pq.Array(hospital.Specialties),
				hospital.Emergency,
			)
			return err
		})
	})
	return err
}

func (r *SQLRepository) ListHospitals(ctx context.Context) ([]*domain.Hospital, error) {
	result, err := r.hospitalCB.Execute(func() (interface{}, error) {
		var hospitals []*domain.Hospital
		err := r.executeWithRetry(ctx, func() error {
			query := `SELECT name, latitude, longitude, phone, category, specialties, emergency
				FROM hospitals ORDER BY name ASC`

			rows, queryErr := r.db.QueryContext(ctx, query)
			if queryErr != nil {
				return queryErr
			}
			defer rows.Close()

			hospitals = hospitals[:0]
			for rows.Next() {
				var h domain.Hospital
				var latitude, longitude sql.NullFloat64
				var category string
				var specialties pq.StringArray

				if err := rows.Scan(&h.Name, &latitude, &longitude, &h.Phone, &category, &specialties, &h.Emergency); err != nil {
					return err
				}

				if latitude.Valid && longitude.Valid {
					h.Coordinates = &domain.Coordinates{
						Latitude:  latitude.Float64,
						Longitude: longitude.Float64,
					}
				}
				h.Category = domain.DiseaseCategory(category)
				h.Specialties = []string(specialties)
				hospitals = append(hospitals, &h)
			}

			return rows.Err()
		})
		if err != nil {
			return nil, err
		}
		return hospitals, nil
	})

	if err != nil {
		return nil, err
	}

	return result.([]*domain.Hospital), nil
}

func (r *SQLRepository) ClearHospitals(ctx context.Context) error {
	_, err := r.hospitalCB.Execute(func() (interface{}, error) {
		return nil, r.executeWithRetry(ctx, func() error {
			_, err := r.db.ExecContext(ctx, `DELETE FROM hospitals`)
			return err
		})
	})
	return err
}

// Ensure SQLRepository implements the interfaces
var _ ports.RecordRepository = (*SQLRepository)(nil)
var _ ports.ProfileRepository = (*SQLRepository)(nil)
var _ ports.HospitalRepository = (*SQLRepository)(nil)

package config

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
)

// InitDatabase creates the database schema from scratch
// Set DROP_TABLES_ON_STARTUP=true environment variable to drop existing tables
func InitDatabase(db *sql.DB) error {
	if os.Getenv("DROP_TABLES_ON_STARTUP") == "true" {
		log.Println("Dropping existing tables (DROP_TABLES_ON_STARTUP=true)...")
		for _, table := range []string{"health_records", "profiles", "hospitals"} {
			if _, err := db.Exec("DROP TABLE IF EXISTS " + table + " CASCADE"); err != nil {
				log.Printf("Warning: Failed to drop %s table: %v", table, err)
			}
		}
	} else {
		log.Println("Skipping table drop (set DROP_TABLES_ON_STARTUP=true to drop tables on startup)")
	}

	// Single-row profile table; id is pinned to 1
	log.Println("Creating profiles table...")
	profilesSchema := `
	CREATE TABLE IF NOT EXISTS profiles (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		name TEXT NOT NULL,
		date_of_birth TEXT,
		blood_type TEXT,
		height_cm NUMERIC,
		weight_kg NUMERIC,
		height_valid BOOLEAN NOT NULL DEFAULT false,
		weight_valid BOOLEAN NOT NULL DEFAULT false,
		phone TEXT,
		address TEXT,
		emergency_contact TEXT,
		emergency_phone TEXT,
		doctor_name TEXT,
		doctor_phone TEXT,
		medical_conditions TEXT[] NOT NULL DEFAULT '{}',
		medications TEXT[] NOT NULL DEFAULT '{}',
		allergies TEXT[] NOT NULL DEFAULT '{}',
		updated_at TIMESTAMP DEFAULT now()
	);`

	if _, err := db.Exec(profilesSchema); err != nil {
		return fmt.Errorf("failed to create profiles table: %w", err)
	}

	// Vitals are nullable: NULL means "no measurement", distinct from zero
	log.Println("Creating health_records table...")
	recordsSchema := `
	CREATE TABLE IF NOT EXISTS health_records (
		id UUID PRIMARY KEY,
		timestamp TIMESTAMP NOT NULL,
		temperature NUMERIC,
		heart_rate NUMERIC,
		systolic_bp NUMERIC,
		diastolic_bp NUMERIC,
		oxygen_level NUMERIC,
		glucose_level NUMERIC,
		urine_notes TEXT,
		notes TEXT,
		symptoms TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMP DEFAULT now()
	);`

	if _, err := db.Exec(recordsSchema); err != nil {
		return fmt.Errorf("failed to create health_records table: %w", err)
	}

	// Hospitals are keyed by name; the cached distance is never persisted
	log.Println("Creating hospitals table...")
	hospitalsSchema := `
	CREATE TABLE IF NOT EXISTS hospitals (
		name TEXT PRIMARY KEY,
		latitude NUMERIC,
		longitude NUMERIC,
		phone TEXT NOT NULL DEFAULT 'N/A',
		category TEXT NOT NULL DEFAULT 'general',
		specialties TEXT[] NOT NULL DEFAULT '{General}',
		emergency BOOLEAN NOT NULL DEFAULT false
	);`

	if _, err := db.Exec(hospitalsSchema); err != nil {
		return fmt.Errorf("failed to create hospitals table: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_health_records_timestamp ON health_records(timestamp)",
		"CREATE INDEX IF NOT EXISTS idx_health_records_created_at ON health_records(created_at)",
		"CREATE INDEX IF NOT EXISTS idx_hospitals_category ON hospitals(category)",
		"CREATE INDEX IF NOT EXISTS idx_hospitals_emergency ON hospitals(emergency)",
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			log.Printf("Warning: Failed to create index: %v", err)
		}
	}

	log.Println("Database schema initialized successfully")
	return nil
}

// ConnectDatabase establishes a connection to PostgreSQL with retry logic
func ConnectDatabase(databaseURL string, maxRetries int, retryDelay time.Duration) (*sql.DB, error) {
	var db *sql.DB
	var err error

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", databaseURL)
		if err != nil {
			log.Printf("Failed to open database connection (attempt %d/%d): %v", i+1, maxRetries, err)
			if i < maxRetries-1 {
				time.Sleep(retryDelay)
				continue
			}
			return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
		}

		if err = db.Ping(); err != nil {
			log.Printf("Failed to ping database (attempt %d/%d): %v", i+1, maxRetries, err)
			db.Close()
			if i < maxRetries-1 {
				time.Sleep(retryDelay)
				continue
			}
			return nil, fmt.Errorf("failed to ping database after %d attempts: %w", maxRetries, err)
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		log.Println("Database connection established successfully")
		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database: %w", err)
}

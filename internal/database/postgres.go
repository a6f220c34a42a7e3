package database

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq"
)

var PostgresDB *sql.DB

// ConnectPostgres connects to PostgreSQL database
func ConnectPostgres(postgresURI string) error {
	var err error

	PostgresDB, err = sql.Open("postgres", postgresURI)
	if err != nil {
		return err
	}

	// Set connection pool settings
	PostgresDB.SetMaxOpenConns(25)
	PostgresDB.SetMaxIdleConns(5)
	PostgresDB.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	if err = PostgresDB.Ping(); err != nil {
		return err
	}

	log.Println("✅ Connected to PostgreSQL")

	// Initialize tables
	if err = InitPostgresTables(); err != nil {
		return err
	}

	return nil
}

// InitPostgresTables creates all necessary tables if they don't exist
func InitPostgresTables() error {
	queries := []string{
		// Users table (patients, therapists and admins share one table, split by role)
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			username VARCHAR(50) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			phone VARCHAR(20) NOT NULL UNIQUE,
			role VARCHAR(20) NOT NULL DEFAULT 'patient',
			specialization VARCHAR(50),
			is_premium BOOLEAN NOT NULL DEFAULT FALSE,
			is_verified BOOLEAN NOT NULL DEFAULT FALSE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		)`,

		// Appointments table; rows are never hard-deleted, status tracks the lifecycle
		`CREATE TABLE IF NOT EXISTS appointments (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			patient_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			therapist_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			date DATE NOT NULL,
			time TIME NOT NULL,
			mode VARCHAR(20) NOT NULL DEFAULT 'online',
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			meeting_link TEXT,
			notes TEXT
		)`,

		// Session logs: one per completed appointment, immutable after creation
		`CREATE TABLE IF NOT EXISTS session_logs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			appointment_id UUID NOT NULL REFERENCES appointments(id) ON DELETE CASCADE,
			therapist_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			patient_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			notes TEXT NOT NULL,
			resource_url TEXT,
			session_date DATE NOT NULL DEFAULT CURRENT_DATE,
			UNIQUE(appointment_id)
		)`,

		// Transactions: checkout_request_id is the join key between the STK push
		// response and the asynchronous M-Pesa callback
		`CREATE TABLE IF NOT EXISTS transactions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			appointment_id UUID REFERENCES appointments(id) ON DELETE SET NULL,
			phone VARCHAR(20) NOT NULL,
			amount INTEGER NOT NULL,
			checkout_request_id VARCHAR(100) UNIQUE,
			status VARCHAR(20) NOT NULL DEFAULT 'pending'
		)`,

		// Mood entries: at most one mood per patient per calendar day
		`CREATE TABLE IF NOT EXISTS mood_entries (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			patient_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			mood VARCHAR(20) NOT NULL,
			entry_date DATE NOT NULL DEFAULT CURRENT_DATE,
			UNIQUE(patient_id, entry_date)
		)`,

		// Direct messages; deleted messages keep their row with a tombstone body
		`CREATE TABLE IF NOT EXISTS messages (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			sender_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			recipient_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			body TEXT NOT NULL,
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE
		)`,

		// Assessment results for authenticated users (guest results live in Redis)
		`CREATE TABLE IF NOT EXISTS assessment_results (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			patient_id UUID REFERENCES users(id) ON DELETE SET NULL,
			test_type VARCHAR(30) NOT NULL,
			score INTEGER NOT NULL,
			severity VARCHAR(20) NOT NULL
		)`,

		// Indexes for the hot read paths
		`CREATE INDEX IF NOT EXISTS idx_appointments_patient ON appointments(patient_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_therapist ON appointments(therapist_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_thread ON messages(sender_id, recipient_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions(user_id, created_at)`,
	}

	for _, query := range queries {
		if _, err := PostgresDB.Exec(query); err != nil {
			return err
		}
	}

	log.Println("✅ PostgreSQL tables initialized")
	return nil
}

// DisconnectPostgres closes the PostgreSQL connection
func DisconnectPostgres() error {
	if PostgresDB != nil {
		return PostgresDB.Close()
	}
	return nil
}

package repository

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Practice schema: patients, a uniquely named procedure catalog, payments
// owned by a patient, and a (patient, procedure) association with a
// composite primary key. Cascades are done explicitly in the repositories
// rather than declaratively.
const schema = `
CREATE TABLE IF NOT EXISTS patients (
	id INTEGER PRIMARY KEY NOT NULL,
	name TEXT NOT NULL,
	address TEXT NOT NULL,
	phone TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS procedures (
	id INTEGER PRIMARY KEY NOT NULL,
	name TEXT UNIQUE NOT NULL,
	price TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS payments (
	id INTEGER PRIMARY KEY NOT NULL,
	patient_id INTEGER NOT NULL REFERENCES patients(id),
	amount TEXT NOT NULL,
	date DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	paid BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS patient_procedures (
	patient_id INTEGER NOT NULL REFERENCES patients(id),
	procedure_id INTEGER NOT NULL REFERENCES procedures(id),
	PRIMARY KEY (patient_id, procedure_id)
);
`

// Open connects to the SQLite database at path, creating the file and the
// schema when they do not exist yet.
func Open(path string) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)

	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database %s: %w", path, err)
	}

	// The driver is single-writer; more than one connection just turns
	// write contention into SQLITE_BUSY errors.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return db, nil
}

// isUniqueViolation detects SQLite unique-constraint failures. The driver
// exposes them only through the message text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Package xmlstore is the alternate persistence path: whole-dataset XML
// snapshot files holding the patient list and the procedure catalog.
package xmlstore

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dentacore/practice-engine/internal/domain"
)

// Store reads and writes the two snapshot files.
type Store struct {
	patientsPath string
	catalogPath  string
}

func New(patientsPath, catalogPath string) *Store {
	return &Store{
		patientsPath: patientsPath,
		catalogPath:  catalogPath,
	}
}

// Snapshot file layouts. Element names are part of the snapshot format and
// must not change, or existing files stop being readable.

type patientListDoc struct {
	XMLName  xml.Name     `xml:"PatientList"`
	Patients []xmlPatient `xml:"Patient"`
}

type xmlPatient struct {
	ID         int64          `xml:"ID"`
	Name       string         `xml:"name"`
	Address    string         `xml:"address"`
	Phone      string         `xml:"phone"`
	Procedures []xmlProcedure `xml:"Procedures>procedure"`
	Payments   []xmlPayment   `xml:"Payments>payment"`
}

type xmlProcedure struct {
	ID   int64           `xml:"ID"`
	Type string          `xml:"type"`
	Cost decimal.Decimal `xml:"cost"`
}

type xmlPayment struct {
	ID     int64           `xml:"ID"`
	Amount decimal.Decimal `xml:"amount"`
	Date   time.Time       `xml:"date"`
	Status bool            `xml:"status"`
}

type procedureListDoc struct {
	XMLName    xml.Name       `xml:"ProcedureList"`
	Procedures []xmlProcedure `xml:"Procedure"`
}

// LoadPatients reads the patient snapshot. A missing file is an empty data
// set, not an error.
func (s *Store) LoadPatients() ([]*domain.Patient, error) {
	data, err := os.ReadFile(s.patientsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.Patient{}, nil
		}
		return nil, fmt.Errorf("reading patient snapshot: %w", err)
	}

	var doc patientListDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding patient snapshot: %w", err)
	}

	patients := make([]*domain.Patient, 0, len(doc.Patients))
	for _, xp := range doc.Patients {
		p := &domain.Patient{
			ID:         xp.ID,
			Name:       xp.Name,
			Address:    xp.Address,
			Phone:      xp.Phone,
			Procedures: make([]*domain.Procedure, 0, len(xp.Procedures)),
			Payments:   make([]*domain.Payment, 0, len(xp.Payments)),
		}

		for _, xproc := range xp.Procedures {
			p.Procedures = append(p.Procedures, &domain.Procedure{
				ID:   xproc.ID,
				Name: xproc.Type,
				Cost: xproc.Cost,
			})
		}

		for _, xpay := range xp.Payments {
			p.Payments = append(p.Payments, &domain.Payment{
				ID:        xpay.ID,
				PatientID: xp.ID,
				Amount:    xpay.Amount,
				Date:      xpay.Date,
				Paid:      xpay.Status,
			})
		}

		patients = append(patients, p)
	}

	return patients, nil
}

// SavePatients writes the patient snapshot, replacing the previous file.
func (s *Store) SavePatients(patients []*domain.Patient) error {
	doc := patientListDoc{}

	for _, p := range patients {
		xp := xmlPatient{
			ID:      p.ID,
			Name:    p.Name,
			Address: p.Address,
			Phone:   p.Phone,
		}

		for _, proc := range p.Procedures {
			xp.Procedures = append(xp.Procedures, xmlProcedure{
				ID:   proc.ID,
				Type: proc.Name,
				Cost: proc.Cost,
			})
		}

		for _, pay := range p.Payments {
			xp.Payments = append(xp.Payments, xmlPayment{
				ID:     pay.ID,
				Amount: pay.Amount,
				Date:   pay.Date,
				Status: pay.Paid,
			})
		}

		doc.Patients = append(doc.Patients, xp)
	}

	return writeDoc(s.patientsPath, doc)
}

// LoadCatalog reads the procedure catalog snapshot.
func (s *Store) LoadCatalog() ([]*domain.Procedure, error) {
	data, err := os.ReadFile(s.catalogPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.Procedure{}, nil
		}
		return nil, fmt.Errorf("reading catalog snapshot: %w", err)
	}

	var doc procedureListDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding catalog snapshot: %w", err)
	}

	catalog := make([]*domain.Procedure, 0, len(doc.Procedures))
	for _, xproc := range doc.Procedures {
		catalog = append(catalog, &domain.Procedure{
			ID:   xproc.ID,
			Name: xproc.Type,
			Cost: xproc.Cost,
		})
	}

	return catalog, nil
}

// SaveCatalog writes the procedure catalog snapshot.
func (s *Store) SaveCatalog(catalog []*domain.Procedure) error {
	doc := procedureListDoc{}

	for _, proc := range catalog {
		doc.Procedures = append(doc.Procedures, xmlProcedure{
			ID:   proc.ID,
			Type: proc.Name,
			Cost: proc.Cost,
		})
	}

	return writeDoc(s.catalogPath, doc)
}

// writeDoc writes the snapshot through a temp file in the target directory
// and renames it into place, so a crash mid-write never leaves a truncated
// snapshot behind.
func writeDoc(path string, doc interface{}) error {
	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	out := append([]byte(xml.Header), data...)
	out = append(out, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating snapshot temp file: %w", err)
	}

	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}

	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing snapshot %s: %w", path, err)
	}

	return nil
}

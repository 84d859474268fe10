package repository

import (
	"context"
	"sync/atomic"

	"github.com/jmoiron/sqlx"

	"github.com/dentacore/practice-engine/internal/domain"
)

// IDAllocator hands out monotonically increasing entity identifiers. It is
// seeded from the data set at load time and never persisted itself.
type IDAllocator struct {
	next atomic.Int64
}

// NewIDAllocator returns an allocator whose first Next call yields seed.
func NewIDAllocator(seed int64) *IDAllocator {
	a := &IDAllocator{}
	a.next.Store(seed)
	return a
}

// Next returns the next identifier.
func (a *IDAllocator) Next() int64 {
	return a.next.Add(1) - 1
}

// Allocators groups the per-entity-type allocators owned by the store.
type Allocators struct {
	Patients   *IDAllocator
	Procedures *IDAllocator
	Payments   *IDAllocator
}

// SeedAllocators builds allocators seeded to max(existing id)+1 per table,
// or 1 for an empty table.
func SeedAllocators(ctx context.Context, db *sqlx.DB) (*Allocators, error) {
	alloc := &Allocators{}

	for _, seed := range []struct {
		table string
		dst   **IDAllocator
	}{
		{"patients", &alloc.Patients},
		{"procedures", &alloc.Procedures},
		{"payments", &alloc.Payments},
	} {
		var max int64
		query := "SELECT COALESCE(MAX(id), 0) FROM " + seed.table
		if err := db.GetContext(ctx, &max, query); err != nil {
			return nil, err
		}
		*seed.dst = NewIDAllocator(max + 1)
	}

	return alloc, nil
}

// AllocatorsFromDataset builds allocators from an in-memory data set, used
// when loading from an XML snapshot instead of the database.
func AllocatorsFromDataset(patients []*domain.Patient, catalog []*domain.Procedure) *Allocators {
	var maxPatient, maxProcedure, maxPayment int64

	for _, p := range patients {
		if p.ID > maxPatient {
			maxPatient = p.ID
		}
		for _, pay := range p.Payments {
			if pay.ID > maxPayment {
				maxPayment = pay.ID
			}
		}
	}

	for _, proc := range catalog {
		if proc.ID > maxProcedure {
			maxProcedure = proc.ID
		}
	}

	return &Allocators{
		Patients:   NewIDAllocator(maxPatient + 1),
		Procedures: NewIDAllocator(maxProcedure + 1),
		Payments:   NewIDAllocator(maxPayment + 1),
	}
}

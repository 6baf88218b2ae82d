// Package store defines the appointment store collaborator. The
// scheduling core owns no persistence; everything it saves or lists goes
// through this interface.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/peyvandtech/darmana/internal/model"
)

var (
	ErrNotFound = errors.New("appointment not found")
	// ErrUnavailable wraps backend/network failures. Batch creation
	// records these per item and keeps going; single-item operations
	// propagate them.
	ErrUnavailable = errors.New("appointment store unavailable")
)

type Store interface {
	// ListByDate returns the events on a calendar day that pass the
	// given filters, ordered by start time.
	ListByDate(ctx context.Context, date time.Time, f model.EventFilters) ([]model.Event, error)

	// Create persists one appointment spec and returns its new ID.
	Create(ctx context.Context, s model.Spec) (uuid.UUID, error)

	// Update applies a partial change to one appointment.
	Update(ctx context.Context, id uuid.UUID, p model.Patch) (model.Event, error)

	// ChangeStatus moves one appointment through its status state
	// machine, rejecting illegal transitions.
	ChangeStatus(ctx context.Context, id uuid.UUID, next model.Status) (model.Event, error)
}

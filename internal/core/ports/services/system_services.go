package services

import "context"

// SystemSvc covers whole-database maintenance.
type SystemSvc interface {
	// ClearAllData deletes the database and starts over with an empty one.
	ClearAllData(ctx context.Context) error

	// Persist writes the durable database image now and reports failures.
	Persist(ctx context.Context) error
}

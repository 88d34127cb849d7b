package domain

import "context"

// Transaction exposes the domain operations that a persistence implementation
// must support within an atomic scope.
type Transaction interface {
	Snapshot() TransactionView
	CreatePlant(PlantRecord) (PlantRecord, error)
	UpdatePlant(id string, mutator func(*PlantRecord) error) (PlantRecord, error)
	DeletePlant(id string) error
}

// TransactionView provides read-only access to snapshot data for rules.
type TransactionView interface {
	ListPlants() []PlantRecord
	FindPlant(id string) (PlantRecord, bool)
}

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	GetPlant(id string) (PlantRecord, bool)
	ListPlants() []PlantRecord
	CountPlants() int
}

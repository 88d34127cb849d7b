// Package memory provides an in-memory implementation of the core persistence
// store used for tests and ephemeral environments.
package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"

	"guildcore/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain
// persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// PlantRecord aliases domain.PlantRecord for in-memory persistence operations.
	PlantRecord = domain.PlantRecord
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
)

type memoryState struct {
	plants map[string]PlantRecord
}

// Snapshot captures a point-in-time clone of the store state.
type Snapshot struct {
	Plants map[string]PlantRecord `json:"plants"`
}

func newMemoryState() memoryState {
	return memoryState{plants: make(map[string]PlantRecord)}
}

func snapshotFromMemoryState(state memoryState) Snapshot {
	s := Snapshot{Plants: make(map[string]PlantRecord, len(state.plants))}
	for k, v := range state.plants {
		s.Plants[k] = v.Clone()
	}
	return s
}

func memoryStateFromSnapshot(s Snapshot) memoryState {
	state := newMemoryState()
	for k, v := range s.Plants {
		state.plants[k] = v.Clone()
	}
	return state
}

func migrateSnapshot(snapshot Snapshot) Snapshot {
	if snapshot.Plants == nil {
		snapshot.Plants = map[string]PlantRecord{}
	}
	for id, plant := range snapshot.Plants {
		if plant.Traits == nil {
			plant.Traits = domain.TraitBag{}
		}
		if plant.ID == "" {
			plant.ID = id
		}
		snapshot.Plants[id] = plant
	}
	return snapshot
}

func (s memoryState) clone() memoryState {
	cloned := newMemoryState()
	for k, v := range s.plants {
		cloned.plants[k] = v.Clone()
	}
	return cloned
}

// Store provides an in-memory transactional store for the core domain.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *RulesEngine
	nowFn  func() time.Time
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		state:  newMemoryState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) newID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromMemoryState(s.state)
}

// ImportState replaces the store state with the provided snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = memoryStateFromSnapshot(migrateSnapshot(snapshot))
}

// RulesEngine exposes the currently configured engine.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// NowFunc returns the time provider used by the store.
func (s *Store) NowFunc() func() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowFn
}

type transaction struct {
	store   *Store
	state   memoryState
	changes []Change
	now     time.Time
}

type transactionView struct {
	state *memoryState
}

func newTransactionView(state *memoryState) TransactionView {
	return transactionView{state: state}
}

// ListPlants returns all plant records within the snapshot, ordered by
// scientific name for deterministic iteration.
func (v transactionView) ListPlants() []PlantRecord {
	out := make([]PlantRecord, 0, len(v.state.plants))
	for _, p := range v.state.plants {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ScientificName() != out[j].ScientificName() {
			return out[i].ScientificName() < out[j].ScientificName()
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// FindPlant retrieves a plant record by ID from the snapshot.
func (v transactionView) FindPlant(id string) (PlantRecord, bool) {
	p, ok := v.state.plants[id]
	if !ok {
		return PlantRecord{}, false
	}
	return p.Clone(), true
}

// RunInTransaction executes fn within a transactional copy of the store state.
// Rules are evaluated against the mutated snapshot before commit; blocking
// violations abort the transaction.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		view := newTransactionView(&tx.state)
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	view := newTransactionView(&snapshot)
	return fn(view)
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() TransactionView {
	return newTransactionView(&tx.state)
}

// CreatePlant stores a new plant record within the transaction.
func (tx *transaction) CreatePlant(p PlantRecord) (PlantRecord, error) {
	if p.ID == "" {
		p.ID = tx.store.newID()
	}
	if _, exists := tx.state.plants[p.ID]; exists {
		return PlantRecord{}, fmt.Errorf("plant %q already exists", p.ID)
	}
	p.CreatedAt = tx.now
	p.UpdatedAt = tx.now
	if p.Traits == nil {
		p.Traits = domain.TraitBag{}
	}
	tx.state.plants[p.ID] = p.Clone()
	tx.recordChange(Change{Entity: domain.EntityPlant, Action: domain.ActionCreate, After: p.Clone()})
	return p.Clone(), nil
}

// UpdatePlant mutates a plant record using the provided mutator function.
func (tx *transaction) UpdatePlant(id string, mutator func(*PlantRecord) error) (PlantRecord, error) {
	current, ok := tx.state.plants[id]
	if !ok {
		return PlantRecord{}, fmt.Errorf("plant %q not found", id)
	}
	before := current.Clone()
	if err := mutator(&current); err != nil {
		return PlantRecord{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.plants[id] = current.Clone()
	tx.recordChange(Change{Entity: domain.EntityPlant, Action: domain.ActionUpdate, Before: before, After: current.Clone()})
	return current.Clone(), nil
}

// DeletePlant removes a plant record from the transaction state.
func (tx *transaction) DeletePlant(id string) error {
	current, ok := tx.state.plants[id]
	if !ok {
		return fmt.Errorf("plant %q not found", id)
	}
	delete(tx.state.plants, id)
	tx.recordChange(Change{Entity: domain.EntityPlant, Action: domain.ActionDelete, Before: current.Clone()})
	return nil
}

// GetPlant retrieves a committed plant record by ID.
func (s *Store) GetPlant(id string) (PlantRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.state.plants[id]
	if !ok {
		return PlantRecord{}, false
	}
	return p.Clone(), true
}

// ListPlants returns all committed plant records ordered by scientific name.
func (s *Store) ListPlants() []PlantRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListPlants()
}

// CountPlants reports the committed collection size.
func (s *Store) CountPlants() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.plants)
}

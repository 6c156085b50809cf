// Package memory is a process-local backend for the repository interfaces.
// It is used with storage.driver=memory and as the fake in service tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"repairshop/internal/model"
	"repairshop/internal/repository"
)

type txMarker struct{}

// Store holds every table. One mutex serialises each unit of work, and a
// failed unit restores the snapshot taken when it started.
type Store struct {
	mu sync.Mutex

	workOrders   map[uuid.UUID]model.WorkOrder
	clients      map[uuid.UUID]model.Client
	inventory    map[uuid.UUID]model.InventoryItem
	movements    []model.InventoryMovement
	transactions []model.Transaction
	scheduled    map[uuid.UUID]model.ScheduledService
	notes        []model.Notification
	taxonomy     []model.TaxonomyValue
	users        map[uuid.UUID]model.User
	audit        []model.AuditLog
	sequences    map[string]int64
}

func NewStore() *Store {
	return &Store{
		workOrders: make(map[uuid.UUID]model.WorkOrder),
		clients:    make(map[uuid.UUID]model.Client),
		inventory:  make(map[uuid.UUID]model.InventoryItem),
		scheduled:  make(map[uuid.UUID]model.ScheduledService),
		users:      make(map[uuid.UUID]model.User),
		sequences:  make(map[string]int64),
	}
}

type snapshot struct {
	workOrders   map[uuid.UUID]model.WorkOrder
	clients      map[uuid.UUID]model.Client
	inventory    map[uuid.UUID]model.InventoryItem
	movements    []model.InventoryMovement
	transactions []model.Transaction
	scheduled    map[uuid.UUID]model.ScheduledService
	notes        []model.Notification
	taxonomy     []model.TaxonomyValue
	users        map[uuid.UUID]model.User
	audit        []model.AuditLog
	sequences    map[string]int64
}

func (s *Store) snapshot() snapshot {
	orders := make(map[uuid.UUID]model.WorkOrder, len(s.workOrders))
	for id, o := range s.workOrders {
		orders[id] = o.Clone()
	}
	return snapshot{
		workOrders:   orders,
		clients:      copyMap(s.clients),
		inventory:    copyMap(s.inventory),
		movements:    append([]model.InventoryMovement(nil), s.movements...),
		transactions: append([]model.Transaction(nil), s.transactions...),
		scheduled:    copyMap(s.scheduled),
		notes:        append([]model.Notification(nil), s.notes...),
		taxonomy:     append([]model.TaxonomyValue(nil), s.taxonomy...),
		users:        copyMap(s.users),
		audit:        append([]model.AuditLog(nil), s.audit...),
		sequences:    copyMap(s.sequences),
	}
}

func (s *Store) restore(snap snapshot) {
	s.workOrders = snap.workOrders
	s.clients = snap.clients
	s.inventory = snap.inventory
	s.movements = snap.movements
	s.transactions = snap.transactions
	s.scheduled = snap.scheduled
	s.notes = snap.notes
	s.taxonomy = snap.taxonomy
	s.users = snap.users
	s.audit = snap.audit
	s.sequences = snap.sequences
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (s *Store) inTx(ctx context.Context) bool {
	m, ok := ctx.Value(txMarker{}).(*Store)
	return ok && m == s
}

// do runs fn under the store lock unless ctx already belongs to a unit of work
// on this store, which holds the lock.
func (s *Store) do(ctx context.Context, fn func() error) error {
	if s.inTx(ctx) {
		return fn()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

type transactionManager struct {
	store *Store
}

// NewTransactionManager returns a manager whose units of work are serialised
// and all-or-nothing.
func NewTransactionManager(store *Store) repository.TransactionManager {
	return &transactionManager{store: store}
}

func (t *transactionManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	s := t.store
	if s.inTx(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	txCtx := context.WithValue(ctx, txMarker{}, s)
	if err := fn(txCtx); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

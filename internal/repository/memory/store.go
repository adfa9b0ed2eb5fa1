package memory

import (
	"context"
	"encoding/json"
	"sync"

	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/logger"
	"github.com/dealerbook/dealerbook/internal/types"
)

// Table names, shared with fixtures that inject raw records
const (
	TableSequences    = "sequence_counters"
	TableAccounts     = "capital_accounts"
	TableEntries      = "capital_entries"
	TableTransactions = "person_transactions"
	TableSummaries    = "inventory_summaries"
	TableVehicles     = "vehicles"
	TablePurchases    = "purchases"
	TableSales        = "sales"
	TablePersons      = "persons"
)

type txKey struct{}

type record struct {
	version int64
	payload []byte
}

type recordKey struct {
	table string
	key   string
}

type pendingWrite struct {
	expected int64
	payload  []byte
}

// tx buffers writes and remembers the version of everything it read.
// Nothing is visible to other callers until commit validates both sets.
type tx struct {
	id     string
	reads  map[recordKey]int64
	writes map[recordKey]pendingWrite
	order  []recordKey
}

// Store is an in-process store with optimistic transactions.
// Records are kept JSON encoded so callers never share memory with it.
type Store struct {
	mu     sync.RWMutex
	tables map[string]map[string]record
	logger *logger.Logger
}

// NewStore creates an empty store
func NewStore(log *logger.Logger) *Store {
	return &Store{
		tables: make(map[string]map[string]record),
		logger: log,
	}
}

func getTx(ctx context.Context) (*tx, bool) {
	t, ok := ctx.Value(txKey{}).(*tx)
	return t, ok
}

// WithTx runs fn against a buffered transaction and applies its writes in
// one step. Calls nested in an existing transaction join it.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := getTx(ctx); ok {
		return fn(ctx)
	}

	t := &tx{
		id:     types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TX),
		reads:  make(map[recordKey]int64),
		writes: make(map[recordKey]pendingWrite),
	}
	s.logger.Debugw("starting new transaction", "tx_id", t.id)

	if err := fn(context.WithValue(ctx, txKey{}, t)); err != nil {
		s.logger.Debugw("transaction failed", "tx_id", t.id, "error", err)
		return err
	}

	// an abandoned caller must not see its writes applied
	if err := ctx.Err(); err != nil {
		s.logger.Debugw("transaction abandoned", "tx_id", t.id, "error", err)
		return err
	}

	return s.commit(t)
}

// Ping always succeeds
func (s *Store) Ping(_ context.Context) error {
	return nil
}

func (s *Store) commit(t *tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, seen := range t.reads {
		if current := s.versionLocked(k); current != seen {
			return conflictError(k, seen, current)
		}
	}
	for _, k := range t.order {
		w := t.writes[k]
		if current := s.versionLocked(k); current != w.expected {
			return conflictError(k, w.expected, current)
		}
	}

	for _, k := range t.order {
		w := t.writes[k]
		s.tableLocked(k.table)[k.key] = record{version: w.expected + 1, payload: w.payload}
	}

	s.logger.Debugw("committing transaction", "tx_id", t.id, "writes", len(t.order))
	return nil
}

func (s *Store) versionLocked(k recordKey) int64 {
	rec, ok := s.tables[k.table][k.key]
	if !ok {
		return 0
	}
	return rec.version
}

func (s *Store) tableLocked(table string) map[string]record {
	tbl, ok := s.tables[table]
	if !ok {
		tbl = make(map[string]record)
		s.tables[table] = tbl
	}
	return tbl
}

// get decodes the record into dest, preferring the transaction's own writes
func (s *Store) get(ctx context.Context, table, key string, dest interface{}) error {
	k := recordKey{table: table, key: key}
	t, inTx := getTx(ctx)
	if inTx {
		if w, ok := t.writes[k]; ok {
			return decode(k, w.payload, dest)
		}
	}

	s.mu.RLock()
	rec, ok := s.tables[table][key]
	s.mu.RUnlock()

	if inTx {
		if _, seen := t.reads[k]; !seen {
			t.reads[k] = rec.version
		}
	}

	if !ok {
		return ierr.NewError("record not found").
			WithHintf("No %s record with id %s", table, key).
			WithReportableDetails(map[string]any{
				"table": table,
				"id":    key,
			}).
			Mark(ierr.ErrNotFound)
	}
	return decode(k, rec.payload, dest)
}

// put stores value when the current version equals expected; zero means
// the record must not exist yet. Inside a transaction the write is buffered.
func (s *Store) put(ctx context.Context, table, key string, expected int64, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to encode %s record", table).
			Mark(ierr.ErrSystem)
	}

	k := recordKey{table: table, key: key}
	if t, ok := getTx(ctx); ok {
		if prev, exists := t.writes[k]; exists {
			// a second write in the same unit builds on the first
			if expected != prev.expected+1 {
				return conflictError(k, expected, prev.expected+1)
			}
			t.writes[k] = pendingWrite{expected: prev.expected, payload: payload}
			return nil
		}
		t.writes[k] = pendingWrite{expected: expected, payload: payload}
		t.order = append(t.order, k)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if current := s.versionLocked(k); current != expected {
		return conflictError(k, expected, current)
	}
	s.tableLocked(table)[key] = record{version: expected + 1, payload: payload}
	return nil
}

// scan calls fn for every committed record of table
func (s *Store) scan(table string, fn func(key string, payload []byte) error) error {
	s.mu.RLock()
	snapshot := make(map[string][]byte, len(s.tables[table]))
	for k, rec := range s.tables[table] {
		snapshot[k] = rec.payload
	}
	s.mu.RUnlock()

	for k, payload := range snapshot {
		if err := fn(k, payload); err != nil {
			return err
		}
	}
	return nil
}

// PutRaw stores payload as is, bypassing versioning. Used by fixtures.
func (s *Store) PutRaw(table, key string, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tbl := s.tableLocked(table)
	tbl[key] = record{version: tbl[key].version + 1, payload: payload}
}

// Clear removes every record
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables = make(map[string]map[string]record)
}

func decode(k recordKey, payload []byte, dest interface{}) error {
	if err := json.Unmarshal(payload, dest); err != nil {
		return ierr.WithError(err).
			WithHintf("Stored %s record %s is malformed", k.table, k.key).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func conflictError(k recordKey, expected, current int64) error {
	return ierr.NewError("version conflict").
		WithHint("The records were modified concurrently, please retry").
		WithReportableDetails(map[string]any{
			"table":            k.table,
			"id":               k.key,
			"expected_version": expected,
			"current_version":  current,
		}).
		Mark(ierr.ErrVersionConflict)
}

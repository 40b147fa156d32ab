package ledger_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para los puertos de persistencia.
//
// memLedger emula el comportamiento transaccional de PostgreSQL que los casos de
// uso asumen: Run serializa escritores (equivalente al SELECT FOR UPDATE sobre la
// fila) y trabaja sobre una copia del estado que solo se publica en el commit, de
// modo que un error hace rollback sin mutación parcial. Los repos "de pool"
// operan directamente sobre el estado comprometido, bajo el mismo mutex.
// ──────────────────────────────────────────────────────────────────────────────

type memState struct {
	records map[string]*entity.InventoryRecord // key: productID
	txs     []*entity.StockTransaction
	alerts  []*entity.Alert
}

func newMemState() *memState {
	return &memState{records: make(map[string]*entity.InventoryRecord)}
}

func cloneRecord(rec *entity.InventoryRecord) *entity.InventoryRecord {
	cp := *rec
	return &cp
}

func (s *memState) clone() *memState {
	cp := newMemState()
	for k, v := range s.records {
		cp.records[k] = cloneRecord(v)
	}
	for _, tx := range s.txs {
		txc := *tx
		cp.txs = append(cp.txs, &txc)
	}
	for _, a := range s.alerts {
		ac := *a
		cp.alerts = append(cp.alerts, &ac)
	}
	return cp
}

type memLedger struct {
	mu    sync.Mutex
	state *memState
}

func newMemLedger() *memLedger {
	return &memLedger{state: newMemState()}
}

// Run implementa ledger.TxRunner: escritores estrictamente serializados, commit
// por intercambio de estado, rollback descartando la copia de trabajo.
func (m *memLedger) Run(_ context.Context, fn func(
	recordRepo repository.InventoryRecordRepository,
	txRepo repository.StockTransactionRepository,
	alertRepo repository.AlertRepository,
) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	work := m.state.clone()
	if err := fn(&memRecordRepo{tx: work}, &memTxRepo{tx: work}, &memAlertRepo{tx: work}); err != nil {
		return err
	}
	m.state = work
	return nil
}

// Repos atados al "pool" para operaciones fuera de transacción.
func (m *memLedger) recordRepo() repository.InventoryRecordRepository { return &memRecordRepo{pool: m} }
func (m *memLedger) txRepo() repository.StockTransactionRepository    { return &memTxRepo{pool: m} }
func (m *memLedger) alertRepo() repository.AlertRepository            { return &memAlertRepo{pool: m} }

// snapshot devuelve una copia del estado comprometido (para asserts).
func (m *memLedger) snapshot() *memState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// with ejecuta fn sobre el estado correcto: el de la tx en curso o el
// comprometido bajo mutex.
func with(tx *memState, pool *memLedger, fn func(*memState) error) error {
	if tx != nil {
		return fn(tx)
	}
	pool.mu.Lock()
	defer pool.mu.Unlock()
	return fn(pool.state)
}

// ── InventoryRecordRepository ────────────────────────────────────────────────

type memRecordRepo struct {
	tx   *memState
	pool *memLedger
}

func (r *memRecordRepo) Create(rec *entity.InventoryRecord) error {
	return with(r.tx, r.pool, func(s *memState) error {
		if _, ok := s.records[rec.ProductID]; ok {
			return domain.ErrDuplicate
		}
		for _, existing := range s.records {
			if existing.SKU == rec.SKU {
				return domain.ErrDuplicate
			}
		}
		if rec.ID == "" {
			rec.ID = uuid.New().String()
		}
		rec.Version = 1
		s.records[rec.ProductID] = cloneRecord(rec)
		return nil
	})
}

func (r *memRecordRepo) GetByProduct(productID string) (*entity.InventoryRecord, error) {
	var out *entity.InventoryRecord
	_ = with(r.tx, r.pool, func(s *memState) error {
		if rec, ok := s.records[productID]; ok {
			out = cloneRecord(rec)
		}
		return nil
	})
	return out, nil
}

func (r *memRecordRepo) GetForUpdateByProduct(productID string) (*entity.InventoryRecord, error) {
	return r.GetByProduct(productID)
}

func (r *memRecordRepo) Update(rec *entity.InventoryRecord) error {
	return with(r.tx, r.pool, func(s *memState) error {
		stored, ok := s.records[rec.ProductID]
		if !ok || stored.Version != rec.Version {
			return domain.ErrConcurrencyConflict
		}
		rec.Version++
		s.records[rec.ProductID] = cloneRecord(rec)
		return nil
	})
}

func (r *memRecordRepo) ListAtOrBelowReorderLevel(limit int) ([]*entity.InventoryRecord, error) {
	var out []*entity.InventoryRecord
	_ = with(r.tx, r.pool, func(s *memState) error {
		for _, rec := range s.records {
			if rec.CurrentStock <= rec.ReorderLevel {
				out = append(out, cloneRecord(rec))
			}
			if len(out) == limit {
				break
			}
		}
		return nil
	})
	return out, nil
}

// ── StockTransactionRepository ───────────────────────────────────────────────

type memTxRepo struct {
	tx   *memState
	pool *memLedger
}

func (r *memTxRepo) Append(tx *entity.StockTransaction) error {
	return with(r.tx, r.pool, func(s *memState) error {
		if tx.ID == "" {
			tx.ID = uuid.New().String()
		}
		cp := *tx
		s.txs = append(s.txs, &cp)
		return nil
	})
}

func (r *memTxRepo) GetByID(id string) (*entity.StockTransaction, error) {
	var out *entity.StockTransaction
	_ = with(r.tx, r.pool, func(s *memState) error {
		for _, tx := range s.txs {
			if tx.ID == id {
				cp := *tx
				out = &cp
				break
			}
		}
		return nil
	})
	return out, nil
}

func (r *memTxRepo) ListByRecord(recordID string, from, to *time.Time, limit, offset int) ([]*entity.StockTransaction, error) {
	var out []*entity.StockTransaction
	_ = with(r.tx, r.pool, func(s *memState) error {
		for _, tx := range s.txs {
			if tx.RecordID != recordID {
				continue
			}
			if from != nil && tx.CreatedAt.Before(*from) {
				continue
			}
			if to != nil && tx.CreatedAt.After(*to) {
				continue
			}
			cp := *tx
			out = append(out, &cp)
		}
		return nil
	})
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memTxRepo) CountByRecord(recordID string) (int64, error) {
	var n int64
	_ = with(r.tx, r.pool, func(s *memState) error {
		for _, tx := range s.txs {
			if tx.RecordID == recordID {
				n++
			}
		}
		return nil
	})
	return n, nil
}

// ── AlertRepository ──────────────────────────────────────────────────────────

type memAlertRepo struct {
	tx   *memState
	pool *memLedger
}

func (r *memAlertRepo) Create(alert *entity.Alert) error {
	return with(r.tx, r.pool, func(s *memState) error {
		if alert.ID == "" {
			alert.ID = uuid.New().String()
		}
		cp := *alert
		s.alerts = append(s.alerts, &cp)
		return nil
	})
}

func (r *memAlertRepo) GetByID(id string) (*entity.Alert, error) {
	var out *entity.Alert
	_ = with(r.tx, r.pool, func(s *memState) error {
		for _, a := range s.alerts {
			if a.ID == id {
				cp := *a
				out = &cp
				break
			}
		}
		return nil
	})
	return out, nil
}

func (r *memAlertRepo) HasActiveByType(recordID, alertType string) (bool, error) {
	var found bool
	_ = with(r.tx, r.pool, func(s *memState) error {
		for _, a := range s.alerts {
			if a.RecordID == recordID && a.Type == alertType && a.Active {
				found = true
				break
			}
		}
		return nil
	})
	return found, nil
}

func (r *memAlertRepo) ListByRecord(recordID string, activeOnly bool) ([]*entity.Alert, error) {
	var out []*entity.Alert
	_ = with(r.tx, r.pool, func(s *memState) error {
		for _, a := range s.alerts {
			if a.RecordID != recordID {
				continue
			}
			if activeOnly && !a.Active {
				continue
			}
			cp := *a
			out = append(out, &cp)
		}
		return nil
	})
	return out, nil
}

func (r *memAlertRepo) Resolve(id string) error {
	return with(r.tx, r.pool, func(s *memState) error {
		for _, a := range s.alerts {
			if a.ID == id {
				now := time.Now()
				a.Active = false
				a.ResolvedAt = &now
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

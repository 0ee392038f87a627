package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/goliatone/go-seo-dashboard/components/datatable"
)

// Latency configures the simulated delay of repository calls.
type Latency struct {
	Read  time.Duration
	Write time.Duration
}

// DefaultLatency mirrors the delays of a slow remote API.
func DefaultLatency() Latency {
	return Latency{Read: 300 * time.Millisecond, Write: 300 * time.Millisecond}
}

// Stamper adjusts a record before it is stored. created is true for inserts.
type Stamper func(now time.Time, record datatable.Record, created bool)

// MemoryOptions configures a Memory repository.
type MemoryOptions struct {
	Entity  string
	Records []datatable.Record
	Latency Latency
	Clock   func() time.Time
	Stamp   Stamper
}

// Memory is a mutex-guarded in-process collection. Identifiers are minted
// from a high-water mark so a deleted id is never handed out again.
type Memory struct {
	mu      sync.RWMutex
	entity  string
	records []datatable.Record
	lastID  int
	latency Latency
	now     func() time.Time
	stamp   Stamper
}

var _ Repository = (*Memory)(nil)

// NewMemory seeds a repository with deep copies of opts.Records.
func NewMemory(opts MemoryOptions) *Memory {
	m := &Memory{
		entity:  opts.Entity,
		records: datatable.CloneAll(opts.Records),
		latency: opts.Latency,
		now:     opts.Clock,
		stamp:   opts.Stamp,
	}
	if m.now == nil {
		m.now = time.Now
	}
	for _, r := range m.records {
		if id, ok := r.ID(); ok && id > m.lastID {
			m.lastID = id
		}
	}
	return m
}

// Entity returns the collection name.
func (m *Memory) Entity() string {
	return m.entity
}

// GetAll returns every record.
func (m *Memory) GetAll(ctx context.Context) ([]datatable.Record, error) {
	if err := wait(ctx, m.latency.Read); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return datatable.CloneAll(m.records), nil
}

// GetByID returns the record with id.
func (m *Memory) GetByID(ctx context.Context, id int) (datatable.Record, error) {
	if err := wait(ctx, m.latency.Read); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx := m.indexOf(id)
	if idx < 0 {
		return nil, NotFound(m.entity, id)
	}
	return m.records[idx].Clone(), nil
}

// Create stores data under a fresh id. Any id present in data is ignored.
func (m *Memory) Create(ctx context.Context, data datatable.Record) (datatable.Record, error) {
	if err := wait(ctx, m.latency.Write); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	record := data.Clone()
	if record == nil {
		record = datatable.Record{}
	}
	m.lastID++
	record[datatable.IDField] = m.lastID
	if m.stamp != nil {
		m.stamp(m.now().UTC(), record, true)
	}
	m.records = append(m.records, record)
	return record.Clone(), nil
}

// Update shallow-merges data into the record with id. The id itself is immutable.
func (m *Memory) Update(ctx context.Context, id int, data datatable.Record) (datatable.Record, error) {
	if err := wait(ctx, m.latency.Write); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.indexOf(id)
	if idx < 0 {
		return nil, NotFound(m.entity, id)
	}
	merged := m.records[idx].Clone()
	for key, value := range data.Clone() {
		merged[key] = value
	}
	merged[datatable.IDField] = id
	if m.stamp != nil {
		m.stamp(m.now().UTC(), merged, false)
	}
	m.records[idx] = merged
	return merged.Clone(), nil
}

// Delete removes the record with id.
func (m *Memory) Delete(ctx context.Context, id int) (bool, error) {
	if err := wait(ctx, m.latency.Write); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.indexOf(id)
	if idx < 0 {
		return false, NotFound(m.entity, id)
	}
	m.records = slices.Delete(m.records, idx, idx+1)
	return true, nil
}

// Len returns the current record count without simulated latency.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

func (m *Memory) indexOf(id int) int {
	return slices.IndexFunc(m.records, func(r datatable.Record) bool {
		rid, ok := r.ID()
		return ok && rid == id
	})
}

// wait sleeps for d unless ctx is cancelled first.
func wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

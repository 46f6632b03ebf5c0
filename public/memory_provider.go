package public

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

// MemoryProvider is an in-process Provider. It is safe for concurrent use.
type MemoryProvider struct {
	mu      sync.Mutex
	records map[int64]Record
	groups  []GroupRecord
	nextID  int64

	deleteBudget int
	deleteErr    error
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{records: map[int64]Record{}}
}

// FailDeletesAfter makes every following Delete call remove at most n ids
// and then return err. A nil err clears the failure.
func (p *MemoryProvider) FailDeletesAfter(n int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleteBudget = n
	p.deleteErr = err
}

func (p *MemoryProvider) Load(_ context.Context, id int64) (Record, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	record, ok := p.records[id]
	if !ok {
		return Record{}, fmt.Errorf("%w: %d", ErrRecordNotFound, id)
	}
	return cloneRecord(record), nil
}

func (p *MemoryProvider) Exists(_ context.Context, ids []int64) (map[int64]bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[int64]bool, len(ids))
	for _, id := range ids {
		_, ok := p.records[id]
		out[id] = ok
	}
	return out, nil
}

func (p *MemoryProvider) Insert(_ context.Context, record Record) (Record, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	stored := cloneRecord(record)
	stored.ID = p.next()
	stored.LookupKey = "lk-" + strconv.FormatInt(stored.ID, 10)
	for index := range stored.Rows {
		stored.Rows[index].ID = p.next()
	}
	p.records[stored.ID] = stored
	return cloneRecord(stored), nil
}

func (p *MemoryProvider) Update(_ context.Context, record Record) (Record, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	existing, ok := p.records[record.ID]
	if !ok {
		return Record{}, fmt.Errorf("%w: %d", ErrRecordNotFound, record.ID)
	}
	stored := cloneRecord(record)
	stored.LookupKey = existing.LookupKey
	for index := range stored.Rows {
		if stored.Rows[index].ID == 0 {
			stored.Rows[index].ID = p.next()
		}
	}
	p.records[stored.ID] = stored
	return cloneRecord(stored), nil
}

func (p *MemoryProvider) Delete(_ context.Context, ids []int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for index, id := range ids {
		if p.deleteErr != nil && index >= p.deleteBudget {
			return p.deleteErr
		}
		delete(p.records, id)
	}
	return p.deleteErr
}

func (p *MemoryProvider) ListGroups(_ context.Context, account string) ([]GroupRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]GroupRecord, 0, len(p.groups))
	for _, group := range p.groups {
		if group.Account == account {
			out = append(out, group)
		}
	}
	return out, nil
}

func (p *MemoryProvider) InsertGroups(_ context.Context, groups []GroupRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, group := range groups {
		group.ID = p.next()
		p.groups = append(p.groups, group)
	}
	return nil
}

// Len returns the number of stored records.
func (p *MemoryProvider) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.records)
}

func (p *MemoryProvider) next() int64 {
	p.nextID++
	return p.nextID
}

func cloneRecord(record Record) Record {
	out := record
	out.Thumbnail = append([]byte(nil), record.Thumbnail...)
	out.Photo = append([]byte(nil), record.Photo...)
	out.Rows = append([]Row(nil), record.Rows...)
	out.Groups = append([]string(nil), record.Groups...)
	return out
}

var _ Provider = (*MemoryProvider)(nil)

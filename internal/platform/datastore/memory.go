package datastore

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// MemoryStore keeps rows per table in insertion order. Values are compared by
// their fmt representation so typed IDs and their string forms match.
type MemoryStore struct {
	mu     sync.RWMutex
	schema Schema
	tables map[string][]Row
}

func NewMemory(schema Schema) *MemoryStore {
	return &MemoryStore{schema: schema, tables: make(map[string][]Row)}
}

func (s *MemoryStore) Select(_ context.Context, table string, columns []string, filters ...Filter) ([]Row, error) {
	if err := s.schema.checkColumns(table, append(slices.Clone(columns), filterColumns(filters)...)...); err != nil {
		return nil, err
	}
	if matchesNothing(filters) {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Row
	for _, row := range s.tables[table] {
		if !matchAll(row, filters) {
			continue
		}
		out = append(out, project(row, columns))
	}
	return out, nil
}

func (s *MemoryStore) Insert(_ context.Context, table string, row Row) error {
	cols := make([]string, 0, len(row))
	for c := range row {
		cols = append(cols, c)
	}
	if err := s.schema.checkColumns(table, cols...); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[table] = append(s.tables[table], maps.Clone(row))
	return nil
}

func (s *MemoryStore) Update(_ context.Context, table string, set Row, filters ...Filter) (int64, error) {
	if len(filters) == 0 {
		return 0, ErrUnscoped
	}
	cols := filterColumns(filters)
	for c := range set {
		cols = append(cols, c)
	}
	if err := s.schema.checkColumns(table, cols...); err != nil {
		return 0, err
	}
	if matchesNothing(filters) {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, row := range s.tables[table] {
		if matchAll(row, filters) {
			maps.Copy(row, set)
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Delete(_ context.Context, table string, filters ...Filter) (int64, error) {
	if len(filters) == 0 {
		return 0, ErrUnscoped
	}
	if err := s.schema.checkColumns(table, filterColumns(filters)...); err != nil {
		return 0, err
	}
	if matchesNothing(filters) {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.tables[table]
	kept := rows[:0]
	var n int64
	for _, row := range rows {
		if matchAll(row, filters) {
			n++
			continue
		}
		kept = append(kept, row)
	}
	s.tables[table] = kept
	return n, nil
}

func (s *MemoryStore) Count(_ context.Context, table string, filters ...Filter) (int64, error) {
	if err := s.schema.checkColumns(table, filterColumns(filters)...); err != nil {
		return 0, err
	}
	if matchesNothing(filters) {
		return 0, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, row := range s.tables[table] {
		if matchAll(row, filters) {
			n++
		}
	}
	return n, nil
}

func matchAll(row Row, filters []Filter) bool {
	for _, f := range filters {
		if !match(row, f) {
			return false
		}
	}
	return true
}

func match(row Row, f Filter) bool {
	v, ok := row[f.Column]
	if !ok || v == nil {
		return false
	}
	key := fmt.Sprint(v)
	for _, want := range f.values {
		if want != nil && fmt.Sprint(want) == key {
			return true
		}
	}
	return false
}

func project(row Row, columns []string) Row {
	if len(columns) == 0 {
		return maps.Clone(row)
	}
	out := make(Row, len(columns))
	for _, c := range columns {
		out[c] = row[c]
	}
	return out
}

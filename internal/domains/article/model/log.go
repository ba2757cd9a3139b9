package model

import "encoding/json"

// Log is an append-only, ordered sequence. Append returns a new Log and never
// touches the receiver's backing array, so a Log value can be shared freely.
type Log[T any] struct {
	entries []T
}

func NewLog[T any](entries ...T) Log[T] {
	cp := make([]T, len(entries))
	copy(cp, entries)
	return Log[T]{entries: cp}
}

// Append returns a new Log with e at the end
func (l Log[T]) Append(e T) Log[T] {
	next := make([]T, len(l.entries)+1)
	copy(next, l.entries)
	next[len(l.entries)] = e
	return Log[T]{entries: next}
}

func (l Log[T]) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the entries, oldest first
func (l Log[T]) Entries() []T {
	cp := make([]T, len(l.entries))
	copy(cp, l.entries)
	return cp
}

// Last returns the newest entry
func (l Log[T]) Last() (T, bool) {
	var zero T
	if len(l.entries) == 0 {
		return zero, false
	}
	return l.entries[len(l.entries)-1], true
}

// Since returns the entries appended after the first n
func (l Log[T]) Since(n int) []T {
	if n >= len(l.entries) {
		return nil
	}
	if n < 0 {
		n = 0
	}
	cp := make([]T, len(l.entries)-n)
	copy(cp, l.entries[n:])
	return cp
}

func (l Log[T]) MarshalJSON() ([]byte, error) {
	if l.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.entries)
}

func (l *Log[T]) UnmarshalJSON(data []byte) error {
	var entries []T
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	l.entries = entries
	return nil
}

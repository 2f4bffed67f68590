// Package codepoint assigns Unicode codepoints to icon names.
package codepoint

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/satishbabariya/iconfont-go/internal/debug"
)

// DefaultStart is the cursor value auto-assignment starts from. The cursor is
// incremented before each assignment, so the first auto-assigned icon
// receives DefaultStart+1.
const DefaultStart rune = 0xf101

// Entry is one name/codepoint pair of a Table.
type Entry struct {
	Name      string
	Codepoint rune
}

// Table maps icon names to codepoints and remembers insertion order.
type Table struct {
	entries []Entry
	index   map[string]int
	used    map[rune]struct{}
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		index: make(map[string]int),
		used:  make(map[rune]struct{}),
	}
}

// Set assigns cp to name. Reassigning an existing name keeps its position.
func (t *Table) Set(name string, cp rune) {
	if i, ok := t.index[name]; ok {
		old := t.entries[i].Codepoint
		t.entries[i].Codepoint = cp
		t.release(old)
		t.used[cp] = struct{}{}
		return
	}
	t.index[name] = len(t.entries)
	t.entries = append(t.entries, Entry{Name: name, Codepoint: cp})
	t.used[cp] = struct{}{}
}

// release drops cp from the used set unless another entry still holds it.
func (t *Table) release(cp rune) {
	for _, e := range t.entries {
		if e.Codepoint == cp {
			return
		}
	}
	delete(t.used, cp)
}

// Get returns the codepoint assigned to name.
func (t *Table) Get(name string) (rune, bool) {
	i, ok := t.index[name]
	if !ok {
		return 0, false
	}
	return t.entries[i].Codepoint, true
}

// Has reports whether name has an entry.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Used reports whether any entry holds cp.
func (t *Table) Used(cp rune) bool {
	_, ok := t.used[cp]
	return ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the entries in insertion order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Map returns the table as a plain map.
func (t *Table) Map() map[string]rune {
	m := make(map[string]rune, len(t.entries))
	for _, e := range t.entries {
		m[e.Name] = e.Codepoint
	}
	return m
}

// Resolve returns the display name for base, applying renames.
func Resolve(base string, renames map[string]string) string {
	if renamed, ok := renames[base]; ok && renamed != "" {
		return renamed
	}
	return base
}

// Allocate builds the codepoint table for names.
//
// Overrides are copied verbatim first, in ascending name order. Every name
// without an entry then gets the next free value after the cursor, which
// starts at start. Names are passed through renames before lookup, so two
// names renamed to the same display name share one entry.
//
// An override set that occupies every value above start never terminates.
func Allocate(names []string, overrides map[string]rune, renames map[string]string, start rune) *Table {
	table := NewTable()

	keys := make([]string, 0, len(overrides))
	for name := range overrides {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	for _, name := range keys {
		table.Set(name, overrides[name])
	}

	cursor := start
	for _, base := range names {
		name := Resolve(base, renames)
		if table.Has(name) {
			continue
		}
		for {
			cursor++
			if !table.Used(cursor) {
				break
			}
		}
		table.Set(name, cursor)
	}

	debug.Debug("Codepoints allocated",
		"names", len(names),
		"overrides", len(overrides),
		"entries", table.Len(),
		"start", Hex(start))

	return table
}

// Hex renders cp as lowercase hexadecimal without padding.
func Hex(cp rune) string {
	return strconv.FormatInt(int64(cp), 16)
}

// Parse reads a codepoint written as a decimal number, a 0x-prefixed hex
// number, or a U+ notation value.
func Parse(s string) (rune, error) {
	s = strings.TrimSpace(s)
	base := 10
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s, base = s[2:], 16
	case strings.HasPrefix(s, "U+"), strings.HasPrefix(s, "u+"):
		s, base = s[2:], 16
	}
	v, err := strconv.ParseUint(s, base, 31)
	if err != nil {
		return 0, fmt.Errorf("invalid codepoint %q: %w", s, err)
	}
	return rune(v), nil
}

package inventory

import (
	"sort"
	"time"
)

// Table is the canonical shaped-device table, keyed by circuit name. It also
// maintains an IPv4 ownership index used for conflict resolution during
// merging. The table is owned by the single reconciliation worker for the
// duration of a cycle; no internal locking.
type Table struct {
	records map[string]*Record
	byIPv4  map[string]string // ipv4 -> circuit name
}

// NewTable creates an empty canonical table.
func NewTable() *Table {
	return &Table{
		records: make(map[string]*Record),
		byIPv4:  make(map[string]string),
	}
}

// Len returns the number of records.
func (t *Table) Len() int { return len(t.records) }

// Get returns the record for a circuit name.
func (t *Table) Get(name string) (*Record, bool) {
	r, ok := t.records[name]
	return r, ok
}

// OwnerOfIPv4 returns the circuit name currently holding an IPv4 address.
func (t *Table) OwnerOfIPv4(ip string) (string, bool) {
	if ip == "" {
		return "", false
	}
	name, ok := t.byIPv4[ip]
	return name, ok
}

// BuildOrUpdate inserts a new record for the circuit name or applies a
// field-by-field update to the existing one. New records get two fresh
// opaque identifiers from newID; existing identifiers are never touched.
// Returns the record and whether anything changed.
//
// This is the only structural mutation point for insert/update; deletion is
// a separate operation.
func (t *Table) BuildOrUpdate(name string, attrs Attrs, newID func() string) (*Record, bool) {
	rec, exists := t.records[name]
	if !exists {
		rec = &Record{
			CircuitID:   newID(),
			CircuitName: name,
			DeviceID:    newID(),
			DeviceName:  name,
		}
		rec.apply(attrs)
		t.records[name] = rec
		t.index(rec)
		return rec, true
	}

	oldIP := rec.IPv4
	changed := rec.apply(attrs)
	if rec.IPv4 != oldIP {
		// The stale mapping under the old address would otherwise ghost
		// around after IP churn.
		if owner, ok := t.byIPv4[oldIP]; ok && owner == name {
			delete(t.byIPv4, oldIP)
		}
		t.index(rec)
	}
	return rec, changed
}

// Insert places a fully formed record into the table, used when loading the
// persisted table. Existing records under the same name are replaced.
func (t *Table) Insert(rec *Record) {
	t.records[rec.CircuitName] = rec
	t.index(rec)
}

// Touch refreshes a record's LastSeen timestamp.
func (t *Table) Touch(name string, now time.Time) {
	if rec, ok := t.records[name]; ok {
		rec.LastSeen = now
	}
}

// Delete removes a record and its address index entry.
func (t *Table) Delete(name string) bool {
	rec, ok := t.records[name]
	if !ok {
		return false
	}
	if owner, ok := t.byIPv4[rec.IPv4]; ok && owner == name {
		delete(t.byIPv4, rec.IPv4)
	}
	delete(t.records, name)
	return true
}

// Clear wipes every record. Used by the mode-change guard; the hierarchy is
// not touched by design.
func (t *Table) Clear() {
	t.records = make(map[string]*Record)
	t.byIPv4 = make(map[string]string)
}

// All returns the records sorted by circuit name for deterministic output.
func (t *Table) All() []*Record {
	out := make([]*Record, 0, len(t.records))
	for _, r := range t.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CircuitName < out[j].CircuitName
	})
	return out
}

func (t *Table) index(rec *Record) {
	if rec.IPv4 != "" {
		t.byIPv4[rec.IPv4] = rec.CircuitName
	}
}

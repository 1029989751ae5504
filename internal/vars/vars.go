// Package vars implements the shell's 128-slot single-character
// variable table and the $X substitution pass (spec.md C3/§4.3).
package vars

import "strings"

// Table is a fixed-size indexed table keyed by the byte value of a
// single-character variable name.
type Table struct {
	slots [128]*string
}

// Get returns the value bound to name and whether it is set.
func (t *Table) Get(name byte) (string, bool) {
	if name >= 128 {
		return "", false
	}
	if p := t.slots[name]; p != nil {
		return *p, true
	}
	return "", false
}

// Set binds name to value.
func (t *Table) Set(name byte, value string) {
	if name >= 128 {
		return
	}
	v := value
	t.slots[name] = &v
}

// Unset clears name's binding.
func (t *Table) Unset(name byte) {
	if name >= 128 {
		return
	}
	t.slots[name] = nil
}

// Snapshot captures every bound slot into a plain map, the
// representation a re-exec'd worker's environment carries across a
// process boundary (internal/rexec).
func (t *Table) Snapshot() map[byte]string {
	out := make(map[byte]string)
	for i, p := range t.slots {
		if p != nil {
			out[byte(i)] = *p
		}
	}
	return out
}

// Restore replaces the table's contents with snapshot.
func (t *Table) Restore(snapshot map[byte]string) {
	for i := range t.slots {
		t.slots[i] = nil
	}
	for k, v := range snapshot {
		t.Set(k, v)
	}
}

// Expanded is the tagged "maybe owned" result of Substitute, replacing
// the source's pointer-identity trick (design note "Pointer-tagged
// 'maybe owned' strings") with an explicit Borrowed/Owned flag.
type Expanded struct {
	Value string
	Owned bool
}

// Substitute scans s for $X occurrences. X is the single byte
// following '$'; if the table has a binding for it, the occurrence is
// replaced, otherwise the two-byte $X sequence is copied verbatim. A
// trailing bare '$' (no following byte) is copied as-is. The pass is
// single-pass: substituted text is never rescanned for further '$'
// sequences (spec.md §4.3).
func Substitute(s string, t *Table) Expanded {
	if !strings.Contains(s, "$") {
		return Expanded{Value: s, Owned: false}
	}

	var b strings.Builder
	changed := false
	i := 0
	for i < len(s) {
		if s[i] != '$' || i+1 >= len(s) {
			b.WriteByte(s[i])
			i++
			continue
		}
		name := s[i+1]
		if name < 128 {
			if v, ok := t.Get(name); ok {
				b.WriteString(v)
				changed = true
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
		b.WriteByte(name)
		i += 2
	}

	if !changed {
		return Expanded{Value: s, Owned: false}
	}
	return Expanded{Value: b.String(), Owned: true}
}

// SubstituteAll expands every element of argv, preserving length and
// order (spec.md §8 property 4).
func SubstituteAll(argv []string, t *Table) []string {
	out := make([]string, len(argv))
	for i, a := range argv {
		out[i] = Substitute(a, t).Value
	}
	return out
}

/* SPDX-License-Identifier: AGPL-3.0-or-later
 *
 * OctopuSV - Structural variant correction and merging.
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as published
 * by the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package record

import "strings"

// InfoMap is an ordered key/value mapping for a VCF INFO field. Go maps do
// not preserve insertion order, and the emitter (C11) must reproduce the
// representative record's INFO ordering verbatim except for a rewritten
// SOURCES entry, so order is tracked explicitly here rather than trusted to
// a bare map.
type InfoMap struct {
	keys  []string
	vals  map[string]string
	flags map[string]bool
}

// NewInfoMap returns an empty, ready to use InfoMap.
func NewInfoMap() *InfoMap {
	return &InfoMap{
		vals:  make(map[string]string),
		flags: make(map[string]bool),
	}
}

// ParseInfo decodes a VCF INFO field (e.g. "SVTYPE=DEL;END=200;IMPRECISE")
// into an InfoMap, preserving field order. A missing or "." field yields an
// empty map.
func ParseInfo(s string) *InfoMap {
	m := NewInfoMap()
	if s == "" || s == "." {
		return m
	}

	for _, field := range strings.Split(s, ";") {
		if field == "" {
			continue
		}

		if key, value, ok := strings.Cut(field, "="); ok {
			m.Set(key, value)
		} else {
			m.SetFlag(field)
		}
	}

	return m
}

// Get returns the value for key and whether it was present. Flag keys
// (no "=value") return ("", true).
func (m *InfoMap) Get(key string) (string, bool) {
	if m == nil {
		return "", false
	}

	if v, ok := m.vals[key]; ok {
		return v, true
	}

	if m.flags[key] {
		return "", true
	}

	return "", false
}

// Set assigns key=value, appending key to the ordering if it is new.
func (m *InfoMap) Set(key, value string) {
	if _, hadValue := m.vals[key]; !hadValue && !m.flags[key] {
		m.keys = append(m.keys, key)
	}

	delete(m.flags, key)
	m.vals[key] = value
}

// SetFlag records a valueless INFO flag such as IMPRECISE.
func (m *InfoMap) SetFlag(key string) {
	if _, hadValue := m.vals[key]; !hadValue && !m.flags[key] {
		m.keys = append(m.keys, key)
	}

	delete(m.vals, key)
	m.flags[key] = true
}

// Delete removes key from the map entirely.
func (m *InfoMap) Delete(key string) {
	if _, hadValue := m.vals[key]; !hadValue && !m.flags[key] {
		return
	}

	delete(m.vals, key)
	delete(m.flags, key)

	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the INFO keys in insertion order.
func (m *InfoMap) Keys() []string {
	if m == nil {
		return nil
	}

	out := make([]string, len(m.keys))
	copy(out, m.keys)

	return out
}

// Clone returns a deep copy sharing no mutable state with m, so rewrites
// (C5/C6) can clone a template record without the risk of the original
// record's INFO mutating in lock-step.
func (m *InfoMap) Clone() *InfoMap {
	if m == nil {
		return NewInfoMap()
	}

	out := &InfoMap{
		keys:  append([]string(nil), m.keys...),
		vals:  make(map[string]string, len(m.vals)),
		flags: make(map[string]bool, len(m.flags)),
	}

	for k, v := range m.vals {
		out.vals[k] = v
	}

	for k, v := range m.flags {
		out.flags[k] = v
	}

	return out
}

// String reassembles the INFO field in key order.
func (m *InfoMap) String() string {
	if m == nil || len(m.keys) == 0 {
		return "."
	}

	parts := make([]string, 0, len(m.keys))
	for _, k := range m.keys {
		if m.flags[k] {
			parts = append(parts, k)
			continue
		}

		parts = append(parts, k+"="+m.vals[k])
	}

	return strings.Join(parts, ";")
}

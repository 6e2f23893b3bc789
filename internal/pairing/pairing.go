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

// Package pairing implements C4: a small state machine, parameterized by
// key direction and collision policy, that three named instantiations build
// on to discover BND pairs under a positional tolerance. See §4.4 and §4.9
// of the design notes — iteration follows input order, the first matching
// candidate wins, and (i, j) tie-breaks follow row-major order.
package pairing

import "github.com/zymatik-com/octopusv/internal/record"

// Key identifies a breakend by its own and mate coordinates.
type Key struct {
	Chrom     string
	Pos       int
	MateChrom string
	MatePos   int
}

// Pair is two records discovered to be mates of one another.
type Pair struct {
	A, B *record.Record
}

// MateFunc extracts a record's mate chromosome and position (e.g. from its
// parsed BND ALT). ok is false when no mate can be determined, in which
// case the record is skipped from pairing with a log line left to the
// caller.
type MateFunc func(r *record.Record) (mateChrom string, matePos int, ok bool)

// orderedSingle is an at-most-one-value-per-key store that preserves
// insertion order for its Remaining() traversal.
type orderedSingle struct {
	keys []Key
	vals map[Key]*record.Record
}

func newOrderedSingle() *orderedSingle {
	return &orderedSingle{vals: make(map[Key]*record.Record)}
}

func (s *orderedSingle) put(k Key, r *record.Record) {
	if _, exists := s.vals[k]; !exists {
		s.keys = append(s.keys, k)
	}

	s.vals[k] = r
}

func (s *orderedSingle) pop(k Key) (*record.Record, bool) {
	r, ok := s.vals[k]
	if ok {
		delete(s.vals, k)
	}

	return r, ok
}

func (s *orderedSingle) remaining() []*record.Record {
	out := make([]*record.Record, 0, len(s.vals))

	// A key that was popped and later put again appears twice in keys; only
	// its last occurrence reflects the stored record's insertion position.
	last := make(map[Key]int, len(s.keys))
	for i, k := range s.keys {
		last[k] = i
	}

	for i, k := range s.keys {
		if last[k] != i {
			continue
		}

		if r, ok := s.vals[k]; ok {
			out = append(out, r)
		}
	}

	return out
}

// orderedMulti is a list-of-many-values-per-key store, FIFO within a key,
// that preserves insertion order for its Remaining() traversal.
type orderedMulti struct {
	keys []Key
	vals map[Key][]*record.Record
}

func newOrderedMulti() *orderedMulti {
	return &orderedMulti{vals: make(map[Key][]*record.Record)}
}

func (s *orderedMulti) append(k Key, r *record.Record) {
	if _, exists := s.vals[k]; !exists {
		s.keys = append(s.keys, k)
	}

	s.vals[k] = append(s.vals[k], r)
}

func (s *orderedMulti) popOne(k Key) (*record.Record, bool) {
	list, ok := s.vals[k]
	if !ok || len(list) == 0 {
		return nil, false
	}

	r := list[0]
	s.vals[k] = list[1:]

	return r, true
}

func (s *orderedMulti) remaining() []*record.Record {
	var out []*record.Record

	for _, k := range s.keys {
		out = append(out, s.vals[k]...)
	}

	return out
}

// FindMatePairs is the "mate BND" instantiation: the store holds at most one
// record per key. For each record r, candidate reverse keys
// (mateChrom, matePos+i, r.Chrom, r.Pos+j) are probed for i, j in
// [-tolerance, tolerance] in row-major order; the first hit pops the stored
// record and emits a pair. A miss inserts r at its own forward key
// (r.Chrom, r.Pos, mateChrom, matePos). Leftover entries are returned as
// noMate, in input order.
func FindMatePairs(records []*record.Record, tolerance int, mate MateFunc) (pairs []Pair, noMate []*record.Record) {
	store := newOrderedSingle()

	for _, r := range records {
		mateChrom, matePos, ok := mate(r)
		if !ok {
			continue
		}

		matched := false

		for i := -tolerance; i <= tolerance && !matched; i++ {
			for j := -tolerance; j <= tolerance; j++ {
				candidate := Key{mateChrom, matePos + i, r.Chrom, r.Pos + j}

				if stored, hit := store.pop(candidate); hit {
					pairs = append(pairs, Pair{A: stored, B: r})
					matched = true

					break
				}
			}
		}

		if !matched {
			store.put(Key{r.Chrom, r.Pos, mateChrom, matePos}, r)
		}
	}

	return pairs, store.remaining()
}

// FoldDuplicates is the "no-mate folding" instantiation: the store holds a
// list per key. On a reverse-key hit, one stored entry is popped (FIFO) and
// paired with the probing record; otherwise the record is appended at its
// own forward key. It is used to collapse duplicate/near-duplicate entries
// within a no-mate leftover list before further pairing.
func FoldDuplicates(records []*record.Record, tolerance int, mate MateFunc) (pairs []Pair, remaining []*record.Record) {
	store := newOrderedMulti()

	for _, r := range records {
		mateChrom, matePos, ok := mate(r)
		if !ok {
			continue
		}

		matched := false

		for i := -tolerance; i <= tolerance && !matched; i++ {
			for j := -tolerance; j <= tolerance; j++ {
				candidate := Key{mateChrom, matePos + i, r.Chrom, r.Pos + j}

				if stored, hit := store.popOne(candidate); hit {
					pairs = append(pairs, Pair{A: stored, B: r})
					matched = true

					break
				}
			}
		}

		if !matched {
			store.append(Key{r.Chrom, r.Pos, mateChrom, matePos}, r)
		}
	}

	return pairs, store.remaining()
}

// FindForwardPairs is the "same-direction pairing" instantiation: instead of
// probing the reverse (mate-first) key, candidates keep the record's own
// coordinates first — (r.Chrom, r.Pos+i, mateChrom, matePos+j) — so two
// records whose source AND target coordinates both fall within tolerance of
// one another are paired, even though neither is the literal reverse of the
// other's mate reference.
func FindForwardPairs(records []*record.Record, tolerance int, mate MateFunc) (pairs []Pair, singles []*record.Record) {
	store := newOrderedSingle()

	for _, r := range records {
		mateChrom, matePos, ok := mate(r)
		if !ok {
			continue
		}

		matched := false

		for i := -tolerance; i <= tolerance && !matched; i++ {
			for j := -tolerance; j <= tolerance; j++ {
				candidate := Key{r.Chrom, r.Pos + i, mateChrom, matePos + j}

				if stored, hit := store.pop(candidate); hit {
					pairs = append(pairs, Pair{A: stored, B: r})
					matched = true

					break
				}
			}
		}

		if !matched {
			store.put(Key{r.Chrom, r.Pos, mateChrom, matePos}, r)
		}
	}

	return pairs, store.remaining()
}

// MateOf is the MateFunc used throughout the corrector: a record's mate is
// whatever its BND ALT parses to.
func MateOf(r *record.Record) (string, int, bool) {
	mate, ok := record.ParseBND(r.Alt)
	if !ok {
		return "", 0, false
	}

	return mate.Chrom, mate.Pos, true
}

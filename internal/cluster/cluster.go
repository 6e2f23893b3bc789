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

// Package cluster implements C8 (the incremental, chaining-free cluster
// store) and C9 (the deterministic representative selector), ported from
// original_source's sv_merger.py/bnd_merger.py grouping loop: a new record
// is tested only against the first member of each existing group, and
// groups are never revisited once formed.
package cluster

import (
	"sort"

	"github.com/zymatik-com/octopusv/internal/record"
)

// Predicate reports whether candidate should join the group represented by
// first, the group's first-ever member.
type Predicate func(first, candidate *record.Record) bool

// Group is an ordered, append-only collection of records judged similar by
// a Predicate.
type Group struct {
	members []*record.Record
}

// Members returns the group's records in insertion order.
func (g *Group) Members() []*record.Record {
	return g.members
}

// Store holds one category's worth of groups (a single (svtype, chrom) or
// sorted chromosome-pair bucket). It is not safe for concurrent use; callers
// clustering multiple categories in parallel should give each goroutine its
// own Store.
type Store struct {
	predicate Predicate
	groups    []*Group
}

// NewStore creates an empty cluster store that will use predicate to decide
// group membership.
func NewStore(predicate Predicate) *Store {
	return &Store{predicate: predicate}
}

// Add scans existing groups in insertion order, testing the predicate
// against each group's first member only. The first match wins; if none
// match, candidate starts a new, single-member group.
func (s *Store) Add(candidate *record.Record) {
	for _, g := range s.groups {
		if s.predicate(g.members[0], candidate) {
			g.members = append(g.members, candidate)
			return
		}
	}

	s.groups = append(s.groups, &Group{members: []*record.Record{candidate}})
}

// Groups returns every group formed so far, in the order they were created.
func (s *Store) Groups() []*Group {
	return s.groups
}

// SelectRepresentative implements C9: rank a group's members by support
// count (desc, missing treated as 0), then QUAL (desc, missing treated as
// -inf), then |SVLEN| (desc, missing treated as 0), then lexicographically
// by source-file identifier and finally record ID, and return the
// highest-ranked member.
func SelectRepresentative(members []*record.Record) *record.Record {
	best := members[0]

	for _, m := range members[1:] {
		if rankLess(best, m) {
			best = m
		}
	}

	return best
}

// rankLess reports whether b outranks a under the C9 ordering.
func rankLess(a, b *record.Record) bool {
	as, _ := a.Support()
	bs, _ := b.Support()

	if as != bs {
		return bs > as
	}

	aq := qualOrNegInf(a)
	bq := qualOrNegInf(b)

	if aq != bq {
		return bq > aq
	}

	al, _ := a.SVLen()
	bl, _ := b.SVLen()

	if al != bl {
		return bl > al
	}

	if a.Source != b.Source {
		return b.Source < a.Source
	}

	return b.ID < a.ID
}

func qualOrNegInf(r *record.Record) float64 {
	if r.Qual != nil {
		return *r.Qual
	}

	return negInf
}

const negInf = -1 << 62

// Cluster is the finished (key, group, representative) tuple §4.8 hands off
// to selection (C10) and the emitter (C11): a group's members, the
// representative C9 picked, and the union of source labels across the
// group.
type Cluster struct {
	Key            string
	Representative *record.Record
	Members        []*record.Record
	Sources        []string
}

// Finalize turns a store's groups into Clusters, selecting a representative
// and computing the source union for each.
func Finalize(key string, groups []*Group) []Cluster {
	clusters := make([]Cluster, 0, len(groups))

	for _, g := range groups {
		clusters = append(clusters, Cluster{
			Key:            key,
			Representative: SelectRepresentative(g.members),
			Members:        g.members,
			Sources:        SourceSet(g.members),
		})
	}

	return clusters
}

// SourceSet returns the sorted, de-duplicated set of Source labels across a
// group's members.
func SourceSet(members []*record.Record) []string {
	seen := make(map[string]bool, len(members))

	var sources []string
	for _, m := range members {
		if m.Source == "" || seen[m.Source] {
			continue
		}

		seen[m.Source] = true
		sources = append(sources, m.Source)
	}

	sort.Strings(sources)

	return sources
}

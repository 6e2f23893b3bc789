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

package cluster

import (
	"sort"

	"github.com/Workiva/go-datastructures/augmentedtree"

	"github.com/zymatik-com/octopusv/internal/record"
)

// groupInterval adapts a group's [start, end] span to augmentedtree.Interval,
// the same interface nucleo/liftover's chain/alignment indices implement,
// so SpatialStore can reuse the one-dimensional interval tree rather than a
// bespoke range index. seq records the group's insertion order into the
// store, independent of augmentedtree's internal structural ordering, so a
// query's hits can be re-sorted back to first-match-wins order.
type groupInterval struct {
	start, end int64
	id         uint64
	seq        int
	group      *Group
}

func (g *groupInterval) LowAtDimension(uint64) int64  { return g.start }
func (g *groupInterval) HighAtDimension(uint64) int64 { return g.end }

func (g *groupInterval) OverlapsAtDimension(with augmentedtree.Interval, dim uint64) bool {
	return g.start <= with.HighAtDimension(dim) && with.LowAtDimension(dim) <= g.end
}

func (g *groupInterval) ID() uint64 { return g.id }

// SpatialStore wraps a Store with an interval-tree pre-filter: AddSpatial
// queries the tree for groups whose widened span overlaps the candidate's
// position window before falling back to the Store's exact first-member
// predicate check, narrowing candidate search in buckets with many
// dissimilar groups (e.g. a chromosome with thousands of unrelated DEL
// calls). augmentedtree.Query returns hits in the tree's internal
// structural order, not insertion order, so AddSpatial re-sorts hits by
// each group's seq before testing the predicate. Store.Add's first-match-
// wins rule requires groups to be tested in the order they were created,
// since a candidate can overlap two or more groups that would not match
// each other.
type SpatialStore struct {
	*Store

	tree    augmentedtree.Tree
	window  int64
	nextID  uint64
	nextSeq int
}

// NewSpatialStore builds a SpatialStore over predicate, widening each
// group's indexed span by window on each side when querying for overlap
// candidates.
func NewSpatialStore(predicate Predicate, window int) *SpatialStore {
	return &SpatialStore{
		Store:  NewStore(predicate),
		tree:   augmentedtree.New(1),
		window: int64(window),
	}
}

// AddSpatial adds candidate, querying the interval tree for groups whose
// widened span could plausibly overlap candidate's [start, end], then
// testing the exact predicate against each candidate group's first member
// in insertion order, so that the result matches what a plain Store.Add
// scan over the same groups would have picked.
func (s *SpatialStore) AddSpatial(candidate *record.Record, start, end int) {
	query := &groupInterval{start: int64(start) - s.window, end: int64(end) + s.window}

	hits := s.tree.Query(query)

	candidates := make([]*groupInterval, 0, len(hits))
	for _, iv := range hits {
		if gi, ok := iv.(*groupInterval); ok {
			candidates = append(candidates, gi)
		}
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].seq < candidates[j].seq })

	for _, gi := range candidates {
		if s.predicate(gi.group.members[0], candidate) {
			gi.group.members = append(gi.group.members, candidate)
			return
		}
	}

	group := &Group{members: []*record.Record{candidate}}
	s.groups = append(s.groups, group)

	s.nextID++
	seq := s.nextSeq
	s.nextSeq++
	s.tree.Add(&groupInterval{start: int64(start), end: int64(end), id: s.nextID, seq: seq, group: group})
}

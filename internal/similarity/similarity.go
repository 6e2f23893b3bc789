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

// Package similarity implements C7: the three type-specific "should merge"
// predicates the cluster store (C8) uses to decide whether a new record
// joins an existing group, tested against the group's first member.
package similarity

import (
	"github.com/zymatik-com/octopusv/internal/record"
)

// IntraChromosomal implements §4.6's DEL/DUP/INV/INS predicate: same
// svtype, start/end within maxDistance, length ratio within
// maxLengthRatio, and interval Jaccard at least minJaccard. Each
// condition short-circuits to false on the first mismatch.
func IntraChromosomal(a, b *record.Record, maxDistance int, maxLengthRatio, minJaccard float64) bool {
	if a.SVType() != b.SVType() {
		return false
	}

	aEnd, _ := a.End()
	bEnd, _ := b.End()

	if abs(a.Pos-b.Pos) > maxDistance || abs(aEnd-bEnd) > maxDistance {
		return false
	}

	la := lengthOf(a, aEnd)
	lb := lengthOf(b, bEnd)

	if lengthRatio(la, lb) > maxLengthRatio {
		return false
	}

	return Jaccard(a.Pos, aEnd, b.Pos, bEnd) >= minJaccard
}

// lengthOf returns a record's length in bases: |SVLEN| when present, else
// END - POS when END lies past POS, else 0.
func lengthOf(r *record.Record, end int) int {
	if svlen, ok := r.SVLen(); ok {
		return svlen
	}

	if end > r.Pos {
		return end - r.Pos
	}

	return 0
}

// lengthRatio returns max(la, lb)/min(la, lb), treating a 0-length event
// as length 1 to avoid a division-by-zero singularity.
func lengthRatio(la, lb int) float64 {
	if la == 0 {
		la = 1
	}

	if lb == 0 {
		lb = 1
	}

	big, small := float64(la), float64(lb)
	if small > big {
		big, small = small, big
	}

	return big / small
}

// Jaccard computes the interval Jaccard index |A ∩ B| / |A ∪ B| over the
// closed integer intervals [startA, endA] and [startB, endB].
func Jaccard(startA, endA, startB, endB int) float64 {
	interStart := max(startA, startB)
	interEnd := min(endA, endB)

	intersection := 0
	if interEnd >= interStart {
		intersection = interEnd - interStart + 1
	}

	unionStart := min(startA, startB)
	unionEnd := max(endA, endB)
	union := unionEnd - unionStart + 1

	if union <= 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}

// TRA implements §4.6's translocation predicate: same unordered
// chromosome pair, positions within traDelta on each side, a normalized
// mate-pair overlap of at least traMinOverlapRatio, and (when
// traStrandConsistency is set) matching strand annotations.
func TRA(a, b *record.Record, traDelta int, traMinOverlapRatio float64, traStrandConsistency bool) bool {
	aChr2, aOK := a.Chr2()
	bChr2, bOK := b.Chr2()

	if !aOK || !bOK {
		return false
	}

	if !sameUnorderedPair(a.Chrom, aChr2, b.Chrom, bChr2) {
		return false
	}

	aEnd, _ := a.End()
	bEnd, _ := b.End()

	posA, posA2 := a.Pos, aEnd
	posB, posB2 := b.Pos, bEnd

	// If the pair is stored in swapped chromosome order relative to each
	// other, compare against the swapped coordinates too.
	if a.Chrom == bChr2 && aChr2 == b.Chrom {
		posB, posB2 = bEnd, b.Pos
	}

	if abs(posA-posB) > traDelta || abs(posA2-posB2) > traDelta {
		return false
	}

	overlap := normalizedOverlap(posA, posA2, posB, posB2, traDelta)
	if overlap < traMinOverlapRatio {
		return false
	}

	if traStrandConsistency {
		aStrand, aHas := a.Info.Get("STRAND")
		bStrand, bHas := b.Info.Get("STRAND")

		if aHas && bHas && aStrand != bStrand {
			return false
		}
	}

	return true
}

// sameUnorderedPair reports whether {chromA1, chromA2} == {chromB1, chromB2}
// as unordered sets.
func sameUnorderedPair(chromA1, chromA2, chromB1, chromB2 string) bool {
	return (chromA1 == chromB1 && chromA2 == chromB2) || (chromA1 == chromB2 && chromA2 == chromB1)
}

// normalizedOverlap expresses how much of a breakend's delta-widened
// window [pos-delta, pos+delta] overlaps the other breakend's window,
// averaged over both legs of the pair, as a fraction in [0, 1].
func normalizedOverlap(posA, posA2, posB, posB2, delta int) float64 {
	legOverlap := func(pa, pb int) float64 {
		width := 2*delta + 1
		lo := max(pa-delta, pb-delta)
		hi := min(pa+delta, pb+delta)

		if hi < lo {
			return 0
		}

		return float64(hi-lo+1) / float64(width)
	}

	return (legOverlap(posA, posB) + legOverlap(posA2, posB2)) / 2
}

// BND implements §4.6's residual-breakend predicate: identical
// orientation pattern (no reciprocal equivalence the way pairing.go's
// mate-finding allows), the same source and mate chromosome, and
// positions within bndDelta on both legs.
func BND(a, b *record.Record, bndDelta int) bool {
	ma, okA := record.ParseBND(a.Alt)
	mb, okB := record.ParseBND(b.Alt)

	if !okA || !okB || ma.Pattern != mb.Pattern {
		return false
	}

	if a.Chrom != b.Chrom || ma.Chrom != mb.Chrom {
		return false
	}

	return abs(a.Pos-b.Pos) <= bndDelta && abs(ma.Pos-mb.Pos) <= bndDelta
}

func abs(n int) int {
	if n < 0 {
		return -n
	}

	return n
}

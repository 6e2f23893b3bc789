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

// Package rewrite implements C5 (same-chromosome BND rewriters) and C6
// (cross-chromosome BND rewriters). Same-chromosome rewriting follows the
// pairwise O(n^2) nested-scan behavior of original_source's
// bnd2del.py/bnd2dup_pair.py/bnd2inv_pair.py (see DESIGN.md's Open Question
// (i)) rather than C4's key-store primitive, because the reference pairing
// rule requires an exact (not tolerance-bounded) reciprocal reference check
// that has already been resolved by the time records reach this stage.
package rewrite

import (
	"strconv"

	"github.com/zymatik-com/octopusv/internal/record"
)

const svMethod = "OctopuSV"

type mateInfo struct {
	pattern record.Pattern
	chrom   string
	pos     int
}

func mateOf(r *record.Record) (mateInfo, bool) {
	m, ok := record.ParseBND(r.Alt)
	if !ok {
		return mateInfo{}, false
	}

	return mateInfo{pattern: m.Pattern, chrom: m.Chrom, pos: m.Pos}, true
}

// referencesEachOther implements the exact-reference rule of §4.5: no
// tolerance is applied here, since positional tolerance was already spent
// during pair discovery upstream where relevant.
func referencesEachOther(a, b *record.Record, ma, mb mateInfo) bool {
	return a.Chrom == mb.chrom && b.Chrom == ma.chrom && a.Pos == mb.pos && b.Pos == ma.pos
}

// SameChromosomeResult holds the outcome of running all three rewrite
// passes (DEL, DUP, INV) over a same-chromosome BND group.
type SameChromosomeResult struct {
	DEL       []*record.Record
	DUP       []*record.Record
	INV       []*record.Record
	Residual  []*record.Record // unpaired/unmatched BNDs, info-normalized
}

// SameChromosome applies the DEL, DUP then INV pass filters in fixed order
// to events, each converting pairs and handing the remainder to the next
// pass, then normalizes whatever is left as residual BND records.
func SameChromosome(events []*record.Record) SameChromosomeResult {
	afterDEL, dels := pairwiseConvert(events, checkDEL)
	afterDUP, dups := pairwiseConvert(afterDEL, checkDUP)
	residualCandidates, invs := pairwiseConvert(afterDUP, checkINV)

	residual := make([]*record.Record, 0, len(residualCandidates))
	for _, r := range residualCandidates {
		residual = append(residual, normalizeResidualBND(r))
	}

	return SameChromosomeResult{DEL: dels, DUP: dups, INV: invs, Residual: residual}
}

// pairwiseConvert scans events with a nested O(n^2) loop: for each
// not-yet-processed event1, it looks for the first not-yet-processed
// event2 (in order) for which check succeeds, converts the pair, and marks
// both processed. Events never matched are returned as the remainder.
func pairwiseConvert(events []*record.Record, check func(a, b *record.Record) (*record.Record, bool)) (remaining, converted []*record.Record) {
	processed := make(map[*record.Record]bool, len(events))

	for i, e1 := range events {
		if processed[e1] {
			continue
		}

		for j := i + 1; j < len(events); j++ {
			e2 := events[j]
			if processed[e2] {
				continue
			}

			if out, ok := check(e1, e2); ok {
				converted = append(converted, out)
				processed[e1] = true
				processed[e2] = true

				break
			}
		}
	}

	for _, e := range events {
		if !processed[e] {
			remaining = append(remaining, e)
		}
	}

	return remaining, converted
}

// checkDEL implements §4.5 step 1: one member t[p[, the other ]p]t, each
// referencing the other's position exactly, and the t[p[ member's mate
// position greater than its own position.
func checkDEL(a, b *record.Record) (*record.Record, bool) {
	ma, ok1 := mateOf(a)
	mb, ok2 := mateOf(b)

	if !ok1 || !ok2 || a.Chrom != b.Chrom || !referencesEachOther(a, b, ma, mb) {
		return nil, false
	}

	switch {
	case ma.pattern == record.PatternSeqBracketFwd && mb.pattern == record.PatternBracketSeqRev && ma.pos > a.Pos:
		return buildRewrite(a, b, "DEL"), true
	case mb.pattern == record.PatternSeqBracketFwd && ma.pattern == record.PatternBracketSeqRev && mb.pos > b.Pos:
		return buildRewrite(a, b, "DEL"), true
	default:
		return nil, false
	}
}

// checkDUP implements §4.5 step 2: same pattern pairing as DEL, but the
// t[p[ member references a position smaller than its own.
func checkDUP(a, b *record.Record) (*record.Record, bool) {
	ma, ok1 := mateOf(a)
	mb, ok2 := mateOf(b)

	if !ok1 || !ok2 || a.Chrom != b.Chrom || !referencesEachOther(a, b, ma, mb) {
		return nil, false
	}

	switch {
	case ma.pattern == record.PatternSeqBracketFwd && mb.pattern == record.PatternBracketSeqRev && ma.pos < a.Pos:
		return buildRewrite(a, b, "DUP"), true
	case mb.pattern == record.PatternSeqBracketFwd && ma.pattern == record.PatternBracketSeqRev && mb.pos < b.Pos:
		return buildRewrite(a, b, "DUP"), true
	default:
		return nil, false
	}
}

// checkINV implements §4.5 step 3: both members carry the same pattern,
// either both t]p] or both [p[t, each referencing the other's position.
func checkINV(a, b *record.Record) (*record.Record, bool) {
	ma, ok1 := mateOf(a)
	mb, ok2 := mateOf(b)

	if !ok1 || !ok2 || a.Chrom != b.Chrom || !referencesEachOther(a, b, ma, mb) {
		return nil, false
	}

	if ma.pattern != mb.pattern {
		return nil, false
	}

	if ma.pattern != record.PatternSeqBracketRev && ma.pattern != record.PatternBracketSeqFwd {
		return nil, false
	}

	return buildRewrite(a, b, "INV"), true
}

// buildRewrite clones whichever of a, b sits at the lower position as the
// template (per §4.5's "use the lower-position member as the template")
// and rewrites it into a single svtype record spanning [min(pos), max(pos)].
func buildRewrite(a, b *record.Record, svtype string) *record.Record {
	start, end := a.Pos, b.Pos
	base := a

	if b.Pos < a.Pos {
		base = b
	}

	if end < start {
		start, end = end, start
	}

	out := base.Clone()
	out.Pos = start
	out.Alt = "<" + svtype + ">"
	out.Info.Set("SVTYPE", svtype)
	out.Info.Set("END", strconv.Itoa(end))
	out.Info.Set("SVLEN", strconv.Itoa(end-start))
	out.Info.Set("CHR2", out.Chrom)
	out.Info.Set("SVMETHOD", svMethod)

	return out
}

// normalizeResidualBND fills in chr2/end/svlen/svtype/svmethod for a BND
// that survived all three pass filters unpaired, preserving its ALT.
func normalizeResidualBND(r *record.Record) *record.Record {
	out := r.Clone()
	out.Info.Set("CHR2", out.Chrom)
	out.Info.Set("SVLEN", ".")
	out.Info.Set("SVTYPE", "BND")
	out.Info.Set("SVMETHOD", svMethod)

	if m, ok := mateOf(r); ok {
		out.Info.Set("END", strconv.Itoa(m.pos))
	}

	return out
}

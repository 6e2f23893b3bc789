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

package rewrite

import (
	"strconv"

	"github.com/zymatik-com/octopusv/internal/pairing"
	"github.com/zymatik-com/octopusv/internal/record"
)

// CrossChromosomeResult holds the outcome of rewriting a different-chromosome
// BND group into TRA records.
type CrossChromosomeResult struct {
	TRA []*record.Record
}

// CrossChromosome implements C6: mate-BND pair discovery, followed by
// splitting the no-mate leftovers into duplicate-folded/forward-paired
// "special" pairs and genuinely single BNDs, each rewritten into a TRA
// record.
func CrossChromosome(events []*record.Record, tolerance int) CrossChromosomeResult {
	matePairs, noMate := pairing.FindMatePairs(events, tolerance, pairing.MateOf)

	// "No-mate folding" (§4.4) pairs no-mate leftovers whose reverse key
	// matches another leftover exactly (tolerance 0) before the
	// forward-direction pass looks for genuinely distinct singleton pairs.
	foldedPairs, folded := pairing.FoldDuplicates(noMate, 0, pairing.MateOf)
	specialPairs, otherSingles := pairing.FindForwardPairs(folded, tolerance, pairing.MateOf)

	var tra []*record.Record

	for _, p := range matePairs {
		tra = append(tra, buildTRAFromPair(p.A, p.B))
	}

	for _, p := range foldedPairs {
		tra = append(tra, buildTRAFromPair(p.A, p.B))
	}

	for _, p := range specialPairs {
		tra = append(tra, buildTRAFromPair(p.A, p.B))
	}

	for _, r := range otherSingles {
		tra = append(tra, buildTRAFromSingle(r))
	}

	return CrossChromosomeResult{TRA: tra}
}

// buildTRAFromPair rewrites a cross-chromosome BND pair into a single TRA
// record. "Chromosome A" is whichever of the two records has the
// lexicographically smaller chromosome name; its own position becomes pos,
// the other record's chromosome/position become chr2/end.
func buildTRAFromPair(a, b *record.Record) *record.Record {
	base, mate := a, b
	if b.Chrom < a.Chrom {
		base, mate = b, a
	}

	out := base.Clone()
	out.Info.Set("CHR2", mate.Chrom)
	out.Info.Set("END", strconv.Itoa(mate.Pos))
	out.Info.Set("SVTYPE", "TRA")
	out.Info.Set("SVLEN", ".")
	out.Info.Set("SVMETHOD", svMethod)

	if strand, ok := strandFromPatterns(a.Alt, b.Alt); ok {
		out.Info.Set("STRAND", strand)
	}

	return out
}

// buildTRAFromSingle rewrites a cross-chromosome BND that never found a
// mate into a TRA record using its own parsed mate reference.
func buildTRAFromSingle(r *record.Record) *record.Record {
	out := r.Clone()

	if m, ok := mateOf(r); ok {
		out.Info.Set("CHR2", m.chrom)
		out.Info.Set("END", strconv.Itoa(m.pos))
	}

	out.Info.Set("SVTYPE", "TRA")
	out.Info.Set("SVLEN", ".")
	out.Info.Set("SVMETHOD", svMethod)

	return out
}

// strandFromPatterns derives a two-character strand string from a pair's
// BND orientation patterns: a bracket that opens toward the sequence
// ("[" prefix-free forms) denotes the "+" strand on that breakend, a
// bracket that closes away from it denotes "-".
func strandFromPatterns(altA, altB string) (string, bool) {
	sa, okA := strandOf(altA)
	sb, okB := strandOf(altB)

	if !okA || !okB {
		return "", false
	}

	return sa + sb, true
}

func strandOf(alt string) (string, bool) {
	m, ok := record.ParseBND(alt)
	if !ok {
		return "", false
	}

	switch m.Pattern {
	case record.PatternSeqBracketFwd, record.PatternBracketSeqFwd:
		return "+", true
	case record.PatternSeqBracketRev, record.PatternBracketSeqRev:
		return "-", true
	default:
		return "", false
	}
}

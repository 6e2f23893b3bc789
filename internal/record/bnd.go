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

// Package record provides the SV record model: an ordered INFO map, typed
// field accessors with missing-field semantics, and the breakend (BND) ALT
// string parser (C1/C2 of the design).
package record

import (
	"regexp"
	"strconv"
)

// Pattern is one of the four BND orientations described in the VCF 4.2 spec.
type Pattern string

const (
	// PatternSeqBracketFwd is t[p[ — sequence prefix, then [chrom:pos[.
	PatternSeqBracketFwd Pattern = "t[p["
	// PatternBracketSeqRev is ]p]t — ]chrom:pos], then sequence suffix.
	PatternBracketSeqRev Pattern = "]p]t"
	// PatternSeqBracketRev is t]p] — sequence prefix, then ]chrom:pos].
	PatternSeqBracketRev Pattern = "t]p]"
	// PatternBracketSeqFwd is [p[t — [chrom:pos[, then sequence suffix.
	PatternBracketSeqFwd Pattern = "[p[t"
	// PatternUnknown marks an ALT that does not parse as a single-mate BND.
	PatternUnknown Pattern = "UNKNOWN"
)

// bndRE captures exactly one bracketed mate group, e.g. "]chr2:500]N" or
// "N[chr2:500[", along with whatever sequence precedes or follows it.
var bndRE = regexp.MustCompile(`^([^\[\]]*)([\[\]])([^:\[\]]+):(\d+)([\[\]])([^\[\]]*)$`)

// MateInfo is the decoded result of a BND ALT string.
type MateInfo struct {
	Pattern Pattern
	Chrom   string
	Pos     int
}

// ParseBND decodes alt into (pattern, mate chromosome, mate position). It
// returns ok=false (the "missing" sentinel) if alt does not contain exactly
// one bracketed mate group, or the position within it is not a positive
// integer. ParseBND is pure, total and never panics.
func ParseBND(alt string) (MateInfo, bool) {
	m := bndRE.FindStringSubmatch(alt)
	if m == nil {
		return MateInfo{}, false
	}

	prefix, open, chrom, posStr, closeBr, suffix := m[1], m[2], m[3], m[4], m[5], m[6]

	pos, err := strconv.Atoi(posStr)
	if err != nil || pos <= 0 {
		return MateInfo{}, false
	}

	var pattern Pattern
	switch {
	case prefix != "" && suffix == "" && open == "[" && closeBr == "[":
		pattern = PatternSeqBracketFwd
	case prefix == "" && suffix != "" && open == "]" && closeBr == "]":
		pattern = PatternBracketSeqRev
	case prefix != "" && suffix == "" && open == "]" && closeBr == "]":
		pattern = PatternSeqBracketRev
	case prefix == "" && suffix != "" && open == "[" && closeBr == "[":
		pattern = PatternBracketSeqFwd
	default:
		return MateInfo{}, false
	}

	return MateInfo{Pattern: pattern, Chrom: chrom, Pos: pos}, true
}

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

// Package qualityfilter implements §6's record-level quality predicate,
// applied before correction. Every threshold is optional; a record whose
// relevant field is missing always passes that check, ported from
// original_source's QualityFilter.
package qualityfilter

import (
	"strconv"
	"strings"

	"github.com/zymatik-com/octopusv/internal/record"
)

// Filter holds the optional thresholds of §6's correction command surface.
type Filter struct {
	MinQual       *float64
	MaxQual       *float64
	MinSupport    *float64
	MaxSupport    *float64
	MinDepth      *float64
	MaxDepth      *float64
	MinGQ         *float64
	MinSVLen      *int
	MaxSVLen      *int
	FilterPass    bool
	ExcludeNoCall bool
}

// Stats accumulates per-reason rejection counts across a Filter run.
type Stats struct {
	Total           int
	Passed          int
	FilteredQual    int
	FilteredPass    int
	FilteredSupport int
	FilteredDepth   int
	FilteredGQ      int
	FilteredSVLen   int
	FilteredNoCall  int
}

// Keep reports whether r passes every configured threshold, recording the
// outcome in stats. The checks run in the same order as the Python
// reference (QUAL, FILTER, support, depth, GQ, SVLEN, no-call), each
// short-circuiting the rest once a record is rejected.
func (f *Filter) Keep(r *record.Record, stats *Stats) bool {
	stats.Total++

	if !f.checkQual(r) {
		stats.FilteredQual++
		return false
	}

	if !f.checkFilterField(r) {
		stats.FilteredPass++
		return false
	}

	if !f.checkSupport(r) {
		stats.FilteredSupport++
		return false
	}

	if !f.checkDepth(r) {
		stats.FilteredDepth++
		return false
	}

	if !f.checkGQ(r) {
		stats.FilteredGQ++
		return false
	}

	if !f.checkSVLen(r) {
		stats.FilteredSVLen++
		return false
	}

	if !f.checkNoCall(r) {
		stats.FilteredNoCall++
		return false
	}

	stats.Passed++

	return true
}

func (f *Filter) checkQual(r *record.Record) bool {
	if f.MinQual == nil && f.MaxQual == nil {
		return true
	}

	if r.Qual == nil {
		return true
	}

	if f.MinQual != nil && *r.Qual < *f.MinQual {
		return false
	}

	if f.MaxQual != nil && *r.Qual > *f.MaxQual {
		return false
	}

	return true
}

func (f *Filter) checkFilterField(r *record.Record) bool {
	if !f.FilterPass {
		return true
	}

	return strings.EqualFold(r.Filter, "PASS")
}

func (f *Filter) checkSupport(r *record.Record) bool {
	if f.MinSupport == nil && f.MaxSupport == nil {
		return true
	}

	support, ok := r.Support()
	if !ok {
		return true
	}

	if f.MinSupport != nil && support < *f.MinSupport {
		return false
	}

	if f.MaxSupport != nil && support > *f.MaxSupport {
		return false
	}

	return true
}

func (f *Filter) checkDepth(r *record.Record) bool {
	if f.MinDepth == nil && f.MaxDepth == nil {
		return true
	}

	depth, ok := r.Depth()
	if !ok {
		return true
	}

	if f.MinDepth != nil && depth < *f.MinDepth {
		return false
	}

	if f.MaxDepth != nil && depth > *f.MaxDepth {
		return false
	}

	return true
}

func (f *Filter) checkGQ(r *record.Record) bool {
	if f.MinGQ == nil {
		return true
	}

	gqStr, ok := r.GQ()
	if !ok {
		return true
	}

	gq, err := strconv.ParseFloat(gqStr, 64)
	if err != nil {
		return true
	}

	return gq >= *f.MinGQ
}

func (f *Filter) checkSVLen(r *record.Record) bool {
	if f.MinSVLen == nil && f.MaxSVLen == nil {
		return true
	}

	svlen, ok := r.SVLen()
	if !ok {
		return true
	}

	if f.MinSVLen != nil && svlen < *f.MinSVLen {
		return false
	}

	if f.MaxSVLen != nil && svlen > *f.MaxSVLen {
		return false
	}

	return true
}

var nocallPatterns = map[string]bool{
	"./.": true,
	".|.": true,
	".":   true,
}

func (f *Filter) checkNoCall(r *record.Record) bool {
	if !f.ExcludeNoCall {
		return true
	}

	gt, ok := r.GT()
	if !ok {
		return true
	}

	return !nocallPatterns[gt]
}

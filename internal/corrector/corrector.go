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

// Package corrector wires classify (C3), pairing (C4), and rewrite (C5/C6)
// into the end-to-end correction pipeline: quality-filter, classify, then
// rewrite each BND partition, per design note (iii) (quality filter runs
// before correction).
package corrector

import (
	"log/slog"

	"github.com/zymatik-com/octopusv/internal/classify"
	"github.com/zymatik-com/octopusv/internal/qualityfilter"
	"github.com/zymatik-com/octopusv/internal/record"
	"github.com/zymatik-com/octopusv/internal/rewrite"
)

// Options configures a correction run.
type Options struct {
	PosTolerance int
	Filter       *qualityfilter.Filter
}

// Result is the outcome of a correction run: the records to emit, and the
// quality-filter statistics the invariants of §7 require to always be
// available.
type Result struct {
	Records     []*record.Record
	FilterStats qualityfilter.Stats
}

// Correct runs the full correction pipeline over records, using contigs
// (declared chromosome names from the input header) to validate BND mate
// chromosomes.
func Correct(logger *slog.Logger, records []*record.Record, contigs []string, opts Options) Result {
	var stats qualityfilter.Stats

	kept := records
	if opts.Filter != nil {
		kept = make([]*record.Record, 0, len(records))
		for _, r := range records {
			if opts.Filter.Keep(r, &stats) {
				kept = append(kept, r)
			}
		}
	}

	classifier := classify.New(logger, contigs)
	partitions := classifier.Classify(kept)

	out := make([]*record.Record, 0, len(kept))
	out = append(out, partitions.NonBND...)

	sameChr := rewrite.SameChromosome(partitions.SameChrBND)
	out = append(out, sameChr.DEL...)
	out = append(out, sameChr.DUP...)
	out = append(out, sameChr.INV...)
	out = append(out, sameChr.Residual...)

	crossChr := rewrite.CrossChromosome(partitions.DiffChrBND, opts.PosTolerance)
	out = append(out, crossChr.TRA...)

	return Result{Records: out, FilterStats: stats}
}

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

// Package classify implements C3: partitioning parsed SV records into
// non-BND, same-chromosome BND, and different-chromosome BND groups in a
// single pass.
package classify

import (
	"hash/fnv"
	"log/slog"

	"github.com/FastFilter/xorfilter"
	"github.com/zymatik-com/nucleo/names"
	"github.com/zymatik-com/octopusv/internal/record"
)

// Partitions holds the three disjoint groups produced by a classification
// pass.
type Partitions struct {
	NonBND     []*record.Record
	SameChrBND []*record.Record
	DiffChrBND []*record.Record
}

// Classifier partitions records, optionally validating a BND's mate
// chromosome against a known contig set collected from the input VCF
// headers.
type Classifier struct {
	logger *slog.Logger

	known    *xorfilter.Xor8
	knownSet map[string]bool
}

// New builds a Classifier. contigs is the set of contig names declared by
// the input file headers (##contig=<ID=...>); an empty set disables the
// "is this a real chromosome" guard entirely (every parseable mate
// chromosome is accepted), which is the correct behavior for inputs that
// carry no contig headers at all.
func New(logger *slog.Logger, contigs []string) *Classifier {
	c := &Classifier{logger: logger, knownSet: make(map[string]bool, len(contigs))}

	if len(contigs) == 0 {
		return c
	}

	keys := make([]uint64, 0, len(contigs))
	for _, contig := range contigs {
		norm := names.Chromosome(contig)
		c.knownSet[norm] = true
		keys = append(keys, hashChrom(norm))
	}

	// xorfilter requires a minimal key set to build a non-degenerate filter;
	// skip the probabilistic pre-check for tiny inputs and rely solely on
	// the authoritative map.
	if len(keys) >= 2 {
		if filter, err := xorfilter.Populate(keys); err == nil {
			c.known = filter
		} else {
			logger.Warn("Could not build chromosome membership filter", "error", err)
		}
	}

	return c
}

func hashChrom(chrom string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(chrom))

	return h.Sum64()
}

// isKnownChromosome reports whether chrom is a declared contig. When no
// contig headers were supplied at construction time, every chromosome is
// considered known.
func (c *Classifier) isKnownChromosome(chrom string) bool {
	if len(c.knownSet) == 0 {
		return true
	}

	norm := names.Chromosome(chrom)

	if c.known != nil && !c.known.Contains(hashChrom(norm)) {
		// No false negatives: a filter miss is authoritative.
		return false
	}

	return c.knownSet[norm]
}

// Classify partitions records into non-BND, same-chromosome BND and
// different-chromosome BND groups in a single pass over records.
func (c *Classifier) Classify(records []*record.Record) Partitions {
	var p Partitions

	for _, r := range records {
		svtype := r.SVType()

		if record.IsNonBND(svtype) {
			p.NonBND = append(p.NonBND, r)
			continue
		}

		if !r.IsBND() && svtype != "BND" {
			// Not BND and not one of the known non-BND types: pass through
			// untouched so the record is not silently dropped downstream.
			p.NonBND = append(p.NonBND, r)
			continue
		}

		mate, ok := record.ParseBND(r.Alt)
		if !ok {
			c.logger.Info("Could not parse BND ALT, retaining as BND without pairing",
				"chrom", r.Chrom, "pos", r.Pos, "id", r.ID, "alt", r.Alt)
			p.SameChrBND = append(p.SameChrBND, r)

			continue
		}

		ownChrom := names.Chromosome(r.Chrom)
		mateChrom := names.Chromosome(mate.Chrom)

		switch {
		case mateChrom == ownChrom:
			p.SameChrBND = append(p.SameChrBND, r)
		case c.isKnownChromosome(mate.Chrom):
			p.DiffChrBND = append(p.DiffChrBND, r)
		default:
			c.logger.Info("BND mate chromosome is not a known contig, retaining as BND without pairing",
				"chrom", r.Chrom, "pos", r.Pos, "id", r.ID, "mateChrom", mate.Chrom)
			p.SameChrBND = append(p.SameChrBND, r)
		}
	}

	return p
}

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

// Package emit implements C11: writing a merged cluster set out as a
// VCF-shaped tabular file, in either caller mode (one tab-joined SAMPLE
// column) or sample mode (one column per input file), ported from
// original_source's SVMerger.write_results/MultiSampleWriter.
package emit

import (
	"fmt"
	"io"
	"strings"

	"github.com/zymatik-com/octopusv/internal/cluster"
	"github.com/zymatik-com/octopusv/internal/namemap"
	"github.com/zymatik-com/octopusv/internal/vcfio"
)

// Emitter writes a sequence of clusters to a VCF-shaped output, assembling
// SOURCES and sample columns in input-file order.
type Emitter struct {
	mapper     *namemap.Mapper
	mode       namemap.Mode
	inputFiles []string
}

// New builds an Emitter for the given mode and input-file ordering.
func New(mapper *namemap.Mapper, mode namemap.Mode, inputFiles []string) *Emitter {
	return &Emitter{mapper: mapper, mode: mode, inputFiles: inputFiles}
}

// Write streams the header followed by one line per cluster in clusters,
// in the given order (callers are responsible for the {other, TRA, BND}
// concatenation order §4.10 requires).
func (e *Emitter) Write(w io.Writer, fileDate string, contigs []vcfio.Contig, clusters []cluster.Cluster) error {
	writer := vcfio.NewWriter(w)

	sampleColumns := e.sampleColumns()
	if err := writer.WriteHeader(fileDate, contigs, sampleColumns); err != nil {
		return fmt.Errorf("could not write header: %w", err)
	}

	for _, c := range clusters {
		if err := e.writeCluster(writer, c); err != nil {
			return err
		}
	}

	return writer.Flush()
}

func (e *Emitter) sampleColumns() []string {
	if e.mode == namemap.ModeSample {
		return e.mapper.AllDisplayNames()
	}

	return []string{"SAMPLE"}
}

// writeCluster rewrites the representative's INFO SOURCES to the
// cluster's source union (in input-file order, as display names) and
// assembles the trailing sample column(s).
func (e *Emitter) writeCluster(w *vcfio.Writer, c cluster.Cluster) error {
	rep := c.Representative.Clone()

	orderedSources := e.orderedSources(c.Sources)
	displaySources := make([]string, len(orderedSources))
	for i, s := range orderedSources {
		displaySources[i] = e.mapper.DisplayName(s)
	}

	rep.Info.Set("SOURCES", strings.Join(displaySources, ","))

	formatKeys := rep.Format

	var sampleFields []string

	if e.mode == namemap.ModeSample {
		sampleFields = e.sampleModeColumns(c, formatKeys)
	} else {
		sampleFields = []string{e.callerModeColumn(c, formatKeys)}
	}

	return w.WriteRecord(rep, sampleFields)
}

// orderedSources projects a cluster's source set onto the input-file list,
// preserving input-file order and dropping sources the cluster doesn't
// carry (§4.11's ordering guarantee).
func (e *Emitter) orderedSources(sources []string) []string {
	set := make(map[string]bool, len(sources))
	for _, s := range sources {
		set[s] = true
	}

	var ordered []string

	for _, f := range e.inputFiles {
		if set[baseName(f)] {
			ordered = append(ordered, f)
		}
	}

	return ordered
}

// callerModeColumn assembles the single tab-joined SAMPLE column: one
// formatted sample string per source contributing to the cluster, in
// input-file order.
func (e *Emitter) callerModeColumn(c cluster.Cluster, formatKeys []string) string {
	bySource := make(map[string]string, len(c.Members))
	for _, m := range c.Members {
		bySource[m.Source] = vcfio.FormatSample(formatKeys, m.Sample)
	}

	var parts []string

	for _, f := range e.inputFiles {
		if s, ok := bySource[baseName(f)]; ok {
			parts = append(parts, s)
		}
	}

	if len(parts) == 0 {
		return vcfio.MissingGenotype(formatKeys)
	}

	return strings.Join(parts, "\t")
}

// sampleModeColumns assembles one column per input file; a file that
// contributed nothing to the cluster gets a missing-genotype placeholder.
func (e *Emitter) sampleModeColumns(c cluster.Cluster, formatKeys []string) []string {
	bySource := make(map[string]string, len(c.Members))
	for _, m := range c.Members {
		bySource[m.Source] = vcfio.FormatSample(formatKeys, m.Sample)
	}

	columns := make([]string, len(e.inputFiles))
	for i, f := range e.inputFiles {
		if s, ok := bySource[baseName(f)]; ok {
			columns[i] = s
		} else {
			columns[i] = vcfio.MissingGenotype(formatKeys)
		}
	}

	return columns
}

func baseName(path string) string {
	i := strings.LastIndexAny(path, "/\\")
	if i == -1 {
		return path
	}

	return path[i+1:]
}

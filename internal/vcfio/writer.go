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

package vcfio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/zymatik-com/octopusv/internal/record"
)

// Writer formats record.Records back into VCF text, the way
// original_source's write_results assembles output lines field by field
// rather than through a library writer.
type Writer struct {
	w *bufio.Writer
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteHeader writes the fixed VCFv4.2 preamble, one contig line per
// contig, and the column header row. sampleColumns names the trailing
// per-sample columns (a single "SAMPLE" for single-sample correction
// output).
func (w *Writer) WriteHeader(fileDate string, contigs []Contig, sampleColumns []string) error {
	if _, err := fmt.Fprintln(w.w, "##fileformat=VCFv4.2"); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w.w, "##fileDate=%s\n", fileDate); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w.w, "##source=OctopuSV"); err != nil {
		return err
	}

	for _, c := range contigs {
		if _, err := fmt.Fprintf(w.w, "##contig=<ID=%s,length=%d>\n", c.ID, c.Length); err != nil {
			return err
		}
	}

	cols := append([]string{"#CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO", "FORMAT"}, sampleColumns...)
	_, err := fmt.Fprintln(w.w, strings.Join(cols, "\t"))

	return err
}

// WriteRecord writes a single data line. sampleFields are the
// already-formatted per-column genotype strings, in column order.
func (w *Writer) WriteRecord(r *record.Record, sampleFields []string) error {
	qual := "."
	if r.Qual != nil {
		qual = strconv.FormatFloat(*r.Qual, 'f', -1, 64)
	}

	filter := r.Filter
	if filter == "" {
		filter = "."
	}

	format := strings.Join(r.Format, ":")
	if format == "" {
		format = "."
	}

	fields := []string{r.Chrom, strconv.Itoa(r.Pos), orDot(r.ID), orDot(r.Ref), orDot(r.Alt), qual, filter, r.Info.String(), format}
	fields = append(fields, sampleFields...)

	_, err := fmt.Fprintln(w.w, strings.Join(fields, "\t"))

	return err
}

// Flush flushes any buffered output to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

func orDot(s string) string {
	if s == "" {
		return "."
	}

	return s
}

// FormatSample joins a record's sample values in format-key order,
// trimming one trailing pair of missing "." fields the way
// original_source's format_sample_values does (e.g. "0/1:5:.:." becomes
// "0/1:5"; a single trailing ":." is kept).
func FormatSample(formatKeys []string, sample map[string]string) string {
	values := make([]string, len(formatKeys))

	for i, key := range formatKeys {
		if v, ok := sample[key]; ok && v != "" {
			values[i] = v
		} else {
			values[i] = "."
		}
	}

	joined := strings.Join(values, ":")
	if strings.HasSuffix(joined, ":.:.") {
		joined = strings.TrimSuffix(joined, ":.:.")
	}

	return joined
}

// MissingGenotype returns a missing-genotype sample string padded to the
// width of formatKeys (the "0/0:.:.:…" placeholder §4.11 requires for a
// cluster that has no contribution from a given input file).
func MissingGenotype(formatKeys []string) string {
	if len(formatKeys) == 0 {
		return "0/0"
	}

	values := make([]string, len(formatKeys))
	for i, key := range formatKeys {
		if key == "GT" {
			values[i] = "0/0"
		} else {
			values[i] = "."
		}
	}

	return strings.Join(values, ":")
}

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

// Package vcfio is the thin glue between vcfgo's variant iterator and
// record.Record: it opens an input file the same way
// internal/importer/dbsnp.go does (transparent decompression, optional
// progress bar), and turns each vcfgo.Variant into a record.Record tagged
// with its source file. The inverse direction (record.Record back to VCF
// text) is handled by Writer, which formats lines directly rather than
// going through a vcfgo writer, matching the way original_source's
// write_results assembles output lines by hand.
package vcfio

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/brentp/vcfgo"
	"github.com/cheggaaa/pb/v3"
	"github.com/zymatik-com/nucleo/compress"
	"github.com/zymatik-com/nucleo/names"
	"github.com/zymatik-com/octopusv/internal/record"
)

// Contig is a `##contig=<ID=…,length=…>` header entry.
type Contig struct {
	ID     string
	Length int
}

// Reader iterates a single VCF file's records, normalizing chromosome names
// via nucleo/names and tagging every record with its source file's
// basename.
type Reader struct {
	source string
	file   *os.File
	dr     io.ReadCloser
	vr     *vcfgo.Reader
	bar    *pb.ProgressBar
}

// Open opens path (transparently decompressing it if needed) and prepares a
// vcfgo reader over it. showProgress wraps the underlying file in a
// cheggaaa progress bar exactly as dbsnp.go/gnomad.go do.
func Open(path string, showProgress bool) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}

	r := &Reader{source: filepath.Base(path), file: f}

	var rdr io.Reader = f

	if showProgress {
		fi, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("could not stat %s: %w", path, err)
		}

		r.bar = pb.Full.Start64(fi.Size())
		r.bar.Set(pb.Bytes, true)
		rdr = r.bar.NewProxyReader(f)
	}

	dr, err := compress.Decompress(rdr)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("could not decompress %s: %w", path, err)
	}

	r.dr = dr

	vr, err := vcfgo.NewReader(dr, false)
	if err != nil {
		dr.Close()
		f.Close()
		return nil, fmt.Errorf("could not create vcf reader for %s: %w", path, err)
	}

	r.vr = vr

	return r, nil
}

// Source returns the basename this reader was opened with, the label
// applied to every record it yields.
func (r *Reader) Source() string {
	return r.source
}

// Contigs returns the `##contig` header entries the input file declared.
func (r *Reader) Contigs() []Contig {
	var contigs []Contig

	for _, c := range r.vr.Header.Contigs {
		length, _ := strconv.Atoi(fmt.Sprint(c["length"]))
		contigs = append(contigs, Contig{ID: fmt.Sprint(c["ID"]), Length: length})
	}

	return contigs
}

// Next reads the next record, returning (nil, nil) at end of input.
func (r *Reader) Next() (*record.Record, error) {
	v := r.vr.Read()
	if v == nil {
		if err := r.vr.Error(); err != nil {
			return nil, fmt.Errorf("vcf reader error on %s: %w", r.source, err)
		}

		return nil, nil
	}

	return fromVariant(v, r.source), nil
}

// Close releases the file handle and any wrapped readers, in reverse
// acquisition order.
func (r *Reader) Close() error {
	if r.bar != nil {
		r.bar.Finish()
	}

	if r.dr != nil {
		if err := r.dr.Close(); err != nil {
			r.file.Close()
			return err
		}
	}

	return r.file.Close()
}

func fromVariant(v *vcfgo.Variant, source string) *record.Record {
	info := record.NewInfoMap()

	for _, key := range v.Info().Keys() {
		val, err := v.Info().Get(key)
		if err != nil {
			info.SetFlag(key)
			continue
		}

		info.Set(key, fmt.Sprint(val))
	}

	r := &record.Record{
		Chrom:  names.Chromosome(v.Chromosome),
		Pos:    int(v.Pos),
		ID:     v.Id(),
		Ref:    v.Ref(),
		Filter: v.Filter,
		Info:   info,
		Source: source,
	}

	if alts := v.Alt(); len(alts) > 0 {
		r.Alt = alts[0]
	}

	if !math.IsNaN(v.Quality) {
		q := v.Quality
		r.Qual = &q
	}

	r.Sample = map[string]string{}

	if len(v.Samples) > 0 {
		r.Format = append([]string(nil), v.Format...)

		for _, key := range r.Format {
			if val, ok := v.Samples[0].Fields[key]; ok {
				r.Sample[key] = val
			}
		}
	}

	return r
}

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

// Package merger orchestrates C7 (similarity), C8 (the cluster store), and
// C9 (representative selection) across every record pulled from the merge
// command's input files. Records are bucketed by (category, chromosome-key)
// first, since similarity.IntraChromosomal/TRA/BND already assume a shared
// chromosome context; each bucket then clusters independently, safe to run
// concurrently because a cluster.Store is never shared across buckets. The
// final concatenation order is {other, TRA, BND}, per the layout
// original_source's SVMerger.merge builds its result list in.
package merger

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/zymatik-com/octopusv/internal/cluster"
	"github.com/zymatik-com/octopusv/internal/record"
	"github.com/zymatik-com/octopusv/internal/similarity"
)

// Options holds the similarity thresholds of §6's merge clustering flags.
type Options struct {
	MaxDistance          int
	MaxLengthRatio       float64
	MinJaccard           float64
	TRADelta             int
	TRAMinOverlapRatio   float64
	TRAStrandConsistency bool
	BNDDelta             int
}

// Merge clusters records into a final, deterministically-ordered slice of
// clusters: intra-chromosomal (DEL/DUP/INV/INS/...) clusters first, then
// TRA, then residual BND, matching the output ordering §4.10 requires.
func Merge(records []*record.Record, opts Options) ([]cluster.Cluster, error) {
	buckets := bucket(records)

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	results := make([][]cluster.Cluster, len(keys))

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, key := range keys {
		i, key, members := i, key, buckets[key]

		g.Go(func() error {
			var groups []*cluster.Group

			if categoryOf(key) == "other" {
				store := cluster.NewSpatialStore(predicateFor(key, opts), opts.MaxDistance)
				for _, r := range members {
					start := r.Pos

					end, ok := r.End()
					if !ok {
						end = start
					}

					store.AddSpatial(r, start, end)
				}

				groups = store.Groups()
			} else {
				store := cluster.NewStore(predicateFor(key, opts))
				for _, r := range members {
					store.Add(r)
				}

				groups = store.Groups()
			}

			results[i] = cluster.Finalize(key, groups)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("could not cluster records: %w", err)
	}

	var other, tra, bnd []cluster.Cluster

	for i, key := range keys {
		switch categoryOf(key) {
		case "TRA":
			tra = append(tra, results[i]...)
		case "BND":
			bnd = append(bnd, results[i]...)
		default:
			other = append(other, results[i]...)
		}
	}

	out := make([]cluster.Cluster, 0, len(other)+len(tra)+len(bnd))
	out = append(out, other...)
	out = append(out, tra...)
	out = append(out, bnd...)

	return out, nil
}

// bucket groups records by categoryKey, so that each bucket only ever
// contains records a single similarity predicate applies to.
func bucket(records []*record.Record) map[string][]*record.Record {
	buckets := make(map[string][]*record.Record)

	for _, r := range records {
		key := categoryKey(r)
		buckets[key] = append(buckets[key], r)
	}

	return buckets
}

// categoryKey assigns a record to its clustering bucket: TRA records are
// keyed by their unordered chromosome pair, residual BND records by their
// own chromosome, and every other svtype by (svtype, chromosome).
func categoryKey(r *record.Record) string {
	switch svtype := r.SVType(); svtype {
	case "TRA":
		chr2, _ := r.Chr2()

		a, b := r.Chrom, chr2
		if b < a {
			a, b = b, a
		}

		return "TRA|" + a + "|" + b
	case "BND":
		return "BND|" + r.Chrom
	default:
		return svtype + "|" + r.Chrom
	}
}

func categoryOf(key string) string {
	switch {
	case strings.HasPrefix(key, "TRA|"):
		return "TRA"
	case strings.HasPrefix(key, "BND|"):
		return "BND"
	default:
		return "other"
	}
}

// predicateFor selects the C7 predicate matching a bucket's category,
// binding it to that predicate's configured thresholds.
func predicateFor(key string, opts Options) cluster.Predicate {
	switch categoryOf(key) {
	case "TRA":
		return func(first, candidate *record.Record) bool {
			return similarity.TRA(first, candidate, opts.TRADelta, opts.TRAMinOverlapRatio, opts.TRAStrandConsistency)
		}
	case "BND":
		return func(first, candidate *record.Record) bool {
			return similarity.BND(first, candidate, opts.BNDDelta)
		}
	default:
		return func(first, candidate *record.Record) bool {
			return similarity.IntraChromosomal(first, candidate, opts.MaxDistance, opts.MaxLengthRatio, opts.MinJaccard)
		}
	}
}

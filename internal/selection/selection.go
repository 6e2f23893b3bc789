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

// Package selection implements C10: the set-algebraic and numeric-support
// filters over a merged cluster set, and the sandboxed boolean expression
// DSL ported from original_source's SVMerger.evaluate_expression — as a
// hand-written recursive-descent parser/evaluator rather than a bare eval,
// since the source strings here are untrusted CLI input.
package selection

import (
	"path/filepath"
	"sort"

	"github.com/zymatik-com/octopusv/internal/cluster"
)

// Set is a set of source-file basenames (the "Q" of §4.10's operation
// table).
type Set map[string]bool

// NewSet builds a Set of basenames from a list of file paths.
func NewSet(paths []string) Set {
	s := make(Set, len(paths))
	for _, p := range paths {
		s[filepath.Base(p)] = true
	}

	return s
}

// Union returns clusters whose source set intersects q (S ∩ Q ≠ ∅).
func Union(clusters []cluster.Cluster, q Set) []cluster.Cluster {
	return filter(clusters, func(s Set) bool { return intersects(s, q) })
}

// Intersection returns clusters whose source set is a superset of q
// (Q ⊆ S).
func Intersection(clusters []cluster.Cluster, q Set) []cluster.Cluster {
	return filter(clusters, func(s Set) bool { return isSubset(q, s) })
}

// Specific returns clusters contributed by exactly file and no other input
// file (q ∈ S ∧ S ∩ (AllFiles − {q}) = ∅).
func Specific(clusters []cluster.Cluster, file string, allFiles []string) []cluster.Cluster {
	q := filepath.Base(file)
	others := make(Set, len(allFiles))

	for _, f := range allFiles {
		if b := filepath.Base(f); b != q {
			others[b] = true
		}
	}

	return filter(clusters, func(s Set) bool {
		return s[q] && !intersects(s, others)
	})
}

// ExactSupport returns clusters supported by exactly k distinct source
// files.
func ExactSupport(clusters []cluster.Cluster, k int) []cluster.Cluster {
	return filter(clusters, func(s Set) bool { return len(s) == k })
}

// SupportRange returns clusters whose support count falls within
// [min, max]; either bound may be nil to leave it open.
func SupportRange(clusters []cluster.Cluster, min, max *int) []cluster.Cluster {
	return filter(clusters, func(s Set) bool {
		n := len(s)
		if min != nil && n < *min {
			return false
		}

		if max != nil && n > *max {
			return false
		}

		return true
	})
}

// Expression returns clusters whose source set satisfies the boolean
// expression expr, compiled by Parse and evaluated by Node.Eval.
func Expression(clusters []cluster.Cluster, expr string, allFiles []string) ([]cluster.Cluster, error) {
	ast, err := Parse(expr)
	if err != nil {
		return nil, err
	}

	return filter(clusters, func(s Set) bool {
		return ast.Eval(environment(s, allFiles))
	}), nil
}

func filter(clusters []cluster.Cluster, keep func(Set) bool) []cluster.Cluster {
	var out []cluster.Cluster

	for _, c := range clusters {
		if keep(sourceSet(c)) {
			out = append(out, c)
		}
	}

	return out
}

func sourceSet(c cluster.Cluster) Set {
	s := make(Set, len(c.Sources))
	for _, src := range c.Sources {
		s[filepath.Base(src)] = true
	}

	return s
}

func intersects(a, b Set) bool {
	small, big := a, b
	if len(big) < len(small) {
		small, big = big, small
	}

	for k := range small {
		if big[k] {
			return true
		}
	}

	return false
}

func isSubset(sub, super Set) bool {
	for k := range sub {
		if !super[k] {
			return false
		}
	}

	return true
}

// environment builds the boolean variable environment Node.Eval reads:
// every input file's sanitized identifier, set true iff it is in s.
func environment(s Set, allFiles []string) map[string]bool {
	env := make(map[string]bool, len(allFiles))

	for _, f := range allFiles {
		base := filepath.Base(f)
		env[Identifier(base)] = s[base]
	}

	return env
}

// SortedKeys returns a Set's members in sorted order, a deterministic view
// of a Set.
func SortedKeys(s Set) []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

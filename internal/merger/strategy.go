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

package merger

import (
	"github.com/zymatik-com/octopusv/internal/cluster"
	"github.com/zymatik-com/octopusv/internal/selection"
)

// Strategy selects exactly one of §6's mutually-exclusive merge selection
// flags. The CLI layer is responsible for enforcing mutual exclusivity;
// ApplySelection just applies whichever field is set, checking them in a
// fixed precedence order.
type Strategy struct {
	Union        bool
	Intersection bool
	Specific     string
	ExactSupport *int
	MinSupport   *int
	MaxSupport   *int
	Expression   string
}

// Any reports whether the strategy selects a filter at all; an empty
// Strategy means "keep every cluster".
func (s Strategy) Any() bool {
	return s.Union || s.Intersection || s.Specific != "" || s.ExactSupport != nil ||
		s.MinSupport != nil || s.MaxSupport != nil || s.Expression != ""
}

// ApplySelection runs C10 over clusters, using inputFiles as the universe
// of source files Union/Intersection/Specific/Expression reason about.
func ApplySelection(clusters []cluster.Cluster, inputFiles []string, strategy Strategy) ([]cluster.Cluster, error) {
	switch {
	case strategy.Union:
		return selection.Union(clusters, selection.NewSet(inputFiles)), nil
	case strategy.Intersection:
		return selection.Intersection(clusters, selection.NewSet(inputFiles)), nil
	case strategy.Specific != "":
		return selection.Specific(clusters, strategy.Specific, inputFiles), nil
	case strategy.ExactSupport != nil:
		return selection.ExactSupport(clusters, *strategy.ExactSupport), nil
	case strategy.MinSupport != nil || strategy.MaxSupport != nil:
		return selection.SupportRange(clusters, strategy.MinSupport, strategy.MaxSupport), nil
	case strategy.Expression != "":
		return selection.Expression(clusters, strategy.Expression, inputFiles)
	default:
		return clusters, nil
	}
}

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

// Package namemap implements C12: mapping input file paths to the display
// names that appear in SOURCES and sample-mode column headers, ported from
// original_source's NameMapper.
package namemap

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Mode selects how the merge emitter lays out per-source columns.
type Mode string

const (
	ModeCaller Mode = "caller"
	ModeSample Mode = "sample"
)

// Mapper resolves an input file path to its display name.
type Mapper struct {
	inputFiles  []string
	customNames []string
}

// New builds a Mapper for inputFiles. If customNames is non-empty its
// length must equal len(inputFiles); otherwise New returns an
// "inconsistent naming" error.
func New(inputFiles []string, customNames []string) (*Mapper, error) {
	if len(customNames) > 0 && len(customNames) != len(inputFiles) {
		return nil, fmt.Errorf("inconsistent naming: %d custom names for %d input files", len(customNames), len(inputFiles))
	}

	return &Mapper{inputFiles: inputFiles, customNames: customNames}, nil
}

// DisplayName returns the display name for path: the custom name at its
// index in the input-file list if one was supplied, else the file stem
// (basename without its final extension).
func (m *Mapper) DisplayName(path string) string {
	if len(m.customNames) > 0 {
		for i, f := range m.inputFiles {
			if f == path {
				return m.customNames[i]
			}
		}
	}

	return stem(path)
}

// AllDisplayNames returns the display names for every input file, in
// input-file order.
func (m *Mapper) AllDisplayNames() []string {
	names := make([]string, len(m.inputFiles))
	for i, f := range m.inputFiles {
		names[i] = m.DisplayName(f)
	}

	return names
}

// ConvertSourceString maps a comma-separated list of source file paths to
// their comma-separated display names, trimming whitespace around each
// entry.
func (m *Mapper) ConvertSourceString(csv string) string {
	parts := strings.Split(csv, ",")
	names := make([]string, len(parts))

	for i, p := range parts {
		names[i] = m.DisplayName(strings.TrimSpace(p))
	}

	return strings.Join(names, ",")
}

func stem(path string) string {
	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}

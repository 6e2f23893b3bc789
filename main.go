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

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/zymatik-com/octopusv/internal/corrector"
	"github.com/zymatik-com/octopusv/internal/emit"
	"github.com/zymatik-com/octopusv/internal/merger"
	"github.com/zymatik-com/octopusv/internal/namemap"
	"github.com/zymatik-com/octopusv/internal/qualityfilter"
	"github.com/zymatik-com/octopusv/internal/record"
	"github.com/zymatik-com/octopusv/internal/vcfio"
)

// version is set by the release build; left as "dev" for source builds.
var version = "dev"

func main() {
	var logger *slog.Logger
	var showProgress bool

	init := func(c *cli.Context) error {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: (*slog.Level)(c.Generic("log-level").(*logLevelFlag)),
		}))

		showProgress = c.Bool("show-progress")

		return nil
	}

	sharedFlags := []cli.Flag{
		&cli.GenericFlag{
			Name:    "log-level",
			Aliases: []string{"l"},
			Usage:   "Set the log level",
			Value:   fromLogLevel(slog.LevelInfo),
		},
		&cli.BoolFlag{
			Name:    "show-progress",
			Aliases: []string{"p"},
			Usage:   "Show progress bars",
			Value:   true,
		},
	}

	app := &cli.App{
		Name:   "octopusv",
		Usage:  "Correct breakend calls and merge structural variant VCFs",
		Flags:  sharedFlags,
		Before: init,
		Commands: []*cli.Command{
			{
				Name:      "correct",
				Usage:     "Classify, pair and rewrite BND records into DEL/DUP/INV/TRA/BND calls",
				UsageText: "octopusv correct [-i input.vcf] [-o output.vcf]",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "input-file", Aliases: []string{"i"}, Usage: "Input VCF path"},
					&cli.StringFlag{Name: "output-file", Aliases: []string{"o"}, Usage: "Output VCF path"},
					&cli.IntFlag{Name: "pos-tolerance", Aliases: []string{"pt"}, Usage: "BND pair discovery position tolerance", Value: 3},
					&cli.Float64Flag{Name: "min-qual", Usage: "Minimum QUAL"},
					&cli.Float64Flag{Name: "max-qual", Usage: "Maximum QUAL"},
					&cli.Float64Flag{Name: "min-support", Usage: "Minimum supporting read count"},
					&cli.Float64Flag{Name: "max-support", Usage: "Maximum supporting read count"},
					&cli.Float64Flag{Name: "min-depth", Usage: "Minimum read depth"},
					&cli.Float64Flag{Name: "max-depth", Usage: "Maximum read depth"},
					&cli.Float64Flag{Name: "min-gq", Usage: "Minimum genotype quality"},
					&cli.IntFlag{Name: "min-svlen", Usage: "Minimum |SVLEN|"},
					&cli.IntFlag{Name: "max-svlen", Usage: "Maximum |SVLEN|"},
					&cli.BoolFlag{Name: "filter-pass", Usage: "Require FILTER=PASS"},
					&cli.BoolFlag{Name: "exclude-nocall", Usage: "Exclude no-call genotypes"},
				}, sharedFlags...),
				Before: init,
				Action: func(c *cli.Context) error {
					return runCorrect(c, logger, showProgress)
				},
			},
			{
				Name:      "merge",
				Usage:     "Cluster, filter-select and emit records from multiple caller/sample VCFs",
				UsageText: "octopusv merge [input.vcf...] [-i input.vcf]... -o output.vcf <strategy>",
				Flags: append([]cli.Flag{
					&cli.StringSliceFlag{Name: "input-file", Aliases: []string{"i"}, Usage: "Input VCF path (repeatable)"},
					&cli.StringFlag{Name: "output-file", Aliases: []string{"o"}, Usage: "Output VCF path", Required: true},
					&cli.StringFlag{Name: "mode", Usage: "Column layout: caller or sample", Value: "caller"},
					&cli.StringFlag{Name: "caller-names", Usage: "Comma-separated display names, one per input, for caller mode"},
					&cli.StringFlag{Name: "sample-names", Usage: "Comma-separated display names, one per input, for sample mode"},
					&cli.BoolFlag{Name: "intersect", Usage: "Keep clusters supported by every input file"},
					&cli.BoolFlag{Name: "union", Usage: "Keep clusters supported by any input file"},
					&cli.StringSliceFlag{Name: "specific", Usage: "Keep clusters contributed by exactly this file and no other"},
					&cli.IntFlag{Name: "min-support", Usage: "Keep clusters with at least this many supporting files"},
					&cli.IntFlag{Name: "exact-support", Usage: "Keep clusters with exactly this many supporting files"},
					&cli.IntFlag{Name: "max-support", Usage: "Keep clusters with at most this many supporting files"},
					&cli.StringFlag{Name: "expression", Usage: "Boolean expression over input-file basenames, e.g. \"(A AND B) AND NOT C\""},
					&cli.IntFlag{Name: "max-distance", Usage: "Intra-chromosomal max start/end distance", Value: 50},
					&cli.Float64Flag{Name: "max-length-ratio", Usage: "Intra-chromosomal max length ratio", Value: 1.3},
					&cli.Float64Flag{Name: "min-jaccard", Usage: "Intra-chromosomal min interval Jaccard index", Value: 0.7},
					&cli.IntFlag{Name: "tra-delta", Usage: "TRA breakend position tolerance", Value: 50},
					&cli.Float64Flag{Name: "tra-min-overlap", Usage: "TRA min normalized overlap ratio", Value: 0.5},
					&cli.BoolFlag{Name: "tra-strand-consistency", Usage: "Require matching STRAND annotations for TRA merges", Value: true},
					&cli.IntFlag{Name: "bnd-delta", Usage: "Residual BND breakend position tolerance", Value: 50},
				}, sharedFlags...),
				Before: init,
				Action: func(c *cli.Context) error {
					return runMerge(c, logger, showProgress)
				},
			},
			{
				Name:  "version",
				Usage: "Print the version and exit",
				Action: func(c *cli.Context) error {
					fmt.Println(version)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error("Error running app", "error", err)

		if exitErr, ok := err.(cli.ExitCoder); ok {
			os.Exit(exitErr.ExitCode())
		}

		os.Exit(2)
	}
}

// runCorrect implements the `correct` command: read a single VCF, run C1–C6,
// and write the corrected output.
func runCorrect(c *cli.Context, logger *slog.Logger, showProgress bool) error {
	inputPath := c.String("input-file")
	if inputPath == "" {
		inputPath = c.Args().First()
	}

	outputPath := c.String("output-file")
	if outputPath == "" && c.Args().Len() > 1 {
		outputPath = c.Args().Get(1)
	}

	if inputPath == "" {
		return cli.Exit(fmt.Errorf("missing required input file"), 1)
	}

	if outputPath == "" {
		return cli.Exit(fmt.Errorf("missing required output file"), 1)
	}

	filter := qualityFilterFromFlags(c)

	reader, err := vcfio.Open(inputPath, showProgress)
	if err != nil {
		return cli.Exit(fmt.Errorf("could not open input: %w", err), 2)
	}
	defer reader.Close()

	var records []*record.Record

	for {
		r, err := reader.Next()
		if err != nil {
			return cli.Exit(err, 2)
		}

		if r == nil {
			break
		}

		records = append(records, r)
	}

	contigs := reader.Contigs()

	contigNames := make([]string, 0, len(contigs))
	for _, ct := range contigs {
		contigNames = append(contigNames, ct.ID)
	}

	result := corrector.Correct(logger, records, contigNames, corrector.Options{
		PosTolerance: c.Int("pos-tolerance"),
		Filter:       filter,
	})

	logger.Info("Correction complete",
		"total", result.FilterStats.Total,
		"passed", result.FilterStats.Passed,
		"filteredQual", result.FilterStats.FilteredQual,
		"filteredPass", result.FilterStats.FilteredPass,
		"filteredSupport", result.FilterStats.FilteredSupport,
		"filteredDepth", result.FilterStats.FilteredDepth,
		"filteredGQ", result.FilterStats.FilteredGQ,
		"filteredSVLen", result.FilterStats.FilteredSVLen,
		"filteredNoCall", result.FilterStats.FilteredNoCall)

	out, err := os.Create(outputPath)
	if err != nil {
		return cli.Exit(fmt.Errorf("could not create output: %w", err), 2)
	}
	defer out.Close()

	writer := vcfio.NewWriter(out)
	if err := writer.WriteHeader(time.Now().Format("20060102"), contigs, []string{"SAMPLE"}); err != nil {
		return cli.Exit(err, 2)
	}

	for _, r := range result.Records {
		sampleFields := []string{vcfio.FormatSample(r.Format, r.Sample)}
		if err := writer.WriteRecord(r, sampleFields); err != nil {
			return cli.Exit(err, 2)
		}
	}

	if err := writer.Flush(); err != nil {
		return cli.Exit(err, 2)
	}

	return nil
}

// qualityFilterFromFlags builds a qualityfilter.Filter from only the flags
// the caller actually set, so that an unset threshold keeps its
// always-passes semantics.
func qualityFilterFromFlags(c *cli.Context) *qualityfilter.Filter {
	return &qualityfilter.Filter{
		MinQual:       floatFlagPtr(c, "min-qual"),
		MaxQual:       floatFlagPtr(c, "max-qual"),
		MinSupport:    floatFlagPtr(c, "min-support"),
		MaxSupport:    floatFlagPtr(c, "max-support"),
		MinDepth:      floatFlagPtr(c, "min-depth"),
		MaxDepth:      floatFlagPtr(c, "max-depth"),
		MinGQ:         floatFlagPtr(c, "min-gq"),
		MinSVLen:      intFlagPtr(c, "min-svlen"),
		MaxSVLen:      intFlagPtr(c, "max-svlen"),
		FilterPass:    c.Bool("filter-pass"),
		ExcludeNoCall: c.Bool("exclude-nocall"),
	}
}

func floatFlagPtr(c *cli.Context, name string) *float64 {
	if !c.IsSet(name) {
		return nil
	}

	v := c.Float64(name)

	return &v
}

func intFlagPtr(c *cli.Context, name string) *int {
	if !c.IsSet(name) {
		return nil
	}

	v := c.Int(name)

	return &v
}

// runMerge implements the `merge` command: read every input VCF, run
// C7–C11, and write the merged output.
func runMerge(c *cli.Context, logger *slog.Logger, showProgress bool) error {
	inputFiles := append([]string(nil), c.Args().Slice()...)
	inputFiles = append(inputFiles, c.StringSlice("input-file")...)

	if len(inputFiles) == 0 {
		return cli.Exit(fmt.Errorf("missing required input files"), 1)
	}

	outputPath := c.String("output-file")

	mode := namemap.Mode(c.String("mode"))
	if mode != namemap.ModeCaller && mode != namemap.ModeSample {
		return cli.Exit(fmt.Errorf("invalid mode %q: must be caller or sample", mode), 1)
	}

	customNames, err := customNamesForMode(c, mode)
	if err != nil {
		return cli.Exit(err, 1)
	}

	mapper, err := namemap.New(inputFiles, customNames)
	if err != nil {
		return cli.Exit(err, 1)
	}

	strategy, err := strategyFromFlags(c)
	if err != nil {
		return cli.Exit(err, 1)
	}

	if !strategy.Any() {
		return cli.Exit(fmt.Errorf("no merge strategy supplied: one of --intersect/--union/--specific/--min-support/--exact-support/--max-support/--expression is required"), 1)
	}

	var allRecords []*record.Record

	var contigs []vcfio.Contig

	seenContig := make(map[string]bool)

	for _, path := range inputFiles {
		reader, err := vcfio.Open(path, showProgress)
		if err != nil {
			return cli.Exit(fmt.Errorf("could not open %s: %w", path, err), 2)
		}

		for _, ct := range reader.Contigs() {
			if !seenContig[ct.ID] {
				seenContig[ct.ID] = true
				contigs = append(contigs, ct)
			}
		}

		for {
			r, err := reader.Next()
			if err != nil {
				reader.Close()
				return cli.Exit(err, 2)
			}

			if r == nil {
				break
			}

			allRecords = append(allRecords, r)
		}

		if err := reader.Close(); err != nil {
			return cli.Exit(err, 2)
		}
	}

	clusters, err := merger.Merge(allRecords, merger.Options{
		MaxDistance:          c.Int("max-distance"),
		MaxLengthRatio:       c.Float64("max-length-ratio"),
		MinJaccard:           c.Float64("min-jaccard"),
		TRADelta:             c.Int("tra-delta"),
		TRAMinOverlapRatio:   c.Float64("tra-min-overlap"),
		TRAStrandConsistency: c.Bool("tra-strand-consistency"),
		BNDDelta:             c.Int("bnd-delta"),
	})
	if err != nil {
		return cli.Exit(err, 2)
	}

	selected, err := merger.ApplySelection(clusters, inputFiles, strategy)
	if err != nil {
		return cli.Exit(fmt.Errorf("invalid expression: %w", err), 1)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return cli.Exit(fmt.Errorf("could not create output: %w", err), 2)
	}
	defer out.Close()

	emitter := emit.New(mapper, mode, inputFiles)
	if err := emitter.Write(out, time.Now().Format("20060102"), contigs, selected); err != nil {
		return cli.Exit(err, 2)
	}

	logger.Info("Merge complete", "inputFiles", len(inputFiles), "records", len(allRecords), "clusters", len(selected))

	return nil
}

// customNamesForMode resolves --caller-names/--sample-names against the
// active mode, rejecting a name list supplied for the inactive mode.
func customNamesForMode(c *cli.Context, mode namemap.Mode) ([]string, error) {
	callerNames := c.String("caller-names")
	sampleNames := c.String("sample-names")

	if callerNames != "" && sampleNames != "" {
		return nil, fmt.Errorf("cannot set both --caller-names and --sample-names")
	}

	switch {
	case mode == namemap.ModeCaller && callerNames != "":
		return strings.Split(callerNames, ","), nil
	case mode == namemap.ModeSample && sampleNames != "":
		return strings.Split(sampleNames, ","), nil
	case mode == namemap.ModeCaller && sampleNames != "":
		return nil, fmt.Errorf("--sample-names requires --mode sample")
	case mode == namemap.ModeSample && callerNames != "":
		return nil, fmt.Errorf("--caller-names requires --mode caller")
	default:
		return nil, nil
	}
}

// strategyFromFlags builds a merger.Strategy, rejecting more than one
// strategy flag (min-support/max-support may combine as a single range
// strategy).
func strategyFromFlags(c *cli.Context) (merger.Strategy, error) {
	set := 0

	s := merger.Strategy{
		Union:        c.Bool("union"),
		Intersection: c.Bool("intersect"),
		Expression:   c.String("expression"),
	}

	if s.Union {
		set++
	}

	if s.Intersection {
		set++
	}

	if specific := c.StringSlice("specific"); len(specific) > 0 {
		if len(specific) > 1 {
			return merger.Strategy{}, fmt.Errorf("--specific accepts exactly one file")
		}

		s.Specific = specific[0]
		set++
	}

	if c.IsSet("exact-support") {
		v := c.Int("exact-support")
		s.ExactSupport = &v
		set++
	}

	if c.IsSet("min-support") || c.IsSet("max-support") {
		if c.IsSet("min-support") {
			v := c.Int("min-support")
			s.MinSupport = &v
		}

		if c.IsSet("max-support") {
			v := c.Int("max-support")
			s.MaxSupport = &v
		}

		set++
	}

	if s.Expression != "" {
		set++
	}

	if set > 1 {
		return merger.Strategy{}, fmt.Errorf("merge strategies are mutually exclusive: supply exactly one of --intersect/--union/--specific/--min-support(/--max-support)/--exact-support/--expression")
	}

	return s, nil
}

type logLevelFlag slog.Level

func fromLogLevel(l slog.Level) *logLevelFlag {
	f := logLevelFlag(l)
	return &f
}

func (f *logLevelFlag) Set(value string) error {
	return (*slog.Level)(f).UnmarshalText([]byte(value))
}

func (f *logLevelFlag) String() string {
	return (*slog.Level)(f).String()
}

package corrector

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zymatik-com/octopusv/internal/qualityfilter"
	"github.com/zymatik-com/octopusv/internal/record"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func bnd(chrom string, pos int, alt, id string) *record.Record {
	return &record.Record{Chrom: chrom, Pos: pos, Alt: alt, ID: id, Info: record.NewInfoMap(), Filter: "PASS"}
}

func TestCorrectRewritesSameChromosomePairIntoDEL(t *testing.T) {
	a := bnd("chr1", 200, "N[chr1:500[", "a")
	b := bnd("chr1", 500, "]chr1:200]N", "b")

	result := Correct(discardLogger(), []*record.Record{a, b}, nil, Options{PosTolerance: 3})

	assert.Len(t, result.Records, 1)
	assert.Equal(t, "DEL", result.Records[0].SVType())
}

func TestCorrectRewritesCrossChromosomePairIntoTRA(t *testing.T) {
	a := bnd("chr1", 1000, "N[chr2:500[", "a")
	b := bnd("chr2", 500, "N[chr1:1000[", "b")

	result := Correct(discardLogger(), []*record.Record{a, b}, []string{"chr1", "chr2"}, Options{PosTolerance: 3})

	assert.Len(t, result.Records, 1)
	assert.Equal(t, "TRA", result.Records[0].SVType())
}

func TestCorrectPassesNonBNDRecordsThroughUnchanged(t *testing.T) {
	del := &record.Record{Chrom: "chr1", Pos: 10, Alt: "<DEL>", ID: "x", Info: record.NewInfoMap(), Filter: "PASS"}
	del.Info.Set("SVTYPE", "DEL")

	result := Correct(discardLogger(), []*record.Record{del}, nil, Options{PosTolerance: 3})

	assert.Len(t, result.Records, 1)
	assert.Same(t, del, result.Records[0])
}

func TestCorrectAppliesQualityFilterBeforeClassification(t *testing.T) {
	lowQual := 1.0
	rejected := &record.Record{Chrom: "chr1", Pos: 10, Alt: "<DEL>", ID: "x", Info: record.NewInfoMap(), Filter: "PASS", Qual: &lowQual}
	rejected.Info.Set("SVTYPE", "DEL")

	minQual := 30.0
	filter := &qualityfilter.Filter{MinQual: &minQual}

	result := Correct(discardLogger(), []*record.Record{rejected}, nil, Options{PosTolerance: 3, Filter: filter})

	assert.Empty(t, result.Records)
	assert.Equal(t, 1, result.FilterStats.FilteredQual)
}

func TestCorrectOrdersNonBNDBeforeSameChromosomeBeforeCrossChromosome(t *testing.T) {
	nonBND := &record.Record{Chrom: "chr1", Pos: 10, Alt: "<DEL>", ID: "x", Info: record.NewInfoMap(), Filter: "PASS"}
	nonBND.Info.Set("SVTYPE", "DEL")

	sameA := bnd("chr2", 200, "N[chr2:500[", "a")
	sameB := bnd("chr2", 500, "]chr2:200]N", "b")

	crossA := bnd("chr3", 1000, "N[chr4:500[", "c")
	crossB := bnd("chr4", 500, "N[chr3:1000[", "d")

	result := Correct(discardLogger(), []*record.Record{crossA, sameA, nonBND, crossB, sameB},
		[]string{"chr2", "chr3", "chr4"}, Options{PosTolerance: 3})

	assert.Len(t, result.Records, 3)
	assert.Equal(t, "DEL", result.Records[0].SVType())
	assert.Equal(t, "TRA", result.Records[2].SVType())
}

package merger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zymatik-com/octopusv/internal/record"
)

func defaultOptions() Options {
	return Options{
		MaxDistance:        50,
		MaxLengthRatio:     1.3,
		MinJaccard:         0.7,
		TRADelta:           50,
		TRAMinOverlapRatio: 0.5,
		BNDDelta:           50,
	}
}

func delRecord(chrom string, pos, end, svlen int, source string) *record.Record {
	info := record.NewInfoMap()
	info.Set("SVTYPE", "DEL")
	info.Set("END", itoa(end))
	info.Set("SVLEN", itoa(svlen))

	return &record.Record{Chrom: chrom, Pos: pos, ID: source, Info: info, Filter: "PASS", Source: source}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	neg := n < 0
	if neg {
		n = -n
	}

	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}

	if neg {
		return "-" + string(digits)
	}

	return string(digits)
}

func TestMergeGroupsCloseEquivalentIntraChromosomalRecords(t *testing.T) {
	a := delRecord("chr1", 1000, 2000, 1000, "F1.vcf")
	b := delRecord("chr1", 1010, 2005, 995, "F2.vcf")

	clusters, err := Merge([]*record.Record{a, b}, defaultOptions())
	assert.NoError(t, err)
	assert.Len(t, clusters, 1)
	assert.ElementsMatch(t, []string{"F1.vcf", "F2.vcf"}, clusters[0].Sources)
}

func TestMergeKeepsDifferentChromosomesSeparate(t *testing.T) {
	a := delRecord("chr1", 1000, 2000, 1000, "F1.vcf")
	b := delRecord("chr2", 1000, 2000, 1000, "F2.vcf")

	clusters, err := Merge([]*record.Record{a, b}, defaultOptions())
	assert.NoError(t, err)
	assert.Len(t, clusters, 2)
}

func TestMergeKeepsDistantRecordsApart(t *testing.T) {
	a := delRecord("chr1", 1000, 2000, 1000, "F1.vcf")
	b := delRecord("chr1", 5000, 6000, 1000, "F2.vcf")

	clusters, err := Merge([]*record.Record{a, b}, defaultOptions())
	assert.NoError(t, err)
	assert.Len(t, clusters, 2)
}

func traRecord(chrom, chr2 string, pos, end int, source string) *record.Record {
	info := record.NewInfoMap()
	info.Set("SVTYPE", "TRA")
	info.Set("CHR2", chr2)
	info.Set("END", itoa(end))

	return &record.Record{Chrom: chrom, Pos: pos, ID: source, Info: info, Filter: "PASS", Source: source}
}

func bndRecordFor(chrom string, pos int, alt, source string) *record.Record {
	info := record.NewInfoMap()
	info.Set("SVTYPE", "BND")

	return &record.Record{Chrom: chrom, Pos: pos, Alt: alt, ID: source, Info: info, Filter: "PASS", Source: source}
}

func TestMergeOrdersOtherBeforeTRABeforeBND(t *testing.T) {
	del := delRecord("chr1", 1000, 2000, 1000, "F1.vcf")
	tra := traRecord("chr1", "chr2", 1000, 2000, "F1.vcf")
	bnd := bndRecordFor("chr3", 100, "N[chr4:9999[", "F1.vcf")

	clusters, err := Merge([]*record.Record{bnd, tra, del}, defaultOptions())
	assert.NoError(t, err)
	assert.Len(t, clusters, 3)

	assert.Equal(t, "DEL", clusters[0].Representative.SVType())
	assert.Equal(t, "TRA", clusters[1].Representative.SVType())
	assert.Equal(t, "BND", clusters[2].Representative.SVType())
}

func TestApplySelectionUnionKeepsAnyOverlap(t *testing.T) {
	a := delRecord("chr1", 1000, 2000, 1000, "F1.vcf")
	clusters, _ := Merge([]*record.Record{a}, defaultOptions())

	out, err := ApplySelection(clusters, []string{"F1.vcf", "F2.vcf"}, Strategy{Union: true})
	assert.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestApplySelectionIntersectionRequiresAllFiles(t *testing.T) {
	a := delRecord("chr1", 1000, 2000, 1000, "F1.vcf")
	clusters, _ := Merge([]*record.Record{a}, defaultOptions())

	out, err := ApplySelection(clusters, []string{"F1.vcf", "F2.vcf"}, Strategy{Intersection: true})
	assert.NoError(t, err)
	assert.Empty(t, out)
}

func TestApplySelectionSpecificFile(t *testing.T) {
	a := delRecord("chr1", 1000, 2000, 1000, "F1.vcf")
	clusters, _ := Merge([]*record.Record{a}, defaultOptions())

	out, err := ApplySelection(clusters, []string{"F1.vcf", "F2.vcf"}, Strategy{Specific: "F1.vcf"})
	assert.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestApplySelectionExactSupport(t *testing.T) {
	a := delRecord("chr1", 1000, 2000, 1000, "F1.vcf")
	clusters, _ := Merge([]*record.Record{a}, defaultOptions())

	k := 1
	out, err := ApplySelection(clusters, []string{"F1.vcf"}, Strategy{ExactSupport: &k})
	assert.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestApplySelectionExpressionError(t *testing.T) {
	a := delRecord("chr1", 1000, 2000, 1000, "F1.vcf")
	clusters, _ := Merge([]*record.Record{a}, defaultOptions())

	_, err := ApplySelection(clusters, []string{"F1.vcf"}, Strategy{Expression: "F1.vcf AND ("})
	assert.Error(t, err)
}

func TestApplySelectionNoStrategyKeepsEverything(t *testing.T) {
	a := delRecord("chr1", 1000, 2000, 1000, "F1.vcf")
	clusters, _ := Merge([]*record.Record{a}, defaultOptions())

	out, err := ApplySelection(clusters, []string{"F1.vcf"}, Strategy{})
	assert.NoError(t, err)
	assert.Len(t, out, 1)
	assert.False(t, Strategy{}.Any())
}

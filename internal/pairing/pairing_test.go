package pairing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zymatik-com/octopusv/internal/record"
)

func rec(chrom string, pos int, alt string) *record.Record {
	return &record.Record{Chrom: chrom, Pos: pos, Alt: alt, Info: record.NewInfoMap()}
}

func TestFindMatePairsExactMatch(t *testing.T) {
	a := rec("chr1", 1000, "N[chr2:500[")
	b := rec("chr2", 500, "N[chr1:1000[")

	pairs, noMate := FindMatePairs([]*record.Record{a, b}, 0, MateOf)

	assert.Len(t, pairs, 1)
	assert.Equal(t, a, pairs[0].A)
	assert.Equal(t, b, pairs[0].B)
	assert.Empty(t, noMate)
}

func TestFindMatePairsWithinTolerance(t *testing.T) {
	a := rec("chr1", 1000, "N[chr2:500[")
	b := rec("chr2", 502, "N[chr1:999[")

	pairs, noMate := FindMatePairs([]*record.Record{a, b}, 3, MateOf)

	assert.Len(t, pairs, 1)
	assert.Empty(t, noMate)
}

func TestFindMatePairsOutsideToleranceLeavesLeftovers(t *testing.T) {
	a := rec("chr1", 1000, "N[chr2:500[")
	b := rec("chr2", 600, "N[chr1:999[")

	pairs, noMate := FindMatePairs([]*record.Record{a, b}, 3, MateOf)

	assert.Empty(t, pairs)
	assert.ElementsMatch(t, []*record.Record{a, b}, noMate)
}

func TestFoldDuplicatesCollapsesPairs(t *testing.T) {
	a := rec("chr1", 1000, "N[chr2:500[")
	b := rec("chr1", 1000, "N[chr2:500[")

	pairs, remaining := FoldDuplicates([]*record.Record{a, b}, 0, MateOf)

	assert.Len(t, pairs, 1)
	assert.Empty(t, remaining)
}

func TestFindForwardPairsMatchesSameDirectionSingletons(t *testing.T) {
	a := rec("chr1", 1000, "N[chr2:500[")
	b := rec("chr1", 1001, "N[chr2:501[")

	pairs, singles := FindForwardPairs([]*record.Record{a, b}, 2, MateOf)

	assert.Len(t, pairs, 1)
	assert.Empty(t, singles)
}

func TestFindForwardPairsSkipsUnparseableALT(t *testing.T) {
	a := rec("chr1", 1000, "<DEL>")

	pairs, singles := FindForwardPairs([]*record.Record{a}, 2, MateOf)

	assert.Empty(t, pairs)
	assert.Empty(t, singles)
}

package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zymatik-com/octopusv/internal/record"
)

func TestCrossChromosomeMatePair(t *testing.T) {
	a := bnd("chr1", 1000, "N[chr2:500[", "a")
	b := bnd("chr2", 500, "N[chr1:1000[", "b")

	result := CrossChromosome([]*record.Record{a, b}, 3)

	assert.Len(t, result.TRA, 1)
	tra := result.TRA[0]
	assert.Equal(t, "chr1", tra.Chrom)
	assert.Equal(t, 1000, tra.Pos)

	chr2, ok := tra.Chr2()
	assert.True(t, ok)
	assert.Equal(t, "chr2", chr2)

	end, ok := tra.End()
	assert.True(t, ok)
	assert.Equal(t, 500, end)
	assert.Equal(t, "TRA", tra.SVType())
}

func TestCrossChromosomeSingleton(t *testing.T) {
	a := bnd("chr1", 1000, "N[chr2:500[", "a")

	result := CrossChromosome([]*record.Record{a}, 3)

	assert.Len(t, result.TRA, 1)
	tra := result.TRA[0]
	chr2, _ := tra.Chr2()
	assert.Equal(t, "chr2", chr2)
	end, _ := tra.End()
	assert.Equal(t, 500, end)
}

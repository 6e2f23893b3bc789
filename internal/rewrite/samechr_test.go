package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zymatik-com/octopusv/internal/record"
)

func bnd(chrom string, pos int, alt, id string) *record.Record {
	return &record.Record{Chrom: chrom, Pos: pos, Alt: alt, ID: id, Info: record.NewInfoMap(), Filter: "PASS"}
}

func TestSameChromosomeDEL(t *testing.T) {
	a := bnd("chr1", 200, "N[chr1:500[", "a")
	b := bnd("chr1", 500, "]chr1:200]N", "b")

	result := SameChromosome([]*record.Record{a, b})

	assert.Len(t, result.DEL, 1)
	del := result.DEL[0]
	assert.Equal(t, 200, del.Pos)
	end, _ := del.End()
	assert.Equal(t, 500, end)
	svlen, _ := del.SVLen()
	assert.Equal(t, 300, svlen)
	assert.Equal(t, "DEL", del.SVType())
	assert.Empty(t, result.Residual)
}

func TestSameChromosomeDUP(t *testing.T) {
	a := bnd("chr1", 10574, "C[chr1:10004[", "a")
	b := bnd("chr1", 10004, "]chr1:10574]C", "b")

	result := SameChromosome([]*record.Record{a, b})

	assert.Len(t, result.DUP, 1)
	dup := result.DUP[0]
	assert.Equal(t, 10004, dup.Pos)
	end, _ := dup.End()
	assert.Equal(t, 10574, end)
	svlen, _ := dup.SVLen()
	assert.Equal(t, 570, svlen)
	assert.Equal(t, "DUP", dup.SVType())
}

func TestSameChromosomeINV(t *testing.T) {
	a := bnd("chr1", 100, "N]chr1:300]", "a")
	b := bnd("chr1", 300, "N]chr1:100]", "b")

	result := SameChromosome([]*record.Record{a, b})

	assert.Len(t, result.INV, 1)
	inv := result.INV[0]
	assert.Equal(t, 100, inv.Pos)
	assert.Equal(t, "INV", inv.SVType())
}

func TestSameChromosomeResidualIsNormalizedButKeepsALT(t *testing.T) {
	a := bnd("chr1", 100, "N[chr1:9999[", "a")

	result := SameChromosome([]*record.Record{a})

	assert.Empty(t, result.DEL)
	assert.Empty(t, result.DUP)
	assert.Empty(t, result.INV)

	assert.Len(t, result.Residual, 1)
	r := result.Residual[0]
	assert.Equal(t, "N[chr1:9999[", r.Alt)
	assert.Equal(t, "BND", r.SVType())

	chr2, ok := r.Chr2()
	assert.True(t, ok)
	assert.Equal(t, "chr1", chr2)

	end, ok := r.End()
	assert.True(t, ok)
	assert.Equal(t, 9999, end)
}

func TestSameChromosomeNonChaining(t *testing.T) {
	// a matches DEL criteria with b; c is unrelated. Ensure only one DEL
	// forms and the unmatched record remains BND.
	a := bnd("chr1", 200, "N[chr1:500[", "a")
	b := bnd("chr1", 500, "]chr1:200]N", "b")
	c := bnd("chr1", 900, "N]chr1:950]", "c")

	result := SameChromosome([]*record.Record{a, b, c})

	assert.Len(t, result.DEL, 1)
	assert.Len(t, result.Residual, 1)
}

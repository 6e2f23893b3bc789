package qualityfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zymatik-com/octopusv/internal/record"
)

func qp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func TestKeepMissingFieldAlwaysPasses(t *testing.T) {
	f := &Filter{MinQual: qp(30)}
	r := &record.Record{Info: record.NewInfoMap(), Sample: map[string]string{}}
	stats := &Stats{}

	assert.True(t, f.Keep(r, stats))
	assert.Equal(t, 1, stats.Passed)
}

func TestKeepRejectsBelowMinQual(t *testing.T) {
	f := &Filter{MinQual: qp(30)}
	q := 10.0
	r := &record.Record{Qual: &q, Info: record.NewInfoMap(), Sample: map[string]string{}}
	stats := &Stats{}

	assert.False(t, f.Keep(r, stats))
	assert.Equal(t, 1, stats.FilteredQual)
}

func TestKeepFilterPassRequiresPASS(t *testing.T) {
	f := &Filter{FilterPass: true}
	r := &record.Record{Filter: "q10", Info: record.NewInfoMap(), Sample: map[string]string{}}
	stats := &Stats{}

	assert.False(t, f.Keep(r, stats))
	assert.Equal(t, 1, stats.FilteredPass)
}

func TestKeepSupportRange(t *testing.T) {
	f := &Filter{MinSupport: qp(5), MaxSupport: qp(10)}
	info := record.NewInfoMap()
	info.Set("SUPPORT", "3")
	r := &record.Record{Info: info, Sample: map[string]string{}}
	stats := &Stats{}

	assert.False(t, f.Keep(r, stats))
	assert.Equal(t, 1, stats.FilteredSupport)
}

func TestKeepExcludeNoCall(t *testing.T) {
	f := &Filter{ExcludeNoCall: true}
	r := &record.Record{Info: record.NewInfoMap(), Sample: map[string]string{"GT": "./."}}
	stats := &Stats{}

	assert.False(t, f.Keep(r, stats))
	assert.Equal(t, 1, stats.FilteredNoCall)
}

func TestKeepSVLenRange(t *testing.T) {
	f := &Filter{MinSVLen: ip(100)}
	info := record.NewInfoMap()
	info.Set("SVLEN", "50")
	r := &record.Record{Info: info, Sample: map[string]string{}}
	stats := &Stats{}

	assert.False(t, f.Keep(r, stats))
	assert.Equal(t, 1, stats.FilteredSVLen)
}

func TestKeepAllPassesIncrementsPassed(t *testing.T) {
	f := &Filter{}
	r := &record.Record{Filter: "PASS", Info: record.NewInfoMap(), Sample: map[string]string{}}
	stats := &Stats{}

	assert.True(t, f.Keep(r, stats))
	assert.Equal(t, 1, stats.Passed)
	assert.Equal(t, 1, stats.Total)
}

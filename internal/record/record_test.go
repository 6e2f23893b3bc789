package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSupportPrecedence(t *testing.T) {
	r := &Record{Info: ParseInfo("SUPPORT=12"), Sample: map[string]string{"DV": "7"}}
	v, ok := r.Support()
	assert.True(t, ok)
	assert.Equal(t, 12.0, v)

	r2 := &Record{Info: NewInfoMap(), Sample: map[string]string{"DV": "7", "AD": "3,4"}}
	v2, ok := r2.Support()
	assert.True(t, ok)
	assert.Equal(t, 7.0, v2)

	r3 := &Record{Info: NewInfoMap(), Sample: map[string]string{"AD": "3,4"}}
	v3, ok := r3.Support()
	assert.True(t, ok)
	assert.Equal(t, 4.0, v3)

	r4 := &Record{Info: NewInfoMap(), Sample: map[string]string{}}
	_, ok = r4.Support()
	assert.False(t, ok)
}

func TestDepthFallsBackToAD(t *testing.T) {
	r := &Record{Sample: map[string]string{"AD": "10,5"}}
	v, ok := r.Depth()
	assert.True(t, ok)
	assert.Equal(t, 15.0, v)
}

func TestSVLenIsAbsolute(t *testing.T) {
	r := &Record{Info: ParseInfo("SVLEN=-300")}
	v, ok := r.SVLen()
	assert.True(t, ok)
	assert.Equal(t, 300, v)
}

func TestIsBND(t *testing.T) {
	r := &Record{Alt: "N[chr1:500[", Info: NewInfoMap()}
	assert.True(t, r.IsBND())

	r2 := &Record{Alt: "<DEL>", Info: ParseInfo("SVTYPE=DEL")}
	assert.False(t, r2.IsBND())
}

func TestCloneIsIndependent(t *testing.T) {
	r := &Record{Info: ParseInfo("A=1"), Sample: map[string]string{"GT": "0/1"}, Format: []string{"GT"}}
	clone := r.Clone()
	clone.Info.Set("A", "2")
	clone.Sample["GT"] = "1/1"
	clone.Format[0] = "DP"

	v, _ := r.Info.Get("A")
	assert.Equal(t, "1", v)
	assert.Equal(t, "0/1", r.Sample["GT"])
	assert.Equal(t, "GT", r.Format[0])
}

package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssocSetGetOrder(t *testing.T) {
	a := NewAssoc()
	a.Set("lemon", "3")
	a.Set("lime", "5")

	v, ok := a.Get("lemon")
	assert.True(t, ok)
	assert.Equal(t, "3", v)

	assert.Equal(t, 2, a.Len())
	assert.Equal(t, "lemon", a.First())
	assert.Equal(t, `{"lemon": "3", "lime": "5"}`, a.Print())
}

func TestAssocSetOverwritesInPlace(t *testing.T) {
	a := NewAssoc()
	a.Set("k", "1")
	a.Set("k", "2")
	assert.Equal(t, 1, a.Len())
	v, _ := a.Get("k")
	assert.Equal(t, "2", v)
}

func TestAssocClearEmptiesNotRemoves(t *testing.T) {
	a := NewAssoc()
	a.Set("k", "v")
	a.Clear()
	assert.Equal(t, 0, a.Len())
	assert.NotNil(t, a)
}

func TestAssocCopyIsDeep(t *testing.T) {
	a := NewAssoc()
	a.Set("k", "v")
	b := a.Copy()
	b.Set("k", "changed")
	orig, _ := a.Get("k")
	assert.Equal(t, "v", orig)
}

func TestScalarIsSingleEntryDefaultKey(t *testing.T) {
	a := Scalar("42")
	assert.Equal(t, 1, a.Len())
	v, ok := a.Get("")
	assert.True(t, ok)
	assert.Equal(t, "42", v)
}

func TestLooksNumeric(t *testing.T) {
	assert.True(t, LooksNumeric("42"))
	assert.True(t, LooksNumeric("-5"))
	assert.False(t, LooksNumeric("-"))
	assert.False(t, LooksNumeric("abc"))
	assert.False(t, LooksNumeric(""))
	assert.True(t, LooksNumeric("3.14"))
}

func TestFormatNumberShortestRoundTrip(t *testing.T) {
	assert.Equal(t, "7", FormatNumber(7))
	assert.Equal(t, "3.14", FormatNumber(3.14))
	assert.Equal(t, "-1", FormatNumber(-1))
}

func TestResultTruthy(t *testing.T) {
	assert.True(t, Num(1).Truthy())
	assert.False(t, Num(0).Truthy())
	assert.True(t, Str("x").Truthy())
	assert.False(t, Str("").Truthy())
	assert.True(t, Arr(Scalar("x")).Truthy())
	assert.False(t, Arr(NewAssoc()).Truthy())
}

func TestResultAsText(t *testing.T) {
	assert.Equal(t, "7", Num(7).AsText())
	assert.Equal(t, "hi", Str("hi").AsText())
	a := NewAssoc()
	a.Set("k", "v")
	assert.Equal(t, `{"k": "v"}`, Arr(a).AsText())
}

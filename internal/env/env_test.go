package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameGetOrCreate(t *testing.T) {
	f := NewFrame()
	v, err := f.GetOrCreate("x", 0)
	assert.NoError(t, err)
	assert.Equal(t, "x", v.Name)

	v2, err := f.GetOrCreate("x", 0)
	assert.NoError(t, err)
	assert.Same(t, v, v2)
}

func TestFrameMaxVariables(t *testing.T) {
	f := NewFrame()
	_, err := f.GetOrCreate("a", 1)
	assert.NoError(t, err)
	_, err = f.GetOrCreate("b", 1)
	assert.Error(t, err)
}

func TestStackPushPopIsolation(t *testing.T) {
	s := NewStack(0)
	v, _ := s.Current().GetOrCreate("x", 0)
	v.Array.Set("", "outer")

	assert.NoError(t, s.Push())
	assert.Nil(t, s.Current().Lookup("x"), "callee frame must not see caller variables")

	inner, _ := s.Current().GetOrCreate("x", 0)
	inner.Array.Set("", "inner")

	assert.NoError(t, s.Pop())
	outerVal, _ := s.Current().Lookup("x").Array.Get("")
	assert.Equal(t, "outer", outerVal)
}

func TestStackOverflowUnderflow(t *testing.T) {
	s := NewStack(2)
	assert.NoError(t, s.Push())
	assert.Error(t, s.Push())

	s2 := NewStack(0)
	assert.Error(t, s2.Pop())
}

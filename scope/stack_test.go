package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStackWithPopsOnNormalReturn(t *testing.T) {
	var s Stack[int]
	s.Push(1)
	s.With(2, func() {
		assert.Equal(t, 2, s.Top())
	})
	assert.Equal(t, 1, s.Top())
	assert.Equal(t, 1, s.Len())
}

func TestStackWithPopsOnPanic(t *testing.T) {
	var s Stack[string]
	s.Push("outer")

	func() {
		defer func() { recover() }()
		s.With("inner", func() {
			panic("boom")
		})
	}()

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "outer", s.Top())
}

func TestFramesOutwardOrdersInnermostFirst(t *testing.T) {
	var s Stack[string]
	s.Push("global")
	s.Push("outer")
	s.Push("inner")

	assert.Equal(t, []string{"inner", "outer", "global"}, s.FramesOutward())
}

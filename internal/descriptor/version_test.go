package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionFlatten(t *testing.T) {
	root := NewVersionRoot()
	a := root.Add("a")
	a.Add("a1")
	a2 := a.Add("a2")
	a2.Add("a2x")
	root.Add("b")

	assert.Equal(t, []string{"a/a1", "a/a2/a2x", "b"}, root.Flatten(true))
	assert.Equal(t, []string{"a", "a/a1", "a/a2", "a/a2/a2x", "b"}, root.Flatten(false))
	assert.Empty(t, NewVersionRoot().Flatten(false))
}

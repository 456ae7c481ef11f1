package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress(t *testing.T) {
	out := &syncBuffer{}
	p := NewProgress(out, 3, "Generating datasets")

	p.Step()
	p.Step()
	assert.Equal(t, 2, p.Count())

	p.Describe("Almost done")
	p.Step()
	p.Done()
	assert.Equal(t, 3, p.Count())
	assert.Contains(t, out.String(), "3/3")
}

func TestProgressNilWriter(t *testing.T) {
	p := NewProgress(nil, 1, "Hidden")
	p.Step()
	assert.Equal(t, 1, p.Count())
}

package design

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrompt(t *testing.T) {
	got := Prompt(Request{Prompt: "a dragon", Style: "retro"})

	assert.Equal(t, "A retro t-shirt design featuring: a dragon. The design should be suitable for printing on a t-shirt, with a clean composition and vibrant colors.", got)
}

package design

import (
	"context"
	"fmt"
)

// Request describes the artwork to generate.
type Request struct {
	Prompt string
	Style  string
}

// Result is the generated artwork. ImagePreview is a truncated base64 copy of the image.
type Result struct {
	URL          string
	ImagePreview string
}

type Generator interface {
	Generate(ctx context.Context, req Request) (*Result, error)
}

// Prompt renders the provider prompt for a t-shirt print.
func Prompt(req Request) string {
	return fmt.Sprintf("A %s t-shirt design featuring: %s. "+
		"The design should be suitable for printing on a t-shirt, "+
		"with a clean composition and vibrant colors.", req.Style, req.Prompt)
}

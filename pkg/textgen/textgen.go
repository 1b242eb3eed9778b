// Package textgen abstracts the text-generation providers behind a single
// request/response interface so the rest of the service never depends on a
// specific vendor SDK.
package textgen

import "context"

type Request struct {
	Prompt          string
	Temperature     float64
	MaxOutputTokens int
}

type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

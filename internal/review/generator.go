// Package review generates prose reviews for tracked media, using an external
// completion provider when configured and a template fallback otherwise.
package review

import (
	"context"
	"strings"

	"moviemate/internal/logger"
)

// Review length hints
const (
	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"
)

// Request carries everything needed to generate one review
type Request struct {
	Title  string
	Notes  string
	Rating *float64
	Length string
}

// normalized returns the request with a valid length hint
func (r Request) normalized() Request {
	switch r.Length {
	case LengthShort, LengthMedium, LengthLong:
	default:
		r.Length = LengthMedium
	}
	return r
}

// Provider produces review prose for a request. Implementations may fail;
// the Generator turns any failure into fallback text.
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
	Configured() bool
}

// Generator wraps a Provider with the template fallback so callers always
// get a review back regardless of provider health.
type Generator struct {
	provider Provider
}

// NewGenerator creates a generator over the given provider
func NewGenerator(provider Provider) *Generator {
	return &Generator{provider: provider}
}

// Configured reports whether the underlying provider has credentials
func (g *Generator) Configured() bool {
	return g.provider.Configured()
}

// Generate returns review prose for the request. Provider errors, empty
// payloads, and missing credentials all degrade to the template fallback.
func (g *Generator) Generate(ctx context.Context, req Request) string {
	req = req.normalized()

	if !g.provider.Configured() {
		return FallbackReview(req)
	}

	text, err := g.provider.Generate(ctx, req)
	if err != nil {
		logger.Log.Warn().
			Err(err).
			Str("title", req.Title).
			Msg("Review provider failed, using fallback")
		return FallbackReview(req)
	}
	if strings.TrimSpace(text) == "" {
		logger.Log.Warn().
			Str("title", req.Title).
			Msg("Review provider returned empty payload, using fallback")
		return FallbackReview(req)
	}

	return text
}

package ai

import "context"

type Message struct {
	Role    string
	Content string
}

// Options are per-call generation parameters. Zero values fall back to the
// provider's defaults.
type Options struct {
	MaxTokens   int
	Temperature float64
}

// Provider turns an ordered list of role-tagged messages into reply text.
type Provider interface {
	Chat(ctx context.Context, messages []Message, opts Options) (string, error)
}

package adapter

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

// ErrProviderUnconfigured is returned by UnconfiguredGemini for every call.
var ErrProviderUnconfigured = goerr.New("gemini provider is not configured")

// UnconfiguredGemini stands in when no provider credentials are set. Every
// call fails with ErrProviderUnconfigured, which the retrieval pipeline
// catches and turns into its fallback response. This keeps the rest of the
// system runnable without credentials.
type UnconfiguredGemini struct{}

func NewUnconfigured() *UnconfiguredGemini { return &UnconfiguredGemini{} }

func (u *UnconfiguredGemini) GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return nil, ErrProviderUnconfigured
}

func (u *UnconfiguredGemini) Embedding(ctx context.Context, text string) (*genai.EmbedContentResponse, error) {
	return nil, ErrProviderUnconfigured
}

func (u *UnconfiguredGemini) EmbeddingModel() string { return "unconfigured" }

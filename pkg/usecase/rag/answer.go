package rag

import (
	"bytes"
	"context"
	_ "embed"
	"strings"
	"text/template"

	"github.com/m-hamwi/yalla/pkg/adapter"
	"github.com/m-hamwi/yalla/pkg/model"
	"github.com/m-hamwi/yalla/pkg/utils/logging"
	"github.com/m-hamwi/yalla/pkg/vectorstore"
	"google.golang.org/genai"
)

//go:embed prompt/answer.md
var answerPromptRaw string

var answerPromptTmpl = template.Must(template.New("answer").Parse(answerPromptRaw))

const maxExcerptLen = 240

// Answer runs one retrieval-augmented query. catalogSnapshot supplies the
// live event metadata bound to matches, so results reflect the current
// catalog rather than whatever was captured at index time. Any provider
// failure degrades to FallbackMessage with no events.
func (p *Pipeline) Answer(ctx context.Context, query string, catalogSnapshot []model.Event) *Answer {
	logger := logging.From(ctx)

	if !p.ready() {
		return &Answer{Text: NotIndexedMessage, Events: []model.Event{}}
	}

	resp, err := p.gemini.Embedding(ctx, query)
	if err != nil {
		logger.Warn("query embedding failed", "error", err)
		return &Answer{Text: FallbackMessage, Events: []model.Event{}}
	}
	queryVec, err := adapter.EmbeddingVector(resp)
	if err != nil {
		logger.Warn("unusable query embedding response", "error", err)
		return &Answer{Text: FallbackMessage, Events: []model.Event{}}
	}

	meta := make(map[model.EventID]model.Event, len(catalogSnapshot))
	for _, ev := range catalogSnapshot {
		meta[ev.ID] = ev
	}

	results, err := p.store.Search(queryVec, p.topK, meta)
	if err != nil {
		logger.Warn("vector search failed", "error", err)
		return &Answer{Text: FallbackMessage, Events: []model.Event{}}
	}

	prompt, err := buildPrompt(query, results)
	if err != nil {
		logger.Warn("prompt assembly failed", "error", err)
		return &Answer{Text: FallbackMessage, Events: []model.Event{}}
	}

	genResp, err := p.gemini.GenerateContent(ctx,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		&genai.GenerateContentConfig{},
	)
	if err != nil {
		logger.Warn("generation failed", "error", err)
		return &Answer{Text: FallbackMessage, Events: []model.Event{}}
	}
	text, err := adapter.ResponseText(genResp)
	if err != nil {
		logger.Warn("empty generation response", "error", err)
		return &Answer{Text: FallbackMessage, Events: []model.Event{}}
	}

	matched := make([]model.Event, 0, len(results))
	for _, r := range results {
		matched = append(matched, r.Event)
	}

	return &Answer{Text: text, Events: matched}
}

func buildPrompt(query string, results []vectorstore.SearchResult) (string, error) {
	var ctxBlock strings.Builder
	if len(results) == 0 {
		ctxBlock.WriteString("(no matching events)")
	}
	for _, r := range results {
		ctxBlock.WriteString("- ")
		ctxBlock.WriteString(excerpt(r.Event))
		ctxBlock.WriteString("\n")
	}

	var buf bytes.Buffer
	err := answerPromptTmpl.Execute(&buf, map[string]string{
		"Context": strings.TrimRight(ctxBlock.String(), "\n"),
		"Query":   query,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// excerpt renders one bounded context line per match.
func excerpt(ev model.Event) string {
	parts := []string{ev.Title}
	if d := humanDate(ev); d != "" {
		parts = append(parts, d)
	}
	if ev.Category != "" {
		parts = append(parts, ev.Category)
	}
	if ev.Venue != "" {
		parts = append(parts, ev.Venue)
	}
	if ev.Price != "" {
		parts = append(parts, ev.Price)
	}

	line := strings.Join(parts, " | ")
	if desc := strings.TrimSpace(ev.Description); desc != "" {
		if len(desc) > maxExcerptLen {
			desc = desc[:maxExcerptLen] + "..."
		}
		line += " — " + desc
	}
	return line
}

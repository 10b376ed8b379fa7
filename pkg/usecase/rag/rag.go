// Package rag implements the retrieval-augmented query pipeline: embed the
// question, retrieve the closest indexed events, and condition a generation
// call on them. Provider failures never propagate; the pipeline degrades to
// fixed fallback responses.
package rag

import (
	"sync"
	"time"

	"github.com/m-hamwi/yalla/pkg/adapter"
	"github.com/m-hamwi/yalla/pkg/model"
	"github.com/m-hamwi/yalla/pkg/vectorstore"
)

type state int

const (
	stateNotIndexed state = iota
	stateIndexing
	stateReady
)

const (
	defaultTopK     = 5
	defaultThrottle = 100 * time.Millisecond

	// NotIndexedMessage is returned while nothing has been embedded yet.
	NotIndexedMessage = "I don't have any events indexed yet. Please try again after the next update."

	// FallbackMessage is returned when the embedding or generation provider
	// is unavailable.
	FallbackMessage = "Sorry, I couldn't look that up right now. Please try again in a moment."
)

// Pipeline orchestrates indexing and answering against one vector store and
// one provider. Answer is read-only and safe to call concurrently with an
// in-flight IndexNew.
type Pipeline struct {
	store  *vectorstore.Store
	gemini adapter.Gemini

	topK     int
	throttle time.Duration

	mu sync.Mutex
	st state
}

type Option func(*Pipeline)

// WithTopK overrides how many matches back a generated answer.
func WithTopK(k int) Option {
	return func(p *Pipeline) {
		if k > 0 {
			p.topK = k
		}
	}
}

// WithThrottle sets the pause between embedding calls during indexing, to
// stay under provider rate limits. Zero disables it.
func WithThrottle(d time.Duration) Option {
	return func(p *Pipeline) {
		p.throttle = d
	}
}

func New(store *vectorstore.Store, gemini adapter.Gemini, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:    store,
		gemini:   gemini,
		topK:     defaultTopK,
		throttle: defaultThrottle,
	}
	for _, opt := range opts {
		opt(p)
	}

	// A store rehydrated from persistence is already queryable.
	if store.Size() > 0 {
		p.st = stateReady
	}
	return p
}

// Answer is the result of one query: generated text plus the matched
// events' live metadata. Similarity scores are not exposed.
type Answer struct {
	Text   string        `json:"response"`
	Events []model.Event `json:"events"`
}

// ready gates retrieval: nothing is answerable before the first embedding
// lands, but an in-flight re-index with data already present keeps serving.
func (p *Pipeline) ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.st != stateNotIndexed && p.store.Size() > 0
}

func (p *Pipeline) setState(st state) {
	p.mu.Lock()
	p.st = st
	p.mu.Unlock()
}

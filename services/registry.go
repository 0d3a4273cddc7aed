// Package services contains the application workflows: ingesting websites
// into retrieval corpora and answering questions against them.
package services

import (
	"sync"

	"website-chatbot-builder/internal/retrieval"
)

// CorpusRegistry holds the in-memory retriever of every ready website,
// keyed by website ID. Rebuilds install a fresh retriever with a single
// swap so concurrent readers never observe a half-built corpus.
type CorpusRegistry struct {
	mu         sync.RWMutex
	retrievers map[string]*retrieval.Retriever
}

func NewCorpusRegistry() *CorpusRegistry {
	return &CorpusRegistry{
		retrievers: make(map[string]*retrieval.Retriever),
	}
}

// Get returns the retriever for a website, or nil if none is loaded.
func (r *CorpusRegistry) Get(websiteID string) *retrieval.Retriever {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.retrievers[websiteID]
}

// Set installs a retriever, replacing any previous one atomically.
func (r *CorpusRegistry) Set(websiteID string, ret *retrieval.Retriever) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retrievers[websiteID] = ret
}

// Remove drops a website's retriever, typically on delete.
func (r *CorpusRegistry) Remove(websiteID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.retrievers, websiteID)
}

// Len reports how many corpora are currently loaded.
func (r *CorpusRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.retrievers)
}

package fintrack

import (
	"context"
	"sync"
)

// Suggestion is what the note enhancement advisory returns.
type Suggestion struct {
	CleanNote         string `json:"cleanNote"`
	SuggestedCategory string `json:"suggestedCategory"`
}

// Enhancer rewrites a free-text note and suggests one of categories.
//
// It is advisory: ok is false whenever no suggestion is available, whatever
// the reason, and the caller carries on without it.
type Enhancer interface {
	Enhance(ctx context.Context, note string, categories []string) (s Suggestion, ok bool)
}

// Composer holds the draft being composed.
//
// Enhancement runs in the background and only patches the draft it was
// started for: once the draft is submitted, reset or replaced, a late
// suggestion is dropped.
type Composer struct {
	mu         sync.Mutex
	draft      Draft
	generation uint64
	running    int
	wg         sync.WaitGroup
}

// NewComposer returns a composer on an empty draft.
func NewComposer() *Composer { return &Composer{} }

// Draft returns a copy of the current draft.
func (c *Composer) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Edit modifies the current draft in place.
func (c *Composer) Edit(edit func(*Draft)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	edit(&c.draft)
}

// Replace starts a new draft. Pending suggestions for the old one are dropped.
func (c *Composer) Replace(d Draft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = d
	c.generation++
}

// Reset starts a new empty draft.
func (c *Composer) Reset() { c.Replace(Draft{}) }

// Enhancing reports whether a suggestion is being computed.
func (c *Composer) Enhancing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running > 0
}

// Enhance asks e for a suggestion on the current note and returns at once.
// When it arrives, and the draft is still the same, the note and category
// are replaced by the non-empty parts of the suggestion.
func (c *Composer) Enhance(ctx context.Context, e Enhancer, categories []string) {
	c.mu.Lock()
	note, generation := c.draft.Note, c.generation
	c.running++
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		s, ok := e.Enhance(ctx, note, categories)

		c.mu.Lock()
		defer c.mu.Unlock()
		c.running--
		if !ok || generation != c.generation {
			return
		}
		if s.CleanNote != "" {
			c.draft.Note = s.CleanNote
		}
		if s.SuggestedCategory != "" {
			c.draft.Category = s.SuggestedCategory
		}
	}()
}

// Wait blocks until every started enhancement has returned.
func (c *Composer) Wait() { c.wg.Wait() }

// Submit records the current draft in session without waiting for any
// enhancement, and starts a new empty draft on success. On failure the draft
// is kept for correction.
func (c *Composer) Submit(ctx context.Context, session *Session) (Transaction, error) {
	c.mu.Lock()
	d := c.draft
	c.mu.Unlock()

	tx, err := session.Record(ctx, d)
	if err != nil && tx.ID == "" {
		return tx, err
	}
	c.Reset()
	return tx, err
}

package fintrack_test

import (
	"context"
	"testing"

	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// heldEnhancer returns its suggestion once released.
type heldEnhancer struct {
	release chan struct{}
	s       fintrack.Suggestion
	ok      bool
	notes   chan string
}

func newHeldEnhancer(s fintrack.Suggestion, ok bool) *heldEnhancer {
	return &heldEnhancer{release: make(chan struct{}), s: s, ok: ok, notes: make(chan string, 1)}
}

func (h *heldEnhancer) Enhance(ctx context.Context, note string, categories []string) (fintrack.Suggestion, bool) {
	h.notes <- note
	<-h.release
	return h.s, h.ok
}

func TestComposer_EnhancePatchesDraft(t *testing.T) {
	c := fintrack.NewComposer()
	c.Edit(func(d *fintrack.Draft) { d.Note = "swiggy dinner w/ ravi"; d.Category = "General" })

	e := newHeldEnhancer(fintrack.Suggestion{CleanNote: "Dinner with Ravi", SuggestedCategory: "Food"}, true)
	c.Enhance(context.Background(), e, []string{"General", "Food"})
	assert.Equal(t, "swiggy dinner w/ ravi", <-e.notes)
	assert.True(t, c.Enhancing())

	close(e.release)
	c.Wait()
	assert.False(t, c.Enhancing())
	d := c.Draft()
	assert.Equal(t, "Dinner with Ravi", d.Note)
	assert.Equal(t, "Food", d.Category)
}

func TestComposer_EmptySuggestionFieldsAreIgnored(t *testing.T) {
	c := fintrack.NewComposer()
	c.Edit(func(d *fintrack.Draft) { d.Note = "cab"; d.Category = "Travel" })

	e := newHeldEnhancer(fintrack.Suggestion{CleanNote: "Cab ride"}, true)
	close(e.release)
	c.Enhance(context.Background(), e, nil)
	c.Wait()
	d := c.Draft()
	assert.Equal(t, "Cab ride", d.Note)
	assert.Equal(t, "Travel", d.Category)
}

func TestComposer_UnavailableSuggestion(t *testing.T) {
	c := fintrack.NewComposer()
	c.Edit(func(d *fintrack.Draft) { d.Note = "cab" })

	e := newHeldEnhancer(fintrack.Suggestion{CleanNote: "ignored", SuggestedCategory: "ignored"}, false)
	close(e.release)
	c.Enhance(context.Background(), e, nil)
	c.Wait()
	assert.Equal(t, "cab", c.Draft().Note)
	assert.Empty(t, c.Draft().Category)
}

func TestComposer_LateSuggestionAfterSubmitIsDropped(t *testing.T) {
	s := open(t, store.NewMemory())
	c := fintrack.NewComposer()
	c.Edit(func(d *fintrack.Draft) { d.Amount = fintrack.M(120); d.Note = "chai" })

	e := newHeldEnhancer(fintrack.Suggestion{CleanNote: "Tea", SuggestedCategory: "Food"}, true)
	c.Enhance(context.Background(), e, nil)
	<-e.notes

	tx, err := c.Submit(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, "chai", tx.Note, "submit does not wait for the suggestion")
	assert.Equal(t, fintrack.Draft{}, c.Draft())

	close(e.release)
	c.Wait()
	assert.Equal(t, fintrack.Draft{}, c.Draft(), "the new draft is untouched")
	recorded, ok := s.Transaction(tx.ID)
	require.True(t, ok)
	assert.Equal(t, "chai", recorded.Note)
}

func TestComposer_LateSuggestionAfterReplaceIsDropped(t *testing.T) {
	c := fintrack.NewComposer()
	c.Edit(func(d *fintrack.Draft) { d.Note = "old" })

	e := newHeldEnhancer(fintrack.Suggestion{CleanNote: "Old"}, true)
	c.Enhance(context.Background(), e, nil)
	<-e.notes
	c.Replace(fintrack.Draft{Note: "new"})
	close(e.release)
	c.Wait()
	assert.Equal(t, "new", c.Draft().Note)
}

func TestComposer_SubmitFailureKeepsDraft(t *testing.T) {
	s := open(t, store.NewMemory())
	c := fintrack.NewComposer()
	c.Edit(func(d *fintrack.Draft) { d.Note = "nothing" })

	_, err := c.Submit(context.Background(), s)
	assert.ErrorIs(t, err, fintrack.ErrZeroAmount)
	assert.Equal(t, "nothing", c.Draft().Note)
}

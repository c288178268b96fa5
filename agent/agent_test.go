package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// fakeModels answers every GenerateContent call with answer or err.
type fakeModels struct {
	answer string
	err    error
	block  bool // wait for the context to expire

	prompt string
	config *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.prompt = contents[0].Parts[0].Text
	f.config = config
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: f.answer}}},
	}}}, nil
}

func TestParseSuggestion(t *testing.T) {
	testCases := []struct {
		name    string
		answer  string
		want    fintrack.Suggestion
		wantErr bool
	}{
		{
			name:   "both fields",
			answer: `{"cleanNote":"Lunch at cafe","suggestedCategory":"Food"}`,
			want:   fintrack.Suggestion{CleanNote: "Lunch at cafe", SuggestedCategory: "Food"},
		},
		{
			name:   "fenced",
			answer: "```json\n{\"cleanNote\":\"Taxi\",\"suggestedCategory\":\"Travel\"}\n```",
			want:   fintrack.Suggestion{CleanNote: "Taxi", SuggestedCategory: "Travel"},
		},
		{
			name:   "category only",
			answer: `{"suggestedCategory":"Bills"}`,
			want:   fintrack.Suggestion{SuggestedCategory: "Bills"},
		},
		{name: "empty object", answer: `{}`, wantErr: true},
		{name: "not json", answer: `Sorry, I cannot help`, wantErr: true},
		{name: "wrong types", answer: `{"cleanNote":3,"suggestedCategory":true}`, wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseSuggestion(tc.answer)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGemini_Enhance(t *testing.T) {
	models := &fakeModels{answer: `{"cleanNote":"Groceries","suggestedCategory":"Food"}`}
	g := newGemini(models, "test-model", time.Second)

	got, ok := g.Enhance(context.Background(), "grocries at dmart", []string{"Food", "Bills"})
	require.True(t, ok)
	assert.Equal(t, fintrack.Suggestion{CleanNote: "Groceries", SuggestedCategory: "Food"}, got)
	assert.Contains(t, models.prompt, `"grocries at dmart"`)
	assert.Contains(t, models.prompt, "Food, Bills")
	assert.Equal(t, "application/json", models.config.ResponseMIMEType)
	assert.Equal(t, []string{"cleanNote", "suggestedCategory"}, models.config.ResponseSchema.Required)
}

func TestGemini_FailuresAreAbsent(t *testing.T) {
	testCases := []struct {
		name   string
		models *fakeModels
		note   string
	}{
		{name: "empty note", models: &fakeModels{answer: `{"cleanNote":"x"}`}, note: "  "},
		{name: "service error", models: &fakeModels{err: errors.New("quota exceeded")}, note: "taxi"},
		{name: "timeout", models: &fakeModels{block: true}, note: "taxi"},
		{name: "garbage", models: &fakeModels{answer: "no"}, note: "taxi"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := newGemini(tc.models, "test-model", 10*time.Millisecond)
			_, ok := g.Enhance(context.Background(), tc.note, nil)
			assert.False(t, ok)
		})
	}
}

func TestGemini_WithComposer(t *testing.T) {
	g := newGemini(&fakeModels{answer: `{"cleanNote":"Electricity bill","suggestedCategory":"Bills"}`}, "test-model", time.Second)
	c := fintrack.NewComposer()
	c.Edit(func(d *fintrack.Draft) { d.Note = "elec bill" })

	c.Enhance(context.Background(), g, []string{"Bills"})
	c.Wait()

	d := c.Draft()
	assert.Equal(t, "Electricity bill", d.Note)
	assert.Equal(t, "Bills", d.Category)
}

func newTestSession(t *testing.T) *fintrack.Session {
	t.Helper()
	snap := fintrack.DefaultSnapshot()
	snap.Settings.Accounts = []string{"Cash"}
	snap.Settings.People = []string{"Ravi"}
	s := fintrack.NewSession(nil, snap)
	_, err := s.Record(context.Background(), fintrack.Draft{Type: fintrack.TypeCredit, Amount: fintrack.M(400), Person: "Ravi", Note: "movie"})
	require.NoError(t, err)
	_, err = s.Record(context.Background(), fintrack.Draft{Type: fintrack.TypeIncome, Amount: fintrack.M(1000), Note: "salary"})
	require.NoError(t, err)
	return s
}

func TestLedgerFunctions(t *testing.T) {
	s := newTestSession(t)
	lib := NewLibrary(LedgerFunctions(s))
	ctx := context.Background()

	resp := lib(ctx, &genai.FunctionCall{ID: "1", Name: "Transactions", Args: map[string]any{"type": "income"}})
	require.Contains(t, resp.Response, "output")
	out := resp.Response["output"].(string)
	assert.Contains(t, out, "salary")
	assert.NotContains(t, out, "movie")

	resp = lib(ctx, &genai.FunctionCall{ID: "2", Name: "PersonHistory", Args: map[string]any{"person": "Ravi"}})
	assert.Contains(t, resp.Response["output"], "movie")

	resp = lib(ctx, &genai.FunctionCall{ID: "3", Name: "Balances"})
	assert.Contains(t, resp.Response["output"], "₹ ••••", "balances stay masked until revealed")
}

func TestLedgerFunctions_Errors(t *testing.T) {
	lib := NewLibrary(LedgerFunctions(newTestSession(t)))
	ctx := context.Background()

	resp := lib(ctx, &genai.FunctionCall{ID: "1", Name: "Transactions", Args: map[string]any{"type": "loan"}})
	assert.Contains(t, resp.Response, "error")

	resp = lib(ctx, &genai.FunctionCall{ID: "2", Name: "PersonHistory", Args: map[string]any{}})
	assert.Equal(t, `missing argument "person"`, resp.Response["error"])

	resp = lib(ctx, &genai.FunctionCall{ID: "3", Name: "Shred"})
	assert.Equal(t, "unknown function Shred", resp.Response["error"])
	assert.Equal(t, "3", resp.ID)
}

func TestNewAccountant_DeclaresLedgerFunctions(t *testing.T) {
	e := NewAccountant(DefaultModel, newTestSession(t))
	var names []string
	for _, d := range e.Config.Tools[0].FunctionDeclarations {
		names = append(names, d.Name)
	}
	assert.ElementsMatch(t, []string{"Balances", "Credits", "Transactions", "Reminders", "PersonHistory", "AutoPays"}, names)

	f := NewFacilitator(DefaultModel, e, NewAdvisor(DefaultModel))
	assert.Len(t, f.Config.Tools[0].FunctionDeclarations, 2)
}

func TestLedgerFunctions_Period(t *testing.T) {
	s := newTestSession(t)
	_, err := s.Record(context.Background(), fintrack.Draft{Amount: fintrack.M(50), Date: date.New(2020, 1, 1), Note: "old rent"})
	require.NoError(t, err)
	lib := NewLibrary(LedgerFunctions(s))

	resp := lib(context.Background(), &genai.FunctionCall{ID: "1", Name: "Transactions", Args: map[string]any{"period": "year"}})
	out := resp.Response["output"].(string)
	assert.Contains(t, out, "salary")
	assert.NotContains(t, out, "old rent")

	resp = lib(context.Background(), &genai.FunctionCall{ID: "2", Name: "Transactions", Args: map[string]any{"period": "fortnight"}})
	assert.Contains(t, resp.Response, "error")
}

func TestNewAccountant_KnowsTheDocumentation(t *testing.T) {
	e := NewAccountant(DefaultModel, newTestSession(t))
	assert.Contains(t, e.Config.SystemInstruction.Parts[0].Text, "# Transactions")
}

package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/fintrack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// generator is the part of the Gemini models API the enhancer needs.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini is a fintrack.Enhancer backed by a Gemini model.
type Gemini struct {
	models  generator
	model   string
	timeout time.Duration
	log     zerolog.Logger
}

// NewGemini returns an enhancer calling model through client. Every call is
// bounded by timeout.
func NewGemini(client *genai.Client, model string, timeout time.Duration) *Gemini {
	return newGemini(client.Models, model, timeout)
}

func newGemini(models generator, model string, timeout time.Duration) *Gemini {
	return &Gemini{
		models:  models,
		model:   model,
		timeout: timeout,
		log:     log.Logger.With().Str("component", "enhancer").Logger(),
	}
}

var suggestionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"cleanNote": {
			Type:        genai.TypeString,
			Description: "Short cleaned version of the note",
		},
		"suggestedCategory": {
			Type:        genai.TypeString,
			Description: "Matching category from the list",
		},
	},
	Required: []string{"cleanNote", "suggestedCategory"},
}

// Enhance implements fintrack.Enhancer. Failures are logged and reported as
// no suggestion.
func (g *Gemini) Enhance(ctx context.Context, note string, categories []string) (fintrack.Suggestion, bool) {
	if strings.TrimSpace(note) == "" {
		return fintrack.Suggestion{}, false
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	prompt := fmt.Sprintf("Cleaning and categorizing this financial note: %q.\n"+
		"Available categories: %s.\n"+
		"Return a concise cleaned version of the note and the best matching category.",
		note, strings.Join(categories, ", "))

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   suggestionSchema,
	})
	if err != nil {
		g.log.Warn().Err(err).Msg("note enhancement failed")
		return fintrack.Suggestion{}, false
	}
	s, err := parseSuggestion(resp.Text())
	if err != nil {
		g.log.Warn().Err(err).Msg("note enhancement returned an unusable answer")
		return fintrack.Suggestion{}, false
	}
	return s, true
}

// parseSuggestion extracts the suggestion fields from a JSON answer. Missing
// fields are left empty; an answer with neither field is an error.
func parseSuggestion(answer string) (fintrack.Suggestion, error) {
	answer = strings.TrimSpace(answer)
	// Models sometimes wrap JSON in a markdown fence despite the MIME type.
	answer = strings.TrimPrefix(answer, "```json")
	answer = strings.TrimPrefix(answer, "```")
	answer = strings.TrimSuffix(answer, "```")

	var jobj any
	if err := json.Unmarshal([]byte(answer), &jobj); err != nil {
		return fintrack.Suggestion{}, fmt.Errorf("invalid JSON answer: %w", err)
	}

	var s fintrack.Suggestion
	s.CleanNote = stringAt("$.cleanNote", jobj)
	s.SuggestedCategory = stringAt("$.suggestedCategory", jobj)
	if s.CleanNote == "" && s.SuggestedCategory == "" {
		return s, errors.New("answer has neither cleanNote nor suggestedCategory")
	}
	return s, nil
}

// stringAt returns the string at path in jobj, "" when absent or not a string.
func stringAt(path string, jobj any) string {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return ""
	}
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	s, _ := jval.(string)
	return strings.TrimSpace(s)
}

var _ fintrack.Enhancer = (*Gemini)(nil)

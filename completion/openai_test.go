package completion

import (
	"testing"

	"github.com/scrutari/scrutari"
)

func TestNewOpenAIRequiresKey(t *testing.T) {
	if _, err := NewOpenAI("", ""); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := NewOpenAI("sk-test", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildParams(t *testing.T) {
	req := scrutari.Request{
		System: "system prompt",
		Messages: []scrutari.Turn{
			{Role: scrutari.RoleUser, Content: "question"},
			{Role: scrutari.RoleAssistant, Content: "answer"},
			{Role: scrutari.RoleUser, Content: "follow-up"},
		},
		Model:       "gpt-4o-mini",
		MaxTokens:   4000,
		Temperature: 0.3,
	}
	params := buildParams(req)

	if string(params.Model) != "gpt-4o-mini" {
		t.Fatalf("model = %q", params.Model)
	}
	if len(params.Messages) != 4 {
		t.Fatalf("got %d messages, want system + 3 turns", len(params.Messages))
	}
	if params.Messages[0].OfSystem == nil {
		t.Fatal("first message must be the system prompt")
	}
	if params.Messages[1].OfUser == nil || params.Messages[2].OfAssistant == nil || params.Messages[3].OfUser == nil {
		t.Fatalf("role mapping broken: %+v", params.Messages)
	}
	if !params.MaxTokens.Valid() || params.MaxTokens.Value != 4000 {
		t.Fatalf("max tokens = %+v", params.MaxTokens)
	}
	if !params.Temperature.Valid() || params.Temperature.Value != 0.3 {
		t.Fatalf("temperature = %+v", params.Temperature)
	}
}

func TestBuildParamsOmitsOptionalFields(t *testing.T) {
	req := scrutari.Request{
		Messages:    []scrutari.Turn{{Role: scrutari.RoleUser, Content: "hi"}},
		Model:       "gpt-4o-mini",
		Temperature: -1,
	}
	params := buildParams(req)

	if len(params.Messages) != 1 {
		t.Fatalf("empty system prompt must not produce a message, got %d", len(params.Messages))
	}
	if params.MaxTokens.Valid() {
		t.Fatal("zero max tokens must be omitted")
	}
	if params.Temperature.Valid() {
		t.Fatal("negative temperature must be omitted")
	}
}

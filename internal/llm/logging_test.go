package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/chunkz/internal/store"
)

// recordingRepo captures LLM events; the other EventRepo methods are unused.
type recordingRepo struct {
	store.EventRepo
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func TestLoggingProvider_RecordsEvents(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"chunks":[]}`), Usage: Usage{InputTokens: 12, OutputTokens: 3}},
		MockResponse{Err: errors.New("boom")},
	)
	p := WithLogging(mock, "anthropic", repo, nil)
	ctx := WithPurpose(context.Background(), "chunk-gloss")

	req := Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "I like tea."}},
		Schema:   &Schema{Name: "chunk-gloss", Definition: map[string]any{"type": "object"}},
	}
	if _, err := p.Generate(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(ctx, req); err == nil {
		t.Fatal("expected error")
	}

	if len(repo.events) != 2 {
		t.Fatalf("events = %d, want 2", len(repo.events))
	}
	ok := repo.events[0]
	if ok.Provider != "anthropic" || ok.Purpose != "chunk-gloss" || !ok.Success {
		t.Errorf("first event = %+v", ok)
	}
	if ok.InputTokens != 12 || ok.OutputTokens != 3 || ok.ResponseBody != `{"chunks":[]}` {
		t.Errorf("first event usage = %+v", ok)
	}
	for _, want := range []string{"[system]\nsys", "[user]\nI like tea.", "[schema: chunk-gloss]"} {
		if !strings.Contains(ok.RequestBody, want) {
			t.Errorf("request body missing %q:\n%s", want, ok.RequestBody)
		}
	}

	failed := repo.events[1]
	if failed.Success || failed.ErrorMessage != "boom" {
		t.Errorf("second event = %+v", failed)
	}
}

func TestLoggingProvider_EventFailureIgnored(t *testing.T) {
	repo := &recordingRepo{err: errors.New("disk full")}
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, "mock", repo, nil)

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("event write failure leaked: %v", err)
	}
}

func TestLoggingProvider_NilRepo(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, "mock", nil, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Package gloss fills in missing chunk meanings with an LLM and caches
// them in the store.
package gloss

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/chunkz/internal/dataset"
	"github.com/abhisek/chunkz/internal/llm"
	"github.com/abhisek/chunkz/internal/segment"
	"github.com/abhisek/chunkz/internal/store"
)

// Stats summarizes one Fill run.
type Stats struct {
	Sentences int // sentences with at least one missing meaning
	Cached    int // served entirely from the cache
	Generated int
	Failed    int
}

// Service generates chunk meanings.
type Service struct {
	provider llm.Provider
	repo     store.GlossRepo
	cfg      Config
	logger   *slog.Logger
}

// NewService creates a gloss service. repo and logger may be nil.
func NewService(provider llm.Provider, repo store.GlossRepo, cfg Config, logger *slog.Logger) *Service {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.Language == "" {
		cfg.Language = DefaultConfig().Language
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{provider: provider, repo: repo, cfg: cfg, logger: logger}
}

type glossOutput struct {
	Chunks []struct {
		Text    string `json:"text"`
		Meaning string `json:"meaning"`
	} `json:"chunks"`
}

// GlossItem asks the provider for one meaning per chunk of item.
func (s *Service) GlossItem(ctx context.Context, item *dataset.SentenceItem) ([]string, error) {
	ctx = llm.WithPurpose(ctx, "chunk-gloss")
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	req := llm.Request{
		System: systemPrompt(s.cfg.Language),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(item, s.cfg.Language)},
		},
		Schema:      ChunkGlossSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chunk gloss: %w", err)
	}

	var out glossOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse gloss response: %w", err)
	}
	if len(out.Chunks) != len(item.Chunks) {
		return nil, fmt.Errorf("gloss response has %d chunks, want %d", len(out.Chunks), len(item.Chunks))
	}

	meanings := make([]string, len(out.Chunks))
	for i, c := range out.Chunks {
		if !strings.EqualFold(strings.TrimSpace(c.Text), item.Chunks[i].Text) {
			return nil, fmt.Errorf("gloss chunk %d is %q, want %q", i+1, c.Text, item.Chunks[i].Text)
		}
		meanings[i] = strings.TrimSpace(c.Meaning)
	}
	return meanings, nil
}

// Fill returns a copy of program where every chunk without a meaning has
// one, taken from the cache or generated. Sentences whose request fails
// keep their empty meanings; only cancellation aborts the run.
func (s *Service) Fill(ctx context.Context, program *dataset.Program) (*dataset.Program, Stats, error) {
	out := cloneProgram(program)
	var stats Stats

	var pending []*dataset.SentenceItem
	for pi := range out.Parts {
		for ii := range out.Parts[pi].Items {
			item := &out.Parts[pi].Items[ii]
			if !needsGloss(item) {
				continue
			}
			stats.Sentences++
			if s.applyCached(ctx, item) {
				stats.Cached++
				continue
			}
			pending = append(pending, item)
		}
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)

	for _, item := range pending {
		g.Go(func() error {
			meanings, err := s.GlossItem(gctx, item)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.logger.Warn("chunk gloss failed", "sentence", item.ID, "error", err)
				mu.Lock()
				stats.Failed++
				mu.Unlock()
				return nil
			}

			applyMeanings(item, meanings)
			s.save(gctx, item)

			mu.Lock()
			stats.Generated++
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return program, stats, err
	}

	s.logger.Info("chunk gloss complete",
		"sentences", stats.Sentences, "cached", stats.Cached,
		"generated", stats.Generated, "failed", stats.Failed)
	return out, stats, nil
}

func (s *Service) keys(item *dataset.SentenceItem) []store.GlossKey {
	keys := make([]store.GlossKey, len(item.Chunks))
	for i, c := range item.Chunks {
		keys[i] = store.GlossKey{Sentence: item.Text, Chunk: c.Text, Language: s.cfg.Language}
	}
	return keys
}

// applyCached fills item from the cache and reports whether every missing
// meaning was found.
func (s *Service) applyCached(ctx context.Context, item *dataset.SentenceItem) bool {
	if s.repo == nil {
		return false
	}
	keys := s.keys(item)
	cached, err := s.repo.Lookup(ctx, keys)
	if err != nil {
		s.logger.Warn("gloss cache lookup failed", "sentence", item.ID, "error", err)
		return false
	}
	for i := range item.Chunks {
		if item.Chunks[i].Meaning == "" {
			item.Chunks[i].Meaning = cached[keys[i]]
		}
	}
	return !needsGloss(item)
}

func (s *Service) save(ctx context.Context, item *dataset.SentenceItem) {
	if s.repo == nil {
		return
	}
	meanings := make(map[store.GlossKey]string, len(item.Chunks))
	for i, k := range s.keys(item) {
		if m := item.Chunks[i].Meaning; m != "" {
			meanings[k] = m
		}
	}
	if err := s.repo.Put(ctx, s.provider.ModelID(), meanings); err != nil {
		s.logger.Warn("gloss cache write failed", "sentence", item.ID, "error", err)
	}
}

func needsGloss(item *dataset.SentenceItem) bool {
	for _, c := range item.Chunks {
		if c.Meaning == "" {
			return true
		}
	}
	return false
}

// applyMeanings sets generated meanings on chunks that have none; meanings
// supplied by the dataset win.
func applyMeanings(item *dataset.SentenceItem, meanings []string) {
	for i := range item.Chunks {
		if item.Chunks[i].Meaning == "" && i < len(meanings) {
			item.Chunks[i].Meaning = meanings[i]
		}
	}
}

func cloneProgram(p *dataset.Program) *dataset.Program {
	if p == nil {
		return &dataset.Program{}
	}
	out := *p
	out.Parts = make([]dataset.Part, len(p.Parts))
	for i, part := range p.Parts {
		part.Items = make([]dataset.SentenceItem, len(p.Parts[i].Items))
		for j, item := range p.Parts[i].Items {
			item.Chunks = append([]segment.Chunk(nil), item.Chunks...)
			part.Items[j] = item
		}
		out.Parts[i] = part
	}
	return &out
}

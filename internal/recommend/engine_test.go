// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package recommend_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ujjwaljain16/Fuze-sub001/internal/cache"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/corpus"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/enrichment"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/quota"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/recommend"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/recommend/algorithms"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/recommend/reranking"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/validation"
)

// fakeAI is a scripted AI gateway.
type fakeAI struct {
	mu         sync.Mutex
	emb        []float32
	embedErr   error
	meta       *enrichment.Metadata
	enrichErr  error
	embedCalls int
}

func (f *fakeAI) Embed(_ context.Context, _ int64, _ string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.embedCalls++
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	return f.emb, nil
}

func (f *fakeAI) Enrich(_ context.Context, _ int64, _ enrichment.Input) (*enrichment.Metadata, error) {
	if f.enrichErr != nil {
		return nil, f.enrichErr
	}
	m := *f.meta
	return &m, nil
}

// failingCandidates breaks only the candidate read.
type failingCandidates struct {
	corpus.Store
}

func (failingCandidates) Candidates(context.Context, int64, int) ([]corpus.Item, error) {
	return nil, errors.New("corpus offline")
}

type brokenQuota struct{}

func (brokenQuota) Usage(context.Context, quota.Subject) (quota.Usage, error) {
	return quota.Usage{}, errors.New("quota store offline")
}

type fixture struct {
	engine *recommend.Engine
	store  *corpus.Notifying
}

func newFixture(t *testing.T, base corpus.Store, ai recommend.AIGateway, q recommend.QuotaReporter, mutate func(*recommend.Config)) *fixture {
	t.Helper()
	if base == nil {
		base = corpus.NewMemoryStore()
	}
	store := corpus.NewNotifying(base)
	local := cache.NewLocal(0)
	t.Cleanup(local.Close)

	cfg := recommend.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	deps := recommend.Dependencies{
		Corpus:   store,
		Profiles: algorithms.NewProfileBuilder(store, algorithms.ProfileOptions{Cache: local}),
		Scorer:   algorithms.NewScorer(),
		Ranker:   reranking.NewRanker(reranking.DefaultConfig()),
		Combiner: reranking.NewEnsemble(),
		Cache:    recommend.NewResultCache(local, cfg.AggregateTTL, cfg.InteractiveTTL),
		AI:       ai,
		Quota:    q,
	}
	e, err := recommend.NewEngine(cfg, deps, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	store.OnChange(e.OnContentChanged)
	return &fixture{engine: e, store: store}
}

func (f *fixture) save(t *testing.T, items ...corpus.Item) {
	t.Helper()
	for i := range items {
		if items[i].UserID == 0 {
			items[i].UserID = 1
		}
		if items[i].SavedAt.IsZero() {
			items[i].SavedAt = time.Now().Add(-time.Hour)
		}
		if err := f.store.Put(context.Background(), &items[i]); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
}

func TestRecommendEndToEnd(t *testing.T) {
	f := newFixture(t, nil, nil, nil, nil)

	// Five saved items that define the user's interest.
	for i, q := range []int{9, 8, 7, 6, 5} {
		f.save(t, corpus.Item{
			Title:        fmt.Sprintf("saved %d", i),
			QualityScore: q,
			Embedding:    []float32{1, 0.1 * float32(i), 0, 0},
			Tags:         []string{"go", "backend"},
		})
	}
	// Ten candidates: three near duplicates close to the interest and
	// seven alternatives with distinct topics.
	for i := 0; i < 3; i++ {
		f.save(t, corpus.Item{
			Title:        fmt.Sprintf("duplicate %d", i),
			QualityScore: 8,
			Embedding:    []float32{1, 0, 0.05 * float32(i), 0},
			Tags:         []string{"go", "concurrency", "channels"},
		})
	}
	topics := []string{"rust", "python", "sql", "docker", "kubernetes", "graphql", "testing"}
	for i, topic := range topics {
		f.save(t, corpus.Item{
			Title:        "alternative " + topic,
			QualityScore: 6 + i%3,
			Embedding:    []float32{0.7, 0.2, 0.1 * float32(i), 0.3},
			Tags:         []string{topic},
		})
	}

	resp, err := f.engine.Recommend(context.Background(), &recommend.Request{UserID: 1, Limit: 3})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(resp.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(resp.Items))
	}
	if !resp.Metadata.ProfileAvailable || resp.Metadata.CandidateCount != 15 {
		t.Errorf("metadata = %+v", resp.Metadata)
	}
	for i := 1; i < len(resp.Items); i++ {
		if resp.Items[i].Score > resp.Items[i-1].Score {
			t.Errorf("scores not descending: %v", resp.Items)
		}
	}
	for i := range resp.Items {
		for j := i + 1; j < len(resp.Items); j++ {
			if overlap := reranking.Jaccard(resp.Items[i].Tags, resp.Items[j].Tags); overlap > 0.6 {
				t.Errorf("near duplicates %q and %q selected (overlap %.2f)",
					resp.Items[i].Title, resp.Items[j].Title, overlap)
			}
		}
		if resp.Items[i].Reason == "" || resp.Items[i].Strategy != recommend.StrategyBalanced {
			t.Errorf("item %+v", resp.Items[i])
		}
	}
}

func TestRecommendEmptyCorpus(t *testing.T) {
	f := newFixture(t, nil, nil, nil, nil)
	resp, err := f.engine.Recommend(context.Background(), &recommend.Request{UserID: 1})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(resp.Items) != 0 || resp.Message == "" || resp.Items == nil {
		t.Errorf("response = %+v, want empty list with message", resp)
	}
}

func TestRecommendInvalidRequest(t *testing.T) {
	f := newFixture(t, nil, nil, nil, nil)
	tests := []struct {
		name string
		req  recommend.Request
	}{
		{"missing user", recommend.Request{}},
		{"unknown strategy", recommend.Request{UserID: 1, Strategy: "bogus"}},
		{"negative limit", recommend.Request{UserID: 1, Limit: -1}},
		{"threshold too high", recommend.Request{UserID: 1, QualityThreshold: 11}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.Recommend(context.Background(), &tt.req)
			if !errors.Is(err, recommend.ErrInvalidRequest) {
				t.Fatalf("err = %v, want ErrInvalidRequest", err)
			}
			var verr *validation.RequestValidationError
			if !errors.As(err, &verr) {
				t.Errorf("err = %v should carry the validation details", err)
			}
		})
	}
}

func TestRecommendCorpusError(t *testing.T) {
	f := newFixture(t, failingCandidates{Store: corpus.NewMemoryStore()}, nil, nil, nil)
	_, err := f.engine.Recommend(context.Background(), &recommend.Request{UserID: 1})
	if err == nil || errors.Is(err, recommend.ErrInvalidRequest) {
		t.Errorf("err = %v, want internal error", err)
	}
}

func TestRecommendCacheLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, nil, nil, nil)
	f.save(t,
		corpus.Item{Title: "a", QualityScore: 8, Embedding: []float32{1, 0}, Tags: []string{"a"}},
		corpus.Item{Title: "b", QualityScore: 6, Embedding: []float32{0, 1}, Tags: []string{"b"}},
	)
	req := &recommend.Request{UserID: 1, Limit: 5}

	first, err := f.engine.Recommend(ctx, req)
	if err != nil || first.Cached {
		t.Fatalf("first = %+v, %v", first, err)
	}
	second, _ := f.engine.Recommend(ctx, req)
	if !second.Cached || len(second.Items) != len(first.Items) {
		t.Fatalf("second should be served from cache: %+v", second)
	}
	for i := range first.Items {
		if first.Items[i].ContentID != second.Items[i].ContentID || first.Items[i].Score != second.Items[i].Score {
			t.Errorf("cached item %d differs", i)
		}
	}

	f.save(t, corpus.Item{Title: "c", QualityScore: 9, Embedding: []float32{1, 1}, Tags: []string{"c"}})
	third, _ := f.engine.Recommend(ctx, req)
	if third.Cached || len(third.Items) != 3 {
		t.Errorf("content change should force a recompute: cached=%v items=%d", third.Cached, len(third.Items))
	}

	f.engine.OnProjectChanged(ctx, 99)
	if again, _ := f.engine.Recommend(ctx, req); !again.Cached {
		t.Error("unrelated project change evicted the list")
	}
	f.engine.OnProfileChanged(ctx, 1)
	if again, _ := f.engine.Recommend(ctx, req); again.Cached {
		t.Error("profile change should force a recompute")
	}
}

func TestRecommendInteractiveNotCached(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, nil, nil, nil)
	f.save(t, corpus.Item{Title: "a", QualityScore: 8, Embedding: []float32{1, 0}})
	req := &recommend.Request{UserID: 1, ProjectID: 4, Interactive: true}
	_, _ = f.engine.Recommend(ctx, req)
	if resp, _ := f.engine.Recommend(ctx, req); resp.Cached {
		t.Error("interactive requests must not be cached with a zero TTL")
	}
}

func TestRecommendQueryBlend(t *testing.T) {
	ctx := context.Background()
	ai := &fakeAI{emb: []float32{0, 1}}
	f := newFixture(t, nil, ai, nil, func(c *recommend.Config) { c.QueryBlend = 0.9 })
	f.save(t,
		corpus.Item{Title: "profile match", QualityScore: 9, Embedding: []float32{1, 0}, Tags: []string{"a"}},
		corpus.Item{Title: "query match", QualityScore: 5, Embedding: []float32{0, 1}, Tags: []string{"b"}},
	)

	plain, _ := f.engine.Recommend(ctx, &recommend.Request{UserID: 1})
	if plain.Items[0].Title != "profile match" || ai.embedCalls != 0 {
		t.Fatalf("without a query: first = %q, embed calls = %d", plain.Items[0].Title, ai.embedCalls)
	}

	resp, err := f.engine.Recommend(ctx, &recommend.Request{UserID: 1, Title: "something else"})
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Metadata.QueryBlended || resp.Items[0].Title != "query match" {
		t.Errorf("query should steer ranking: blended=%v first=%q", resp.Metadata.QueryBlended, resp.Items[0].Title)
	}
}

func TestRecommendQueryDegradation(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		notice   string
		waitSecs int64
	}{
		{
			name:     "quota exceeded",
			err:      fmt.Errorf("embed: %w", &quota.ExceededError{Subject: quota.UserSubject(1), State: quota.StateRateLimited, Wait: 30 * time.Second}),
			notice:   "retry in 30s",
			waitSecs: 30,
		},
		{
			name:   "no credential",
			err:    fmt.Errorf("embed: %w", enrichment.ErrNoCredential),
			notice: "No AI credential",
		},
		{
			name:   "provider down",
			err:    fmt.Errorf("embed: %w", enrichment.ErrUnavailable),
			notice: "unavailable",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil, &fakeAI{embedErr: tt.err}, nil, nil)
			f.save(t, corpus.Item{Title: "a", QualityScore: 8, Embedding: []float32{1, 0}})

			resp, err := f.engine.Recommend(context.Background(), &recommend.Request{UserID: 1, Title: "query"})
			if err != nil {
				t.Fatalf("degraded query must not fail the request: %v", err)
			}
			if len(resp.Items) != 1 || resp.Metadata.QueryBlended || !resp.Metadata.ProfileAvailable {
				t.Errorf("response = %+v", resp)
			}
			if !strings.Contains(strings.Join(resp.Metadata.Notices, " "), tt.notice) {
				t.Errorf("notices = %v, want %q", resp.Metadata.Notices, tt.notice)
			}
			if resp.Metadata.QuotaWaitSeconds != tt.waitSecs {
				t.Errorf("quota wait = %d, want %d", resp.Metadata.QuotaWaitSeconds, tt.waitSecs)
			}
		})
	}
}

func TestRecommendWithoutProfile(t *testing.T) {
	f := newFixture(t, nil, nil, nil, nil)
	f.save(t,
		corpus.Item{Title: "low", QualityScore: 3},
		corpus.Item{Title: "high", QualityScore: 9},
	)
	resp, err := f.engine.Recommend(context.Background(), &recommend.Request{UserID: 1})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Metadata.ProfileAvailable || len(resp.Metadata.Notices) == 0 {
		t.Errorf("metadata = %+v", resp.Metadata)
	}
	if resp.Items[0].Title != "high" {
		t.Errorf("quality ordering expected, got %q first", resp.Items[0].Title)
	}
}

func TestRecommendEnsemble(t *testing.T) {
	f := newFixture(t, nil, nil, nil, nil)
	for i := 0; i < 6; i++ {
		f.save(t, corpus.Item{
			Title:        fmt.Sprintf("item %d", i),
			QualityScore: 4 + i,
			Embedding:    []float32{1, float32(i) / 5},
			Tags:         []string{fmt.Sprintf("t%d", i)},
		})
	}
	resp, err := f.engine.Recommend(context.Background(), &recommend.Request{UserID: 1, Strategy: "smart", Limit: 4})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Metadata.Strategy != recommend.StrategyEnsemble || len(resp.Metadata.Strategies) != 3 {
		t.Errorf("metadata = %+v", resp.Metadata)
	}
	if len(resp.Items) != 4 {
		t.Fatalf("len = %d", len(resp.Items))
	}
	for i, it := range resp.Items {
		if it.Strategy != recommend.StrategyEnsemble || it.Signals.Ensemble <= 0 {
			t.Errorf("item %+v", it)
		}
		if i > 0 && it.Signals.Ensemble > resp.Items[i-1].Signals.Ensemble {
			t.Errorf("votes not descending at %d", i)
		}
	}
}

func TestRecommendPagination(t *testing.T) {
	f := newFixture(t, nil, nil, nil, nil)
	for i := 0; i < 7; i++ {
		f.save(t, corpus.Item{Title: fmt.Sprintf("item %d", i), QualityScore: 5, Tags: []string{fmt.Sprintf("t%d", i)}})
	}
	resp, err := f.engine.Recommend(context.Background(), &recommend.Request{UserID: 1, Page: 2, PageSize: 3})
	if err != nil {
		t.Fatal(err)
	}
	p := resp.Pagination
	if len(resp.Items) != 3 || p == nil || p.Total != 7 || !p.HasMore || p.Page != 2 {
		t.Errorf("items=%d pagination=%+v", len(resp.Items), p)
	}
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	qm := quota.NewManager(quota.Options{
		UserLimits:    quota.Limits{Minute: 15, Day: 1500, Month: 45000},
		DefaultLimits: quota.Limits{Minute: 60, Day: 10000, Month: 300000},
		Store:         quota.NewMemoryStateStore(),
	})
	f := newFixture(t, nil, nil, qm, nil)
	f.save(t,
		corpus.Item{Title: "a", QualityScore: 8, Embedding: []float32{1, 0}, Tags: []string{"go"}},
		corpus.Item{Title: "b", QualityScore: 6, Embedding: []float32{0, 1}, Tags: []string{"go"}},
		corpus.Item{Title: "c", QualityScore: 4, Tags: []string{"sql"}},
	)

	d, err := f.engine.Dashboard(ctx, 1)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if len(d.Degraded) != 0 {
		t.Errorf("degraded = %v", d.Degraded)
	}
	if !d.Profile.Available || d.Profile.ItemCount != 2 {
		t.Errorf("profile = %+v", d.Profile)
	}
	if d.Quota == nil || d.Quota.Minute.Limit != 15 {
		t.Errorf("quota = %+v", d.Quota)
	}
	if d.Stats.Total != 3 || d.Stats.Embedded != 2 {
		t.Errorf("stats = %+v", d.Stats)
	}
	if len(d.Recommendations) != 3 {
		t.Errorf("recommendations = %d", len(d.Recommendations))
	}
}

func TestDashboardDegradesBranches(t *testing.T) {
	f := newFixture(t, failingCandidates{Store: corpus.NewMemoryStore()}, nil, brokenQuota{}, nil)
	d, err := f.engine.Dashboard(context.Background(), 1)
	if err != nil {
		t.Fatalf("a failing branch must not fail the dashboard: %v", err)
	}
	want := []string{recommend.BranchQuota, recommend.BranchRecommendations}
	if strings.Join(d.Degraded, ",") != strings.Join(want, ",") {
		t.Errorf("degraded = %v, want %v", d.Degraded, want)
	}
	if d.Recommendations == nil {
		t.Error("degraded recommendations should default to an empty list")
	}
}

func TestDashboardCanceled(t *testing.T) {
	f := newFixture(t, nil, nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.engine.Dashboard(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestIngest(t *testing.T) {
	ctx := context.Background()
	ai := &fakeAI{
		emb: []float32{0.6, 0.8},
		meta: &enrichment.Metadata{
			Tags:         []string{"go", "testing"},
			QualityScore: 8,
			ContentType:  "tutorial",
			Difficulty:   "intermediate",
			KeyConcepts:  []string{"table tests"},
			Summary:      "How to write table-driven tests.",
		},
	}
	f := newFixture(t, nil, ai, nil, nil)

	res, err := f.engine.Ingest(ctx, &recommend.IngestRequest{
		UserID: 1,
		Title:  "Table driven tests",
		URL:    "https://example.com/tests",
		Tags:   []string{"Go"},
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if !res.Enriched || !res.Embedded || len(res.Notices) != 0 {
		t.Errorf("result = %+v", res)
	}
	item, err := f.store.Get(ctx, 1, res.Item.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if item.QualityScore != 8 || strings.Join(item.Tags, ",") != "Go,testing" {
		t.Errorf("item = %+v", item)
	}
	if item.Enrichment == nil || item.Enrichment.ContentType != "tutorial" || !item.Embedded() {
		t.Errorf("enrichment = %+v", item.Enrichment)
	}
}

func TestIngestWithoutAI(t *testing.T) {
	ctx := context.Background()
	exceeded := &quota.ExceededError{Subject: quota.UserSubject(1), State: quota.StateQuotaExceeded, Wait: 2 * time.Hour}
	f := newFixture(t, nil, &fakeAI{embedErr: exceeded, enrichErr: exceeded}, nil, nil)

	res, err := f.engine.Ingest(ctx, &recommend.IngestRequest{UserID: 1, Title: "Saved anyway", QualityScore: 0})
	if err != nil {
		t.Fatalf("AI failures must not block saving: %v", err)
	}
	if res.Enriched || res.Embedded || len(res.Notices) != 2 {
		t.Errorf("result = %+v", res)
	}
	if res.Item.QualityScore != 5 || res.Item.ID == 0 {
		t.Errorf("item = %+v", res.Item)
	}
	if !strings.Contains(res.Notices[0], "retry in 2h0m0s") {
		t.Errorf("notice = %q", res.Notices[0])
	}
}

func TestIngestValidation(t *testing.T) {
	f := newFixture(t, nil, nil, nil, nil)
	tests := []recommend.IngestRequest{
		{UserID: 1},
		{Title: "no user"},
		{UserID: 1, Title: "bad url", URL: "not a url"},
		{UserID: 1, Title: "bad quality", QualityScore: 11},
	}
	for _, req := range tests {
		if _, err := f.engine.Ingest(context.Background(), &req); !errors.Is(err, recommend.ErrInvalidRequest) {
			t.Errorf("Ingest(%+v) err = %v, want ErrInvalidRequest", req, err)
		}
	}
}

func TestIngestInvalidatesCachedLists(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, nil, nil, nil)
	f.save(t, corpus.Item{Title: "a", QualityScore: 8})
	req := &recommend.Request{UserID: 1}
	_, _ = f.engine.Recommend(ctx, req)

	if _, err := f.engine.Ingest(ctx, &recommend.IngestRequest{UserID: 1, Title: "b"}); err != nil {
		t.Fatal(err)
	}
	resp, _ := f.engine.Recommend(ctx, req)
	if resp.Cached || len(resp.Items) != 2 {
		t.Errorf("cached=%v items=%d", resp.Cached, len(resp.Items))
	}
}

package precedent

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/alegato/internal/cache"
	"github.com/ppiankov/alegato/internal/logging"
	"github.com/ppiankov/alegato/internal/model"
	"github.com/ppiankov/alegato/internal/worker"
)

type fakeEmbedder struct {
	vectors map[string][]float32
	calls   int
}

func (f *fakeEmbedder) Name() string { return "fake" }

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, ok := f.vectors[text]
		if !ok {
			return nil, errors.New("unknown text " + text)
		}
		out[i] = v
	}
	return out, nil
}

func newFixture(t *testing.T, entries []Entry) (*fakeEmbedder, *Service) {
	t.Helper()
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"query":    {1, 0},
		"same":     {1, 0},
		"close":    {0.8, 0.6},
		"unrelate": {0, 1},
	}}
	idx, err := NewMemoryIndex(context.Background(), emb, entries)
	if err != nil {
		t.Fatalf("NewMemoryIndex failed: %v", err)
	}
	return emb, NewService(emb, idx, 5, 0.5, logging.NewNopLogger())
}

func TestService_Align(t *testing.T) {
	_, svc := newFixture(t, []Entry{
		{ID: "b", Text: "close", Metadata: map[string]string{"court": "CSJN"}},
		{ID: "a", Text: "same"},
		{ID: "c", Text: "unrelate"},
	})

	got, err := svc.Align(context.Background(), Request{QueryText: "query", UserID: "u1"})
	if err != nil {
		t.Fatalf("Align failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected an alignment")
	}
	if got.TopK != 5 || got.BestScore != 1 {
		t.Errorf("expected topK 5 and best 1, got %d and %v", got.TopK, got.BestScore)
	}
	if len(got.Matches) != 2 || got.Matches[0].ID != "a" || got.Matches[1].ID != "b" {
		t.Fatalf("expected matches a, b, got %+v", got.Matches)
	}
	if got.Matches[1].Score != 0.8 || got.Matches[1].Metadata["court"] != "CSJN" {
		t.Errorf("unexpected second match %+v", got.Matches[1])
	}
}

func TestService_Align_Absent(t *testing.T) {
	_, svc := newFixture(t, []Entry{{ID: "c", Text: "unrelate"}})

	tests := []struct {
		name string
		req  Request
	}{
		{"blank user", Request{QueryText: "query"}},
		{"blank query", Request{QueryText: "  ", UserID: "u1"}},
		{"below threshold", Request{QueryText: "query", UserID: "u1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Align(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != nil {
				t.Errorf("expected absent alignment, got %+v", got)
			}
		})
	}
}

func TestService_Align_Filters(t *testing.T) {
	_, svc := newFixture(t, []Entry{
		{ID: "private", Text: "same", UserID: "someone-else"},
		{ID: "foreign", Text: "same", Jurisdiction: "CL"},
		{ID: "own", Text: "close", UserID: "u1", Jurisdiction: "ar"},
	})

	got, err := svc.Align(context.Background(), Request{QueryText: "query", UserID: "u1", Jurisdiction: "AR"})
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got.Matches) != 1 || got.Matches[0].ID != "own" {
		t.Fatalf("expected only the caller's precedent in jurisdiction, got %+v", got)
	}
}

func TestService_Align_TopKAndMinScore(t *testing.T) {
	_, svc := newFixture(t, []Entry{
		{ID: "a", Text: "same"},
		{ID: "b", Text: "close"},
	})

	got, err := svc.Align(context.Background(), Request{QueryText: "query", UserID: "u1", TopK: 1})
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got.Matches) != 1 || got.TopK != 1 {
		t.Fatalf("expected one match, got %+v", got)
	}

	strict := 0.9
	got, err = svc.Align(context.Background(), Request{QueryText: "query", UserID: "u1", MinScore: &strict})
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got.Matches) != 1 || got.Matches[0].ID != "a" {
		t.Fatalf("expected only the exact match above 0.9, got %+v", got)
	}
}

func TestService_Align_ZeroMinScore(t *testing.T) {
	_, svc := newFixture(t, []Entry{{ID: "c", Text: "unrelate"}})

	got, err := svc.Align(context.Background(), Request{QueryText: "query", UserID: "u1"})
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("expected the default threshold to exclude an orthogonal precedent, got %+v", got)
	}

	none := 0.0
	got, err = svc.Align(context.Background(), Request{QueryText: "query", UserID: "u1", MinScore: &none})
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got.Matches) != 1 || got.Matches[0].ID != "c" || got.Matches[0].Score != 0 {
		t.Fatalf("expected a zero threshold to keep every hit, got %+v", got)
	}
}

func TestService_Errors(t *testing.T) {
	svc := NewService(nil, nil, 0, 0, nil)
	_, err := svc.Align(context.Background(), Request{QueryText: "q", UserID: "u"})
	if !errors.Is(err, ErrNoEmbedder) {
		t.Errorf("expected ErrNoEmbedder, got %v", err)
	}

	svc = NewService(NewHashEmbedder(8), nil, 0, 0, nil)
	_, err = svc.Align(context.Background(), Request{QueryText: "q", UserID: "u"})
	if !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("expected ErrEmptyCorpus, got %v", err)
	}

	if _, err := NewMemoryIndex(context.Background(), NewHashEmbedder(8), nil); !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("expected ErrEmptyCorpus for an empty corpus, got %v", err)
	}
	if _, err := NewMemoryIndex(context.Background(), NewHashEmbedder(8), []Entry{{ID: "x"}, {ID: "x"}}); err == nil {
		t.Error("expected duplicate ids to be rejected")
	}
}

func TestService_Similarity(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{"a": {1, 0}, "b": {0.6, 0.8}}}
	svc := NewService(emb, nil, 0, 0, nil)

	got, err := svc.Similarity(context.Background(), "a", "b")
	if err != nil {
		t.Fatal(err)
	}
	if got != 0.6 {
		t.Errorf("expected 0.6, got %v", got)
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		a, b []float32
		want float64
	}{
		{[]float32{1, 0}, []float32{1, 0}, 1},
		{[]float32{1, 0}, []float32{0, 1}, 0},
		{[]float32{1, 0}, []float32{-1, 0}, -1},
		{[]float32{0, 0}, []float32{1, 0}, 0},
		{[]float32{1}, []float32{1, 0}, 0},
		{nil, nil, 0},
	}
	for _, tt := range tests {
		if got := Cosine(tt.a, tt.b); got != tt.want {
			t.Errorf("Cosine(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestHashEmbedder(t *testing.T) {
	e := NewHashEmbedder(0)
	if e.Name() != "hash-256" {
		t.Errorf("unexpected name %s", e.Name())
	}

	vectors, err := e.Embed(context.Background(), []string{
		"El demandado incumplió el contrato de locación",
		"EL DEMANDADO INCUMPLIO EL CONTRATO DE LOCACION",
		"Recurso de casación por arbitrariedad",
		"",
	})
	if err != nil {
		t.Fatal(err)
	}

	if sim := Cosine(vectors[0], vectors[1]); math.Abs(sim-1) > 1e-6 {
		t.Errorf("expected folded texts to embed identically, got %v", sim)
	}
	if sim := Cosine(vectors[0], vectors[2]); sim >= 0.5 {
		t.Errorf("expected unrelated texts to be dissimilar, got %v", sim)
	}
	for _, x := range vectors[3] {
		if x != 0 {
			t.Fatal("expected empty text to embed to the zero vector")
		}
	}

	var norm float64
	for _, x := range vectors[0] {
		norm += float64(x) * float64(x)
	}
	if math.Abs(norm-1) > 1e-5 {
		t.Errorf("expected unit vector, got squared norm %v", norm)
	}
}

func TestCachedEmbedder(t *testing.T) {
	inner := &fakeEmbedder{vectors: map[string][]float32{"a": {1, 0}, "b": {0, 1}}}
	c := cache.NewMemoryCache(time.Minute, time.Minute)
	e := NewCachedEmbedder(inner, c, worker.NewLimiter(0, 1), time.Minute)

	if _, err := e.Embed(context.Background(), []string{"a"}); err != nil {
		t.Fatal(err)
	}
	got, err := e.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("expected 2 inner calls, got %d", inner.calls)
	}
	if got[0][0] != 1 || got[1][1] != 1 {
		t.Errorf("unexpected vectors %v", got)
	}

	if _, err := e.Embed(context.Background(), []string{"b", "a"}); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("expected fully cached call, inner called %d times", inner.calls)
	}
	if _, ok := c.Get(cache.CacheKey("embed", "fake", "a")); !ok {
		t.Error("expected vector stored under the embed namespace")
	}
}

func TestCachedEmbedder_RateLimitCancelled(t *testing.T) {
	inner := &fakeEmbedder{vectors: map[string][]float32{"a": {1}}}
	e := NewCachedEmbedder(inner, nil, worker.NewLimiter(0.001, 1), 0)

	if _, err := e.Embed(context.Background(), []string{"a"}); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Embed(ctx, []string{"a"}); err == nil {
		t.Error("expected cancelled wait to fail")
	}
}

func TestOpenAIEmbedder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("Expected path /embeddings, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header Bearer test-key, got %s", r.Header.Get("Authorization"))
		}

		var req openai.EmbeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("Expected model test-model, got %s", req.Model)
		}

		// Out of order on purpose
		resp := openai.EmbeddingResponse{
			Object: "list",
			Model:  "test-model",
			Data: []openai.Embedding{
				{Object: "embedding", Index: 1, Embedding: []float32{0, 1}},
				{Object: "embedding", Index: 0, Embedding: []float32{1, 0}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	e, err := NewOpenAIEmbedder(model.OpenAIConfig{APIKey: "test-key", BaseURL: server.URL, Model: "test-model"}, model.HTTPConfig{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("Failed to create embedder: %v", err)
	}
	if e.Name() != "openai/test-model" {
		t.Errorf("unexpected name %s", e.Name())
	}

	vectors, err := e.Embed(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vectors) != 2 || vectors[0][0] != 1 || vectors[1][1] != 1 {
		t.Errorf("expected vectors ordered by index, got %v", vectors)
	}
}

func TestOpenAIEmbedder_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid API key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	e, err := NewOpenAIEmbedder(model.OpenAIConfig{APIKey: "bad", BaseURL: server.URL}, model.HTTPConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Embed(context.Background(), []string{"x"}); err == nil {
		t.Error("expected API error")
	}
}

func TestNewOpenAIEmbedder_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIEmbedder(model.OpenAIConfig{}, model.HTTPConfig{}); err == nil {
		t.Error("expected error without API key")
	}
}

func TestLoadCorpus(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "corpus.yaml")
	yamlDoc := `- id: csjn-2019-1
  text: Responsabilidad contractual por incumplimiento
  jurisdiction: AR
  metadata:
    court: CSJN
- id: own-1
  text: Daños y perjuicios
  user_id: u1
`
	if err := os.WriteFile(yamlPath, []byte(yamlDoc), 0644); err != nil {
		t.Fatal(err)
	}
	entries, err := LoadCorpus(yamlPath)
	if err != nil {
		t.Fatalf("LoadCorpus yaml failed: %v", err)
	}
	if len(entries) != 2 || entries[0].Metadata["court"] != "CSJN" || entries[1].UserID != "u1" {
		t.Errorf("unexpected yaml entries %+v", entries)
	}

	jsonPath := filepath.Join(dir, "corpus.json")
	jsonDoc := `{"precedents":[{"id":"p1","text":"Casación","jurisdiction":"AR"}]}`
	if err := os.WriteFile(jsonPath, []byte(jsonDoc), 0644); err != nil {
		t.Fatal(err)
	}
	entries, err = LoadCorpus(jsonPath)
	if err != nil {
		t.Fatalf("LoadCorpus json failed: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "p1" {
		t.Errorf("unexpected json entries %+v", entries)
	}

	emptyPath := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(emptyPath, []byte("precedents: []\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCorpus(emptyPath); !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("expected ErrEmptyCorpus, got %v", err)
	}
}

func TestBuild_MemoryIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.yaml")
	doc := "precedents:\n  - id: p1\n    text: incumplimiento del contrato de locación\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := model.DefaultConfig().Precedent
	cfg.CorpusPath = path
	svc, err := Build(context.Background(), cfg, model.HTTPConfig{}, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute, logging.NewNopLogger())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer svc.Close()

	got, err := svc.Align(context.Background(), Request{QueryText: "Incumplimiento del contrato de locación", UserID: "u1"})
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Matches[0].ID != "p1" || got.BestScore < 0.99 {
		t.Errorf("expected near-identical match p1, got %+v", got)
	}
}

func TestNewEmbedderAndIndex_Unknown(t *testing.T) {
	if _, err := NewEmbedder(model.PrecedentConfig{Embedder: "word2vec"}, model.HTTPConfig{}); err == nil {
		t.Error("expected unknown embedder error")
	}
	if _, err := NewIndex(context.Background(), model.PrecedentConfig{Index: "faiss"}, NewHashEmbedder(8)); err == nil {
		t.Error("expected unknown index error")
	}
	if _, err := NewIndex(context.Background(), model.PrecedentConfig{Index: "memory"}, NewHashEmbedder(8)); !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("expected missing corpus to wrap ErrEmptyCorpus, got %v", err)
	}
}

type fakeSearcher struct {
	expr         string
	outputFields []string
	metric       entity.MetricType
	topK         int
	results      []client.SearchResult
	err          error
	closed       bool
}

func (f *fakeSearcher) Search(_ context.Context, _ string, _ []string, expr string, outputFields []string, _ []entity.Vector, _ string, metricType entity.MetricType, topK int, _ entity.SearchParam, _ ...client.SearchQueryOptionFunc) ([]client.SearchResult, error) {
	f.expr = expr
	f.outputFields = outputFields
	f.metric = metricType
	f.topK = topK
	return f.results, f.err
}

func (f *fakeSearcher) Close() error {
	f.closed = true
	return nil
}

func TestMilvusIndex_Search(t *testing.T) {
	cfg := model.DefaultConfig().Precedent.Milvus
	fake := &fakeSearcher{results: []client.SearchResult{{
		ResultCount: 2,
		IDs:         entity.NewColumnInt64("pk", []int64{10, 11}),
		Scores:      []float32{0.9, 0.4},
		Fields: client.ResultSet{
			entity.NewColumnVarChar("case_id", []string{"csjn-1", "csjn-2"}),
			entity.NewColumnVarChar("court", []string{"CSJN", "CNCiv"}),
		},
	}}}
	idx := newMilvusIndex(fake, cfg)

	hits, err := idx.Search(context.Background(), []float32{1, 0}, Filter{UserID: "u1", Jurisdiction: "AR"}, 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if fake.metric != entity.COSINE || fake.topK != 3 {
		t.Errorf("expected COSINE top 3, got %v top %d", fake.metric, fake.topK)
	}
	want := `(user_id == "" || user_id == "u1") && (jurisdiction == "" || jurisdiction == "AR")`
	if fake.expr != want {
		t.Errorf("unexpected expr:\n got %s\nwant %s", fake.expr, want)
	}
	if !strings.Contains(strings.Join(fake.outputFields, ","), "case_id") {
		t.Errorf("expected id field in output fields, got %v", fake.outputFields)
	}

	if len(hits) != 2 || hits[0].ID != "csjn-1" || hits[1].ID != "csjn-2" {
		t.Fatalf("unexpected hits %+v", hits)
	}
	if hits[0].Metadata["court"] != "CSJN" || math.Abs(hits[0].Score-0.9) > 1e-6 {
		t.Errorf("unexpected first hit %+v", hits[0])
	}

	if err := idx.Close(); err != nil || !fake.closed {
		t.Error("expected Close to reach the client")
	}
}

func TestMilvusIndex_SearchError(t *testing.T) {
	fake := &fakeSearcher{err: errors.New("unavailable")}
	idx := newMilvusIndex(fake, model.MilvusConfig{Collection: "p", VectorField: "v"})

	if _, err := idx.Search(context.Background(), []float32{1}, Filter{UserID: "u"}, 1); err == nil {
		t.Error("expected search error")
	}
	if fake.expr != "" {
		t.Errorf("expected no filter without configured fields, got %q", fake.expr)
	}
}

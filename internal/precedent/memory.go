package precedent

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// embedBatchSize bounds the number of texts per embedding call when indexing
const embedBatchSize = 64

// Entry is one precedent in a corpus file. An empty UserID makes the entry
// visible to every user.
type Entry struct {
	ID           string            `json:"id" yaml:"id"`
	Text         string            `json:"text" yaml:"text"`
	UserID       string            `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	Jurisdiction string            `json:"jurisdiction,omitempty" yaml:"jurisdiction,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

type corpusFile struct {
	Precedents []Entry `json:"precedents" yaml:"precedents"`
}

// LoadCorpus reads a YAML or JSON corpus. The document is either a list of
// entries or an object with a "precedents" list.
func LoadCorpus(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	entries, err := parseCorpus(data, strings.EqualFold(filepath.Ext(path), ".json"))
	if err != nil {
		return nil, fmt.Errorf("parse corpus %s: %w", path, err)
	}
	if len(entries) == 0 {
		return nil, ErrEmptyCorpus
	}
	return entries, nil
}

func parseCorpus(data []byte, isJSON bool) ([]Entry, error) {
	trimmed := strings.TrimSpace(string(data))
	list := strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "-")

	unmarshal := yaml.Unmarshal
	if isJSON {
		unmarshal = json.Unmarshal
	}

	if list {
		var entries []Entry
		if err := unmarshal(data, &entries); err != nil {
			return nil, err
		}
		return entries, nil
	}

	var file corpusFile
	if err := unmarshal(data, &file); err != nil {
		return nil, err
	}
	return file.Precedents, nil
}

type indexedEntry struct {
	entry  Entry
	vector []float32
}

// MemoryIndex is an exhaustive cosine index over an embedded corpus
type MemoryIndex struct {
	entries []indexedEntry
}

// NewMemoryIndex embeds every entry. IDs must be non-empty and unique.
func NewMemoryIndex(ctx context.Context, embedder Embedder, entries []Entry) (*MemoryIndex, error) {
	if embedder == nil {
		return nil, ErrNoEmbedder
	}
	if len(entries) == 0 {
		return nil, ErrEmptyCorpus
	}

	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		if strings.TrimSpace(e.ID) == "" {
			return nil, fmt.Errorf("corpus entry %d has no id", i)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("duplicate corpus id %q", e.ID)
		}
		seen[e.ID] = true
	}

	idx := &MemoryIndex{entries: make([]indexedEntry, 0, len(entries))}
	for start := 0; start < len(entries); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(entries) {
			end = len(entries)
		}

		texts := make([]string, 0, end-start)
		for _, e := range entries[start:end] {
			texts = append(texts, e.Text)
		}
		vectors, err := embedder.Embed(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed corpus: %w", err)
		}
		if len(vectors) != len(texts) {
			return nil, fmt.Errorf("embed corpus: expected %d vectors, got %d", len(texts), len(vectors))
		}

		for i, e := range entries[start:end] {
			idx.entries = append(idx.entries, indexedEntry{entry: e, vector: vectors[i]})
		}
	}

	return idx, nil
}

// Len returns the number of indexed precedents
func (m *MemoryIndex) Len() int {
	return len(m.entries)
}

// Search scores every visible entry and returns the topK best
func (m *MemoryIndex) Search(ctx context.Context, vector []float32, filter Filter, topK int) ([]Hit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var hits []Hit
	for _, ie := range m.entries {
		if !visible(ie.entry, filter) {
			continue
		}
		hits = append(hits, Hit{
			ID:       ie.entry.ID,
			Score:    Cosine(vector, ie.vector),
			Metadata: copyMetadata(ie.entry.Metadata),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})
	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// visible applies tenant isolation and, when both sides carry one, the
// jurisdiction
func visible(e Entry, f Filter) bool {
	if e.UserID != "" && e.UserID != f.UserID {
		return false
	}
	if e.Jurisdiction != "" && f.Jurisdiction != "" && !strings.EqualFold(e.Jurisdiction, f.Jurisdiction) {
		return false
	}
	return true
}

func copyMetadata(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

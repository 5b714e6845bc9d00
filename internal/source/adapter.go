// Package source loads submissions from disk and derives their section spans.
package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/alegato/internal/model"
)

// Document is a loaded submission ready for analysis
type Document struct {
	Name   string
	Format string
	Text   string
	Spans  []model.Span // nil when no section could be recognized
}

// Adapter defines the interface for format-specific loaders
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle checks if this adapter can handle the given path/content type
	CanHandle(path string, contentType string) bool

	// Load reads the submission and derives its spans
	Load(r io.Reader, name string) (*Document, error)
}

// Registry manages format adapters
type Registry struct {
	adapters []Adapter
	generic  Adapter
}

// NewRegistry creates a new adapter registry
func NewRegistry() *Registry {
	registry := &Registry{
		adapters: make([]Adapter, 0),
	}

	// Register built-in adapters
	registry.Register(NewHTMLAdapter())

	// Plain text is the fallback
	registry.generic = NewTextAdapter()

	return registry
}

// Register registers a new adapter
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// FindAdapter finds the best adapter for the given path and content type
func (r *Registry) FindAdapter(path string, contentType string) Adapter {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(path, contentType) {
			return adapter
		}
	}
	return r.generic
}

// LoadFile opens path and loads it with the matching adapter
func (r *Registry) LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open submission: %w", err)
	}
	defer func() { _ = f.Close() }()

	adapter := r.FindAdapter(path, "")
	doc, err := adapter.Load(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("load %s with %s adapter: %w", path, adapter.Name(), err)
	}
	return doc, nil
}

// IsSupported reports whether path has an extension a registered adapter or the
// text fallback is meant for
func IsSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text", ".md", ".html", ".htm":
		return true
	}
	return false
}

// TextAdapter loads plain text and splits it on heading lines
type TextAdapter struct {
	maxBytes int64
}

// NewTextAdapter creates a new plain text adapter
func NewTextAdapter() *TextAdapter {
	return &TextAdapter{maxBytes: 10_000_000}
}

// Name returns the adapter name
func (a *TextAdapter) Name() string {
	return "text"
}

// CanHandle always returns true (fallback adapter)
func (a *TextAdapter) CanHandle(path string, contentType string) bool {
	return true
}

// Load reads the whole text and splits sections on heading lines
func (a *TextAdapter) Load(r io.Reader, name string) (*Document, error) {
	data, err := io.ReadAll(io.LimitReader(r, a.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return &Document{
		Name:   name,
		Format: a.Name(),
		Text:   text,
		Spans:  SplitSections(text),
	}, nil
}

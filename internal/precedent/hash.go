package precedent

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/ppiankov/alegato/internal/lexicon"
)

// DefaultHashDimensions is used when a HashEmbedder is built with no size
const DefaultHashDimensions = 256

// minTokenLen drops articles and most prepositions
const minTokenLen = 3

// HashEmbedder is a deterministic offline embedder: folded tokens are hashed
// into a fixed number of signed buckets and the result is L2-normalized.
type HashEmbedder struct {
	dims int
}

// NewHashEmbedder creates a hashing embedder with dims buckets
func NewHashEmbedder(dims int) *HashEmbedder {
	if dims <= 0 {
		dims = DefaultHashDimensions
	}
	return &HashEmbedder{dims: dims}
}

// Name identifies the embedder and its size in cache keys
func (e *HashEmbedder) Name() string {
	return fmt.Sprintf("hash-%d", e.dims)
}

// Embed never fails; empty texts map to the zero vector
func (e *HashEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = e.vector(text)
	}
	return out, nil
}

func (e *HashEmbedder) vector(text string) []float32 {
	v := make([]float32, e.dims)
	tokens := strings.FieldsFunc(lexicon.Fold(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	for _, tok := range tokens {
		if len(tok) < minTokenLen {
			continue
		}
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum32()
		idx := int(sum % uint32(e.dims))
		if sum&(1<<31) != 0 {
			v[idx]--
		} else {
			v[idx]++
		}
	}

	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v
}

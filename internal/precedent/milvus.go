package precedent

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/ppiankov/alegato/internal/model"
)

// vectorSearcher is the slice of client.Client the index uses
type vectorSearcher interface {
	Search(ctx context.Context, collName string, partitions []string, expr string, outputFields []string, vectors []entity.Vector, vectorField string, metricType entity.MetricType, topK int, sp entity.SearchParam, opts ...client.SearchQueryOptionFunc) ([]client.SearchResult, error)
	Close() error
}

// MilvusIndex searches precedents stored in a Milvus collection with a COSINE
// metric. Collection creation and loading happen outside this tool.
type MilvusIndex struct {
	searcher vectorSearcher
	cfg      model.MilvusConfig
}

// NewMilvusIndex connects to Milvus
func NewMilvusIndex(ctx context.Context, cfg model.MilvusConfig) (*MilvusIndex, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("milvus address is required")
	}
	if cfg.Collection == "" || cfg.VectorField == "" {
		return nil, fmt.Errorf("milvus collection and vector field are required")
	}

	c, err := client.NewClient(ctx, client.Config{
		Address:  cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
		DBName:   cfg.DBName,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to milvus at %s: %w", cfg.Address, err)
	}

	return newMilvusIndex(c, cfg), nil
}

func newMilvusIndex(searcher vectorSearcher, cfg model.MilvusConfig) *MilvusIndex {
	return &MilvusIndex{searcher: searcher, cfg: cfg}
}

// Close releases the connection
func (m *MilvusIndex) Close() error {
	return m.searcher.Close()
}

// Search runs one vector query restricted by the filter expression
func (m *MilvusIndex) Search(ctx context.Context, vector []float32, filter Filter, topK int) ([]Hit, error) {
	sp, err := entity.NewIndexFlatSearchParam()
	if err != nil {
		return nil, fmt.Errorf("milvus search param: %w", err)
	}

	outputFields := m.outputFields()
	results, err := m.searcher.Search(ctx, m.cfg.Collection, []string{}, m.filterExpr(filter), outputFields,
		[]entity.Vector{entity.FloatVector(vector)}, m.cfg.VectorField, entity.COSINE, topK, sp,
		client.WithSearchQueryConsistencyLevel(entity.ClBounded))
	if err != nil {
		return nil, fmt.Errorf("milvus search: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	res := results[0]
	if res.Err != nil {
		return nil, fmt.Errorf("milvus search: %w", res.Err)
	}

	hits := make([]Hit, 0, res.ResultCount)
	for j := 0; j < res.ResultCount && j < len(res.Scores); j++ {
		id, err := m.hitID(res, j)
		if err != nil {
			return nil, err
		}
		hits = append(hits, Hit{
			ID:       id,
			Score:    float64(res.Scores[j]),
			Metadata: m.hitMetadata(res, j),
		})
	}
	return hits, nil
}

func (m *MilvusIndex) outputFields() []string {
	fields := append([]string{}, m.cfg.MetadataFields...)
	if m.cfg.IDField != "" {
		fields = append(fields, m.cfg.IDField)
	}
	return fields
}

// filterExpr keeps shared precedents (empty owner) and the caller's own
func (m *MilvusIndex) filterExpr(f Filter) string {
	var parts []string
	if m.cfg.UserField != "" {
		parts = append(parts, fmt.Sprintf(`(%s == "" || %s == %s)`, m.cfg.UserField, m.cfg.UserField, strconv.Quote(f.UserID)))
	}
	if m.cfg.JurisdictionField != "" && f.Jurisdiction != "" {
		parts = append(parts, fmt.Sprintf(`(%s == "" || %s == %s)`, m.cfg.JurisdictionField, m.cfg.JurisdictionField, strconv.Quote(f.Jurisdiction)))
	}
	return strings.Join(parts, " && ")
}

// hitID prefers the configured id field and falls back to the primary key
func (m *MilvusIndex) hitID(res client.SearchResult, j int) (string, error) {
	if m.cfg.IDField != "" {
		if col := res.Fields.GetColumn(m.cfg.IDField); col != nil {
			if v, err := col.Get(j); err == nil {
				return fmt.Sprint(v), nil
			}
		}
	}
	if res.IDs == nil {
		return "", fmt.Errorf("milvus search: result %d has no id", j)
	}
	v, err := res.IDs.Get(j)
	if err != nil {
		return "", fmt.Errorf("milvus search: read id %d: %w", j, err)
	}
	return fmt.Sprint(v), nil
}

func (m *MilvusIndex) hitMetadata(res client.SearchResult, j int) map[string]string {
	var meta map[string]string
	for _, name := range m.cfg.MetadataFields {
		col := res.Fields.GetColumn(name)
		if col == nil {
			continue
		}
		v, err := col.Get(j)
		if err != nil {
			continue
		}
		if meta == nil {
			meta = make(map[string]string, len(m.cfg.MetadataFields))
		}
		meta[name] = fmt.Sprint(v)
	}
	return meta
}

package qdrant

import (
	"context"
	"fmt"
	"strconv"

	"github.com/barekit/shopqa/pkg/knowledge"
	"github.com/qdrant/go-client/qdrant"
)

// Config holds the connection settings for a Qdrant deployment.
type Config struct {
	Host           string
	Port           int
	APIKey         string
	UseTLS         bool
	CollectionName string
}

// QdrantIndex implements knowledge.VectorIndex using a Qdrant collection.
// Entry ids must be decimal integers; they become numeric point ids.
type QdrantIndex struct {
	client         *qdrant.Client
	collectionName string
}

// New creates a new QdrantIndex. It does not create the collection; the
// indexer does that through Exists and Create.
func New(cfg Config) (*QdrantIndex, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &QdrantIndex{
		client:         client,
		collectionName: cfg.CollectionName,
	}, nil
}

func (s *QdrantIndex) Exists(ctx context.Context) (bool, error) {
	exists, err := s.client.CollectionExists(ctx, s.collectionName)
	if err != nil {
		return false, fmt.Errorf("failed to check collection existence: %w", err)
	}
	return exists, nil
}

func (s *QdrantIndex) Create(ctx context.Context, spec knowledge.Spec) error {
	distance, err := distanceFor(spec.Metric)
	if err != nil {
		return err
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(spec.Dimension),
			Distance: distance,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

// Ready reports whether the collection status is green.
func (s *QdrantIndex) Ready(ctx context.Context) (bool, error) {
	info, err := s.client.GetCollectionInfo(ctx, s.collectionName)
	if err != nil {
		return false, fmt.Errorf("failed to get collection info: %w", err)
	}
	return info.GetStatus() == qdrant.CollectionStatus_Green, nil
}

func (s *QdrantIndex) Upsert(ctx context.Context, entries []knowledge.Entry) error {
	points := make([]*qdrant.PointStruct, len(entries))
	for i, entry := range entries {
		id, err := pointID(entry.ID)
		if err != nil {
			return err
		}

		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(id),
			Vectors: qdrant.NewVectors(entry.Vector...),
			Payload: toPayload(entry.Metadata),
		}
	}

	wait := true
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collectionName,
		Points:         points,
		Wait:           &wait,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}
	return nil
}

func (s *QdrantIndex) Query(ctx context.Context, vector []float32, topK int) ([]knowledge.Match, error) {
	limit := uint64(topK)
	res, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query points: %w", err)
	}

	matches := make([]knowledge.Match, len(res))
	for i, hit := range res {
		matches[i] = knowledge.Match{
			ID:       strconv.FormatUint(hit.GetId().GetNum(), 10),
			Score:    hit.GetScore(),
			Metadata: fromPayload(hit.GetPayload()),
		}
	}

	return matches, nil
}

func (s *QdrantIndex) Close() error {
	return s.client.Close()
}

func distanceFor(m knowledge.Metric) (qdrant.Distance, error) {
	switch m {
	case knowledge.MetricCosine, "":
		return qdrant.Distance_Cosine, nil
	case knowledge.MetricDotProduct:
		return qdrant.Distance_Dot, nil
	case knowledge.MetricEuclidean:
		return qdrant.Distance_Euclid, nil
	default:
		return 0, fmt.Errorf("unsupported metric: %s", m)
	}
}

func pointID(id string) (uint64, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("entry id %q is not a numeric point id: %w", id, err)
	}
	return n, nil
}

func toPayload(metadata map[string]string) map[string]*qdrant.Value {
	payload := make(map[string]*qdrant.Value, len(metadata))
	for k, v := range metadata {
		payload[k] = qdrant.NewValueString(v)
	}
	return payload
}

// Non-string payload values written by other tools are skipped.
func fromPayload(payload map[string]*qdrant.Value) map[string]string {
	metadata := make(map[string]string, len(payload))
	for k, v := range payload {
		if s, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
			metadata[k] = s.StringValue
		}
	}
	return metadata
}

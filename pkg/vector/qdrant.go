package vector

import (
	"context"
	"fmt"

	qdrantclient "github.com/qdrant/go-client/qdrant"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Payload field names in Qdrant
const (
	fieldPath    = "path"
	fieldContent = "content"
)

// QdrantStore is a Store backed by a Qdrant server over gRPC
type QdrantStore struct {
	conn        *grpc.ClientConn
	collections qdrantclient.CollectionsClient
	points      qdrantclient.PointsClient
}

// DialQdrant connects to the Qdrant gRPC endpoint at addr (host:port)
func DialQdrant(addr string) (*QdrantStore, error) {
	if addr == "" {
		addr = "localhost:6334"
	}

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Qdrant at %s: %w", addr, err)
	}

	store := NewQdrantStore(qdrantclient.NewCollectionsClient(conn), qdrantclient.NewPointsClient(conn))
	store.conn = conn
	return store, nil
}

// NewQdrantStore wraps existing Qdrant clients
func NewQdrantStore(collections qdrantclient.CollectionsClient, points qdrantclient.PointsClient) *QdrantStore {
	return &QdrantStore{collections: collections, points: points}
}

// HasCollection reports whether the named collection exists
func (s *QdrantStore) HasCollection(ctx context.Context, name string) (bool, error) {
	resp, err := s.collections.List(ctx, &qdrantclient.ListCollectionsRequest{})
	if err != nil {
		return false, fmt.Errorf("failed to list collections: %w", err)
	}

	for _, col := range resp.GetCollections() {
		if col.GetName() == name {
			return true, nil
		}
	}
	return false, nil
}

// EnsureCollection creates the collection with cosine distance if it does not exist
func (s *QdrantStore) EnsureCollection(ctx context.Context, name string, dimension int, recreate bool) error {
	exists, err := s.HasCollection(ctx, name)
	if err != nil {
		return err
	}

	if exists && recreate {
		logrus.WithField("collection", name).Info("Deleting existing collection")
		if _, err := s.collections.Delete(ctx, &qdrantclient.DeleteCollection{CollectionName: name}); err != nil {
			return fmt.Errorf("failed to delete collection %s: %w", name, err)
		}
		exists = false
	}

	if exists {
		return nil
	}

	logrus.WithFields(logrus.Fields{"collection": name, "dimension": dimension}).Info("Creating collection")
	_, err = s.collections.Create(ctx, &qdrantclient.CreateCollection{
		CollectionName: name,
		VectorsConfig: &qdrantclient.VectorsConfig{
			Config: &qdrantclient.VectorsConfig_Params{
				Params: &qdrantclient.VectorParams{
					Size:     uint64(dimension),
					Distance: qdrantclient.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %s: %w", name, err)
	}
	return nil
}

// Upsert writes points and waits for Qdrant to apply them
func (s *QdrantStore) Upsert(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	structs := make([]*qdrantclient.PointStruct, 0, len(points))
	for _, p := range points {
		structs = append(structs, &qdrantclient.PointStruct{
			Id: &qdrantclient.PointId{
				PointIdOptions: &qdrantclient.PointId_Uuid{Uuid: p.ID},
			},
			Vectors: &qdrantclient.Vectors{
				VectorsOptions: &qdrantclient.Vectors_Vector{
					Vector: &qdrantclient.Vector{Data: p.Vector},
				},
			},
			Payload: map[string]*qdrantclient.Value{
				fieldPath:    {Kind: &qdrantclient.Value_StringValue{StringValue: p.Payload.Path}},
				fieldContent: {Kind: &qdrantclient.Value_StringValue{StringValue: p.Payload.Content}},
			},
		})
	}

	wait := true
	_, err := s.points.Upsert(ctx, &qdrantclient.UpsertPoints{
		CollectionName: collection,
		Wait:           &wait,
		Points:         structs,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert %d points into %s: %w", len(points), collection, err)
	}
	return nil
}

// Search finds the nearest points in a collection
func (s *QdrantStore) Search(ctx context.Context, collection string, queryVector []float32, limit int) ([]Hit, error) {
	resp, err := s.points.Search(ctx, &qdrantclient.SearchPoints{
		CollectionName: collection,
		Vector:         queryVector,
		Limit:          uint64(limit),
		WithPayload: &qdrantclient.WithPayloadSelector{
			SelectorOptions: &qdrantclient.WithPayloadSelector_Include{
				Include: &qdrantclient.PayloadIncludeSelector{
					Fields: []string{fieldPath, fieldContent},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search in %s: %w", collection, err)
	}

	hits := make([]Hit, 0, len(resp.GetResult()))
	for _, point := range resp.GetResult() {
		hit := Hit{
			ID:    point.GetId().GetUuid(),
			Score: point.GetScore(),
		}
		if v, ok := point.GetPayload()[fieldPath]; ok {
			hit.Payload.Path = v.GetStringValue()
		}
		if v, ok := point.GetPayload()[fieldContent]; ok {
			hit.Payload.Content = v.GetStringValue()
		}
		hits = append(hits, hit)
	}

	logrus.WithFields(logrus.Fields{"collection": collection, "hits": len(hits)}).Debug("Qdrant search complete")
	return hits, nil
}

// Close closes the gRPC connection
func (s *QdrantStore) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

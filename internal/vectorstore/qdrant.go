package vectorstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"market-octopus/internal/contextutil"
)

// QdrantStore implements VectorStore using Qdrant, one collection per namespace.
type QdrantStore struct {
	client *qdrant.Client
}

// NewQdrantStore creates a new Qdrant vector store client.
// urlStr should be in the format "http://host:port" (e.g., "http://localhost:6333").
// The gRPC port is derived from the HTTP port.
func NewQdrantStore(urlStr string) (*QdrantStore, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		host = "localhost"
	}

	port := 6334 // default gRPC port
	if parsedURL.Port() != "" {
		httpPort, err := strconv.Atoi(parsedURL.Port())
		if err == nil {
			// gRPC port is typically HTTP port + 1
			port = httpPort + 1
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	return &QdrantStore{client: client}, nil
}

// Query performs a similarity search within a namespace with optional filters.
func (s *QdrantStore) Query(ctx context.Context, namespace string, vector []float32, topK int, filter Filter) ([]QueryResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if topK <= 0 {
		return nil, fmt.Errorf("topK must be greater than 0")
	}

	var qdrantFilter *qdrant.Filter
	var mustConditions []*qdrant.Condition
	if len(filter.CategoryIn) > 0 {
		mustConditions = append(mustConditions, qdrant.NewMatchKeywords("category", filter.CategoryIn...))
	}
	if len(filter.IDIn) > 0 {
		mustConditions = append(mustConditions, qdrant.NewMatchKeywords("id", filter.IDIn...))
	}
	if len(mustConditions) > 0 {
		qdrantFilter = &qdrant.Filter{Must: mustConditions}
	}

	limit := uint64(topK)
	queryReq := &qdrant.QueryPoints{
		CollectionName: namespace,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if qdrantFilter != nil {
		queryReq.Filter = qdrantFilter
	}

	scoredPoints, err := s.client.Query(ctx, queryReq)
	if err != nil {
		logger.ErrorContext(ctx, "vector query failed", "namespace", namespace, "top_k", topK, "error", err)
		return nil, fmt.Errorf("failed to query namespace %s: %w", namespace, err)
	}

	results := make([]QueryResult, 0, len(scoredPoints))
	for _, point := range scoredPoints {
		pointID := pointIDString(point.Id)
		meta := make(map[string]any)
		if point.Payload != nil {
			meta = convertPayloadToMap(point.Payload)
		}
		results = append(results, QueryResult{
			PointID: pointID,
			Score:   point.Score,
			Meta:    meta,
		})
	}

	logger.DebugContext(ctx, "vector query completed", "namespace", namespace, "top_k", topK, "results", len(results))
	return results, nil
}

// pointIDString renders a qdrant point id, which is either a uuid or an
// unsigned integer.
func pointIDString(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}
	if uuid := id.GetUuid(); uuid != "" {
		return uuid
	}
	return strconv.FormatUint(id.GetNum(), 10)
}

// convertPayloadToMap converts Qdrant payload to map[string]any.
func convertPayloadToMap(payload map[string]*qdrant.Value) map[string]any {
	result := make(map[string]any, len(payload))
	for k, v := range payload {
		if v == nil {
			continue
		}
		result[k] = convertValue(v)
	}
	return result
}

// convertValue converts a Qdrant Value to a Go any type.
func convertValue(v *qdrant.Value) any {
	switch val := v.Kind.(type) {
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_ListValue:
		list := make([]any, len(val.ListValue.Values))
		for i, item := range val.ListValue.Values {
			list[i] = convertValue(item)
		}
		return list
	case *qdrant.Value_StructValue:
		return convertPayloadToMap(val.StructValue.Fields)
	default:
		return nil
	}
}

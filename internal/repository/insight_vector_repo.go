package repository

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

const defaultVectorDimension = 1536

// QdrantConnectionConfig holds configuration for the insight archive collection.
type QdrantConnectionConfig struct {
	Host            string
	Port            int
	Collection      string
	APIKey          string // Qdrant Cloud API key, implies TLS
	UseTLS          bool
	VectorDimension int
}

func apiKeyInterceptor(apiKey string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		ctx = metadata.AppendToOutgoingContext(ctx, "api-key", apiKey)
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// InsightVectorRepository stores embedded insights in Qdrant.
type InsightVectorRepository struct {
	conn            *grpc.ClientConn
	points          pb.PointsClient
	collections     pb.CollectionsClient
	collection      string
	vectorDimension int
}

// NewInsightVectorRepository dials Qdrant. Local instances are reached without TLS,
// Qdrant Cloud with TLS and the api-key header.
func NewInsightVectorRepository(cfg *QdrantConnectionConfig) (*InsightVectorRepository, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	dim := cfg.VectorDimension
	if dim <= 0 {
		dim = defaultVectorDimension
	}

	var opts []grpc.DialOption
	if cfg.UseTLS || cfg.APIKey != "" {
		opts = append(opts, grpc.WithTransportCredentials(credentials.NewTLS(&tls.Config{
			MinVersion: tls.VersionTLS13,
		})))
		if cfg.APIKey != "" {
			opts = append(opts, grpc.WithUnaryInterceptor(apiKeyInterceptor(cfg.APIKey)))
		}
	} else {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to qdrant: %w", err)
	}

	return &InsightVectorRepository{
		conn:            conn,
		points:          pb.NewPointsClient(conn),
		collections:     pb.NewCollectionsClient(conn),
		collection:      cfg.Collection,
		vectorDimension: dim,
	}, nil
}

// Close closes the gRPC connection.
func (r *InsightVectorRepository) Close() error {
	return r.conn.Close()
}

// EnsureCollection creates the archive collection and its payload indexes
// if missing, and checks the vector size of an existing one.
func (r *InsightVectorRepository) EnsureCollection(ctx context.Context) error {
	info, err := r.collections.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: r.collection,
	})
	if err == nil {
		if size, ok := collectionVectorSize(info.GetResult()); ok && size != uint64(r.vectorDimension) {
			return fmt.Errorf("collection %s has vector size %d, expected %d", r.collection, size, r.vectorDimension)
		}
		return nil
	}

	_, err = r.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: r.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(r.vectorDimension),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	keyword := pb.FieldType_FieldTypeKeyword
	for _, field := range []string{"sign", "language", "day"} {
		_, err := r.points.CreateFieldIndex(ctx, &pb.CreateFieldIndexCollection{
			CollectionName: r.collection,
			FieldName:      field,
			FieldType:      &keyword,
		})
		if err != nil {
			return fmt.Errorf("failed to index payload field %s: %w", field, err)
		}
	}

	return nil
}

func collectionVectorSize(info *pb.CollectionInfo) (uint64, bool) {
	vectors := info.GetConfig().GetParams().GetVectorsConfig()
	if vectors == nil {
		return 0, false
	}
	if single := vectors.GetParams(); single != nil && single.GetSize() > 0 {
		return single.GetSize(), true
	}
	for _, params := range vectors.GetParamsMap().GetMap() {
		if params.GetSize() > 0 {
			return params.GetSize(), true
		}
	}
	return 0, false
}

// InsightPayload is stored alongside each archived vector.
type InsightPayload struct {
	Sign     string `json:"sign"`
	Language string `json:"language"`
	Day      string `json:"day"`
	Insight  string `json:"insight"`
	Outcome  string `json:"outcome"`
}

// Upsert inserts or replaces the point with the given UUID.
func (r *InsightVectorRepository) Upsert(ctx context.Context, pointID string, vector []float32, payload *InsightPayload) error {
	uid, err := uuid.Parse(pointID)
	if err != nil {
		return fmt.Errorf("invalid point ID: %w", err)
	}

	_, err = r.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: r.collection,
		Points: []*pb.PointStruct{
			{
				Id: &pb.PointId{
					PointIdOptions: &pb.PointId_Uuid{Uuid: uid.String()},
				},
				Vectors: &pb.Vectors{
					VectorsOptions: &pb.Vectors_Vector{
						Vector: &pb.Vector{Data: vector},
					},
				},
				Payload: payloadToValues(payload),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}
	return nil
}

func stringValue(s string) *pb.Value {
	return &pb.Value{Kind: &pb.Value_StringValue{StringValue: s}}
}

func payloadToValues(p *InsightPayload) map[string]*pb.Value {
	return map[string]*pb.Value{
		"sign":     stringValue(p.Sign),
		"language": stringValue(p.Language),
		"day":      stringValue(p.Day),
		"insight":  stringValue(p.Insight),
		"outcome":  stringValue(p.Outcome),
	}
}

// VectorSearchResult is one scored archive hit.
type VectorSearchResult struct {
	ID      string
	Score   float32
	Payload *InsightPayload
}

// VectorSearchFilters restricts a search to exact payload values. Empty fields are ignored.
type VectorSearchFilters struct {
	Sign     string
	Language string
	Day      string
}

// Search performs a filtered cosine similarity search.
func (r *InsightVectorRepository) Search(ctx context.Context, vector []float32, limit int, filters *VectorSearchFilters) ([]VectorSearchResult, error) {
	req := &pb.SearchPoints{
		CollectionName: r.collection,
		Vector:         vector,
		Limit:          uint64(limit),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
		Filter: buildFilter(filters),
	}

	resp, err := r.points.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]VectorSearchResult, len(resp.GetResult()))
	for i, scored := range resp.GetResult() {
		results[i] = VectorSearchResult{
			ID:      scored.GetId().GetUuid(),
			Score:   scored.GetScore(),
			Payload: parsePayload(scored.GetPayload()),
		}
	}
	return results, nil
}

func keywordCondition(key, value string) *pb.Condition {
	return &pb.Condition{
		ConditionOneOf: &pb.Condition_Field{
			Field: &pb.FieldCondition{
				Key: key,
				Match: &pb.Match{
					MatchValue: &pb.Match_Keyword{Keyword: value},
				},
			},
		},
	}
}

func buildFilter(filters *VectorSearchFilters) *pb.Filter {
	if filters == nil {
		return nil
	}

	var conditions []*pb.Condition
	if filters.Sign != "" {
		conditions = append(conditions, keywordCondition("sign", filters.Sign))
	}
	if filters.Language != "" {
		conditions = append(conditions, keywordCondition("language", filters.Language))
	}
	if filters.Day != "" {
		conditions = append(conditions, keywordCondition("day", filters.Day))
	}

	if len(conditions) == 0 {
		return nil
	}
	return &pb.Filter{Must: conditions}
}

func parsePayload(payload map[string]*pb.Value) *InsightPayload {
	if payload == nil {
		return nil
	}
	return &InsightPayload{
		Sign:     payload["sign"].GetStringValue(),
		Language: payload["language"].GetStringValue(),
		Day:      payload["day"].GetStringValue(),
		Insight:  payload["insight"].GetStringValue(),
		Outcome:  payload["outcome"].GetStringValue(),
	}
}

// DeleteDay removes every archived point of one day.
func (r *InsightVectorRepository) DeleteDay(ctx context.Context, day string) error {
	_, err := r.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: r.collection,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Filter{
				Filter: &pb.Filter{Must: []*pb.Condition{keywordCondition("day", day)}},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete points of %s: %w", day, err)
	}
	return nil
}

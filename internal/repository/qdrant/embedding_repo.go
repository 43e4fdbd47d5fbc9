package qdrant

import (
	"context"

	"github.com/DRSN-tech/roomscan-backend/internal/cfg"
	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/DRSN-tech/roomscan-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"
)

// EmbeddingRepo репозиторий эмбеддингов товаров в Qdrant. ID точки совпадает с ID товара.
type EmbeddingRepo struct {
	client *qdrant.Client
	cfg    *cfg.QdrantCfg
}

func NewEmbeddingRepo(client *qdrant.Client, cfg *cfg.QdrantCfg) *EmbeddingRepo {
	return &EmbeddingRepo{
		client: client,
		cfg:    cfg,
	}
}

// Upsert сохраняет или обновляет эмбеддинги товаров.
func (q *EmbeddingRepo) Upsert(ctx context.Context, embeddings []domain.Embedding) error {
	points := make([]*qdrant.PointStruct, 0, len(embeddings))
	for _, emb := range embeddings {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(emb.ID),
			Vectors: qdrant.NewVectors(emb.Vector...),
			Payload: qdrant.NewValueMap(emb.Payload),
		})
	}

	wait := true
	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.cfg.QdrantCollectionName,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// GetVectors возвращает векторы товаров по ID. Товары без точки в коллекции в результат не попадают.
func (q *EmbeddingRepo) GetVectors(ctx context.Context, productIDs []string) (map[string]domain.Vector, error) {
	res := make(map[string]domain.Vector, len(productIDs))
	if len(productIDs) == 0 {
		return res, nil
	}

	ids := make([]*qdrant.PointId, 0, len(productIDs))
	for _, id := range productIDs {
		ids = append(ids, qdrant.NewIDUUID(id))
	}

	points, err := q.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: q.cfg.QdrantCollectionName,
		Ids:            ids,
		WithPayload:    qdrant.NewWithPayload(false),
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	for _, p := range points {
		vector := pointVector(p)
		if len(vector) == 0 {
			continue
		}
		res[p.GetId().GetUuid()] = vector
	}

	return res, nil
}

func pointVector(p *qdrant.RetrievedPoint) domain.Vector {
	v := p.GetVectors().GetVector()
	if dense := v.GetDense(); dense != nil {
		return dense.GetData()
	}

	return v.GetData()
}

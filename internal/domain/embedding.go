package domain

import "time"

// Vector представляет эмбеддинг фиксированной длины.
type Vector []float32

// Dimension возвращает длину вектора.
func (v Vector) Dimension() int {
	return len(v)
}

// Payload описывает дополнительную информацию вектора
type Payload map[string]any

// Embedding представляет эмбеддинг товара в векторном хранилище
type Embedding struct {
	ID      string // совпадает с ID товара
	Vector  Vector
	Payload Payload
}

func NewEmbedding(id string, vector Vector, payload Payload) *Embedding {
	return &Embedding{
		ID:      id,
		Vector:  vector,
		Payload: payload,
	}
}

func NewPayload(productID string, category string, modelVersion string) Payload {
	return Payload{
		"product_id":    productID,
		"category":      category,
		"created_at":    time.Now().UTC().UnixNano(),
		"model_version": modelVersion,
	}
}

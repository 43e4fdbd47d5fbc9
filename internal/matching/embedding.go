// Package matching содержит чистое ядро подбора товаров: генерацию эмбеддингов,
// косинусное сходство, отбор кандидатов и ранжирование с бюджетной альтернативой.
package matching

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/DRSN-tech/roomscan-backend/pkg/e"
)

// ModelVersion идентифицирует алгоритм генерации эмбеддингов.
// Меняется при любом изменении GenerateEmbedding, чтобы не смешивать несовместимые векторы.
const ModelVersion = "stub-md5-pcg-v1"

// GenerateEmbedding строит детерминированный псевдо-эмбеддинг текста.
// Одинаковый текст и размерность всегда дают один и тот же вектор.
func GenerateEmbedding(text string, dimension int) (domain.Vector, error) {
	const op = "matching.GenerateEmbedding"

	if dimension < 0 {
		return nil, e.Wrap(op, fmt.Errorf("dimension %d: %w", dimension, e.ErrInvalidArgument))
	}

	rng := rand.New(rand.NewPCG(uint64(textSeed(text)), 0))

	raw := make([]float64, dimension)
	var sum float64
	for i := range raw {
		raw[i] = rng.NormFloat64()
		sum += raw[i] * raw[i]
	}

	norm := math.Sqrt(sum)
	vector := make(domain.Vector, dimension)
	for i, v := range raw {
		// нулевая норма: возвращаем вектор без нормализации
		if norm == 0 {
			vector[i] = float32(v)
			continue
		}
		vector[i] = float32(v / norm)
	}

	return vector, nil
}

// textSeed берёт первые 4 байта md5 от UTF-8 представления текста.
func textSeed(text string) uint32 {
	sum := md5.Sum([]byte(text))
	return binary.BigEndian.Uint32(sum[:4])
}

// Embedder превращает текст в вектор.
type Embedder interface {
	Embed(text string) (domain.Vector, error)
}

// Generator реализует Embedder поверх GenerateEmbedding с фиксированной размерностью.
type Generator struct {
	dimension int
}

func NewGenerator(dimension int) *Generator {
	return &Generator{dimension: dimension}
}

func (g *Generator) Embed(text string) (domain.Vector, error) {
	return GenerateEmbedding(text, g.dimension)
}

// Dimension возвращает размерность генерируемых векторов.
func (g *Generator) Dimension() int {
	return g.dimension
}

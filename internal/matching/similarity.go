package matching

import (
	"fmt"
	"math"

	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/DRSN-tech/roomscan-backend/pkg/e"
)

// CosineSimilarity возвращает косинусное сходство векторов в [-1, 1] без ограничения диапазона.
// Для пустого вектора или вектора с нулевой нормой результат 0.
// Для векторов разной длины возвращается e.ErrDimensionMismatch.
func CosineSimilarity(a, b domain.Vector) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, nil
	}

	if len(a) != len(b) {
		return 0, fmt.Errorf("%d != %d: %w", len(a), len(b), e.ErrDimensionMismatch)
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Norm возвращает евклидову норму вектора.
func Norm(v domain.Vector) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}

	return math.Sqrt(sum)
}

package domain

import "math"

// Candidate связывает товар с его оценкой сходства с предметом.
type Candidate struct {
	Product         Product
	SimilarityScore float64
}

func NewCandidate(product Product, score float64) Candidate {
	return Candidate{
		Product:         product,
		SimilarityScore: score,
	}
}

// RankedMatch хранит кандидата с присвоенным рангом.
// Ранг 1..TopTier у обычных совпадений, бюджетная альтернатива всегда идёт следующей за ними.
type RankedMatch struct {
	Candidate
	Rank                int
	IsBudgetAlternative bool
	// оценка сходства, округлённая до трёх знаков
	DisplayScore float64
}

func NewRankedMatch(c Candidate, rank int, budget bool) RankedMatch {
	return RankedMatch{
		Candidate:           c,
		Rank:                rank,
		IsBudgetAlternative: budget,
		DisplayScore:        RoundScore(c.SimilarityScore),
	}
}

// RoundScore округляет оценку до трёх знаков после запятой.
func RoundScore(score float64) float64 {
	return math.Round(score*1000) / 1000
}

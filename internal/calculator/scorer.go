// Package calculator is the weighted-scoring engine that consumes parsed
// race records and produces a ranked prediction per horse. It reads
// structured records only — never raw pasted text.
package calculator

import (
	"math"
	"sort"

	"github.com/keibalab/keibanote/internal/pkg/config"
	"github.com/keibalab/keibanote/internal/pkg/models"
	"github.com/keibalab/keibanote/internal/pkg/storage"
)

// Prediction is one horse's scored ranking within a race.
type Prediction struct {
	Rank        int     `json:"rank"`
	HorseNumber int     `json:"horse_number"`
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	WinOdds     float64 `json:"win_odds,omitempty"`
}

// Scorer blends per-horse factor scores using the configured weights.
type Scorer struct {
	weights config.ScoringConfig
}

// NewScorer creates a scorer with the given weights.
func NewScorer(weights config.ScoringConfig) *Scorer {
	return &Scorer{weights: weights}
}

// Score ranks every horse of a stored race. The result is deterministic
// for a fixed race and weights: ties are broken by horse number.
func (s *Scorer) Score(race *storage.StoredRace) []Prediction {
	if race == nil || len(race.Horses) == 0 {
		return nil
	}

	oddsByNumber := make(map[int]float64, len(race.Odds))
	for _, o := range race.Odds {
		oddsByNumber[o.HorseNumber] = o.WinOdds
	}

	wOdds, wAge, wWeight := s.normalizedWeights()
	minW, maxW := weightRange(race.Horses)

	preds := make([]Prediction, 0, len(race.Horses))
	for _, h := range race.Horses {
		odds := oddsByNumber[h.Number]
		score := wOdds*oddsScore(odds) + wAge*ageScore(h.Age) + wWeight*weightScore(h.WeightKg, minW, maxW)
		preds = append(preds, Prediction{
			HorseNumber: h.Number,
			Name:        h.Name,
			Score:       score,
			WinOdds:     odds,
		})
	}

	sort.Slice(preds, func(i, j int) bool {
		if preds[i].Score != preds[j].Score {
			return preds[i].Score > preds[j].Score
		}
		return preds[i].HorseNumber < preds[j].HorseNumber
	})
	for i := range preds {
		preds[i].Rank = i + 1
	}
	return preds
}

func (s *Scorer) normalizedWeights() (odds, age, weight float64) {
	total := s.weights.OddsWeight + s.weights.AgeWeight + s.weights.WeightWeight
	if total <= 0 {
		// degenerate config, fall back to odds only
		return 1, 0, 0
	}
	return s.weights.OddsWeight / total, s.weights.AgeWeight / total, s.weights.WeightWeight / total
}

// oddsScore maps win odds to the market's implied win probability. A horse
// without odds scores zero for this factor.
func oddsScore(winOdds float64) float64 {
	if winOdds < 1.0 {
		return 0
	}
	return 1.0 / winOdds
}

// ageScore peaks at the statistical prime of 4-5 years and falls off
// linearly toward the 2..10 bounds.
func ageScore(age int) float64 {
	if age <= 0 {
		return 0
	}
	score := 1.0 - math.Abs(float64(age)-4.5)/4.0
	if score < 0 {
		return 0
	}
	return score
}

// weightScore favors a lighter assigned weight relative to the field.
func weightScore(kg, minW, maxW float64) float64 {
	if kg <= 0 || maxW <= minW {
		return 0.5
	}
	return (maxW - kg) / (maxW - minW)
}

func weightRange(horses []models.HorseRecord) (minW, maxW float64) {
	for _, h := range horses {
		if h.WeightKg <= 0 {
			continue
		}
		if minW == 0 || h.WeightKg < minW {
			minW = h.WeightKg
		}
		if h.WeightKg > maxW {
			maxW = h.WeightKg
		}
	}
	return minW, maxW
}

package allocengine

import (
	"context"
	"sort"
	"time"
)

// Weights are the soft-scoring factor weights (spec §4.3); defaults match the spec's examples of
// gender, slot and load factors contributing on comparable but not equal terms.
type Weights struct {
	GenderMatch float64
	SlotMatch   float64
	InverseLoad float64
}

// DefaultWeights returns the engine's default soft-scoring weights.
func DefaultWeights() Weights {
	return Weights{GenderMatch: 0.2, SlotMatch: 0.3, InverseLoad: 0.5}
}

type candidate struct {
	trainer Trainer
	score   float64
}

// SelectTrainer runs the hard-filter-then-soft-score pipeline of spec §4.3 and returns the chosen
// trainer, or ok=false if no trainer survives the hard filters.
func (e *Engine) SelectTrainer(ctx context.Context, student Student, course Course, dates []time.Time, slot string) (Trainer, bool, error) {
	pool, err := e.Store.EligibleTrainers(ctx, course)
	if err != nil {
		return Trainer{}, false, err
	}

	var survivors []Trainer

	for _, t := range pool {
		if !hasAllSpecialties(t.Specialties, course.Specialties) {
			continue
		}

		if t.ApprovalStatus != "approved" {
			continue
		}

		atCapacity := false

		for _, d := range dates {
			count, err := e.Store.CountTrainerSessionsOnDate(ctx, t.ID, d)
			if err != nil {
				return Trainer{}, false, err
			}

			if count >= maxDailyCapacity {
				atCapacity = true
				break
			}
		}

		if atCapacity {
			continue
		}

		if HaversineKM(student.Home, t.Base) > student.Zone.RadiusKM() {
			continue
		}

		survivors = append(survivors, t)
	}

	if len(survivors) == 0 {
		return Trainer{}, false, nil
	}

	weights := e.Weights

	candidates := make([]candidate, 0, len(survivors))

	for _, t := range survivors {
		score, err := e.score(ctx, student, t, slot, weights)
		if err != nil {
			return Trainer{}, false, err
		}

		candidates = append(candidates, candidate{trainer: t, score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}

		return candidates[i].trainer.ApprovedAt.Before(candidates[j].trainer.ApprovedAt)
	})

	return candidates[0].trainer, true, nil
}

func (e *Engine) score(ctx context.Context, student Student, trainer Trainer, slot string, weights Weights) (float64, error) {
	var score float64

	if student.GenderPreference != "" && student.GenderPreference == trainer.Gender {
		score += weights.GenderMatch
	}

	if slot != "" {
		available, err := e.Store.HasSlotAvailable(ctx, trainer.ID, slot)
		if err != nil {
			return 0, err
		}

		if available {
			score += weights.SlotMatch
		}
	}

	workload, err := e.Store.CountActiveWorkload(ctx, trainer.ID)
	if err != nil {
		return 0, err
	}

	score += weights.InverseLoad * (1.0 / float64(1+workload))

	return score, nil
}

func hasAllSpecialties(trainerSpecialties, required []string) bool {
	if len(required) == 0 {
		return true
	}

	set := make(map[string]struct{}, len(trainerSpecialties))
	for _, s := range trainerSpecialties {
		set[s] = struct{}{}
	}

	for _, r := range required {
		if _, ok := set[r]; !ok {
			return false
		}
	}

	return true
}

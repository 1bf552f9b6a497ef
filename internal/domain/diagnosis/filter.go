// Package diagnosis narrows the hobby catalog to what fits a mood diagnosis.
package diagnosis

import "github.com/okian/hobbyseeds/internal/domain/model"

// allowedEnergies is a sliding window: low users never see high-energy
// hobbies and high users never see low-energy ones.
var allowedEnergies = map[model.Energy][]model.Energy{
	model.EnergyLow:    {model.EnergyLow},
	model.EnergyMedium: {model.EnergyLow, model.EnergyMedium},
	model.EnergyHigh:   {model.EnergyMedium, model.EnergyHigh},
}

// allowedCategories maps a disposition to the categories it admits.
// learning, routine-care and playful are admitted by both.
var allowedCategories = map[model.Activity][]model.Category{
	model.ActivityPassive: {
		model.CategoryContemplative,
		model.CategoryAuditory,
		model.CategoryLearning,
		model.CategoryRoutineCare,
		model.CategoryPlayful,
	},
	model.ActivityActive: {
		model.CategoryCreative,
		model.CategoryActive,
		model.CategoryLearning,
		model.CategoryRoutineCare,
		model.CategoryPlayful,
	},
}

// AllowedEnergies returns the hobby energy levels admitted for a user energy.
func AllowedEnergies(e model.Energy) []model.Energy {
	return append([]model.Energy(nil), allowedEnergies[e]...)
}

// AllowedCategories returns the categories admitted for a disposition.
func AllowedCategories(a model.Activity) []model.Category {
	return append([]model.Category(nil), allowedCategories[a]...)
}

// Filter returns the hobbies compatible with answer, in catalog order.
// The input is not modified. No match yields an empty, non-nil slice.
func Filter(hobbies []model.Hobby, answer model.DiagnosisAnswer) []model.Hobby {
	energies := allowedEnergies[answer.Energy]
	categories := allowedCategories[answer.Activity]

	out := make([]model.Hobby, 0, len(hobbies))
	for _, h := range hobbies {
		if !contains(energies, h.Energy) {
			continue
		}
		if !answer.GoOut && !h.Indoor {
			continue
		}
		if !contains(categories, h.Category) {
			continue
		}
		out = append(out, h)
	}
	return out
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

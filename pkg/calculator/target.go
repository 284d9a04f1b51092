package calculator

import "sales-ams/pkg/models"

// TargetQty = ams × (1 + pct/100). Une baisse qui rendrait la cible négative est ramenée à 0
// (clamped = true) au lieu de lever une erreur.
func TargetQty(ams, pct float64) (qty float64, clamped bool) {
	qty = ams * (1 + pct/100)
	if qty < 0 {
		return 0, true
	}
	return qty, false
}

// ComputeTarget dérive la cible d'un résultat AMS (FinalAMS).
func ComputeTarget(r models.AMSResult, pct float64) models.TargetResult {
	qty, clamped := TargetQty(r.FinalAMS, pct)
	return models.TargetResult{
		Key:             r.Key,
		AMS:             r.FinalAMS,
		PercentIncrease: pct,
		TargetQty:       qty,
		Clamped:         clamped,
	}
}

// ComputeTargets applique le même pourcentage à chaque résultat, dans l'ordre reçu.
func ComputeTargets(results []models.AMSResult, pct float64) []models.TargetResult {
	out := make([]models.TargetResult, len(results))
	for i, r := range results {
		out[i] = ComputeTarget(r, pct)
	}
	return out
}

package calculator

import (
	"sales-ams/pkg/models"
	"sales-ams/pkg/period"
)

// AMSParams règle la fenêtre et le seuil de rupture.
type AMSParams struct {
	WindowMonths     int
	ExclusionPercent float64
}

// DefaultAMSParams : 6 mois, seuil à 20 % de l'AMS initial.
func DefaultAMSParams() AMSParams {
	return AMSParams{WindowMonths: models.DefaultWindowMonths, ExclusionPercent: models.DefaultExclusionPercent}
}

// ComputeAMS calcule l'AMS robuste d'une série au regard de la période de référence ref.
//
//  1. fenêtre = WindowMonths mois finissant à la dernière période observée ≤ ref
//     (sans remonter avant la première période de la série) ; un mois sans vente compte pour 0 ;
//  2. InitialAMS = moyenne de la fenêtre ;
//  3. seuil = ExclusionPercent % × InitialAMS, calculé une seule fois ;
//  4. mois exclus = quantité strictement sous le seuil ;
//  5. FinalAMS = moyenne des mois restants, ou InitialAMS si tout serait exclu.
func ComputeAMS(s models.TimeSeries, ref models.Period, params AMSParams) models.AMSResult {
	if params.WindowMonths < 1 {
		params.WindowMonths = models.DefaultWindowMonths
	}
	res := models.AMSResult{Key: s.Key}

	anchor, ok := s.LatestAtOrBefore(ref)
	if !ok {
		// aucune période exploitable : AMS nul, pas d'exclusion
		res.InsufficientHistory = true
		return res
	}
	first, _ := s.First()
	window := period.Trailing(anchor, first, params.WindowMonths)

	res.Anchor = anchor
	res.Window = window
	res.TotalMonths = len(window)
	res.InsufficientHistory = len(window) < params.WindowMonths

	quantities := make([]float64, len(window))
	var sum float64
	for i, p := range window {
		quantities[i] = s.Quantity(p)
		sum += quantities[i]
	}
	res.InitialAMS = sum / float64(len(window))
	res.Threshold = params.ExclusionPercent / 100 * res.InitialAMS

	var kept float64
	var excluded []models.Period
	for i, q := range quantities {
		if q < res.Threshold {
			excluded = append(excluded, window[i])
			continue
		}
		kept += q
	}

	if len(excluded) == len(window) {
		res.FinalAMS = res.InitialAMS
		res.MonthsCounted = len(window)
		return res
	}
	res.ExcludedPeriods = excluded
	res.MonthsExcluded = len(excluded)
	res.MonthsCounted = len(window) - len(excluded)
	res.FinalAMS = kept / float64(res.MonthsCounted)
	return res
}

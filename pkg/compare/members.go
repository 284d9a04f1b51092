package compare

import (
	"fmt"

	"sales-ams/pkg/aggregate"
	"sales-ams/pkg/models"
)

// CompareMembers compare deux valeurs d'une dimension (ex. Region "North" vs "South") sur rng,
// avec une ventilation selon breakdown (CustomerType par défaut).
func CompareMembers(records []models.Record, d models.Dimension, memberA, memberB string, rng models.PeriodRange, breakdown models.Dimension) (*models.MemberComparison, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	if _, err := models.ParseDimension(string(d)); err != nil {
		return nil, err
	}
	if breakdown == "" {
		breakdown = models.DimCustomerType
	}

	inRange, rng := inBounds(records, rng)
	res := &models.MemberComparison{
		Dimension:    d,
		Range:        rng,
		MemberA:      memberA,
		MemberB:      memberB,
		BreakdownDim: breakdown,
	}

	var recsA, recsB []models.Record
	for _, r := range inRange {
		switch d.Of(r.DimensionKey) {
		case memberA:
			recsA = append(recsA, r)
		case memberB:
			recsB = append(recsB, r)
		}
	}
	if memberA == memberB {
		recsB = recsA
	}

	qa := make(map[string]float64)
	qb := make(map[string]float64)
	weight := make(map[string]float64)
	for _, r := range recsA {
		l := breakdown.Of(r.DimensionKey)
		qa[l] += r.Quantity
		weight[l] += r.Quantity
		res.TotalA += r.Quantity
	}
	for _, r := range recsB {
		l := breakdown.Of(r.DimensionKey)
		qb[l] += r.Quantity
		weight[l] += r.Quantity
		res.TotalB += r.Quantity
	}
	for _, l := range orderLabels(weight, models.OrderByTotal) {
		res.Breakdown = append(res.Breakdown, models.BreakdownRow{Label: l, QtyA: qa[l], QtyB: qb[l]})
	}

	res.Delta = res.TotalB - res.TotalA
	res.PctDelta = PctChange(res.TotalA, res.TotalB)
	res.MonthlyA = aggregate.Monthly(recsA)
	res.MonthlyB = aggregate.Monthly(recsB)
	return res, nil
}

// Analysis résume une dimension : totaux décroissants, tendance mensuelle par membre
// et tableau croisé avec une seconde dimension.
type Analysis struct {
	Dimension models.Dimension
	Totals    []models.GroupTotal
	Trend     map[string][]models.PeriodTotal
	Matrix    *models.Matrix
}

// Analyze produit l'analyse de d (Product par défaut) croisée avec cross (CustomerType par défaut).
func Analyze(records []models.Record, d, cross models.Dimension, order models.Order) (*Analysis, error) {
	if d == "" {
		d = models.DimProduct
	}
	if cross == "" {
		cross = models.DimCustomerType
	}
	m, err := CrossTab(records, d, cross, order)
	if err != nil {
		return nil, fmt.Errorf("analyse: %w", err)
	}
	return &Analysis{
		Dimension: d,
		Totals:    aggregate.Totals(records, d),
		Trend:     aggregate.MonthlyBy(records, d),
		Matrix:    m,
	}, nil
}

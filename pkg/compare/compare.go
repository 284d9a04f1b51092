package compare

import (
	"fmt"
	"sort"

	"sales-ams/pkg/aggregate"
	"sales-ams/pkg/models"
)

// Options règle une comparaison de périodes.
// RowDim et ColDim, s'ils sont tous deux renseignés, ajoutent une matrice delta au résultat.
type Options struct {
	Order  models.Order
	RowDim models.Dimension
	ColDim models.Dimension
}

// PctChange retourne (b − a) / a × 100, ou nil quand a = 0.
func PctChange(a, b float64) *float64 {
	if a == 0 {
		return nil
	}
	v := (b - a) / a * 100
	return &v
}

// ComparePeriods apparie les quantités de deux sélections de périodes, DimensionKey par DimensionKey.
// Les intervalles sont ramenés aux bornes observées du jeu de données ; une période hors
// des données donne des totaux nuls, pas une erreur.
func ComparePeriods(records []models.Record, a, b models.PeriodRange, opts Options) (*models.ComparisonResult, error) {
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("période A: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("période B: %w", err)
	}

	recsA, a := inBounds(records, a)
	recsB, b := inBounds(records, b)
	res := &models.ComparisonResult{A: a, B: b}

	/* GROUP → quantités A / B par clé */
	rows := make(map[models.DimensionKey]*models.DeltaRow)
	row := func(k models.DimensionKey) *models.DeltaRow {
		r, ok := rows[k]
		if !ok {
			r = &models.DeltaRow{Key: k}
			rows[k] = r
		}
		return r
	}
	for _, r := range recsA {
		row(r.DimensionKey).QtyA += r.Quantity
		res.TotalA += r.Quantity
	}
	for _, r := range recsB {
		row(r.DimensionKey).QtyB += r.Quantity
		res.TotalB += r.Quantity
	}

	res.Rows = make([]models.DeltaRow, 0, len(rows))
	for _, r := range rows {
		r.Delta = r.QtyB - r.QtyA
		r.PctDelta = PctChange(r.QtyA, r.QtyB)
		res.Rows = append(res.Rows, *r)
	}
	sortRows(res.Rows, opts.Order)

	/* TOTALS → variation globale et moyennes mensuelles */
	res.Delta = res.TotalB - res.TotalA
	res.PctDelta = PctChange(res.TotalA, res.TotalB)
	res.MonthlyA = aggregate.Monthly(recsA)
	res.MonthlyB = aggregate.Monthly(recsB)
	res.MonthsA = len(res.MonthlyA)
	res.MonthsB = len(res.MonthlyB)
	if res.MonthsA > 0 {
		res.AvgA = res.TotalA / float64(res.MonthsA)
	}
	if res.MonthsB > 0 {
		res.AvgB = res.TotalB / float64(res.MonthsB)
	}

	if opts.RowDim != "" && opts.ColDim != "" {
		m, err := CrossTabDelta(recsA, recsB, opts.RowDim, opts.ColDim, opts.Order)
		if err != nil {
			return nil, err
		}
		res.Matrix = m
	}
	return res, nil
}

// inBounds restreint rng aux périodes observées et retourne les enregistrements concernés.
func inBounds(records []models.Record, rng models.PeriodRange) ([]models.Record, models.PeriodRange) {
	first, last, ok := aggregate.Bounds(records)
	if !ok {
		return nil, rng
	}
	clamped, ok := rng.Clamp(first, last)
	if !ok {
		return nil, rng
	}
	return aggregate.InRange(records, clamped), clamped
}

func sortRows(rows []models.DeltaRow, order models.Order) {
	sort.SliceStable(rows, func(i, j int) bool {
		if order == models.OrderByTotal {
			ti, tj := rows[i].QtyA+rows[i].QtyB, rows[j].QtyA+rows[j].QtyB
			if ti != tj {
				return ti > tj
			}
		}
		return rows[i].Key.Less(rows[j].Key)
	})
}

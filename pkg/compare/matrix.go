package compare

import (
	"fmt"
	"sort"

	"sales-ams/pkg/models"
)

// CrossTab somme les quantités par (row, col), ex. Region × Township pour une heatmap.
func CrossTab(records []models.Record, row, col models.Dimension, order models.Order) (*models.Matrix, error) {
	if err := checkAxes(row, col); err != nil {
		return nil, err
	}
	return crossTab(records, nil, row, col, models.MatrixQuantity, order), nil
}

// CrossTabDelta construit la matrice des écarts B − A, avec la variation en % par cellule
// (nil quand la cellule A est nulle).
func CrossTabDelta(a, b []models.Record, row, col models.Dimension, order models.Order) (*models.Matrix, error) {
	if err := checkAxes(row, col); err != nil {
		return nil, err
	}
	return crossTab(a, b, row, col, models.MatrixDelta, order), nil
}

// checkAxes refuse row == col : la matrice ne serait qu'une diagonale.
func checkAxes(row, col models.Dimension) error {
	if row == col {
		return fmt.Errorf("%w (%s)", models.ErrSameDimension, row)
	}
	return nil
}

type cellKey struct{ row, col string }

func crossTab(a, b []models.Record, row, col models.Dimension, mode models.MatrixMode, order models.Order) *models.Matrix {
	qa := make(map[cellKey]float64)
	qb := make(map[cellKey]float64)
	rowWeight := make(map[string]float64)
	colWeight := make(map[string]float64)

	sum := func(records []models.Record, into map[cellKey]float64) {
		for _, r := range records {
			k := cellKey{row.Of(r.DimensionKey), col.Of(r.DimensionKey)}
			into[k] += r.Quantity
			rowWeight[k.row] += r.Quantity
			colWeight[k.col] += r.Quantity
		}
	}
	sum(a, qa)
	sum(b, qb)

	m := &models.Matrix{
		RowDim: row,
		ColDim: col,
		Mode:   mode,
		Rows:   orderLabels(rowWeight, order),
		Cols:   orderLabels(colWeight, order),
	}
	m.Cells = make([][]float64, len(m.Rows))
	m.RowTotals = make([]float64, len(m.Rows))
	m.ColTotals = make([]float64, len(m.Cols))
	if mode == models.MatrixDelta {
		m.Pct = make([][]*float64, len(m.Rows))
	}

	for i, r := range m.Rows {
		m.Cells[i] = make([]float64, len(m.Cols))
		if mode == models.MatrixDelta {
			m.Pct[i] = make([]*float64, len(m.Cols))
		}
		for j, c := range m.Cols {
			k := cellKey{r, c}
			v := qa[k]
			if mode == models.MatrixDelta {
				v = qb[k] - qa[k]
				m.Pct[i][j] = PctChange(qa[k], qb[k])
			}
			m.Cells[i][j] = v
			m.RowTotals[i] += v
			m.ColTotals[j] += v
			m.Total += v
		}
	}
	return m
}

// orderLabels trie par poids décroissant (ou alphabétiquement), le libellé départageant.
func orderLabels(weight map[string]float64, order models.Order) []string {
	labels := make([]string, 0, len(weight))
	for l := range weight {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		if order == models.OrderByTotal && weight[labels[i]] != weight[labels[j]] {
			return weight[labels[i]] > weight[labels[j]]
		}
		return labels[i] < labels[j]
	})
	return labels
}

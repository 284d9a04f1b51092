package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"sales-ams/pkg/calculator"
	"sales-ams/pkg/models"

	"github.com/xuri/excelize/v2"
)

// Noms des feuilles produites.
const (
	SheetAMS        = "AMS"
	SheetAMSSummary = "AMS Product Summary"
	SheetTargets    = "Targets"
	SheetTargetSum  = "Target Product Summary"
	SheetComparison = "Comparison"
	SheetMatrix     = "Matrix"
	SheetSkipped    = "Skipped"
	SheetRun        = "Run"
)

const headerColor = "366092"

// Workbook accumule les feuilles d'un classeur de résultats.
type Workbook struct {
	f           *excelize.File
	headerStyle int
	used        bool // la feuille par défaut a déjà été renommée
}

// New crée un classeur vide avec le style d'en-tête.
func New() (*Workbook, error) {
	f := excelize.NewFile()
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerColor}, Pattern: 1},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("style: %w", err)
	}
	return &Workbook{f: f, headerStyle: style}, nil
}

// File expose le classeur sous-jacent.
func (w *Workbook) File() *excelize.File { return w.f }

// Close libère les fichiers temporaires d'excelize.
func (w *Workbook) Close() error { return w.f.Close() }

// WriteTo écrit le classeur au format xlsx.
func (w *Workbook) WriteTo(out io.Writer) (int64, error) { return w.f.WriteTo(out) }

// SaveAs enregistre le classeur sur disque.
func (w *Workbook) SaveAs(path string) error { return w.f.SaveAs(path) }

// table écrit une feuille : en-tête stylé en ligne 1, puis les lignes.
func (w *Workbook) table(sheet string, header []string, rows [][]any) error {
	if !w.used {
		if err := w.f.SetSheetName(w.f.GetSheetName(0), sheet); err != nil {
			return err
		}
		w.used = true
	} else if _, err := w.f.NewSheet(sheet); err != nil {
		return err
	}

	hdr := make([]any, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	if err := w.f.SetSheetRow(sheet, "A1", &hdr); err != nil {
		return err
	}
	if err := w.f.SetRowStyle(sheet, 1, 1, w.headerStyle); err != nil {
		return err
	}
	last, _ := excelize.ColumnNumberToName(len(header))
	if err := w.f.SetColWidth(sheet, "A", last, 16); err != nil {
		return err
	}

	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := w.f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("%s ligne %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func keyCells(k models.DimensionKey) []any {
	return []any{k.Product, k.CustomerType, k.Township, k.Region}
}

var keyHeader = []string{"Product", "Customer Type", "Township", "Region"}

// AMS : une ligne par DimensionKey, AMS arrondis pour l'affichage.
func (w *Workbook) AMS(results []models.AMSResult) error {
	header := append(append([]string{}, keyHeader...),
		"Initial AMS", "Threshold", "Final AMS", "Months Counted", "Months Excluded", "Total Months", "Excluded Periods", "Insufficient History")
	rows := make([][]any, len(results))
	for i, r := range results {
		excluded := make([]string, len(r.ExcludedPeriods))
		for j, p := range r.ExcludedPeriods {
			excluded[j] = p.String()
		}
		rows[i] = append(keyCells(r.Key),
			math.Round(r.InitialAMS), round2(r.Threshold), math.Round(r.FinalAMS),
			r.MonthsCounted, r.MonthsExcluded, r.TotalMonths, strings.Join(excluded, ", "), r.InsufficientHistory)
	}
	return w.table(SheetAMS, header, rows)
}

// Targets : AMS, % d'augmentation et cible arrondie.
func (w *Workbook) Targets(results []models.TargetResult) error {
	header := append(append([]string{}, keyHeader...), "AMS", "Percent Increase", "Target Qty", "Clamped")
	rows := make([][]any, len(results))
	for i, r := range results {
		rows[i] = append(keyCells(r.Key), math.Round(r.AMS), r.PercentIncrease, math.Round(r.TargetQty), r.Clamped)
	}
	return w.table(SheetTargets, header, rows)
}

// Summary écrit une synthèse groupée (ex. SummarizeAMS par Product).
func (w *Workbook) Summary(sheet string, dims []models.Dimension, valueLabel string, totals []models.GroupTotal) error {
	header := make([]string, 0, len(dims)+2)
	for _, d := range dims {
		header = append(header, d.Label())
	}
	header = append(header, valueLabel, "Count")
	rows := make([][]any, len(totals))
	for i, g := range totals {
		row := make([]any, 0, len(header))
		for _, l := range g.Labels {
			row = append(row, l)
		}
		rows[i] = append(row, math.Round(g.Value), g.Count)
	}
	return w.table(sheet, header, rows)
}

// Comparison : lignes par clé puis récapitulatif des deux périodes.
func (w *Workbook) Comparison(res *models.ComparisonResult) error {
	a, b := res.A.String(), res.B.String()
	header := append(append([]string{}, keyHeader...), a, b, "Change", "Change %")
	rows := make([][]any, 0, len(res.Rows)+5)
	for _, r := range res.Rows {
		rows = append(rows, append(keyCells(r.Key), r.QtyA, r.QtyB, r.Delta, pctCell(r.PctDelta)))
	}
	rows = append(rows,
		[]any{},
		[]any{"Total", "", "", "", res.TotalA, res.TotalB, res.Delta, pctCell(res.PctDelta)},
		[]any{"Months with data", "", "", "", res.MonthsA, res.MonthsB},
		[]any{"Average per month", "", "", "", round2(res.AvgA), round2(res.AvgB)},
	)
	if err := w.table(SheetComparison, header, rows); err != nil {
		return err
	}
	if res.Matrix != nil {
		return w.Matrix(res.Matrix)
	}
	return nil
}

// Matrix écrit un tableau croisé avec totaux de lignes et de colonnes.
func (w *Workbook) Matrix(m *models.Matrix) error {
	header := append([]string{m.RowDim.Label() + " \\ " + m.ColDim.Label()}, m.Cols...)
	header = append(header, "Total")
	rows := make([][]any, 0, len(m.Rows)+1)
	for i, r := range m.Rows {
		row := make([]any, 0, len(header))
		row = append(row, r)
		for _, v := range m.Cells[i] {
			row = append(row, v)
		}
		rows = append(rows, append(row, m.RowTotals[i]))
	}
	total := []any{"Total"}
	for _, v := range m.ColTotals {
		total = append(total, v)
	}
	rows = append(rows, append(total, m.Total))
	return w.table(SheetMatrix, header, rows)
}

// Skipped liste les lignes écartées à la normalisation.
func (w *Workbook) Skipped(skipped []models.SkippedRecord) error {
	rows := make([][]any, len(skipped))
	for i, s := range skipped {
		rows[i] = []any{s.Row, s.Value, s.Reason}
	}
	return w.table(SheetSkipped, []string{"Row", "Value", "Reason"}, rows)
}

// Run écrit les métadonnées d'exécution (identifiant, paramètres).
func (w *Workbook) Run(res *calculator.Result) error {
	cfg := res.Config
	rows := [][]any{
		{"Run ID", res.RunID},
		{"Reference", res.Reference.String()},
		{"Window Months", cfg.WindowMonths},
		{"Exclusion Percent", cfg.ExclusionPercent},
		{"Percent Increase", cfg.PercentIncrease},
		{"Anchor", string(cfg.Anchor)},
		{"Records", len(res.Records)},
		{"Skipped", len(res.Skipped)},
		{"Series", len(res.AMS)},
	}
	return w.table(SheetRun, []string{"Key", "Value"}, rows)
}

// WriteResult assemble le classeur complet d'une exécution AMS/cible.
func WriteResult(out io.Writer, res *calculator.Result) error {
	w, err := New()
	if err != nil {
		return err
	}
	defer w.Close()

	steps := []func() error{
		func() error { return w.AMS(res.AMS) },
		func() error {
			return w.Summary(SheetAMSSummary, []models.Dimension{models.DimProduct}, "Final AMS",
				calculator.SummarizeAMS(res.AMS, models.DimProduct))
		},
		func() error { return w.Targets(res.Targets) },
		func() error {
			return w.Summary(SheetTargetSum, []models.Dimension{models.DimProduct}, "Target Qty",
				calculator.SummarizeTargets(res.Targets, models.DimProduct))
		},
		func() error { return w.Skipped(res.Skipped) },
		func() error { return w.Run(res) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}
	_, err = w.WriteTo(out)
	return err
}

func pctCell(p *float64) any {
	if p == nil {
		return "n/a"
	}
	return round2(*p)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"sales-ams/pkg/models"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// ErrEmpty : rien à tracer.
var ErrEmpty = errors.New("chart: aucune donnée")

const paletteSize = 64

// grid adapte une Matrix à plotter.GridXYZ. La première ligne de la matrice est tracée en haut.
type grid struct{ m *models.Matrix }

func (g grid) Dims() (c, r int)   { return len(g.m.Cols), len(g.m.Rows) }
func (g grid) Z(c, r int) float64 { return g.m.Cells[len(g.m.Rows)-1-r][c] }
func (g grid) X(c int) float64    { return float64(c) }
func (g grid) Y(r int) float64    { return float64(r) }

// Heatmap trace une matrice : palette divergente centrée sur 0 en mode delta,
// palette de luminance sinon.
func Heatmap(m *models.Matrix, title string) (*plot.Plot, error) {
	if m == nil || len(m.Rows) == 0 || len(m.Cols) == 0 {
		return nil, ErrEmpty
	}
	lo, hi := bounds(m)

	var cmap palette.ColorMap
	if m.Mode == models.MatrixDelta {
		span := math.Max(math.Abs(lo), math.Abs(hi))
		if span == 0 {
			span = 1
		}
		lo, hi = -span, span
		cmap = moreland.SmoothBlueRed()
	} else {
		if hi == lo {
			hi = lo + 1
		}
		cmap = moreland.ExtendedBlackBody()
	}
	cmap.SetMin(lo)
	cmap.SetMax(hi)

	hm := plotter.NewHeatMap(grid{m}, cmap.Palette(paletteSize))
	hm.Min, hm.Max = lo, hi

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = m.ColDim.Label()
	p.Y.Label.Text = m.RowDim.Label()
	p.Add(hm)

	rows := make([]string, len(m.Rows))
	for i, r := range m.Rows {
		rows[len(rows)-1-i] = r
	}
	p.NominalX(m.Cols...)
	p.NominalY(rows...)
	return p, nil
}

func bounds(m *models.Matrix) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range m.Cells {
		for _, v := range row {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return lo, hi
}

// Trend trace une courbe par série (ex. ventes mensuelles par produit) sur un axe de périodes commun.
func Trend(series map[string][]models.PeriodTotal, title string) (*plot.Plot, error) {
	if len(series) == 0 {
		return nil, ErrEmpty
	}
	names := make([]string, 0, len(series))
	seen := make(map[models.Period]struct{})
	for name, pts := range series {
		names = append(names, name)
		for _, pt := range pts {
			seen[pt.Period] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil, ErrEmpty
	}
	sort.Strings(names)

	periods := make([]models.Period, 0, len(seen))
	for p := range seen {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })
	pos := make(map[models.Period]int, len(periods))
	labels := make([]string, len(periods))
	for i, p := range periods {
		pos[p] = i
		labels[i] = p.String()
	}

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.Text = "Sales Qty"
	p.Add(plotter.NewGrid())

	for i, name := range names {
		pts := make(plotter.XYs, len(series[name]))
		for j, pt := range series[name] {
			pts[j].X = float64(pos[pt.Period])
			pts[j].Y = pt.Quantity
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("série %s: %w", name, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add(name, line)
	}
	p.NominalX(labels...)
	p.Legend.Top = true
	return p, nil
}

// Bars trace des totaux groupés (ex. ventes par produit, triées par valeur décroissante).
func Bars(totals []models.GroupTotal, title string) (*plot.Plot, error) {
	if len(totals) == 0 {
		return nil, ErrEmpty
	}
	values := make(plotter.Values, len(totals))
	labels := make([]string, len(totals))
	for i, g := range totals {
		values[i] = g.Value
		labels[i] = strings.Join(g.Labels, " / ")
	}
	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return nil, err
	}
	bars.Color = color.RGBA{R: 0x36, G: 0x60, B: 0x92, A: 255}
	bars.LineStyle.Width = vg.Length(0)

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Add(bars)
	p.NominalX(labels...)
	return p, nil
}

// Save enregistre le graphique ; le format suit l'extension (.png, .svg, .pdf).
func Save(p *plot.Plot, path string) error {
	if filepath.Ext(path) == "" {
		path += ".png"
	}
	return p.Save(10*vg.Inch, 6*vg.Inch, path)
}

// Render écrit le graphique au format donné ("png", "svg"…).
func Render(p *plot.Plot, out io.Writer, format string) error {
	wt, err := p.WriterTo(10*vg.Inch, 6*vg.Inch, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(out)
	return err
}

package models

import (
	"fmt"
	"strings"
)

/*
LOAD → enregistrements bruts tels que fournis par l'ingestion (CSV, XLSX, base).
*/

// RawRecord représente une ligne de ventes avant normalisation.
// Period et Quantity restent des valeurs brutes : chaîne, nombre, time.Time…
type RawRecord struct {
	Row          int // numéro de ligne dans la source (en-tête = 1)
	Period       any
	Product      string
	CustomerType string
	Township     string
	Region       string
	Quantity     any
}

// Unspecified remplace un champ de dimension vide pour garder les totaux réconciliables.
const Unspecified = "(unspecified)"

// DimensionKey identifie une série temporelle : Product × CustomerType × Township × Region.
// L'égalité est stricte sur les quatre champs.
type DimensionKey struct {
	Product      string
	CustomerType string
	Township     string
	Region       string
}

// Normalized retourne la clé avec des champs nettoyés ; un champ vide devient Unspecified.
func (k DimensionKey) Normalized() DimensionKey {
	return DimensionKey{
		Product:      orUnspecified(k.Product),
		CustomerType: orUnspecified(k.CustomerType),
		Township:     orUnspecified(k.Township),
		Region:       orUnspecified(k.Region),
	}
}

// Less ordonne les clés champ par champ (Product, CustomerType, Township, Region).
func (k DimensionKey) Less(o DimensionKey) bool {
	if k.Product != o.Product {
		return k.Product < o.Product
	}
	if k.CustomerType != o.CustomerType {
		return k.CustomerType < o.CustomerType
	}
	if k.Township != o.Township {
		return k.Township < o.Township
	}
	return k.Region < o.Region
}

func (k DimensionKey) String() string {
	return strings.Join([]string{k.Product, k.CustomerType, k.Township, k.Region}, " / ")
}

func orUnspecified(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unspecified
	}
	return s
}

// Record est une observation normalisée. Immuable une fois construite.
type Record struct {
	Period Period
	DimensionKey
	Quantity float64
}

// SkippedRecord décrit une ligne écartée pendant la normalisation.
type SkippedRecord struct {
	Row    int
	Value  string
	Reason string
	Err    error
}

/*
DIMENSIONS
*/

// Dimension nomme un des quatre axes d'une DimensionKey.
type Dimension string

const (
	DimProduct      Dimension = "product"
	DimCustomerType Dimension = "customer_type"
	DimTownship     Dimension = "township"
	DimRegion       Dimension = "region"
)

// AllDimensions dans l'ordre de la clé.
var AllDimensions = []Dimension{DimProduct, DimCustomerType, DimTownship, DimRegion}

// ParseDimension accepte "Customer Type", "customer-type", "customerType"…
func ParseDimension(s string) (Dimension, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(n)
	switch n {
	case "product":
		return DimProduct, nil
	case "customertype", "customer":
		return DimCustomerType, nil
	case "township":
		return DimTownship, nil
	case "region":
		return DimRegion, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDimension, s)
}

// Of extrait la valeur de la dimension dans une clé.
func (d Dimension) Of(k DimensionKey) string {
	switch d {
	case DimProduct:
		return k.Product
	case DimCustomerType:
		return k.CustomerType
	case DimTownship:
		return k.Township
	case DimRegion:
		return k.Region
	}
	return ""
}

// Label retourne le libellé de colonne utilisé dans les fichiers de ventes.
func (d Dimension) Label() string {
	switch d {
	case DimProduct:
		return "Product"
	case DimCustomerType:
		return "Customer Type"
	case DimTownship:
		return "Township"
	case DimRegion:
		return "Region"
	}
	return string(d)
}

/*
COMPUTE → séries et résultats
*/

// PeriodTotal associe une période à une quantité.
type PeriodTotal struct {
	Period   Period
	Quantity float64
}

// TimeSeries est la série mensuelle (triée, sans doublon) d'une DimensionKey.
type TimeSeries struct {
	Key    DimensionKey
	Points []PeriodTotal
}

// Quantity retourne la quantité de la période, 0 si absente.
func (s TimeSeries) Quantity(p Period) float64 {
	lo, hi := 0, len(s.Points)
	for lo < hi {
		mid := (lo + hi) / 2
		if s.Points[mid].Period.Before(p) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(s.Points) && s.Points[lo].Period == p {
		return s.Points[lo].Quantity
	}
	return 0
}

// First retourne la première période observée.
func (s TimeSeries) First() (Period, bool) {
	if len(s.Points) == 0 {
		return Period{}, false
	}
	return s.Points[0].Period, true
}

// LatestAtOrBefore retourne la dernière période observée ≤ ref.
func (s TimeSeries) LatestAtOrBefore(ref Period) (Period, bool) {
	for i := len(s.Points) - 1; i >= 0; i-- {
		if !s.Points[i].Period.After(ref) {
			return s.Points[i].Period, true
		}
	}
	return Period{}, false
}

// Total somme toutes les quantités de la série.
func (s TimeSeries) Total() float64 {
	var total float64
	for _, pt := range s.Points {
		total += pt.Quantity
	}
	return total
}

// AMSResult contient la base AMS robuste d'une DimensionKey.
// FinalAMS est calculé uniquement sur les périodes hors ExcludedPeriods.
type AMSResult struct {
	Key                 DimensionKey
	Anchor              Period   // dernière période de la fenêtre
	Window              []Period // périodes retenues pour la moyenne initiale
	InitialAMS          float64
	Threshold           float64
	ExcludedPeriods     []Period
	FinalAMS            float64
	MonthsCounted       int
	MonthsExcluded      int
	TotalMonths         int
	InsufficientHistory bool // moins de WindowMonths périodes d'historique
}

// IsExcluded indique si la période a été écartée comme mois de rupture.
func (r AMSResult) IsExcluded(p Period) bool {
	for _, e := range r.ExcludedPeriods {
		if e == p {
			return true
		}
	}
	return false
}

// TargetResult : TargetQty = AMS × (1 + PercentIncrease/100), borné à 0.
type TargetResult struct {
	Key             DimensionKey
	AMS             float64
	PercentIncrease float64
	TargetQty       float64
	Clamped         bool // la cible négative a été ramenée à 0
}

// GroupTotal est une ligne de synthèse groupée par une ou plusieurs dimensions.
type GroupTotal struct {
	Labels []string
	Value  float64
	Count  int
}

/*
COMPARE → comparaisons de périodes et matrices
*/

// Order choisit le tri des lignes et colonnes d'une comparaison.
type Order int

const (
	OrderByTotal Order = iota // quantité totale décroissante
	OrderAlphabetical
)

// DeltaRow compare une DimensionKey entre les périodes A et B.
// PctDelta vaut nil quand QtyA = 0.
type DeltaRow struct {
	Key      DimensionKey
	QtyA     float64
	QtyB     float64
	Delta    float64
	PctDelta *float64
}

// MatrixMode indique le contenu des cellules d'une Matrix.
type MatrixMode string

const (
	MatrixQuantity MatrixMode = "quantity"
	MatrixDelta    MatrixMode = "delta"
)

// Matrix est un tableau croisé de deux dimensions (lignes × colonnes) pour les heatmaps.
// En mode delta, Cells contient B − A et Pct la variation en pourcentage.
type Matrix struct {
	RowDim    Dimension
	ColDim    Dimension
	Mode      MatrixMode
	Rows      []string
	Cols      []string
	Cells     [][]float64
	Pct       [][]*float64
	RowTotals []float64
	ColTotals []float64
	Total     float64
}

// Cell retourne la valeur (ligne, colonne) par libellés.
func (m *Matrix) Cell(row, col string) (float64, bool) {
	for i, r := range m.Rows {
		if r != row {
			continue
		}
		for j, c := range m.Cols {
			if c == col {
				return m.Cells[i][j], true
			}
		}
	}
	return 0, false
}

// ComparisonResult apparie deux sélections de périodes.
type ComparisonResult struct {
	A, B     PeriodRange
	Rows     []DeltaRow
	TotalA   float64
	TotalB   float64
	Delta    float64
	PctDelta *float64
	MonthsA  int // mois avec données dans A
	MonthsB  int
	AvgA     float64 // moyenne mensuelle sur les mois avec données
	AvgB     float64
	MonthlyA []PeriodTotal
	MonthlyB []PeriodTotal
	Matrix   *Matrix
}

// BreakdownRow ventile une comparaison de membres selon une seconde dimension.
type BreakdownRow struct {
	Label string
	QtyA  float64
	QtyB  float64
}

// MemberComparison compare deux valeurs d'une même dimension (ex. deux régions).
type MemberComparison struct {
	Dimension    Dimension
	Range        PeriodRange
	MemberA      string
	MemberB      string
	TotalA       float64
	TotalB       float64
	Delta        float64
	PctDelta     *float64
	BreakdownDim Dimension
	Breakdown    []BreakdownRow
	MonthlyA     []PeriodTotal
	MonthlyB     []PeriodTotal
}

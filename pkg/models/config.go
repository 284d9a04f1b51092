package models

import "fmt"

/*
CONFIG → paramètres globaux
*/

const (
	DefaultWindowMonths     = 6
	DefaultExclusionPercent = 20.0
)

// Anchor choisit la période de référence de la fenêtre AMS.
type Anchor string

const (
	AnchorDatasetMax Anchor = "dataset_max" // période max du jeu filtré
	AnchorAsOf       Anchor = "as_of"       // période fournie par l'appelant
)

// Selection liste les valeurs retenues par dimension. Vide = pas de restriction.
type Selection struct {
	Products      []string `yaml:"products"`
	CustomerTypes []string `yaml:"customer_types"`
	Townships     []string `yaml:"townships"`
	Regions       []string `yaml:"regions"`
}

// Values retourne la sélection d'une dimension.
func (s Selection) Values(d Dimension) []string {
	switch d {
	case DimProduct:
		return s.Products
	case DimCustomerType:
		return s.CustomerTypes
	case DimTownship:
		return s.Townships
	case DimRegion:
		return s.Regions
	}
	return nil
}

// IsEmpty est vrai quand aucune dimension n'est restreinte.
func (s Selection) IsEmpty() bool {
	for _, d := range AllDimensions {
		if len(s.Values(d)) > 0 {
			return false
		}
	}
	return true
}

// Config contient les paramètres passés au pipeline de calcul.
type Config struct {
	WindowMonths     int     // nombre de mois de la fenêtre AMS
	ExclusionPercent float64 // seuil d'exclusion en % de l'AMS initial
	PercentIncrease  float64 // hausse appliquée pour la cible
	Anchor           Anchor
	AsOf             Period // utilisé quand Anchor = AnchorAsOf
	Selection        Selection
	Workers          int  // 0 = GOMAXPROCS
	Verbose          bool // Flag pour activer les logs détaillés.
}

// DefaultConfig : 6 mois, seuil 20 %, ancrage sur le max du jeu de données.
func DefaultConfig() Config {
	return Config{
		WindowMonths:     DefaultWindowMonths,
		ExclusionPercent: DefaultExclusionPercent,
		Anchor:           AnchorDatasetMax,
	}
}

// Validate vérifie la cohérence des paramètres.
func (c Config) Validate() error {
	if c.WindowMonths < 1 {
		return fmt.Errorf("window_months doit être ≥ 1 (reçu %d)", c.WindowMonths)
	}
	if c.ExclusionPercent < 0 || c.ExclusionPercent >= 100 {
		return fmt.Errorf("exclusion_percent hors de [0, 100) (reçu %g)", c.ExclusionPercent)
	}
	switch c.Anchor {
	case AnchorDatasetMax, "":
	case AnchorAsOf:
		if c.AsOf.IsZero() {
			return fmt.Errorf("anchor=as_of sans période as_of")
		}
	default:
		return fmt.Errorf("anchor inconnu %q", c.Anchor)
	}
	return nil
}

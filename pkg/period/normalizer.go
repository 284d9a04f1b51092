package period

import (
	"fmt"
	"strings"
	"time"

	"sales-ams/pkg/models"
)

// Family identifie la famille de format qui a reconnu un jeton.
type Family int

const (
	FamilyTime      Family = iota // time.Time déjà typé
	FamilyMonthName               // "Jan-2024", "January 2024", "2024 Jan", "Jan/24"
	FamilyISO                     // "2024-01", "2024/01/15", "2024-01-15 00:00:00"
	FamilyNumeric                 // "01/2024", "1-2024"
	FamilyCompact                 // "012024" (MMYYYY), "202401" (YYYYMM)
	FamilySerial                  // numéro de série tableur (45292)
	FamilyScan                    // "Sales for March, FY 2024"
)

var familyNames = map[Family]string{
	FamilyTime:      "time",
	FamilyMonthName: "month-name",
	FamilyISO:       "iso",
	FamilyNumeric:   "numeric",
	FamilyCompact:   "compact",
	FamilySerial:    "serial",
	FamilyScan:      "scan",
}

func (f Family) String() string {
	if s, ok := familyNames[f]; ok {
		return s
	}
	return fmt.Sprintf("family(%d)", int(f))
}

// Matcher est une stratégie de reconnaissance indépendante.
// Match retourne ok = false quand le jeton n'a pas la forme attendue ou une valeur hors bornes.
type Matcher struct {
	Family Family
	Match  func(v any) (models.Period, bool)
}

// Result est une normalisation réussie.
type Result struct {
	Period models.Period
	Family Family
}

// Normalizer essaie ses matchers dans l'ordre jusqu'au premier succès.
type Normalizer struct {
	matchers []Matcher
}

// DefaultMatchers retourne la chaîne standard, dans l'ordre d'essai.
func DefaultMatchers() []Matcher {
	return []Matcher{
		{Family: FamilyTime, Match: matchTime},
		{Family: FamilyMonthName, Match: matchMonthName},
		{Family: FamilyISO, Match: matchISO},
		{Family: FamilyNumeric, Match: matchNumeric},
		{Family: FamilyCompact, Match: matchCompact},
		{Family: FamilySerial, Match: matchSerial},
		{Family: FamilyScan, Match: matchScan},
	}
}

// New crée un normaliseur ; sans argument il utilise DefaultMatchers.
func New(matchers ...Matcher) *Normalizer {
	if len(matchers) == 0 {
		matchers = DefaultMatchers()
	}
	return &Normalizer{matchers: matchers}
}

// Normalize convertit un jeton brut en période canonique.
func (n *Normalizer) Normalize(v any) (Result, error) {
	v = prepare(v)
	if v == nil {
		return Result{}, fmt.Errorf("%w: valeur vide", models.ErrUnparsablePeriod)
	}
	for _, m := range n.matchers {
		if p, ok := m.Match(v); ok {
			return Result{Period: p, Family: m.Family}, nil
		}
	}
	return Result{}, fmt.Errorf("%w: %q", models.ErrUnparsablePeriod, fmt.Sprint(v))
}

var std = New()

// Parse normalise avec la chaîne standard.
func Parse(v any) (models.Period, error) {
	res, err := std.Normalize(v)
	if err != nil {
		return models.Period{}, err
	}
	return res.Period, nil
}

// prepare unifie les types d'entrée : chaînes nettoyées, []byte → string, pointeurs de temps déréférencés.
func prepare(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		return s
	case []byte:
		return prepare(string(t))
	case *time.Time:
		if t == nil {
			return nil
		}
		return *t
	case time.Time:
		if t.IsZero() {
			return nil
		}
		return t
	}
	return v
}

// MonthsBetweenInclusive liste les mois de start à end inclus.
func MonthsBetweenInclusive(start, end models.Period) []models.Period {
	return models.PeriodRange{From: start, To: end}.Months()
}

// Trailing retourne les n mois qui se terminent à anchor (inclus), sans remonter avant first.
func Trailing(anchor, first models.Period, n int) []models.Period {
	from := anchor.AddMonths(-(n - 1))
	if from.Before(first) {
		from = first
	}
	return MonthsBetweenInclusive(from, anchor)
}

// ParseRange lit "Jan-2024" (un mois) ou "Jan-2024..Mar-2024" (bornes incluses).
func ParseRange(s string) (models.PeriodRange, error) {
	from, to, found := strings.Cut(s, "..")
	a, err := Parse(from)
	if err != nil {
		return models.PeriodRange{}, err
	}
	if !found {
		return models.SinglePeriod(a), nil
	}
	b, err := Parse(to)
	if err != nil {
		return models.PeriodRange{}, err
	}
	r := models.PeriodRange{From: a, To: b}
	return r, r.Validate()
}

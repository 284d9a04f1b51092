package models

import (
	"fmt"
	"time"
)

// Period est la clé canonique (année, mois). Comparable et ordonnable.
type Period struct {
	Year  int
	Month time.Month
}

// NewPeriod valide le mois (1..12) et l'année (1..9999).
func NewPeriod(year int, month time.Month) (Period, error) {
	if month < time.January || month > time.December {
		return Period{}, fmt.Errorf("%w: mois %d hors de 1..12", ErrUnparsablePeriod, month)
	}
	if year < 1 || year > 9999 {
		return Period{}, fmt.Errorf("%w: année %d hors de 1..9999", ErrUnparsablePeriod, year)
	}
	return Period{Year: year, Month: month}, nil
}

// PeriodOf tronque une date à son mois.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// Index numérote les mois de façon continue (année×12 + mois−1).
func (p Period) Index() int {
	return p.Year*12 + int(p.Month) - 1
}

// PeriodFromIndex est l'inverse de Index.
func PeriodFromIndex(i int) Period {
	return Period{Year: i / 12, Month: time.Month(i%12 + 1)}
}

// AddMonths décale la période de n mois (n peut être négatif).
func (p Period) AddMonths(n int) Period {
	return PeriodFromIndex(p.Index() + n)
}

func (p Period) Before(o Period) bool { return p.Index() < o.Index() }
func (p Period) After(o Period) bool  { return p.Index() > o.Index() }

func (p Period) IsZero() bool { return p.Year == 0 && p.Month == 0 }

// String formate en "Jan-2024".
func (p Period) String() string {
	if p.IsZero() {
		return ""
	}
	return p.Time().Format("Jan-2006")
}

// Numeric formate en "MM/YYYY".
func (p Period) Numeric() string {
	return fmt.Sprintf("%02d/%04d", int(p.Month), p.Year)
}

// Time retourne le 1er jour du mois (UTC).
func (p Period) Time() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// PeriodRange est un intervalle inclusif de périodes. Une période seule a From == To.
type PeriodRange struct {
	From Period
	To   Period
}

// SinglePeriod construit un intervalle d'une seule période.
func SinglePeriod(p Period) PeriodRange {
	return PeriodRange{From: p, To: p}
}

// Validate vérifie From ≤ To.
func (r PeriodRange) Validate() error {
	if r.From.IsZero() || r.To.IsZero() {
		return fmt.Errorf("%w: bornes manquantes", ErrInvalidRange)
	}
	if r.To.Before(r.From) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidRange, r.From, r.To)
	}
	return nil
}

// Contains indique si p appartient à l'intervalle.
func (r PeriodRange) Contains(p Period) bool {
	return !p.Before(r.From) && !p.After(r.To)
}

// Len retourne le nombre de mois de l'intervalle.
func (r PeriodRange) Len() int {
	if r.To.Before(r.From) {
		return 0
	}
	return r.To.Index() - r.From.Index() + 1
}

// Months liste les mois de l'intervalle dans l'ordre.
func (r PeriodRange) Months() []Period {
	out := make([]Period, 0, r.Len())
	for i := r.From.Index(); i <= r.To.Index(); i++ {
		out = append(out, PeriodFromIndex(i))
	}
	return out
}

// Clamp restreint l'intervalle à [lo, hi]. ok = false si l'intersection est vide.
func (r PeriodRange) Clamp(lo, hi Period) (PeriodRange, bool) {
	if r.From.Before(lo) {
		r.From = lo
	}
	if r.To.After(hi) {
		r.To = hi
	}
	return r, !r.To.Before(r.From)
}

func (r PeriodRange) String() string {
	if r.From == r.To {
		return r.From.String()
	}
	return r.From.String() + ".." + r.To.String()
}

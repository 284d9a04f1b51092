package period

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"sales-ams/pkg/models"
)

var monthNames = func() map[string]time.Month {
	m := make(map[string]time.Month, 25)
	for i := time.January; i <= time.December; i++ {
		full := strings.ToLower(i.String())
		m[full] = i
		m[full[:3]] = i
	}
	m["sept"] = time.September
	return m
}()

// LookupMonth reconnaît un nom de mois complet ou abrégé, sans tenir compte de la casse.
func LookupMonth(s string) (time.Month, bool) {
	m, ok := monthNames[strings.ToLower(strings.TrimSpace(s))]
	return m, ok
}

var (
	separators = regexp.MustCompile(`[\s\-/,.]+`)
	isoRe      = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})(?:[-/](\d{1,2}))?(?:[ T].*)?$`)
	numericRe  = regexp.MustCompile(`^(\d{1,4})[-/](\d{1,4})$`)
	compactRe  = regexp.MustCompile(`^\d{6}$`)
	serialRe   = regexp.MustCompile(`^\d{5}(?:\.\d+)?$`)
	lettersRe  = regexp.MustCompile(`[a-z]+`)
	digitsRe   = regexp.MustCompile(`\d+`)
)

// Origine des numéros de série tableur (convention 1900 avec le faux 29/02/1900).
var serialEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// Séries acceptées : 10000 (18/05/1927) à 73415 (31/12/2100). Hors de cette plage un nombre
// est plus probablement une année ou un YYYYMM qu'une date, il est donc refusé.
const (
	serialMin = 10000
	serialMax = 73415
)

func matchTime(v any) (models.Period, bool) {
	t, ok := v.(time.Time)
	if !ok {
		return models.Period{}, false
	}
	return models.PeriodOf(t), true
}

func matchMonthName(v any) (models.Period, bool) {
	s, ok := v.(string)
	if !ok {
		return models.Period{}, false
	}
	parts := separators.Split(s, -1)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return models.Period{}, false
	}
	if m, ok := LookupMonth(parts[0]); ok {
		return yearAndMonth(parts[1], m)
	}
	if m, ok := LookupMonth(parts[1]); ok {
		return yearAndMonth(parts[0], m)
	}
	return models.Period{}, false
}

// yearAndMonth accepte une année sur 4 chiffres ou sur 2 (00..99 → 2000..2099).
func yearAndMonth(ys string, m time.Month) (models.Period, bool) {
	if !isDigits(ys) || (len(ys) != 4 && len(ys) != 2) {
		return models.Period{}, false
	}
	y, _ := strconv.Atoi(ys)
	if len(ys) == 2 {
		y += 2000
	}
	return period(y, int(m))
}

func matchISO(v any) (models.Period, bool) {
	s, ok := v.(string)
	if !ok {
		return models.Period{}, false
	}
	g := isoRe.FindStringSubmatch(s)
	if g == nil {
		return models.Period{}, false
	}
	if g[3] != "" {
		if d, _ := strconv.Atoi(g[3]); d < 1 || d > 31 {
			return models.Period{}, false
		}
	}
	y, _ := strconv.Atoi(g[1])
	m, _ := strconv.Atoi(g[2])
	return period(y, m)
}

func matchNumeric(v any) (models.Period, bool) {
	s, ok := v.(string)
	if !ok {
		return models.Period{}, false
	}
	g := numericRe.FindStringSubmatch(s)
	if g == nil {
		return models.Period{}, false
	}
	first, second := g[1], g[2]
	a, _ := strconv.Atoi(first)
	b, _ := strconv.Atoi(second)
	switch {
	case a >= 1 && a <= 12 && len(second) == 4:
		return period(b, a)
	case len(first) == 4:
		return period(a, b)
	}
	return models.Period{}, false
}

// matchCompact reconnaît MMYYYY puis YYYYMM, années 1900..2100 uniquement.
// Accepte aussi un entier à 6 chiffres (colonne INT 202401).
func matchCompact(v any) (models.Period, bool) {
	s, ok := compactString(v)
	if !ok {
		return models.Period{}, false
	}
	m, _ := strconv.Atoi(s[:2])
	y, _ := strconv.Atoi(s[2:])
	if m >= 1 && m <= 12 && y >= 1900 && y <= 2100 {
		return period(y, m)
	}
	// YYYYMM avec un mois hors 1..12 : échec, les 6 chiffres ne sont jamais relus comme série
	y, _ = strconv.Atoi(s[:4])
	m, _ = strconv.Atoi(s[4:])
	if y >= 1900 && y <= 2100 {
		return period(y, m)
	}
	return models.Period{}, false
}

func compactString(v any) (string, bool) {
	var n int64
	switch t := v.(type) {
	case string:
		return t, compactRe.MatchString(t)
	case int:
		n = int64(t)
	case int32:
		n = int64(t)
	case int64:
		n = t
	case uint32:
		n = int64(t)
	case uint64:
		if t > math.MaxInt64 {
			return "", false
		}
		n = int64(t)
	case float64:
		if t != math.Trunc(t) || t < 0 || t > 999999 {
			return "", false
		}
		n = int64(t)
	default:
		return "", false
	}
	if n < 100000 || n > 999999 {
		return "", false
	}
	return strconv.FormatInt(n, 10), true
}

func matchSerial(v any) (models.Period, bool) {
	var days float64
	switch t := v.(type) {
	case float64:
		days = t
	case float32:
		days = float64(t)
	case int:
		days = float64(t)
	case int32:
		days = float64(t)
	case int64:
		days = float64(t)
	case uint:
		days = float64(t)
	case uint32:
		days = float64(t)
	case uint64:
		days = float64(t)
	case string:
		if !serialRe.MatchString(t) {
			return models.Period{}, false
		}
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return models.Period{}, false
		}
		days = f
	default:
		return models.Period{}, false
	}
	if math.IsNaN(days) || days < serialMin || days >= serialMax+1 {
		return models.Period{}, false
	}
	return models.PeriodOf(serialEpoch.AddDate(0, 0, int(math.Floor(days)))), true
}

// matchScan cherche un seul nom de mois et une seule année à 4 chiffres dans un texte libre.
// Plusieurs mois ou années distincts : échec plutôt qu'un choix arbitraire.
func matchScan(v any) (models.Period, bool) {
	s, ok := v.(string)
	if !ok {
		return models.Period{}, false
	}
	lower := strings.ToLower(s)

	var month time.Month
	for _, w := range lettersRe.FindAllString(lower, -1) {
		m, ok := monthNames[w]
		if !ok {
			continue
		}
		if month != 0 && month != m {
			return models.Period{}, false
		}
		month = m
	}
	if month == 0 {
		return models.Period{}, false
	}

	year := -1
	for _, d := range digitsRe.FindAllString(lower, -1) {
		if len(d) != 4 {
			continue
		}
		y, _ := strconv.Atoi(d)
		if year != -1 && year != y {
			return models.Period{}, false
		}
		year = y
	}
	if year == -1 {
		return models.Period{}, false
	}
	return period(year, int(month))
}

func period(y, m int) (models.Period, bool) {
	p, err := models.NewPeriod(y, time.Month(m))
	if err != nil {
		return models.Period{}, false
	}
	return p, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

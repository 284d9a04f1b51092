package aggregate

import (
	"sort"
	"strings"

	"sales-ams/pkg/models"
)

// BySeries regroupe les Records par DimensionKey et somme les quantités par période.
// Les champs vides sont rangés sous models.Unspecified. Fonction pure.
func BySeries(records []models.Record) map[models.DimensionKey]models.TimeSeries {
	sums := make(map[models.DimensionKey]map[models.Period]float64)
	for _, r := range records {
		k := r.DimensionKey.Normalized()
		byPeriod, ok := sums[k]
		if !ok {
			byPeriod = make(map[models.Period]float64)
			sums[k] = byPeriod
		}
		byPeriod[r.Period] += r.Quantity
	}

	out := make(map[models.DimensionKey]models.TimeSeries, len(sums))
	for k, byPeriod := range sums {
		out[k] = models.TimeSeries{Key: k, Points: sortedPoints(byPeriod)}
	}
	return out
}

// SortedKeys retourne les clés d'une map de séries dans l'ordre de DimensionKey.Less.
func SortedKeys(series map[models.DimensionKey]models.TimeSeries) []models.DimensionKey {
	keys := make([]models.DimensionKey, 0, len(series))
	for k := range series {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// Bounds retourne la première et la dernière période observées.
func Bounds(records []models.Record) (first, last models.Period, ok bool) {
	for i, r := range records {
		if i == 0 || r.Period.Before(first) {
			first = r.Period
		}
		if i == 0 || r.Period.After(last) {
			last = r.Period
		}
	}
	return first, last, len(records) > 0
}

// InRange garde les Records dont la période appartient à l'intervalle.
func InRange(records []models.Record, rng models.PeriodRange) []models.Record {
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if rng.Contains(r.Period) {
			out = append(out, r)
		}
	}
	return out
}

// Monthly somme les quantités par période, triées chronologiquement.
func Monthly(records []models.Record) []models.PeriodTotal {
	byPeriod := make(map[models.Period]float64)
	for _, r := range records {
		byPeriod[r.Period] += r.Quantity
	}
	return sortedPoints(byPeriod)
}

// MonthlyBy produit une série mensuelle par valeur de la dimension (tendance par produit, etc.).
func MonthlyBy(records []models.Record, d models.Dimension) map[string][]models.PeriodTotal {
	groups := make(map[string][]models.Record)
	for _, r := range records {
		v := d.Of(r.DimensionKey)
		groups[v] = append(groups[v], r)
	}
	out := make(map[string][]models.PeriodTotal, len(groups))
	for v, rs := range groups {
		out[v] = Monthly(rs)
	}
	return out
}

// Totals somme les quantités groupées par une ou plusieurs dimensions,
// triées par valeur décroissante puis par libellé.
func Totals(records []models.Record, dims ...models.Dimension) []models.GroupTotal {
	return Group(records, func(r models.Record) (models.DimensionKey, float64) {
		return r.DimensionKey, r.Quantity
	}, dims...)
}

// Group est la forme générique de Totals : value extrait la clé et la valeur à sommer.
func Group[T any](items []T, value func(T) (models.DimensionKey, float64), dims ...models.Dimension) []models.GroupTotal {
	index := make(map[string]int)
	var out []models.GroupTotal
	for _, it := range items {
		k, v := value(it)
		labels := make([]string, len(dims))
		for i, d := range dims {
			labels[i] = d.Of(k)
		}
		id := strings.Join(labels, "\x00")
		i, ok := index[id]
		if !ok {
			i = len(out)
			index[id] = i
			out = append(out, models.GroupTotal{Labels: labels})
		}
		out[i].Value += v
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return strings.Join(out[i].Labels, "\x00") < strings.Join(out[j].Labels, "\x00")
	})
	return out
}

func sortedPoints(byPeriod map[models.Period]float64) []models.PeriodTotal {
	points := make([]models.PeriodTotal, 0, len(byPeriod))
	for p, q := range byPeriod {
		points = append(points, models.PeriodTotal{Period: p, Quantity: q})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Period.Before(points[j].Period) })
	return points
}

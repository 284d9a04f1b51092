package filter

import (
	"sort"

	"sales-ams/pkg/models"
)

// Predicate est une sélection compilée en ensembles de recherche.
// ET entre dimensions, OU entre valeurs d'une même dimension ; ensemble vide = pas de restriction.
type Predicate struct {
	sets map[models.Dimension]map[string]struct{}
}

// Compile prépare une sélection pour un filtrage en une passe.
func Compile(sel models.Selection) Predicate {
	p := Predicate{sets: make(map[models.Dimension]map[string]struct{})}
	for _, d := range models.AllDimensions {
		vals := sel.Values(d)
		if len(vals) == 0 {
			continue
		}
		set := make(map[string]struct{}, len(vals))
		for _, v := range vals {
			set[v] = struct{}{}
		}
		p.sets[d] = set
	}
	return p
}

// IsEmpty est vrai si le prédicat accepte tout.
func (p Predicate) IsEmpty() bool { return len(p.sets) == 0 }

// Match teste une clé contre toutes les dimensions restreintes.
func (p Predicate) Match(k models.DimensionKey) bool {
	for d, set := range p.sets {
		if _, ok := set[d.Of(k)]; !ok {
			return false
		}
	}
	return true
}

// Apply retourne, dans l'ordre d'origine, les éléments dont la clé passe la sélection.
// Une sélection vide retourne items tel quel. Le résultat peut être vide, ce n'est pas une erreur.
func Apply[T any](items []T, sel models.Selection, keyOf func(T) models.DimensionKey) []T {
	p := Compile(sel)
	if p.IsEmpty() {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if p.Match(keyOf(it)) {
			out = append(out, it)
		}
	}
	return out
}

// Records filtre des enregistrements normalisés.
func Records(records []models.Record, sel models.Selection) []models.Record {
	return Apply(records, sel, func(r models.Record) models.DimensionKey { return r.DimensionKey })
}

// Options retourne les valeurs distinctes triées d'une dimension.
func Options(records []models.Record, d models.Dimension) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range records {
		v := d.Of(r.DimensionKey)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// TownshipOptions limite les townships proposés à ceux des régions choisies.
// Sans région choisie, tous les townships sont proposés.
func TownshipOptions(records []models.Record, regions []string) []string {
	if len(regions) == 0 {
		return Options(records, models.DimTownship)
	}
	return Options(Records(records, models.Selection{Regions: regions}), models.DimTownship)
}

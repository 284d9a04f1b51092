package aggregate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"sales-ams/pkg/models"
	"sales-ams/pkg/period"
)

// Normalize convertit les lignes brutes en Records.
// Une ligne dont la période ou la quantité est illisible est écartée et reportée dans skipped ;
// le lot continue.
func Normalize(raw []models.RawRecord, n *period.Normalizer) (records []models.Record, skipped []models.SkippedRecord) {
	if n == nil {
		n = period.New()
	}
	records = make([]models.Record, 0, len(raw))
	for _, r := range raw {
		res, err := n.Normalize(r.Period)
		if err != nil {
			skipped = append(skipped, models.SkippedRecord{
				Row: r.Row, Value: fmt.Sprint(r.Period), Reason: err.Error(), Err: err,
			})
			continue
		}
		qty, err := ParseQuantity(r.Quantity)
		if err != nil {
			skipped = append(skipped, models.SkippedRecord{
				Row: r.Row, Value: fmt.Sprint(r.Quantity), Reason: err.Error(), Err: err,
			})
			continue
		}
		key := models.DimensionKey{
			Product:      r.Product,
			CustomerType: r.CustomerType,
			Township:     r.Township,
			Region:       r.Region,
		}
		records = append(records, models.Record{
			Period:       res.Period,
			DimensionKey: key.Normalized(),
			Quantity:     qty,
		})
	}
	return records, skipped
}

// ParseQuantity accepte un nombre ou une chaîne ("1,250", " 42 ").
// Les quantités négatives, NaN ou infinies sont refusées.
func ParseQuantity(v any) (float64, error) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case int32:
		f = float64(t)
	case uint:
		f = float64(t)
	case uint64:
		f = float64(t)
	case []byte:
		return ParseQuantity(string(t))
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(t), ",", "")
		if s == "" {
			return 0, fmt.Errorf("%w: valeur vide", models.ErrInvalidQuantity)
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", models.ErrInvalidQuantity, t)
		}
		f = parsed
	case nil:
		return 0, fmt.Errorf("%w: valeur vide", models.ErrInvalidQuantity)
	default:
		return 0, fmt.Errorf("%w: type %T", models.ErrInvalidQuantity, v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, fmt.Errorf("%w: %v", models.ErrInvalidQuantity, f)
	}
	return f, nil
}

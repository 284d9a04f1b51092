package export

import (
	"fmt"
	"io"
	"math/rand/v2"

	"sales-ams/pkg/ingest"
	"sales-ams/pkg/models"
)

// TemplateSheet est la feuille du modèle de saisie.
const TemplateSheet = "Sales Data"

var (
	templateProducts      = []string{"Product A", "Product B"}
	templateCustomerTypes = []string{"Retail", "Wholesale"}
	templateTownships     = []string{"Township 1", "Township 2"}
	templateRegions       = []string{"Region 1", "Region 2"}
)

// TemplateRows génère 12 mois d'exemples finissant à last, au format "Jan-2024".
// Les quantités (50..499) sont déterministes pour une graine donnée.
func TemplateRows(last models.Period, seed uint64) [][]any {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	var rows [][]any
	for i := 11; i >= 0; i-- {
		month := last.AddMonths(-i).String()
		for _, product := range templateProducts {
			for _, ct := range templateCustomerTypes {
				for _, township := range templateTownships {
					for _, region := range templateRegions {
						rows = append(rows, []any{month, product, ct, township, region, 50 + rng.IntN(450)})
					}
				}
			}
		}
	}
	return rows
}

// WriteTemplate écrit le modèle de saisie (en-tête stylé, colonnes attendues par l'ingestion).
func WriteTemplate(out io.Writer, last models.Period, seed uint64) error {
	w, err := New()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.table(TemplateSheet, ingest.Headers, TemplateRows(last, seed)); err != nil {
		return fmt.Errorf("template: %w", err)
	}
	if err := w.f.SetColWidth(TemplateSheet, "B", "B", 20); err != nil {
		return err
	}
	_, err = w.WriteTo(out)
	return err
}

package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"sales-ams/pkg/models"

	"github.com/xuri/excelize/v2"
)

// Column identifie une colonne obligatoire d'un fichier de ventes.
type Column int

const (
	ColPeriod Column = iota
	ColProduct
	ColCustomerType
	ColTownship
	ColRegion
	ColQuantity
)

// Headers : en-têtes attendus, dans l'ordre du modèle de saisie.
var Headers = []string{"Mth-yr", "Product", "Customer Type", "Township", "Region", "Sales Qty"}

// ReadFile choisit le lecteur selon l'extension (.csv, .xlsx, .xlsm).
func ReadFile(path string) ([]models.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(f)
	case ".xlsx", ".xlsm":
		return ReadXLSX(f, "")
	}
	return nil, fmt.Errorf("format non supporté: %s", filepath.Ext(path))
}

// ReadCSV lit un fichier CSV avec ligne d'en-tête.
func ReadCSV(r io.Reader) ([]models.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	return FromRows(rows)
}

// ReadXLSX lit la feuille sheet (la première si vide). Les valeurs brutes des cellules sont
// conservées : une date Excel arrive sous forme de numéro de série.
func ReadXLSX(r io.Reader, sheet string) ([]models.RawRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("xlsx: aucune feuille")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("xlsx %s: %w", sheet, err)
	}
	return FromRows(rows)
}

// FromRows convertit une grille (en-tête + données) en RawRecords.
// Les lignes entièrement vides sont ignorées ; Row reprend le numéro de ligne du fichier.
func FromRows(rows [][]string) ([]models.RawRecord, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: fichier vide", models.ErrMissingColumns)
	}
	idx, err := locate(rows[0])
	if err != nil {
		return nil, err
	}

	out := make([]models.RawRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		cell := func(c Column) string {
			j := idx[c]
			if j >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[j])
		}
		out = append(out, models.RawRecord{
			Row:          i + 2,
			Period:       cell(ColPeriod),
			Product:      cell(ColProduct),
			CustomerType: cell(ColCustomerType),
			Township:     cell(ColTownship),
			Region:       cell(ColRegion),
			Quantity:     cell(ColQuantity),
		})
	}
	return out, nil
}

// locate associe chaque colonne obligatoire à son index ; les colonnes manquantes sont
// toutes listées dans l'erreur.
func locate(header []string) ([]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, dup := pos[key]; !dup {
			pos[key] = i
		}
	}
	idx := make([]int, len(Headers))
	var missing []string
	for c, h := range Headers {
		i, ok := pos[normalizeHeader(h)]
		if !ok {
			missing = append(missing, h)
			continue
		}
		idx[c] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrMissingColumns, strings.Join(missing, ", "))
	}
	return idx, nil
}

// normalizeHeader : "Customer Type", "customer_type", "CUSTOMER-TYPE" → "customertype".
func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(h)
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

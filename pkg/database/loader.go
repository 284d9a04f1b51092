package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"sales-ams/pkg/models"

	_ "github.com/go-sql-driver/mysql"
)

// DefaultTable est la table de ventes lue quand aucune n'est configurée.
const DefaultTable = "sales"

var identRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Open DSN mariadb:// ou mysql:// → format MySQL driver
func Open(dsn string) (*sql.DB, string, error) {
	mysqlDSN, err := toMySQLDSN(dsn)
	if err != nil {
		return nil, "", err
	}
	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		return nil, "", err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, mysqlDSN, nil
}

func toMySQLDSN(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "mariadb://") || strings.HasPrefix(dsn, "mysql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse dsn: %w", err)
		}
		user := ""
		pass := ""
		if u.User != nil {
			user = u.User.Username()
			pw, _ := u.User.Password()
			pass = pw
		}
		host := u.Host
		db := strings.TrimPrefix(u.Path, "/")
		if user == "" || host == "" || db == "" {
			return "", fmt.Errorf("dsn incomplet (user/host/db)")
		}
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&interpolateParams=true",
			user, pass, host, db), nil
	}
	return dsn, nil
}

// Columns nomme les colonnes de la table de ventes.
type Columns struct {
	Period       string `yaml:"period"`
	Product      string `yaml:"product"`
	CustomerType string `yaml:"customer_type"`
	Township     string `yaml:"township"`
	Region       string `yaml:"region"`
	Quantity     string `yaml:"quantity"`
}

// DefaultColumns : MthYr, Product, CustomerType, Township, Region, SalesQty.
func DefaultColumns() Columns {
	return Columns{
		Period:       "MthYr",
		Product:      "Product",
		CustomerType: "CustomerType",
		Township:     "Township",
		Region:       "Region",
		Quantity:     "SalesQty",
	}
}

func (c Columns) list() []string {
	return []string{c.Period, c.Product, c.CustomerType, c.Township, c.Region, c.Quantity}
}

// selectQuery construit la requête après validation des identifiants.
func selectQuery(table string, cols Columns) (string, error) {
	if !identRe.MatchString(table) {
		return "", fmt.Errorf("table invalide: %q", table)
	}
	quoted := make([]string, 0, 6)
	for _, c := range cols.list() {
		if !identRe.MatchString(c) {
			return "", fmt.Errorf("colonne invalide: %q", c)
		}
		quoted = append(quoted, "`"+c+"`")
	}
	return fmt.Sprintf("SELECT %s FROM `%s`", strings.Join(quoted, ", "), table), nil
}

// LoadRecords lit les lignes de ventes brutes. Les périodes et quantités sont transmises telles
// quelles (chaîne, DATE, nombre) : la normalisation reste à la charge du calculateur.
func LoadRecords(ctx context.Context, db *sql.DB, table string, cols Columns, verbose bool) ([]models.RawRecord, error) {
	q, err := selectQuery(table, cols)
	if err != nil {
		return nil, err
	}
	if verbose {
		log.Printf("[DEBUG] query: %s", q)
	}

	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var out []models.RawRecord
	n := 1 // en-tête logique : la première ligne de données porte le n° 2, comme dans un fichier
	for rows.Next() {
		n++
		var period, product, customerType, township, region, qty any
		if err := rows.Scan(&period, &product, &customerType, &township, &region, &qty); err != nil {
			return nil, fmt.Errorf("scan ligne %d: %w", n, err)
		}
		out = append(out, models.RawRecord{
			Row:          n,
			Period:       rawValue(period),
			Product:      textValue(product),
			CustomerType: textValue(customerType),
			Township:     textValue(township),
			Region:       textValue(region),
			Quantity:     rawValue(qty),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if verbose {
		log.Printf("[DEBUG] lignes lues=%d table=%s", len(out), table)
	}
	return out, nil
}

// rawValue convertit une valeur du driver : []byte → string, le reste inchangé.
func rawValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func textValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return strings.TrimSpace(string(t))
	case string:
		return strings.TrimSpace(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.Format("2006-01-02")
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

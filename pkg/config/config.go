package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"sales-ams/pkg/database"
	"sales-ams/pkg/models"
	"sales-ams/pkg/period"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Variables d'environnement reconnues (aussi lues depuis .env).
const (
	EnvDSN              = "SALES_AMS_DSN"
	EnvTable            = "SALES_AMS_TABLE"
	EnvWindowMonths     = "SALES_AMS_WINDOW_MONTHS"
	EnvExclusionPercent = "SALES_AMS_EXCLUSION_PERCENT"
	EnvWorkers          = "SALES_AMS_WORKERS"
)

// File est la forme YAML du fichier de configuration.
type File struct {
	Database struct {
		DSN     string            `yaml:"dsn"`
		Table   string            `yaml:"table"`
		Columns *database.Columns `yaml:"columns"`
	} `yaml:"database"`
	AMS struct {
		WindowMonths     int      `yaml:"window_months"`
		ExclusionPercent *float64 `yaml:"exclusion_percent"`
		Anchor           string   `yaml:"anchor"`
		AsOf             string   `yaml:"as_of"`
	} `yaml:"ams"`
	PercentIncrease float64          `yaml:"percent_increase"`
	Workers         int              `yaml:"workers"`
	Verbose         bool             `yaml:"verbose"`
	Selection       models.Selection `yaml:"selection"`
}

// Settings : paramètres de calcul et source de données résolus.
type Settings struct {
	Analysis models.Config
	DSN      string
	Table    string
	Columns  database.Columns
}

// Defaults retourne les réglages sans fichier ni environnement.
func Defaults() *Settings {
	return &Settings{
		Analysis: models.DefaultConfig(),
		Table:    database.DefaultTable,
		Columns:  database.DefaultColumns(),
	}
}

// Load : valeurs par défaut ← fichier YAML (si path non vide) ← .env ← environnement.
// Un .env absent n'est pas une erreur ; les variables déjà définies ne sont pas écrasées.
func Load(path, envFile string) (*Settings, error) {
	if err := LoadEnv(envFile); err != nil {
		return nil, err
	}
	s := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		var f File
		if err := yaml.UnmarshalStrict(data, &f); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
		if err := s.apply(f); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}
	if err := s.applyEnv(); err != nil {
		return nil, err
	}
	if err := s.Analysis.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return s, nil
}

// LoadEnv charge envFile (".env" par défaut) dans l'environnement du processus.
func LoadEnv(envFile string) error {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("env %s: %w", envFile, err)
	}
	return nil
}

func (s *Settings) apply(f File) error {
	if f.Database.DSN != "" {
		s.DSN = f.Database.DSN
	}
	if f.Database.Table != "" {
		s.Table = f.Database.Table
	}
	if c := f.Database.Columns; c != nil {
		s.Columns = mergeColumns(s.Columns, *c)
	}

	a := &s.Analysis
	if f.AMS.WindowMonths != 0 {
		a.WindowMonths = f.AMS.WindowMonths
	}
	if f.AMS.ExclusionPercent != nil {
		a.ExclusionPercent = *f.AMS.ExclusionPercent
	}
	if f.AMS.Anchor != "" {
		a.Anchor = models.Anchor(f.AMS.Anchor)
	}
	if f.AMS.AsOf != "" {
		p, err := period.Parse(f.AMS.AsOf)
		if err != nil {
			return fmt.Errorf("ams.as_of: %w", err)
		}
		a.AsOf = p
		if f.AMS.Anchor == "" {
			a.Anchor = models.AnchorAsOf
		}
	}
	a.PercentIncrease = f.PercentIncrease
	a.Workers = f.Workers
	a.Verbose = f.Verbose
	a.Selection = f.Selection
	return nil
}

func (s *Settings) applyEnv() error {
	if v := os.Getenv(EnvDSN); v != "" {
		s.DSN = v
	}
	if v := os.Getenv(EnvTable); v != "" {
		s.Table = v
	}
	if v := os.Getenv(EnvWindowMonths); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWindowMonths, err)
		}
		s.Analysis.WindowMonths = n
	}
	if v := os.Getenv(EnvExclusionPercent); v != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvExclusionPercent, err)
		}
		s.Analysis.ExclusionPercent = f
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		s.Analysis.Workers = n
	}
	return nil
}

// mergeColumns garde la valeur par défaut des colonnes non renseignées.
func mergeColumns(base, over database.Columns) database.Columns {
	pick := func(b, o string) string {
		if o != "" {
			return o
		}
		return b
	}
	return database.Columns{
		Period:       pick(base.Period, over.Period),
		Product:      pick(base.Product, over.Product),
		CustomerType: pick(base.CustomerType, over.CustomerType),
		Township:     pick(base.Township, over.Township),
		Region:       pick(base.Region, over.Region),
		Quantity:     pick(base.Quantity, over.Quantity),
	}
}

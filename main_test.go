package main

import (
	"errors"
	"testing"

	"sales-ams/pkg/models"
)

func TestApplyOverrides_Pct(t *testing.T) {
	// -pct 0 explicite : écrase la hausse du YAML.
	cfg := models.DefaultConfig()
	cfg.PercentIncrease = 10
	if err := applyOverrides(&cfg, options{pct: 0, set: map[string]bool{"pct": true}}); err != nil {
		t.Fatal(err)
	}
	if cfg.PercentIncrease != 0 {
		t.Fatalf("PercentIncrease = %v, want 0", cfg.PercentIncrease)
	}

	// -pct absent : la valeur du YAML reste.
	cfg.PercentIncrease = 10
	if err := applyOverrides(&cfg, options{set: map[string]bool{}}); err != nil {
		t.Fatal(err)
	}
	if cfg.PercentIncrease != 10 {
		t.Fatalf("PercentIncrease = %v, want 10", cfg.PercentIncrease)
	}
}

func TestApplyOverrides_AsOf(t *testing.T) {
	cfg := models.DefaultConfig()
	if err := applyOverrides(&cfg, options{asOf: "Jun-2024"}); err != nil {
		t.Fatal(err)
	}
	if cfg.Anchor != models.AnchorAsOf || cfg.AsOf.Year != 2024 || cfg.AsOf.Month != 6 {
		t.Fatalf("unexpected anchor: %v %v", cfg.Anchor, cfg.AsOf)
	}
	if err := applyOverrides(&cfg, options{asOf: "not a date"}); !errors.Is(err, models.ErrUnparsablePeriod) {
		t.Fatalf("err = %v, want ErrUnparsablePeriod", err)
	}
}

func TestDimensionOr(t *testing.T) {
	// Sans -dim : region en mode members, product en mode analysis.
	if d, _ := dimensionOr("", models.DimProduct); d != models.DimProduct {
		t.Fatalf("analysis default = %q", d)
	}
	if d, _ := dimensionOr("", models.DimRegion); d != models.DimRegion {
		t.Fatalf("members default = %q", d)
	}
	if d, _ := dimensionOr("township", models.DimProduct); d != models.DimTownship {
		t.Fatalf("explicit -dim ignored: %q", d)
	}
	if _, err := dimensionOr("color", models.DimProduct); !errors.Is(err, models.ErrUnknownDimension) {
		t.Fatalf("err = %v, want ErrUnknownDimension", err)
	}
}

func TestRunMatrix_SameDimension(t *testing.T) {
	raw := []models.RawRecord{
		{Row: 2, Period: "Jan-24", Product: "X", CustomerType: "Retail", Township: "T1", Region: "R1", Quantity: 10},
	}
	err := runMatrix(options{rows: "region", cols: "region"}, raw, models.DefaultConfig())
	if !errors.Is(err, models.ErrSameDimension) {
		t.Fatalf("err = %v, want ErrSameDimension", err)
	}
}

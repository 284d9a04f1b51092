package calculator

import (
	"context"
	"errors"
	"testing"
	"time"

	"sales-ams/pkg/models"
)

func sampleRaw() []models.RawRecord {
	row := func(n int, p any, product, region string, q any) models.RawRecord {
		return models.RawRecord{Row: n, Period: p, Product: product, CustomerType: "Retail", Township: "T1", Region: region, Quantity: q}
	}
	return []models.RawRecord{
		row(2, "Jan-24", "X", "R1", 100),
		row(3, "2024-02-01", "X", "R1", "110"),
		row(4, "03/2024", "X", "R1", 105.0),
		row(5, "April 2024", "X", "R1", 15),
		row(6, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), "X", "R1", 120),
		row(7, 45444.0, "X", "R1", 115), // 2024-06-01 en série Excel
		row(8, "Jun-24", "Y", "R2", 40),
		row(9, "not a date", "Y", "R2", 10),
		row(10, "Jun-24", "Y", "R2", "abc"),
	}
}

func TestRun_EndToEnd(t *testing.T) {
	cfg := models.DefaultConfig()
	cfg.PercentIncrease = 10

	res, err := Run(context.Background(), sampleRaw(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.RunID == "" {
		t.Fatal("missing run id")
	}
	if len(res.Skipped) != 2 {
		t.Fatalf("skipped = %d, want 2: %+v", len(res.Skipped), res.Skipped)
	}
	if !errors.Is(res.Skipped[0].Err, models.ErrUnparsablePeriod) || !errors.Is(res.Skipped[1].Err, models.ErrInvalidQuantity) {
		t.Fatalf("unexpected skip reasons: %+v", res.Skipped)
	}
	if want := (models.Period{Year: 2024, Month: time.June}); res.Reference != want {
		t.Fatalf("reference %v, want %v", res.Reference, want)
	}
	if len(res.AMS) != 2 || len(res.Targets) != 2 {
		t.Fatalf("unexpected result sizes: %d AMS, %d targets", len(res.AMS), len(res.Targets))
	}

	x := res.AMS[0]
	if x.Key.Product != "X" || !almost(x.FinalAMS, 110) || x.MonthsExcluded != 1 {
		t.Fatalf("unexpected AMS for X: %+v", x)
	}
	if !almost(res.Targets[0].TargetQty, 121) {
		t.Fatalf("target %v, want 121", res.Targets[0].TargetQty)
	}
	y := res.AMS[1]
	if y.Key.Product != "Y" || y.FinalAMS != 40 || !y.InsufficientHistory {
		t.Fatalf("unexpected AMS for Y: %+v", y)
	}
}

func TestRun_NoValidPeriods(t *testing.T) {
	raw := []models.RawRecord{{Row: 2, Period: "???", Product: "X", Quantity: 1}}
	res, err := Run(context.Background(), raw, models.DefaultConfig())
	if !errors.Is(err, models.ErrNoValidPeriods) {
		t.Fatalf("err = %v, want ErrNoValidPeriods", err)
	}
	if res == nil || len(res.Skipped) != 1 {
		t.Fatalf("skipped rows should still be reported: %+v", res)
	}
}

func TestRun_FilterWithoutMatch(t *testing.T) {
	cfg := models.DefaultConfig()
	cfg.Selection.Regions = []string{"Nowhere"}
	res, err := Run(context.Background(), sampleRaw(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.AMS) != 0 || len(res.Targets) != 0 || len(res.Records) != 0 {
		t.Fatalf("expected an empty result, got %+v", res)
	}
}

func TestRun_FilterAndAsOf(t *testing.T) {
	cfg := models.DefaultConfig()
	cfg.Selection.Products = []string{"X"}
	cfg.Anchor = models.AnchorAsOf
	cfg.AsOf = models.Period{Year: 2024, Month: time.March}
	cfg.Workers = 1

	res, err := Run(context.Background(), sampleRaw(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.AMS) != 1 {
		t.Fatalf("filter on product X should keep one series, got %d", len(res.AMS))
	}
	r := res.AMS[0]
	if r.Anchor != cfg.AsOf || r.TotalMonths != 3 || !almost(r.InitialAMS, 105) {
		t.Fatalf("unexpected as-of AMS: %+v", r)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := models.DefaultConfig()
	cfg.WindowMonths = 0
	if _, err := Run(context.Background(), sampleRaw(), cfg); err == nil {
		t.Fatal("expected a config error")
	}
}

func TestCompute_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bySeries := map[models.DimensionKey]models.TimeSeries{key: series(jan24, 1, 2, 3)}
	if _, _, err := Compute(ctx, bySeries, jan24.AddMonths(2), models.DefaultConfig()); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

package models

import (
	"errors"
	"testing"
	"time"
)

func TestPeriodArithmetic(t *testing.T) {
	p := Period{Year: 2024, Month: time.November}
	if got := p.AddMonths(3); got != (Period{Year: 2025, Month: time.February}) {
		t.Fatalf("AddMonths(3) = %v", got)
	}
	if got := p.AddMonths(-11); got != (Period{Year: 2023, Month: time.December}) {
		t.Fatalf("AddMonths(-11) = %v", got)
	}
	if PeriodFromIndex(p.Index()) != p {
		t.Fatal("PeriodFromIndex should invert Index")
	}
	if !p.Before(p.AddMonths(1)) {
		t.Fatal("unexpected ordering")
	}
}

func TestPeriodFormat(t *testing.T) {
	p := Period{Year: 2024, Month: time.January}
	if p.String() != "Jan-2024" || p.Numeric() != "01/2024" {
		t.Fatalf("got %q / %q", p.String(), p.Numeric())
	}
	if (Period{}).String() != "" {
		t.Fatal("zero period should render empty")
	}
	if PeriodOf(time.Date(2024, time.March, 31, 23, 0, 0, 0, time.UTC)) != (Period{Year: 2024, Month: time.March}) {
		t.Fatal("PeriodOf should truncate to the month")
	}
}

func TestNewPeriod(t *testing.T) {
	if _, err := NewPeriod(2024, 13); !errors.Is(err, ErrUnparsablePeriod) {
		t.Fatalf("month 13: err = %v", err)
	}
	if _, err := NewPeriod(0, time.May); !errors.Is(err, ErrUnparsablePeriod) {
		t.Fatalf("year 0: err = %v", err)
	}
	if p, err := NewPeriod(2024, time.May); err != nil || p.Month != time.May {
		t.Fatalf("NewPeriod = %v, %v", p, err)
	}
}

func TestPeriodRange(t *testing.T) {
	jan := Period{Year: 2024, Month: time.January}
	r := PeriodRange{From: jan, To: jan.AddMonths(2)}
	if err := r.Validate(); err != nil {
		t.Fatal(err)
	}
	if r.Len() != 3 || len(r.Months()) != 3 || !r.Contains(jan.AddMonths(1)) || r.Contains(jan.AddMonths(3)) {
		t.Fatalf("unexpected range behaviour: %v", r)
	}
	if r.String() != "Jan-2024..Mar-2024" || SinglePeriod(jan).String() != "Jan-2024" {
		t.Fatalf("unexpected String: %q", r.String())
	}

	c, ok := r.Clamp(jan.AddMonths(1), jan.AddMonths(10))
	if !ok || c.From != jan.AddMonths(1) || c.To != r.To {
		t.Fatalf("Clamp = %v, %v", c, ok)
	}
	if _, ok := r.Clamp(jan.AddMonths(5), jan.AddMonths(8)); ok {
		t.Fatal("disjoint clamp should report an empty intersection")
	}

	bad := PeriodRange{From: r.To, To: r.From}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("err = %v, want ErrInvalidRange", err)
	}
	if err := (PeriodRange{}).Validate(); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("err = %v, want ErrInvalidRange", err)
	}
}

func TestDimensions(t *testing.T) {
	for in, want := range map[string]Dimension{
		"Customer Type": DimCustomerType,
		"customer_type": DimCustomerType,
		"REGION":        DimRegion,
		"township":      DimTownship,
		"Product":       DimProduct,
	} {
		d, err := ParseDimension(in)
		if err != nil || d != want {
			t.Errorf("ParseDimension(%q) = %q, %v", in, d, err)
		}
	}
	if _, err := ParseDimension("color"); !errors.Is(err, ErrUnknownDimension) {
		t.Fatalf("err = %v, want ErrUnknownDimension", err)
	}

	k := DimensionKey{Product: " X ", Region: "North"}.Normalized()
	if k.Product != "X" || k.CustomerType != Unspecified || DimRegion.Of(k) != "North" {
		t.Fatalf("unexpected normalized key: %+v", k)
	}
	if DimCustomerType.Label() != "Customer Type" {
		t.Fatalf("label = %q", DimCustomerType.Label())
	}
}

func TestTimeSeries(t *testing.T) {
	jan := Period{Year: 2024, Month: time.January}
	s := TimeSeries{Points: []PeriodTotal{{jan, 10}, {jan.AddMonths(2), 30}}}
	if s.Quantity(jan.AddMonths(1)) != 0 || s.Quantity(jan.AddMonths(2)) != 30 {
		t.Fatal("Quantity should return 0 for gaps")
	}
	if p, ok := s.LatestAtOrBefore(jan.AddMonths(1)); !ok || p != jan {
		t.Fatalf("LatestAtOrBefore = %v, %v", p, ok)
	}
	if _, ok := s.LatestAtOrBefore(jan.AddMonths(-1)); ok {
		t.Fatal("no period before the series start")
	}
	if s.Total() != 40 {
		t.Fatalf("Total = %v", s.Total())
	}
}

func TestConfigValidate(t *testing.T) {
	c := DefaultConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config: %v", err)
	}
	c.Anchor = AnchorAsOf
	if err := c.Validate(); err == nil {
		t.Fatal("as_of without a period should fail")
	}
	c.AsOf = Period{Year: 2024, Month: time.June}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	c.ExclusionPercent = 100
	if err := c.Validate(); err == nil {
		t.Fatal("exclusion percent 100 should fail")
	}
	if !(Selection{}).IsEmpty() || (Selection{Regions: []string{"North"}}).IsEmpty() {
		t.Fatal("unexpected Selection.IsEmpty")
	}
}

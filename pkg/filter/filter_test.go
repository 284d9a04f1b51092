package filter

import (
	"reflect"
	"testing"
	"time"

	"sales-ams/pkg/models"
)

func rec(product, ct, township, region string, qty float64) models.Record {
	return models.Record{
		Period: models.Period{Year: 2024, Month: time.January},
		DimensionKey: models.DimensionKey{
			Product: product, CustomerType: ct, Township: township, Region: region,
		},
		Quantity: qty,
	}
}

var sample = []models.Record{
	rec("A", "Retail", "T1", "R1", 10),
	rec("B", "Retail", "T2", "R1", 20),
	rec("A", "Wholesale", "T3", "R2", 30),
	rec("C", "Corporate", "T1", "R1", 40),
	rec("B", "Wholesale", "T3", "R2", 50),
}

func TestRecords_EmptySelectionIsIdentity(t *testing.T) {
	got := Records(sample, models.Selection{})
	if !reflect.DeepEqual(got, sample) {
		t.Fatalf("empty selection changed the input: %v", got)
	}
}

func TestRecords_AndAcrossOrWithin(t *testing.T) {
	sel := models.Selection{
		Products:  []string{"A", "B"},
		Regions:   []string{"R2"},
		Townships: nil,
	}
	got := Records(sample, sel)
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].Quantity != 30 || got[1].Quantity != 50 {
		t.Fatalf("order not preserved: %v", got)
	}
}

func TestRecords_SubsetProperty(t *testing.T) {
	selections := []models.Selection{
		{Products: []string{"A"}},
		{CustomerTypes: []string{"Retail", "Corporate"}},
		{Townships: []string{"T1"}, Regions: []string{"R1"}},
		{Products: []string{"Z"}},
		{Regions: []string{"R1", "R2"}, CustomerTypes: []string{"Wholesale"}},
	}
	for _, sel := range selections {
		got := Records(sample, sel)
		j := 0
		for _, r := range got {
			for j < len(sample) && !reflect.DeepEqual(sample[j], r) {
				j++
			}
			if j == len(sample) {
				t.Fatalf("%+v: %v is not an ordered subset of the input", sel, got)
			}
			j++
		}
	}
}

func TestRecords_NoMatchIsEmptyNotError(t *testing.T) {
	got := Records(sample, models.Selection{Products: []string{"A"}, Regions: []string{"R9"}})
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestOptions(t *testing.T) {
	got := Options(sample, models.DimProduct)
	if !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Fatalf("got %v", got)
	}
}

func TestTownshipOptions(t *testing.T) {
	if got := TownshipOptions(sample, []string{"R2"}); !reflect.DeepEqual(got, []string{"T3"}) {
		t.Fatalf("R2 townships: got %v", got)
	}
	if got := TownshipOptions(sample, nil); !reflect.DeepEqual(got, []string{"T1", "T2", "T3"}) {
		t.Fatalf("all townships: got %v", got)
	}
}

package schema

import (
	"testing"

	"github.com/spektr-org/shoplytics/dataset"
)

func TestDescribeMatchesView(t *testing.T) {
	sch := Describe()
	view := dataset.Load().View()

	dims := map[string]bool{}
	for _, k := range view.DimensionKeys() {
		dims[k] = true
	}
	meas := map[string]bool{}
	for _, k := range view.MeasureKeys() {
		meas[k] = true
	}

	for _, k := range sch.DimensionKeys() {
		if !dims[k] {
			t.Errorf("schema dimension %q not exposed by the view", k)
		}
	}
	for _, k := range sch.MeasureKeys() {
		if !meas[k] {
			t.Errorf("schema measure %q not exposed by the view", k)
		}
	}
}

func TestColumnsExportOrder(t *testing.T) {
	cols := Describe().Columns()
	want := []string{"Date", "Product", "Category", "Price", "Quantity", "Revenue", "Discount",
		"Region", "CustomerID", "Age", "Gender", "JoinDate", "LoyaltyTier"}

	if len(cols) != len(want) {
		t.Fatalf("columns = %d, want %d", len(cols), len(want))
	}
	for i, w := range want {
		if cols[i].Header != w {
			t.Errorf("column %d = %q, want %q", i, cols[i].Header, w)
		}
	}
	if !cols[3].IsMeasure || cols[0].IsMeasure {
		t.Fatal("measure flags wrong")
	}
}

func TestColumnsSkipsUnknownKeys(t *testing.T) {
	sch := Describe()
	sch.ColumnOrder = []string{"revenue", "nope"}
	if cols := sch.Columns(); len(cols) != 1 || cols[0].Key != "revenue" {
		t.Fatalf("cols = %+v", cols)
	}
}

func TestFilterableKeys(t *testing.T) {
	got := Describe().FilterableKeys()
	want := []string{"product", "category", "region"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

package dashboard

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/spektr-org/shoplytics/dataset"
)

func TestParseControlsDefaults(t *testing.T) {
	defaults := DefaultControls(dataset.DefaultOptions())
	c, err := ParseControls(url.Values{}, defaults)
	if err != nil {
		t.Fatalf("ParseControls: %v", err)
	}
	if !c.Start.Equal(defaults.Start) || !c.End.Equal(defaults.End) {
		t.Errorf("range = %v..%v", c.Start, c.End)
	}
	if c.Categories != nil || c.Products != nil || c.Regions != nil {
		t.Errorf("absent params should leave selections unrestricted: %+v", c)
	}
	if c.TimeGrouping != GroupDaily || c.ShowRawData {
		t.Errorf("grouping=%q raw=%v", c.TimeGrouping, c.ShowRawData)
	}
	if !c.Filters().IsEmpty() {
		t.Error("default controls should not filter")
	}
}

func TestParseControlsValues(t *testing.T) {
	q := url.Values{
		"start":    {"2023-03-01"},
		"end":      {"2023-03-31 18:30"},
		"category": {"Electronics", "Books"},
		"region":   {"North,South"},
		"group":    {"weekly"},
		"raw":      {"true"},
	}
	c, err := ParseControls(q, DefaultControls(dataset.DefaultOptions()))
	if err != nil {
		t.Fatalf("ParseControls: %v", err)
	}

	if got := c.Start.Format("2006-01-02"); got != "2023-03-01" {
		t.Errorf("start = %s", got)
	}
	if want := time.Date(2023, 3, 31, 18, 30, 0, 0, time.UTC); !c.End.Equal(want) {
		t.Errorf("end = %v", c.End)
	}
	if len(c.Categories) != 2 || c.Categories[1] != "Books" {
		t.Errorf("categories = %v", c.Categories)
	}
	if len(c.Regions) != 2 || c.Regions[0] != "North" || c.Regions[1] != "South" {
		t.Errorf("regions = %v", c.Regions)
	}
	if c.TimeGrouping != GroupWeekly || !c.ShowRawData {
		t.Errorf("grouping=%q raw=%v", c.TimeGrouping, c.ShowRawData)
	}

	f := c.Filters()
	if !f.Restricts(dataset.DimCategory) || f.Restricts(dataset.DimProduct) {
		t.Errorf("filters = %+v", f)
	}
}

func TestParseControlsBlankSelectsNothing(t *testing.T) {
	c, err := ParseControls(url.Values{"product": {""}}, DefaultControls(dataset.DefaultOptions()))
	if err != nil {
		t.Fatalf("ParseControls: %v", err)
	}
	if c.Products == nil || len(c.Products) != 0 {
		t.Fatalf("products = %#v, want empty non-nil", c.Products)
	}
	f := c.Filters()
	if !f.Restricts(dataset.DimProduct) {
		t.Fatal("blank product param should restrict to nothing")
	}
}

func TestParseControlsErrors(t *testing.T) {
	defaults := DefaultControls(dataset.DefaultOptions())
	cases := []struct {
		name string
		q    url.Values
		want error
	}{
		{"bad start", url.Values{"start": {"03/01/2023"}}, ErrInvalidDate},
		{"bad end", url.Values{"end": {"2023-13-01"}}, ErrInvalidDate},
		{"reversed", url.Values{"start": {"2023-06-01"}, "end": {"2023-05-01"}}, ErrInvalidRange},
		{"grouping", url.Values{"group": {"Hourly"}}, ErrInvalidGrouping},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseControls(tc.q, defaults)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}

	if _, err := ParseControls(url.Values{"raw": {"maybe"}}, defaults); err == nil {
		t.Fatal("expected error for raw=maybe")
	}
}

func TestBucketFor(t *testing.T) {
	if bucketFor(GroupWeekly) != "week" || bucketFor(GroupMonthly) != "month" || bucketFor("") != "day" {
		t.Fatal("bucket mapping wrong")
	}
}

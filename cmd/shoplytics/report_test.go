package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/shoplytics/dashboard"
	"github.com/spektr-org/shoplytics/dataset"
)

func newControlsCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addControlFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return cmd
}

func TestControlsFromFlags(t *testing.T) {
	cmd := newControlsCmd(t,
		"--start", "2023-02-01",
		"--end", "2023-02-28",
		"--region", "North,West",
		"--group", "monthly",
		"--raw",
	)
	c, err := controlsFromFlags(cmd, dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("controlsFromFlags: %v", err)
	}
	if c.Start.Format("2006-01-02") != "2023-02-01" || c.End.Format("2006-01-02") != "2023-02-28" {
		t.Errorf("range = %v..%v", c.Start, c.End)
	}
	if len(c.Regions) != 2 || c.Categories != nil {
		t.Errorf("regions = %v categories = %v", c.Regions, c.Categories)
	}
	if c.TimeGrouping != dashboard.GroupMonthly || !c.ShowRawData {
		t.Errorf("grouping = %q raw = %v", c.TimeGrouping, c.ShowRawData)
	}
}

func TestControlsFromFlagsEmptySelection(t *testing.T) {
	cmd := newControlsCmd(t, "--category=")
	c, err := controlsFromFlags(cmd, dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("controlsFromFlags: %v", err)
	}
	if c.Categories == nil || len(c.Categories) != 0 {
		t.Fatalf("categories = %#v, want empty selection", c.Categories)
	}
}

func TestControlsFromFlagsRejectsBadGrouping(t *testing.T) {
	cmd := newControlsCmd(t, "--group", "hourly")
	if _, err := controlsFromFlags(cmd, dataset.DefaultOptions()); err == nil {
		t.Fatal("expected error")
	}
}

func sampleDashboard(t *testing.T) *dashboard.Dashboard {
	t.Helper()
	opts := dataset.DefaultOptions()
	opts.End = time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC)
	c := dashboard.DefaultControls(opts)
	c.TimeGrouping = dashboard.GroupWeekly
	return dashboard.Build(context.Background(), dataset.Generate(opts).View(), c)
}

func TestWriteReportFormats(t *testing.T) {
	d := sampleDashboard(t)

	var buf bytes.Buffer
	if err := writeReport(&buf, d, "json"); err != nil {
		t.Fatalf("json: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json output invalid: %v", err)
	}
	if _, ok := decoded["kpis"]; !ok {
		t.Fatal("json output missing kpis")
	}

	buf.Reset()
	if err := writeReport(&buf, d, "yaml"); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("yaml output invalid: %v", err)
	}
	if _, ok := doc["salesOverview"]; !ok {
		t.Fatalf("yaml keys = %v", keys(doc))
	}

	buf.Reset()
	if err := writeReport(&buf, d, "csv"); err != nil {
		t.Fatalf("csv: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Metric,Value", "Total Revenue,", "Category,Revenue", "Product,Revenue,Units Sold,Avg. Discount", "Date,Revenue ($)"} {
		if !strings.Contains(out, want) {
			t.Errorf("csv report missing %q", want)
		}
	}
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

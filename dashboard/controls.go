package dashboard

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spektr-org/shoplytics/dataset"
	"github.com/spektr-org/shoplytics/engine"
	"github.com/spektr-org/shoplytics/internal/errs"
)

// Time groupings offered by the sales trend.
const (
	GroupDaily   = "Daily"
	GroupWeekly  = "Weekly"
	GroupMonthly = "Monthly"
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidRange    = errors.New("start date is after end date")
	ErrInvalidGrouping = errors.New("invalid time grouping")
)

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Controls are the sidebar state driving one dashboard render.
//
// A nil selection leaves its dimension unrestricted. A non-nil empty
// selection matches no rows.
type Controls struct {
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Categories   []string  `json:"categories"`
	Products     []string  `json:"products"`
	Regions      []string  `json:"regions"`
	TimeGrouping string    `json:"timeGrouping"`
	ShowRawData  bool      `json:"showRawData"`
}

// DefaultControls selects the full date range of opts, every value of every
// dimension, and a daily trend.
func DefaultControls(opts dataset.Options) Controls {
	return Controls{
		Start:        opts.Start,
		End:          opts.End,
		TimeGrouping: GroupDaily,
	}
}

// Filters converts the selections into engine filters.
func (c Controls) Filters() engine.Filters {
	var f engine.Filters
	if c.Categories != nil {
		f = f.With(dataset.DimCategory, c.Categories...)
	}
	if c.Products != nil {
		f = f.With(dataset.DimProduct, c.Products...)
	}
	if c.Regions != nil {
		f = f.With(dataset.DimRegion, c.Regions...)
	}
	return f
}

// ParseControls reads controls from query parameters, falling back to
// defaults for anything absent.
//
//	start, end   YYYY-MM-DD, optionally with HH:MM or HH:MM:SS
//	category     repeatable; given only with blank values selects nothing
//	product      repeatable
//	region       repeatable
//	group        Daily, Weekly or Monthly
//	raw          boolean
func ParseControls(q url.Values, defaults Controls) (Controls, error) {
	c := defaults

	if v := strings.TrimSpace(q.Get("start")); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return Controls{}, errs.Wrap(err, "start")
		}
		c.Start = t
	}
	if v := strings.TrimSpace(q.Get("end")); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return Controls{}, errs.Wrap(err, "end")
		}
		c.End = t
	}
	if !c.Start.IsZero() && !c.End.IsZero() && c.Start.After(c.End) {
		return Controls{}, errs.Wrapf(ErrInvalidRange, "%s > %s",
			c.Start.Format(engine.DateLayout), c.End.Format(engine.DateLayout))
	}

	if sel, ok := selection(q, "category"); ok {
		c.Categories = sel
	}
	if sel, ok := selection(q, "product"); ok {
		c.Products = sel
	}
	if sel, ok := selection(q, "region"); ok {
		c.Regions = sel
	}

	if v := strings.TrimSpace(q.Get("group")); v != "" {
		g, err := parseGrouping(v)
		if err != nil {
			return Controls{}, err
		}
		c.TimeGrouping = g
	}

	if v := strings.TrimSpace(q.Get("raw")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Controls{}, errs.Wrapf(err, "raw %q", v)
		}
		c.ShowRawData = b
	}

	return c, nil
}

// selection returns the non-blank values of a repeated parameter. A present
// parameter always yields a non-nil slice.
func selection(q url.Values, key string) ([]string, bool) {
	raw, ok := q[key]
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out, true
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errs.Wrapf(ErrInvalidDate, "%q", s)
}

func parseGrouping(s string) (string, error) {
	for _, g := range []string{GroupDaily, GroupWeekly, GroupMonthly} {
		if strings.EqualFold(s, g) {
			return g, nil
		}
	}
	return "", errs.Wrapf(ErrInvalidGrouping, "%q", s)
}

// bucketFor maps a time grouping onto an engine time bucket.
func bucketFor(grouping string) string {
	switch grouping {
	case GroupWeekly:
		return engine.BucketWeek
	case GroupMonthly:
		return engine.BucketMonth
	default:
		return engine.BucketDay
	}
}

// Package params maps dashboard state to and from URL query parameters.
//
// A selection is encoded as tab and mode plus the fields of that tab:
//
//	day    date | start, end            (YYYY-MM-DD)
//	week   year, week | year, start_week, end_week
//	month  year, month | year, start_month, end_month
//
// A query without a tab selects today.
package params

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/cctvdash/internal/analytics"
	"github.com/MrJamesThe3rd/cctvdash/internal/selection"
)

var ErrBadParam = errors.New("bad query parameter")

const dateLayout = "2006-01-02"

// Selection decodes and validates the selection carried by q.
func Selection(q url.Values, clock selection.Clock) (selection.Selection, error) {
	if q.Get("tab") == "" {
		return selection.Default(clock), nil
	}

	tab, err := selection.ParseTab(q.Get("tab"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadParam, err)
	}

	mode, err := selection.ParseMode(q.Get("mode"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadParam, err)
	}

	p := parser{q: q}

	var sel selection.Selection

	switch {
	case tab == selection.TabDay && mode == selection.ModeSingle:
		sel = selection.SingleDay(p.date("date"))
	case tab == selection.TabDay:
		sel = selection.Day{Mode: selection.ModeRange, Start: p.date("start"), End: p.date("end")}
	case tab == selection.TabWeek && mode == selection.ModeSingle:
		sel = selection.SingleWeek(p.int("year"), p.int("week"))
	case tab == selection.TabWeek:
		from, to := p.int("start_week"), p.int("end_week")
		sel = selection.Week{Mode: selection.ModeRange, Year: p.int("year"), Week: from, StartWeek: from, EndWeek: to}
	case mode == selection.ModeSingle:
		sel = selection.SingleMonth(p.int("year"), time.Month(p.int("month")))
	default:
		from, to := time.Month(p.int("start_month")), time.Month(p.int("end_month"))
		sel = selection.Month{Mode: selection.ModeRange, Year: p.int("year"), Month: from, StartMonth: from, EndMonth: to}
	}

	if p.err != nil {
		return nil, p.err
	}

	if err := selection.Validate(sel); err != nil {
		return nil, err
	}

	return sel, nil
}

// Encode is the inverse of Selection.
func Encode(sel selection.Selection) url.Values {
	q := url.Values{}
	if sel == nil {
		return q
	}

	q.Set("tab", strings.ToLower(sel.Tab().String()))
	q.Set("mode", selection.ModeOf(sel).String())

	switch v := sel.(type) {
	case selection.Day:
		if v.Ranged() {
			q.Set("start", v.Start.Format(dateLayout))
			q.Set("end", v.End.Format(dateLayout))
		} else {
			q.Set("date", v.Start.Format(dateLayout))
		}
	case selection.Week:
		q.Set("year", strconv.Itoa(v.Year))
		if v.Ranged() {
			q.Set("start_week", strconv.Itoa(v.StartWeek))
			q.Set("end_week", strconv.Itoa(v.EndWeek))
		} else {
			q.Set("week", strconv.Itoa(v.Week))
		}
	case selection.Month:
		q.Set("year", strconv.Itoa(v.Year))
		if v.Ranged() {
			q.Set("start_month", strconv.Itoa(int(v.StartMonth)))
			q.Set("end_month", strconv.Itoa(int(v.EndMonth)))
		} else {
			q.Set("month", strconv.Itoa(int(v.Month)))
		}
	}

	return q
}

// Page reads page and limit. Missing values are left at zero so the service
// defaults apply.
func Page(q url.Values) (analytics.PageRequest, error) {
	p := parser{q: q}
	req := analytics.PageRequest{Page: p.optInt("page"), Limit: p.optInt("limit")}

	if req.Limit > 100 {
		req.Limit = 100
	}

	return req, p.err
}

// Bool reports whether key is set to a true value ("1", "true", "yes", "on").
func Bool(q url.Values, key string) bool {
	switch strings.ToLower(q.Get(key)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Language prefers an explicit ?lang= over the Accept-Language header.
func Language(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return lang
	}
	return r.Header.Get("Accept-Language")
}

// parser records the first conversion error so decoders can read every
// field before checking.
type parser struct {
	q   url.Values
	err error
}

func (p *parser) fail(key, value string) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: %s=%q", ErrBadParam, key, value)
	}
}

func (p *parser) int(key string) int {
	s := p.q.Get(key)

	n, err := strconv.Atoi(s)
	if err != nil {
		p.fail(key, s)
		return 0
	}

	return n
}

func (p *parser) optInt(key string) int {
	if p.q.Get(key) == "" {
		return 0
	}
	return p.int(key)
}

func (p *parser) date(key string) time.Time {
	s := p.q.Get(key)

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		p.fail(key, s)
		return time.Time{}
	}

	return t
}

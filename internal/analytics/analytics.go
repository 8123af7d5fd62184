package analytics

import (
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cctvdash/internal/calendar"
	"github.com/MrJamesThe3rd/cctvdash/internal/selection"
)

// Status of a parking event as reported by the detector.
type Status string

const (
	StatusViolate Status = "Violate"
	StatusNormal  Status = "Normal"
)

// KPI holds the headline numbers of the violation summary. Durations are in
// minutes.
type KPI struct {
	TotalViolations      int             `json:"totalViolations"`
	TotalParkingSessions int             `json:"total_parking_sessions"`
	OngoingViolations    int             `json:"ongoingViolations"`
	AvgViolationDuration decimal.Decimal `json:"avgViolationDuration"`
	AvgNormalParkingTime decimal.Decimal `json:"avgNormalParkingTime"`
	OnlineBranches       int             `json:"onlineBranches"`
}

// ViolationRate is the share of sessions that were violations, as a
// percentage rounded to one decimal.
func (k KPI) ViolationRate() decimal.Decimal {
	if k.TotalParkingSessions == 0 {
		return decimal.Zero
	}

	return decimal.NewFromInt(int64(k.TotalViolations)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(k.TotalParkingSessions))).
		Round(1)
}

type ChartPoint struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

type TopBranch struct {
	Name  string `json:"name"`
	Code  string `json:"code"`
	Count int    `json:"count"`
}

// Summary is the response of /parking_violations/summary.
type Summary struct {
	KPI         KPI          `json:"kpi"`
	ChartData   []ChartPoint `json:"chart_data"`
	TopBranches []TopBranch  `json:"top_branches"`
}

type BranchRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CameraRef struct {
	ID string `json:"id"`
}

// Event is one parking session seen by a camera.
type Event struct {
	ID                   int             `json:"id"`
	Status               Status          `json:"status"`
	Timestamp            Timestamp       `json:"timestamp"`
	Branch               BranchRef       `json:"branch"`
	Camera               CameraRef       `json:"camera"`
	VehicleID            string          `json:"vehicleId"`
	EntryTime            Timestamp       `json:"entryTime"`
	ExitTime             *Timestamp      `json:"exitTime"`
	DurationMinutes      decimal.Decimal `json:"durationMinutes"`
	IsViolation          bool            `json:"isViolation"`
	TotalParkingSessions int             `json:"total_parking_sessions"`
	ImageBase64          string          `json:"imageBase64,omitempty"`
	EvidenceImageURL     string          `json:"evidenceImageUrl,omitempty"`
}

// Ongoing reports whether the vehicle has not left yet.
func (e Event) Ongoing() bool {
	return e.ExitTime == nil || e.ExitTime.IsZero()
}

// Page is the pagination envelope shared by paged responses.
type Page struct {
	TotalItems  int `json:"total_items"`
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
}

func (p Page) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

type EventsPage struct {
	Page
	Events []Event `json:"events"`
}

type BranchesPage struct {
	Page
	Branches []TopBranch `json:"branches"`
}

// GroupBy is the chart bucket size requested from the backend.
type GroupBy string

const (
	GroupByHour  GroupBy = "hour"
	GroupByDay   GroupBy = "day"
	GroupByWeek  GroupBy = "week"
	GroupByMonth GroupBy = "month"
)

// GroupByFor picks hourly buckets for a single day, weekly for week ranges,
// monthly for month ranges and daily otherwise.
func GroupByFor(sel selection.Selection) GroupBy {
	if sel == nil {
		return GroupByDay
	}

	switch {
	case sel.Tab() == selection.TabDay && !sel.Ranged():
		return GroupByHour
	case sel.Tab() == selection.TabWeek && sel.Ranged():
		return GroupByWeek
	case sel.Tab() == selection.TabMonth && sel.Ranged():
		return GroupByMonth
	}

	return GroupByDay
}

const dateLayout = "2006-01-02"

// Filter narrows every analytics query.
type Filter struct {
	BranchID      string
	Range         calendar.Range
	ViolationOnly bool
	GroupBy       GroupBy
}

// NewFilter resolves sel into a filter for branchID.
func NewFilter(sel selection.Selection, clock selection.Clock, branchID string, violationOnly bool) Filter {
	return Filter{
		BranchID:      branchID,
		Range:         selection.Resolve(sel, clock),
		ViolationOnly: violationOnly,
		GroupBy:       GroupByFor(sel),
	}
}

// Query holds the query parameters sent for the filter.
func (f Filter) Query() url.Values {
	q := url.Values{}
	if f.BranchID != "" {
		q.Set("branch_id", f.BranchID)
	}
	if !f.Range.Start.IsZero() {
		q.Set("start_date", f.Range.Start.Format(dateLayout))
	}
	if !f.Range.End.IsZero() {
		q.Set("end_date", f.Range.End.Format(dateLayout))
	}
	return q
}

// PageRequest addresses one page of a paged endpoint. Pages are 1-based.
type PageRequest struct {
	Page  int
	Limit int
}

func (p PageRequest) apply(q url.Values) {
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("limit", strconv.Itoa(p.Limit))
}

func (p PageRequest) normalize(defaultLimit int) PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	return p
}

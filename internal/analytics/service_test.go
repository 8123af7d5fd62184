package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/cctvdash/internal/analytics"
	"github.com/MrJamesThe3rd/cctvdash/internal/selection"
)

func TestService_Overview(t *testing.T) {
	filter := analytics.Filter{BranchID: "B001", Range: marchWeek()}

	type testCase struct {
		name      string
		page      analytics.PageRequest
		setupMock func(m *analytics.MockSource)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			page: analytics.PageRequest{},
			setupMock: func(m *analytics.MockSource) {
				m.EXPECT().Summary(gomock.Any(), filter).
					Return(&analytics.Summary{KPI: analytics.KPI{TotalViolations: 3}}, nil)
				m.EXPECT().Events(gomock.Any(), filter, analytics.PageRequest{Page: 1, Limit: analytics.DefaultEventsLimit}).
					Return(&analytics.EventsPage{Events: []analytics.Event{{ID: 1}}}, nil)
			},
		},
		{
			name: "SummaryError",
			page: analytics.PageRequest{Page: 3, Limit: 5},
			setupMock: func(m *analytics.MockSource) {
				m.EXPECT().Summary(gomock.Any(), filter).Return(nil, errors.New("backend down"))
				m.EXPECT().Events(gomock.Any(), filter, analytics.PageRequest{Page: 3, Limit: 5}).
					DoAndReturn(func(ctx context.Context, _ analytics.Filter, _ analytics.PageRequest) (*analytics.EventsPage, error) {
						<-ctx.Done()
						return nil, ctx.Err()
					})
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			source := analytics.NewMockSource(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(source)
			}

			svc := analytics.NewService(source)
			got, err := svc.Overview(context.Background(), filter, tt.page)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, 3, got.Summary.KPI.TotalViolations)
			assert.Len(t, got.Events.Events, 1)
		})
	}
}

func TestService_BranchesDefaultLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := analytics.NewMockSource(ctrl)
	source.EXPECT().
		Branches(gomock.Any(), gomock.Any(), analytics.PageRequest{Page: 1, Limit: analytics.DefaultBranchesLimit}).
		Return(&analytics.BranchesPage{}, nil)

	_, err := analytics.NewService(source).Branches(context.Background(), analytics.Filter{}, analytics.PageRequest{Page: -4})
	require.NoError(t, err)
}

func TestService_EachEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := analytics.NewMockSource(ctrl)
	gomock.InOrder(
		source.EXPECT().Events(gomock.Any(), gomock.Any(), analytics.PageRequest{Page: 1, Limit: 2}).
			Return(&analytics.EventsPage{
				Page:   analytics.Page{TotalItems: 3, TotalPages: 2, CurrentPage: 1},
				Events: []analytics.Event{{ID: 1}, {ID: 2}},
			}, nil),
		source.EXPECT().Events(gomock.Any(), gomock.Any(), analytics.PageRequest{Page: 2, Limit: 2}).
			Return(&analytics.EventsPage{
				Page:   analytics.Page{TotalItems: 3, TotalPages: 2, CurrentPage: 2},
				Events: []analytics.Event{{ID: 3}},
			}, nil),
	)

	var ids []int
	err := analytics.NewService(source).EachEvent(context.Background(), analytics.Filter{}, 2, func(p *analytics.EventsPage) error {
		for _, e := range p.Events {
			ids = append(ids, e.ID)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ids)
}

func TestService_EachEventStopsOnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := analytics.NewMockSource(ctrl)
	source.EXPECT().Events(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&analytics.EventsPage{Page: analytics.Page{TotalPages: 5, CurrentPage: 1}, Events: []analytics.Event{{ID: 1}}}, nil)

	stop := errors.New("disk full")
	err := analytics.NewService(source).EachEvent(context.Background(), analytics.Filter{}, 1, func(*analytics.EventsPage) error {
		return stop
	})

	assert.ErrorIs(t, err, stop)
}

func TestGroupByFor(t *testing.T) {
	type testCase struct {
		name string
		sel  selection.Selection
		want analytics.GroupBy
	}

	tests := []testCase{
		{name: "SingleDay", sel: selection.SingleDay(time.Now()), want: analytics.GroupByHour},
		{name: "DayRange", sel: selection.DayRange(time.Now(), time.Now().AddDate(0, 0, 3)), want: analytics.GroupByDay},
		{name: "SingleWeek", sel: selection.SingleWeek(2025, 3), want: analytics.GroupByDay},
		{name: "WeekSpan", sel: selection.WeekSpan(2025, 3, 6), want: analytics.GroupByWeek},
		{name: "SingleMonth", sel: selection.SingleMonth(2025, time.May), want: analytics.GroupByDay},
		{name: "MonthSpan", sel: selection.MonthSpan(2025, time.May, time.July), want: analytics.GroupByMonth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analytics.GroupByFor(tt.sel))
		})
	}
}

func TestNewFilter(t *testing.T) {
	clock := selection.Clock{Location: bangkok, Now: func() time.Time { return time.Date(2025, 3, 12, 10, 0, 0, 0, bangkok) }}

	f := analytics.NewFilter(selection.SingleMonth(2025, time.February), clock, "B007", true)

	q := f.Query()
	assert.Equal(t, "B007", q.Get("branch_id"))
	assert.Equal(t, "2025-02-01", q.Get("start_date"))
	assert.Equal(t, "2025-02-28", q.Get("end_date"))
	assert.True(t, f.ViolationOnly)
	assert.Equal(t, analytics.GroupByDay, f.GroupBy)
}

package selection_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/MrJamesThe3rd/cctvdash/internal/selection"
)

func TestFormatter_Format(t *testing.T) {
	type testCase struct {
		name string
		lang string
		sel  selection.Selection
		want string
	}

	tests := []testCase{
		{name: "Today", lang: "en", sel: selection.SingleDay(day(2025, 3, 12)), want: "12/03/2025 (today)"},
		{name: "OtherDay", lang: "en", sel: selection.SingleDay(day(2025, 3, 4)), want: "04/03/2025"},
		{name: "DayRange", lang: "en", sel: selection.DayRange(day(2025, 1, 2), day(2025, 2, 9)), want: "2 Jan – 9 Feb 2025"},
		{name: "DayRangeAcrossYears", lang: "en", sel: selection.DayRange(day(2024, 12, 28), day(2025, 1, 3)), want: "28 Dec 2024 – 3 Jan 2025"},
		{name: "ThisWeek", lang: "en", sel: selection.SingleWeek(2025, 11), want: "Week 11 (10 March – 16 March), 2025 (this week)"},
		{name: "FirstWeek", lang: "en", sel: selection.SingleWeek(2025, 1), want: "Week 1 (30 December – 5 January), 2025"},
		{name: "WeekSpan", lang: "en", sel: selection.WeekSpan(2025, 10, 12), want: "Weeks 10–12 (3 Mar – 23 Mar), 2025"},
		{name: "ThisMonth", lang: "en", sel: selection.SingleMonth(2025, time.March), want: "March 2025 (this month)"},
		{name: "MonthSpan", lang: "en", sel: selection.MonthSpan(2025, time.February, time.May), want: "February – May 2025"},
		{name: "ThaiToday", lang: "th", sel: selection.SingleDay(day(2025, 3, 12)), want: "12/03/2025 (วันนี้)"},
		{name: "ThaiWeek", lang: "th-TH", sel: selection.SingleWeek(2025, 11), want: "สัปดาห์ที่ 11 (10 มีนาคม – 16 มีนาคม), 2025 (สัปดาห์นี้)"},
		{name: "ThaiWeekSpan", lang: "th", sel: selection.WeekSpan(2025, 10, 12), want: "สัปดาห์ที่ 10–12 (3 มี.ค. – 23 มี.ค.), 2025"},
		{name: "ThaiMonth", lang: "th", sel: selection.SingleMonth(2025, time.February), want: "กุมภาพันธ์ 2025"},
		{name: "ThaiMonthSpan", lang: "th", sel: selection.MonthSpan(2025, time.January, time.March), want: "มกราคม – มีนาคม 2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := selection.NewFormatter(tt.lang, fixedClock())
			assert.Equal(t, tt.want, f.Format(tt.sel))
		})
	}
}

func TestFormatter_Idempotent(t *testing.T) {
	f := selection.NewFormatter("th", fixedClock())

	for _, sel := range []selection.Selection{
		selection.SingleWeek(2020, 53),
		selection.DayRange(day(2025, 1, 1), day(2025, 1, 31)),
		selection.MonthSpan(2025, time.March, time.March),
	} {
		assert.Equal(t, f.Format(sel), f.Format(sel))
	}
}

func TestFormatter_DistinctLabels(t *testing.T) {
	f := selection.NewFormatter("en", fixedClock())
	seen := map[string]selection.Selection{}

	for y := 2020; y <= 2021; y++ {
		for w := 1; w <= 53; w++ {
			sel := selection.SingleWeek(y, w)
			if selection.Validate(sel) != nil {
				continue
			}
			label := f.Format(sel)
			_, dup := seen[label]
			assert.False(t, dup, label)
			seen[label] = sel
		}
	}
}

func TestFormatter_InvalidUsesDefault(t *testing.T) {
	f := selection.NewFormatter("en", fixedClock())
	assert.Equal(t, "12/03/2025 (today)", f.Format(selection.Month{Year: 2025}))
}

func TestFormatter_UpdatedUntil(t *testing.T) {
	th := selection.NewFormatter("th", fixedClock())
	en := selection.NewFormatter("en-GB", fixedClock())

	feb := selection.SingleMonth(2025, time.February)
	assert.Equal(t, "ข้อมูลอัปเดตถึง 28 กุมภาพันธ์ 2568", th.UpdatedUntil(feb))
	assert.Equal(t, "Data updated until 28 February 2025", en.UpdatedUntil(feb))
	assert.Equal(t, "Data updated until 5 January 2025", en.UpdatedUntil(selection.SingleWeek(2025, 1)))
}

func TestFormatter_Language(t *testing.T) {
	assert.Equal(t, language.Thai, selection.NewFormatter("", fixedClock()).Language())
	assert.Equal(t, language.Thai, selection.NewFormatter("fr", fixedClock()).Language())
	assert.Equal(t, language.Thai, selection.NewFormatter("fr-FR,de;q=0.8", fixedClock()).Language())
	assert.Equal(t, language.English, selection.NewFormatter("fr-FR,en;q=0.5", fixedClock()).Language())
	assert.Equal(t, language.English, selection.NewFormatter("en-US", fixedClock()).Language())
}

func TestFormatter_Weekdays(t *testing.T) {
	f := selection.NewFormatter("th", fixedClock())
	assert.Equal(t, [7]string{"อา", "จ", "อ", "พ", "พฤ", "ศ", "ส"}, f.Weekdays())
}

func TestFormatter_Number(t *testing.T) {
	f := selection.NewFormatter("en", fixedClock())
	assert.Equal(t, "1,234,567", f.Number(1234567))
}

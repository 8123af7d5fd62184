package view

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/MrJamesThe3rd/cctvdash/internal/analytics"
)

const dbTimeout = 5 * time.Second

// FormatMinutes renders a duration in minutes with one decimal.
func FormatMinutes(d decimal.Decimal) string {
	return d.StringFixed(1) + " min"
}

// FormatTime renders an event time in loc as YYYY-MM-DD HH:MM.
func FormatTime(t analytics.Timestamp, loc *time.Location) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(loc).Format("2006-01-02 15:04")
}

var statusLabels = map[language.Tag]map[analytics.Status]string{
	language.Thai: {
		analytics.StatusViolate: "ฝ่าฝืน",
		analytics.StatusNormal:  "ปกติ",
	},
	language.English: {
		analytics.StatusViolate: "Violation",
		analytics.StatusNormal:  "Normal",
	},
}

// StatusLabel renders an event status in lang. Statuses without a label are
// shown as reported.
func StatusLabel(s analytics.Status, lang language.Tag) string {
	if label, ok := statusLabels[lang][s]; ok {
		return label
	}
	return string(s)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

package selection

import (
	"golang.org/x/text/language"
)

type locale struct {
	months      [12]string
	shortMonths [12]string
	weekdays    [7]string

	today     string
	thisWeek  string
	thisMonth string

	week    string
	weeks   string
	updated string

	// eraOffset is added to Gregorian years in long dates.
	eraOffset int
}

var thai = locale{
	months: [12]string{
		"มกราคม", "กุมภาพันธ์", "มีนาคม", "เมษายน", "พฤษภาคม", "มิถุนายน",
		"กรกฎาคม", "สิงหาคม", "กันยายน", "ตุลาคม", "พฤศจิกายน", "ธันวาคม",
	},
	shortMonths: [12]string{
		"ม.ค.", "ก.พ.", "มี.ค.", "เม.ย.", "พ.ค.", "มิ.ย.",
		"ก.ค.", "ส.ค.", "ก.ย.", "ต.ค.", "พ.ย.", "ธ.ค.",
	},
	weekdays:  [7]string{"อา", "จ", "อ", "พ", "พฤ", "ศ", "ส"},
	today:     "วันนี้",
	thisWeek:  "สัปดาห์นี้",
	thisMonth: "เดือนนี้",
	week:      "สัปดาห์ที่ %d",
	weeks:     "สัปดาห์ที่ %d–%d",
	updated:   "ข้อมูลอัปเดตถึง %s",
	eraOffset: 543,
}

var english = locale{
	months: [12]string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
	shortMonths: [12]string{
		"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
	},
	weekdays:  [7]string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"},
	today:     "today",
	thisWeek:  "this week",
	thisMonth: "this month",
	week:      "Week %d",
	weeks:     "Weeks %d–%d",
	updated:   "Data updated until %s",
}

// Supported lists the label languages in preference order. The first entry
// is used when nothing matches.
var Supported = []language.Tag{language.Thai, language.English}

var (
	matcher = language.NewMatcher(Supported)
	locales = []locale{thai, english}
)

// matchLocale picks the closest supported language for the given BCP 47
// tags, e.g. "th-TH" or "en-GB,en;q=0.8".
func matchLocale(lang string) (language.Tag, locale) {
	tags, _, err := language.ParseAcceptLanguage(lang)
	if err != nil || len(tags) == 0 {
		return Supported[0], locales[0]
	}

	_, i, conf := matcher.Match(tags...)
	if conf == language.No {
		i = 0
	}
	return Supported[i], locales[i]
}

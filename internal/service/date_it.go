package service

import (
	"fmt"
	"time"
)

var (
	italianWeekdays = [...]string{
		"domenica", "lunedì", "martedì", "mercoledì",
		"giovedì", "venerdì", "sabato",
	}
	italianMonths = [...]string{
		"gennaio", "febbraio", "marzo", "aprile", "maggio", "giugno",
		"luglio", "agosto", "settembre", "ottobre", "novembre", "dicembre",
	}
)

// formatItalianDate renders t the way it-IT toLocaleDateString does,
// e.g. "sabato 10 gennaio 2030". withYear drops the year for reminder
// emails sent the day before.
func formatItalianDate(t time.Time, withYear bool) string {
	weekday := italianWeekdays[int(t.Weekday())]
	month := italianMonths[int(t.Month())-1]
	if withYear {
		return fmt.Sprintf("%s %d %s %d", weekday, t.Day(), month, t.Year())
	}
	return fmt.Sprintf("%s %d %s", weekday, t.Day(), month)
}

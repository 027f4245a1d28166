package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatItalianDate(t *testing.T) {
	// 2030-01-10 is a Thursday.
	d := time.Date(2030, time.January, 10, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, "giovedì 10 gennaio 2030", formatItalianDate(d, true))
	assert.Equal(t, "giovedì 10 gennaio", formatItalianDate(d, false))
}

func TestFormatItalianDateSunday(t *testing.T) {
	// 2030-06-02 is a Sunday.
	d := time.Date(2030, time.June, 2, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, "domenica 2 giugno 2030", formatItalianDate(d, true))
}

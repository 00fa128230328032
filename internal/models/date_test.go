package models

import (
	"testing"
	"time"
)

func TestDateOfNormalizesToBusinessTimezone(t *testing.T) {
	taipei, err := time.LoadLocation("Asia/Taipei")
	if err != nil {
		t.Fatalf("load location failed: %v", err)
	}

	// UTC 2026-08-27 18:30 在台北已是 28 日凌晨
	ts := time.Date(2026, 8, 27, 18, 30, 0, 0, time.UTC)
	got := DateOf(ts, taipei)
	want := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("DateOf = %v, want %v", got, want)
	}
}

func TestDateOfSameDayCollapses(t *testing.T) {
	morning := time.Date(2026, 8, 28, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 8, 28, 21, 45, 0, 0, time.UTC)
	if !SameDate(DateOf(morning, time.UTC), DateOf(evening, time.UTC)) {
		t.Fatal("same calendar day should normalize to one value")
	}
}

func TestNextDateCrossesMonth(t *testing.T) {
	d := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	got := NextDate(d)
	want := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("NextDate = %v, want %v", got, want)
	}
}

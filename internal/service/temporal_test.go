package service

import (
	"errors"
	"testing"
	"time"
)

type pricePoint struct {
	at    time.Time
	value int
}

func pricePoints(days ...int) []pricePoint {
	points := make([]pricePoint, 0, len(days))
	for i, d := range days {
		points = append(points, pricePoint{at: date(d), value: i + 1})
	}
	return points
}

func pointAt(p pricePoint) time.Time { return p.at }

func TestLatestAsOfPicksNewestNotAfterRef(t *testing.T) {
	series := pricePoints(-10, -5, -1)

	got, err := latestAsOf(series, date(-3), pointAt)
	if err != nil {
		t.Fatalf("latestAsOf failed: %v", err)
	}
	if got.value != 2 {
		t.Fatalf("value = %d, want 2", got.value)
	}
}

func TestLatestAsOfIncludesSameInstant(t *testing.T) {
	series := pricePoints(-10, -5)

	got, err := latestAsOf(series, date(-5), pointAt)
	if err != nil {
		t.Fatalf("latestAsOf failed: %v", err)
	}
	if got.value != 2 {
		t.Fatalf("value = %d, want 2", got.value)
	}
}

func TestLatestAsOfFallsBackToEarliest(t *testing.T) {
	series := pricePoints(-5, -1)

	got, err := latestAsOf(series, date(-20), pointAt)
	if err != nil {
		t.Fatalf("latestAsOf failed: %v", err)
	}
	if got.value != 1 {
		t.Fatalf("value = %d, want 1", got.value)
	}
}

func TestLatestAsOfEmptySeries(t *testing.T) {
	_, err := latestAsOf(nil, date(0), pointAt)
	if !errors.Is(err, ErrSeriesNotFound) {
		t.Fatalf("err = %v, want ErrSeriesNotFound", err)
	}
}

func TestLatestBeforeExcludesSameInstant(t *testing.T) {
	series := pricePoints(-10, -5)

	got, err := latestBefore(series, date(-5), pointAt)
	if err != nil {
		t.Fatalf("latestBefore failed: %v", err)
	}
	if got.value != 1 {
		t.Fatalf("value = %d, want 1", got.value)
	}
}

func TestLatestBeforeFallsBackToEarliest(t *testing.T) {
	series := pricePoints(-5, -1)

	got, err := latestBefore(series, date(-10), pointAt)
	if err != nil {
		t.Fatalf("latestBefore failed: %v", err)
	}
	if got.value != 1 {
		t.Fatalf("value = %d, want 1", got.value)
	}
}

package utils

import (
	"testing"
	"time"
)

func Test_MinutesToClock(t *testing.T) {
	cases := []struct {
		minutes  int
		expected string
	}{
		{minutes: 15, expected: "00:15"},
		{minutes: 30, expected: "00:30"},
		{minutes: 60, expected: "01:00"},
		{minutes: 90, expected: "01:30"},
		{minutes: 135, expected: "02:15"},
		{minutes: 545, expected: "09:05"},
		{minutes: 875, expected: "14:35"},
		{minutes: 1020, expected: "17:00"},
		{minutes: 1260, expected: "21:00"},
	}

	for _, c := range cases {
		got := MinutesToClock(c.minutes)
		if got != c.expected {
			t.Fatalf("expected %s, got %s", c.expected, got)
		}
	}
}

func Test_ClockToMinutes(t *testing.T) {
	cases := []struct {
		clock    string
		expected int
		wantErr  bool
	}{
		{clock: "00:15", expected: 15},
		{clock: "07:00", expected: 420},
		{clock: "09:05", expected: 545},
		{clock: "14:35", expected: 875},
		{clock: "garbage", wantErr: true},
	}

	for _, c := range cases {
		got, err := ClockToMinutes(c.clock)
		if c.wantErr {
			if err == nil {
				t.Fatalf("expected error for %q", c.clock)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", c.clock, err)
		}
		if got != c.expected {
			t.Fatalf("expected %d, got %d", c.expected, got)
		}
	}
}

func Test_SlotInFuture(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		date     string
		startMin int
		expected bool
	}{
		{date: "2026-03-09", startMin: 600, expected: false}, // yesterday
		{date: "2026-03-10", startMin: 540, expected: false}, // 09:00 today, elapsed
		{date: "2026-03-10", startMin: 600, expected: false}, // 10:00 today, not strictly after
		{date: "2026-03-10", startMin: 601, expected: true},  // 10:01 today
		{date: "2026-03-11", startMin: 0, expected: true},    // tomorrow midnight
		{date: "not-a-date", startMin: 600, expected: false},
	}

	for _, c := range cases {
		if got := SlotInFuture(c.date, c.startMin, now); got != c.expected {
			t.Fatalf("SlotInFuture(%s, %d) = %v, expected %v", c.date, c.startMin, got, c.expected)
		}
	}
}

func Test_IsPastDate(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	if !IsPastDate("2026-03-09", now) {
		t.Fatal("yesterday should be past")
	}
	if IsPastDate("2026-03-10", now) {
		t.Fatal("today should not be past")
	}
	if IsPastDate("2026-03-11", now) {
		t.Fatal("tomorrow should not be past")
	}
}

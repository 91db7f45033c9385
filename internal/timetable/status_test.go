package timetable

import (
	"errors"
	"testing"
	"time"
)

func TestResolveDisplayStatusTerminalStatusesPassThrough(t *testing.T) {
	t.Parallel()

	moments := []time.Time{
		time.Date(2024, time.March, 15, 9, 0, 0, 0, time.Local),  // до начала
		time.Date(2024, time.March, 15, 10, 30, 0, 0, time.Local), // во время
		time.Date(2024, time.March, 16, 0, 0, 0, 0, time.Local),   // после конца
	}

	for _, status := range []Status{StatusCancelled, StatusCompleted} {
		for _, now := range moments {
			got, err := ResolveDisplayStatus(status, "2024-03-15", "10:00", 60, now)
			if err != nil {
				t.Fatalf("ResolveDisplayStatus(%s) returned error: %v", status, err)
			}
			if got != status {
				t.Fatalf("expected terminal status %s to pass through, got %s at %s", status, got, now)
			}
		}
	}
}

func TestResolveDisplayStatusBoundariesAreInclusive(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.Local)
	const duration = 45
	end := start.Add(duration * time.Minute)

	cases := []struct {
		name string
		now  time.Time
		want Status
	}{
		{"minute before start", start.Add(-time.Minute), StatusScheduled},
		{"exactly at start", start, StatusInProgress},
		{"mid lesson", start.Add(20 * time.Minute), StatusInProgress},
		{"exactly at end", end, StatusInProgress},
		{"minute after end", end.Add(time.Minute), StatusCompleted},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveDisplayStatus(StatusScheduled, "2024-03-15", "10:00", duration, tc.now)
			if err != nil {
				t.Fatalf("ResolveDisplayStatus returned error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestResolveDisplayStatusTruncatesSeconds(t *testing.T) {
	t.Parallel()

	// Бэкенд иногда отдает время с секундами - они должны отбрасываться.
	now := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.Local)
	got, err := ResolveDisplayStatus(StatusScheduled, "2024-03-15", "10:30:45", 40, now)
	if err != nil {
		t.Fatalf("ResolveDisplayStatus returned error: %v", err)
	}
	if got != StatusInProgress {
		t.Fatalf("expected in_progress at exact start with seconds stripped, got %s", got)
	}
}

func TestResolveDisplayStatusInvalidInput(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.Local)

	cases := []struct {
		name     string
		date     string
		time     string
		duration int
	}{
		{"month out of range", "2024-13-05", "10:00", 60},
		{"nonexistent day", "2024-02-30", "10:00", 60},
		{"garbage date", "not-a-date", "10:00", 60},
		{"missing minutes", "2024-03-15", "10", 60},
		{"garbage time", "2024-03-15", "ab:cd", 60},
		{"hour out of range", "2024-03-15", "25:00", 60},
		{"zero duration", "2024-03-15", "10:00", 0},
		{"negative duration", "2024-03-15", "10:00", -30},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := ResolveDisplayStatus(StatusScheduled, tc.date, tc.time, tc.duration, now)
			if !errors.Is(err, ErrInvalidTemporalInput) {
				t.Fatalf("expected ErrInvalidTemporalInput, got %v", err)
			}
		})
	}
}

func TestCombineLocalDateTime(t *testing.T) {
	t.Parallel()

	got, err := CombineLocalDateTime("2024-03-01", "08:05")
	if err != nil {
		t.Fatalf("CombineLocalDateTime returned error: %v", err)
	}
	want := time.Date(2024, time.March, 1, 8, 5, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestMapDisplayStatusToServerStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   Status
		want Status
	}{
		{StatusInProgress, StatusScheduled},
		{StatusScheduled, StatusScheduled},
		{StatusCompleted, StatusCompleted},
		{StatusCancelled, StatusCancelled},
	}

	for _, tc := range cases {
		got, err := MapDisplayStatusToServerStatus(tc.in)
		if err != nil {
			t.Fatalf("MapDisplayStatusToServerStatus(%s) returned error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("MapDisplayStatusToServerStatus(%s) = %s, want %s", tc.in, got, tc.want)
		}

		// Повторное применение ничего не меняет: после первого маппинга
		// in_progress уже не встречается.
		twice, err := MapDisplayStatusToServerStatus(got)
		if err != nil {
			t.Fatalf("second mapping of %s returned error: %v", got, err)
		}
		if twice != got {
			t.Fatalf("mapping is not idempotent: %s -> %s", got, twice)
		}
	}

	if _, err := MapDisplayStatusToServerStatus(Status("draft")); err == nil {
		t.Fatal("expected error for unknown display status")
	}
}

package timetable

import (
	"errors"
	"testing"
	"time"
)

func TestBuildMonthGridAlwaysReturns42Cells(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.Local)

	// Полный високосный и невисокосный годы.
	for _, year := range []int{2023, 2024} {
		for month := time.January; month <= time.December; month++ {
			grid, err := BuildMonthGrid(year, month, nil, today)
			if err != nil {
				t.Fatalf("BuildMonthGrid(%d, %s) returned error: %v", year, month, err)
			}
			if len(grid) != GridSize {
				t.Fatalf("BuildMonthGrid(%d, %s) returned %d cells, want %d", year, month, len(grid), GridSize)
			}

			firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
			wantIndex := (int(firstOfMonth.Weekday()) + 6) % 7
			for i, day := range grid {
				if day.BelongsToDisplayedMonth {
					if i != wantIndex {
						t.Fatalf("%d-%s: first own day at index %d, want %d", year, month, i, wantIndex)
					}
					break
				}
			}
		}
	}
}

func TestBuildMonthGridDatesAreContinuous(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.Local)
	grid, err := BuildMonthGrid(2024, time.March, nil, today)
	if err != nil {
		t.Fatalf("BuildMonthGrid returned error: %v", err)
	}

	for i := 1; i < len(grid); i++ {
		want := grid[i-1].Date.AddDate(0, 0, 1)
		if !grid[i].Date.Equal(want) {
			t.Fatalf("gap at index %d: %s follows %s", i, grid[i].ISODate, grid[i-1].ISODate)
		}
	}
}

func TestBuildMonthGridMarch2024Layout(t *testing.T) {
	t.Parallel()

	// Март 2024: 31 день, 1-е - пятница (индекс 4 при неделе с понедельника).
	today := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.Local)
	grid, err := BuildMonthGrid(2024, time.March, nil, today)
	if err != nil {
		t.Fatalf("BuildMonthGrid returned error: %v", err)
	}

	if grid[4].ISODate != "2024-03-01" || !grid[4].BelongsToDisplayedMonth {
		t.Fatalf("expected 2024-03-01 at index 4, got %s", grid[4].ISODate)
	}

	// Ведущие заполнители - конец високосного февраля.
	leading := []string{"2024-02-26", "2024-02-27", "2024-02-28", "2024-02-29"}
	for i, want := range leading {
		if grid[i].ISODate != want {
			t.Fatalf("leading filler at %d: got %s, want %s", i, grid[i].ISODate, want)
		}
		if grid[i].BelongsToDisplayedMonth {
			t.Fatalf("filler day %s marked as belonging to March", grid[i].ISODate)
		}
	}

	// Хвост: 4 дня февраля + 31 день марта = 35 ячеек, дальше 1-7 апреля.
	if grid[40].ISODate != "2024-04-06" || grid[40].BelongsToDisplayedMonth {
		t.Fatalf("expected filler 2024-04-06 at index 40, got %s", grid[40].ISODate)
	}
	if grid[41].ISODate != "2024-04-07" || grid[41].BelongsToDisplayedMonth {
		t.Fatalf("expected filler 2024-04-07 at index 41, got %s", grid[41].ISODate)
	}
}

func TestBuildMonthGridDayFlags(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, time.March, 15, 18, 45, 0, 0, time.Local) // пятница
	grid, err := BuildMonthGrid(2024, time.March, nil, today)
	if err != nil {
		t.Fatalf("BuildMonthGrid returned error: %v", err)
	}

	for _, day := range grid {
		switch day.ISODate {
		case "2024-03-15":
			if !day.IsToday || day.IsPast {
				t.Fatalf("2024-03-15: IsToday=%v IsPast=%v, want true/false", day.IsToday, day.IsPast)
			}
			if day.IsWeekend {
				t.Fatal("2024-03-15 is a Friday, not a weekend")
			}
		case "2024-03-14":
			if !day.IsPast || day.IsToday {
				t.Fatalf("2024-03-14: IsToday=%v IsPast=%v, want false/true", day.IsToday, day.IsPast)
			}
		case "2024-03-16", "2024-03-17":
			if !day.IsWeekend {
				t.Fatalf("%s should be a weekend", day.ISODate)
			}
			if day.IsPast {
				t.Fatalf("%s is in the future, not past", day.ISODate)
			}
		}
	}
}

func TestBuildMonthGridStatusCounts(t *testing.T) {
	t.Parallel()

	// 15 марта, 12:00: одно занятие еще впереди, одно идет прямо сейчас,
	// одно завершено сервером, одно отменено.
	today := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.Local)
	lessons := []LessonInfo{
		{ID: 1, Date: "2024-03-15", Time: "18:00", DurationMinutes: 60, Status: StatusScheduled},
		{ID: 2, Date: "2024-03-15", Time: "11:30", DurationMinutes: 60, Status: StatusScheduled},
		{ID: 3, Date: "2024-03-15", Time: "08:00", DurationMinutes: 60, Status: StatusCompleted},
		{ID: 4, Date: "2024-03-15", Time: "20:00", DurationMinutes: 60, Status: StatusCancelled},
	}

	grid, err := BuildMonthGrid(2024, time.March, lessons, today)
	if err != nil {
		t.Fatalf("BuildMonthGrid returned error: %v", err)
	}

	for _, day := range grid {
		if day.ISODate != "2024-03-15" {
			if len(day.Lessons) != 0 {
				t.Fatalf("unexpected lessons on %s", day.ISODate)
			}
			continue
		}

		if len(day.Lessons) != 4 {
			t.Fatalf("expected 4 lessons on 2024-03-15, got %d", len(day.Lessons))
		}
		want := StatusCounts{ScheduledOrInProgress: 2, Completed: 1, Cancelled: 1}
		if day.StatusCounts != want {
			t.Fatalf("status counts = %+v, want %+v", day.StatusCounts, want)
		}
	}
}

func TestBuildMonthGridSkipsBrokenLessonsButKeepsGrid(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.Local)
	lessons := []LessonInfo{
		{ID: 1, Date: "2024-03-15", Time: "11:30", DurationMinutes: 60, Status: StatusScheduled},
		{ID: 2, Date: "2024-03-15", Time: "garbage", DurationMinutes: 60, Status: StatusScheduled},
	}

	grid, err := BuildMonthGrid(2024, time.March, lessons, today)
	if !errors.Is(err, ErrInvalidTemporalInput) {
		t.Fatalf("expected aggregated ErrInvalidTemporalInput, got %v", err)
	}
	if len(grid) != GridSize {
		t.Fatalf("broken lesson must not abort the grid, got %d cells", len(grid))
	}

	for _, day := range grid {
		if day.ISODate == "2024-03-15" {
			if len(day.Lessons) != 1 || day.Lessons[0].ID != 1 {
				t.Fatalf("expected only the valid lesson to survive, got %+v", day.Lessons)
			}
			if day.StatusCounts.ScheduledOrInProgress != 1 {
				t.Fatalf("unexpected counts: %+v", day.StatusCounts)
			}
		}
	}
}

func TestBuildMonthGridInvalidInput(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.Local)

	for _, tc := range []struct {
		year  int
		month time.Month
	}{
		{2024, time.Month(0)},
		{2024, time.Month(13)},
		{99, time.March},
		{10000, time.March},
	} {
		if _, err := BuildMonthGrid(tc.year, tc.month, nil, today); !errors.Is(err, ErrInvalidCalendarInput) {
			t.Fatalf("BuildMonthGrid(%d, %d): expected ErrInvalidCalendarInput, got %v", tc.year, int(tc.month), err)
		}
	}
}

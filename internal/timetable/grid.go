// tensu-crm/internal/timetable/grid.go

package timetable

import (
	"errors"
	"fmt"
	"time"
)

// GridSize - месячная сетка всегда 6 полных недель, независимо от месяца.
// Фронтенд консоли опирается на стабильную высоту.
const GridSize = 42

// LessonInfo - минимальный срез занятия, который нужен календарю.
type LessonInfo struct {
	ID              uint   `json:"id"`
	Date            string `json:"date"`             // "YYYY-MM-DD"
	Time            string `json:"time"`             // "HH:mm"
	DurationMinutes int    `json:"duration_minutes"`
	Status          Status `json:"status"` // серверный статус
}

// DayLesson - занятие внутри ячейки сетки вместе с вычисленным статусом.
type DayLesson struct {
	LessonInfo
	DisplayStatus Status `json:"display_status"`
}

// StatusCounts - сводка по ячейке. На месячном обзоре scheduled и in_progress
// не различаются, различие видно только в детализации дня.
type StatusCounts struct {
	ScheduledOrInProgress int `json:"scheduled_or_in_progress"`
	Completed             int `json:"completed"`
	Cancelled             int `json:"cancelled"`
}

// CalendarDay - одна ячейка месячной сетки.
type CalendarDay struct {
	Date                    time.Time    `json:"-"`
	ISODate                 string       `json:"date"`
	BelongsToDisplayedMonth bool         `json:"belongs_to_displayed_month"`
	IsToday                 bool         `json:"is_today"`
	IsPast                  bool         `json:"is_past"`
	IsWeekend               bool         `json:"is_weekend"`
	Lessons                 []DayLesson  `json:"lessons"`
	StatusCounts            StatusCounts `json:"status_counts"`
}

// BuildMonthGrid строит сетку из 42 ячеек для месяца (month - 1..12, как time.Month):
// ведущие дни-заполнители из предыдущего месяца до понедельника, дни самого месяца,
// затем хвост из следующего месяца. Неделя начинается с понедельника - принятая у
// наших клубов (и в целом в СНГ) календарная конвенция, не воскресная по умолчанию.
//
// today задает и отметку "сегодня", и момент now для вычисления статусов занятий.
// Занятие с некорректной датой/временем не роняет сетку целиком: оно пропускается,
// а ошибки по таким занятиям возвращаются одним агрегированным error рядом с
// готовой сеткой.
func BuildMonthGrid(year int, month time.Month, lessons []LessonInfo, today time.Time) ([]CalendarDay, error) {
	gridStart, _, err := MonthGridRange(year, month)
	if err != nil {
		return nil, err
	}
	todayMidnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.Local)

	// Раскладываем занятия по датам один раз, чтобы не фильтровать весь срез 42 раза.
	byDate := make(map[string][]LessonInfo, len(lessons))
	for _, l := range lessons {
		byDate[l.Date] = append(byDate[l.Date], l)
	}

	grid := make([]CalendarDay, 0, GridSize)
	var resolveErrs []error

	for i := 0; i < GridSize; i++ {
		date := gridStart.AddDate(0, 0, i)
		iso := date.Format("2006-01-02")

		day := CalendarDay{
			Date:                    date,
			ISODate:                 iso,
			BelongsToDisplayedMonth: date.Month() == month && date.Year() == year,
			IsToday:                 date.Equal(todayMidnight),
			IsPast:                  date.Before(todayMidnight),
			IsWeekend:               mondayIndex(date.Weekday()) >= 5,
			Lessons:                 make([]DayLesson, 0, len(byDate[iso])),
		}

		for _, l := range byDate[iso] {
			display, err := ResolveDisplayStatus(l.Status, l.Date, l.Time, l.DurationMinutes, today)
			if err != nil {
				// Одно битое занятие не должно прятать остальные.
				resolveErrs = append(resolveErrs, fmt.Errorf("занятие %d: %w", l.ID, err))
				continue
			}
			day.Lessons = append(day.Lessons, DayLesson{LessonInfo: l, DisplayStatus: display})
			switch display {
			case StatusScheduled, StatusInProgress:
				day.StatusCounts.ScheduledOrInProgress++
			case StatusCompleted:
				day.StatusCounts.Completed++
			case StatusCancelled:
				day.StatusCounts.Cancelled++
			}
		}

		grid = append(grid, day)
	}

	return grid, errors.Join(resolveErrs...)
}

// MonthGridRange возвращает первую и последнюю даты 42-дневной сетки месяца.
// Удобно для выборки занятий из хранилища ровно под видимый диапазон.
func MonthGridRange(year int, month time.Month) (start, end time.Time, err error) {
	if month < time.January || month > time.December || year < 1000 || year > 9999 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: год %d, месяц %d", ErrInvalidCalendarInput, year, int(month))
	}
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	start = firstOfMonth.AddDate(0, 0, -mondayIndex(firstOfMonth.Weekday()))
	end = start.AddDate(0, 0, GridSize-1)
	return start, end, nil
}

// mondayIndex переводит time.Weekday в индекс недели с понедельника: Пн=0 ... Вс=6.
func mondayIndex(w time.Weekday) int {
	return (int(w) + 6) % 7
}

// tensu-crm/internal/timetable/status.go

package timetable

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status - статус занятия. Бэкенд хранит только scheduled/cancelled/completed,
// in_progress существует исключительно на уровне отображения.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var (
	// ErrInvalidTemporalInput - дата/время занятия не складываются в валидный момент.
	ErrInvalidTemporalInput = errors.New("timetable: invalid date/time input")
	// ErrInvalidCalendarInput - год/месяц вне допустимого диапазона.
	ErrInvalidCalendarInput = errors.New("timetable: invalid year/month input")
)

// Clock - источник текущего времени. В проде time.Now, в тестах фиксированное значение.
type Clock func() time.Time

// CombineLocalDateTime собирает локальный момент начала занятия из даты "YYYY-MM-DD"
// и времени "HH:mm". Секунды ("HH:mm:ss") отбрасываются. Момент строится из числовых
// компонентов, без склейки строк: сервер и все консоли работают в одном часовом поясе.
func CombineLocalDateTime(date, clock string) (time.Time, error) {
	dateParts := strings.Split(strings.TrimSpace(date), "-")
	if len(dateParts) != 3 {
		return time.Time{}, fmt.Errorf("%w: дата %q", ErrInvalidTemporalInput, date)
	}

	timeParts := strings.Split(strings.TrimSpace(clock), ":")
	if len(timeParts) < 2 {
		return time.Time{}, fmt.Errorf("%w: время %q", ErrInvalidTemporalInput, clock)
	}
	// Бэкенд местами отдает "HH:mm:ss" - лишние компоненты просто не используются.
	timeParts = timeParts[:2]

	nums := make([]int, 0, 5)
	for _, p := range append(dateParts, timeParts...) {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTemporalInput, p)
		}
		nums = append(nums, n)
	}

	year, month, day, hour, minute := nums[0], nums[1], nums[2], nums[3], nums[4]
	if month < 1 || month > 12 || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("%w: %s %s", ErrInvalidTemporalInput, date, clock)
	}

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.Local)
	// time.Date нормализует переполнение (31 февраля -> 2 марта), для нас это ошибка ввода.
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, fmt.Errorf("%w: несуществующая дата %s", ErrInvalidTemporalInput, date)
	}
	return t, nil
}

// ResolveDisplayStatus вычисляет отображаемый статус занятия на момент now.
// cancelled и completed от бэкенда терминальны и возвращаются как есть. Для
// запланированного занятия статус выводится из положения now относительно
// интервала [начало, конец] - границы включительно.
func ResolveDisplayStatus(authoritative Status, date, clock string, durationMinutes int, now time.Time) (Status, error) {
	switch authoritative {
	case StatusCancelled, StatusCompleted:
		return authoritative, nil
	case StatusScheduled:
		// дальше считаем по времени
	default:
		return "", fmt.Errorf("%w: неизвестный статус %q", ErrInvalidTemporalInput, authoritative)
	}

	if durationMinutes <= 0 {
		return "", fmt.Errorf("%w: длительность %d", ErrInvalidTemporalInput, durationMinutes)
	}

	start, err := CombineLocalDateTime(date, clock)
	if err != nil {
		return "", err
	}
	end := start.Add(time.Duration(durationMinutes) * time.Minute)

	switch {
	case now.Before(start):
		return StatusScheduled, nil
	case now.After(end):
		return StatusCompleted, nil
	default:
		return StatusInProgress, nil
	}
}

// MapDisplayStatusToServerStatus - обратное отображение перед отправкой на бэкенд:
// понятия in_progress на сервере нет, оно схлопывается в scheduled.
func MapDisplayStatusToServerStatus(display Status) (Status, error) {
	switch display {
	case StatusInProgress:
		return StatusScheduled, nil
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return display, nil
	default:
		return "", fmt.Errorf("%w: неизвестный статус %q", ErrInvalidTemporalInput, display)
	}
}

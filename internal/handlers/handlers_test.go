// tensu-crm/internal/handlers/handlers_test.go

package handlers

import (
	"encoding/json"
	"testing"

	"tensu-crm/internal/timetable"
)

func TestNormalizeClock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"09:30", "09:30"},
		{"09:30:00", "09:30"},
		{"09:30:59", "09:30"},
		{"9:30", "9:30"},
		{"9:30:00", "9:30"}, // без ведущего нуля секунды тоже отбрасываются целиком
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeClock(tt.in); got != tt.want {
			t.Errorf("normalizeClock(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStatusLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status timetable.Status
		want   string
	}{
		{timetable.StatusScheduled, "Запланировано"},
		{timetable.StatusInProgress, "Идет сейчас"},
		{timetable.StatusCompleted, "Завершено"},
		{timetable.StatusCancelled, "Отменено"},
		{timetable.Status("unknown"), "unknown"},
	}
	for _, tt := range tests {
		if got := statusLabel(tt.status); got != tt.want {
			t.Errorf("statusLabel(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "чистый JSON без обертки",
			raw:  `{"Понедельник":[{"start_time":"18:00","duration_minutes":90}]}`,
			want: `{"Понедельник":[{"start_time":"18:00","duration_minutes":90}]}`,
		},
		{
			name: "markdown-блок json",
			raw:  "Вот расписание:\n```json\n{\"Вторник\":[]}\n```\nУдачи!",
			want: "{\"Вторник\":[]}",
		},
		{
			name: "markdown-блок без языка",
			raw:  "```\n{\"a\":1}\n```",
			want: "{\"a\":1}",
		},
		{
			name: "текст вокруг фигурных скобок",
			raw:  "Ответ: {\"a\": {\"b\": 2}} - готово",
			want: "{\"a\": {\"b\": 2}}",
		},
		{
			name: "нет JSON вовсе",
			raw:  "никакого расписания не будет",
			want: "",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := extractJSON(tt.raw)
			if got != tt.want {
				t.Fatalf("extractJSON() = %q, want %q", got, tt.want)
			}
			if got != "" && !json.Valid([]byte(got)) {
				t.Fatalf("extractJSON() вернул невалидный JSON: %q", got)
			}
		})
	}
}

func TestValidateEligibilityRule(t *testing.T) {
	t.Parallel()

	valid := []string{
		"",
		"age >= 7",
		"age >= 7 && age <= 12",
		"gender == 'male' && age > 10",
	}
	for _, rule := range valid {
		if err := validateEligibilityRule(rule); err != nil {
			t.Errorf("validateEligibilityRule(%q) = %v, ожидали nil", rule, err)
		}
	}

	invalid := []string{
		"age >=",
		"(age > 5",
		"&& age",
	}
	for _, rule := range invalid {
		if err := validateEligibilityRule(rule); err == nil {
			t.Errorf("validateEligibilityRule(%q) = nil, ожидали ошибку", rule)
		}
	}
}

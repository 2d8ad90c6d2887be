package documents

import (
	"testing"
	"time"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected string
	}{
		{"Thousands and cents", 1500.5, "R$ 1.500,50"},
		{"Round value", 500.0, "R$ 500,00"},
		{"Zero", 0, "R$ 0,00"},
		{"Millions", 1234567.89, "R$ 1.234.567,89"},
		{"Rounding up", 0.005, "R$ 0,01"},
		{"Negative", -99.9, "R$ -99,90"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCurrency(tt.value); got != tt.expected {
				t.Errorf("FormatCurrency(%v) = %q, want %q", tt.value, got, tt.expected)
			}
		})
	}
}

func TestDateInWords(t *testing.T) {
	tests := []struct {
		date     time.Time
		expected string
	}{
		{time.Date(2026, time.August, 31, 10, 30, 0, 0, time.UTC), "31 de agosto de 2026"},
		{time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), "1 de janeiro de 2025"},
		{time.Date(2024, time.December, 25, 23, 59, 0, 0, time.UTC), "25 de dezembro de 2024"},
	}

	for _, tt := range tests {
		if got := DateInWords(tt.date); got != tt.expected {
			t.Errorf("DateInWords(%v) = %q, want %q", tt.date, got, tt.expected)
		}
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2026, time.August, 31, 10, 0, 0, 0, time.UTC)
	if got := FormatDate(d); got != "31/08/2026" {
		t.Errorf("FormatDate() = %q, want %q", got, "31/08/2026")
	}
}

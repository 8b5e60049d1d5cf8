package dateutil

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// 2024-03-05 keeps single-digit month and day distinguishable from padded ones.
var march5 = time.Date(2024, 3, 5, 22, 45, 0, 0, time.UTC)

func TestLayout_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		want   string
	}{
		{"YYYY", "2024"},
		{"YY", "24"},
		{"MMMM", "March"},
		{"MMM", "Mar"},
		{"MM", "03"},
		{"M", "3"},
		{"DD", "05"},
		{"D", "5"},
		{"YYYY-MM-DD", "2024-03-05"},
		{"D MMMM YYYY", "5 March 2024"},
		{"(YYYY/M/D)", "(2024/3/5)"},
		{"[Day] D", "Day 5"},
		{"[YYYY]-MM", "YYYY-03"},
		{"YYYY[]MM", "202403"},
		{"[a[b]c", "a[bc"},
		// Unbracketed letters that start a token are still tokens
		{"Date", "5ate"},
		// Digits in literal text stay literal
		{"[Q1 2] YYYY", "Q1 2 2024"},
		{"[Jan] MMM", "Jan Mar"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			layout, err := ParseLayout(tt.format)
			if err != nil {
				t.Fatalf("ParseLayout(%q) error = %v", tt.format, err)
			}
			if got := layout.Format(march5); got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestLayout_FormatPadsEarlyYears(t *testing.T) {
	t.Parallel()

	layout, err := ParseLayout("YYYY YY")
	if err != nil {
		t.Fatalf("ParseLayout() error = %v", err)
	}
	if got := layout.Format(time.Date(807, 1, 1, 0, 0, 0, 0, time.UTC)); got != "0807 07" {
		t.Errorf("Format() = %q, want %q", got, "0807 07")
	}
}

func TestParseLayout_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format string
	}{
		{"empty", ""},
		{"unclosed bracket", "[Date YYYY"},
		{"too long", strings.Repeat("D", MaxDateFormatLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := ParseLayout(tt.format); !errors.Is(err, ErrInvalidDateFormat) {
				t.Errorf("ParseLayout(%q) error = %v, want ErrInvalidDateFormat", tt.format, err)
			}
		})
	}
}

func TestResolveDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   string
		want    string
		wantErr bool
	}{
		{value: "", want: ""},
		{value: "2024-01-01", want: "2024-01-01"},
		{value: "Autumn 2024", want: "Autumn 2024"},
		{value: "auto", want: "2024-03-05"},
		{value: "  AUTO  ", want: "2024-03-05"},
		{value: "auto:DD/MM/YYYY", want: "05/03/2024"},
		{value: "auto:[Updated] MMM D", want: "Updated Mar 5"},
		{value: "auto:iso", want: "2024-03-05"},
		{value: "auto:European", want: "05/03/2024"},
		{value: "auto:us", want: "03/05/2024"},
		{value: "auto:LONG", want: "March 5, 2024"},
		{value: "auto:", wantErr: true},
		{value: "auto:[YYYY", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveDate(tt.value, march5)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDateFormat) {
					t.Fatalf("ResolveDate(%q) error = %v, want ErrInvalidDateFormat", tt.value, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveDate(%q) error = %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("ResolveDate(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestIsAuto(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"auto":          true,
		" Auto ":        true,
		"auto:long":     true,
		"Autumn":        false,
		"automatically": false,
		"":              false,
	}
	for in, want := range tests {
		if got := IsAuto(in); got != want {
			t.Errorf("IsAuto(%q) = %v, want %v", in, got, want)
		}
	}
}

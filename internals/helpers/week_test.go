package helper

import (
	"testing"
	"time"
)

func TestMondayOf(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want string
	}{
		{"monday stays", time.Date(2025, 5, 5, 10, 0, 0, 0, time.UTC), "2025-05-05"},
		{"wednesday rewinds", time.Date(2025, 5, 7, 23, 59, 0, 0, time.UTC), "2025-05-05"},
		{"sunday rewinds six days", time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC), "2025-05-05"},
		{"saturday rewinds five days", time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC), "2025-05-05"},
		{"across month boundary", time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC), "2025-05-26"},
	}
	for _, tc := range cases {
		got := MondayOf(tc.in)
		if got.Format("2006-01-02") != tc.want {
			t.Errorf("%s: MondayOf(%s) = %s, want %s", tc.name, tc.in.Format("2006-01-02"), got.Format("2006-01-02"), tc.want)
		}
		if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
			t.Errorf("%s: result not truncated to midnight: %s", tc.name, got)
		}
	}
}

func TestWeekLabel(t *testing.T) {
	monday := time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)
	got := WeekLabel(monday)
	want := "05 May 2025 - 09 May 2025"
	if got != want {
		t.Errorf("WeekLabel = %q, want %q", got, want)
	}
}

func TestSameDate(t *testing.T) {
	a := time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)
	b := time.Date(2025, 5, 5, 23, 59, 59, 0, time.UTC)
	if !SameDate(a, b) {
		t.Error("same calendar day reported as different")
	}
	if SameDate(a, a.AddDate(0, 0, 1)) {
		t.Error("different days reported as same")
	}
}

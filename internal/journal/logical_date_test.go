package journal

import (
	"testing"
	"time"
)

func mustLoadLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}
	return loc
}

func TestLogicalDate_CutoffScenario(t *testing.T) {
	loc := mustLoadLocation(t, "Asia/Seoul")
	rt := ReportTime{Hour: 22}

	before := time.Date(2024, 1, 1, 21, 59, 0, 0, loc)
	if got := LogicalDate(rt, before, loc); got != "2023-12-31" {
		t.Fatalf("21:59 should belong to previous day, got %s", got)
	}
	at := time.Date(2024, 1, 1, 22, 0, 0, 0, loc)
	if got := LogicalDate(rt, at, loc); got != "2024-01-01" {
		t.Fatalf("exactly at cutoff should belong to new day, got %s", got)
	}
	justBefore := at.Add(-time.Nanosecond)
	if got := LogicalDate(rt, justBefore, loc); got != "2023-12-31" {
		t.Fatalf("one nanosecond before cutoff should be previous day, got %s", got)
	}
}

func TestLogicalDate_MidnightEqualsCalendarDate(t *testing.T) {
	loc := mustLoadLocation(t, "Asia/Seoul")
	start := time.Date(2024, 2, 28, 0, 0, 0, 0, loc)
	for i := 0; i < 48*4; i++ {
		ref := start.Add(time.Duration(i) * 15 * time.Minute)
		if got, want := LogicalDate(Midnight, ref, loc), ref.Format(DateLayout); got != want {
			t.Fatalf("LogicalDate(00:00, %s) = %s, want %s", ref, got, want)
		}
	}
}

func TestLogicalDate_BeforeAndAfterCutoffProperty(t *testing.T) {
	loc := mustLoadLocation(t, "America/New_York")
	rt := ReportTime{Hour: 4, Minute: 30}
	start := time.Date(2024, 3, 9, 0, 0, 0, 0, loc)
	for i := 0; i < 72*6; i++ {
		ref := start.Add(time.Duration(i) * 10 * time.Minute)
		local := ref.In(loc)
		y, m, d := local.Date()
		cutoff := time.Date(y, m, d, rt.Hour, rt.Minute, 0, 0, loc)
		want := local.Format(DateLayout)
		if local.Before(cutoff) {
			want = time.Date(y, m, d-1, 12, 0, 0, 0, loc).Format(DateLayout)
		}
		if got := LogicalDate(rt, ref, loc); got != want {
			t.Fatalf("LogicalDate(%s, %s) = %s, want %s", rt, local, got, want)
		}
	}
}

func TestLogicalDate_YearAndMonthBoundaries(t *testing.T) {
	rt := ReportTime{Hour: 6}
	cases := []struct {
		ref  time.Time
		want string
	}{
		{time.Date(2025, 1, 1, 5, 0, 0, 0, time.UTC), "2024-12-31"},
		{time.Date(2024, 3, 1, 5, 59, 0, 0, time.UTC), "2024-02-29"},
		{time.Date(2023, 3, 1, 5, 59, 0, 0, time.UTC), "2023-02-28"},
		{time.Date(1999, 12, 31, 6, 0, 0, 0, time.UTC), "1999-12-31"},
	}
	for _, tc := range cases {
		if got := LogicalDate(rt, tc.ref, time.UTC); got != tc.want {
			t.Errorf("LogicalDate(%s) = %s, want %s", tc.ref, got, tc.want)
		}
	}
}

func TestLogicalDate_ConvertsIntoJournalZone(t *testing.T) {
	loc := mustLoadLocation(t, "Asia/Seoul")
	// 2024-01-01T14:30Z is 23:30 in Seoul, past a 22:00 cutoff, but still before it in UTC.
	ref := time.Date(2024, 1, 1, 14, 30, 0, 0, time.UTC)
	if got := LogicalDate(ReportTime{Hour: 22}, ref, loc); got != "2024-01-01" {
		t.Fatalf("unexpected logical date: %s", got)
	}
	if got := LogicalDate(ReportTime{Hour: 22}, ref, nil); got != "2023-12-31" {
		t.Fatalf("nil location should mean UTC, got %s", got)
	}
}

func TestParseReportTime(t *testing.T) {
	rt, err := ParseReportTime("07:05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rt.Hour != 7 || rt.Minute != 5 || rt.String() != "07:05" {
		t.Fatalf("unexpected report time: %+v", rt)
	}
	for _, bad := range []string{"", "7:05", "24:00", "12:60", "12-00", "12:00:00"} {
		if _, err := ParseReportTime(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestReportTimeOf_FallsBackToMidnight(t *testing.T) {
	if got := ReportTimeOf(nil); got != Midnight {
		t.Fatalf("nil config should be midnight, got %s", got)
	}
	if got := ReportTimeOf(&UserConfig{ReportTime: "garbage"}); got != Midnight {
		t.Fatalf("invalid report time should be midnight, got %s", got)
	}
	if got := ReportTimeOf(&UserConfig{ReportTime: "22:15"}); got != (ReportTime{Hour: 22, Minute: 15}) {
		t.Fatalf("unexpected report time: %s", got)
	}
}

func TestReportTimeMatches(t *testing.T) {
	rt := ReportTime{Hour: 22}
	if !rt.Matches(time.Date(2024, 1, 1, 22, 0, 59, 0, time.UTC)) {
		t.Fatal("expected match within the cutoff minute")
	}
	if rt.Matches(time.Date(2024, 1, 1, 22, 1, 0, 0, time.UTC)) {
		t.Fatal("expected no match one minute later")
	}
}

func TestParseDateKey(t *testing.T) {
	loc := mustLoadLocation(t, "Asia/Seoul")
	got, err := ParseDateKey("2024-01-05", loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(time.Date(2024, 1, 5, 0, 0, 0, 0, loc)) {
		t.Fatalf("unexpected time: %s", got)
	}
	if _, err := ParseDateKey("not-a-date", loc); err == nil {
		t.Fatal("expected parse error")
	}
}

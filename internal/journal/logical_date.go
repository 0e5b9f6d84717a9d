package journal

import (
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the key format of a session log bucket.
const DateLayout = "2006-01-02"

// ReportTime is the daily cutoff at which the logical date rolls over.
type ReportTime struct {
	Hour   int
	Minute int
}

// Midnight is used when no user config exists.
var Midnight = ReportTime{}

func ParseReportTime(s string) (ReportTime, error) {
	if !reportTimePattern.MatchString(s) {
		return ReportTime{}, fmt.Errorf("invalid report time %q: want HH:mm", s)
	}
	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[3:])
	return ReportTime{Hour: h, Minute: m}, nil
}

func (r ReportTime) String() string {
	return fmt.Sprintf("%02d:%02d", r.Hour, r.Minute)
}

// Matches reports whether t (already in the journal zone) falls in the cutoff minute.
func (r ReportTime) Matches(t time.Time) bool {
	return t.Hour() == r.Hour && t.Minute() == r.Minute
}

// ReportTimeOf returns the cutoff of cfg, falling back to midnight when cfg is nil or unparsable.
func ReportTimeOf(cfg *UserConfig) ReportTime {
	if cfg == nil || cfg.ReportTime == "" {
		return Midnight
	}
	rt, err := ParseReportTime(cfg.ReportTime)
	if err != nil {
		return Midnight
	}
	return rt
}

// LogicalDate returns the YYYY-MM-DD bucket ref belongs to. An instant exactly at the cutoff
// belongs to the new day.
func LogicalDate(rt ReportTime, ref time.Time, loc *time.Location) string {
	local := ref.In(safeLocation(loc))
	y, m, d := local.Date()
	cutoff := time.Date(y, m, d, rt.Hour, rt.Minute, 0, 0, local.Location())
	if local.Before(cutoff) {
		return time.Date(y, m, d-1, 0, 0, 0, 0, local.Location()).Format(DateLayout)
	}
	return local.Format(DateLayout)
}

// ParseDateKey parses a bucket key as local midnight in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, key, safeLocation(loc))
}

func safeLocation(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

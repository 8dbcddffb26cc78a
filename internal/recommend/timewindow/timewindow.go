// Package timewindow computes the daily and slot window boundaries in the
// service timezone. All results are in UTC; every method takes the instant
// to evaluate so callers can pin time per request.
package timewindow

import (
	"fmt"
	"sort"
	"time"

	"tandem/internal/recommend/models"
	dErrors "tandem/pkg/domain-errors"
)

// Range is a half-open UTC interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls in [Start, End).
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Calculator is immutable; build a new one when settings change.
type Calculator struct {
	loc          *time.Location
	labels       []models.SlotLabel
	slotDuration time.Duration
	dailyRefresh models.SlotLabel
}

// New builds a calculator for loc. Labels must be well formed and distinct.
// A zero slotDuration tiles each slot up to the next label.
func New(loc *time.Location, labels []models.SlotLabel, slotDuration time.Duration, dailyRefresh models.SlotLabel) (*Calculator, error) {
	if loc == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "timezone is required")
	}
	if len(labels) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "at least one slot label is required")
	}
	sorted := make([]models.SlotLabel, len(labels))
	copy(sorted, labels)
	for _, l := range sorted {
		if !l.IsWellFormed() {
			return nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("slot label %q must match HH:mm", l))
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinuteOfDay() < sorted[j].MinuteOfDay()
	})
	if dailyRefresh == "" {
		dailyRefresh = models.DefaultDailyRefreshTime
	}
	if !dailyRefresh.IsWellFormed() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("daily refresh time %q must match HH:mm", dailyRefresh))
	}
	return &Calculator{
		loc:          loc,
		labels:       sorted,
		slotDuration: slotDuration,
		dailyRefresh: dailyRefresh,
	}, nil
}

// FromSettings builds a calculator from a settings snapshot.
func FromSettings(s *models.Settings) (*Calculator, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "unknown timezone")
	}
	return New(loc, s.SlotLabels, s.SlotDuration, s.DailyRefreshTime)
}

func (c *Calculator) Location() *time.Location {
	return c.loc
}

// Labels returns the configured labels in time-of-day order.
func (c *Calculator) Labels() []models.SlotLabel {
	out := make([]models.SlotLabel, len(c.labels))
	copy(out, c.labels)
	return out
}

// HasLabel reports whether label is part of the schedule.
func (c *Calculator) HasLabel(label models.SlotLabel) bool {
	return c.indexOf(label) >= 0
}

// =============================================================================
// Daily
// =============================================================================

// TodayStartUTC returns local midnight of now's local date.
func (c *Calculator) TodayStartUTC(now time.Time) time.Time {
	return c.at(now, 0, 0).UTC()
}

// TomorrowStartUTC returns local midnight of the day after now's local date.
func (c *Calculator) TomorrowStartUTC(now time.Time) time.Time {
	return c.at(now, 1, 0).UTC()
}

// DailyWindow returns the 24h window containing now. It starts at the daily
// refresh time, which is local midnight by default.
func (c *Calculator) DailyWindow(now time.Time) Range {
	minute := c.dailyRefresh.MinuteOfDay()
	start := c.at(now, 0, minute)
	if now.Before(start) {
		start = c.at(now, -1, minute)
	}
	return Range{
		Start: start.UTC(),
		End:   c.at(start, 1, minute).UTC(),
	}
}

// DailyDate returns the local calendar date the current daily window started
// on, at 00:00 UTC. It is the ledger key for daily records.
func (c *Calculator) DailyDate(now time.Time) time.Time {
	return c.DateOf(c.DailyWindow(now))
}

// =============================================================================
// Slots
// =============================================================================

// SlotRangeUTC returns the window of label relative to now. A slot whose
// window crosses local midnight belongs to the previous day until its start
// time comes around again. Any other slot is today's occurrence, even if it
// has not started yet.
func (c *Calculator) SlotRangeUTC(label models.SlotLabel, now time.Time) (Range, error) {
	idx := c.indexOf(label)
	if idx < 0 {
		return Range{}, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("slot %q is not configured", label))
	}
	minute := label.MinuteOfDay()
	start := c.at(now, 0, minute)
	if now.Before(start) && c.wrapsMidnight(idx) {
		start = c.at(now, -1, minute)
	}
	return Range{Start: start.UTC(), End: c.slotEnd(idx, start).UTC()}, nil
}

// CurrentSlot returns the slot whose window contains now. ok is false when
// the schedule leaves now uncovered, which only happens with a slot duration
// shorter than the gap between labels.
func (c *Calculator) CurrentSlot(now time.Time) (models.SlotLabel, Range, bool) {
	for idx, label := range c.labels {
		start := c.latestStart(idx, now)
		r := Range{Start: start.UTC(), End: c.slotEnd(idx, start).UTC()}
		if r.Contains(now) {
			return label, r, true
		}
	}
	return "", Range{}, false
}

// NextSlot returns the label whose next start is the soonest strictly after
// now, and that start.
func (c *Calculator) NextSlot(now time.Time) (models.SlotLabel, time.Time) {
	var (
		best      models.SlotLabel
		bestStart time.Time
	)
	for _, label := range c.labels {
		start := c.at(now, 0, label.MinuteOfDay())
		if !start.After(now) {
			start = c.at(now, 1, label.MinuteOfDay())
		}
		if best == "" || start.Before(bestStart) {
			best, bestStart = label, start
		}
	}
	return best, bestStart.UTC()
}

// LatestBoundary returns the most recent slot start at or before now. With
// the default schedule that is the latest of today 10:00, today 22:00 and
// yesterday 22:00.
func (c *Calculator) LatestBoundary(now time.Time) time.Time {
	var latest time.Time
	for idx := range c.labels {
		start := c.latestStart(idx, now)
		if start.After(latest) {
			latest = start
		}
	}
	return latest.UTC()
}

// MatchSlotWithTolerance finds a slot whose start lies within tolerance of
// now in either direction. Scheduled jobs use it because they fire near, not
// exactly at, a slot boundary. The returned range is the matched slot's
// window starting at that boundary.
func (c *Calculator) MatchSlotWithTolerance(now time.Time, tolerance time.Duration) (models.SlotLabel, Range, bool) {
	for idx, label := range c.labels {
		minute := label.MinuteOfDay()
		for _, dayOffset := range []int{-1, 0, 1} {
			start := c.at(now, dayOffset, minute)
			diff := now.Sub(start)
			if diff < 0 {
				diff = -diff
			}
			if diff <= tolerance {
				return label, Range{Start: start.UTC(), End: c.slotEnd(idx, start).UTC()}, true
			}
		}
	}
	return "", Range{}, false
}

// DateOf returns the local calendar date r starts on, at 00:00 UTC.
func (c *Calculator) DateOf(r Range) time.Time {
	return models.CivilDate(r.Start.In(c.loc))
}

// at returns the local instant minute minutes into the day dayOffset days
// from ref's local date.
func (c *Calculator) at(ref time.Time, dayOffset, minute int) time.Time {
	y, m, d := ref.In(c.loc).Date()
	return time.Date(y, m, d+dayOffset, minute/60, minute%60, 0, 0, c.loc)
}

func (c *Calculator) indexOf(label models.SlotLabel) int {
	for i, l := range c.labels {
		if l == label {
			return i
		}
	}
	return -1
}

// latestStart returns the most recent occurrence of label idx at or before now.
func (c *Calculator) latestStart(idx int, now time.Time) time.Time {
	minute := c.labels[idx].MinuteOfDay()
	start := c.at(now, 0, minute)
	if now.Before(start) {
		start = c.at(now, -1, minute)
	}
	return start
}

func (c *Calculator) slotEnd(idx int, start time.Time) time.Time {
	if c.slotDuration > 0 {
		return start.Add(c.slotDuration)
	}
	if idx+1 < len(c.labels) {
		return c.at(start, 0, c.labels[idx+1].MinuteOfDay())
	}
	return c.at(start, 1, c.labels[0].MinuteOfDay())
}

func (c *Calculator) wrapsMidnight(idx int) bool {
	if c.slotDuration > 0 {
		minute := c.labels[idx].MinuteOfDay()
		return time.Duration(minute)*time.Minute+c.slotDuration > 24*time.Hour
	}
	return idx == len(c.labels)-1
}

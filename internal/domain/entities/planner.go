package entities

import "time"

// PlanRevisions maps a study date and an interval table to the absolute revision dates
// for difficulty d: one date per offset, studyDate + offset calendar days in loc.
// Preferred review days are not consulted. An empty interval list plans nothing.
func PlanRevisions(studyDate time.Time, d Difficulty, table IntervalTable, loc *time.Location) []time.Time {
	return PlanOffsets(studyDate, table.For(d), loc)
}

// PlanOffsets is PlanRevisions for an explicit list of day offsets.
func PlanOffsets(studyDate time.Time, offsets []int, loc *time.Location) []time.Time {
	if loc == nil {
		loc = time.UTC
	}

	dates := make([]time.Time, len(offsets))
	local := studyDate.In(loc)
	for i, days := range offsets {
		dates[i] = local.AddDate(0, 0, days)
	}
	return dates
}

package timetable

// Day is one of the six working days of the school week.
type Day string

const (
	Monday    Day = "MON"
	Tuesday   Day = "TUE"
	Wednesday Day = "WED"
	Thursday  Day = "THU"
	Friday    Day = "FRI"
	Saturday  Day = "SAT"
)

const (
	// PeriodsPerDay is the number of teaching periods per working day.
	PeriodsPerDay = 8
	// RecessAfterPeriod marks the scheduling boundary between the morning
	// block (1..5) and the afternoon block (6..8). Recess is not a slot.
	RecessAfterPeriod = 5
)

// Days returns the working days in fixed weekly order.
func Days() []Day {
	return []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
}

// ValidDay reports whether d names a working day.
func ValidDay(d Day) bool {
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday:
		return true
	}
	return false
}

// ValidPeriod reports whether p is inside the 1..8 period range.
func ValidPeriod(p int) bool {
	return p >= 1 && p <= PeriodsPerDay
}

// Entry is one assignment: a teacher serving a class/subject at a slot.
type Entry struct {
	ClassID   string `json:"classId"`
	Subject   string `json:"subject"`
	TeacherID string `json:"teacherId"`
}

// Grid is the master timetable: day -> period -> teacherId -> entry. The key
// structure enforces at most one entry per (day, period, teacher); a class can
// transiently appear twice in one slot, which the validator reports.
//
// A Grid may be partially initialized. Absent day or period keys mean "no
// entries"; all accessors tolerate them.
type Grid map[Day]map[int]map[string]Entry

// NewGrid returns a fully initialized empty grid covering every day and period.
func NewGrid() Grid {
	g := make(Grid, len(Days()))
	for _, day := range Days() {
		g[day] = make(map[int]map[string]Entry, PeriodsPerDay)
		for p := 1; p <= PeriodsPerDay; p++ {
			g[day][p] = make(map[string]Entry)
		}
	}
	return g
}

// EntriesAt returns the teacherId -> entry map at (day, period), or nil when
// the slot has no entries. Callers must not mutate the returned map.
func (g Grid) EntriesAt(day Day, period int) map[string]Entry {
	if g == nil {
		return nil
	}
	return g[day][period]
}

// EntryFor returns the entry for teacherID at (day, period), if any.
func (g Grid) EntryFor(teacherID string, day Day, period int) (Entry, bool) {
	e, ok := g[day][period][teacherID]
	return e, ok
}

// ClassOccupied reports whether any teacher already serves classID at the slot.
func (g Grid) ClassOccupied(classID string, day Day, period int) bool {
	for _, e := range g[day][period] {
		if e.ClassID == classID {
			return true
		}
	}
	return false
}

// HasEntry reports whether any teacher serves classID/subject at the slot.
func (g Grid) HasEntry(classID, subject string, day Day, period int) bool {
	for _, e := range g[day][period] {
		if e.ClassID == classID && e.Subject == subject {
			return true
		}
	}
	return false
}

// Set places an entry for its teacher at (day, period), initializing missing
// levels. It overwrites any previous entry for the same teacher at that slot.
func (g Grid) Set(day Day, period int, e Entry) {
	if g[day] == nil {
		g[day] = make(map[int]map[string]Entry, PeriodsPerDay)
	}
	if g[day][period] == nil {
		g[day][period] = make(map[string]Entry)
	}
	g[day][period][e.TeacherID] = e
}

// Remove deletes the entry for teacherID at (day, period), if present.
func (g Grid) Remove(teacherID string, day Day, period int) {
	if g[day][period] != nil {
		delete(g[day][period], teacherID)
	}
}

// Clone returns a deep copy. Used at snapshot boundaries only; query
// functions read the shared grid directly.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for day, periods := range g {
		out[day] = make(map[int]map[string]Entry, len(periods))
		for p, entries := range periods {
			slot := make(map[string]Entry, len(entries))
			for tID, e := range entries {
				slot[tID] = e
			}
			out[day][p] = slot
		}
	}
	return out
}

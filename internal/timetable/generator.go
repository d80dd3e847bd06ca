package timetable

import "github.com/smartedudesk/timetable-api/internal/models"

// DefaultMorningQuota is how many periods of one requirement land in its
// preferred list before placement switches to the overflow list.
const DefaultMorningQuota = 6

// Generator builds a baseline grid from the roster with ordered-preference
// greedy placement. It is deterministic for a deterministic roster order and
// never fails: requirements it cannot place stay short, and the validator
// reports the resulting vacancies.
type Generator struct {
	MorningQuota int
	Fixed        []FixedSlot
}

// NewGenerator returns a generator with the standard quota and curricular pins.
func NewGenerator() *Generator {
	return &Generator{
		MorningQuota: DefaultMorningQuota,
		Fixed:        FixedSlots(),
	}
}

// periodPreference selects the ordered period lists for one requirement.
// Core subjects for senior classes and science belong in the morning block;
// grading subjects belong late in the day; everything else fills the
// afternoon first so the morning stays open for the core load.
func periodPreference(a models.TeacherAssignment) (preferred, overflow []int) {
	isCoreSenior := contains(coreSubjects, a.Subject) && contains(seniorClasses, a.ClassID)
	switch {
	case isCoreSenior || a.Subject == "Science":
		return []int{1, 2, 3, 4, 5}, []int{6, 7, 8}
	case contains(gradingSubjects, a.Subject):
		return []int{7, 8, 6, 5}, []int{1, 2, 3, 4}
	default:
		return []int{5, 6, 7, 8}, []int{1, 2, 3, 4}
	}
}

// Generate produces a complete baseline grid for the roster.
func (g *Generator) Generate(teachers []models.Teacher) Grid {
	grid := NewGrid()
	for _, t := range teachers {
		for _, a := range t.Assignments {
			g.placeRequirement(grid, t.ID, a)
		}
	}
	return grid
}

func (g *Generator) placeRequirement(grid Grid, teacherID string, a models.TeacherAssignment) {
	assigned := 0

	// Curricular pins matching this requirement land first and count toward
	// the target. The class-occupied check keeps a second teacher sharing the
	// same class/subject from re-seeding an already pinned slot.
	for _, fs := range g.Fixed {
		if assigned >= a.PeriodsPerWeek {
			break
		}
		if fs.ClassID != a.ClassID || fs.Subject != a.Subject {
			continue
		}
		if g.free(grid, teacherID, a.ClassID, fs.Day, fs.Period) {
			grid.Set(fs.Day, fs.Period, Entry{ClassID: a.ClassID, Subject: a.Subject, TeacherID: teacherID})
			assigned++
		}
	}

	preferred, overflow := periodPreference(a)

	// Main pass: at most one placement per day, honouring the streak limit.
	for _, day := range Days() {
		if assigned >= a.PeriodsPerWeek {
			break
		}
		periods := preferred
		if assigned >= g.MorningQuota {
			periods = overflow
		}
		for _, p := range periods {
			if !g.free(grid, teacherID, a.ClassID, day, p) {
				continue
			}
			if Streak(teacherID, day, p, grid, nil) >= 3 {
				continue
			}
			grid.Set(day, p, Entry{ClassID: a.ClassID, Subject: a.Subject, TeacherID: teacherID})
			assigned++
			break
		}
	}

	// Fallback pass: relax the streak limit only. The structural checks stay.
	if assigned < a.PeriodsPerWeek {
		for _, day := range Days() {
			if assigned >= a.PeriodsPerWeek {
				break
			}
			for p := 1; p <= PeriodsPerDay; p++ {
				if !g.free(grid, teacherID, a.ClassID, day, p) {
					continue
				}
				grid.Set(day, p, Entry{ClassID: a.ClassID, Subject: a.Subject, TeacherID: teacherID})
				assigned++
				break
			}
		}
	}
}

// free reports whether both the teacher and the class are unoccupied at the
// slot. The generator works on the master grid alone; no substitution overlay
// exists at generation time.
func (g *Generator) free(grid Grid, teacherID, classID string, day Day, period int) bool {
	if _, busy := grid.EntryFor(teacherID, day, period); busy {
		return false
	}
	return !grid.ClassOccupied(classID, day, period)
}

package timetable

import "github.com/smartedudesk/timetable-api/internal/models"

// ScoreWeights are the substitute-scoring constants. Lifted into configuration
// so boundary behaviour (qualified-but-overloaded vs. unqualified-but-fresh)
// can be probed deterministically.
type ScoreWeights struct {
	Qualified       int
	InCharge        int
	AtStreakLimit   int
	OverStreakLimit int
}

// DefaultScoreWeights returns the standing policy weights.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		Qualified:       100,
		InCharge:        50,
		AtStreakLimit:   10,
		OverStreakLimit: 200,
	}
}

// SubstituteResult is the outcome of one substitute search. Teacher is nil
// when nobody is free. WouldViolate marks a candidate whose resulting streak
// exceeds three; the caller surfaces it to the admin, the engine never blocks
// on it.
type SubstituteResult struct {
	Teacher      *models.Teacher
	WouldViolate bool
	Streak       int
}

// SubstituteFinder scores free teachers for a vacated slot.
type SubstituteFinder struct {
	weights ScoreWeights
}

// NewSubstituteFinder builds a finder with the given weights.
func NewSubstituteFinder(weights ScoreWeights) *SubstituteFinder {
	return &SubstituteFinder{weights: weights}
}

// Find selects the best free teacher to cover (day, period) for the absent
// teacher's class and subject. Each call resolves one slot in isolation; when
// a caller processes a batch of absences it passes the substitutions already
// committed so far, so earlier picks count as busy here.
//
// Scoring: subject qualification and class in-charge add; a resulting streak
// at or over the limit subtracts; current daily load subtracts as a
// tie-breaker. Ties go to the earliest candidate in roster order.
func (f *SubstituteFinder) Find(
	absentTeacherID string,
	day Day,
	period int,
	classID, subject string,
	grid Grid,
	teachers []models.Teacher,
	subs []models.Substitution,
) SubstituteResult {
	var (
		best      *models.Teacher
		bestScore int
		result    SubstituteResult
	)

	for i := range teachers {
		t := &teachers[i]
		if t.ID == absentTeacherID {
			continue
		}
		if IsBusy(t.ID, day, period, grid, subs) {
			continue
		}

		streak := Streak(t.ID, day, period, grid, subs)

		score := 0
		if t.Qualified(subject) {
			score += f.weights.Qualified
		}
		if t.IsInCharge(classID) {
			score += f.weights.InCharge
		}
		if streak == 3 {
			score -= f.weights.AtStreakLimit
		}
		if streak > 3 {
			score -= f.weights.OverStreakLimit
		}
		score -= DailyLoad(t.ID, day, grid, subs)

		if best == nil || score > bestScore {
			best = t
			bestScore = score
			result = SubstituteResult{
				Teacher:      t,
				WouldViolate: streak > 3,
				Streak:       streak,
			}
		}
	}

	return result
}

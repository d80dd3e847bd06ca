package timetable

import "github.com/smartedudesk/timetable-api/internal/models"

// Rule set names accepted by configuration.
const (
	RuleSetStandard = "standard"
	RuleSetLegacy   = "legacy"
)

// RuleSet is an ordered list of rules evaluated as one validation pass.
// Historical validator variants differ only in which rules they include and
// at what severity, so variants are composition choices rather than forks.
type RuleSet struct {
	Name  string
	Rules []Rule
}

// StandardRuleSet is the full current policy. The teaching-streak severity is
// the one knob that has flip-flopped historically, so it stays configurable.
func StandardRuleSet(teachStreakSeverity Severity) RuleSet {
	return RuleSet{
		Name: RuleSetStandard,
		Rules: []Rule{
			DoubleBookingRule(SeverityError),
			VacantPeriodRule(SeverityError),
			TeachStreakRule(teachStreakSeverity),
			AfternoonBlockRule(SeverityError),
			FreeStreakRule(SeverityError),
			MorningOnlyRule(SeverityError),
			VacantAfterRecessRule(SeverityError),
			FixedSlotRule(SeverityError, FixedSlots()),
		},
	}
}

// LegacyRuleSet mirrors the older, looser policy: conflicts and vacancies plus
// advisory core-placement and streak warnings.
func LegacyRuleSet() RuleSet {
	return RuleSet{
		Name: RuleSetLegacy,
		Rules: []Rule{
			DoubleBookingRule(SeverityError),
			VacantPeriodRule(SeverityError),
			CoreAfterRecessRule(SeverityWarning),
			TeachStreakRule(SeverityWarning),
		},
	}
}

// Validator runs a rule set over a grid. It is pure: no state survives a pass
// and two passes over an unchanged grid produce identical issue lists.
type Validator struct {
	set RuleSet
}

// NewValidator builds a validator for the given rule set.
func NewValidator(set RuleSet) *Validator {
	return &Validator{set: set}
}

// Validate evaluates every rule in order and concatenates their issues.
func (v *Validator) Validate(grid Grid, teachers []models.Teacher) []Issue {
	issues := []Issue{}
	for _, rule := range v.set.Rules {
		issues = append(issues, rule(grid, teachers)...)
	}
	return issues
}

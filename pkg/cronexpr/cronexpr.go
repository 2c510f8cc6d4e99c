package cronexpr

import (
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/salgue441/jobrunner/pkg/errors"
)

// Parser accepts five-field (minute-level) expressions and six-field
// expressions whose first field is seconds; it is shared with the cron
// registry so validation and actual scheduling agree on syntax.
var Parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
)

// Validate parses schedule and returns a descriptive validation error on
// malformed input, nil on success.
func Validate(schedule string) error {
	_, err := Parse(schedule)
	return err
}

// Parse resolves schedule into a cron.Schedule.
func Parse(schedule string) (cron.Schedule, error) {
	fields := strings.Fields(schedule)
	if len(fields) != 5 && len(fields) != 6 {
		return nil, errors.Newf(
			"schedule %q must have 5 or 6 fields, got %d", schedule, len(fields)).
			WithCode(errors.CodeValidation)
	}

	sched, err := Parser.Parse(schedule)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid schedule %q", schedule).
			WithCode(errors.CodeValidation)
	}

	return sched, nil
}

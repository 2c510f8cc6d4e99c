package state

import (
	"strconv"
	"time"

	"github.com/salgue441/jobrunner/pkg/errors"
)

// parseTTL parses a "<positive integer><d|h|m>" string into a duration.
// Any other form is a ConfigError (errors.CodeValidation).
func parseTTL(ttl string) (time.Duration, error) {
	if len(ttl) < 2 {
		return 0, errors.Newf("invalid ttl %q: expected <n><d|h|m>", ttl).
			WithCode(errors.CodeValidation)
	}

	unit := ttl[len(ttl)-1]
	numPart := ttl[:len(ttl)-1]

	n, err := strconv.Atoi(numPart)
	if err != nil || n <= 0 {
		return 0, errors.Newf("invalid ttl %q: expected a positive integer", ttl).
			WithCode(errors.CodeValidation)
	}

	switch unit {
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'm':
		return time.Duration(n) * time.Minute, nil
	default:
		return 0, errors.Newf("invalid ttl %q: unit must be d, h or m", ttl).
			WithCode(errors.CodeValidation)
	}
}

package reminder

import (
	"fmt"
	"strings"
	"time"

	"github.com/adhocore/gronx"
)

// ValidateCron accepts standard 5-field expressions only.
func ValidateCron(expr string) error {
	if len(strings.Fields(expr)) != 5 || !gronx.IsValid(expr) {
		return fmt.Errorf("invalid cron expression %q, expected 5-field format (minute hour day-of-month month day-of-week)", expr)
	}
	return nil
}

// NextTick returns the next time expr fires strictly after from.
func NextTick(expr string, from time.Time) (time.Time, error) {
	return gronx.NextTickAfter(expr, from, false)
}

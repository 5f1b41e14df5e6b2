package scenarios

import (
	"github.com/Qualiasolutions/chainwise-advisor/internal/market"
)

// Identify returns the first template whose predicate matches the message
// under current market conditions, or nil when none match. Evaluation is
// pure and deterministic; rule order encodes priority.
func Identify(message string, snapshot *market.Snapshot) *Template {
	for _, r := range rules {
		if r.matches(message, snapshot) {
			return r.template
		}
	}
	return nil
}

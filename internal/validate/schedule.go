package validate

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/soochol/wfcheck/internal/flow"
)

// Parameter keys read from schedule trigger nodes.
var cronParamKeys = []string{"cron", "cronExpression"}

const timezoneParamKey = "timezone"

// parseCronExpr tries 6-field (with seconds) then 5-field (standard) parsing.
// If timezone is non-empty and non-UTC, it is applied via the CRON_TZ= prefix.
func parseCronExpr(expr string, timezone string) (cron.Schedule, error) {
	if timezone != "" && timezone != "UTC" {
		expr = "CRON_TZ=" + timezone + " " + expr
	}
	parser6 := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser6.Parse(expr)
	if err == nil {
		return sched, nil
	}
	parser5 := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return parser5.Parse(expr)
}

// checkSchedule validates the cron expression carried by a schedule node.
// Nodes without a cron parameter are left alone.
func checkSchedule(n flow.Node) *flow.Issue {
	for _, key := range cronParamKeys {
		raw, ok := n.Parameters[key]
		if !ok {
			continue
		}
		expr, ok := raw.(string)
		if !ok {
			return &flow.Issue{
				Code:    flow.CodeInvalidCron,
				Message: fmt.Sprintf("Node %q: %s must be a string, got %T", label(n), key, raw),
				NodeID:  n.ID,
			}
		}
		tz, _ := n.Parameters[timezoneParamKey].(string)
		if _, err := parseCronExpr(expr, tz); err != nil {
			return &flow.Issue{
				Code:    flow.CodeInvalidCron,
				Message: fmt.Sprintf("Node %q has an invalid cron expression %q: %v", label(n), expr, err),
				NodeID:  n.ID,
			}
		}
		return nil
	}
	return nil
}

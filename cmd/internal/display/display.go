// Package display holds plan rendering shared by the run and plan commands.
package display

import (
	"github.com/charmbracelet/log"

	"github.com/Adarsh505-cloud/ai-web-executor/common"
	"github.com/Adarsh505-cloud/ai-web-executor/schema"
)

// LogPlan prints one line per action so the operator can review a plan
// before the browser starts.
func LogPlan(plan *schema.Plan) {
	common.LogBannerMsg([]string{"EXECUTION PLAN"}, 2)
	for i, action := range plan.Actions {
		selector := truncate(common.GetStrOr(action.Selector, "N/A"), 40)
		value := truncate(common.GetStrOr(action.Value, "N/A"), 40)
		log.Infof("%2d. %-20s | selector=%-40s | value=%s", i+1, action.Type, selector, value)
	}
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}

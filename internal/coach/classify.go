package coach

import (
	"fmt"
	"math"
	"strings"
)

// Feasibility ratio thresholds for timeline classification.
const (
	ratioAbsurd      = 0.1
	ratioUnrealistic = 0.3
	ratioRealistic   = 0.7
)

// Advisory builds the assistant message shown alongside a finished plan.
// It is a pure function of the plan: the first matching branch wins, and
// every field-presence combination falls through to a sensible message.
func Advisory(p *Plan) string {
	// A changed goal trumps everything, including feasibility detail.
	if p.OriginalGoal != "" && p.GoalChangedReason != "" {
		return "Heads up: I adjusted your goal to something more achievable. See the plan below for what changed and why."
	}

	impossible := p.RealisticHoursNeeded != nil && p.RealisticHoursNeeded.Impossible
	noSteps := len(p.Steps) == 0
	adjusted := (p.TimelineAdjusted != nil && *p.TimelineAdjusted) || p.AdjustmentExplanation != ""

	var ratio *float64
	if r := p.FeasibilityRatio; r != nil && !math.IsNaN(*r) && !math.IsInf(*r, 0) {
		ratio = r
	}

	if impossible || noSteps {
		msg := "This goal isn't achievable in the time you have, so I built a plan for the closest realistic alternative instead."
		if p.AdjustmentExplanation != "" {
			msg += "\n\n" + p.AdjustmentExplanation
		}
		return msg
	}

	if adjusted && ratio != nil {
		pct := int(math.Round(*ratio * 100))
		switch {
		case *ratio < ratioAbsurd:
			return "Your timeline is absurdly short for this goal. I stretched the plan to what could actually work, so treat the schedule below as the real minimum."
		case *ratio < ratioUnrealistic:
			return fmt.Sprintf("Your timeline is very unrealistic: you have roughly %d%% of the time this goal needs. The plan below is adjusted to what's actually doable.", pct)
		case *ratio < ratioRealistic:
			return fmt.Sprintf("Your timeline is aggressive but possible: you have roughly %d%% of the ideal time. The plan below cuts to the essentials.", pct)
		default:
			return "Your timeline looks realistic for this goal. Here's your plan. Want me to turn it into a week-by-week schedule?"
		}
	}

	if adjusted {
		msg := "I adjusted the timeline to something workable."
		if p.AdjustmentExplanation != "" {
			msg += " " + strings.TrimSpace(p.AdjustmentExplanation)
		}
		return msg + "\n\nHere's your plan."
	}

	return "Your plan is ready! Work through the steps below in order and use each check to confirm you're on track."
}

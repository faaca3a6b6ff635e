package planner

import (
	"fmt"

	"coachai/internal/coach"
)

// sanitizePlan coerces model output into a shape that satisfies the plan
// response contract: steps renumbered and non-empty (unless the goal is
// impossible), every step field filled, tips and goal present.
func sanitizePlan(p *coach.Plan, goal string) {
	impossible := p.RealisticHoursNeeded != nil && p.RealisticHoursNeeded.Impossible

	if len(p.Steps) == 0 && !impossible {
		p.Steps = []coach.Step{{
			Do:        "Research and scope: " + goal,
			Why:       "Need to understand requirements before planning",
			Check:     "You have a clear breakdown of what's needed",
			Resources: []string{"Google", "YouTube", "Online forums"},
		}}
	}

	for i := range p.Steps {
		step := &p.Steps[i]
		step.StepNumber = i + 1
		if step.Do == "" {
			step.Do = fmt.Sprintf("Step %d task", i+1)
		}
		if step.Why == "" {
			step.Why = "Important for progress"
		}
		if step.Check == "" {
			step.Check = "Verify completion"
		}
		var resources []string
		for _, r := range step.Resources {
			if r != "" {
				resources = append(resources, r)
			}
		}
		if len(resources) == 0 {
			resources = []string{"Online resources"}
		}
		step.Resources = resources
	}

	var tips []string
	for _, tip := range p.Tips {
		if tip != "" {
			tips = append(tips, tip)
		}
	}
	if len(tips) == 0 {
		tips = []string{"Stay consistent", "Track progress", "Adjust as you learn"}
	}
	p.Tips = tips

	if p.Goal == "" {
		p.Goal = goal
	}
}

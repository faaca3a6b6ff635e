package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"coachai/internal/coach"
)

// planMarkdown builds a markdown document for a finished plan.
func planMarkdown(p *coach.Plan) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", p.Goal)

	if p.OriginalGoal != "" && p.GoalChangedReason != "" {
		fmt.Fprintf(&b, "> Originally: *%s*\n>\n> %s\n\n", p.OriginalGoal, p.GoalChangedReason)
	}

	if len(p.Steps) > 0 {
		b.WriteString("## Steps\n\n")
		for _, step := range p.Steps {
			fmt.Fprintf(&b, "### %d. %s\n\n", step.StepNumber, step.Do)
			if step.Why != "" {
				fmt.Fprintf(&b, "*Why:* %s\n\n", step.Why)
			}
			if step.Check != "" {
				fmt.Fprintf(&b, "*Check:* %s\n\n", step.Check)
			}
			if len(step.Resources) > 0 {
				b.WriteString("Resources:\n\n")
				for _, r := range step.Resources {
					fmt.Fprintf(&b, "- %s\n", r)
				}
				b.WriteString("\n")
			}
		}
	}

	if len(p.Tips) > 0 {
		b.WriteString("## Tips\n\n")
		for _, tip := range p.Tips {
			fmt.Fprintf(&b, "- %s\n", tip)
		}
	}

	return b.String()
}

// renderPlan renders a plan as styled terminal markdown. If the renderer
// fails the raw markdown is still readable.
func renderPlan(p *coach.Plan, width int) string {
	md := planMarkdown(p)
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

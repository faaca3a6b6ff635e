package planner

import (
	"fmt"

	"coachai/internal/coach"
)

// decidePrompt asks the model whether more clarifying questions are needed.
func decidePrompt(goal string, qaPairs []coach.QAPair) string {
	return fmt.Sprintf(`Goal: %s

Information gathered so far (%d questions answered):
%s

Decide if you need MORE information or have ENOUGH to create an excellent plan.

Guidelines:
- Maximum %d questions total
- Only ask if the information is CRITICAL for the plan
- Stop early if you have enough context
- Consider: time, experience level, constraints, resources, context

Return JSON:
{
  "action": "ask" or "ready",
  "question": "Your next specific question (if action=ask, else null)",
  "reasoning": "Brief why you need this info or why you're ready"
}

Be efficient - quality over quantity.`, goal, len(qaPairs), formatQA(qaPairs), coach.MaxQuestions)
}

// planPrompt asks the model for a complete structured plan.
func planPrompt(goal string, qaPairs []coach.QAPair) string {
	return fmt.Sprintf(`%s

%s

Create a realistic, actionable plan.

RULES FOR ACTIONABLE STEPS:

1. Be SPECIFIC about the OUTCOME, FLEXIBLE about the METHOD
   - Describe clearly what needs to be accomplished
   - Provide 2-3 concrete approach options when multiple valid paths exist
   - Respect the user's stated preferences from their answers above

2. For TECHNICAL steps: use the user's stated tech preferences; if they are
   flexible, suggest 2-3 common options with brief context.

3. For NON-TECHNICAL steps: give concrete examples relevant to the user's context.

4. Each step = ONE clear action. Not "design and build" - split into two steps.

5. AVOID meta-work (planning to plan). Steps must be startable immediately.

6. The "check" field is a MEASURABLE outcome, focused on the result achieved,
   not the method used.

If the goal is impossible in the stated time, set realistic_hours_needed to
"IMPOSSIBLE" and adjust the goal to the closest achievable alternative,
recording original_goal and goal_changed_reason.

Return ONLY valid JSON:
{
  "goal": "achievable goal (adjusted if needed)",
  "original_goal": "user's original goal text (only if you changed it, else null)",
  "goal_changed_reason": "brief explanation why you adjusted it (only if changed, else null)",
  "user_requested_hours": 10,
  "realistic_hours_needed": 40,
  "feasibility_ratio": 0.25,
  "timeline_adjusted": true,
  "adjustment_explanation": "only if the timeline was adjusted, else null",
  "steps": [
    {
      "step_number": 1,
      "do": "Specific action with flexible approach options when relevant",
      "why": "Clear reason this step matters",
      "check": "Measurable completion criterion (outcome-focused)",
      "resources": ["Specific resource/tool option 1", "Alternative option 2"]
    }
  ],
  "tips": ["Practical actionable advice", "Common pitfall to avoid", "Strategic reminder"]
}

Be concrete about WHAT to achieve. Provide options for HOW to achieve it.
Someone should be able to start immediately after reading each step.`, goal, formatQA(qaPairs))
}

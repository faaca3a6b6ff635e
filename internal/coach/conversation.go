package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Phase is the conversation state machine state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAskingQuestions
	PhasePlanReady
)

// String returns the phase name for logs and tests.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAskingQuestions:
		return "asking_questions"
	case PhasePlanReady:
		return "plan_ready"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// MaxQuestions caps the number of clarifying questions per goal. Once the
// user has answered this many, the next turn always requests a plan no
// matter what the continuation decision says.
const MaxQuestions = 10

// FixedTimeQuestion is always the first clarifying question.
const FixedTimeQuestion = "How much time do you have to achieve this goal? (e.g., '5 days', '3 months', '2 hours per week for 6 months')"

// ErrBusy is returned when Submit is called while a previous turn is still
// waiting on the plan service. Re-entrancy here is a defect, not a feature.
var ErrBusy = errors.New("a conversation turn is already in flight")

// PlanService is the remote collaborator that decides whether to keep
// asking and ultimately generates the plan.
type PlanService interface {
	Continue(ctx context.Context, goal string, qaPairs []QAPair) (Decision, error)
	GeneratePlan(ctx context.Context, goal string, qaPairs []QAPair) (*Plan, error)
}

// GeneratedPlan is the handoff produced when a turn finishes with a plan.
// The shell persists it; the conversation itself never touches storage.
type GeneratedPlan struct {
	Goal    string
	QAPairs []QAPair
	Plan    *Plan
}

// Turn is the outcome of one accepted user message: the assistant messages
// to append to the transcript, and the generated plan if this turn was the
// terminal one.
type Turn struct {
	Messages  []string
	Generated *GeneratedPlan
}

// Conversation drives the question/answer loop for a single goal session.
// It is owned by one shell instance and is not safe for concurrent use;
// the busy flag guards against re-entrant submissions, not against races.
type Conversation struct {
	id  string
	svc PlanService

	goal      string
	questions []string
	answers   []QAPair
	current   int
	phase     Phase
	plan      *Plan

	busy bool
}

// NewConversation creates an idle conversation backed by the given service.
func NewConversation(svc PlanService) *Conversation {
	return &Conversation{
		id:    uuid.NewString(),
		svc:   svc,
		phase: PhaseIdle,
	}
}

// ID identifies this conversation. The shell uses it to discard results
// that complete after the conversation has been replaced.
func (c *Conversation) ID() string { return c.id }

// Phase returns the current state machine state.
func (c *Conversation) Phase() Phase { return c.phase }

// Goal returns the goal text for the active session.
func (c *Conversation) Goal() string { return c.goal }

// Answers returns the question/answer pairs collected so far, in the order
// they were asked.
func (c *Conversation) Answers() []QAPair {
	out := make([]QAPair, len(c.answers))
	copy(out, c.answers)
	return out
}

// Plan returns the generated plan, or nil before the terminal turn.
func (c *Conversation) Plan() *Plan { return c.plan }

// Submit processes one user message and advances the state machine. Empty
// input is ignored. If a service call fails the session state is left
// exactly as it was, so the user can resend the same answer.
func (c *Conversation) Submit(ctx context.Context, text string) (Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Turn{}, nil
	}
	if c.busy {
		return Turn{}, ErrBusy
	}
	c.busy = true
	defer func() { c.busy = false }()

	switch c.phase {
	case PhaseIdle:
		return c.startGoal(text), nil
	case PhasePlanReady:
		// A message over a finished plan starts a brand-new goal.
		c.answers = nil
		c.plan = nil
		return c.startGoal(text), nil
	case PhaseAskingQuestions:
		return c.answerQuestion(ctx, text)
	default:
		return Turn{}, fmt.Errorf("unexpected conversation phase %v", c.phase)
	}
}

// startGoal records the goal and asks the fixed time question.
func (c *Conversation) startGoal(goal string) Turn {
	c.goal = goal
	c.questions = []string{FixedTimeQuestion}
	c.current = 0
	c.phase = PhaseAskingQuestions
	return Turn{Messages: []string{FixedTimeQuestion}}
}

// answerQuestion records an answer and either asks the next clarifying
// question or requests the plan. Session state is only committed once the
// needed service calls have succeeded.
func (c *Conversation) answerQuestion(ctx context.Context, answer string) (Turn, error) {
	answered := append(c.Answers(), QAPair{
		Question: c.questions[c.current],
		Answer:   answer,
	})

	if len(answered) < MaxQuestions {
		decision, err := c.svc.Continue(ctx, c.goal, answered)
		if err != nil {
			return Turn{}, fmt.Errorf("continuation decision: %w", err)
		}
		if decision.Action == ActionAsk && strings.TrimSpace(decision.Question) != "" {
			c.answers = answered
			c.questions = append(c.questions, decision.Question)
			c.current++
			progress := fmt.Sprintf("Question %d of %d max", len(answered)+1, MaxQuestions)
			return Turn{Messages: []string{progress, decision.Question}}, nil
		}
	}

	plan, err := c.svc.GeneratePlan(ctx, c.goal, answered)
	if err != nil {
		return Turn{}, fmt.Errorf("generate plan: %w", err)
	}

	c.answers = answered
	c.plan = plan
	c.phase = PhasePlanReady

	return Turn{
		Messages: []string{Advisory(plan)},
		Generated: &GeneratedPlan{
			Goal:    c.goal,
			QAPairs: answered,
			Plan:    plan,
		},
	}, nil
}

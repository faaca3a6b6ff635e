package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// fakePlanService scripts continuation decisions and plan generation.
type fakePlanService struct {
	decisions []Decision
	decideErr error
	plan      *Plan
	planErr   error

	continueCalls int
	generateCalls int
	lastQAPairs   []QAPair
}

func (f *fakePlanService) Continue(_ context.Context, _ string, qaPairs []QAPair) (Decision, error) {
	f.continueCalls++
	f.lastQAPairs = qaPairs
	if f.decideErr != nil {
		return Decision{}, f.decideErr
	}
	if len(f.decisions) == 0 {
		return Decision{Action: ActionReady}, nil
	}
	d := f.decisions[0]
	f.decisions = f.decisions[1:]
	return d, nil
}

func (f *fakePlanService) GeneratePlan(_ context.Context, goal string, qaPairs []QAPair) (*Plan, error) {
	f.generateCalls++
	f.lastQAPairs = qaPairs
	if f.planErr != nil {
		return nil, f.planErr
	}
	if f.plan != nil {
		return f.plan, nil
	}
	return &Plan{Goal: goal, Steps: planWithSteps()}, nil
}

func askDecisions(n int) []Decision {
	var ds []Decision
	for i := 0; i < n; i++ {
		ds = append(ds, Decision{Action: ActionAsk, Question: fmt.Sprintf("clarifying question %d?", i+1)})
	}
	return ds
}

func TestSubmit_FirstGoalAsksFixedTimeQuestion(t *testing.T) {
	c := NewConversation(&fakePlanService{})

	turn, err := c.Submit(context.Background(), "Learn guitar")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if len(turn.Messages) != 1 || turn.Messages[0] != FixedTimeQuestion {
		t.Errorf("expected exactly the fixed time question, got %v", turn.Messages)
	}
	if c.Phase() != PhaseAskingQuestions {
		t.Errorf("expected phase asking_questions, got %v", c.Phase())
	}
	if c.Goal() != "Learn guitar" {
		t.Errorf("expected goal recorded, got %q", c.Goal())
	}
}

func TestSubmit_EmptyInputIgnored(t *testing.T) {
	c := NewConversation(&fakePlanService{})

	turn, err := c.Submit(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if len(turn.Messages) != 0 {
		t.Errorf("expected no messages for empty input, got %v", turn.Messages)
	}
	if c.Phase() != PhaseIdle {
		t.Errorf("expected phase to stay idle, got %v", c.Phase())
	}
}

func TestSubmit_AskDecisionAppendsQuestion(t *testing.T) {
	svc := &fakePlanService{decisions: askDecisions(1)}
	c := NewConversation(svc)
	ctx := context.Background()

	c.Submit(ctx, "Learn guitar")
	turn, err := c.Submit(ctx, "two hours a week")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if len(turn.Messages) != 2 {
		t.Fatalf("expected progress + question messages, got %v", turn.Messages)
	}
	if turn.Messages[0] != "Question 2 of 10 max" {
		t.Errorf("unexpected progress message %q", turn.Messages[0])
	}
	if turn.Messages[1] != "clarifying question 1?" {
		t.Errorf("unexpected question %q", turn.Messages[1])
	}
	if got := c.Answers(); len(got) != 1 || got[0].Question != FixedTimeQuestion || got[0].Answer != "two hours a week" {
		t.Errorf("unexpected answers %v", got)
	}
	if c.Phase() != PhaseAskingQuestions {
		t.Errorf("expected to remain asking, got %v", c.Phase())
	}
}

func TestSubmit_ReadyDecisionGeneratesPlan(t *testing.T) {
	svc := &fakePlanService{decisions: []Decision{{Action: ActionReady, Reasoning: "enough context"}}}
	c := NewConversation(svc)
	ctx := context.Background()

	c.Submit(ctx, "Learn guitar")
	turn, err := c.Submit(ctx, "two hours a week")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if c.Phase() != PhasePlanReady {
		t.Errorf("expected plan_ready, got %v", c.Phase())
	}
	if turn.Generated == nil {
		t.Fatal("expected a generated plan handoff")
	}
	if turn.Generated.Goal != "Learn guitar" {
		t.Errorf("unexpected handoff goal %q", turn.Generated.Goal)
	}
	if len(turn.Generated.QAPairs) != 1 {
		t.Errorf("expected 1 qa pair in handoff, got %d", len(turn.Generated.QAPairs))
	}
	if len(turn.Messages) != 1 {
		t.Errorf("expected one advisory message, got %v", turn.Messages)
	}
}

func TestSubmit_AskWithEmptyQuestionGeneratesPlan(t *testing.T) {
	svc := &fakePlanService{decisions: []Decision{{Action: ActionAsk, Question: "  "}}}
	c := NewConversation(svc)
	ctx := context.Background()

	c.Submit(ctx, "Learn guitar")
	turn, err := c.Submit(ctx, "two hours a week")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if turn.Generated == nil {
		t.Fatal("ask decision without a question must fall through to plan generation")
	}
}

func TestSubmit_MaxQuestionsForcesPlan(t *testing.T) {
	// Script the service to keep asking forever; the cap must win.
	svc := &fakePlanService{decisions: askDecisions(MaxQuestions + 5)}
	c := NewConversation(svc)
	ctx := context.Background()

	c.Submit(ctx, "Learn guitar")
	var last Turn
	for i := 0; i < MaxQuestions; i++ {
		var err error
		last, err = c.Submit(ctx, fmt.Sprintf("answer %d", i+1))
		if err != nil {
			t.Fatalf("Submit %d failed: %v", i+1, err)
		}
	}

	if last.Generated == nil {
		t.Fatal("expected forced plan generation at the question cap")
	}
	if got := len(c.Answers()); got != MaxQuestions {
		t.Errorf("expected %d answers, got %d", MaxQuestions, got)
	}
	// The terminal turn must not consult the continuation decision.
	if svc.continueCalls != MaxQuestions-1 {
		t.Errorf("expected %d continuation calls, got %d", MaxQuestions-1, svc.continueCalls)
	}
}

func TestSubmit_ContinueFailureLeavesStateUntouched(t *testing.T) {
	svc := &fakePlanService{decideErr: errors.New("boom")}
	c := NewConversation(svc)
	ctx := context.Background()

	c.Submit(ctx, "Learn guitar")
	_, err := c.Submit(ctx, "two hours a week")
	if err == nil {
		t.Fatal("expected error from failed continuation call")
	}

	if c.Phase() != PhaseAskingQuestions {
		t.Errorf("phase must not advance on failure, got %v", c.Phase())
	}
	if len(c.Answers()) != 0 {
		t.Errorf("answer must not be committed on failure, got %v", c.Answers())
	}

	// The user resends the same answer after the service recovers.
	svc.decideErr = nil
	turn, err := c.Submit(ctx, "two hours a week")
	if err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
	if turn.Generated == nil {
		t.Fatal("expected plan after recovery")
	}
}

func TestSubmit_GenerateFailureLeavesStateUntouched(t *testing.T) {
	svc := &fakePlanService{planErr: errors.New("boom")}
	c := NewConversation(svc)
	ctx := context.Background()

	c.Submit(ctx, "Learn guitar")
	_, err := c.Submit(ctx, "two hours a week")
	if err == nil {
		t.Fatal("expected error from failed plan call")
	}
	if c.Phase() != PhaseAskingQuestions {
		t.Errorf("phase must not advance on failure, got %v", c.Phase())
	}
	if c.Plan() != nil {
		t.Error("plan must not be set on failure")
	}
}

func TestSubmit_PlanReadyStartsNewGoal(t *testing.T) {
	svc := &fakePlanService{}
	c := NewConversation(svc)
	ctx := context.Background()

	c.Submit(ctx, "Learn guitar")
	c.Submit(ctx, "two hours a week")
	if c.Phase() != PhasePlanReady {
		t.Fatalf("setup: expected plan_ready, got %v", c.Phase())
	}

	turn, err := c.Submit(ctx, "Learn to cook")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if c.Phase() != PhaseAskingQuestions {
		t.Errorf("expected asking_questions after new goal, got %v", c.Phase())
	}
	if c.Goal() != "Learn to cook" {
		t.Errorf("expected new goal recorded, got %q", c.Goal())
	}
	if len(c.Answers()) != 0 {
		t.Errorf("expected answers reset, got %v", c.Answers())
	}
	if c.Plan() != nil {
		t.Error("expected previous plan discarded")
	}
	if len(turn.Messages) != 1 || turn.Messages[0] != FixedTimeQuestion {
		t.Errorf("expected fixed time question again, got %v", turn.Messages)
	}
}

func TestSubmit_BusyRejectsReentrantCall(t *testing.T) {
	c := NewConversation(&fakePlanService{})
	ctx := context.Background()
	c.Submit(ctx, "Learn guitar")

	// Simulate a turn already in flight.
	c.busy = true
	_, err := c.Submit(ctx, "two hours a week")
	if !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}
}

func TestSubmit_AdvisoryReflectsPlan(t *testing.T) {
	svc := &fakePlanService{plan: &Plan{
		Goal:                 "goal",
		RealisticHoursNeeded: &RealisticHours{Impossible: true},
	}}
	c := NewConversation(svc)
	ctx := context.Background()

	c.Submit(ctx, "impossible thing")
	turn, err := c.Submit(ctx, "one day")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if len(turn.Messages) != 1 || !strings.Contains(turn.Messages[0], "isn't achievable") {
		t.Errorf("expected impossible advisory, got %v", turn.Messages)
	}
}

func TestConversationIDsAreUnique(t *testing.T) {
	a := NewConversation(&fakePlanService{})
	b := NewConversation(&fakePlanService{})
	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("expected distinct non-empty conversation ids, got %q and %q", a.ID(), b.ID())
	}
}

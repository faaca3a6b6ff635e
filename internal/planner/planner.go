// Package planner is the plan-generation engine behind the HTTP service:
// it prompts Gemini for continuation decisions and structured plans, and
// degrades to deterministic fallbacks when the model misbehaves.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"coachai/internal/coach"
)

// DefaultModel matches the model the service was tuned against.
const DefaultModel = "gemini-2.0-flash-exp"

const (
	decideMaxTokens = 400
	planMaxTokens   = 4096
)

// generateFunc produces raw model text for a prompt. Indirection so tests
// can run without the Gemini API.
type generateFunc func(ctx context.Context, prompt string, maxTokens int32) (string, error)

// Planner produces continuation decisions and plans.
type Planner struct {
	gen    generateFunc
	logger *zap.Logger
}

// New creates a planner backed by the Gemini API.
func New(ctx context.Context, apiKey, model string, logger *zap.Logger) (*Planner, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("a Gemini API key is required (set GEMINI_API_KEY)")
	}
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	gen := func(ctx context.Context, prompt string, maxTokens int32) (string, error) {
		resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
			MaxOutputTokens: maxTokens,
		})
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	}

	return &Planner{gen: gen, logger: logger}, nil
}

// Decide returns whether another clarifying question is needed. Model or
// parse failures fall back to "ready": a plan from partial context beats a
// stuck conversation. The question cap is enforced here as well, so a
// misbehaving client cannot push past it.
func (p *Planner) Decide(ctx context.Context, goal string, qaPairs []coach.QAPair) (coach.Decision, error) {
	if len(qaPairs) >= coach.MaxQuestions {
		return coach.Decision{
			Action:    coach.ActionReady,
			Reasoning: fmt.Sprintf("Reached maximum of %d questions", coach.MaxQuestions),
		}, nil
	}

	text, err := p.gen(ctx, decidePrompt(goal, qaPairs), decideMaxTokens)
	if err != nil {
		p.logger.Warn("continuation call failed, proceeding to plan", zap.Error(err))
		return fallbackDecision(), nil
	}

	raw, err := extractJSON(text)
	if err != nil {
		p.logger.Warn("continuation response was not JSON", zap.Error(err))
		return fallbackDecision(), nil
	}

	var decision coach.Decision
	if err := json.Unmarshal(raw, &decision); err != nil || decision.Action == "" {
		p.logger.Warn("continuation response malformed", zap.Error(err))
		return fallbackDecision(), nil
	}
	return decision, nil
}

func fallbackDecision() coach.Decision {
	return coach.Decision{
		Action:    coach.ActionReady,
		Reasoning: "Proceeding with available information",
	}
}

// Generate produces a complete plan. A model failure yields a minimal
// research-and-scope fallback plan instead of an error; the output is
// always sanitized into a shape that satisfies the response contract.
func (p *Planner) Generate(ctx context.Context, goal string, qaPairs []coach.QAPair) (*coach.Plan, error) {
	text, err := p.gen(ctx, planPrompt(goal, qaPairs), planMaxTokens)
	if err != nil {
		p.logger.Warn("plan generation failed, using fallback plan", zap.String("goal", goal), zap.Error(err))
		return fallbackPlan(goal), nil
	}

	raw, err := extractJSON(text)
	if err != nil {
		p.logger.Warn("plan response was not JSON, using fallback plan", zap.Error(err))
		return fallbackPlan(goal), nil
	}

	var plan coach.Plan
	if err := json.Unmarshal(raw, &plan); err != nil {
		p.logger.Warn("plan response malformed, using fallback plan", zap.Error(err))
		return fallbackPlan(goal), nil
	}

	sanitizePlan(&plan, goal)
	return &plan, nil
}

// fallbackPlan is the deterministic plan used when the model gives nothing
// usable.
func fallbackPlan(goal string) *coach.Plan {
	return &coach.Plan{
		Goal: goal,
		Steps: []coach.Step{{
			StepNumber: 1,
			Do:         "Research and break down what's needed for: " + goal,
			Why:        "Need to understand requirements before taking action",
			Check:      "You have a clear list of what needs to be built/learned/done",
			Resources:  []string{"Google search", "YouTube tutorials", "Relevant online communities"},
		}},
		Tips: []string{"Start with small wins", "Track your progress", "Adjust approach based on what you learn"},
	}
}

// formatQA renders answered questions for prompt context.
func formatQA(qaPairs []coach.QAPair) string {
	var b strings.Builder
	for i, qa := range qaPairs {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Q: %s\nA: %s", qa.Question, qa.Answer)
	}
	return b.String()
}

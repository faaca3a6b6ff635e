package planner

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"coachai/internal/coach"
)

func testPlanner(gen generateFunc) *Planner {
	return &Planner{gen: gen, logger: zap.NewNop()}
}

func tenAnswers() []coach.QAPair {
	var qas []coach.QAPair
	for i := 0; i < coach.MaxQuestions; i++ {
		qas = append(qas, coach.QAPair{Question: fmt.Sprintf("q%d", i), Answer: fmt.Sprintf("a%d", i)})
	}
	return qas
}

func TestDecide_ParsesModelDecision(t *testing.T) {
	p := testPlanner(func(ctx context.Context, prompt string, maxTokens int32) (string, error) {
		assert.Contains(t, prompt, "learn guitar")
		assert.EqualValues(t, decideMaxTokens, maxTokens)
		return "```json\n{\"action\":\"ask\",\"question\":\"How much experience do you have?\",\"reasoning\":\"need level\"}\n```", nil
	})

	d, err := p.Decide(context.Background(), "learn guitar", []coach.QAPair{{Question: "q", Answer: "a"}})
	require.NoError(t, err)
	assert.Equal(t, coach.ActionAsk, d.Action)
	assert.Equal(t, "How much experience do you have?", d.Question)
}

func TestDecide_FallsBackToReadyOnModelError(t *testing.T) {
	p := testPlanner(func(ctx context.Context, prompt string, maxTokens int32) (string, error) {
		return "", errors.New("quota exceeded")
	})

	d, err := p.Decide(context.Background(), "goal", nil)
	require.NoError(t, err)
	assert.Equal(t, coach.ActionReady, d.Action)
}

func TestDecide_FallsBackToReadyOnGarbage(t *testing.T) {
	p := testPlanner(func(ctx context.Context, prompt string, maxTokens int32) (string, error) {
		return "I think you should probably just start practicing!", nil
	})

	d, err := p.Decide(context.Background(), "goal", nil)
	require.NoError(t, err)
	assert.Equal(t, coach.ActionReady, d.Action)
}

func TestDecide_EnforcesQuestionCap(t *testing.T) {
	called := false
	p := testPlanner(func(ctx context.Context, prompt string, maxTokens int32) (string, error) {
		called = true
		return `{"action":"ask","question":"one more?"}`, nil
	})

	d, err := p.Decide(context.Background(), "goal", tenAnswers())
	require.NoError(t, err)
	assert.Equal(t, coach.ActionReady, d.Action)
	assert.False(t, called, "the cap must short-circuit before the model call")
}

func TestGenerate_ParsesAndSanitizes(t *testing.T) {
	p := testPlanner(func(ctx context.Context, prompt string, maxTokens int32) (string, error) {
		assert.EqualValues(t, planMaxTokens, maxTokens)
		return `Here is your plan:
{"goal":"","steps":[{"do":"buy a guitar","resources":["", "shop"]}],"tips":["", "practice"]}`, nil
	})

	plan, err := p.Generate(context.Background(), "learn guitar", nil)
	require.NoError(t, err)
	assert.Equal(t, "learn guitar", plan.Goal, "missing goal is backfilled")
	require.Len(t, plan.Steps, 1)
	assert.Equal(t, 1, plan.Steps[0].StepNumber, "steps are renumbered")
	assert.Equal(t, "buy a guitar", plan.Steps[0].Do)
	assert.NotEmpty(t, plan.Steps[0].Why, "empty fields are filled")
	assert.Equal(t, []string{"shop"}, plan.Steps[0].Resources, "blank resources are dropped")
	assert.Equal(t, []string{"practice"}, plan.Tips)
}

func TestGenerate_FallbackPlanOnModelError(t *testing.T) {
	p := testPlanner(func(ctx context.Context, prompt string, maxTokens int32) (string, error) {
		return "", errors.New("boom")
	})

	plan, err := p.Generate(context.Background(), "learn guitar", nil)
	require.NoError(t, err)
	assert.Equal(t, "learn guitar", plan.Goal)
	require.NotEmpty(t, plan.Steps)
	assert.Contains(t, plan.Steps[0].Do, "learn guitar")
	assert.NotEmpty(t, plan.Tips)
}

func TestGenerate_ImpossibleKeepsEmptySteps(t *testing.T) {
	p := testPlanner(func(ctx context.Context, prompt string, maxTokens int32) (string, error) {
		return `{"goal":"g","steps":[],"tips":["t"],"realistic_hours_needed":"IMPOSSIBLE"}`, nil
	})

	plan, err := p.Generate(context.Background(), "g", nil)
	require.NoError(t, err)
	assert.Empty(t, plan.Steps, "impossible goals may keep empty steps")
	require.NotNil(t, plan.RealisticHoursNeeded)
	assert.True(t, plan.RealisticHoursNeeded.Impossible)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain object", `{"a":1}`, `{"a":1}`, false},
		{"fenced json", "```json\n{\"a\":1}\n```", `{"a":1}`, false},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`, false},
		{"prose around object", `Sure! {"a":{"b":2}} Hope that helps.`, `{"a":{"b":2}}`, false},
		{"array", `the result: [1,2,3]`, `[1,2,3]`, false},
		{"no json", `there is nothing here`, "", true},
		{"empty", "", "", true},
		{"unbalanced", `{"a": {"b": 2}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSON(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

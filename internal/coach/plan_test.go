package coach

import (
	"encoding/json"
	"testing"
)

func TestRealisticHours_DecodeNumber(t *testing.T) {
	var p Plan
	if err := json.Unmarshal([]byte(`{"goal":"g","steps":[],"tips":[],"realistic_hours_needed":120}`), &p); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if p.RealisticHoursNeeded == nil || p.RealisticHoursNeeded.Impossible {
		t.Fatalf("expected numeric variant, got %+v", p.RealisticHoursNeeded)
	}
	if p.RealisticHoursNeeded.Hours != 120 {
		t.Errorf("expected 120 hours, got %v", p.RealisticHoursNeeded.Hours)
	}
}

func TestRealisticHours_DecodeSentinel(t *testing.T) {
	tests := []string{`"IMPOSSIBLE"`, `"impossible"`, `"Impossible"`, `" IMPOSSIBLE "`}
	for _, raw := range tests {
		var r RealisticHours
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			t.Errorf("%s: unmarshal failed: %v", raw, err)
			continue
		}
		if !r.Impossible {
			t.Errorf("%s: expected impossible variant", raw)
		}
	}
}

func TestRealisticHours_DecodeNumericString(t *testing.T) {
	var r RealisticHours
	if err := json.Unmarshal([]byte(`"40"`), &r); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if r.Impossible || r.Hours != 40 {
		t.Errorf("expected 40 hours, got %+v", r)
	}
}

func TestRealisticHours_DecodeGarbageFails(t *testing.T) {
	var r RealisticHours
	if err := json.Unmarshal([]byte(`"maybe"`), &r); err == nil {
		t.Error("expected error for unrecognized string value")
	}
	if err := json.Unmarshal([]byte(`[1]`), &r); err == nil {
		t.Error("expected error for array value")
	}
}

func TestRealisticHours_MarshalRoundTrip(t *testing.T) {
	impossible := RealisticHours{Impossible: true}
	data, err := json.Marshal(impossible)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `"IMPOSSIBLE"` {
		t.Errorf("expected sentinel on the wire, got %s", data)
	}

	numeric := RealisticHours{Hours: 12.5}
	data, err = json.Marshal(numeric)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != "12.5" {
		t.Errorf("expected plain number on the wire, got %s", data)
	}
}

func TestPlan_DecodePreservesStepOrder(t *testing.T) {
	raw := `{
		"goal": "learn guitar",
		"steps": [
			{"step_number": 1, "do": "buy a guitar", "why": "w", "check": "c", "resources": ["shop"]},
			{"step_number": 2, "do": "learn chords", "why": "w", "check": "c", "resources": ["youtube"]},
			{"step_number": 3, "do": "play a song", "why": "w", "check": "c", "resources": []}
		],
		"tips": ["practice daily"],
		"feasibility_ratio": 0.8
	}`

	var p Plan
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(p.Steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(p.Steps))
	}
	for i, want := range []string{"buy a guitar", "learn chords", "play a song"} {
		if p.Steps[i].Do != want {
			t.Errorf("step %d: expected %q, got %q", i, want, p.Steps[i].Do)
		}
	}
	if p.FeasibilityRatio == nil || *p.FeasibilityRatio != 0.8 {
		t.Errorf("expected ratio 0.8, got %v", p.FeasibilityRatio)
	}
	if p.TimelineAdjusted != nil {
		t.Error("absent timeline_adjusted must decode as nil, not false")
	}
}

package insights

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleBare = `{
  "timestamp": "2025-01-01T12:00:00",
  "student_level": "AL",
  "analysis": [
    {
      "rank": 1,
      "course": "BSc Software Engineering",
      "match_score": 0.92,
      "career_path": {"field": "software-engineering", "field_name": "Software Engineering"},
      "skill_gaps": {"readiness_level": "Ready", "readiness_score": 72.5, "skill_gaps": ["Programming"]},
      "job_market": {"alignment_score": 84.2, "recommendation": "Excellent", "growth_rate": 12}
    }
  ]
}`

func TestDecode_BareObject(t *testing.T) {
	res, err := Decode(strings.NewReader(sampleBare))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", res.Len())
	}
	a := res.Analysis[0]
	if a.Course != "BSc Software Engineering" || a.MatchScore != 0.92 {
		t.Errorf("unexpected record: %+v", a)
	}
	if a.SkillGaps == nil || a.SkillGaps.ReadinessScore != 72.5 || a.SkillGaps.Gaps[0] != "Programming" {
		t.Errorf("skill_gaps not decoded: %+v", a.SkillGaps)
	}
	if a.JobMarket == nil || a.JobMarket.GrowthRate != 12 {
		t.Errorf("job_market not decoded: %+v", a.JobMarket)
	}
	if res.StudentLevel != "AL" {
		t.Errorf("student_level = %q", res.StudentLevel)
	}
}

func TestDecode_APIEnvelope(t *testing.T) {
	payload := `{"recommendations": [{"course": "X"}], "ai_insights": ` + sampleBare + `}`
	res, err := Decode(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !res.HasAnalysis() {
		t.Fatal("expected analysis from ai_insights")
	}
}

func TestDecode_EnvelopeWithoutInsights(t *testing.T) {
	for _, payload := range []string{
		`{"recommendations": []}`,
		`{"recommendations": [], "ai_insights": null}`,
	} {
		res, err := Decode(strings.NewReader(payload))
		if err != nil {
			t.Fatalf("Decode(%s): %v", payload, err)
		}
		if res == nil {
			t.Fatalf("Decode(%s) returned nil, want empty result", payload)
		}
		if res.HasAnalysis() {
			t.Errorf("Decode(%s) should have no analysis", payload)
		}
	}
}

func TestDecode_Null(t *testing.T) {
	res, err := Decode(strings.NewReader("  null \n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res != nil {
		t.Fatalf("expected nil result for null, got %+v", res)
	}
}

func TestDecode_EmptyAnalysis(t *testing.T) {
	res, err := Decode(strings.NewReader(`{"analysis": []}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res == nil || res.HasAnalysis() {
		t.Fatalf("expected non-nil empty result, got %+v", res)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "   \n"},
		{"garbage", "not json"},
		{"wrong type", `{"analysis": 5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.input)); err == nil {
				t.Errorf("expected error for %q", tt.input)
			}
		})
	}
}

func TestDecode_StripsBOM(t *testing.T) {
	res, err := DecodeBytes(append([]byte{0xEF, 0xBB, 0xBF}, sampleBare...))
	if err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}
	if res.Len() != 1 {
		t.Errorf("expected 1 record after BOM strip, got %d", res.Len())
	}
}

func TestDecodeWithOptions_TooLarge(t *testing.T) {
	_, err := DecodeWithOptions(strings.NewReader(sampleBare), DecodeOptions{MaxSize: 16})
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "insights.json")
	if err := os.WriteFile(path, []byte(sampleBare), 0644); err != nil {
		t.Fatal(err)
	}

	res, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if res.Len() != 1 {
		t.Errorf("expected 1 record, got %d", res.Len())
	}

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	if err == nil || !strings.Contains(err.Error(), "no insights found") {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestEncode_DecodeAgain(t *testing.T) {
	res, err := Decode(strings.NewReader(sampleBare))
	if err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	if err := Encode(&sb, res); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	again, err := Decode(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("Decode(Encode): %v", err)
	}
	if again.Analysis[0].JobMarket.AlignmentScore != 84.2 {
		t.Errorf("alignment lost: %+v", again.Analysis[0].JobMarket)
	}
}

func TestResult_NilSafe(t *testing.T) {
	var res *Result
	if res.HasAnalysis() || res.Len() != 0 {
		t.Error("nil result should report no analysis")
	}
}

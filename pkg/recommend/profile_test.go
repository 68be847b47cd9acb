package recommend

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
)

func TestProfile_Validate(t *testing.T) {
	tests := []struct {
		name    string
		p       Profile
		wantErr string
	}{
		{"ol ok", Profile{Level: LevelOL, Passes: 6}, ""},
		{"al missing stream", Profile{Level: LevelAL, ALPasses: 3}, "stream"},
		{"diploma ok without gpa", Profile{Level: LevelDiploma, DiplomaField: "IT"}, ""},
		{"bsc missing gpa", Profile{Level: LevelBSc, DegreeField: "CS"}, "gpa"},
		{"postgrad missing fields", Profile{Level: LevelPostgrad, GPA: gpa(3.2)}, "highest_degree, postgrad_field"},
		{"gpa out of range", Profile{Level: LevelHND, HNDField: "IT", GPA: gpa(5)}, "not in [0,4]"},
		{"unknown level", Profile{Level: "phd"}, "unknown student level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestProfile_PayloadShapes(t *testing.T) {
	tests := []struct {
		p    Profile
		keys []string
	}{
		{Profile{Level: LevelOL, Passes: 5}, []string{"english", "maths", "science", "passes"}},
		{Profile{Level: LevelAL, Stream: "Arts"}, []string{"stream", "al_passes", "english"}},
		{Profile{Level: LevelDiploma, DiplomaField: "IT"}, []string{"diploma_field", "gpa", "institution_recognized", "english"}},
		{Profile{Level: LevelHND, HNDField: "IT"}, []string{"hnd_field", "gpa", "english"}},
		{Profile{Level: LevelBSc, DegreeField: "CS", GPA: gpa(3)}, []string{"degree_field", "gpa", "english"}},
		{Profile{Level: LevelPostgrad, HighestDegree: "BSc", PostgradField: "AI", GPA: gpa(3.5)},
			[]string{"highest_degree", "postgrad_field", "research_experience", "gpa", "english"}},
	}
	for _, tt := range tests {
		t.Run(tt.p.Level, func(t *testing.T) {
			payload, err := tt.p.Payload()
			if err != nil {
				t.Fatal(err)
			}
			data, _ := json.Marshal(payload)
			var got map[string]any
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.keys) {
				t.Errorf("got keys %v, want %v", got, tt.keys)
			}
			for _, k := range tt.keys {
				if _, ok := got[k]; !ok {
					t.Errorf("missing key %q in %s", k, data)
				}
			}
		})
	}
}

func TestProfile_OptionalGPASentAsNull(t *testing.T) {
	payload, err := Profile{Level: LevelHND, HNDField: "IT"}.Payload()
	if err != nil {
		t.Fatal(err)
	}
	data, _ := json.Marshal(payload)
	if !strings.Contains(string(data), `"gpa":null`) {
		t.Errorf("expected null gpa, got %s", data)
	}
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "student.yaml")
	content := "level: BSc\ndegree_field: Computer Science\ngpa: 3.4\nenglish: true\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadProfile(path, "")
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if p.Level != LevelBSc || p.DegreeField != "Computer Science" || p.GPA == nil || *p.GPA != 3.4 {
		t.Errorf("unexpected profile: %+v", p)
	}

	if _, err := LoadProfile(path, LevelOL); err != nil {
		t.Errorf("level override to ol should validate: %v", err)
	}
	if _, err := LoadProfile(path, "phd"); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("expected ErrUnknownLevel, got %v", err)
	}
	if _, err := LoadProfile(filepath.Join(t.TempDir(), "nope.yaml"), ""); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseGPA(t *testing.T) {
	if v, ok := parseGPA(" 3.7 "); !ok || v != 3.7 {
		t.Errorf("parseGPA(3.7) = %v, %v", v, ok)
	}
	if _, ok := parseGPA("4.5"); ok {
		t.Error("4.5 should be rejected")
	}
	if optionalGPA("") != nil {
		t.Error("empty optional gpa should pass")
	}
	if requiredGPA("") == nil {
		t.Error("empty required gpa should fail")
	}
	if intField("-1") == nil || intField("3") != nil {
		t.Error("intField validation wrong")
	}
}

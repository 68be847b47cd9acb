// Package recommend talks to the UniMatch recommender API: it builds the
// level-specific student profile, posts it, and decodes the ai_insights
// part of the answer.
package recommend

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Student levels, matching the recommender's /recommend/{level} routes.
const (
	LevelOL       = "ol"
	LevelAL       = "al"
	LevelDiploma  = "diploma"
	LevelHND      = "hnd"
	LevelBSc      = "bsc"
	LevelPostgrad = "postgrad"
)

// Levels lists every level in education order.
var Levels = []string{LevelOL, LevelAL, LevelDiploma, LevelHND, LevelBSc, LevelPostgrad}

// LevelLabel is the human name of a level.
func LevelLabel(level string) string {
	switch level {
	case LevelOL:
		return "O/L"
	case LevelAL:
		return "A/L"
	case LevelDiploma:
		return "Diploma"
	case LevelHND:
		return "HND"
	case LevelBSc:
		return "BSc"
	case LevelPostgrad:
		return "Postgraduate"
	}
	return strings.ToUpper(level)
}

// ErrUnknownLevel is returned for a level with no recommender route.
var ErrUnknownLevel = errors.New("unknown student level")

// Profile is a student's qualifications. Only the fields relevant to
// Level are sent; see Payload.
type Profile struct {
	Level   string `yaml:"level"`
	English bool   `yaml:"english"`

	// O/L
	Maths   bool `yaml:"maths,omitempty"`
	Science bool `yaml:"science,omitempty"`
	Passes  int  `yaml:"passes,omitempty"`

	// A/L
	Stream   string `yaml:"stream,omitempty"` // Science, Commerce, Arts, Tech, Maths
	ALPasses int    `yaml:"al_passes,omitempty"`

	// Diploma, HND, BSc, Postgrad
	DiplomaField          string   `yaml:"diploma_field,omitempty"`
	InstitutionRecognized bool     `yaml:"institution_recognized,omitempty"`
	HNDField              string   `yaml:"hnd_field,omitempty"`
	DegreeField           string   `yaml:"degree_field,omitempty"`
	HighestDegree         string   `yaml:"highest_degree,omitempty"`
	PostgradField         string   `yaml:"postgrad_field,omitempty"`
	ResearchExperience    bool     `yaml:"research_experience,omitempty"`
	GPA                   *float64 `yaml:"gpa,omitempty"`
}

type olStudent struct {
	English bool `json:"english"`
	Maths   bool `json:"maths"`
	Science bool `json:"science"`
	Passes  int  `json:"passes"`
}

type alStudent struct {
	Stream   string `json:"stream"`
	ALPasses int    `json:"al_passes"`
	English  bool   `json:"english"`
}

type diplomaStudent struct {
	DiplomaField          string   `json:"diploma_field"`
	GPA                   *float64 `json:"gpa"`
	InstitutionRecognized bool     `json:"institution_recognized"`
	English               bool     `json:"english"`
}

type hndStudent struct {
	HNDField string   `json:"hnd_field"`
	GPA      *float64 `json:"gpa"`
	English  bool     `json:"english"`
}

type bscStudent struct {
	DegreeField string  `json:"degree_field"`
	GPA         float64 `json:"gpa"`
	English     bool    `json:"english"`
}

type postgradStudent struct {
	HighestDegree      string  `json:"highest_degree"`
	PostgradField      string  `json:"postgrad_field"`
	ResearchExperience bool    `json:"research_experience"`
	GPA                float64 `json:"gpa"`
	English            bool    `json:"english"`
}

// Validate checks the fields the recommender requires for p.Level.
func (p Profile) Validate() error {
	var missing []string
	need := func(ok bool, name string) {
		if !ok {
			missing = append(missing, name)
		}
	}

	switch p.Level {
	case LevelOL:
		need(p.Passes >= 0, "passes")
	case LevelAL:
		need(p.Stream != "", "stream")
		need(p.ALPasses >= 0, "al_passes")
	case LevelDiploma:
		need(p.DiplomaField != "", "diploma_field")
	case LevelHND:
		need(p.HNDField != "", "hnd_field")
	case LevelBSc:
		need(p.DegreeField != "", "degree_field")
		need(p.GPA != nil, "gpa")
	case LevelPostgrad:
		need(p.HighestDegree != "", "highest_degree")
		need(p.PostgradField != "", "postgrad_field")
		need(p.GPA != nil, "gpa")
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLevel, p.Level)
	}

	if p.GPA != nil && (*p.GPA < 0 || *p.GPA > 4) {
		return fmt.Errorf("invalid %s profile: gpa %v not in [0,4]", p.Level, *p.GPA)
	}
	if len(missing) > 0 {
		return fmt.Errorf("invalid %s profile: missing %s", p.Level, strings.Join(missing, ", "))
	}
	return nil
}

// Payload returns the request body for p.Level.
func (p Profile) Payload() (any, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	gpa := 0.0
	if p.GPA != nil {
		gpa = *p.GPA
	}

	switch p.Level {
	case LevelOL:
		return olStudent{English: p.English, Maths: p.Maths, Science: p.Science, Passes: p.Passes}, nil
	case LevelAL:
		return alStudent{Stream: p.Stream, ALPasses: p.ALPasses, English: p.English}, nil
	case LevelDiploma:
		return diplomaStudent{DiplomaField: p.DiplomaField, GPA: p.GPA, InstitutionRecognized: p.InstitutionRecognized, English: p.English}, nil
	case LevelHND:
		return hndStudent{HNDField: p.HNDField, GPA: p.GPA, English: p.English}, nil
	case LevelBSc:
		return bscStudent{DegreeField: p.DegreeField, GPA: gpa, English: p.English}, nil
	default:
		return postgradStudent{
			HighestDegree:      p.HighestDegree,
			PostgradField:      p.PostgradField,
			ResearchExperience: p.ResearchExperience,
			GPA:                gpa,
			English:            p.English,
		}, nil
	}
}

// LoadProfile reads a YAML profile. level, if non-empty, overrides the
// file's level.
func LoadProfile(path, level string) (Profile, error) {
	var p Profile
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("reading profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parsing profile: %w", err)
	}
	if level != "" {
		p.Level = level
	}
	p.Level = strings.ToLower(strings.TrimSpace(p.Level))
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

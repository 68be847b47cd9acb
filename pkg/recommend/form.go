package recommend

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm uses accessible mode when stdin is not a TTY.
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// Ask prompts for a student profile. An empty level asks for it first.
func Ask(level string) (Profile, error) {
	p := Profile{Level: strings.ToLower(level), English: true}

	if p.Level == "" {
		p.Level = LevelAL
		opts := make([]huh.Option[string], 0, len(Levels))
		for _, l := range Levels {
			opts = append(opts, huh.NewOption(LevelLabel(l), l))
		}
		if err := newForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("Highest completed qualification").
				Options(opts...).
				Value(&p.Level),
		)).Run(); err != nil {
			return p, err
		}
	}

	var gpaText, passesText string
	fields := []huh.Field{
		huh.NewConfirm().
			Title("English pass?").
			Value(&p.English),
	}

	switch p.Level {
	case LevelOL:
		passesText = "6"
		fields = append(fields,
			huh.NewConfirm().Title("Maths pass?").Value(&p.Maths),
			huh.NewConfirm().Title("Science pass?").Value(&p.Science),
			huh.NewInput().Title("Number of O/L passes").Value(&passesText).Validate(intField),
		)
	case LevelAL:
		p.Stream = "Science"
		passesText = "3"
		fields = append(fields,
			huh.NewSelect[string]().
				Title("A/L stream").
				Options(huh.NewOptions("Science", "Commerce", "Arts", "Tech", "Maths")...).
				Value(&p.Stream),
			huh.NewInput().Title("Number of A/L passes").Value(&passesText).Validate(intField),
		)
	case LevelDiploma:
		fields = append(fields,
			huh.NewInput().Title("Diploma field").Value(&p.DiplomaField).Validate(required),
			huh.NewConfirm().Title("Recognised institution?").Value(&p.InstitutionRecognized),
			huh.NewInput().Title("GPA (optional)").Value(&gpaText).Validate(optionalGPA),
		)
	case LevelHND:
		fields = append(fields,
			huh.NewInput().Title("HND field").Value(&p.HNDField).Validate(required),
			huh.NewInput().Title("GPA (optional)").Value(&gpaText).Validate(optionalGPA),
		)
	case LevelBSc:
		fields = append(fields,
			huh.NewInput().Title("Degree field").Value(&p.DegreeField).Validate(required),
			huh.NewInput().Title("GPA").Value(&gpaText).Validate(requiredGPA),
		)
	case LevelPostgrad:
		fields = append(fields,
			huh.NewInput().Title("Highest degree").Value(&p.HighestDegree).Validate(required),
			huh.NewInput().Title("Postgraduate field").Value(&p.PostgradField).Validate(required),
			huh.NewConfirm().Title("Research experience?").Value(&p.ResearchExperience),
			huh.NewInput().Title("GPA").Value(&gpaText).Validate(requiredGPA),
		)
	default:
		return p, fmt.Errorf("%w: %q", ErrUnknownLevel, p.Level)
	}

	if err := newForm(huh.NewGroup(fields...).Title(LevelLabel(p.Level) + " profile")).Run(); err != nil {
		return p, err
	}

	if passesText != "" {
		n, _ := strconv.Atoi(strings.TrimSpace(passesText))
		if p.Level == LevelOL {
			p.Passes = n
		} else {
			p.ALPasses = n
		}
	}
	if gpa, ok := parseGPA(gpaText); ok {
		p.GPA = &gpa
	}
	return p, p.Validate()
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

func intField(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return fmt.Errorf("enter a whole number")
	}
	return nil
}

func optionalGPA(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return requiredGPA(s)
}

func requiredGPA(s string) error {
	if _, ok := parseGPA(s); !ok {
		return fmt.Errorf("enter a GPA between 0 and 4")
	}
	return nil
}

func parseGPA(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 || v > 4 {
		return 0, false
	}
	return v, true
}

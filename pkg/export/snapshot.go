package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/unimatch/pkg/insights"
)

// SnapshotOptions controls static dashboard snapshots.
type SnapshotOptions struct {
	Path     string           // Output path
	Format   Format           // FormatSVG or FormatPNG. If empty, inferred from Path.
	Title    string           // Optional title rendered in the header block
	Result   *insights.Result // Insights to render
	Selected int              // Highlighted course index
}

// SaveSnapshot renders the course overview (one row per analysed course
// with match, readiness, alignment and growth) as SVG or PNG.
func SaveSnapshot(opts SnapshotOptions) error {
	if !opts.Result.HasAnalysis() {
		return ErrNothingToExport
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}
	format := opts.Format
	if format == "" {
		f, err := FormatFromPath(opts.Path)
		if err != nil {
			return err
		}
		format = f
	}

	layout := buildLayout(opts)

	switch format {
	case FormatSVG:
		file, err := os.Create(opts.Path)
		if err != nil {
			return err
		}
		defer file.Close()
		return renderSVG(file, layout)
	case FormatPNG:
		return renderPNG(opts.Path, layout)
	default:
		return fmt.Errorf("unsupported snapshot format %q (want svg or png)", format)
	}
}

// --- layout computation ----------------------------------------------------

const (
	snapWidth  = 960
	headerH    = 128.0
	rowH       = 92.0
	rowGap     = 12.0
	marginX    = 24.0
	barW       = 180.0
	barH       = 10.0
	titleChars = 48
)

type layoutRow struct {
	Rank      int
	Course    string
	Match     float64 // 0..1
	Readiness float64 // 0..100
	Level     string
	Alignment float64
	Growth    float64
	Selected  bool
	X, Y      float64
	W, H      float64
}

type layoutResult struct {
	Rows    []layoutRow
	Width   int
	Height  int
	Summary summaryInfo
}

type summaryInfo struct {
	Title        string
	StudentLevel string
	Timestamp    string
	CourseCount  int
	TopCourse    string
}

func buildLayout(opts SnapshotOptions) layoutResult {
	res := opts.Result
	title := opts.Title
	if title == "" {
		title = "AI-Powered Insights"
	}

	out := layoutResult{
		Width: snapWidth,
		Summary: summaryInfo{
			Title:        title,
			StudentLevel: res.StudentLevel,
			Timestamp:    res.Timestamp,
			CourseCount:  res.Len(),
			TopCourse:    res.Analysis[0].Course,
		},
	}

	y := headerH
	for i, a := range res.Analysis {
		row := layoutRow{
			Rank:     a.Rank,
			Course:   a.Course,
			Match:    a.MatchScore,
			Selected: i == opts.Selected,
			X:        marginX,
			Y:        y,
			W:        float64(snapWidth) - 2*marginX,
			H:        rowH,
		}
		if a.SkillGaps != nil {
			row.Readiness = a.SkillGaps.ReadinessScore
			row.Level = a.SkillGaps.ReadinessLevel
		}
		if a.JobMarket != nil {
			row.Alignment = a.JobMarket.AlignmentScore
			row.Growth = a.JobMarket.GrowthRate
		}
		out.Rows = append(out.Rows, row)
		y += rowH + rowGap
	}
	out.Height = int(y + marginX)
	return out
}

var (
	colorBackdrop = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorHeaderBG = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	colorRowBG    = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorSelected = color.RGBA{0xed, 0xe7, 0xfb, 0xff}
	colorAccent   = color.RGBA{0x6b, 0x47, 0xd9, 0xff}
	colorStroke   = color.RGBA{0xd0, 0xd0, 0xd0, 0xff}
	colorText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}
	colorTrack    = color.RGBA{0xe5, 0xe7, 0xeb, 0xff}
	colorMatch    = color.RGBA{0x3b, 0x82, 0xf6, 0xff}
	colorGrowth   = color.RGBA{0x90, 0x4e, 0xe2, 0xff}
)

// readinessColor mirrors the dashboard's readiness palette.
func readinessColor(level string) color.RGBA {
	switch level {
	case "Highly Ready":
		return color.RGBA{0x16, 0xa3, 0x4a, 0xff}
	case "Ready":
		return color.RGBA{0x06, 0x91, 0xb2, 0xff}
	case "Needs Preparation":
		return color.RGBA{0xd9, 0x77, 0x06, 0xff}
	case "Requires Foundation":
		return color.RGBA{0xdc, 0x26, 0x26, 0xff}
	default:
		return colorSubtle
	}
}

func fillWidth(percent float64) float64 {
	w := percent / 100 * barW
	if w < 0 {
		return 0
	}
	if w > barW {
		return barW
	}
	return w
}

func summaryLines(s summaryInfo) []string {
	lines := []string{fmt.Sprintf("courses: %d  top match: %s", s.CourseCount, truncate(s.TopCourse, titleChars))}
	var meta []string
	if s.StudentLevel != "" {
		meta = append(meta, "level: "+s.StudentLevel)
	}
	if s.Timestamp != "" {
		meta = append(meta, "generated: "+s.Timestamp)
	}
	if len(meta) > 0 {
		lines = append(lines, strings.Join(meta, "  "))
	}
	return lines
}

// --- PNG -------------------------------------------------------------------

func renderPNG(path string, layout layoutResult) error {
	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(16, 16, float64(layout.Width)-32, headerH-32, 10)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)
	drawSummaryBlock(dc, layout.Summary)

	for _, r := range layout.Rows {
		drawRow(dc, r)
	}
	return dc.SavePNG(path)
}

func drawSummaryBlock(dc *gg.Context, s summaryInfo) {
	dc.SetColor(colorText)
	dc.DrawStringAnchored(s.Title, 32, 40, 0, 0.5)
	dc.SetColor(colorSubtle)
	for i, line := range summaryLines(s) {
		dc.DrawStringAnchored(line, 32, 62+float64(i)*20, 0, 0.5)
	}
}

func drawRow(dc *gg.Context, r layoutRow) {
	bg := colorRowBG
	if r.Selected {
		bg = colorSelected
	}
	dc.SetColor(bg)
	dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, 8)
	dc.Fill()
	if r.Selected {
		dc.SetColor(colorAccent)
		dc.SetLineWidth(2.5)
	} else {
		dc.SetColor(colorStroke)
		dc.SetLineWidth(1.2)
	}
	dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, 8)
	dc.Stroke()

	dc.SetColor(colorAccent)
	dc.DrawStringAnchored(fmt.Sprintf("#%d", r.Rank), r.X+14, r.Y+20, 0, 0.5)
	dc.SetColor(colorText)
	dc.DrawStringAnchored(truncate(r.Course, titleChars), r.X+52, r.Y+20, 0, 0.5)

	bx := r.X + 14
	drawBar(dc, bx, r.Y+44, r.Match*100, colorMatch, "Match "+insights.FormatMatch(r.Match))
	drawBar(dc, bx, r.Y+70, r.Readiness, readinessColor(r.Level),
		fmt.Sprintf("Ready %d%% %s", insights.ReadinessPercent(r.Readiness), r.Level))

	mx := r.X + r.W/2 + 80
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored("Alignment "+insights.FormatPercent(r.Alignment), mx, r.Y+44, 0, 0.5)
	dc.SetColor(colorGrowth)
	dc.DrawStringAnchored("Growth "+insights.FormatGrowth(r.Growth), mx, r.Y+70, 0, 0.5)
}

func drawBar(dc *gg.Context, x, y, percent float64, c color.RGBA, label string) {
	dc.SetColor(colorTrack)
	dc.DrawRoundedRectangle(x, y-barH/2, barW, barH, 3)
	dc.Fill()
	if w := fillWidth(percent); w > 0 {
		dc.SetColor(c)
		dc.DrawRoundedRectangle(x, y-barH/2, w, barH, 3)
		dc.Fill()
	}
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(label, x+barW+12, y, 0, 0.5)
}

// --- SVG -------------------------------------------------------------------

func renderSVG(w io.Writer, layout layoutResult) error {
	canvas := svg.New(w)
	canvas.Start(layout.Width, layout.Height)
	canvas.Rect(0, 0, layout.Width, layout.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(16, 16, layout.Width-32, int(headerH-32), 10, 10, fmt.Sprintf("fill:%s", css(colorHeaderBG)))

	canvas.Text(32, 44, layout.Summary.Title, fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", css(colorText)))
	for i, line := range summaryLines(layout.Summary) {
		canvas.Text(32, 66+i*20, line, fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))
	}

	for _, r := range layout.Rows {
		drawRowSVG(canvas, r)
	}

	canvas.End()
	return nil
}

func drawRowSVG(canvas *svg.SVG, r layoutRow) {
	x, y := int(r.X), int(r.Y)
	bg, stroke, sw := colorRowBG, colorStroke, "1.2"
	if r.Selected {
		bg, stroke, sw = colorSelected, colorAccent, "2.5"
	}
	canvas.Roundrect(x, y, int(r.W), int(r.H), 8, 8,
		fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%s", css(bg), css(stroke), sw))
	canvas.Text(x+14, y+24, fmt.Sprintf("#%d", r.Rank),
		fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:bold", css(colorAccent)))
	canvas.Text(x+52, y+24, truncate(r.Course, titleChars),
		fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:bold", css(colorText)))

	bx := x + 14
	drawBarSVG(canvas, bx, y+44, r.Match*100, colorMatch, "Match "+insights.FormatMatch(r.Match))
	drawBarSVG(canvas, bx, y+70, r.Readiness, readinessColor(r.Level),
		fmt.Sprintf("Ready %d%% %s", insights.ReadinessPercent(r.Readiness), r.Level))

	mx := x + int(r.W)/2 + 80
	canvas.Text(mx, y+48, "Alignment "+insights.FormatPercent(r.Alignment),
		fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
	canvas.Text(mx, y+74, "Growth "+insights.FormatGrowth(r.Growth),
		fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorGrowth)))
}

func drawBarSVG(canvas *svg.SVG, x, y int, percent float64, c color.RGBA, label string) {
	top := y - int(barH/2)
	canvas.Roundrect(x, top, int(barW), int(barH), 3, 3, fmt.Sprintf("fill:%s", css(colorTrack)))
	if w := int(fillWidth(percent)); w > 0 {
		canvas.Roundrect(x, top, w, int(barH), 3, 3, fmt.Sprintf("fill:%s", css(c)))
	}
	canvas.Text(x+int(barW)+12, y+4, label, fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
}

// --- helpers ---------------------------------------------------------------

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/vanderheijden86/unimatch/internal/store"
	"github.com/vanderheijden86/unimatch/pkg/config"
	"github.com/vanderheijden86/unimatch/pkg/debug"
	"github.com/vanderheijden86/unimatch/pkg/export"
	"github.com/vanderheijden86/unimatch/pkg/insights"
	"github.com/vanderheijden86/unimatch/pkg/recommend"
	"github.com/vanderheijden86/unimatch/pkg/ui"
	"github.com/vanderheijden86/unimatch/pkg/version"
	"github.com/vanderheijden86/unimatch/pkg/watcher"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is the whole CLI. It returns the exit code so deferred cleanup
// (history store, CPU profile) always runs.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("unimatch", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cpuProfile := fs.String("cpu-profile", "", "Write CPU profile to file")
	help := fs.Bool("help", false, "Show help")
	versionFlag := fs.Bool("version", false, "Show version")
	filePath := fs.String("file", "", "Insights JSON or recommender API response (- for stdin)")
	apiURL := fs.String("api", "", "Recommender base URL (default from config)")
	level := fs.String("level", "", "Student level for --api: ol, al, diploma, hnd, bsc, postgrad")
	profilePath := fs.String("profile", "", "Student profile YAML for --api")
	ask := fs.Bool("ask", false, "Prompt for the student profile")
	historyFlag := fs.Bool("history", false, "List stored runs and exit")
	fromHistory := fs.String("from-history", "", "Open a stored run by ID (0 = latest)")
	noSave := fs.Bool("no-save", false, "Do not store fetched results in history")
	exportPaths := fs.String("export", "", "Comma-separated .svg/.png/.md outputs (no TUI)")
	plain := fs.Bool("plain", false, "Print a static render instead of the TUI")
	noWatch := fs.Bool("no-watch", false, "Disable live reload of --file")
	course := fs.String("course", "", "Preselect the course whose title best matches this text")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	// CPU profiling support
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(stderr, "Could not create CPU profile: %v\n", err)
			return 1
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(stderr, "Could not start CPU profile: %v\n", err)
			return 1
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Fprintln(stdout, "Usage: unimatch [options]")
		fmt.Fprintln(stdout, "\nA terminal dashboard for AI course-recommendation insights.")
		fs.PrintDefaults()
		return 0
	}

	if *versionFlag {
		fmt.Fprintln(stdout, version.String())
		return 0
	}

	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		// Non-fatal: continue without config
		fmt.Fprintf(stderr, "Warning: %v (using defaults)\n", cfgErr)
		cfg = config.DefaultConfig()
	}
	debug.Section("startup")
	debug.Dump("config", cfg)

	opts := cliOptions{
		file:        *filePath,
		apiURL:      *apiURL,
		level:       *level,
		profilePath: *profilePath,
		ask:         *ask,
		fromHistory: *fromHistory,
		noSave:      *noSave,
	}
	if err := opts.validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	ctx := context.Background()

	var st *store.Store
	if cfg.History.IsEnabled() || *historyFlag || opts.fromHistory != "" {
		s, err := store.Open(ctx, cfg.HistoryPath())
		if err != nil {
			if *historyFlag || opts.fromHistory != "" {
				fmt.Fprintf(stderr, "Error opening history: %v\n", err)
				return 1
			}
			debug.Log("history disabled: %v", err)
		} else {
			st = s
			defer st.Close()
		}
	}

	if *historyFlag {
		runs, err := st.List(ctx, 0)
		if err != nil {
			fmt.Fprintf(stderr, "Error listing history: %v\n", err)
			return 1
		}
		printHistory(stdout, runs)
		return 0
	}

	src, err := buildSource(ctx, opts, cfg, st)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	out, isFile := stdout.(*os.File)
	isTTY := isFile && term.IsTerminal(int(out.Fd()))
	if paths := export.ParsePaths(*exportPaths); len(paths) > 0 || *plain || !isTTY {
		res, err := loadNow(src, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "Error loading insights: %v\n", err)
			return 1
		}
		if len(paths) > 0 {
			if err := export.SaveAll(ctx, res, paths, selectedIndex(res, *course)); err != nil {
				fmt.Fprintf(stderr, "Error exporting: %v\n", err)
				return 1
			}
			for _, p := range paths {
				fmt.Fprintf(stdout, "Wrote %s\n", p)
			}
			return 0
		}
		width := 100
		if isFile {
			if w, _, err := term.GetSize(int(out.Fd())); err == nil && w > 0 {
				width = w
			}
		}
		fmt.Fprintln(stdout, renderStatic(res, cfg, width, *course))
		return 0
	}

	uiOpts := []ui.Option{
		ui.WithLoader(src.name, src.load),
		ui.WithMouse(cfg.UI.MouseEnabled()),
		ui.WithCourseQuery(*course),
	}
	if tab, ok := ui.ParseTab(cfg.UI.DefaultTab); ok {
		uiOpts = append(uiOpts, ui.WithDefaultTab(tab))
	}
	if src.watchPath != "" && !*noWatch {
		w, err := watcher.New(src.watchPath,
			watcher.WithDebounceDuration(cfg.Watch.Debounce),
			watcher.WithPollInterval(cfg.Watch.PollInterval),
			watcher.WithForcePoll(cfg.Watch.ForcePoll),
		)
		if err == nil {
			err = w.Start()
		}
		if err != nil {
			fmt.Fprintf(stderr, "Warning: live reload disabled: %v\n", err)
		} else {
			uiOpts = append(uiOpts, ui.WithWatcher(w))
		}
	}

	m := ui.NewModel(ui.DefaultTheme(lipgloss.DefaultRenderer()), uiOpts...)
	defer m.Stop()

	if err := runTUIProgram(m, cfg.UI.MouseEnabled()); err != nil {
		fmt.Fprintf(stderr, "Error running unimatch: %v\n", err)
		return 1
	}
	return 0
}

// cliOptions are the flags that select where insights come from.
type cliOptions struct {
	file        string
	apiURL      string
	level       string
	profilePath string
	ask         bool
	fromHistory string
	noSave      bool
}

func (o cliOptions) validate() error {
	sources := 0
	if o.file != "" {
		sources++
	}
	if o.fromHistory != "" {
		sources++
	}
	if o.apiURL != "" || o.profilePath != "" || o.ask {
		sources++
	}
	if sources > 1 {
		return errors.New("--file, --from-history and --api/--profile/--ask are mutually exclusive")
	}
	if o.profilePath != "" && o.ask {
		return errors.New("--profile and --ask are mutually exclusive")
	}
	if o.level != "" && !config.ValidLevel(o.level) {
		return fmt.Errorf("invalid --level %q (want one of %s)", o.level, strings.Join(config.Levels, ", "))
	}
	return nil
}

// source is a named, re-runnable insights loader.
type source struct {
	name      string
	load      ui.Loader
	watchPath string
}

func buildSource(ctx context.Context, o cliOptions, cfg config.Config, st *store.Store) (source, error) {
	switch {
	case o.fromHistory != "":
		id, err := strconv.ParseInt(o.fromHistory, 10, 64)
		if err != nil || id < 0 {
			return source{}, fmt.Errorf("invalid --from-history %q", o.fromHistory)
		}
		return historySource(ctx, st, id), nil

	case o.file != "":
		path := config.ExpandHome(o.file)
		src := source{
			name: path,
			load: func() (*insights.Result, error) { return insights.LoadFile(path) },
		}
		if path != insights.StdinPath {
			src.watchPath = path
		}
		return src, nil

	case o.profilePath != "" || o.ask:
		var (
			p   recommend.Profile
			err error
		)
		if o.ask {
			p, err = recommend.Ask(o.level)
		} else {
			p, err = recommend.LoadProfile(config.ExpandHome(o.profilePath), o.level)
		}
		if err != nil {
			return source{}, err
		}

		base := o.apiURL
		if base == "" {
			base = cfg.API.BaseURL
		}
		client := recommend.NewClient(base, recommend.WithTimeout(cfg.API.Timeout))
		if o.noSave {
			st = nil
		}
		return apiSource(ctx, client, p, st, cfg.History.Keep), nil

	default:
		return source{}, errors.New("no insights source: use --file, --profile, --ask or --from-history (see --help)")
	}
}

func historySource(ctx context.Context, st *store.Store, id int64) source {
	name := fmt.Sprintf("history:%d", id)
	if id == 0 {
		name = "history:latest"
	}
	return source{
		name: name,
		load: func() (*insights.Result, error) {
			if st == nil {
				return nil, errors.New("history is not available")
			}
			var (
				run *store.Run
				err error
			)
			if id == 0 {
				run, err = st.Latest(ctx)
			} else {
				run, err = st.Get(ctx, id)
			}
			if err != nil {
				return nil, err
			}
			return run.Result, nil
		},
	}
}

func apiSource(ctx context.Context, client *recommend.Client, p recommend.Profile, st *store.Store, keep int) source {
	name := "api:" + p.Level
	return source{
		name: name,
		load: func() (*insights.Result, error) {
			res, err := client.Recommend(ctx, p)
			if err != nil {
				return nil, err
			}
			if st != nil && res.HasAnalysis() {
				if id, err := st.Save(ctx, name, res); err != nil {
					debug.Log("history save failed: %v", err)
				} else {
					debug.Log("history: stored run %d", id)
					if keep > 0 {
						if _, err := st.Prune(ctx, keep); err != nil {
							debug.Log("history prune failed: %v", err)
						}
					}
				}
			}
			return res, nil
		},
	}
}

// loadNow runs a source synchronously and sanitizes the result. Nothing
// else can arrive after a one-shot load, so a null payload resolves to an
// empty result.
func loadNow(src source, stderr io.Writer) (*insights.Result, error) {
	res, err := src.load()
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = &insights.Result{}
	}
	clean, warnings := insights.Sanitize(res)
	debug.LogIf(len(warnings) > 0, "%s: dropped %d record(s)", src.name, len(warnings))
	for _, w := range warnings {
		fmt.Fprintf(stderr, "Warning: %s\n", w)
	}
	return clean, nil
}

// selectedIndex resolves --course against res, falling back to the top course.
func selectedIndex(res *insights.Result, query string) int {
	if idx, ok := ui.FindCourse(res, query); ok {
		return idx
	}
	return 0
}

// renderStatic draws one frame of the dashboard for non-interactive output.
func renderStatic(res *insights.Result, cfg config.Config, width int, course string) string {
	opts := []ui.Option{ui.WithResult(res), ui.WithMouse(false), ui.WithCourseQuery(course)}
	if tab, ok := ui.ParseTab(cfg.UI.DefaultTab); ok {
		opts = append(opts, ui.WithDefaultTab(tab))
	}
	m := ui.NewModel(ui.DefaultTheme(lipgloss.DefaultRenderer()), opts...)
	next, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: staticHeight(res)})
	return strings.TrimRight(next.View(), " \n")
}

// staticHeight leaves room for the whole first tab body.
func staticHeight(res *insights.Result) int {
	return 48 + 5*((res.Len()+3)/4)
}

func printHistory(w io.Writer, runs []store.RunInfo) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No stored runs.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFETCHED\tLEVEL\tSOURCE\tCOURSES\tTOP COURSE")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n",
			r.ID, r.FetchedAt.Local().Format("2006-01-02 15:04"), r.StudentLevel, r.Source, r.CourseCount, r.TopCourse)
	}
	tw.Flush()
}

func runTUIProgram(m ui.Model, mouse bool) error {
	progOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	}
	if mouse {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(m, progOpts...)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set UNIMATCH_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("UNIMATCH_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}

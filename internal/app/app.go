// Package app implements the application layer for remake.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/remake/internal/core/domain"
	"go.trai.ch/remake/internal/core/ports"
	"go.trai.ch/remake/internal/engine/builder"
	"go.trai.ch/remake/internal/engine/parser"
	"go.trai.ch/remake/internal/engine/scheduler"
	"go.trai.ch/remake/internal/ui/output"
	"go.trai.ch/remake/internal/ui/style"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	settingsLoader ports.SettingsLoader
	makefileLoader ports.MakefileLoader
	lister         ports.EntryLister
	journal        ports.Journal
	telemetry      ports.Telemetry
	logger         ports.Logger
	scheduler      *scheduler.Scheduler
	out            io.Writer
}

// Options selects the makefile an invocation works on.
type Options struct {
	// Dir is the working directory the makefile is looked up in and recipes run in.
	// Empty means the process working directory.
	Dir string
	// Makefile is an explicit makefile path. Empty searches the configured candidates.
	Makefile string
}

// New creates a new App instance.
func New(
	settingsLoader ports.SettingsLoader,
	makefileLoader ports.MakefileLoader,
	lister ports.EntryLister,
	journal ports.Journal,
	telemetry ports.Telemetry,
	logger ports.Logger,
	sched *scheduler.Scheduler,
) *App {
	return &App{
		settingsLoader: settingsLoader,
		makefileLoader: makefileLoader,
		lister:         lister,
		journal:        journal,
		telemetry:      telemetry,
		logger:         logger,
		scheduler:      sched,
		out:            os.Stdout,
	}
}

// WithOutput sets the writer used by Plan and Print.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// Run builds target, or the default target when target is empty.
func (a *App) Run(ctx context.Context, target string, opts Options) (err error) {
	g, dir, err := a.load(opts)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := a.telemetry.Close(); cerr != nil {
			a.logger.Error(zerr.Wrap(cerr, "failed to close telemetry"))
		}
	}()

	if err := a.scheduler.Run(ports.ContextWithWorkDir(ctx, dir), g, target); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrBuildExecutionFailed, err)
	}
	return nil
}

// Plan prints the execution order for target without running anything,
// along with the outcome of each target's last run.
func (a *App) Plan(_ context.Context, target string, opts Options) error {
	g, _, err := a.load(opts)
	if err != nil {
		return err
	}

	target, err = scheduler.ResolveTarget(g, target)
	if err != nil {
		return err
	}
	order, err := scheduler.Plan(g, target)
	if err != nil {
		return err
	}

	rows := make([]planRow, 0, len(order))
	for _, id := range order {
		n := g.Node(id)
		row := planRow{name: n.Name.String(), kind: n.Kind.String(), commands: fmt.Sprint(len(n.Commands)), last: "-"}
		if n.Kind == domain.NodeTarget {
			row.last, row.status, err = a.lastOutcome(row.name)
			if err != nil {
				return err
			}
		}
		rows = append(rows, row)
	}

	_, err = io.WriteString(a.out, renderPlan(a.out, rows))
	return err
}

type planRow struct {
	name     string
	kind     string
	commands string
	last     string
	status   domain.VertexStatus // empty when the node was never run
}

// renderPlan lays the rows out in aligned columns, colored by the last outcome
// when w supports it.
func renderPlan(w io.Writer, rows []planRow) string {
	var nameW, kindW, cmdW int
	for _, r := range rows {
		nameW = max(nameW, lipgloss.Width(r.name))
		kindW = max(kindW, lipgloss.Width(r.kind))
		cmdW = max(cmdW, lipgloss.Width(r.commands))
	}

	out := output.New(w)
	re := lipgloss.NewRenderer(w)
	re.SetOutput(out)
	re.SetColorProfile(out.Profile)
	nameStyle := re.NewStyle().Bold(true).Width(nameW + 2)
	kindStyle := re.NewStyle().Faint(true).Width(kindW + 2)
	cmdStyle := re.NewStyle().Width(cmdW + 2)

	var sb strings.Builder
	for _, r := range rows {
		last := re.NewStyle().Foreground(statusColor(r.status)).Render(r.last)
		sb.WriteString(nameStyle.Render(r.name))
		sb.WriteString(kindStyle.Render(r.kind))
		sb.WriteString(cmdStyle.Render(r.commands))
		sb.WriteString(last)
		sb.WriteString("\n")
	}
	return sb.String()
}

func statusColor(s domain.VertexStatus) lipgloss.Color {
	switch s {
	case domain.VertexStatusCompleted:
		return style.Green
	case domain.VertexStatusFailed:
		return style.Red
	default:
		return style.Slate
	}
}

func (a *App) lastOutcome(target string) (string, domain.VertexStatus, error) {
	record, err := a.journal.Get(target)
	if err != nil {
		return "", "", zerr.With(zerr.Wrap(err, "failed to read journal"), "target", target)
	}
	if record == nil {
		return "never run", "", nil
	}
	return fmt.Sprintf("%s at %s", record.Status, record.FinishedAt.Format("2006-01-02 15:04:05")), record.Status, nil
}

// Print dumps the parsed statements of the makefile.
func (a *App) Print(_ context.Context, opts Options) error {
	dir, err := resolveDir(opts.Dir)
	if err != nil {
		return err
	}
	settings, err := a.settingsLoader.Load(dir)
	if err != nil {
		return err
	}
	prog, _, err := a.parse(dir, opts.Makefile, settings)
	if err != nil {
		return err
	}

	for _, stmt := range prog.Statements {
		_, _ = fmt.Fprintln(a.out, formatStatement(stmt))
	}
	return nil
}

func formatStatement(stmt domain.Statement) string {
	var sb strings.Builder
	switch stmt.Kind {
	case domain.StmtRule:
		r := stmt.Rule
		sb.WriteString(r.Target + ":")
		for _, p := range r.Prerequisites {
			sb.WriteString(" " + p)
		}
		for _, cmd := range r.Commands {
			sb.WriteString("\n\t")
			if cmd.Silent {
				sb.WriteString("@")
			}
			sb.WriteString(cmd.String())
		}
	case domain.StmtAssign:
		fmt.Fprintf(&sb, "# assignment %s %s (line %d)", stmt.Assign.Name, stmt.Assign.Op, stmt.Line())
	case domain.StmtDirective:
		d := stmt.Directive
		sb.WriteString("." + d.Name + ":")
		for _, arg := range d.Args {
			sb.WriteString(" " + arg)
		}
	}
	return sb.String()
}

// load reads the settings and the makefile in the working directory and builds the graph.
// It returns the resolved working directory alongside the graph.
func (a *App) load(opts Options) (*domain.Graph, string, error) {
	dir, err := resolveDir(opts.Dir)
	if err != nil {
		return nil, "", err
	}

	settings, err := a.settingsLoader.Load(dir)
	if err != nil {
		return nil, "", err
	}

	prog, path, err := a.parse(dir, opts.Makefile, settings)
	if err != nil {
		return nil, "", err
	}

	entries, err := a.lister.ListEntries(dir, settings.Ignore)
	if err != nil {
		return nil, "", zerr.Wrap(err, "failed to snapshot working directory")
	}

	g, err := builder.Build(prog, entries,
		builder.WithConflictPolicy(settings.OnFileConflict),
		builder.WithLogger(a.logger),
	)
	if err != nil {
		return nil, "", zerr.With(err, "makefile", path)
	}

	return g, dir, nil
}

func (a *App) parse(dir, makefile string, settings domain.Settings) (*domain.Program, string, error) {
	text, path, err := a.makefileLoader.Load(dir, makefile, settings.Makefiles)
	if err != nil {
		return nil, "", err
	}
	prog, err := parser.Parse(text)
	if err != nil {
		return nil, "", zerr.With(err, "makefile", path)
	}
	return prog, path, nil
}

func resolveDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", zerr.Wrap(err, "failed to get working directory")
	}
	return cwd, nil
}

package app_test

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/remake/internal/app"
	"go.trai.ch/remake/internal/core/domain"
	"go.trai.ch/remake/internal/core/ports"
	"go.trai.ch/remake/internal/core/ports/mocks"
	"go.trai.ch/remake/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

const dir = "/work"

type harness struct {
	settings  *mocks.MockSettingsLoader
	makefiles *mocks.MockMakefileLoader
	lister    *mocks.MockEntryLister
	journal   *mocks.MockJournal
	telemetry *mocks.MockTelemetry
	executor  *mocks.MockExecutor
	logger    *mocks.MockLogger
	out       *bytes.Buffer
	app       *app.App
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	h := &harness{
		settings:  mocks.NewMockSettingsLoader(ctrl),
		makefiles: mocks.NewMockMakefileLoader(ctrl),
		lister:    mocks.NewMockEntryLister(ctrl),
		journal:   mocks.NewMockJournal(ctrl),
		telemetry: mocks.NewMockTelemetry(ctrl),
		executor:  mocks.NewMockExecutor(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
		out:       &bytes.Buffer{},
	}

	hasher := mocks.NewMockHasher(ctrl)
	hasher.EXPECT().HashRecipe(gomock.Any(), gomock.Any()).Return("digest").AnyTimes()
	h.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	h.logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	h.telemetry.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string) (context.Context, ports.Vertex) {
			v := mocks.NewMockVertex(ctrl)
			v.EXPECT().Stdout().Return(io.Discard).AnyTimes()
			v.EXPECT().Complete(gomock.Any()).AnyTimes()
			v.EXPECT().Cached().AnyTimes()
			v.EXPECT().Skipped().AnyTimes()
			v.EXPECT().Log(gomock.Any(), gomock.Any()).AnyTimes()
			return ports.ContextWithVertex(ctx, v), v
		}).AnyTimes()

	sched := scheduler.NewScheduler(h.executor, h.telemetry, h.journal, hasher, h.logger)
	h.app = app.New(h.settings, h.makefiles, h.lister, h.journal, h.telemetry, h.logger, sched).
		WithOutput(h.out)
	return h
}

// expectLoad sets up a working directory holding makefile and the given entries.
func (h *harness) expectLoad(settings domain.Settings, makefile string, entries ...string) {
	h.settings.EXPECT().Load(dir).Return(settings, nil)
	h.makefiles.EXPECT().Load(dir, "", settings.Makefiles).Return(makefile, dir+"/Makefile", nil)
	h.lister.EXPECT().ListEntries(dir, settings.Ignore).Return(entries, nil)
}

func TestApp_Run(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.expectLoad(domain.DefaultSettings(), "all: foo.o\n\tld foo.o\n", "foo.o", "Makefile")
	h.executor.EXPECT().Execute(gomock.Any(), domain.Command{Program: "ld", Args: []string{"foo.o"}, Line: 2}).Return(nil)
	h.journal.EXPECT().Put(gomock.Any()).Return(nil)
	h.telemetry.EXPECT().Close().Return(nil)

	require.NoError(t, h.app.Run(context.Background(), "", app.Options{Dir: dir}))
}

func TestApp_Run_CommandsRunInWorkDir(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.expectLoad(domain.DefaultSettings(), "all:\n\ttouch out\n")
	h.executor.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, _ domain.Command) error {
		got, ok := ports.WorkDirFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, dir, got)
		return nil
	})
	h.journal.EXPECT().Put(gomock.Any()).Return(nil)
	h.telemetry.EXPECT().Close().Return(nil)

	require.NoError(t, h.app.Run(context.Background(), "all", app.Options{Dir: dir}))
}

func TestApp_Run_CommandFailure(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.expectLoad(domain.DefaultSettings(), "all:\n\tfalse\n")
	h.executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(zerr.With(zerr.New("exit status 1"), "exit_code", 1))
	h.journal.EXPECT().Put(gomock.Any()).Return(nil)
	h.telemetry.EXPECT().Close().Return(nil)

	err := h.app.Run(context.Background(), "all", app.Options{Dir: dir})
	require.ErrorIs(t, err, domain.ErrBuildExecutionFailed)
	require.ErrorIs(t, err, domain.ErrCommandFailed)
}

func TestApp_Run_TelemetryCloseFailureIsLogged(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.expectLoad(domain.DefaultSettings(), "all:\n\ttrue\n")
	h.executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(nil)
	h.journal.EXPECT().Put(gomock.Any()).Return(nil)
	h.telemetry.EXPECT().Close().Return(zerr.New("broken pipe"))
	h.logger.EXPECT().Error(gomock.Any())

	require.NoError(t, h.app.Run(context.Background(), "all", app.Options{Dir: dir}))
}

func TestApp_Run_MakefileNotFound(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	settings := domain.DefaultSettings()
	h.settings.EXPECT().Load(dir).Return(settings, nil)
	h.makefiles.EXPECT().Load(dir, "", settings.Makefiles).Return("", "", domain.ErrMakefileNotFound)

	err := h.app.Run(context.Background(), "", app.Options{Dir: dir})
	require.ErrorIs(t, err, domain.ErrMakefileNotFound)
}

func TestApp_Run_ExplicitMakefile(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	settings := domain.DefaultSettings()
	h.settings.EXPECT().Load(dir).Return(settings, nil)
	h.makefiles.EXPECT().Load(dir, "build.mk", settings.Makefiles).Return("x:\n", dir+"/build.mk", nil)
	h.lister.EXPECT().ListEntries(dir, settings.Ignore).Return(nil, nil)
	h.journal.EXPECT().Put(gomock.Any()).Return(nil)
	h.telemetry.EXPECT().Close().Return(nil)

	require.NoError(t, h.app.Run(context.Background(), "x", app.Options{Dir: dir, Makefile: "build.mk"}))
}

func TestApp_Run_ParseErrorCarriesMakefile(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	settings := domain.DefaultSettings()
	h.settings.EXPECT().Load(dir).Return(settings, nil)
	h.makefiles.EXPECT().Load(dir, "", settings.Makefiles).Return("\techo orphan\n", dir+"/Makefile", nil)

	err := h.app.Run(context.Background(), "", app.Options{Dir: dir})
	require.ErrorIs(t, err, domain.ErrParse)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, dir+"/Makefile", zErr.Metadata()["makefile"])
}

func TestApp_Run_ConflictPolicyError(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	settings := domain.DefaultSettings()
	settings.OnFileConflict = domain.ConflictError
	h.expectLoad(settings, "foo.o:\n\ttouch foo.o\n", "foo.o")

	err := h.app.Run(context.Background(), "", app.Options{Dir: dir})
	require.ErrorIs(t, err, domain.ErrFileTargetConflict)
}

func TestApp_Plan(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.expectLoad(domain.DefaultSettings(), "all: foo.o lib.a\n\tld foo.o lib.a\nfoo.o:\n\tcc -c foo.c\n", "lib.a")

	finished := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	h.journal.EXPECT().Get("foo.o").Return(&domain.RunRecord{
		Target:     "foo.o",
		Status:     domain.VertexStatusCompleted,
		FinishedAt: finished,
	}, nil)
	h.journal.EXPECT().Get("all").Return(nil, nil)
	h.executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Times(0)

	require.NoError(t, h.app.Plan(context.Background(), "", app.Options{Dir: dir}))

	lines := bytes.Split(bytes.TrimSpace(h.out.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Contains(t, string(lines[0]), "foo.o")
	assert.Contains(t, string(lines[0]), "completed at 2026-01-02 03:04:05")
	assert.Contains(t, string(lines[1]), "lib.a")
	assert.Contains(t, string(lines[1]), "file")
	assert.Contains(t, string(lines[2]), "all")
	assert.Contains(t, string(lines[2]), "never run")
}

func TestApp_Plan_AlignedColumns(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	h := newHarness(t)

	h.expectLoad(domain.DefaultSettings(), "all: foo.o lib.a\n\tld foo.o lib.a\nfoo.o:\n\tcc -c foo.c\n", "lib.a")
	h.journal.EXPECT().Get("foo.o").Return(&domain.RunRecord{
		Target:     "foo.o",
		Status:     domain.VertexStatusFailed,
		FinishedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}, nil)
	h.journal.EXPECT().Get("all").Return(nil, nil)

	require.NoError(t, h.app.Plan(context.Background(), "all", app.Options{Dir: dir}))
	assert.Equal(t,
		"foo.o  target  1  failed at 2026-01-02 03:04:05\n"+
			"lib.a  file    0  -\n"+
			"all    target  1  never run\n",
		h.out.String())
}

func TestApp_Plan_Cycle(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.expectLoad(domain.DefaultSettings(), "a: b\nb: a\n")

	err := h.app.Plan(context.Background(), "a", app.Options{Dir: dir})
	require.ErrorIs(t, err, domain.ErrCycleDetected)
	assert.Empty(t, h.out.String())
}

func TestApp_Print(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	settings := domain.DefaultSettings()
	h.settings.EXPECT().Load(dir).Return(settings, nil)
	h.makefiles.EXPECT().Load(dir, "", settings.Makefiles).
		Return(".PHONY: all\nCC = gcc\nall: foo.o\n\t@echo done\n\tld foo.o\n", dir+"/Makefile", nil)

	require.NoError(t, h.app.Print(context.Background(), app.Options{Dir: dir}))
	assert.Equal(t,
		".PHONY: all\n# assignment CC = (line 2)\nall: foo.o\n\t@echo done\n\tld foo.o\n",
		h.out.String())
}

func TestApp_Print_Golden(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	makefile := `# build the demo
.PHONY: all clean
CC = gcc
CFLAGS := -O2
all: main.o util.o
	@echo linking
	cc  -o demo	main.o util.o
main.o: main.c ; cc -c main.c
util.o: util.c
	cc -c util.c

clean:
	rm -f demo main.o util.o
`
	settings := domain.DefaultSettings()
	h.settings.EXPECT().Load(dir).Return(settings, nil)
	h.makefiles.EXPECT().Load(dir, "", settings.Makefiles).Return(makefile, dir+"/Makefile", nil)

	require.NoError(t, h.app.Print(context.Background(), app.Options{Dir: dir}))

	g := goldie.New(t)
	g.Assert(t, "print_demo", h.out.Bytes())
}

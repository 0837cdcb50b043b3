package commands_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/remake/cmd/remake/commands"
	"go.trai.ch/remake/internal/app"
	"go.trai.ch/remake/internal/build"
	"go.trai.ch/remake/internal/core/domain"
	"go.trai.ch/remake/internal/core/ports"
	"go.trai.ch/remake/internal/core/ports/mocks"
	"go.trai.ch/remake/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

const makefile = "all: foo.o\n\tld foo.o\nfoo.o:\n\tcc -c foo.c\n"

type env struct {
	settings  *mocks.MockSettingsLoader
	makefiles *mocks.MockMakefileLoader
	lister    *mocks.MockEntryLister
	journal   *mocks.MockJournal
	telemetry *mocks.MockTelemetry
	executor  *mocks.MockExecutor
	cli       *commands.CLI
	out       *bytes.Buffer
}

func setup(t *testing.T) *env {
	t.Helper()
	ctrl := gomock.NewController(t)

	e := &env{
		settings:  mocks.NewMockSettingsLoader(ctrl),
		makefiles: mocks.NewMockMakefileLoader(ctrl),
		lister:    mocks.NewMockEntryLister(ctrl),
		journal:   mocks.NewMockJournal(ctrl),
		telemetry: mocks.NewMockTelemetry(ctrl),
		executor:  mocks.NewMockExecutor(ctrl),
		out:       &bytes.Buffer{},
	}

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	hasher := mocks.NewMockHasher(ctrl)
	hasher.EXPECT().HashRecipe(gomock.Any(), gomock.Any()).Return("digest").AnyTimes()
	e.telemetry.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string) (context.Context, ports.Vertex) {
			v := mocks.NewMockVertex(ctrl)
			v.EXPECT().Stdout().Return(io.Discard).AnyTimes()
			v.EXPECT().Complete(gomock.Any()).AnyTimes()
			v.EXPECT().Cached().AnyTimes()
			v.EXPECT().Skipped().AnyTimes()
			v.EXPECT().Log(gomock.Any(), gomock.Any()).AnyTimes()
			return ports.ContextWithVertex(ctx, v), v
		}).AnyTimes()
	e.settings.EXPECT().Load(gomock.Any()).Return(domain.DefaultSettings(), nil).AnyTimes()
	e.lister.EXPECT().ListEntries(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	sched := scheduler.NewScheduler(e.executor, e.telemetry, e.journal, hasher, log)
	a := app.New(e.settings, e.makefiles, e.lister, e.journal, e.telemetry, log, sched)
	e.cli = commands.New(a)
	e.cli.SetOutput(e.out)
	return e
}

func TestRun_DefaultTarget(t *testing.T) {
	e := setup(t)

	e.makefiles.EXPECT().Load(gomock.Any(), "", gomock.Any()).Return(makefile, "Makefile", nil)
	gomock.InOrder(
		e.executor.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, cmd domain.Command) error {
				assert.Equal(t, "cc", cmd.Program)
				return nil
			}),
		e.executor.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, cmd domain.Command) error {
				assert.Equal(t, "ld", cmd.Program)
				return nil
			}),
	)
	e.journal.EXPECT().Put(gomock.Any()).Return(nil).Times(2)
	e.telemetry.EXPECT().Close().Return(nil)

	e.cli.SetArgs([]string{"run"})
	require.NoError(t, e.cli.Execute(context.Background()))
}

func TestRun_NamedTargetWithFileFlag(t *testing.T) {
	e := setup(t)

	e.makefiles.EXPECT().Load(gomock.Any(), "build.mk", gomock.Any()).Return(makefile, "build.mk", nil)
	e.executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	e.journal.EXPECT().Put(gomock.Any()).Return(nil).Times(1)
	e.telemetry.EXPECT().Close().Return(nil)

	e.cli.SetArgs([]string{"-f", "build.mk", "run", "foo.o"})
	require.NoError(t, e.cli.Execute(context.Background()))
}

func TestRun_UnknownTarget(t *testing.T) {
	e := setup(t)

	e.makefiles.EXPECT().Load(gomock.Any(), "", gomock.Any()).Return(makefile, "Makefile", nil)
	e.telemetry.EXPECT().Close().Return(nil)

	e.cli.SetArgs([]string{"run", "missing"})
	err := e.cli.Execute(context.Background())
	require.ErrorIs(t, err, domain.ErrTargetNotFound)
}

func TestRun_TooManyArgs(t *testing.T) {
	e := setup(t)

	e.cli.SetArgs([]string{"run", "a", "b"})
	require.Error(t, e.cli.Execute(context.Background()))
}

func TestPlan(t *testing.T) {
	e := setup(t)

	e.makefiles.EXPECT().Load(gomock.Any(), "", gomock.Any()).Return(makefile, "Makefile", nil)
	e.journal.EXPECT().Get(gomock.Any()).Return(nil, nil).Times(2)

	e.cli.SetArgs([]string{"plan"})
	require.NoError(t, e.cli.Execute(context.Background()))
	assert.Contains(t, e.out.String(), "foo.o")
	assert.Contains(t, e.out.String(), "never run")
}

func TestPrint(t *testing.T) {
	e := setup(t)

	e.makefiles.EXPECT().Load(gomock.Any(), "", gomock.Any()).Return(makefile, "Makefile", nil)

	e.cli.SetArgs([]string{"print"})
	require.NoError(t, e.cli.Execute(context.Background()))
	assert.Equal(t, "all: foo.o\n\tld foo.o\nfoo.o:\n\tcc -c foo.c\n", e.out.String())
}

func TestVersion(t *testing.T) {
	e := setup(t)

	e.cli.SetArgs([]string{"version"})
	require.NoError(t, e.cli.Execute(context.Background()))
	assert.Equal(t, "remake version "+build.Version+"\n", e.out.String())
}

func TestRoot_Help(t *testing.T) {
	e := setup(t)

	e.cli.SetArgs([]string{"--help"})
	require.NoError(t, e.cli.Execute(context.Background()))
	assert.Contains(t, e.out.String(), "remake")
}

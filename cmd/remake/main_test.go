package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/remake/internal/app"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name         string
		makefile     string
		args         []string
		expectedExit int
	}{
		{
			name:         "Success with default target",
			makefile:     "all:\n\techo hello\n",
			args:         []string{"remake", "run"},
			expectedExit: 0,
		},
		{
			name:         "Failing recipe",
			makefile:     "all:\n\tfalse\n",
			args:         []string{"remake", "run"},
			expectedExit: 1,
		},
		{
			name:         "Unknown target",
			makefile:     "all:\n\techo hello\n",
			args:         []string{"remake", "run", "missing"},
			expectedExit: 1,
		},
		{
			name:         "Parse error",
			makefile:     "\techo orphan\n",
			args:         []string{"remake", "print"},
			expectedExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "Makefile"), []byte(tt.makefile), 0o600))
			t.Chdir(tmpDir)

			originalArgs := os.Args
			t.Cleanup(func() { os.Args = originalArgs })
			os.Args = tt.args

			exitCode := run(func(a *app.App) {
				a.WithOutput(os.Stderr)
			})
			assert.Equal(t, tt.expectedExit, exitCode)
		})
	}
}

func TestRun_NoMakefile(t *testing.T) {
	t.Chdir(t.TempDir())

	originalArgs := os.Args
	t.Cleanup(func() { os.Args = originalArgs })
	os.Args = []string{"remake", "run"}

	assert.Equal(t, 1, run())
}

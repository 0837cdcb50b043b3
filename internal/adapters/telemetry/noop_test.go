package telemetry_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/remake/internal/adapters/telemetry"
	"go.trai.ch/remake/internal/core/domain"
	"go.trai.ch/remake/internal/core/ports"
)

func TestNoOp_ForwardsOutput(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	tel := telemetry.NewNoOp(&out, &errOut)

	ctx, v := tel.Record(context.Background(), "all")
	fromCtx, ok := ports.VertexFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, v, fromCtx)

	_, _ = io.WriteString(v.Stdout(), "out\n")
	_, _ = io.WriteString(v.Stderr(), "err\n")
	v.Log(domain.LogLevelInfo, "ignored")
	v.Cached()
	v.Complete(nil)
	v.Skipped()

	assert.Equal(t, "out\n", out.String())
	assert.Equal(t, "err\n", errOut.String())
	assert.NoError(t, tel.Close())
}

func TestNoOp_NilWritersDiscard(t *testing.T) {
	t.Parallel()

	_, v := telemetry.NewNoOp(nil, nil).Record(context.Background(), "x")
	n, err := io.WriteString(v.Stdout(), "dropped")
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

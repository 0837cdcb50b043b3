package scheduler_test

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/remake/internal/core/domain"
	"go.trai.ch/remake/internal/engine/builder"
	"go.trai.ch/remake/internal/engine/parser"
	"go.trai.ch/remake/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

func buildGraph(t *testing.T, input string, entries ...string) *domain.Graph {
	t.Helper()
	prog, err := parser.Parse(input)
	require.NoError(t, err)
	g, err := builder.Build(prog, entries)
	require.NoError(t, err)
	return g
}

func planNames(t *testing.T, g *domain.Graph, target string) []string {
	t.Helper()
	order, err := scheduler.Plan(g, target)
	require.NoError(t, err)

	names := make([]string, 0, len(order))
	for _, id := range order {
		names = append(names, g.Node(id).Name.String())
	}
	return names
}

func TestPlan_Order(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, "all: foo.o\n\tgcc -c foo.o\n\nfoo.o:\n\ttouch foo.o\n")
	assert.Equal(t, []string{"foo.o", "all"}, planNames(t, g, "all"))
}

func TestPlan_Diamond(t *testing.T) {
	t.Parallel()

	// a -> b, a -> c, b -> d, c -> d
	g := buildGraph(t, "a: b c\nb: d\nc: d\nd:\n")
	assert.Equal(t, []string{"d", "b", "c", "a"}, planNames(t, g, "a"))
}

func TestPlan_Partial(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, "a: b\nb: c\nc:\nd:\n")
	assert.Equal(t, []string{"c", "b", "a"}, planNames(t, g, "a"))
	assert.Equal(t, []string{"d"}, planNames(t, g, "d"))
}

func TestPlan_FileLeaf(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, "prog: lib.a\n\tld lib.a\n", "lib.a")
	assert.Equal(t, []string{"lib.a", "prog"}, planNames(t, g, "prog"))
	assert.Equal(t, []string{"lib.a"}, planNames(t, g, "lib.a"))
}

func TestPlan_Cycle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		target string
		from   string
		to     string
		cycle  string
	}{
		{name: "two nodes", input: "a: b\nb: a\n", target: "a", from: "b", to: "a", cycle: "a -> b -> a"},
		{name: "self loop", input: "a: a\n", target: "a", from: "a", to: "a", cycle: "a -> a"},
		{name: "inner loop", input: "a: b\nb: c\nc: b\n", target: "a", from: "c", to: "b", cycle: "b -> c -> b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := buildGraph(t, tt.input)
			order, err := scheduler.Plan(g, tt.target)
			require.ErrorIs(t, err, domain.ErrCycleDetected)
			assert.Nil(t, order)

			var zErr *zerr.Error
			require.ErrorAs(t, err, &zErr)
			meta := zErr.Metadata()
			assert.Equal(t, tt.from, meta["from"])
			assert.Equal(t, tt.to, meta["to"])
			assert.Equal(t, tt.cycle, meta["cycle"])
		})
	}
}

func TestPlan_UnresolvedPrerequisite(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, "all: foo.o\nfoo.o: foo.c\n\tgcc -c foo.c\n")
	_, err := scheduler.Plan(g, "all")
	require.ErrorIs(t, err, domain.ErrUnresolvedPrerequisite)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "foo.c", zErr.Metadata()["prerequisite"])
	assert.Equal(t, "foo.o", zErr.Metadata()["target"])
}

func TestPlan_UnreachedUnknownIsFine(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, "all:\noptional: missing\n")
	assert.Equal(t, []string{"all"}, planNames(t, g, "all"))
}

func TestPlan_TargetNotFound(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, "all: missing\n")
	for _, target := range []string{"nope", "missing"} {
		_, err := scheduler.Plan(g, target)
		require.ErrorIs(t, err, domain.ErrTargetNotFound, target)
	}
}

// randomDAG writes a makefile of n rules where rule i only depends on rules
// with a larger index, plus a few existing files.
func randomDAG(rng *rand.Rand, n int) (string, []string, map[string][]string) {
	deps := make(map[string][]string, n)
	var files []string
	var sb strings.Builder
	for i := range n {
		name := fmt.Sprintf("n%d", i)
		fmt.Fprintf(&sb, "%s:", name)
		for j := i + 1; j < n; j++ {
			if rng.IntN(4) == 0 {
				dep := fmt.Sprintf("n%d", j)
				deps[name] = append(deps[name], dep)
				fmt.Fprintf(&sb, " %s", dep)
			}
		}
		if rng.IntN(5) == 0 {
			file := fmt.Sprintf("f%d.c", i)
			files = append(files, file)
			deps[name] = append(deps[name], file)
			fmt.Fprintf(&sb, " %s", file)
		}
		fmt.Fprintf(&sb, "\n\techo %s\n", name)
	}
	return sb.String(), files, deps
}

func reachable(deps map[string][]string, root string) map[string]bool {
	seen := map[string]bool{}
	stack := []string{root}
	for len(stack) > 0 {
		name := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[name] {
			continue
		}
		seen[name] = true
		stack = append(stack, deps[name]...)
	}
	return seen
}

func TestPlan_GeneratedDAGs(t *testing.T) {
	t.Parallel()

	for seed := range uint64(50) {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			t.Parallel()

			rng := rand.New(rand.NewPCG(seed, seed*7+1))
			n := 1 + rng.IntN(30)
			input, files, deps := randomDAG(rng, n)
			g := buildGraph(t, input, files...)

			names := planNames(t, g, "n0")
			want := reachable(deps, "n0")
			require.Len(t, names, len(want))

			pos := make(map[string]int, len(names))
			for i, name := range names {
				_, dup := pos[name]
				require.False(t, dup, "%s planned twice", name)
				require.True(t, want[name], "%s is not reachable from n0", name)
				pos[name] = i
			}
			for name, i := range pos {
				for _, dep := range deps[name] {
					assert.Less(t, pos[dep], i, "%s planned before its prerequisite %s", name, dep)
				}
			}
			assert.Equal(t, "n0", names[len(names)-1])
		})
	}
}

package graph

import (
	"testing"

	"github.com/glyph-dev/glyph/internal/flow"
	"github.com/stretchr/testify/require"
)

func rankFixture() (flow.Graph, map[string]string) {
	ids := map[string]string{
		"main":  flow.Namespace("a.py", "main"),
		"if":    flow.Namespace("a.py", flow.DecisionID(1, "if ok")),
		"save":  flow.Namespace("a.py", "save"),
		"log":   flow.Namespace("b.py", "log"),
		"write": flow.Namespace("b.py", "write"),
	}

	g := flow.Graph{}
	g.Add(ids["main"], flow.Edge{Target: ids["if"]})
	g.Add(ids["main"], flow.Edge{Target: ids["log"]})
	g.Add(ids["if"], flow.Edge{Target: ids["save"], Label: "True"})
	g.Add(ids["save"], flow.Edge{Target: ids["write"]})
	g.Add(ids["log"], flow.Edge{Target: ids["write"]})
	g.Ensure(ids["write"])
	return g, ids
}

func TestFunctionCallsLookThroughDecisions(t *testing.T) {
	g, ids := rankFixture()

	calls := functionCalls(g)

	require.NotContains(t, calls, ids["if"])
	require.ElementsMatch(t, []string{ids["save"], ids["log"]}, calls[ids["main"]])
	require.Empty(t, calls[ids["write"]])
}

func TestTopNodesRanksSharedCallee(t *testing.T) {
	g, ids := rankFixture()

	top := TopNodes(g, 2)

	require.Len(t, top, 2)
	require.Equal(t, ids["write"], top[0].ID)
	require.Greater(t, top[0].Rank, top[1].Rank)

	require.Len(t, TopNodes(g, 100), 4)
	require.Empty(t, TopNodes(flow.Graph{}, 3))
}

func TestSummarize(t *testing.T) {
	g, ids := rankFixture()

	s := Summarize(g, 1)

	require.Equal(t, 5, s.Nodes)
	require.Equal(t, 5, s.Edges)
	require.Equal(t, 1, s.Decisions)
	require.Equal(t, 4, s.Functions)
	require.Equal(t, 2, s.Files)
	require.Equal(t, []string{ids["main"]}, s.Roots)
	require.GreaterOrEqual(t, s.Depth, 2)
	require.Len(t, s.Top, 1)
	require.Equal(t, ids["write"], s.Top[0].ID)
}

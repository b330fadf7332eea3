package dot

import (
	"strings"
	"testing"
)

func TestRenderLeveledContainsClustersAndEdges(t *testing.T) {
	out := RenderLeveled([][]string{
		{"top.a.R1"},
		{"top.b.R2", "top.c.R3"},
	}, []Edge{{From: "top.a.R1", To: "top.b.R2"}})

	for _, want := range []string{
		"digraph reactions",
		"rank=same",
		`"top_a_R1"`,
		`"top_b_R2"`,
		`"top_a_R1" -> "top_b_R2";`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n--- got ---\n%s", want, out)
		}
	}
}

func TestRenderFlatListsAllNodesAndEdges(t *testing.T) {
	out := RenderFlat([]string{"a.R1", "a.R2", "a.R3"}, []Edge{
		{From: "a.R1", To: "a.R2"},
		{From: "a.R2", To: "a.R3"},
		{From: "a.R3", To: "a.R1"},
	})

	for _, want := range []string{
		`"a_R1"`, `"a_R2"`, `"a_R3"`,
		`"a_R1" -> "a_R2";`,
		`"a_R2" -> "a_R3";`,
		`"a_R3" -> "a_R1";`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n--- got ---\n%s", want, out)
		}
	}
	if strings.Contains(out, "rank=same") {
		t.Error("flat render should not cluster by rank")
	}
}

package extraction

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{"a": map[string]any{"x": 0, "y": 0}, "b": 0}
	got := DeepMerge(map[string]any{"a": map[string]any{"x": 1}}, dst)
	require.Equal(t, map[string]any{"a": map[string]any{"x": 1, "y": 0}, "b": 0}, got)
}

func TestDeepMergeReplacesNonObjects(t *testing.T) {
	dst := map[string]any{"a": "scalar", "list": []any{"old"}}
	got := DeepMerge(map[string]any{
		"a":    map[string]any{"k": "v"},
		"list": []any{"new"},
		"c":    nil,
	}, dst)
	require.Equal(t, map[string]any{"k": "v"}, got["a"])
	require.Equal(t, []any{"new"}, got["list"])
	require.Contains(t, got, "c")
}

func TestDefaultSummaryKeepsMissingSections(t *testing.T) {
	got := DeepMerge(map[string]any{
		"case_title_info": map[string]any{"case_name": "State v. Rao", "court_name": "Supreme Court of India"},
		"legal_issues":    []any{"Whether bail was rightly denied"},
	}, DefaultSummary())

	title := got["case_title_info"].(map[string]any)
	require.Equal(t, "State v. Rao", title["case_name"])
	require.Equal(t, "", title["citations"])
	require.Equal(t, "", got["parties_involved"].(map[string]any)["petitioner"])
	require.Equal(t, []any{"Whether bail was rightly denied"}, got["legal_issues"])
	require.Equal(t, "", got["final_judgment"])
}

func TestDefaultSummaryIsFresh(t *testing.T) {
	a := DefaultSummary()
	a["case_title_info"].(map[string]any)["case_name"] = "changed"
	require.Equal(t, "", DefaultSummary()["case_title_info"].(map[string]any)["case_name"])
}

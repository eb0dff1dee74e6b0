package store

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type profile struct {
	Name    string
	Tags    []string
	Joined  time.Time
	Pattern *regexp.Regexp
	Friend  *profile
}

func TestCloneStruct(t *testing.T) {
	in := &profile{
		Name:    "ann",
		Tags:    []string{"a", "b"},
		Joined:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Pattern: regexp.MustCompile(`^a+$`),
		Friend:  &profile{Name: "bob"},
	}
	out := Clone(in).(*profile)

	require.NotSame(t, in, out)
	require.NotSame(t, in.Friend, out.Friend)
	require.NotSame(t, in.Pattern, out.Pattern)
	require.Equal(t, in.Pattern.String(), out.Pattern.String())
	require.True(t, in.Joined.Equal(out.Joined))

	out.Tags[0] = "z"
	require.Equal(t, "a", in.Tags[0])
}

func TestCloneGenericTree(t *testing.T) {
	in := map[string]any{
		"n":    1.5,
		"list": []any{"x", map[string]any{"deep": true}},
		"arr":  [2]int{1, 2},
		"nil":  nil,
	}
	out := Clone(in)
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("clone mismatch (-in +out):\n%s", diff)
	}
	out.(map[string]any)["list"].([]any)[1].(map[string]any)["deep"] = false
	require.Equal(t, true, in["list"].([]any)[1].(map[string]any)["deep"])
}

func TestClonePrimitives(t *testing.T) {
	require.Nil(t, Clone(nil))
	require.Equal(t, 3, Clone(3))
	require.Equal(t, "s", Clone("s"))
}

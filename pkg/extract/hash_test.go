package extract_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mfinch/furniture-watch/pkg/extract"
)

var hexPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

func TestHashString_Deterministic(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"/sofa/red-couch",
		"/chair/oak-rocker",
		"",
		"/home-decor/vase?variant=2",
	}

	for _, in := range inputs {
		assert.Equal(t, extract.HashString(in), extract.HashString(in), "input %q", in)
	}
}

func TestHashString_Shape(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"/sofa/red-couch", "x", ""} {
		got := extract.HashString(in)
		assert.Regexp(t, hexPattern, got, "input %q", in)
	}
}

func TestHashString_DistinctInputs(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"/sofa/red-couch",
		"/sofa/red-couch/",
		"/sofa/blue-chair",
		"/chair/blue-chair",
	}

	seen := make(map[string]string)
	for _, in := range inputs {
		got := extract.HashString(in)
		prev, dup := seen[got]
		assert.False(t, dup, "collision between %q and %q", in, prev)
		seen[got] = in
	}
}

// Known digest from the original deployment's database. If this changes,
// every historical item id becomes unreachable.
func TestHashString_StableAcrossVersions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "dd367987bee4c84aaed2f45a526c7afe", extract.HashString("/sofa/red-couch"))
}

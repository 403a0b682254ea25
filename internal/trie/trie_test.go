package trie

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func path(segs ...string) []string { return segs }

func TestAddAndGet(t *testing.T) {
	tr := New[string, int]()
	require.True(t, tr.Add(path("a", "b"), 1), "expected first Add to succeed")
	require.False(t, tr.Add(path("a", "b"), 2), "expected duplicate Add to fail")
	require.False(t, tr.Add(nil, 3), "expected empty-path Add to fail")

	v, ok := tr.Get(path("a", "b"))
	require.True(t, ok)
	require.Equal(t, 1, v)

	_, ok = tr.Get(path("a"))
	require.False(t, ok, "expected no value at internal node")
}

func TestContainsExact(t *testing.T) {
	tr := New[string, int]()
	tr.Add(path("read", "self"), 1)

	if !tr.Contains(path("read", "self")) {
		t.Error("expected exact path to be contained")
	}
	if tr.Contains(path("read")) {
		t.Error("internal node without a value should not satisfy Contains")
	}
	if tr.Contains(path("read", "self", "extra")) {
		t.Error("path extending past a stored value should not satisfy Contains")
	}
	if tr.Contains(path("write")) {
		t.Error("unrelated path should not be contained")
	}
}

func TestContainsPrefix(t *testing.T) {
	tr := New[string, int]()
	tr.Add(path("read", "self", "org"), 1)

	if !tr.ContainsPrefix(path("read")) {
		t.Error("internal node on the way to a stored value should satisfy ContainsPrefix")
	}
	if !tr.ContainsPrefix(path("read", "self")) {
		t.Error("deeper internal node should satisfy ContainsPrefix")
	}
	if !tr.ContainsPrefix(path("read", "self", "org")) {
		t.Error("exact stored path should satisfy ContainsPrefix")
	}
	if tr.ContainsPrefix(path("write")) {
		t.Error("unrelated path should not satisfy ContainsPrefix")
	}
}

func TestContainsSuffix(t *testing.T) {
	tr := New[string, int]()
	tr.Add(path("read"), 1)
	tr.Add(path("a", "b", "c"), 1)

	if !tr.ContainsSuffix(path("read", "self")) {
		t.Error("path extending past a dead end should satisfy ContainsSuffix")
	}
	if !tr.ContainsSuffix(path("write")) {
		t.Error("a first segment with no matching child at all should satisfy ContainsSuffix")
	}
	if !tr.ContainsSuffix(path("read")) {
		t.Error("exact stored path should satisfy ContainsSuffix too")
	}
	if tr.ContainsSuffix(path("a", "b")) {
		t.Error("stopping at an internal node that still has children should not satisfy ContainsSuffix")
	}
}

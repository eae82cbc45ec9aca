package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddUnique_Appends(t *testing.T) {
	got := AddUnique([]string{"a", "b"}, "c")
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestAddUnique_Idempotent(t *testing.T) {
	once := AddUnique([]string{"a"}, "x")
	twice := AddUnique(once, "x")
	assert.Equal(t, once, twice)
	assert.Equal(t, []string{"a", "x"}, twice)
}

func TestAddUnique_PreservesExistingOrder(t *testing.T) {
	got := AddUnique([]string{"b", "a"}, "a")
	assert.Equal(t, []string{"b", "a"}, got)
}

func TestAddUnique_NilList(t *testing.T) {
	assert.Equal(t, []string{"x"}, AddUnique(nil, "x"))
}

func TestAddUnique_EmptyIDIgnored(t *testing.T) {
	got := AddUnique([]string{"a"}, "")
	assert.Equal(t, []string{"a"}, got)
}

func TestAddUnique_DoesNotMutateInput(t *testing.T) {
	in := []string{"a", "b"}
	_ = AddUnique(in, "c")
	assert.Equal(t, []string{"a", "b"}, in)
}

func TestRemoveAll_RemovesAndPreservesOrder(t *testing.T) {
	got := RemoveAll([]string{"a", "b", "c"}, "b")
	assert.Equal(t, []string{"a", "c"}, got)
}

func TestRemoveAll_AbsentIDIsNoop(t *testing.T) {
	got := RemoveAll([]string{"a", "b"}, "z")
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestRemoveAll_Idempotent(t *testing.T) {
	once := RemoveAll([]string{"a", "b", "a"}, "a")
	twice := RemoveAll(once, "a")
	assert.Equal(t, once, twice)
	assert.Equal(t, []string{"b"}, twice)
}

func TestRemoveAll_EmptyAndNil(t *testing.T) {
	assert.Equal(t, []string{}, RemoveAll(nil, "x"))
	assert.Equal(t, []string{}, RemoveAll([]string{}, "x"))
}

// The upstream implementation stopped scanning when it dequeued an empty
// string, leaving later matches in place. That is treated here as a latent
// defect: the scan covers the whole list and sentinel elements are dropped.
func TestRemoveAll_ScansPastEmptySentinel(t *testing.T) {
	got := RemoveAll([]string{"a", "", "b", "x", "b"}, "b")
	assert.Equal(t, []string{"a", "x"}, got)
}

func TestContainsEmpty(t *testing.T) {
	assert.False(t, ContainsEmpty(nil))
	assert.False(t, ContainsEmpty([]string{"a"}))
	assert.True(t, ContainsEmpty([]string{"a", ""}))
}

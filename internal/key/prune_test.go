package key

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterByRecords_KeepsReachablePaths(t *testing.T) {
	tree := buildSample(t)

	got := FilterByRecords(tree, RecordSet([]int{14}))
	require.Same(t, tree, got, "filter mutates and returns the same tree")

	assert.Equal(t, []int{1, 3, 6, 8}, leadIDs(Flatten(tree, nil)))
	assert.Equal(t, 4, tree.Len())

	_, ok := Find(tree, 2)
	assert.False(t, ok, "pruned nodes leave the index")
}

func TestFilterByRecords_LeafIffRecordMember(t *testing.T) {
	records := RecordSet([]int{11, 13, 99})
	tree := FilterByRecords(buildSample(t), records)

	for _, s := range Flatten(tree, nil) {
		n, ok := Find(tree, s.LeadID)
		require.True(t, ok)
		if n.IsLeaf() {
			_, member := records[s.RecordID]
			assert.True(t, member, "leaf %d survived without a member record", s.LeadID)
		}
	}
	assert.Equal(t, []int{1, 2, 4, 3, 7}, leadIDs(Flatten(tree, nil)))
}

func TestFilterByRecords_Idempotent(t *testing.T) {
	records := RecordSet([]int{12, 14})

	once := FilterByRecords(buildSample(t), records)
	first := Flatten(once, nil)

	twice := FilterByRecords(once, records)
	assert.Equal(t, first, Flatten(twice, nil))
}

func TestFilterByRecords_Deterministic(t *testing.T) {
	records := RecordSet([]int{15, 13, 11})
	a := Flatten(FilterByRecords(buildSample(t), records), nil)
	b := Flatten(FilterByRecords(buildSample(t), records), nil)
	assert.Equal(t, a, b)
}

func TestFilterByRecords_EmptyResult(t *testing.T) {
	tree := FilterByRecords(buildSample(t), RecordSet([]int{404}))

	assert.True(t, tree.Empty())
	assert.Nil(t, tree.Root())
	assert.Empty(t, Flatten(tree, nil))

	_, ok := FlattenRenumbered(tree, 1)
	assert.False(t, ok)
}

func TestFilterByRecords_DropsSiblingWithoutRecord(t *testing.T) {
	// Lead 9 is a leaf without a member record; only its sibling survives.
	tree := FilterByRecords(buildSample(t), RecordSet([]int{14}))
	six, ok := Find(tree, 6)
	require.True(t, ok)
	assert.Equal(t, []int{8}, childIDs(six))
}

func TestReduceFullKey_DropsDeadEnds(t *testing.T) {
	tree := ReduceFullKey(buildSample(t))

	_, ok := Find(tree, 9)
	assert.False(t, ok)
	assert.Equal(t, []int{1, 2, 4, 5, 10, 3, 6, 8, 7}, leadIDs(Flatten(tree, nil)))
}

func TestReduceFullKey_Cascades(t *testing.T) {
	tree, err := Build([]Lead{
		question(1, NoParent, "root"),
		question(2, 1, "branch"),
		question(3, 2, "dead end"),
		terminal(4, 1, "Bombus terrestris", 5, ""),
	})
	require.NoError(t, err)

	ReduceFullKey(tree)
	assert.Equal(t, []int{1, 4}, leadIDs(Flatten(tree, nil)))
}

func TestReduceFullKey_NeverRemovesRoot(t *testing.T) {
	tree, err := Build([]Lead{question(1, NoParent, "lonely root")})
	require.NoError(t, err)

	ReduceFullKey(tree)
	require.NotNil(t, tree.Root())
	assert.Equal(t, 1, tree.Len())
}

func TestReduceFullKey_IndexConsistent(t *testing.T) {
	tree := ReduceFullKey(buildSample(t))

	steps := Flatten(tree, nil)
	assert.Equal(t, len(steps), tree.Len())
	for _, s := range steps {
		n, ok := Find(tree, s.LeadID)
		require.True(t, ok)
		if p := n.Parent(); p != nil {
			_, ok := Find(tree, p.Lead.LeadID)
			assert.True(t, ok, "lead %d has a dangling parent", s.LeadID)
		}
	}
}

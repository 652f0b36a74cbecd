package key

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueSpeciesWithImages(t *testing.T) {
	got := UniqueSpeciesWithImages(Flatten(buildSample(t), nil))

	require.Len(t, got, 4)
	assert.Equal(t, []string{"Apis mellifera", "Musca domestica", "Pieris rapae", "Vanessa cardui"}, speciesNames(got))

	// Lead 10 is visited after lead 4, so its image wins.
	require.NotNil(t, got[3].Image)
	assert.Equal(t, "vc2.jpg", *got[3].Image)
	assert.Nil(t, got[2].Image)
}

func TestUniqueSpeciesWithImages_CaseAwareOrder(t *testing.T) {
	got := UniqueSpeciesWithImages([]Lead{
		terminal(1, NoParent, "bombus", 1, ""),
		terminal(2, 1, "Bombus", 2, ""),
		terminal(3, 1, "Apis", 3, ""),
	})
	assert.Equal(t, []string{"Apis", "Bombus", "bombus"}, speciesNames(got))
}

func TestUniqueSpeciesWithImages_OrderIndependent(t *testing.T) {
	steps := []Lead{
		terminal(1, NoParent, "Pieris rapae", 1, ""),
		terminal(2, 1, "Apis mellifera", 2, "am.jpg"),
		terminal(3, 1, "Pieris rapae", 3, ""),
		question(4, 1, "no species"),
	}
	shuffled := []Lead{steps[3], steps[2], steps[1], steps[0]}

	assert.Equal(t, UniqueSpeciesWithImages(steps), UniqueSpeciesWithImages(shuffled))
}

func TestUniqueSpeciesWithImages_Idempotent(t *testing.T) {
	steps := Flatten(buildSample(t), nil)
	assert.Equal(t, UniqueSpeciesWithImages(steps), UniqueSpeciesWithImages(steps))
}

func TestUniqueSpeciesWithImages_NormalizesNames(t *testing.T) {
	composed := "Pyrrhosoma \u00e9legans"
	decomposed := "Pyrrhosoma e\u0301legans"

	got := UniqueSpeciesWithImages([]Lead{
		terminal(1, NoParent, composed, 1, "a.jpg"),
		terminal(2, 1, decomposed, 2, "b.jpg"),
	})
	require.Len(t, got, 1)
	assert.Equal(t, composed, got[0].Name)
	assert.Equal(t, "b.jpg", *got[0].Image)
}

func TestUniqueSpeciesWithImages_Empty(t *testing.T) {
	got := UniqueSpeciesWithImages(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestUniqueSpeciesWithRecords(t *testing.T) {
	got := UniqueSpeciesWithRecords(Flatten(buildSample(t), nil))

	assert.Equal(t, []SpeciesWithRecords{
		{Name: "Apis mellifera", Records: []int{13}},
		{Name: "Musca domestica", Records: []int{14}},
		{Name: "Pieris rapae", Records: []int{12}},
		{Name: "Vanessa cardui", Records: []int{11, 15}},
	}, got)
}

func speciesNames(entries []SpeciesEntry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

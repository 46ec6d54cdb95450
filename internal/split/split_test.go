package split

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetermine_SmallClass(t *testing.T) {
	plan := Determine(3, Percentages{Train: 70, Validation: 20, Test: 10})
	assert.Equal(t, Plan{Total: 3, Train: 1, Validation: 1, Test: 1}, plan)
	require.NoError(t, plan.Validate())
}

func TestDetermine_TypicalClass(t *testing.T) {
	plan := Determine(20, DefaultPercentages())
	assert.Equal(t, Plan{Total: 20, Train: 14, Validation: 4, Test: 2}, plan)

	// 0.1*15 = 1.5 rounds to 2 (even), 0.2*15 = 3, 0.7*15 = 10.5 -> 10, +0.
	plan = Determine(15, DefaultPercentages())
	assert.Equal(t, Plan{Total: 15, Train: 10, Validation: 3, Test: 2}, plan)
}

func TestDetermine_ReconcilesOvershootIntoTrain(t *testing.T) {
	// 33.4% of 5 = 1.67 -> 2 each, total 6, train reduced by one.
	plan := Determine(5, Percentages{Train: 33.4, Validation: 33.4, Test: 33.4})
	assert.Equal(t, Plan{Total: 5, Train: 1, Validation: 2, Test: 2}, plan)
	assert.Equal(t, 5, plan.Sum())
}

func TestDetermine_PercentagesNeedNotSumTo100(t *testing.T) {
	plan := Determine(10, Percentages{Train: 50, Validation: 10, Test: 10})
	assert.Equal(t, Plan{Total: 10, Train: 8, Validation: 1, Test: 1}, plan)
}

func TestDetermine_ZeroSamplesIsDegenerate(t *testing.T) {
	plan := Determine(0, DefaultPercentages())

	// The minimum-one floors push the plan past zero; reconciliation keeps the
	// sum at zero by driving train negative.
	assert.Equal(t, Plan{Total: 0, Train: -2, Validation: 1, Test: 1}, plan)
	assert.Equal(t, 0, plan.Sum())

	err := plan.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDegenerateSplit))
}

func TestDetermine_OneAndTwoSamplesAreDegenerate(t *testing.T) {
	for n := 1; n <= 2; n++ {
		plan := Determine(n, DefaultPercentages())
		assert.Equal(t, n, plan.Sum())
		assert.ErrorIs(t, plan.Validate(), ErrDegenerateSplit, "n=%d", n)
	}
}

func TestPercentages_Validate(t *testing.T) {
	require.NoError(t, DefaultPercentages().Validate())
	require.Error(t, Percentages{Train: -1, Validation: 20, Test: 10}.Validate())
}

func TestPartition(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	plan := Determine(len(items), DefaultPercentages())

	rng := rand.New(rand.NewPCG(1, 2))
	subsets, err := Partition(items, plan, rng)
	require.NoError(t, err)

	assert.Len(t, subsets.Train, plan.Train)
	assert.Len(t, subsets.Validation, plan.Validation)
	assert.Len(t, subsets.Test, plan.Test)

	all := slices.Concat(subsets.Train, subsets.Validation, subsets.Test)
	slices.Sort(all)
	assert.Equal(t, items, all, "partition must be a permutation of the input")

	// Input order is untouched.
	assert.Equal(t, "a", items[0])
}

func TestPartition_SameSeedSameSplit(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	plan := Determine(len(items), DefaultPercentages())

	a, err := Partition(items, plan, rand.New(rand.NewPCG(5, 5)))
	require.NoError(t, err)
	b, err := Partition(items, plan, rand.New(rand.NewPCG(5, 5)))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPartition_Errors(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))

	_, err := Partition([]int{}, Determine(0, DefaultPercentages()), rng)
	assert.ErrorIs(t, err, ErrDegenerateSplit)

	_, err = Partition([]int{1, 2, 3, 4}, Determine(3, DefaultPercentages()), rng)
	require.Error(t, err)
}

// Package split partitions a class's samples into train, validation and test
// subsets with exact-count reconciliation.
package split

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// ErrDegenerateSplit is returned by Plan.Validate when a subset would receive
// fewer than one sample. It happens for classes with fewer samples than the
// three minimum-one floors require (always for N = 0).
var ErrDegenerateSplit = errors.New("degenerate split")

// Percentages holds the three target shares. They need not sum to 100.
type Percentages struct {
	Train      float64
	Validation float64
	Test       float64
}

// DefaultPercentages returns a 70/20/10 split.
func DefaultPercentages() Percentages {
	return Percentages{Train: 70, Validation: 20, Test: 10}
}

// Validate rejects negative or non-finite shares.
func (p Percentages) Validate() error {
	for _, v := range []struct {
		name string
		pct  float64
	}{{"train", p.Train}, {"validation", p.Validation}, {"test", p.Test}} {
		if v.pct < 0 || math.IsNaN(v.pct) || math.IsInf(v.pct, 0) {
			return fmt.Errorf("invalid %s percentage: %v (must be a non-negative number)", v.name, v.pct)
		}
	}
	return nil
}

// Plan is the per-class sample count of each subset.
type Plan struct {
	Total      int
	Train      int
	Validation int
	Test       int
}

// Determine computes a Plan for n samples. Each subset gets
// round(n*pct/100), rounded half-to-even, floored at 1; the difference to n is
// then added to (or subtracted from) Train. Train+Validation+Test always
// equals n, but for small n Train can drop below 1 (n = 0 yields -2/1/1).
// Such plans are returned as computed; call Validate to detect them.
func Determine(n int, pct Percentages) Plan {
	train := atLeastOne(roundShare(n, pct.Train))
	validation := atLeastOne(roundShare(n, pct.Validation))
	test := atLeastOne(roundShare(n, pct.Test))
	train += n - train - validation - test
	return Plan{Total: n, Train: train, Validation: validation, Test: test}
}

func roundShare(n int, pct float64) int {
	return int(math.RoundToEven(float64(n) * pct / 100))
}

func atLeastOne(v int) int {
	if v > 0 {
		return v
	}
	return 1
}

// Sum returns Train+Validation+Test.
func (p Plan) Sum() int { return p.Train + p.Validation + p.Test }

// Validate returns an error wrapping ErrDegenerateSplit when any subset is
// smaller than one sample.
func (p Plan) Validate() error {
	if p.Train < 1 || p.Validation < 1 || p.Test < 1 {
		return fmt.Errorf("%w: %d samples cannot fill train/validation/test (planned %d/%d/%d)",
			ErrDegenerateSplit, p.Total, p.Train, p.Validation, p.Test)
	}
	return nil
}

// Subsets holds the sample lists assigned to each split.
type Subsets[T any] struct {
	Train      []T
	Validation []T
	Test       []T
}

// Partition shuffles a copy of items with rng (a full permutation of the
// whole list) and slices it according to plan. The plan must be valid and
// its Total must equal len(items).
func Partition[T any](items []T, plan Plan, rng *rand.Rand) (Subsets[T], error) {
	if err := plan.Validate(); err != nil {
		return Subsets[T]{}, err
	}
	if plan.Total != len(items) || plan.Sum() != len(items) {
		return Subsets[T]{}, fmt.Errorf("plan covers %d samples but %d were given", plan.Sum(), len(items))
	}

	shuffled := make([]T, len(items))
	copy(shuffled, items)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	v := plan.Train + plan.Validation
	return Subsets[T]{
		Train:      shuffled[:plan.Train:plan.Train],
		Validation: shuffled[plan.Train:v:v],
		Test:       shuffled[v:],
	}, nil
}

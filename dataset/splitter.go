// Copyright 2024 dataprep Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataset

import (
	"github.com/zhenghaoz/dataprep/base"
	"github.com/zhenghaoz/dataprep/cache"
)

const (
	SplitDefault = "default"
	SplitRandom  = "random"
	SplitIndices = "indices"

	// DefaultSeed is the documented default of RandomSplit. Every call with
	// the same seed, count and fraction reproduces the same partition.
	DefaultSeed = 42
	// DefaultFraction of examples kept on the training plus validation side.
	DefaultFraction = 0.9
)

// resolveSplitMethod makes "default" an explicit function of the entity's own
// configuration: sources with canonical split ranges use them, everything
// else is split randomly.
func resolveSplitMethod(method string, hasIndices bool) string {
	if method == SplitDefault || method == "" {
		if hasIndices {
			return SplitIndices
		}
		return SplitRandom
	}
	return method
}

// RandomSplit partitions the indices 0..m-1 into training, validation and
// test subsets by a seeded permutation. floor(fraction*m) examples go to
// training plus validation, of which floor(fraction*that) are training. The
// three sets are disjoint and exhaustive.
func RandomSplit(m int, fraction float64, seed int64) (training, validation, test []int) {
	rng := base.NewRandomGenerator(seed)
	perm := rng.Perm(m)
	trainingValidation := int(fraction * float64(m))
	trainingCount := int(fraction * float64(trainingValidation))
	return perm[:trainingCount], perm[trainingCount:trainingValidation], perm[trainingValidation:]
}

// IndexSplit partitions by externally supplied ranges. Training and test
// ranges are taken verbatim; when the source supplies no validation range one
// is carved out of the tail of a fraction-sized training prefix, using the
// same floor arithmetic as RandomSplit.
func IndexSplit(splitIndices map[string]cache.Range, fraction float64) (training, validation, test []int) {
	trainingRange := splitIndices["training"]
	testRange := splitIndices["test"]
	if validationRange, ok := splitIndices["validation"]; ok {
		return rangeIndices(trainingRange), rangeIndices(validationRange), rangeIndices(testRange)
	}
	trainingValidation := trainingRange.End
	trainingCount := int(fraction * float64(trainingValidation))
	return rangeIndices(cache.Range{Begin: 0, End: trainingCount}),
		rangeIndices(cache.Range{Begin: trainingCount, End: trainingValidation}),
		rangeIndices(testRange)
}

func rangeIndices(r cache.Range) []int {
	indices := make([]int, 0, r.Len())
	for i := r.Begin; i < r.End; i++ {
		indices = append(indices, i)
	}
	return indices
}

// takeRows gathers the selected rows of a matrix.
func takeRows(values [][]float32, indices []int) [][]float32 {
	if values == nil {
		return nil
	}
	out := make([][]float32, len(indices))
	for i, index := range indices {
		out[i] = values[index]
	}
	return out
}

// takeStrings gathers the selected elements of a string vector.
func takeStrings(values []string, indices []int) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(indices))
	for i, index := range indices {
		out[i] = values[index]
	}
	return out
}

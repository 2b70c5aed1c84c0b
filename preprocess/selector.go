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

package preprocess

import (
	"github.com/samber/lo"

	"github.com/zhenghaoz/dataprep/cache"
	"github.com/zhenghaoz/dataprep/weights"
)

const (
	SelectionNone        = "none"
	SelectionRemoveZeros = "remove-zeros"
	// SelectionLowGini retains the features whose Gini coefficient exceeds
	// giniThreshold. Despite the name this keeps the high-inequality
	// features; the observed behavior is preserved as-is because the
	// configuration tag is part of every cache key built from it.
	SelectionLowGini = "low-gini-indices"

	giniThreshold = 0.1

	// OriginalVariant is the variant the selection mask is computed from.
	OriginalVariant = "original"
)

// Select reduces the feature axis of every variant matrix according to the
// named policy and drops the corresponding feature names, keeping all
// variants column-aligned. The mask is always derived from the "original"
// variant. The key is used to cache Gini weights for the weight-based policy.
func Select(variants map[string][][]float32, featureNames []string, policy string,
	key cache.Key) (map[string][][]float32, []string, error) {
	original := variants[OriginalVariant]

	var mask []bool
	switch policy {
	case SelectionRemoveZeros:
		mask = nonZeroColumns(original)
	case SelectionLowGini:
		gini, err := weights.ComputeOrLoad(weights.MethodGini, original, key)
		if err != nil {
			return nil, nil, err
		}
		mask = lo.Map(gini, func(g float32, _ int) bool { return g > giniThreshold })
	default:
		// "none", empty, or an unrecognized tag keep every feature
		return variants, featureNames, nil
	}

	selected := make(map[string][][]float32, len(variants))
	for version, values := range variants {
		selected[version] = selectColumns(values, mask)
	}
	selectedNames := lo.Filter(featureNames, func(_ string, j int) bool { return mask[j] })
	return selected, selectedNames, nil
}

// nonZeroColumns masks the features whose column sum is exactly zero.
func nonZeroColumns(values [][]float32) []bool {
	if len(values) == 0 {
		return nil
	}
	sums := make([]float32, len(values[0]))
	for _, row := range values {
		for j, v := range row {
			sums[j] += v
		}
	}
	mask := make([]bool, len(sums))
	for j, sum := range sums {
		mask[j] = sum != 0
	}
	return mask
}

func selectColumns(values [][]float32, mask []bool) [][]float32 {
	out := make([][]float32, len(values))
	for i, row := range values {
		kept := make([]float32, 0, len(row))
		for j, v := range row {
			if mask[j] {
				kept = append(kept, v)
			}
		}
		out[i] = kept
	}
	return out
}

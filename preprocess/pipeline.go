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

// Package preprocess transforms and reduces dense examples-by-features
// matrices ahead of modeling.
package preprocess

import (
	"go.uber.org/zap"

	"github.com/zhenghaoz/dataprep/base/log"
	"github.com/zhenghaoz/dataprep/cache"
	"github.com/zhenghaoz/dataprep/floats"
	"github.com/zhenghaoz/dataprep/weights"
)

const (
	MethodBinarise  = "binarise"
	MethodGini      = weights.MethodGini
	MethodIDF       = weights.MethodIDF
	MethodNormalise = "normalise"
)

// Apply runs the named transforms over the matrix from left to right. Order
// matters: the methods do not commute and each one consumes the output of the
// previous one. The gini and idf methods cache their weight vectors under the
// given key independently of any enclosing cache entry. An unrecognized
// method is an identity transform, not an error.
func Apply(values [][]float32, methods []string, key cache.Key) ([][]float32, error) {
	for _, method := range methods {
		switch method {
		case MethodBinarise:
			values = binarise(values)
		case MethodGini, MethodIDF:
			vector, err := weights.ComputeOrLoad(method, values, key)
			if err != nil {
				return nil, err
			}
			values = applyWeights(values, vector)
		case MethodNormalise:
			values = normalise(values)
		default:
			log.Logger().Warn("unknown preprocessing method ignored",
				zap.String("method", method))
		}
	}
	return values, nil
}

// binarise replaces every nonzero entry with one.
func binarise(values [][]float32) [][]float32 {
	out := make([][]float32, len(values))
	for i, row := range values {
		out[i] = make([]float32, len(row))
		for j, v := range row {
			if v != 0 {
				out[i][j] = 1
			}
		}
	}
	return out
}

// applyWeights scales every feature column by its weight.
func applyWeights(values [][]float32, vector []float32) [][]float32 {
	out := floats.Clone(values)
	for _, row := range out {
		floats.Mul(row, vector)
	}
	return out
}

// normalise scales every example row to unit Euclidean norm. Zero rows are
// left untouched.
func normalise(values [][]float32) [][]float32 {
	out := floats.Clone(values)
	for _, row := range out {
		if norm := floats.Norm(row); norm > 0 {
			floats.MulConst(row, 1/norm)
		}
	}
	return out
}

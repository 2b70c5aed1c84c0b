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

// Package weights computes per-feature weight vectors over a dense
// examples-by-features matrix.
package weights

import (
	"slices"
	"time"

	"github.com/chewxy/math32"
	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/zhenghaoz/dataprep/base"
	"github.com/zhenghaoz/dataprep/base/log"
	"github.com/zhenghaoz/dataprep/cache"
	"github.com/zhenghaoz/dataprep/floats"
)

const (
	MethodGini = "gini"
	MethodIDF  = "idf"

	// DefaultEpsilon is the lower clip applied before Gini normalization,
	// since a zero column sum would divide by zero.
	DefaultEpsilon = 1e-16
	// DefaultBatchSize bounds how many feature columns are processed at
	// once. It limits peak memory only, there is no parallelism.
	DefaultBatchSize = 5000
)

// Gini computes the Gini coefficient of every feature column with default
// epsilon and batch size. A uniform column yields a coefficient of zero, an
// extremely concentrated column approaches one.
func Gini(values [][]float32) []float32 {
	return GiniBatch(values, DefaultEpsilon, DefaultBatchSize)
}

// GiniBatch computes per-feature Gini coefficients:
//
//	g(j) = sum_r (2r - M - 1) * sorted(normalized(column j))[r] / M
//
// where rank r runs from 1 to M and each column is clipped to at least
// epsilon and normalized to sum to one before sorting ascending.
func GiniBatch(values [][]float32, epsilon float32, batchSize int) []float32 {
	m := len(values)
	if m == 0 {
		return nil
	}
	n := len(values[0])
	index := make([]float32, m)
	for r := 0; r < m; r++ {
		index[r] = float32(2*(r+1) - m - 1)
	}
	coefficients := make([]float32, n)
	column := make([]float32, m)
	for begin := 0; begin < n; begin += batchSize {
		end := min(begin+batchSize, n)
		for j := begin; j < end; j++ {
			var sum float32
			for i := 0; i < m; i++ {
				v := values[i][j]
				if v < epsilon {
					v = epsilon
				}
				column[i] = v
				sum += v
			}
			floats.MulConst(column, 1/sum)
			slices.Sort(column)
			coefficients[j] = floats.Dot(index, column) / float32(m)
		}
	}
	return coefficients
}

// IDF computes the inverse document frequency of every feature:
//
//	idf(j) = ln(M / (df(j) + 1))
//
// where df(j) counts the examples with a nonzero value for feature j.
func IDF(values [][]float32) []float32 {
	m := len(values)
	if m == 0 {
		return nil
	}
	n := len(values[0])
	idf := make([]float32, n)
	for j := 0; j < n; j++ {
		var frequency int
		for i := 0; i < m; i++ {
			if values[i][j] > 0 {
				frequency++
			}
		}
		idf[j] = math32.Log(float32(m) / float32(frequency+1))
	}
	return idf
}

// ComputeOrLoad returns the weight vector for a method, loading it from an
// independent cache entry when one is valid and computing and persisting it
// otherwise. A corrupt cache entry is recomputed and overwritten.
func ComputeOrLoad(method string, values [][]float32, key cache.Key) ([]float32, error) {
	weightsKey := key.WithSuffix(method + "-weights")
	if cache.Exists(weightsKey) {
		archive, err := cache.Load(weightsKey)
		if err == nil {
			return archive.Flat["weights"].Vector, nil
		}
		log.Logger().Warn("discarding unreadable weights cache",
			zap.String("path", weightsKey.Path()), zap.Error(err))
	}
	start := time.Now()
	var vector []float32
	switch method {
	case MethodGini:
		vector = Gini(values)
	case MethodIDF:
		vector = IDF(values)
	default:
		return nil, errors.NotSupportedf("weighting method %q", method)
	}
	log.Logger().Info("computed feature weights",
		zap.String("method", method),
		zap.Int("features", len(vector)),
		zap.String("duration", base.FormatDuration(time.Since(start))))
	if err := cache.Save(cache.Archive{Flat: cache.Bundle{"weights": cache.VectorValue(vector)}}, weightsKey); err != nil {
		return nil, errors.Trace(err)
	}
	return vector, nil
}

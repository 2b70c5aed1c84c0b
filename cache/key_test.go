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

package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyPath(t *testing.T) {
	key := Key{Dir: "data", Name: "MNIST"}
	assert.Equal(t, filepath.Join("data", "mnist.sparse.gz"), key.Path())

	key.FeatureSelection = "remove zeros"
	key.PreprocessingMethods = []string{"binarise", "normalise"}
	key.SplitMethod = "random"
	key.SplitFraction = 0.9
	assert.Equal(t,
		filepath.Join("data", "mnist-remove_zeros-binarise-normalise-split-random-0.9.sparse.gz"),
		key.Path())
}

func TestKeyPathDeterministic(t *testing.T) {
	a := Key{Dir: "d", Name: "reuters", PreprocessingMethods: []string{"idf", "normalise"}}
	b := Key{Dir: "d", Name: "reuters", PreprocessingMethods: []string{"idf", "normalise"}}
	assert.Equal(t, a.Path(), b.Path())
}

func TestKeyPathOrderSensitive(t *testing.T) {
	// preprocessing composes non-commutatively, the path must encode order
	a := Key{Dir: "d", Name: "reuters", PreprocessingMethods: []string{"binarise", "normalise"}}
	b := Key{Dir: "d", Name: "reuters", PreprocessingMethods: []string{"normalise", "binarise"}}
	assert.NotEqual(t, a.Path(), b.Path())
}

func TestKeyPathOmitsAbsentParts(t *testing.T) {
	key := Key{Dir: "d", Name: "reuters", SplitMethod: "indices"}
	assert.Equal(t, filepath.Join("d", "reuters-split-indices.sparse.gz"), key.Path())
	assert.NotContains(t, key.Path(), "none")
	assert.NotContains(t, key.Path(), "<")
}

func TestKeyWithSuffix(t *testing.T) {
	key := Key{Dir: "d", Name: "reuters", PreprocessingMethods: []string{"idf"}}
	weights := key.WithSuffix("idf-weights")
	assert.Equal(t, filepath.Join("d", "reuters-idf-weights.sparse.gz"), weights.Path())
}

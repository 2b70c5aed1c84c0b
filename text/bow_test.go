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

package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhenghaoz/dataprep/floats"
)

func TestBagOfWords(t *testing.T) {
	counts, vocabulary := BagOfWords([]string{"cat dog", "dog bird"})
	require.Equal(t, []string{"bird", "cat", "dog"}, vocabulary)
	require.Len(t, counts, 2)
	dog := 2
	assert.Equal(t, float32(1), counts[0][dog])
	assert.Equal(t, float32(1), counts[1][dog])
	assert.Equal(t, float32(2), floats.Sum(counts[0]))
	assert.Equal(t, float32(2), floats.Sum(counts[1]))
}

func TestBagOfWordsCounts(t *testing.T) {
	counts, vocabulary := BagOfWords([]string{"dog dog dog"})
	require.Equal(t, []string{"dog"}, vocabulary)
	assert.Equal(t, float32(3), counts[0][0])
}

func TestBagOfWordsDeterministic(t *testing.T) {
	corpus := []string{"delta alpha charlie", "bravo alpha", "echo delta"}
	_, first := BagOfWords(corpus)
	_, second := BagOfWords(corpus)
	assert.Equal(t, first, second)
	assert.IsNonDecreasing(t, first)
}

func TestTokenizeDigits(t *testing.T) {
	tokens := Tokenize("sold 1,500 units for 12.5-percent margin")
	// every digit run collapses into the single placeholder stem
	assert.Equal(t, []string{"sold", "digit", "unit", "for", "digit", "percent", "margin"}, tokens)
}

func TestTokenizeStemming(t *testing.T) {
	assert.Equal(t, []string{"run", "quick"}, Tokenize("running quickly"))
	// apostrophes and hyphens stay inside a token
	tokens := Tokenize("don't over-react")
	assert.Len(t, tokens, 2)
}

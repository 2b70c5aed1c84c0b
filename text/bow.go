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

// Package text turns raw document corpora into term-document count matrices.
package text

import (
	"regexp"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/kljensen/snowball/english"
)

var (
	// maximal digit runs, optionally interleaved with separators, collapse
	// into one placeholder token
	digitPattern = regexp.MustCompile(`\d+[\d.,\-()+]*`)
	tokenPattern = regexp.MustCompile(`[\w'-]+`)
)

// digitToken replaces every number in a document before tokenization, so
// "12.5" and "1,000" land in the same vocabulary bucket.
const digitToken = " DIGIT "

// Tokenize lower-cases a document, collapses digit runs into the placeholder
// token, extracts maximal runs of word characters, apostrophes and hyphens,
// and stems every token.
func Tokenize(document string) []string {
	lower := strings.ToLower(document)
	lower = digitPattern.ReplaceAllString(lower, digitToken)
	words := tokenPattern.FindAllString(lower, -1)
	for i, word := range words {
		words[i] = english.Stem(word, true)
	}
	return words
}

// BagOfWords tokenizes a corpus and accumulates an examples-by-terms count
// matrix. The vocabulary holds every distinct stem across the corpus, with
// column indices assigned in lexicographic order so the output is
// reproducible and cache-stable.
func BagOfWords(documents []string) ([][]float32, []string) {
	stems := make([][]string, len(documents))
	distinct := mapset.NewThreadUnsafeSet[string]()
	for i, document := range documents {
		stems[i] = Tokenize(document)
		distinct.Append(stems[i]...)
	}

	vocabulary := distinct.ToSlice()
	sort.Strings(vocabulary)
	columns := make(map[string]int, len(vocabulary))
	for j, stem := range vocabulary {
		columns[stem] = j
	}

	counts := make([][]float32, len(documents))
	for i, words := range stems {
		counts[i] = make([]float32, len(vocabulary))
		for _, word := range words {
			counts[i][columns[word]]++
		}
	}
	return counts, vocabulary
}

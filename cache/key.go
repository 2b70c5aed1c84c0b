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
	"strconv"
	"strings"

	"github.com/zhenghaoz/dataprep/base"
)

// Extension is the suffix of every cache file.
const Extension = ".sparse.gz"

// Key identifies one processing configuration of a dataset. Its path encodes
// every component that changes the cached content, so two configurations that
// differ anywhere, including the order of preprocessing methods, never share
// a file.
type Key struct {
	Dir                  string
	Name                 string
	Suffix               string
	FeatureSelection     string
	PreprocessingMethods []string
	SplitMethod          string
	SplitFraction        float64
}

// WithSuffix returns a copy of the key with only the base name and the given
// suffix, used for independently cached artifacts such as weight vectors.
func (k Key) WithSuffix(suffix string) Key {
	return Key{Dir: k.Dir, Name: k.Name, Suffix: suffix}
}

// Path builds the cache file path. Absent optional components are omitted
// entirely, never replaced by placeholders.
func (k Key) Path() string {
	parts := []string{base.NormalizeName(k.Name)}
	if k.Suffix != "" {
		parts = append(parts, base.NormalizeName(k.Suffix))
	}
	if k.FeatureSelection != "" {
		parts = append(parts, base.NormalizeName(k.FeatureSelection))
	}
	for _, method := range k.PreprocessingMethods {
		parts = append(parts, base.NormalizeName(method))
	}
	if k.SplitMethod != "" {
		parts = append(parts, "split", base.NormalizeName(k.SplitMethod))
		if k.SplitFraction != 0 {
			parts = append(parts, strconv.FormatFloat(k.SplitFraction, 'g', -1, 64))
		}
	}
	return filepath.Join(k.Dir, strings.Join(parts, "-")+Extension)
}

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
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	key := Key{Dir: t.TempDir(), Name: "roundtrip"}
	matrix := [][]float32{{0, 1}, {2, 0}, {0, 0}}
	archive := Archive{Flat: Bundle{
		"x":      MatrixValue(matrix),
		"labels": StringsValue([]string{"a", "b", "c"}),
		"w":      VectorValue([]float32{0.5, -1}),
	}}
	require.NoError(t, Save(archive, key))
	assert.True(t, Exists(key))

	loaded, err := Load(key)
	require.NoError(t, err)
	assert.Equal(t, matrix, loaded.Flat["x"].Matrix)
	assert.Equal(t, []string{"a", "b", "c"}, loaded.Flat["labels"].Strings)
	assert.Equal(t, []float32{0.5, -1}, loaded.Flat["w"].Vector)
}

func TestSaveLoadGroups(t *testing.T) {
	key := Key{Dir: t.TempDir(), Name: "groups", SplitMethod: "random", SplitFraction: 0.9}
	archive := Archive{
		Groups: map[string]Bundle{
			"training set": {
				"values": MatrixValue([][]float32{{1, 0}, {0, 2}}),
				"labels": StringsValue([]string{"a", "b"}),
			},
			"test set": {
				"values": MatrixValue([][]float32{{0, 0}}),
				"labels": StringsValue([]string{"c"}),
			},
		},
	}
	require.NoError(t, Save(archive, key))
	loaded, err := Load(key)
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 0}, {0, 2}}, loaded.Groups["training set"]["values"].Matrix)
	assert.Equal(t, [][]float32{{0, 0}}, loaded.Groups["test set"]["values"].Matrix)
	assert.Equal(t, []string{"c"}, loaded.Groups["test set"]["labels"].Strings)
}

func TestSaveLoadRanges(t *testing.T) {
	key := Key{Dir: t.TempDir(), Name: "ranges"}
	ranges := map[string]Range{
		"training": {Begin: 0, End: 60},
		"test":     {Begin: 60, End: 70},
	}
	require.NoError(t, Save(Archive{Flat: Bundle{"split indices": RangesValue(ranges)}}, key))
	loaded, err := Load(key)
	require.NoError(t, err)
	assert.Equal(t, ranges, loaded.Flat["split indices"].Ranges)
	assert.Equal(t, 60, loaded.Flat["split indices"].Ranges["training"].Len())
}

func TestLoadCorrupt(t *testing.T) {
	key := Key{Dir: t.TempDir(), Name: "corrupt"}
	require.NoError(t, os.WriteFile(key.Path(), []byte("not a gzip stream"), 0644))
	_, err := Load(key)
	assert.ErrorIs(t, err, ErrCacheCorrupt)
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	key := Key{Dir: dir, Name: "atomic"}
	require.NoError(t, Save(Archive{Flat: Bundle{"x": MatrixValue([][]float32{{1}})}}, key))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "atomic.sparse.gz", entries[0].Name())
}

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
	"compress/gzip"
	"encoding/gob"
	std_errors "errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/juju/errors"
)

// ErrCacheCorrupt reports a cache file whose content cannot be decoded.
// Callers treat it the same as a missing file: recompute and overwrite.
var ErrCacheCorrupt = std_errors.New("cache file corrupt")

// Range is a half-open index interval [Begin, End).
type Range struct {
	Begin int
	End   int
}

// Len returns the number of indices covered by the range.
func (r Range) Len() int {
	return r.End - r.Begin
}

// Value is one named entry of a cache archive. Exactly one field is set.
type Value struct {
	Matrix  [][]float32
	Vector  []float32
	Strings []string
	Ranges  map[string]Range
}

// MatrixValue wraps a dense matrix.
func MatrixValue(m [][]float32) Value { return Value{Matrix: m} }

// VectorValue wraps a numeric vector.
func VectorValue(v []float32) Value { return Value{Vector: v} }

// StringsValue wraps a string vector.
func StringsValue(s []string) Value { return Value{Strings: s} }

// RangesValue wraps a split-name to index-range mapping.
func RangesValue(r map[string]Range) Value { return Value{Ranges: r} }

// Bundle is a flat mapping of logical names to values.
type Bundle map[string]Value

// Archive is the unit persisted by the store. Flat entries and named groups
// are kept apart explicitly instead of being told apart by key substrings.
type Archive struct {
	Flat   Bundle
	Groups map[string]Bundle
}

// Compressed sparse row form of a dense matrix. Only nonzero entries and
// their positions are stored.
type csrMatrix struct {
	Rows   int
	Cols   int
	RowPtr []int64
	ColInd []int32
	Data   []float32
}

type storedValue struct {
	Sparse  *csrMatrix
	Vector  []float32
	Strings []string
	Ranges  map[string]Range
}

type storedArchive struct {
	Flat   map[string]storedValue
	Groups map[string]map[string]storedValue
}

func toSparse(m [][]float32) *csrMatrix {
	rows := len(m)
	cols := 0
	if rows > 0 {
		cols = len(m[0])
	}
	sparse := &csrMatrix{
		Rows:   rows,
		Cols:   cols,
		RowPtr: make([]int64, rows+1),
	}
	for i, row := range m {
		for j, v := range row {
			if v != 0 {
				sparse.ColInd = append(sparse.ColInd, int32(j))
				sparse.Data = append(sparse.Data, v)
			}
		}
		sparse.RowPtr[i+1] = int64(len(sparse.Data))
	}
	return sparse
}

func toDense(sparse *csrMatrix) [][]float32 {
	m := make([][]float32, sparse.Rows)
	for i := range m {
		m[i] = make([]float32, sparse.Cols)
		for p := sparse.RowPtr[i]; p < sparse.RowPtr[i+1]; p++ {
			m[i][sparse.ColInd[p]] = sparse.Data[p]
		}
	}
	return m
}

func encodeBundle(bundle Bundle) map[string]storedValue {
	stored := make(map[string]storedValue, len(bundle))
	for name, value := range bundle {
		if value.Matrix != nil {
			stored[name] = storedValue{Sparse: toSparse(value.Matrix)}
		} else {
			stored[name] = storedValue{
				Vector:  value.Vector,
				Strings: value.Strings,
				Ranges:  value.Ranges,
			}
		}
	}
	return stored
}

func decodeBundle(stored map[string]storedValue) Bundle {
	bundle := make(Bundle, len(stored))
	for name, value := range stored {
		if value.Sparse != nil {
			bundle[name] = Value{Matrix: toDense(value.Sparse)}
		} else {
			bundle[name] = Value{
				Vector:  value.Vector,
				Strings: value.Strings,
				Ranges:  value.Ranges,
			}
		}
	}
	return bundle
}

// Exists reports whether a cache file is present at the key's path.
func Exists(key Key) bool {
	_, err := os.Stat(key.Path())
	return err == nil
}

// Save persists an archive at the key's path. Dense matrices are converted to
// sparse row encoding and the whole archive is gob-encoded and gzipped. The
// file is written to a temporary path and renamed so a partially written file
// is never mistaken for a valid cache entry.
func Save(archive Archive, key Key) error {
	path := key.Path()
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return errors.Trace(err)
	}
	temp := path + ".tmp"
	f, err := os.Create(temp)
	if err != nil {
		return errors.Trace(err)
	}
	stored := storedArchive{Flat: encodeBundle(archive.Flat)}
	if archive.Groups != nil {
		stored.Groups = make(map[string]map[string]storedValue, len(archive.Groups))
		for name, bundle := range archive.Groups {
			stored.Groups[name] = encodeBundle(bundle)
		}
	}
	w := gzip.NewWriter(f)
	if err = gob.NewEncoder(w).Encode(stored); err != nil {
		_ = f.Close()
		_ = os.Remove(temp)
		return errors.Trace(err)
	}
	if err = w.Close(); err != nil {
		_ = f.Close()
		_ = os.Remove(temp)
		return errors.Trace(err)
	}
	if err = f.Close(); err != nil {
		_ = os.Remove(temp)
		return errors.Trace(err)
	}
	return errors.Trace(os.Rename(temp, path))
}

// Load reads an archive back from the key's path, reconstituting every
// sparse-encoded matrix to dense form. An unreadable or undecodable file
// yields ErrCacheCorrupt.
func Load(key Key) (Archive, error) {
	f, err := os.Open(key.Path())
	if err != nil {
		return Archive{}, errors.Trace(err)
	}
	defer f.Close()
	r, err := gzip.NewReader(f)
	if err != nil {
		return Archive{}, fmt.Errorf("%w: %v", ErrCacheCorrupt, err)
	}
	var stored storedArchive
	if err = gob.NewDecoder(r).Decode(&stored); err != nil {
		return Archive{}, fmt.Errorf("%w: %v", ErrCacheCorrupt, err)
	}
	archive := Archive{Flat: decodeBundle(stored.Flat)}
	if stored.Groups != nil {
		archive.Groups = make(map[string]Bundle, len(stored.Groups))
		for name, bundle := range stored.Groups {
			archive.Groups[name] = decodeBundle(bundle)
		}
	}
	return archive, nil
}

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

// Package dataset acquires raw datasets, caches them in a uniform numeric
// matrix form, and drives the load, preprocess and split lifecycle.
package dataset

import (
	std_errors "errors"

	"github.com/zhenghaoz/dataprep/base"
	"github.com/zhenghaoz/dataprep/cache"
)

var (
	// ErrDatasetNotFound reports a dataset name that no registry entry
	// resolves. Fatal, never retried.
	ErrDatasetNotFound = std_errors.New("dataset not found")
	// ErrDimensionMismatch reports a raw loader result whose value, label
	// and name shapes disagree. Fatal, never retried.
	ErrDimensionMismatch = std_errors.New("dimension mismatch")
)

// Raw is the bundle a raw loader returns: a dense values matrix with aligned
// labels and names, plus canonical split ranges when the source defines them.
type Raw struct {
	Values       [][]float32
	Labels       []string
	ExampleNames []string
	FeatureNames []string
	SplitIndices map[string]cache.Range
}

// RawLoader parses downloaded resource files into a Raw bundle. The paths
// argument maps resource category (e.g. "values", "labels", "all") to kind
// (e.g. "full", "training", "test") to a resolved local file. Parse failures
// propagate unmodified.
type RawLoader interface {
	Load(paths map[string]map[string]string) (*Raw, error)
}

// Source describes where a dataset comes from and how to parse it.
type Source struct {
	Title  string
	URLs   map[string]map[string]string // category -> kind -> URL
	Loader RawLoader
}

// Registry resolves dataset names to sources. It is constructed once and
// passed to NewDataset explicitly instead of living in package state.
type Registry struct {
	sources []Source
}

// NewRegistry creates a registry holding the built-in dataset sources.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(Source{
		Title: "Mouse Retina",
		URLs: map[string]map[string]string{
			"values": {
				"full": "https://ftp.ncbi.nlm.nih.gov/geo/series/GSE63nnn/GSE63472/suppl/GSE63472_P14Retina_merged_digital_expression.txt.gz",
			},
			"labels": {
				"full": "http://mccarrolllab.com/wp-content/uploads/2015/05/retina_clusteridentities.txt",
			},
		},
		Loader: &TabularLoader{},
	})
	r.Register(Source{
		Title: "MNIST",
		URLs: map[string]map[string]string{
			"values": {
				"training": "http://yann.lecun.com/exdb/mnist/train-images-idx3-ubyte.gz",
				"test":     "http://yann.lecun.com/exdb/mnist/t10k-images-idx3-ubyte.gz",
			},
			"labels": {
				"training": "http://yann.lecun.com/exdb/mnist/train-labels-idx1-ubyte.gz",
				"test":     "http://yann.lecun.com/exdb/mnist/t10k-labels-idx1-ubyte.gz",
			},
		},
		Loader: &IndexedImageLoader{},
	})
	r.Register(Source{
		Title: "Reuters",
		URLs: map[string]map[string]string{
			"all": {
				"full": "http://www.daviddlewis.com/resources/testcollections/reuters21578/reuters21578.tar.gz",
			},
		},
		Loader: &TaggedCorpusLoader{},
	})
	r.Register(Source{
		Title: "20 Newsgroups",
		URLs: map[string]map[string]string{
			"all": {
				"full": "http://qwone.com/~jason/20Newsgroups/20news-bydate.tar.gz",
			},
		},
		Loader: &NewsgroupsLoader{},
	})
	return r
}

// Register appends a source. Later registrations shadow earlier ones with
// the same normalized title.
func (r *Registry) Register(source Source) {
	r.sources = append([]Source{source}, r.sources...)
}

// Lookup resolves a dataset name, matching on the normalized form, and
// returns the source with its canonical title.
func (r *Registry) Lookup(name string) (*Source, error) {
	normalized := base.NormalizeName(name)
	for i := range r.sources {
		if base.NormalizeName(r.sources[i].Title) == normalized {
			return &r.sources[i], nil
		}
	}
	return nil, ErrDatasetNotFound
}

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

package dataset

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/zhenghaoz/dataprep/base"
	"github.com/zhenghaoz/dataprep/base/log"
	"github.com/zhenghaoz/dataprep/cache"
	"github.com/zhenghaoz/dataprep/datautil"
	"github.com/zhenghaoz/dataprep/preprocess"
)

// Kind distinguishes a full dataset from the subsets produced by Split.
type Kind string

const (
	KindFull       Kind = "full"
	KindTraining   Kind = "training"
	KindValidation Kind = "validation"
	KindTest       Kind = "test"
)

const (
	// VersionOriginal tags values as loaded from the source.
	VersionOriginal = "original"

	preprocessSuffix = "preprocessed"
	originalSuffix   = "original"

	// DefaultDirectory is the root below which per-dataset directories live.
	DefaultDirectory = "data"
)

// Config is the configuration surface of a dataset entity.
type Config struct {
	FeatureSelection     string   // empty means no selection is configured
	PreprocessingMethods []string // applied in order, order is significant
	Directory            string   // root data directory, DefaultDirectory when empty
	Seed                 int64    // random split seed, DefaultSeed when zero
}

// Dataset is the canonical in-memory representation of one dataset: a dense
// examples-by-features values matrix with aligned labels and names, plus the
// processing configuration that keys its cache entries.
type Dataset struct {
	name  string
	title string

	registry *Registry

	values             [][]float32
	preprocessedValues [][]float32
	labels             []string
	exampleNames       []string
	featureNames       []string

	featureSelection     string
	preprocessingMethods []string

	kind         Kind
	splitIndices map[string]cache.Range
	version      string
	seed         int64

	directory           string
	preprocessDirectory string
	originalDirectory   string
}

// NewDataset creates an empty full dataset entity for a registered dataset
// name. The registry is consulted immediately: an unknown name fails with
// ErrDatasetNotFound before any I/O happens.
func NewDataset(registry *Registry, name string, config Config) (*Dataset, error) {
	source, err := registry.Lookup(name)
	if err != nil {
		return nil, err
	}
	d := &Dataset{
		name:                 base.NormalizeName(name),
		title:                source.Title,
		registry:             registry,
		featureSelection:     config.FeatureSelection,
		preprocessingMethods: config.PreprocessingMethods,
		kind:                 KindFull,
		version:              VersionOriginal,
		seed:                 config.Seed,
	}
	if d.seed == 0 {
		d.seed = DefaultSeed
	}
	root := config.Directory
	if root == "" {
		root = DefaultDirectory
	}
	d.directory = filepath.Join(root, d.name)
	d.preprocessDirectory = filepath.Join(d.directory, preprocessSuffix)
	d.originalDirectory = filepath.Join(d.directory, originalSuffix)
	return d, nil
}

func (d *Dataset) Name() string  { return d.name }
func (d *Dataset) Title() string { return d.title }
func (d *Dataset) Kind() Kind    { return d.kind }

func (d *Dataset) Values() [][]float32             { return d.values }
func (d *Dataset) PreprocessedValues() [][]float32 { return d.preprocessedValues }
func (d *Dataset) Labels() []string                { return d.labels }
func (d *Dataset) ExampleNames() []string          { return d.exampleNames }
func (d *Dataset) FeatureNames() []string          { return d.featureNames }

// NumExamples returns the number of rows of the values matrix.
func (d *Dataset) NumExamples() int { return len(d.values) }

// NumFeatures returns the number of columns of the values matrix.
func (d *Dataset) NumFeatures() int { return len(d.featureNames) }

func (d *Dataset) baseKey() cache.Key {
	return cache.Key{Dir: d.preprocessDirectory, Name: d.name}
}

func (d *Dataset) fullKey() cache.Key {
	key := d.baseKey()
	key.FeatureSelection = d.featureSelection
	key.PreprocessingMethods = d.preprocessingMethods
	return key
}

// Load populates values, labels and names, from the cache when a valid entry
// exists and from the registered source otherwise, writing freshly loaded
// data back to the cache. Loading is a no-op when values are already present,
// which holds for the children produced by Split.
func (d *Dataset) Load() error {
	if d.values != nil {
		return nil
	}
	start := time.Now()
	key := d.baseKey()
	if cache.Exists(key) {
		archive, err := cache.Load(key)
		if err == nil {
			d.applyFlat(archive.Flat)
			log.Logger().Info("loaded dataset from cache",
				zap.String("dataset", d.name),
				zap.String("duration", base.FormatDuration(time.Since(start))))
			return nil
		}
		log.Logger().Warn("discarding unreadable dataset cache",
			zap.String("path", key.Path()), zap.Error(err))
	}

	source, err := d.registry.Lookup(d.name)
	if err != nil {
		return err
	}
	paths, err := d.download(source)
	if err != nil {
		return err
	}
	raw, err := source.Loader.Load(paths)
	if err != nil {
		return errors.Trace(err)
	}
	if err = validateShapes(raw); err != nil {
		return err
	}
	d.values = raw.Values
	d.labels = raw.Labels
	d.exampleNames = raw.ExampleNames
	d.featureNames = raw.FeatureNames
	d.splitIndices = raw.SplitIndices

	flat := cache.Bundle{
		"values":        cache.MatrixValue(d.values),
		"labels":        cache.StringsValue(d.labels),
		"example names": cache.StringsValue(d.exampleNames),
		"feature names": cache.StringsValue(d.featureNames),
	}
	if d.splitIndices != nil {
		flat["split indices"] = cache.RangesValue(d.splitIndices)
	}
	if err = cache.Save(cache.Archive{Flat: flat}, key); err != nil {
		return errors.Trace(err)
	}
	log.Logger().Info("loaded dataset from source",
		zap.String("dataset", d.name),
		zap.Int("examples", d.NumExamples()),
		zap.Int("features", d.NumFeatures()),
		zap.String("duration", base.FormatDuration(time.Since(start))))
	return nil
}

func (d *Dataset) applyFlat(flat cache.Bundle) {
	d.values = flat["values"].Matrix
	d.labels = flat["labels"].Strings
	d.exampleNames = flat["example names"].Strings
	d.featureNames = flat["feature names"].Strings
	if value, exists := flat["split indices"]; exists {
		d.splitIndices = value.Ranges
	}
}

// download resolves every source URL to a local file below the original
// directory, fetching the ones that are not present yet.
func (d *Dataset) download(source *Source) (map[string]map[string]string, error) {
	paths := make(map[string]map[string]string, len(source.URLs))
	for category, kinds := range source.URLs {
		paths[category] = make(map[string]string, len(kinds))
		for kind, url := range kinds {
			filename := d.name + "-" + category + "-" + kind + datautil.Extension(url)
			path := filepath.Join(d.originalDirectory, filename)
			if err := datautil.Download(url, path); err != nil {
				return nil, errors.Trace(err)
			}
			paths[category][kind] = path
		}
	}
	return paths, nil
}

func validateShapes(raw *Raw) error {
	m := len(raw.Values)
	if len(raw.ExampleNames) != m {
		return fmt.Errorf("%w: %d example names for %d rows",
			ErrDimensionMismatch, len(raw.ExampleNames), m)
	}
	if len(raw.Labels) != m {
		return fmt.Errorf("%w: %d labels for %d rows",
			ErrDimensionMismatch, len(raw.Labels), m)
	}
	n := len(raw.FeatureNames)
	for i, row := range raw.Values {
		if len(row) != n {
			return fmt.Errorf("%w: row %d has %d values for %d feature names",
				ErrDimensionMismatch, i, len(row), n)
		}
	}
	return nil
}

// Preprocess populates the preprocessed values. With neither feature
// selection nor preprocessing methods configured the values pass through as
// they are and no cache entry is created. Otherwise the selected and
// preprocessed tuple is loaded from or computed into a cache entry keyed by
// the full configuration.
func (d *Dataset) Preprocess() error {
	if d.values == nil {
		return errors.Errorf("dataset %q is not loaded", d.name)
	}
	if len(d.preprocessingMethods) == 0 && d.featureSelection == "" {
		d.preprocessedValues = d.values
		return nil
	}
	start := time.Now()
	key := d.fullKey()
	if cache.Exists(key) {
		archive, err := cache.Load(key)
		if err == nil {
			d.values = archive.Flat["values"].Matrix
			d.preprocessedValues = archive.Flat["preprocessed values"].Matrix
			d.featureNames = archive.Flat["feature names"].Strings
			return nil
		}
		log.Logger().Warn("discarding unreadable preprocess cache",
			zap.String("path", key.Path()), zap.Error(err))
	}

	preprocessed := d.values
	if len(d.preprocessingMethods) > 0 {
		var err error
		preprocessed, err = preprocess.Apply(d.values, d.preprocessingMethods, d.baseKey())
		if err != nil {
			return err
		}
	}
	values := d.values
	featureNames := d.featureNames
	if d.featureSelection != "" {
		variants := map[string][][]float32{
			preprocess.OriginalVariant: d.values,
			"preprocessed":             preprocessed,
		}
		selected, selectedNames, err := preprocess.Select(
			variants, d.featureNames, d.featureSelection, d.baseKey())
		if err != nil {
			return err
		}
		values = selected[preprocess.OriginalVariant]
		preprocessed = selected["preprocessed"]
		featureNames = selectedNames
	}

	if err := cache.Save(cache.Archive{Flat: cache.Bundle{
		"values":              cache.MatrixValue(values),
		"preprocessed values": cache.MatrixValue(preprocessed),
		"feature names":       cache.StringsValue(featureNames),
	}}, key); err != nil {
		return errors.Trace(err)
	}
	d.values = values
	d.preprocessedValues = preprocessed
	d.featureNames = featureNames
	log.Logger().Info("preprocessed dataset",
		zap.String("dataset", d.name),
		zap.Strings("methods", d.preprocessingMethods),
		zap.String("feature_selection", d.featureSelection),
		zap.Int("features", d.NumFeatures()),
		zap.String("duration", base.FormatDuration(time.Since(start))))
	return nil
}

// Split partitions the examples into three child datasets of kind training,
// validation and test. The receiver is not mutated. The children share the
// feature names and the processing configuration but hold disjoint,
// exhaustive example subsets. The three subsets are cached together under a
// single key.
func (d *Dataset) Split(method string, fraction float64) (training, validation, test *Dataset, err error) {
	if d.values == nil {
		return nil, nil, nil, errors.Errorf("dataset %q is not loaded", d.name)
	}
	if fraction == 0 {
		fraction = DefaultFraction
	}
	method = resolveSplitMethod(method, d.splitIndices != nil)

	key := d.fullKey()
	key.SplitMethod = method
	key.SplitFraction = fraction

	var groups map[string]cache.Bundle
	if cache.Exists(key) {
		archive, err := cache.Load(key)
		if err == nil {
			groups = archive.Groups
		} else {
			log.Logger().Warn("discarding unreadable split cache",
				zap.String("path", key.Path()), zap.Error(err))
		}
	}
	if groups == nil {
		var trainingIndices, validationIndices, testIndices []int
		switch method {
		case SplitRandom:
			trainingIndices, validationIndices, testIndices =
				RandomSplit(d.NumExamples(), fraction, d.seed)
		case SplitIndices:
			trainingIndices, validationIndices, testIndices =
				IndexSplit(d.splitIndices, fraction)
		default:
			return nil, nil, nil, errors.NotSupportedf("split method %q", method)
		}
		groups = map[string]cache.Bundle{
			"training set":   d.subsetBundle(trainingIndices),
			"validation set": d.subsetBundle(validationIndices),
			"test set":       d.subsetBundle(testIndices),
		}
		if err = cache.Save(cache.Archive{Groups: groups}, key); err != nil {
			return nil, nil, nil, errors.Trace(err)
		}
	}

	training = d.child(KindTraining, groups["training set"])
	validation = d.child(KindValidation, groups["validation set"])
	test = d.child(KindTest, groups["test set"])
	log.Logger().Info("split dataset",
		zap.String("dataset", d.name),
		zap.String("method", method),
		zap.Int("features", training.NumFeatures()),
		zap.Int("training_examples", training.NumExamples()),
		zap.Int("validation_examples", validation.NumExamples()),
		zap.Int("test_examples", test.NumExamples()))
	return training, validation, test, nil
}

func (d *Dataset) subsetBundle(indices []int) cache.Bundle {
	bundle := cache.Bundle{
		"values":        cache.MatrixValue(takeRows(d.values, indices)),
		"labels":        cache.StringsValue(takeStrings(d.labels, indices)),
		"example names": cache.StringsValue(takeStrings(d.exampleNames, indices)),
	}
	if d.preprocessedValues != nil {
		bundle["preprocessed values"] = cache.MatrixValue(takeRows(d.preprocessedValues, indices))
	}
	return bundle
}

func (d *Dataset) child(kind Kind, bundle cache.Bundle) *Dataset {
	child := &Dataset{
		name:                 d.name,
		title:                d.title,
		registry:             d.registry,
		featureNames:         d.featureNames,
		featureSelection:     d.featureSelection,
		preprocessingMethods: d.preprocessingMethods,
		kind:                 kind,
		version:              d.version,
		seed:                 d.seed,
		directory:            d.directory,
		preprocessDirectory:  d.preprocessDirectory,
		originalDirectory:    d.originalDirectory,
	}
	child.values = bundle["values"].Matrix
	child.labels = bundle["labels"].Strings
	child.exampleNames = bundle["example names"].Strings
	if value, exists := bundle["preprocessed values"]; exists {
		child.preprocessedValues = value.Matrix
	}
	return child
}

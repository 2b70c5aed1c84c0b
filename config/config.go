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

package config

import (
	"strings"

	"github.com/juju/errors"
	"github.com/spf13/viper"

	"github.com/zhenghaoz/dataprep/dataset"
	"github.com/zhenghaoz/dataprep/preprocess"
)

// Config is the configuration for the preprocessing pipeline.
type Config struct {
	Data  DataConfig  `mapstructure:"data"`
	Split SplitConfig `mapstructure:"split"`
}

// DataConfig describes where datasets live and how their values are
// transformed before modelling.
type DataConfig struct {
	Directory            string   `mapstructure:"directory"`
	FeatureSelection     string   `mapstructure:"feature_selection"`
	PreprocessingMethods []string `mapstructure:"preprocessing_methods"`
}

// SplitConfig describes how examples are partitioned into subsets.
type SplitConfig struct {
	Method   string  `mapstructure:"method"`
	Fraction float64 `mapstructure:"fraction"`
	Seed     int64   `mapstructure:"seed"`
}

func GetDefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Directory:        dataset.DefaultDirectory,
			FeatureSelection: preprocess.SelectionNone,
		},
		Split: SplitConfig{
			Method:   dataset.SplitDefault,
			Fraction: dataset.DefaultFraction,
			Seed:     dataset.DefaultSeed,
		},
	}
}

func setDefault() {
	defaultConfig := GetDefaultConfig()
	viper.SetDefault("data.directory", defaultConfig.Data.Directory)
	viper.SetDefault("data.feature_selection", defaultConfig.Data.FeatureSelection)
	viper.SetDefault("split.method", defaultConfig.Split.Method)
	viper.SetDefault("split.fraction", defaultConfig.Split.Fraction)
	viper.SetDefault("split.seed", defaultConfig.Split.Seed)
}

// LoadConfig loads configuration from a toml file. Environment variables
// prefixed with DATAPREP_ override file values.
func LoadConfig(path string) (*Config, error) {
	setDefault()
	viper.SetConfigType("toml")
	viper.SetConfigFile(path)
	viper.SetEnvPrefix("dataprep")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		return nil, errors.Trace(err)
	}
	var conf Config
	if err := viper.Unmarshal(&conf); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Validate rejects option values outside their documented domains.
func (config *Config) Validate() error {
	switch config.Data.FeatureSelection {
	case preprocess.SelectionNone, preprocess.SelectionRemoveZeros, preprocess.SelectionLowGini:
	default:
		return errors.NotSupportedf("feature selection %q", config.Data.FeatureSelection)
	}
	switch config.Split.Method {
	case dataset.SplitDefault, dataset.SplitRandom, dataset.SplitIndices:
	default:
		return errors.NotSupportedf("split method %q", config.Split.Method)
	}
	if config.Split.Fraction <= 0 || config.Split.Fraction >= 1 {
		return errors.NotValidf("split fraction %v", config.Split.Fraction)
	}
	return nil
}

// DatasetConfig converts the data section into the options consumed by
// dataset construction. The explicit "none" selection maps to no selection
// at all so that it contributes nothing to cache keys.
func (config *Config) DatasetConfig() dataset.Config {
	selection := config.Data.FeatureSelection
	if selection == preprocess.SelectionNone {
		selection = ""
	}
	return dataset.Config{
		Directory:            config.Data.Directory,
		FeatureSelection:     selection,
		PreprocessingMethods: config.Data.PreprocessingMethods,
		Seed:                 config.Split.Seed,
	}
}

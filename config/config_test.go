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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhenghaoz/dataprep/dataset"
	"github.com/zhenghaoz/dataprep/preprocess"
)

func TestUnmarshal(t *testing.T) {
	text := `
[data]
directory = "/tmp/datasets"
feature_selection = "remove-zeros"
preprocessing_methods = ["binarise", "idf"]

[split]
method = "random"
fraction = 0.8
seed = 7
`
	setDefault()
	viper.SetConfigType("toml")
	err := viper.ReadConfig(strings.NewReader(text))
	require.NoError(t, err)
	var conf Config
	err = viper.Unmarshal(&conf)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/datasets", conf.Data.Directory)
	assert.Equal(t, preprocess.SelectionRemoveZeros, conf.Data.FeatureSelection)
	assert.Equal(t, []string{"binarise", "idf"}, conf.Data.PreprocessingMethods)
	assert.Equal(t, dataset.SplitRandom, conf.Split.Method)
	assert.Equal(t, 0.8, conf.Split.Fraction)
	assert.Equal(t, int64(7), conf.Split.Seed)
	assert.NoError(t, conf.Validate())
}

func TestSetDefault(t *testing.T) {
	setDefault()
	viper.SetConfigType("toml")
	err := viper.ReadConfig(strings.NewReader(""))
	require.NoError(t, err)
	var conf Config
	err = viper.Unmarshal(&conf)
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), &conf)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[split]\nfraction = 0.75\n"), 0644))
	conf, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0.75, conf.Split.Fraction)
	assert.Equal(t, dataset.SplitDefault, conf.Split.Method)
	assert.Equal(t, dataset.DefaultDirectory, conf.DatasetConfig().Directory)
}

func TestValidate(t *testing.T) {
	conf := GetDefaultConfig()
	conf.Data.FeatureSelection = "best-features"
	assert.Error(t, conf.Validate())

	conf = GetDefaultConfig()
	conf.Split.Method = "stratified"
	assert.Error(t, conf.Validate())

	conf = GetDefaultConfig()
	conf.Split.Fraction = 1.5
	assert.Error(t, conf.Validate())
}

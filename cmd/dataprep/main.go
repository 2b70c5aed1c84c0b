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

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zhenghaoz/dataprep/base/log"
	"github.com/zhenghaoz/dataprep/cmd/version"
	"github.com/zhenghaoz/dataprep/config"
	"github.com/zhenghaoz/dataprep/dataset"
)

var dataprepCommand = &cobra.Command{
	Use:   "dataprep DATASET",
	Short: "Load, preprocess and split datasets for modelling.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// Show version
		if showVersion, _ := cmd.PersistentFlags().GetBool("version"); showVersion {
			fmt.Println(version.BuildInfo())
			return
		}
		if len(args) == 0 {
			_ = cmd.Help()
			return
		}

		// setup logger
		debug, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.PersistentFlags(), debug)

		// load config
		conf := config.GetDefaultConfig()
		if configPath, _ := cmd.PersistentFlags().GetString("config"); configPath != "" {
			log.Logger().Info("load config", zap.String("config", configPath))
			var err error
			conf, err = config.LoadConfig(configPath)
			if err != nil {
				log.Logger().Fatal("failed to load config", zap.Error(err))
			}
		}
		overrideConfig(cmd, conf)
		if err := conf.Validate(); err != nil {
			log.Logger().Fatal("invalid config", zap.Error(err))
		}

		// prepare dataset
		registry := dataset.NewRegistry()
		d, err := dataset.NewDataset(registry, args[0], conf.DatasetConfig())
		if err != nil {
			log.Logger().Fatal("failed to create dataset", zap.Error(err))
		}
		if err = d.Load(); err != nil {
			log.Logger().Fatal("failed to load dataset", zap.Error(err))
		}
		if err = d.Preprocess(); err != nil {
			log.Logger().Fatal("failed to preprocess dataset", zap.Error(err))
		}
		training, validation, test, err := d.Split(conf.Split.Method, conf.Split.Fraction)
		if err != nil {
			log.Logger().Fatal("failed to split dataset", zap.Error(err))
		}

		fmt.Printf("%s (%s)\n", d.Title(), d.Name())
		fmt.Printf("    features:            %d\n", d.NumFeatures())
		fmt.Printf("    training examples:   %d\n", training.NumExamples())
		fmt.Printf("    validation examples: %d\n", validation.NumExamples())
		fmt.Printf("    test examples:       %d\n", test.NumExamples())
	},
}

// overrideConfig applies command line flags over the loaded configuration.
// Only flags the user actually set are applied.
func overrideConfig(cmd *cobra.Command, conf *config.Config) {
	flags := cmd.PersistentFlags()
	if flags.Changed("data-dir") {
		conf.Data.Directory, _ = flags.GetString("data-dir")
	}
	if flags.Changed("feature-selection") {
		conf.Data.FeatureSelection, _ = flags.GetString("feature-selection")
	}
	if flags.Changed("preprocessing-methods") {
		conf.Data.PreprocessingMethods, _ = flags.GetStringSlice("preprocessing-methods")
	}
	if flags.Changed("split-method") {
		conf.Split.Method, _ = flags.GetString("split-method")
	}
	if flags.Changed("split-fraction") {
		conf.Split.Fraction, _ = flags.GetFloat64("split-fraction")
	}
	if flags.Changed("seed") {
		conf.Split.Seed, _ = flags.GetInt64("seed")
	}
}

func init() {
	log.AddFlags(dataprepCommand.PersistentFlags())
	dataprepCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	dataprepCommand.PersistentFlags().BoolP("version", "v", false, "dataprep version")
	dataprepCommand.PersistentFlags().StringP("config", "c", "", "configuration file path")
	dataprepCommand.PersistentFlags().String("data-dir", dataset.DefaultDirectory, "root directory for downloads and caches")
	dataprepCommand.PersistentFlags().String("feature-selection", "", "feature selection policy (none, remove-zeros, low-gini-indices)")
	dataprepCommand.PersistentFlags().StringSlice("preprocessing-methods", nil, "preprocessing methods applied in order (binarise, gini, idf, normalise)")
	dataprepCommand.PersistentFlags().String("split-method", dataset.SplitDefault, "split method (default, random, indices)")
	dataprepCommand.PersistentFlags().Float64("split-fraction", dataset.DefaultFraction, "fraction of examples kept for training and validation")
	dataprepCommand.PersistentFlags().Int64("seed", dataset.DefaultSeed, "random split seed")
}

func main() {
	if err := dataprepCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}

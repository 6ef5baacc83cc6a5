/*
 * Copyright 2023 Textlab
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package lib

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type BaseConfig struct {
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
}

/**
	InitializeConfig standardises config initialization.

	Config can be specified in a yml file at configFile. Keys which exist on
	defaultConfig but NOT in the config yaml will also be used.

	Env vars overwrite config keys when the env var has the same name as the
	key (uppercased, with "_" in place of "."). So NER_BACKEND overwrites the
	ner_backend key and SPACY_URL overwrites spacy.url.

	defaultConfig is the default config, defined as a map[string]interface{}
	close to the "main" function and set up for local development.

	targetStruct should be a pointer to a struct which the config can be
	unmarshalled to.
**/
func InitializeConfig(configFile string, defaultConfig map[string]interface{}, targetStruct interface{}) error {

	if !filepath.IsAbs(configFile) {
		var err error
		configFile, err = filepath.Abs(configFile)
		if err != nil {
			return err
		}
	}

	// set viper's default config using defaultConfig
	for k, v := range defaultConfig {
		viper.SetDefault(k, v)
	}

	// set the name for the config file
	viper.SetConfigName(strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile)))
	viper.AddConfigPath(filepath.Dir(configFile))

	// tell viper to prefer env vars over config keys. An env var must ALSO exist as a key in
	// viper's config for viper to be able to read the env var.
	viper.AutomaticEnv()

	// rewrite env var names to use "_" instead of "." when reading env vars
	// this means that the env var SPACY_URL is used in the config struct as Spacy.Url
	repl := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(repl)

	// now we are ready to read the config into viper - we have told it where to look for it with `addConfigPath()`
	err := viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		log.Warn().Err(err).Msg("default settings applied")
	} else if err != nil {
		return err
	}

	var bc BaseConfig
	if err := viper.Unmarshal(&bc); err != nil {
		return err
	}

	if err := ConfigureLogging(bc); err != nil {
		return err
	}

	// unmarshal config into struct
	return viper.Unmarshal(targetStruct)
}

// BindFlags binds command line flags to viper config keys so that flags take
// precedence over the config file. keys maps a viper config key to the name
// of the flag that overrides it.
func BindFlags(flags *pflag.FlagSet, keys map[string]string) error {
	for key, flagName := range keys {
		flag := flags.Lookup(flagName)
		if flag == nil {
			continue
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}

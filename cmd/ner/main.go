package main

import (
	"os"

	"github.com/spf13/cobra"
	"gitlab.com/textlab/spanish-ner/lib"
)

const version = "1.0.0"

const configFlag = "config"

const (
	backendSpacy = "spacy"
	backendMitie = "mitie"
)

// config structure
type nerConfig struct {
	lib.BaseConfig `mapstructure:",squash"`
	APIHost        string  `mapstructure:"api_host"`
	APIPort        int     `mapstructure:"api_port"`
	Backend        string  `mapstructure:"ner_backend"`
	MinScore       float64 `mapstructure:"min_score"`
	MaxTextLength  int     `mapstructure:"max_text_length"`
	Blocklist      string  `mapstructure:"blocklist"`
	Spacy          struct {
		Url   string
		Model string
	}
	Mitie struct {
		Url string
	}
}

var config nerConfig

func initConfig(configFile string) error {
	// Set default config values
	return lib.InitializeConfig(configFile, map[string]interface{}{
		"log_level":       "info",
		"log_file":        "",
		"api_host":        "0.0.0.0",
		"api_port":        8000,
		"ner_backend":     backendMitie,
		"min_score":       0.5,
		"max_text_length": 10000,
		"blocklist":       "",
		"spacy": map[string]interface{}{
			"url":   "http://localhost:8080",
			"model": "es_core_news_md",
		},
		"mitie": map[string]interface{}{
			"url": "http://localhost:9090",
		},
	}, &config)
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "ner",
		Short:        "Named entity recognition for Spanish text",
		Version:      version,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String(configFlag, "./config/ner.yml", "The config file path.")
	rootCmd.PersistentFlags().String("backend", "", "NER backend to use (spacy or mitie)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if err := lib.BindFlags(cmd.Flags(), map[string]string{"ner_backend": "backend"}); err != nil {
			return err
		}
		configFile, err := cmd.Flags().GetString(configFlag)
		if err != nil {
			return err
		}
		return initConfig(configFile)
	}
	rootCmd.AddCommand(analyzeCommand(), serveCommand(), infoCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

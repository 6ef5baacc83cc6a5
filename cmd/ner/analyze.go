package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gitlab.com/textlab/spanish-ner/lib"
)

func analyzeCommand() *cobra.Command {
	var (
		file         string
		output       string
		outputFormat string
		quiet        bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [text]",
		Short: "Extract named entities from Spanish text",
		Long: `Analyze text and extract named entities (PERSON, LOCATION, ORGANIZATION,
MISC, PLACE).

Examples:

  ner analyze "Juan vive en Madrid y trabaja en Google España."

  ner analyze --file text.txt --format table

  ner analyze "María estudió en Barcelona" --output results.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := newController()
			if err != nil {
				return err
			}

			var reader io.Reader
			ct := contentTypePlain
			switch {
			case file != "":
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("error reading file: %w", err)
				}
				defer f.Close()
				reader = f
				if ext := strings.ToLower(filepath.Ext(file)); ext == ".html" || ext == ".htm" {
					ct = contentTypeHTML
				}
			case len(args) == 1:
				reader = strings.NewReader(args[0])
			default:
				return errors.New("must provide text as an argument or use --file")
			}

			if !quiet {
				fmt.Fprintln(os.Stderr, "Analyzing text...")
			}

			entities, err := ctrl.Recognize(reader, ct, "")
			if err != nil {
				return err
			}

			if !quiet {
				fmt.Fprintf(os.Stderr, "Found %d entities\n", len(entities))
			}

			result, err := formatEntities(entities, outputFormat)
			if err != nil {
				return err
			}

			if output != "" {
				if err := os.WriteFile(output, []byte(result+"\n"), 0644); err != nil {
					return fmt.Errorf("error writing file: %w", err)
				}
				if !quiet {
					fmt.Fprintf(os.Stderr, "Results saved to %s\n", output)
				}
				return nil
			}

			fmt.Println(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "text file to analyze (html files are stripped of markup)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file for results")
	cmd.Flags().StringVar(&outputFormat, "format", "json", "output format (json, table, simple)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress informational messages")

	return cmd
}

func formatEntities(entities []lib.Entity, format string) (string, error) {
	switch format {
	case "json":
		b, err := json.MarshalIndent(nerResponse{Entities: entities}, "", "  ")
		if err != nil {
			return "", err
		}
		return string(b), nil

	case "table":
		if len(entities) == 0 {
			return "No entities found.", nil
		}

		tagWidth, labelWidth, scoreWidth := len("TYPE"), len("ENTITY"), len("SCORE")
		for _, entity := range entities {
			if len(entity.Tag) > tagWidth {
				tagWidth = len(entity.Tag)
			}
			if len(entity.Label) > labelWidth {
				labelWidth = len(entity.Label)
			}
			if len(entity.Score.String()) > scoreWidth {
				scoreWidth = len(entity.Score.String())
			}
		}

		header := fmt.Sprintf("%-*s | %-*s | %-*s", tagWidth, "TYPE", labelWidth, "ENTITY", scoreWidth, "SCORE")
		lines := []string{header, strings.Repeat("-", len(header))}
		for _, entity := range entities {
			lines = append(lines, fmt.Sprintf("%-*s | %-*s | %-*s", tagWidth, entity.Tag, labelWidth, entity.Label, scoreWidth, entity.Score.String()))
		}
		return strings.Join(lines, "\n"), nil

	case "simple":
		if len(entities) == 0 {
			return "No entities found.", nil
		}

		lines := make([]string, len(entities))
		for i, entity := range entities {
			lines[i] = fmt.Sprintf("%s (%s) - %s", entity.Label, entity.Tag, entity.Score)
		}
		return strings.Join(lines, "\n"), nil

	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/restprobe/restprobe/internal/importer"
	"github.com/restprobe/restprobe/internal/models"
	"github.com/restprobe/restprobe/internal/store"
)

var (
	importFrom      string
	importBaseURL   string
	importOutFile   string
	importToStore   bool
	importStorePath string
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import test definitions",
	Long: `Import test definitions from a Postman collection or generate them
from an OpenAPI specification.

By default the definitions are written as a JSON suite to stdout (or to
--out); with --save they are stored in the test store instead.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		file := args[0]

		var defs []models.TestDefinition
		var err error
		switch strings.ToLower(importFrom) {
		case "postman":
			defs, err = importer.FromPostmanFile(file)
		case "openapi":
			var imp *importer.OpenAPIImporter
			imp, err = importer.FromOpenAPIFile(file)
			if err == nil {
				defs, err = imp.Definitions(importBaseURL)
			}
		default:
			err = fmt.Errorf("unknown import source %q: must be 'postman' or 'openapi'", importFrom)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error importing: %v\n", err)
			os.Exit(1)
		}

		if len(defs) == 0 {
			fmt.Println("No tests found in input")
			os.Exit(0)
		}

		if importToStore {
			logger := newLogger()
			s, err := store.Open(importStorePathOrDefault(), logger)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
				os.Exit(1)
			}
			for _, def := range defs {
				if _, err := s.Create(def); err != nil {
					fmt.Fprintf(os.Stderr, "Error storing test %q: %v\n", def.Name, err)
					os.Exit(1)
				}
			}
			fmt.Printf("Imported %d tests into %s\n", len(defs), importStorePathOrDefault())
			return
		}

		data, err := json.MarshalIndent(defs, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding tests: %v\n", err)
			os.Exit(1)
		}
		if importOutFile == "" {
			fmt.Println(string(data))
			return
		}
		if err := os.WriteFile(importOutFile, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing suite file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d tests to %s\n", len(defs), importOutFile)
	},
}

func importStorePathOrDefault() string {
	if importStorePath != "" {
		return importStorePath
	}
	return storePath()
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importFrom, "from", "postman", "Input format (postman or openapi)")
	importCmd.Flags().StringVar(&importBaseURL, "base-url", "", "Override server URL for generated tests (openapi)")
	importCmd.Flags().StringVar(&importOutFile, "out", "", "Write the suite to a file instead of stdout")
	importCmd.Flags().BoolVar(&importToStore, "save", false, "Save imported tests into the test store")
	importCmd.Flags().StringVar(&importStorePath, "store", "", "Test store file path")
}

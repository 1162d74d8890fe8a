/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/restprobe/restprobe/internal/executor"
	"github.com/restprobe/restprobe/internal/models"
	"github.com/restprobe/restprobe/internal/suggest"
)

var (
	suggestMethod  string
	suggestTimeout float64
)

// suggestCmd represents the suggest command
var suggestCmd = &cobra.Command{
	Use:   "suggest [url]",
	Short: "Suggest assertions for an endpoint",
	Long: `Probe an endpoint once and print suggested assertions derived from
the observed response, as a JSON list ready to paste into a test definition.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger()

		def := models.TestDefinition{
			Name:           "probe",
			Method:         suggestMethod,
			URL:            args[0],
			TimeoutSeconds: suggestTimeout,
		}
		def.Normalize()

		exec := executor.NewExecutor(logger)
		snap, err := exec.Execute(context.Background(), def)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error probing endpoint: %v\n", err)
			os.Exit(1)
		}

		suggestions := suggest.FromSnapshot(snap)
		data, err := json.MarshalIndent(suggestions, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding suggestions: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)

	suggestCmd.Flags().StringVarP(&suggestMethod, "method", "m", "GET", "HTTP method for the probe request")
	suggestCmd.Flags().Float64Var(&suggestTimeout, "timeout", 0, "Probe timeout in seconds (default 30)")
}

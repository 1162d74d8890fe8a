/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/restprobe/restprobe/internal/executor"
	"github.com/restprobe/restprobe/internal/models"
	"github.com/restprobe/restprobe/internal/output"
	"github.com/restprobe/restprobe/internal/store"
)

var (
	runBaseURL     string
	runConcurrency int
	runRateLimit   float64
	runTags        []string
	runOutputFile  string
	runFormat      string
	runStorePath   string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [suite-file]",
	Short: "Execute API tests",
	Long: `Execute test definitions against their target API.

With a suite file argument, the file is read as a JSON array of test
definitions. Without one, enabled tests are loaded from the test store.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger()

		var tests []models.TestDefinition
		if len(args) == 1 {
			loaded, err := loadSuite(args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading suite: %v\n", err)
				os.Exit(1)
			}
			tests = loaded
		} else {
			s, err := store.Open(storePath(), logger)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
				os.Exit(1)
			}
			tests = s.Definitions(store.Filter{Tags: runTags, EnabledOnly: true})
		}

		if len(tests) == 0 {
			fmt.Println("No tests found matching the criteria")
			os.Exit(0)
		}

		baseURL := runBaseURL
		if baseURL == "" {
			baseURL = viper.GetString("base_url")
		}
		defaultTimeout := viper.GetFloat64("timeout_seconds")
		for i := range tests {
			tests[i].URL = resolveURL(baseURL, tests[i].URL)
			if tests[i].TimeoutSeconds <= 0 {
				tests[i].TimeoutSeconds = defaultTimeout
			}
		}

		concurrency := runConcurrency
		if concurrency <= 0 {
			concurrency = viper.GetInt("concurrency")
		}
		rateLimit := runRateLimit
		if rateLimit <= 0 {
			rateLimit = viper.GetFloat64("rate_limit")
		}

		exec := executor.NewExecutor(logger)
		orch := executor.NewOrchestrator(exec, executor.Config{
			Concurrency: concurrency,
			RateLimit:   rateLimit,
		}, logger)

		result, err := orch.RunBatch(context.Background(), tests)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running batch: %v\n", err)
			os.Exit(1)
		}

		displayResults(result, verbose)

		if runOutputFile != "" {
			format, err := output.ParseFormat(runFormat)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			if err := output.ExportBatchResult(result, format, runOutputFile); err != nil {
				fmt.Fprintf(os.Stderr, "Error exporting results: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Results written to %s\n", runOutputFile)
		}

		if result.Summary.Failed > 0 {
			os.Exit(1)
		}
	},
}

// loadSuite reads a JSON array of test definitions.
func loadSuite(path string) ([]models.TestDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}
	var tests []models.TestDefinition
	if err := json.Unmarshal(data, &tests); err != nil {
		return nil, fmt.Errorf("failed to parse suite file: %w", err)
	}
	return tests, nil
}

// resolveURL prefixes a path-only url with the base url.
func resolveURL(baseURL, url string) string {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") || baseURL == "" {
		return url
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(url, "/")
}

func storePath() string {
	if runStorePath != "" {
		return runStorePath
	}
	return viper.GetString("store_path")
}

func displayResults(result models.BatchResult, verbose bool) {
	fmt.Println("\n=== Test Results ===")
	fmt.Printf("Total Tests: %d\n", result.Summary.Total)
	fmt.Printf("Passed: %d\n", result.Summary.Passed)
	fmt.Printf("Failed: %d\n", result.Summary.Failed)
	fmt.Printf("Success Rate: %.1f%%\n", result.Summary.SuccessRatePercent)
	fmt.Println()

	for _, r := range result.Results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
		}
		fmt.Printf("%s %s %s", status, r.Definition.Method, r.Definition.URL)
		if r.TransportError != "" {
			fmt.Printf(" - %s", r.TransportError)
		}
		fmt.Println()

		if !verbose {
			continue
		}
		if r.Snapshot != nil {
			fmt.Printf("  Status Code: %d\n", r.Snapshot.StatusCode)
			fmt.Printf("  Response Time: %v\n", r.Snapshot.Elapsed)
		}
		for _, a := range r.Assertions {
			mark := "✓"
			if !a.Passed {
				mark = "✗"
			}
			if a.Error != "" {
				fmt.Printf("  %s %s: %s\n", mark, a.Spec.Kind(), a.Error)
			} else {
				fmt.Printf("  %s %s\n", mark, a.Detail)
			}
		}
	}
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runBaseURL, "base-url", "", "Base URL for path-only test urls")
	runCmd.Flags().IntVar(&runConcurrency, "concurrency", 0, "Max tests running at once (default from config)")
	runCmd.Flags().Float64Var(&runRateLimit, "rate-limit", 0, "Max requests per second (0 = unlimited)")
	runCmd.Flags().StringSliceVar(&runTags, "tags", []string{}, "Filter store tests by tags")
	runCmd.Flags().StringVarP(&runOutputFile, "output", "o", "", "Write results to a file")
	runCmd.Flags().StringVarP(&runFormat, "format", "f", "json", "Export format (json or csv)")
	runCmd.Flags().StringVar(&runStorePath, "store", "", "Test store file path")
}

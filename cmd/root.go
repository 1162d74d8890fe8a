/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "restprobe",
	Short: "Declarative REST API testing tool",
	Long: `restprobe executes declarative HTTP test definitions against a target API.

A test definition names a method, url, headers, optional body, and a list of
typed assertions (status code, response time, json path lookups, structural
schema checks, and more). Batches run with bounded concurrency and every test
gets its own verdict: one failing or unreachable endpoint never aborts the rest.

Test definitions can be written by hand, imported from Postman collections,
or generated from an OpenAPI specification.`,
}

func Execute() {
	cobra.OnInitialize(func() {
		viper.SetConfigName("restprobe")
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
		viper.SetDefault("concurrency", 5)
		viper.SetDefault("store_path", "saved_tests.json")
		if err := viper.ReadInConfig(); err != nil {
			// The config file is optional; anything else is a real problem.
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				log.Fatalf("Error reading config file: %v", err)
			}
		}
	})
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// newLogger builds the process logger; debug level tracks --verbose.
func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}
	return logger
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed output")
}

package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/restprobe/restprobe/internal/models"
)

// Format represents the output format type
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ExportBatchResult exports batch results to the specified format. The
// result is consumed read-only.
func ExportBatchResult(result models.BatchResult, format Format, filePath string) error {
	w, closer, err := getWriter(filePath)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	switch format {
	case FormatJSON:
		return exportJSON(w, result)
	case FormatCSV:
		return exportCSV(w, result)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// getWriter returns an io.Writer for output (stdout or file)
func getWriter(filePath string) (io.Writer, io.Closer, error) {
	if filePath == "" {
		return os.Stdout, nil, nil
	}

	f, err := os.Create(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f, nil
}

func exportJSON(w io.Writer, result models.BatchResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func exportCSV(w io.Writer, result models.BatchResult) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"name", "method", "url", "passed", "status_code", "elapsed_ms",
		"assertions_passed", "assertions_failed", "transport_error",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range result.Results {
		statusCode := 0
		if r.Snapshot != nil {
			statusCode = r.Snapshot.StatusCode
		}
		assertionsPassed := 0
		for _, a := range r.Assertions {
			if a.Passed {
				assertionsPassed++
			}
		}

		row := []string{
			r.Definition.Name,
			r.Definition.Method,
			r.Definition.URL,
			strconv.FormatBool(r.Passed),
			strconv.Itoa(statusCode),
			fmt.Sprintf("%.2f", float64(r.Elapsed.Microseconds())/1000),
			strconv.Itoa(assertionsPassed),
			strconv.Itoa(len(r.Assertions) - assertionsPassed),
			r.TransportError,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	return cw.Error()
}

// ParseFormat parses a string into a Format, returning error if invalid
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("invalid format '%s': must be 'json' or 'csv'", s)
	}
}

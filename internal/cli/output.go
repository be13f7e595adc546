package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/clubdash/ffcv-import/internal/importer"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteResult writes an import result in the specified format
func WriteResult(w io.Writer, res importer.Result, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, res)
	case FormatText:
		return writeText(w, res, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, res importer.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(res)
}

func writeText(w io.Writer, res importer.Result, verbose bool) error {
	if !res.Success {
		fmt.Fprintf(w, "Import failed: %s\n", res.Error)
		if verbose && res.RunID != "" {
			fmt.Fprintf(w, "  Run ID: %s\n", res.RunID)
		}
		return nil
	}

	fmt.Fprintf(w, "Import finished: %d created, %d updated (%d fixtures in %.2fs)\n",
		res.Created, res.Updated, res.TotalMatches, res.ElapsedSeconds)
	if verbose {
		fmt.Fprintf(w, "  Run ID: %s\n", res.RunID)
		fmt.Fprintf(w, "  Finished at: %s\n", res.Timestamp)
	}
	return nil
}

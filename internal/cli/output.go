package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteJSON writes v to stdout as a single line of JSON, the
// dashboard-mode response format.
func WriteJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintf(os.Stdout, "%s\n", data)
	return err
}

// WriteLog writes a human-readable line to stderr, so dashboard mode
// can log without disturbing the JSON response on stdout.
func WriteLog(message string) error {
	_, err := fmt.Fprintf(os.Stderr, "%s\n", message)
	return err
}

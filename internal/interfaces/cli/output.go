package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// timeRound keeps printed durations readable.
const timeRound = 10 * time.Millisecond

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

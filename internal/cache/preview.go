// Package cache writes and reads the preview JSON document the frontend
// uses as a read-only fallback when the store is unavailable.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/seedworks/compseed/internal/core/model"
)

// Write serializes the record set, preserving build order.
func Write(path string, records []model.OutputRecord) error {
	if records == nil {
		records = []model.OutputRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preview: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create preview dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	return nil
}

// Read loads a previously written preview document.
func Read(path string) ([]model.OutputRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preview '%s': %w", path, err)
	}
	var records []model.OutputRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse preview '%s': %w", path, err)
	}
	return records, nil
}

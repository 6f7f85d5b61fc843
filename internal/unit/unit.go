// Package unit loads the source artifacts to be annotated.
package unit

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Unit is one source artifact under evaluation. Immutable after loading.
type Unit struct {
	ID         string
	SourceText string
}

// Load reads every Java unit in dir, sorted by ID.
func Load(dir string) ([]Unit, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("units dir is required")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read units dir: %w", err)
	}
	units := make([]Unit, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".java") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read unit %s: %w", entry.Name(), err)
		}
		units = append(units, Unit{
			ID:         strings.TrimSuffix(entry.Name(), ".java"),
			SourceText: string(data),
		})
	}
	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })
	if len(units) == 0 {
		return nil, fmt.Errorf("no units found in %s", dir)
	}
	return units, nil
}

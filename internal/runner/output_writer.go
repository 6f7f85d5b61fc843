package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteRunOutputs writes run outputs and prepares output directories.
// The HTML report is rendered separately by the report command; a stub
// keeps the path stable for tooling that expects it.
func WriteRunOutputs(results Results, outputDir string) (OutputPaths, error) {
	if outputDir == "" {
		return OutputPaths{}, fmt.Errorf("output directory is required")
	}
	paths, err := NewOutputPaths(outputDir, results.RunID)
	if err != nil {
		return OutputPaths{}, err
	}
	if err := os.MkdirAll(paths.RunDir(), 0o755); err != nil {
		return OutputPaths{}, fmt.Errorf("create output dir: %w", err)
	}
	if err := writeJSON(paths.ResultsPath(), results); err != nil {
		return OutputPaths{}, err
	}
	if err := writeCandidates(paths.CodeDir(), results); err != nil {
		return OutputPaths{}, err
	}
	if err := os.MkdirAll(paths.LogsDir(), 0o755); err != nil {
		return OutputPaths{}, fmt.Errorf("create logs dir: %w", err)
	}
	return paths, nil
}

// writeJSON writes a Results payload as pretty JSON.
func writeJSON(path string, results Results) error {
	payload, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// writeCandidates persists the final candidate of every record that
// produced one, named unit_identifier.java.
func writeCandidates(codeDir string, results Results) error {
	if err := os.MkdirAll(codeDir, 0o755); err != nil {
		return fmt.Errorf("create code dir: %w", err)
	}
	for _, record := range results.Records {
		var candidate string
		for i := len(record.Attempts) - 1; i >= 0; i-- {
			if record.Attempts[i].CandidateArtifact != "" {
				candidate = record.Attempts[i].CandidateArtifact
				break
			}
		}
		if candidate == "" {
			continue
		}
		name := fmt.Sprintf("%s_%s.java", record.UnitID, record.ExtractedIdentifier)
		path := filepath.Join(codeDir, record.AgentName+"_"+name)
		if err := os.WriteFile(path, []byte(candidate), 0o644); err != nil {
			return fmt.Errorf("write candidate %s: %w", name, err)
		}
	}
	return nil
}

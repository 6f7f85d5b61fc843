package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfig = `version: 1

workspace:
  units_dir: "testcases"
  output_dir: "results"

agents:
  - id: qwen-small
    provider: "ollama"
    model: "qwen2.5-coder:1.5b"
    temperature: 0.7
    timeout_seconds: 60

default_agent: "qwen-small"

stages:
  - id: compile
    kind: compile
    command: "openjml"
    failure_marker: "error"
    timeout_seconds: 120
  - id: spotbugs
    kind: static_analysis
    command: "spotbugs"
    args: ["-textui"]
    failure_marker: "ERROR"
    timeout_seconds: 120
  - id: key
    kind: formal_verification
    command: "key"
    args: ["--prove"]
    success_marker: "Proof completed"
    failure_marker: "ERROR"
    timeout_seconds: 300

run:
  max_attempts: 3
  workers: 1
`

const sampleUnit = `public class Calculator {
    public int add(int a, int b) {
        return a + b;
    }

    public int subtract(int a, int b) {
        return a - b;
    }

    public int multiply(int a, int b) {
        return a * b;
    }

    public double divide(int a, int b) {
        return (double) a / b;
    }
}
`

// Scaffold writes a starter config and a sample unit next to it.
func Scaffold(configPath string) error {
	if configPath == "" {
		return fmt.Errorf("config path is required")
	}
	if info, err := os.Stat(configPath); err == nil {
		if info.IsDir() {
			return fmt.Errorf("config path %q is a directory", configPath)
		}
		return fmt.Errorf("config file already exists at %q", configPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	unitsDir := filepath.Join(BaseDirFromConfigPath(configPath), "testcases")
	if err := os.MkdirAll(unitsDir, 0o755); err != nil {
		return fmt.Errorf("create units dir: %w", err)
	}
	samplePath := filepath.Join(unitsDir, "Calculator.java")
	if _, err := os.Stat(samplePath); os.IsNotExist(err) {
		if err := os.WriteFile(samplePath, []byte(sampleUnit), 0o644); err != nil {
			return fmt.Errorf("write sample unit: %w", err)
		}
	}
	return nil
}

package spec

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ParseConfig decodes one YAML document in strict mode. Unknown keys
// fail the decode so config typos surface immediately instead of being
// silently dropped.
func ParseConfig(data []byte) (Config, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var cfg Config
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	switch err := decoder.Decode(&struct{}{}); err {
	case io.EOF:
		return cfg, nil
	case nil:
		return Config{}, fmt.Errorf("decode config: multiple YAML documents are not supported")
	default:
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
}

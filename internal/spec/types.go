package spec

type Config struct {
	Version      int           `yaml:"version"`
	Workspace    Workspace     `yaml:"workspace"`
	Agents       []AgentConfig `yaml:"agents"`
	DefaultAgent string        `yaml:"default_agent"`
	Stages       []StageConfig `yaml:"stages"`
	Run          RunConfig     `yaml:"run"`
}

type Workspace struct {
	UnitsDir  string `yaml:"units_dir"`
	OutputDir string `yaml:"output_dir"`
}

type AgentConfig struct {
	ID             string  `yaml:"id"`
	Provider       string  `yaml:"provider"`
	Model          string  `yaml:"model"`
	BaseURL        string  `yaml:"base_url"`
	Temperature    float64 `yaml:"temperature"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

type StageConfig struct {
	ID             string   `yaml:"id"`
	Kind           string   `yaml:"kind"`
	Command        string   `yaml:"command"`
	Args           []string `yaml:"args"`
	FailureMarker  string   `yaml:"failure_marker"`
	SuccessMarker  string   `yaml:"success_marker"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

type RunConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
	Workers     int `yaml:"workers"`
}

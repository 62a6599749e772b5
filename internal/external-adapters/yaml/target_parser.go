// Package yaml provides YAML-based target parsing and repository implementations.
package yaml

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ochairo/sheetfetch/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

// DefaultTargets is the built-in target set used when no targets file is given
const DefaultTargets = `targets:
  - name: Solar_Lab_Tests
    env: SOLAR_LAB_TESTS_URL
  - name: Line_Trials
    env: LINE_TRIALS_URL
  - name: Certifications
    env: CERTIFICATIONS_URL
`

// yamlTargetFile represents the raw YAML structure
type yamlTargetFile struct {
	Targets []yamlTarget `yaml:"targets"`
}

type yamlTarget struct {
	Name         string `yaml:"name"`
	Env          string `yaml:"env"`
	URL          string `yaml:"url"`
	Output       string `yaml:"output"`
	SignatureURL string `yaml:"signature_url"`
	GPGKeyFile   string `yaml:"gpg_key_file"`
	GPGKeysURL   string `yaml:"gpg_keys_url"`
}

// TargetParser parses YAML target files
type TargetParser struct {
	outputDir string
	lookupEnv func(string) (string, bool)
}

// NewTargetParser creates a parser that places outputs under outputDir
func NewTargetParser(outputDir string) *TargetParser {
	return &TargetParser{
		outputDir: outputDir,
		lookupEnv: os.LookupEnv,
	}
}

// ParseFile parses a YAML targets file
func (p *TargetParser) ParseFile(filePath string) ([]*entities.FetchTarget, error) {
	//nolint:gosec // G304: filePath is the targets file given on the command line
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return p.Parse(data)
}

// Parse parses YAML bytes into fetch targets, in file order
func (p *TargetParser) Parse(data []byte) ([]*entities.FetchTarget, error) {
	var file yamlTargetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(file.Targets) == 0 {
		return nil, fmt.Errorf("targets file must define at least one target")
	}

	seen := make(map[string]bool, len(file.Targets))
	targets := make([]*entities.FetchTarget, 0, len(file.Targets))
	for i, yt := range file.Targets {
		if err := validateTarget(yt); err != nil {
			return nil, fmt.Errorf("target %d: %w", i+1, err)
		}
		if seen[yt.Name] {
			return nil, fmt.Errorf("duplicate target name: %s", yt.Name)
		}
		seen[yt.Name] = true

		targets = append(targets, p.convertTarget(yt))
	}

	return targets, nil
}

func validateTarget(yt yamlTarget) error {
	if yt.Name == "" {
		return fmt.Errorf("target must have a name")
	}
	if yt.Env == "" && yt.URL == "" {
		return fmt.Errorf("target %s must set env or url", yt.Name)
	}
	if yt.Output != "" && (strings.ContainsAny(yt.Output, `/\`) || strings.Contains(yt.Output, "..")) {
		return fmt.Errorf("target %s: output must be a plain file name, got %q", yt.Name, yt.Output)
	}
	if strings.ContainsAny(yt.Name, `/\`) || strings.Contains(yt.Name, "..") {
		return fmt.Errorf("invalid target name: %q", yt.Name)
	}
	return nil
}

func (p *TargetParser) convertTarget(yt yamlTarget) *entities.FetchTarget {
	output := yt.Output
	if output == "" {
		output = yt.Name + entities.DefaultExtension
	}

	shareURL := strings.TrimSpace(yt.URL)
	if shareURL == "" && yt.Env != "" {
		if v, ok := p.lookupEnv(yt.Env); ok {
			shareURL = strings.TrimSpace(v)
		}
	}

	return &entities.FetchTarget{
		Name:       yt.Name,
		ShareURL:   shareURL,
		EnvVar:     yt.Env,
		OutputPath: filepath.Join(p.outputDir, output),
		Signature: entities.SignatureConfig{
			SignatureURL: yt.SignatureURL,
			KeyFile:      yt.GPGKeyFile,
			KeysURL:      yt.GPGKeysURL,
		},
	}
}

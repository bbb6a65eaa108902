package spec

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the YAML file format the CLI uses to describe a set of
// already-concretized specs to test.
type Manifest struct {
	// Specs lists the specs in run order.
	Specs []ManifestSpec `yaml:"specs"`
}

// ManifestSpec is one spec entry in a manifest file.
type ManifestSpec struct {
	// Name is the package name.
	Name string `yaml:"name"`

	// Version is the concretized version.
	Version string `yaml:"version"`

	// Hash is the concretizer's content fingerprint.
	Hash string `yaml:"hash"`

	// Installed reports whether the spec's artifacts are present.
	Installed bool `yaml:"installed"`

	// ExternalPath marks the spec as externally installed when set.
	ExternalPath string `yaml:"external_path,omitempty"`

	// TestCommand, when set, is run as the package's self-test.
	// Absent means the package declares no tests.
	TestCommand string `yaml:"test_command,omitempty"`
}

// LoadManifest reads and parses a manifest YAML file into specs.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadManifest(path string) ([]*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like
	// "spec:" vs "specs:")
	var manifest Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&manifest); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateManifest(&manifest); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	specs := make([]*Spec, 0, len(manifest.Specs))
	for _, m := range manifest.Specs {
		s := &Spec{
			Name:         m.Name,
			Version:      m.Version,
			Hash:         m.Hash,
			Installed:    m.Installed,
			ExternalPath: m.ExternalPath,
		}
		if m.TestCommand != "" {
			s.Tester = &CommandTester{Command: m.TestCommand}
		}
		specs = append(specs, s)
	}
	return specs, nil
}

// validateManifest checks that required fields are present and valid.
func validateManifest(m *Manifest) error {
	if len(m.Specs) == 0 {
		return fmt.Errorf("specs list is required and must be non-empty")
	}

	for i, s := range m.Specs {
		if s.Name == "" {
			return fmt.Errorf("specs[%d]: name is required", i)
		}
		if s.Version == "" {
			return fmt.Errorf("specs[%d]: version is required", i)
		}
		if s.Hash == "" {
			return fmt.Errorf("specs[%d]: hash is required", i)
		}
	}
	return nil
}

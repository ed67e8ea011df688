package config

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// JobFileName is the per-repository update job file.
const JobFileName = "depbump.yml"

// Supported update ecosystems.
const (
	EcosystemGoMod     = "gomod"
	EcosystemTerraform = "terraform"
)

// Job declares what a single depbump run should do to a repository.
type Job struct {
	Updates     []Update     `json:"updates"`
	Credentials []Credential `json:"credentials,omitempty"`

	// Helper is the path to a native helper binary for structured manifest
	// edits. When empty, edits are applied in-process.
	Helper string `json:"helper,omitempty"`
}

// Update is one manifest-update entry within a job.
type Update struct {
	Ecosystem    string       `json:"ecosystem"`
	Directory    string       `json:"directory"`
	Dependencies []Dependency `json:"dependencies,omitempty"`
	Tidy         bool         `json:"tidy,omitempty"`
	Vendor       bool         `json:"vendor,omitempty"`
}

// Dependency is a requested version change for a single dependency.
type Dependency struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Indirect bool   `json:"indirect,omitempty"`
}

// Credential grants access to one host. It is passed through opaquely to git
// configuration and to repository-access error classification.
type Credential struct {
	Host     string `json:"host" toml:"host"`
	Username string `json:"username,omitempty" toml:"username,omitempty"`
	Password string `json:"password,omitempty" toml:"password,omitempty"`
	Token    string `json:"token,omitempty" toml:"token,omitempty"`
}

// BasicAuth returns the user:secret pair for URL embedding. Token credentials
// use the conventional x-access-token user.
func (c Credential) BasicAuth() string {
	if c.Token != "" {
		return "x-access-token:" + c.Token
	}
	return c.Username + ":" + c.Password
}

func UnmarshalJob(data []byte) (*Job, error) {
	job := &Job{}
	if err := yaml.Unmarshal(data, job); err != nil {
		return nil, err
	}
	return job, job.Validate()
}

func (j *Job) Marshal() ([]byte, error) {
	return yaml.Marshal(j)
}

// Validate checks that every update entry names a supported ecosystem and a
// directory.
func (j *Job) Validate() error {
	for i, u := range j.Updates {
		switch u.Ecosystem {
		case EcosystemGoMod, EcosystemTerraform:
		default:
			return fmt.Errorf("updates[%d]: unsupported ecosystem %q", i, u.Ecosystem)
		}
		if u.Directory == "" {
			return fmt.Errorf("updates[%d]: directory is required", i)
		}
	}
	return nil
}

func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	job, err := UnmarshalJob(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return job, nil
}

func SaveJob(path string, job *Job) error {
	data, err := job.Marshal()
	if err != nil {
		return fmt.Errorf("marshaling job: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

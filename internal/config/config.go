// Package config loads the YAML configuration used by the collaborator
// binary cmd/tello-dashboard (session endpoints, recorder, dashboard);
// cmd/tello-demo takes flags instead. The driver core never reads this
// package; session.Options are always constructor parameters.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root structure loaded from a collaborator's config file.
type Config struct {
	Session       SessionConfig       `yaml:"session"`
	Collaborators CollaboratorsConfig `yaml:"collaborators"`
}

// SessionConfig mirrors session.Options so it can be loaded from disk
// instead of flags when a collaborator wants a fixed deployment profile.
type SessionConfig struct {
	DroneIP     string `yaml:"drone_ip"`
	CommandPort int    `yaml:"command_port"`
	VideoPort   int    `yaml:"video_port"`
	ForwardIP   string `yaml:"forward_ip"`
	ForwardPort int    `yaml:"forward_port"`
}

// CollaboratorsConfig configures the outer programs built on top of the
// core: the telemetry recorder and the dashboard web UI.
type CollaboratorsConfig struct {
	Recorder  RecorderConfig  `yaml:"recorder"`
	Dashboard DashboardConfig `yaml:"dashboard"`
}

type RecorderConfig struct {
	Enabled  bool   `yaml:"enabled"`
	DBPath   string `yaml:"db_path"`
	PollRate int    `yaml:"poll_rate_hz"`
}

type DashboardConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ListenAddr  string `yaml:"listen_addr"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	BroadcastHz int    `yaml:"broadcast_hz"`
}

// Load reads and parses the YAML config at path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}

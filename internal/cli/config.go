// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"sonyavr/internal/avr"
)

// DefaultConfigPath is the default location of the device profile file
const DefaultConfigPath = "avr.yml"

// Config represents the device profile configuration structure
type Config struct {
	Devices []DeviceProfile `yaml:"devices"`
}

// DeviceProfile represents a single saved device
type DeviceProfile struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// NewDeviceProfile creates a profile with a fresh id. A zero port falls
// back to the SRS control port.
func NewDeviceProfile(name, host string, port int) DeviceProfile {
	if port == 0 {
		port = avr.DefaultPort
	}
	return DeviceProfile{
		ID:   uuid.New().String(),
		Name: name,
		Host: host,
		Port: port,
	}
}

// NewDefaultConfig returns an empty configuration
func NewDefaultConfig() *Config {
	return &Config{
		Devices: []DeviceProfile{},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, filepath string) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	deviceIDs := make(map[string]bool)
	deviceNames := make(map[string]bool)
	for i, device := range c.Devices {
		if device.ID == "" {
			return fmt.Errorf("device[%d].id is required", i)
		}
		if deviceIDs[device.ID] {
			return fmt.Errorf("duplicate device ID: %s", device.ID)
		}
		deviceIDs[device.ID] = true

		if device.Name == "" {
			return fmt.Errorf("device[%d].name is required", i)
		}
		if deviceNames[device.Name] {
			return fmt.Errorf("duplicate device name: %s", device.Name)
		}
		deviceNames[device.Name] = true

		if device.Host == "" {
			return fmt.Errorf("device[%d].host is required", i)
		}
		if device.Port <= 0 || device.Port > 65535 {
			return fmt.Errorf("device[%d].port must be in (0, 65535]", i)
		}
	}

	return nil
}

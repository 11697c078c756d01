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
)

// ConfigManager handles device profile file operations
type ConfigManager struct {
	configPath string
}

// NewConfigManager creates a new config manager
func NewConfigManager(configPath string) *ConfigManager {
	return &ConfigManager{
		configPath: configPath,
	}
}

// LoadConfig loads the device profile configuration
func (cm *ConfigManager) LoadConfig() (*Config, error) {
	// Check if file exists
	if _, err := os.Stat(cm.configPath); os.IsNotExist(err) {
		// Create default config if it doesn't exist
		defaultConfig := NewDefaultConfig()
		if err := cm.SaveConfig(defaultConfig); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return defaultConfig, nil
	}

	// Load existing config
	config, err := LoadConfig(cm.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return config, nil
}

// SaveConfig saves the device profile configuration
func (cm *ConfigManager) SaveConfig(config *Config) error {
	if err := SaveConfig(config, cm.configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// AddDevice adds a new device profile to the configuration
func (cm *ConfigManager) AddDevice(device DeviceProfile) error {
	config, err := cm.LoadConfig()
	if err != nil {
		return err
	}

	// Check if device ID or name already exists
	for _, existingDevice := range config.Devices {
		if existingDevice.ID == device.ID {
			return fmt.Errorf("device with ID '%s' already exists", device.ID)
		}
		if existingDevice.Name == device.Name {
			return fmt.Errorf("device with name '%s' already exists", device.Name)
		}
	}

	// Add the new device
	config.Devices = append(config.Devices, device)

	return cm.SaveConfig(config)
}

// UpdateDevice updates an existing device profile in the configuration
func (cm *ConfigManager) UpdateDevice(deviceID string, updatedDevice DeviceProfile) error {
	config, err := cm.LoadConfig()
	if err != nil {
		return err
	}

	// Find and update the device
	for i, device := range config.Devices {
		if device.ID == deviceID {
			// Keep the same ID
			updatedDevice.ID = deviceID
			config.Devices[i] = updatedDevice
			return cm.SaveConfig(config)
		}
	}

	return fmt.Errorf("device with ID '%s' not found", deviceID)
}

// RemoveDevice removes a device profile from the configuration
func (cm *ConfigManager) RemoveDevice(deviceID string) error {
	config, err := cm.LoadConfig()
	if err != nil {
		return err
	}

	// Find and remove the device
	for i, device := range config.Devices {
		if device.ID == deviceID {
			// Remove device by slicing
			config.Devices = append(config.Devices[:i], config.Devices[i+1:]...)
			return cm.SaveConfig(config)
		}
	}

	return fmt.Errorf("device with ID '%s' not found", deviceID)
}

// GetDevice returns the device profile with the given name
func (cm *ConfigManager) GetDevice(name string) (DeviceProfile, error) {
	config, err := cm.LoadConfig()
	if err != nil {
		return DeviceProfile{}, err
	}

	for _, device := range config.Devices {
		if device.Name == name {
			return device, nil
		}
	}

	return DeviceProfile{}, fmt.Errorf("device with name '%s' not found", name)
}

// ListDevices returns all saved device profiles
func (cm *ConfigManager) ListDevices() ([]DeviceProfile, error) {
	config, err := cm.LoadConfig()
	if err != nil {
		return nil, err
	}
	return config.Devices, nil
}

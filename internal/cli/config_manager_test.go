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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sonyavr/internal/avr"
)

func newTestManager(t *testing.T) *ConfigManager {
	t.Helper()
	return NewConfigManager(filepath.Join(t.TempDir(), "avr.yml"))
}

func TestNewDeviceProfile(t *testing.T) {
	t.Run("assigns a fresh id", func(t *testing.T) {
		first := NewDeviceProfile("Living Room", "10.0.0.5", 54480)
		second := NewDeviceProfile("Living Room", "10.0.0.5", 54480)

		assert.NotEmpty(t, first.ID)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("zero port falls back to the control port", func(t *testing.T) {
		profile := NewDeviceProfile("Living Room", "10.0.0.5", 0)
		assert.Equal(t, avr.DefaultPort, profile.Port)
	})
}

func TestConfigManager(t *testing.T) {
	t.Run("creates a default config on first load", func(t *testing.T) {
		manager := newTestManager(t)

		config, err := manager.LoadConfig()
		require.NoError(t, err)
		assert.Empty(t, config.Devices)

		_, err = os.Stat(manager.configPath)
		require.NoError(t, err)
	})

	t.Run("round-trips devices through the file", func(t *testing.T) {
		manager := newTestManager(t)
		profile := NewDeviceProfile("Living Room", "10.0.0.5", 54480)

		require.NoError(t, manager.AddDevice(profile))

		devices, err := manager.ListDevices()
		require.NoError(t, err)
		require.Len(t, devices, 1)
		assert.Equal(t, profile, devices[0])
	})

	t.Run("rejects duplicate names", func(t *testing.T) {
		manager := newTestManager(t)
		require.NoError(t, manager.AddDevice(NewDeviceProfile("Living Room", "10.0.0.5", 54480)))

		err := manager.AddDevice(NewDeviceProfile("Living Room", "10.0.0.6", 54480))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("updates a device keeping its id", func(t *testing.T) {
		manager := newTestManager(t)
		profile := NewDeviceProfile("Living Room", "10.0.0.5", 54480)
		require.NoError(t, manager.AddDevice(profile))

		updated := NewDeviceProfile("Bedroom", "10.0.0.9", 54480)
		require.NoError(t, manager.UpdateDevice(profile.ID, updated))

		device, err := manager.GetDevice("Bedroom")
		require.NoError(t, err)
		assert.Equal(t, profile.ID, device.ID)
		assert.Equal(t, "10.0.0.9", device.Host)
	})

	t.Run("removes a device", func(t *testing.T) {
		manager := newTestManager(t)
		profile := NewDeviceProfile("Living Room", "10.0.0.5", 54480)
		require.NoError(t, manager.AddDevice(profile))

		require.NoError(t, manager.RemoveDevice(profile.ID))

		devices, err := manager.ListDevices()
		require.NoError(t, err)
		assert.Empty(t, devices)
	})

	t.Run("unknown ids and names are errors", func(t *testing.T) {
		manager := newTestManager(t)

		require.Error(t, manager.RemoveDevice("missing"))
		require.Error(t, manager.UpdateDevice("missing", DeviceProfile{}))
		_, err := manager.GetDevice("missing")
		require.Error(t, err)
	})
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{Devices: []DeviceProfile{
			{ID: "a", Name: "Living Room", Host: "10.0.0.5", Port: 54480},
		}}
	}

	t.Run("accepts a valid config", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		config := valid()
		config.Devices = append(config.Devices,
			DeviceProfile{ID: "a", Name: "Bedroom", Host: "10.0.0.6", Port: 54480})
		require.Error(t, config.Validate())
	})

	t.Run("rejects missing host", func(t *testing.T) {
		config := valid()
		config.Devices[0].Host = ""
		require.Error(t, config.Validate())
	})

	t.Run("rejects out-of-range ports", func(t *testing.T) {
		config := valid()
		config.Devices[0].Port = 70000
		require.Error(t, config.Validate())
	})
}

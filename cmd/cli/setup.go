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
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sonyavr/internal"
	"sonyavr/internal/avr"
	intcli "sonyavr/internal/cli"
	"sonyavr/internal/device"
)

// Setup screen input fields
type setupField int

const (
	setupFieldProfile setupField = iota
	setupFieldHostAddress
	setupFieldPort
	setupFieldConnect
)

// SetupModel handles the device setup screen
type SetupModel struct {
	// Navigation
	focusedField setupField

	// Saved profiles; selectedProfile == len(profiles) means manual entry
	profiles        []intcli.DeviceProfile
	selectedProfile int

	// Input fields
	hostAddress string
	portText    string

	// Cursor positions
	hostAddressCursor int
	portCursor        int

	// Connection state
	connectionError string

	// Connected device (when setup complete)
	device     device.Device
	deviceInfo device.DeviceInfo

	// Flags
	debugMode bool
	testMode  bool

	// Configuration
	configPath string
}

// NewSetupModel creates a new setup screen model
func NewSetupModel() SetupModel {
	return NewSetupModelWithFlags(false, false)
}

// NewSetupModelWithFlags creates a new setup screen model with flags
func NewSetupModelWithFlags(debug, test bool) SetupModel {
	return NewSetupModelWithConfig(debug, test, intcli.DefaultConfigPath)
}

// NewSetupModelWithConfig creates a new setup screen model with config path
func NewSetupModelWithConfig(debug, test bool, configPath string) SetupModel {
	model := SetupModel{
		focusedField: setupFieldHostAddress,
		portText:     strconv.Itoa(avr.DefaultPort),
		debugMode:    debug,
		testMode:     test,
		configPath:   configPath,
	}

	// Saved profiles are optional; a missing or broken file just means
	// manual entry
	if profiles, err := intcli.NewConfigManager(configPath).ListDevices(); err == nil {
		model.profiles = profiles
	}
	model.selectedProfile = len(model.profiles)
	if len(model.profiles) > 0 {
		model.focusedField = setupFieldProfile
		model.selectedProfile = 0
	}

	return model
}

// IsConnected reports whether a device has been set up
func (m SetupModel) IsConnected() bool {
	return m.device != nil
}

// GetDevice returns the connected device
func (m SetupModel) GetDevice() device.Device {
	return m.device
}

// GetDeviceInfo returns the connected device info
func (m SetupModel) GetDeviceInfo() device.DeviceInfo {
	return m.deviceInfo
}

// GetDebugMode returns the debug flag
func (m SetupModel) GetDebugMode() bool {
	return m.debugMode
}

// GetTestMode returns the test flag
func (m SetupModel) GetTestMode() bool {
	return m.testMode
}

// Update handles setup screen messages
func (m SetupModel) Update(msg tea.Msg) (SetupModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			return m.handleTabNavigation(false), nil
		case "shift+tab":
			return m.handleTabNavigation(true), nil

		case "enter":
			if m.focusedField == setupFieldConnect {
				return m.handleConnect()
			}
			return m.handleTabNavigation(false), nil

		case "up":
			if m.focusedField == setupFieldProfile {
				return m.handleProfileChange(-1), nil
			}
			return m, nil

		case "down":
			if m.focusedField == setupFieldProfile {
				return m.handleProfileChange(1), nil
			}
			return m, nil

		case "left":
			return m.handleCursorMove(-1), nil

		case "right":
			return m.handleCursorMove(1), nil

		case "backspace":
			return m.handleBackspace(), nil

		default:
			return m.handleTextInput(msg.String()), nil
		}
	}

	return m, nil
}

// handleTabNavigation cycles through fields
func (m SetupModel) handleTabNavigation(backwards bool) SetupModel {
	fields := []setupField{setupFieldHostAddress, setupFieldPort, setupFieldConnect}
	if len(m.profiles) > 0 {
		fields = append([]setupField{setupFieldProfile}, fields...)
	}

	current := 0
	for i, field := range fields {
		if field == m.focusedField {
			current = i
			break
		}
	}

	if backwards {
		current = (current - 1 + len(fields)) % len(fields)
	} else {
		current = (current + 1) % len(fields)
	}
	m.focusedField = fields[current]
	return m
}

// handleProfileChange moves the saved profile selection; one past the end
// selects manual entry
func (m SetupModel) handleProfileChange(delta int) SetupModel {
	count := len(m.profiles) + 1
	m.selectedProfile = (m.selectedProfile + delta + count) % count
	return m
}

// handleCursorMove moves the text cursor in the focused field
func (m SetupModel) handleCursorMove(delta int) SetupModel {
	switch m.focusedField {
	case setupFieldHostAddress:
		m.hostAddressCursor = clamp(m.hostAddressCursor+delta, 0, len(m.hostAddress))
	case setupFieldPort:
		m.portCursor = clamp(m.portCursor+delta, 0, len(m.portText))
	}
	return m
}

// handleBackspace deletes before the cursor in the focused field
func (m SetupModel) handleBackspace() SetupModel {
	switch m.focusedField {
	case setupFieldHostAddress:
		if m.hostAddressCursor > 0 {
			m.hostAddress = deleteCharAt(m.hostAddress, m.hostAddressCursor-1)
			m.hostAddressCursor--
		}
	case setupFieldPort:
		if m.portCursor > 0 {
			m.portText = deleteCharAt(m.portText, m.portCursor-1)
			m.portCursor--
		}
	}
	return m
}

// handleTextInput inserts printable input into the focused field
func (m SetupModel) handleTextInput(input string) SetupModel {
	if len(input) != 1 {
		return m
	}

	switch m.focusedField {
	case setupFieldHostAddress:
		m.hostAddress = insertText(m.hostAddress, m.hostAddressCursor, input)
		m.hostAddressCursor++
	case setupFieldPort:
		if input >= "0" && input <= "9" {
			m.portText = insertText(m.portText, m.portCursor, input)
			m.portCursor++
		}
	}
	return m
}

// handleConnect validates the target and creates the device
func (m SetupModel) handleConnect() (SetupModel, tea.Cmd) {
	host := m.hostAddress
	port := 0

	if m.selectedProfile < len(m.profiles) {
		profile := m.profiles[m.selectedProfile]
		host = profile.Host
		port = profile.Port
	} else {
		var err error
		port, err = strconv.Atoi(m.portText)
		if err != nil {
			m.connectionError = "Port must be a number"
			return m, nil
		}
	}

	if strings.TrimSpace(host) == "" && !m.testMode {
		m.connectionError = "Host address is required"
		return m, nil
	}

	var dev device.Device
	if m.testMode {
		dev = newMockDevice()
	} else {
		options := internal.NewModeOptions(
			internal.WithDebug(m.debugMode),
			internal.WithTest(m.testMode),
		)
		dev = avr.NewAvrRemote(host, port, *options)
	}

	// Verify reachability with a power status query before handing the
	// device to the remote screen
	actionJSON, err := device.NewActionJSON(device.ActionTypeQuery, string(device.QueryActionPowerStatus), nil)
	if err != nil {
		m.connectionError = err.Error()
		return m, nil
	}

	response, err := dev.Process(actionJSON)
	if err != nil {
		m.connectionError = err.Error()
		return m, nil
	}
	if !response.Success {
		m.connectionError = response.Error
		return m, nil
	}

	m.device = dev
	m.deviceInfo = dev.GetDeviceInfo()
	m.connectionError = ""
	return m, nil
}

// View renders the setup screen
func (m SetupModel) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render("sonyavr - Speaker Setup"))

	if len(m.profiles) > 0 {
		var lines []string
		lines = append(lines, subtitleStyle.Render("Saved devices"))
		for i, profile := range m.profiles {
			marker := "  "
			if i == m.selectedProfile {
				marker = "> "
			}
			lines = append(lines, fmt.Sprintf("%s%s (%s:%d)", marker, profile.Name, profile.Host, profile.Port))
		}
		manualMarker := "  "
		if m.selectedProfile == len(m.profiles) {
			manualMarker = "> "
		}
		lines = append(lines, manualMarker+"Manual entry")

		block := strings.Join(lines, "\n")
		if m.focusedField == setupFieldProfile {
			block = inputFocusedStyle.Render(block)
		} else {
			block = inputStyle.Render(block)
		}
		sections = append(sections, block)
	}

	hostField := renderTextWithCursor(m.hostAddress, m.hostAddressCursor, m.focusedField == setupFieldHostAddress)
	if m.focusedField == setupFieldHostAddress {
		sections = append(sections, subtitleStyle.Render("Host")+"\n"+inputFocusedStyle.Render(hostField))
	} else {
		sections = append(sections, subtitleStyle.Render("Host")+"\n"+inputStyle.Render(hostField))
	}

	portField := renderTextWithCursor(m.portText, m.portCursor, m.focusedField == setupFieldPort)
	if m.focusedField == setupFieldPort {
		sections = append(sections, subtitleStyle.Render("Port")+"\n"+inputFocusedStyle.Render(portField))
	} else {
		sections = append(sections, subtitleStyle.Render("Port")+"\n"+inputStyle.Render(portField))
	}

	connect := buttonStyle.Render("Connect")
	if m.focusedField == setupFieldConnect {
		connect = buttonActiveStyle.Render("Connect")
	}
	sections = append(sections, connect)

	if m.testMode {
		sections = append(sections, lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB86C")).Render("Test mode: no device required"))
	}

	if m.connectionError != "" {
		sections = append(sections, errorStyle.Render("Error: "+m.connectionError))
	}

	sections = append(sections, helpStyle.Render("tab: next field • enter: connect • q: quit"))

	return strings.Join(sections, "\n\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

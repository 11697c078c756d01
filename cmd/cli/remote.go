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
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sonyavr/internal/device"
)

// RemoteModel handles the remote control screen
type RemoteModel struct {
	// Connected device
	device     device.Device
	deviceInfo device.DeviceInfo

	// Remote control state
	selectedButton  remoteButton
	lastButtonPress time.Time

	// Device state shown in the status bar
	powerStatus  string
	volume       string
	currentInput string

	// Input cycling
	inputs     []string
	inputIndex int

	// Response and history
	lastResponse  *device.ActionResponse
	actionHistory []actionHistoryEntry

	// Flags
	debugMode bool
	testMode  bool

	// Screen dimensions for responsive layout
	width  int
	height int
}

// NewRemoteModelWithFlags creates a new remote control screen model with flags
func NewRemoteModelWithFlags(dev device.Device, info device.DeviceInfo, debug, test bool) RemoteModel {
	m := RemoteModel{
		device:        dev,
		deviceInfo:    info,
		actionHistory: []actionHistoryEntry{},
		debugMode:     debug,
		testMode:      test,
	}
	m.refreshStatus()
	m.refreshInputs()
	return m
}

// Update handles remote control screen messages
func (m RemoteModel) Update(msg tea.Msg) (RemoteModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "p":
			return m.handleRemoteButton(buttonPower)
		case "+", "=":
			return m.handleRemoteButton(buttonVolumeUp)
		case "-":
			return m.handleRemoteButton(buttonVolumeDown)
		case "m":
			return m.handleRemoteButton(buttonMute)
		case "i":
			return m.handleRemoteButton(buttonInputNext)
		case "r":
			return m.handleRemoteButton(buttonRefresh)
		}
	}

	return m, nil
}

// handleRemoteButton executes the action bound to a button and records it
func (m RemoteModel) handleRemoteButton(btn remoteButton) (RemoteModel, tea.Cmd) {
	m.selectedButton = btn
	m.lastButtonPress = time.Now()

	var name string
	var response *device.ActionResponse
	var err error

	switch btn {
	case buttonPower:
		name = "power"
		response, err = m.togglePower()
	case buttonVolumeUp:
		name = "volume up"
		response, err = m.control(device.ControlActionVolumeUp, nil)
	case buttonVolumeDown:
		name = "volume down"
		response, err = m.control(device.ControlActionVolumeDown, nil)
	case buttonMute:
		name = "mute"
		response, err = m.toggleMute()
	case buttonInputNext:
		name = "next input"
		response, err = m.nextInput()
	case buttonRefresh:
		name = "refresh"
		m.refreshStatus()
		m.refreshInputs()
		response = &device.ActionResponse{Success: true, Data: "status refreshed"}
	}

	entry := actionHistoryEntry{
		Timestamp: time.Now(),
		Action:    name,
	}
	if err != nil {
		entry.Error = err.Error()
	} else if response != nil {
		entry.Success = response.Success
		entry.Error = response.Error
		entry.Response = fmt.Sprintf("%v", response.Data)
		m.lastResponse = response
	}
	m.actionHistory = append(m.actionHistory, entry)

	// Commands change device state; reflect it
	if btn != buttonRefresh {
		m.refreshStatus()
	}

	return m, nil
}

// query runs a query action and returns its data
func (m *RemoteModel) query(action device.QueryAction) (interface{}, error) {
	actionJSON, err := device.NewActionJSON(device.ActionTypeQuery, string(action), nil)
	if err != nil {
		return nil, err
	}

	response, err := m.device.Process(actionJSON)
	if err != nil {
		return nil, err
	}
	if !response.Success {
		return nil, fmt.Errorf("%s", response.Error)
	}
	return response.Data, nil
}

// control runs a control action
func (m *RemoteModel) control(action device.ControlAction, params map[string]interface{}) (*device.ActionResponse, error) {
	actionJSON, err := device.NewActionJSON(device.ActionTypeControl, string(action), params)
	if err != nil {
		return nil, err
	}
	return m.device.Process(actionJSON)
}

// togglePower flips the power state based on the current status
func (m *RemoteModel) togglePower() (*device.ActionResponse, error) {
	status, err := m.query(device.QueryActionPowerStatus)
	if err != nil {
		return nil, err
	}

	action := device.ControlActionPowerOn
	if status == "active" {
		action = device.ControlActionPowerOff
	}
	return m.control(action, nil)
}

// toggleMute flips the mute state based on the current volume info
func (m *RemoteModel) toggleMute() (*device.ActionResponse, error) {
	data, err := m.query(device.QueryActionVolumeInfo)
	if err != nil {
		return nil, err
	}

	muted := false
	if raw, err := json.Marshal(data); err == nil {
		var info struct {
			Mute string `json:"mute"`
		}
		if err := json.Unmarshal(raw, &info); err == nil {
			muted = info.Mute == "on"
		}
	}
	return m.control(device.ControlActionSetMute, map[string]interface{}{"status": !muted})
}

// nextInput cycles to the next known input
func (m *RemoteModel) nextInput() (*device.ActionResponse, error) {
	if len(m.inputs) == 0 {
		m.refreshInputs()
	}
	if len(m.inputs) == 0 {
		return nil, fmt.Errorf("no inputs available")
	}

	m.inputIndex = (m.inputIndex + 1) % len(m.inputs)
	return m.control(device.ControlActionSetInput, map[string]interface{}{
		"input": m.inputs[m.inputIndex],
	})
}

// refreshStatus re-queries the state shown in the status bar
func (m *RemoteModel) refreshStatus() {
	if data, err := m.query(device.QueryActionPowerStatus); err == nil {
		m.powerStatus = fmt.Sprintf("%v", data)
	}
	if data, err := m.query(device.QueryActionVolumeInfo); err == nil {
		if raw, err := json.Marshal(data); err == nil {
			var info struct {
				Volume int    `json:"volume"`
				Mute   string `json:"mute"`
			}
			if err := json.Unmarshal(raw, &info); err == nil {
				m.volume = fmt.Sprintf("%d", info.Volume)
				if info.Mute == "on" {
					m.volume += " (muted)"
				}
			}
		}
	}
	if data, err := m.query(device.QueryActionCurrentInput); err == nil {
		m.currentInput = fmt.Sprintf("%v", data)
	}
}

// refreshInputs re-queries the selectable inputs
func (m *RemoteModel) refreshInputs() {
	data, err := m.query(device.QueryActionInputList)
	if err != nil {
		return
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return
	}

	var inputs []string
	if err := json.Unmarshal(raw, &inputs); err != nil {
		return
	}
	m.inputs = inputs

	// Keep the cycle position aligned with the device's current input
	for i, input := range inputs {
		if input == m.currentInput {
			m.inputIndex = i
			break
		}
	}
}

// View renders the remote control screen
func (m RemoteModel) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render("sonyavr - Speaker Remote"))

	deviceLine := successStyle.Render("🔊 " + m.deviceInfo.Model + " @ " + m.deviceInfo.Address)
	if m.testMode {
		deviceLine += " " + lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB86C")).Render("(Test)")
	}
	sections = append(sections, deviceLine)

	sections = append(sections, m.renderButtonRow())
	sections = append(sections, m.renderStatusBar())

	if m.debugMode || m.testMode {
		if history := m.renderHistory(); history != "" {
			sections = append(sections, history)
		}
	}

	sections = append(sections, helpStyle.Render("p: power • +/-: volume • m: mute • i: next input • r: refresh • q: back"))

	return strings.Join(sections, "\n\n")
}

// renderButtonRow draws the remote buttons with a short press highlight
func (m RemoteModel) renderButtonRow() string {
	getButtonStyle := func(btn remoteButton) lipgloss.Style {
		base := remoteButtonStyle
		if m.selectedButton == btn && time.Since(m.lastButtonPress) < 200*time.Millisecond {
			base = remoteButtonActiveStyle
		}
		return base
	}

	return lipgloss.JoinHorizontal(lipgloss.Center,
		getButtonStyle(buttonPower).Render(" PWR "),
		getButtonStyle(buttonVolumeDown).Render(" VOL- "),
		getButtonStyle(buttonVolumeUp).Render(" VOL+ "),
		getButtonStyle(buttonMute).Render(" MUTE "),
		getButtonStyle(buttonInputNext).Render(" INPUT "),
	)
}

// renderStatusBar shows the last known device state
func (m RemoteModel) renderStatusBar() string {
	parts := []string{
		"Power: " + m.powerStatus,
		"Volume: " + m.volume,
		"Input: " + m.currentInput,
	}

	line := subtitleStyle.Render(strings.Join(parts, "  •  "))
	if m.lastResponse != nil && !m.lastResponse.Success {
		line += "\n" + errorStyle.Render("Last action failed: "+m.lastResponse.Error)
	}
	return line
}

// renderHistory shows the most recent actions, newest last
func (m RemoteModel) renderHistory() string {
	const maxLines = 6

	start := 0
	if len(m.actionHistory) > maxLines {
		start = len(m.actionHistory) - maxLines
	}

	var lines []string
	for _, entry := range m.actionHistory[start:] {
		status := successStyle.Render("ok")
		detail := entry.Response
		if entry.Error != "" {
			status = errorStyle.Render("err")
			detail = entry.Error
		}
		lines = append(lines, fmt.Sprintf("%s %s %s %s",
			helpStyle.Render(entry.Timestamp.Format("15:04:05")),
			status, entry.Action, detail))
	}
	return strings.Join(lines, "\n")
}

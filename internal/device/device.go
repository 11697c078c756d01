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

package device

import (
	"encoding/json"
	"fmt"
)

// Device represents a generic device that can process commands
type Device interface {
	// Process handles a JSON-encoded action and executes the corresponding operation
	Process(actionJSON []byte) (*ActionResponse, error)

	// GetDeviceInfo returns basic information about the device
	GetDeviceInfo() DeviceInfo
}

// DeviceInfo contains basic information about a device
type DeviceInfo struct {
	Type         string   `json:"type"`
	Model        string   `json:"model"`
	Address      string   `json:"address"`
	Capabilities []string `json:"capabilities"`
}

// ActionType represents the type of action to perform
type ActionType string

const (
	ActionTypeQuery   ActionType = "query"
	ActionTypeControl ActionType = "control"
)

// ActionRequest represents a JSON action request
type ActionRequest struct {
	Type       ActionType             `json:"type"`       // "query" or "control"
	Action     string                 `json:"action"`     // specific action name
	Parameters map[string]interface{} `json:"parameters"` // optional parameters
}

// ActionResponse represents the response from processing an action
type ActionResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// QueryAction represents available read-only query actions
type QueryAction string

const (
	QueryActionPowerStatus    QueryAction = "power_status"
	QueryActionVolumeInfo     QueryAction = "volume_info"
	QueryActionPlayingContent QueryAction = "playing_content"
	QueryActionCurrentInput   QueryAction = "current_input"
	QueryActionInputList      QueryAction = "input_list"
	QueryActionSchemeList     QueryAction = "scheme_list"
)

// ControlAction represents available state-changing control actions
type ControlAction string

const (
	ControlActionPowerOn    ControlAction = "power_on"
	ControlActionPowerOff   ControlAction = "power_off"
	ControlActionSetVolume  ControlAction = "set_volume"
	ControlActionVolumeUp   ControlAction = "volume_up"
	ControlActionVolumeDown ControlAction = "volume_down"
	ControlActionSetMute    ControlAction = "set_mute"
	ControlActionSetInput   ControlAction = "set_input"
)

// NewActionJSON is a helper to build action JSON payloads for Process
func NewActionJSON(actionType ActionType, action string, parameters map[string]interface{}) ([]byte, error) {
	request := ActionRequest{
		Type:       actionType,
		Action:     action,
		Parameters: parameters,
	}

	return json.Marshal(request)
}

// ParseActionRequest parses JSON input into ActionRequest
func ParseActionRequest(actionJSON []byte) (*ActionRequest, error) {
	var request ActionRequest
	if err := json.Unmarshal(actionJSON, &request); err != nil {
		return nil, fmt.Errorf("failed to parse action request: %w", err)
	}

	// Validate required fields
	if request.Type == "" {
		return nil, fmt.Errorf("action type is required")
	}

	if request.Action == "" {
		return nil, fmt.Errorf("action is required")
	}

	return &request, nil
}

package cli

import (
	"fmt"

	"sonyavr/internal/device"
)

// mockDevice simulates a speaker for --test mode, so the TUI can be
// exercised without a device on the network
type mockDevice struct {
	info    device.DeviceInfo
	power   string
	volume  int
	muted   bool
	inputs  []string
	current int
}

func newMockDevice() *mockDevice {
	return &mockDevice{
		info: device.DeviceInfo{
			Type:    "sony_avr",
			Model:   "Sony AVR/SRS (simulated)",
			Address: "test:0",
			Capabilities: []string{
				"system_control",
				"audio_control",
				"content_control",
			},
		},
		power:  "active",
		volume: 20,
		inputs: []string{"Audio In", "Bluetooth", "HDMI 1"},
	}
}

func (d *mockDevice) GetDeviceInfo() device.DeviceInfo {
	return d.info
}

func (d *mockDevice) Process(actionJSON []byte) (*device.ActionResponse, error) {
	request, err := device.ParseActionRequest(actionJSON)
	if err != nil {
		return &device.ActionResponse{Success: false, Error: err.Error()}, nil
	}

	switch request.Type {
	case device.ActionTypeQuery:
		return d.processQuery(request)
	case device.ActionTypeControl:
		return d.processControl(request)
	default:
		return &device.ActionResponse{
			Success: false,
			Error:   fmt.Sprintf("unsupported action type: %s", request.Type),
		}, nil
	}
}

func (d *mockDevice) processQuery(request *device.ActionRequest) (*device.ActionResponse, error) {
	var data interface{}

	switch device.QueryAction(request.Action) {
	case device.QueryActionPowerStatus:
		data = d.power
	case device.QueryActionVolumeInfo:
		mute := "off"
		if d.muted {
			mute = "on"
		}
		data = map[string]interface{}{
			"volume":    d.volume,
			"minVolume": 0,
			"maxVolume": 50,
			"step":      1,
			"mute":      mute,
		}
	case device.QueryActionPlayingContent:
		data = map[string]interface{}{
			"source":    "extInput:line",
			"stateInfo": map[string]string{"state": "PLAYING"},
		}
	case device.QueryActionCurrentInput:
		data = d.inputs[d.current]
	case device.QueryActionInputList:
		data = d.inputs
	case device.QueryActionSchemeList:
		data = []string{"extInput", "cd"}
	default:
		return &device.ActionResponse{
			Success: false,
			Error:   fmt.Sprintf("unsupported query action: %s", request.Action),
		}, nil
	}

	return &device.ActionResponse{Success: true, Data: data}, nil
}

func (d *mockDevice) processControl(request *device.ActionRequest) (*device.ActionResponse, error) {
	switch device.ControlAction(request.Action) {
	case device.ControlActionPowerOn:
		d.power = "active"
	case device.ControlActionPowerOff:
		d.power = "off"
	case device.ControlActionVolumeUp:
		d.volume++
	case device.ControlActionVolumeDown:
		d.volume--
	case device.ControlActionSetVolume:
		if v, ok := request.Parameters["volume"].(float64); ok {
			d.volume = int(v)
		}
	case device.ControlActionSetMute:
		if s, ok := request.Parameters["status"].(bool); ok {
			d.muted = s
		}
	case device.ControlActionSetInput:
		name, _ := request.Parameters["input"].(string)
		found := false
		for i, input := range d.inputs {
			if input == name {
				d.current = i
				found = true
				break
			}
		}
		if !found {
			return &device.ActionResponse{
				Success: false,
				Error:   fmt.Sprintf("unknown input: %s", name),
			}, nil
		}
	default:
		return &device.ActionResponse{
			Success: false,
			Error:   fmt.Sprintf("unsupported control action: %s", request.Action),
		}, nil
	}

	return &device.ActionResponse{
		Success: true,
		Data:    fmt.Sprintf("Control action '%s' executed successfully", request.Action),
	}, nil
}

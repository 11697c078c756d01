package avr

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"sonyavr/internal"
	"sonyavr/internal/device"
	"sonyavr/internal/logger"
)

// AvrRemote implements the Device interface for Sony AVR/SRS speakers
type AvrRemote struct {
	client   *AvrClient
	resolver *SourceResolver
	info     device.DeviceInfo
	logger   zerolog.Logger
}

// NewAvrRemote creates a new AvrRemote device
func NewAvrRemote(host string, port int, options internal.FnModeOptions) *AvrRemote {
	client := NewAvrClient(host, port, options)

	return &AvrRemote{
		client:   client,
		resolver: NewSourceResolver(client),
		info: device.DeviceInfo{
			Type:    "sony_avr",
			Model:   "Sony AVR/SRS",
			Address: fmt.Sprintf("%s:%d", host, port),
			Capabilities: []string{
				"system_control",
				"audio_control",
				"content_control",
				"source_resolution",
			},
		},
		logger: logger.New(),
	}
}

// GetDeviceInfo returns information about this AVR device
func (ar *AvrRemote) GetDeviceInfo() device.DeviceInfo {
	return ar.info
}

// Client returns the underlying API client
func (ar *AvrRemote) Client() *AvrClient {
	return ar.client
}

// Resolver returns the source resolver backed by this device's client
func (ar *AvrRemote) Resolver() *SourceResolver {
	return ar.resolver
}

// PowerStatus returns the current power status ("active" or "off"). An
// empty string means the firmware did not answer the method.
func (ar *AvrRemote) PowerStatus() (string, error) {
	raw, err := ar.client.Call(SystemEndpoint, GetPowerStatus, V11, nil)
	if err != nil {
		return "", err
	}
	if raw == nil {
		return "", nil
	}

	var result []struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", err
	}
	if len(result) == 0 {
		return "", nil
	}
	return result[0].Status, nil
}

// IsOn reports whether the device is currently powered on
func (ar *AvrRemote) IsOn() (bool, error) {
	status, err := ar.PowerStatus()
	if err != nil {
		return false, err
	}
	return status == PowerStatusActive, nil
}

func (ar *AvrRemote) setPowerStatus(status string) error {
	params := []interface{}{
		map[string]string{"status": status},
	}
	_, err := ar.client.Call(SystemEndpoint, SetPowerStatus, V11, params)
	return err
}

// TurnOn turns the device on
func (ar *AvrRemote) TurnOn() error {
	return ar.setPowerStatus(PowerStatusActive)
}

// TurnOff turns the device off
func (ar *AvrRemote) TurnOff() error {
	return ar.setPowerStatus(PowerStatusOff)
}

// PlayingContentInfo returns the current playback state of the device
func (ar *AvrRemote) PlayingContentInfo() (MediaInfo, error) {
	params := []interface{}{
		map[string]string{"output": ""},
	}
	raw, err := ar.client.Call(AVContentEndpoint, GetPlayingContentInfo, V12, params)
	if err != nil {
		return MediaInfo{}, err
	}
	if raw == nil {
		return MediaInfo{}, nil
	}

	// v1.2 wraps the media info in a per-output list of lists
	var result [][]MediaInfo
	if err := json.Unmarshal(raw, &result); err != nil {
		return MediaInfo{}, err
	}
	if len(result) == 0 || len(result[0]) == 0 {
		return MediaInfo{}, nil
	}
	return result[0][0], nil
}

// State returns the current playback state (playing, stopped, ...)
func (ar *AvrRemote) State() (string, error) {
	media, err := ar.PlayingContentInfo()
	if err != nil {
		return "", err
	}
	return media.StateInfo.State, nil
}

// CurrentInput returns the title of the currently active input. When the
// URI cannot be resolved to a known source the raw URI is returned instead.
func (ar *AvrRemote) CurrentInput() (string, error) {
	media, err := ar.PlayingContentInfo()
	if err != nil {
		return "", err
	}

	title, ok, err := ar.resolver.ResolveTitle(media.Source)
	if err != nil {
		return "", err
	}
	if !ok {
		ar.logger.Warn().
			Str("uri", media.Source).
			Msg("Unable to find source title for source")
		return media.Source, nil
	}
	return title, nil
}

// VolumeInfo returns the current volume levels, stepping and mute state
func (ar *AvrRemote) VolumeInfo() (VolumeInfo, error) {
	params := []interface{}{
		map[string]string{"output": ""},
	}
	raw, err := ar.client.Call(AudioEndpoint, GetVolumeInformation, V11, params)
	if err != nil {
		return VolumeInfo{}, err
	}
	if raw == nil {
		return VolumeInfo{}, nil
	}

	var result [][]VolumeInfo
	if err := json.Unmarshal(raw, &result); err != nil {
		return VolumeInfo{}, err
	}
	if len(result) == 0 || len(result[0]) == 0 {
		return VolumeInfo{}, nil
	}
	return result[0][0], nil
}

// Volume returns the current volume level
func (ar *AvrRemote) Volume() (int, error) {
	info, err := ar.VolumeInfo()
	if err != nil {
		return 0, err
	}
	return info.Volume, nil
}

// IsMuted reports whether the speaker is currently muted
func (ar *AvrRemote) IsMuted() (bool, error) {
	info, err := ar.VolumeInfo()
	if err != nil {
		return false, err
	}
	return info.Mute == MuteOn, nil
}

// SetVolume sets the absolute volume level
func (ar *AvrRemote) SetVolume(level int) error {
	params := []interface{}{
		map[string]string{
			"output": "",
			"volume": strconv.Itoa(level),
		},
	}
	_, err := ar.client.Call(AudioEndpoint, SetAudioVolume, V11, params)
	return err
}

// SetVolumeFraction sets the volume as a fraction of the device maximum.
// The fraction is validated before any network call; out-of-range values
// are never sent to the device.
func (ar *AvrRemote) SetVolumeFraction(fraction float64) error {
	if fraction < 0.0 || fraction >= 1.0 {
		return fmt.Errorf("volume fraction must be in [0, 1), got %v", fraction)
	}

	info, err := ar.VolumeInfo()
	if err != nil {
		return err
	}
	return ar.SetVolume(int(float64(info.MaxVolume) * fraction))
}

// RaiseVolume raises the volume by the given number of device steps
func (ar *AvrRemote) RaiseVolume(times int) error {
	info, err := ar.VolumeInfo()
	if err != nil {
		return err
	}
	return ar.SetVolume(info.Volume + times*info.Step)
}

// LowerVolume lowers the volume by the given number of device steps
func (ar *AvrRemote) LowerVolume(times int) error {
	info, err := ar.VolumeInfo()
	if err != nil {
		return err
	}
	return ar.SetVolume(info.Volume - times*info.Step)
}

// SetMute mutes or unmutes the speaker
func (ar *AvrRemote) SetMute(mute bool) error {
	status := MuteOff
	if mute {
		status = MuteOn
	}

	params := []interface{}{
		map[string]string{
			"output": "",
			"mute":   status,
		},
	}
	_, err := ar.client.Call(AudioEndpoint, SetAudioMute, V11, params)
	return err
}

// Mute mutes the speaker
func (ar *AvrRemote) Mute() error {
	return ar.SetMute(true)
}

// Unmute unmutes the speaker
func (ar *AvrRemote) Unmute() error {
	return ar.SetMute(false)
}

// Inputs returns the titles of all available inputs, sorted
func (ar *AvrRemote) Inputs() ([]string, error) {
	sources, err := ar.resolver.AllSources()
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(sources))
	for _, source := range sources {
		titles = append(titles, source.Title)
	}
	sort.Strings(titles)
	return titles, nil
}

// SetInput switches the active input to the source with the given title.
// An unresolvable title is a hard error; the device is never asked to
// switch to a guessed URI.
func (ar *AvrRemote) SetInput(title string) error {
	uri, ok, err := ar.resolver.ResolveURI(title)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("unknown input: %s", title)
	}

	params := []interface{}{
		map[string]string{"uri": uri},
	}
	_, err = ar.client.Call(AVContentEndpoint, SetPlayContent, V12, params)
	return err
}

// SupportedAPIs returns the device's own description of the API surface
// it supports. Best-effort: old firmware may answer nothing.
func (ar *AvrRemote) SupportedAPIs() ([]ApiInfo, error) {
	params := []interface{}{
		map[string]string{},
	}
	raw, err := ar.client.Call(GuideEndpoint, GetSupportedApiInfo, V10, params)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var result [][]ApiInfo
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, nil
	}
	return result[0], nil
}

// SupportedMethods returns the supported methods as "service.method" strings
func (ar *AvrRemote) SupportedMethods() ([]string, error) {
	apis, err := ar.SupportedAPIs()
	if err != nil {
		return nil, err
	}

	var methods []string
	for _, api := range apis {
		for _, m := range api.APIs {
			methods = append(methods, fmt.Sprintf("%s.%s", api.Service, m.Name))
		}
	}
	return methods, nil
}

// Services returns the service groups the device exposes
func (ar *AvrRemote) Services() ([]string, error) {
	apis, err := ar.SupportedAPIs()
	if err != nil {
		return nil, err
	}

	services := make([]string, 0, len(apis))
	for _, api := range apis {
		services = append(services, api.Service)
	}
	return services, nil
}

// MethodTypes returns the signature description for a qualified
// "endpoint.method" name, as reported by getMethodTypes. When the method
// is not listed, the full introspection answer is returned instead.
func (ar *AvrRemote) MethodTypes(qualified string) (json.RawMessage, error) {
	endpoint, method, found := strings.Cut(qualified, ".")
	if !found {
		return nil, fmt.Errorf("expected endpoint.method, got %q", qualified)
	}

	params := []interface{}{""}
	raw, err := ar.client.Call(AvrEndpoint(endpoint), GetMethodTypes, V10, params)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	// getMethodTypes answers under "results" with heterogeneous entries:
	// [name, [param types], [return types], version]
	var entries [][]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if len(entry) < 2 {
			continue
		}
		var name string
		if err := json.Unmarshal(entry[0], &name); err != nil {
			continue
		}
		if name == method {
			return entry[1], nil
		}
	}
	return raw, nil
}

// Process handles JSON action requests and routes them to appropriate methods
func (ar *AvrRemote) Process(actionJSON []byte) (*device.ActionResponse, error) {
	request, err := device.ParseActionRequest(actionJSON)
	if err != nil {
		return &device.ActionResponse{
			Success: false,
			Error:   err.Error(),
		}, nil
	}

	switch request.Type {
	case device.ActionTypeQuery:
		return ar.processQueryAction(request)
	case device.ActionTypeControl:
		return ar.processControlAction(request)
	default:
		return &device.ActionResponse{
			Success: false,
			Error:   fmt.Sprintf("unsupported action type: %s", request.Type),
		}, nil
	}
}

// processQueryAction handles read-only query actions
func (ar *AvrRemote) processQueryAction(request *device.ActionRequest) (*device.ActionResponse, error) {
	var data interface{}
	var err error

	switch device.QueryAction(request.Action) {
	case device.QueryActionPowerStatus:
		data, err = ar.PowerStatus()
	case device.QueryActionVolumeInfo:
		data, err = ar.VolumeInfo()
	case device.QueryActionPlayingContent:
		data, err = ar.PlayingContentInfo()
	case device.QueryActionCurrentInput:
		data, err = ar.CurrentInput()
	case device.QueryActionInputList:
		data, err = ar.Inputs()
	case device.QueryActionSchemeList:
		data, err = ar.resolver.SchemeList()
	default:
		return &device.ActionResponse{
			Success: false,
			Error:   fmt.Sprintf("unsupported query action: %s", request.Action),
		}, nil
	}

	if err != nil {
		return &device.ActionResponse{
			Success: false,
			Error:   fmt.Sprintf("query failed: %v", err),
		}, nil
	}

	return &device.ActionResponse{
		Success: true,
		Data:    data,
	}, nil
}

// processControlAction handles state-changing control actions
func (ar *AvrRemote) processControlAction(request *device.ActionRequest) (*device.ActionResponse, error) {
	var err error

	switch device.ControlAction(request.Action) {
	case device.ControlActionPowerOn:
		err = ar.TurnOn()
	case device.ControlActionPowerOff:
		err = ar.TurnOff()
	case device.ControlActionSetVolume:
		err = ar.controlSetVolume(request.Parameters)
	case device.ControlActionVolumeUp:
		err = ar.RaiseVolume(timesParameter(request.Parameters))
	case device.ControlActionVolumeDown:
		err = ar.LowerVolume(timesParameter(request.Parameters))
	case device.ControlActionSetMute:
		err = ar.controlSetMute(request.Parameters)
	case device.ControlActionSetInput:
		err = ar.controlSetInput(request.Parameters)
	default:
		return &device.ActionResponse{
			Success: false,
			Error:   fmt.Sprintf("unsupported control action: %s", request.Action),
		}, nil
	}

	if err != nil {
		return &device.ActionResponse{
			Success: false,
			Error:   fmt.Sprintf("control request failed: %v", err),
		}, nil
	}

	return &device.ActionResponse{
		Success: true,
		Data:    fmt.Sprintf("Control action '%s' executed successfully", request.Action),
	}, nil
}

// controlSetVolume extracts the volume parameter. A number below 1.0 is
// treated as a fraction of the device maximum, everything else as an
// absolute level.
func (ar *AvrRemote) controlSetVolume(requestParams map[string]interface{}) error {
	if requestParams == nil {
		return fmt.Errorf("parameters are required for set_volume action")
	}

	volume, exists := requestParams["volume"]
	if !exists {
		return fmt.Errorf("volume parameter is required for set_volume action")
	}

	switch v := volume.(type) {
	case int:
		return ar.SetVolume(v)
	case float64:
		if v == float64(int(v)) && v >= 1.0 {
			return ar.SetVolume(int(v))
		}
		return ar.SetVolumeFraction(v)
	case string:
		level, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid volume parameter: %q", v)
		}
		return ar.SetVolume(level)
	default:
		return fmt.Errorf("invalid volume parameter type")
	}
}

// controlSetMute extracts the status parameter for set_mute
func (ar *AvrRemote) controlSetMute(requestParams map[string]interface{}) error {
	if requestParams == nil {
		return fmt.Errorf("parameters are required for set_mute action")
	}

	status, exists := requestParams["status"]
	if !exists {
		return fmt.Errorf("status parameter is required for set_mute action")
	}

	switch s := status.(type) {
	case bool:
		return ar.SetMute(s)
	case string:
		return ar.SetMute(s == "on" || s == "true")
	default:
		return fmt.Errorf("invalid status parameter type")
	}
}

// controlSetInput extracts the input parameter for set_input
func (ar *AvrRemote) controlSetInput(requestParams map[string]interface{}) error {
	if requestParams == nil {
		return fmt.Errorf("parameters are required for set_input action")
	}

	input, exists := requestParams["input"]
	if !exists {
		return fmt.Errorf("input parameter is required for set_input action")
	}

	title, ok := input.(string)
	if !ok {
		return fmt.Errorf("invalid input parameter type")
	}
	return ar.SetInput(title)
}

// timesParameter reads an optional step multiplier, defaulting to one
func timesParameter(requestParams map[string]interface{}) int {
	if requestParams == nil {
		return 1
	}

	switch v := requestParams["times"].(type) {
	case int:
		if v > 0 {
			return v
		}
	case float64:
		if v > 0 {
			return int(v)
		}
	}
	return 1
}

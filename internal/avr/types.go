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

package avr

import (
	"encoding/json"
	"fmt"
)

// AvrEndpoint represents a service group addressed in the URL path
type AvrEndpoint string

// AvrMethod represents an API method within an endpoint
type AvrMethod string

// AvrVersion represents the wire revision of a method
type AvrVersion string

// AvrPayload represents the JSON payload structure for API requests
type AvrPayload struct {
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	Version string        `json:"version"`
}

// avrEnvelope is the response shape shared by all endpoints. Regular
// endpoints answer under "result"; method introspection answers under
// "results". The "error" object is opaque and only ever logged.
type avrEnvelope struct {
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Results json.RawMessage `json:"results"`
	Error   json.RawMessage `json:"error"`
}

// Source represents one selectable input. The device reports the URI
// under the "source" key on the wire.
type Source struct {
	URI   string `json:"source"`
	Title string `json:"title"`
}

// VolumeInfo represents the volume state reported by getVolumeInformation
type VolumeInfo struct {
	Output    string `json:"output"`
	Volume    int    `json:"volume"`
	MinVolume int    `json:"minVolume"`
	MaxVolume int    `json:"maxVolume"`
	Step      int    `json:"step"`
	Mute      string `json:"mute"`
}

// MediaInfo represents the playback state reported by getPlayingContentInfo
type MediaInfo struct {
	Source    string `json:"source"`
	URI       string `json:"uri"`
	StateInfo struct {
		State string `json:"state"`
	} `json:"stateInfo"`
}

// ApiInfo represents one service entry from getSupportedApiInfo
type ApiInfo struct {
	Service string `json:"service"`
	APIs    []struct {
		Name string `json:"name"`
	} `json:"apis"`
}

// StatusError reports an HTTP-level failure. A StatusError is always
// terminal for the call, unlike a JSON-level "error" object with a 2xx
// status, which is only logged.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("control request failed with status %d: %s", e.Code, e.Body)
}

// NewPayload creates a request payload with the given id. A nil params
// slice is sent as an empty JSON array, which the device requires.
func NewPayload(id int, method AvrMethod, version AvrVersion, params []interface{}) AvrPayload {
	if params == nil {
		params = []interface{}{}
	}

	return AvrPayload{
		ID:      id,
		Method:  string(method),
		Params:  params,
		Version: string(version),
	}
}

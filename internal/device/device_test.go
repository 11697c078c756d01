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

package device_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sonyavr/internal/device"
)

func TestParseActionRequest(t *testing.T) {
	t.Run("parses a full request", func(t *testing.T) {
		request, err := device.ParseActionRequest([]byte(
			`{"type": "control", "action": "set_volume", "parameters": {"volume": 30}}`))

		require.NoError(t, err)
		assert.Equal(t, device.ActionTypeControl, request.Type)
		assert.Equal(t, "set_volume", request.Action)
		assert.Equal(t, float64(30), request.Parameters["volume"])
	})

	t.Run("parameters are optional", func(t *testing.T) {
		request, err := device.ParseActionRequest([]byte(
			`{"type": "query", "action": "power_status"}`))

		require.NoError(t, err)
		assert.Equal(t, device.ActionTypeQuery, request.Type)
		assert.Nil(t, request.Parameters)
	})

	t.Run("rejects missing type", func(t *testing.T) {
		_, err := device.ParseActionRequest([]byte(`{"action": "power_status"}`))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "action type is required")
	})

	t.Run("rejects missing action", func(t *testing.T) {
		_, err := device.ParseActionRequest([]byte(`{"type": "query"}`))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "action is required")
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		_, err := device.ParseActionRequest([]byte(`{not json`))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse action request")
	})
}

func TestNewActionJSON(t *testing.T) {
	t.Run("round-trips through ParseActionRequest", func(t *testing.T) {
		actionJSON, err := device.NewActionJSON(device.ActionTypeControl, "set_input",
			map[string]interface{}{"input": "HDMI 1"})
		require.NoError(t, err)

		request, err := device.ParseActionRequest(actionJSON)
		require.NoError(t, err)
		assert.Equal(t, device.ActionTypeControl, request.Type)
		assert.Equal(t, "set_input", request.Action)
		assert.Equal(t, "HDMI 1", request.Parameters["input"])
	})

	t.Run("omits nil parameters", func(t *testing.T) {
		actionJSON, err := device.NewActionJSON(device.ActionTypeQuery, "volume_info", nil)
		require.NoError(t, err)

		request, err := device.ParseActionRequest(actionJSON)
		require.NoError(t, err)
		assert.Nil(t, request.Parameters)
	})
}

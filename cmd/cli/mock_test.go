package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sonyavr/internal/device"
)

func mockAction(t *testing.T, actionType device.ActionType, action string, params map[string]interface{}) *device.ActionResponse {
	t.Helper()

	actionJSON, err := device.NewActionJSON(actionType, action, params)
	require.NoError(t, err)

	response, err := newMockDevice().Process(actionJSON)
	require.NoError(t, err)
	return response
}

func TestMockDevice(t *testing.T) {
	t.Run("answers the queries the remote screen needs", func(t *testing.T) {
		response := mockAction(t, device.ActionTypeQuery, "power_status", nil)
		assert.True(t, response.Success)
		assert.Equal(t, "active", response.Data)

		response = mockAction(t, device.ActionTypeQuery, "input_list", nil)
		assert.True(t, response.Success)
		assert.Equal(t, []string{"Audio In", "Bluetooth", "HDMI 1"}, response.Data)
	})

	t.Run("control actions mutate its state", func(t *testing.T) {
		mock := newMockDevice()

		actionJSON, err := device.NewActionJSON(device.ActionTypeControl, "volume_up", nil)
		require.NoError(t, err)
		response, err := mock.Process(actionJSON)
		require.NoError(t, err)
		assert.True(t, response.Success)

		actionJSON, err = device.NewActionJSON(device.ActionTypeQuery, "volume_info", nil)
		require.NoError(t, err)
		response, err = mock.Process(actionJSON)
		require.NoError(t, err)

		info, ok := response.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, 21, info["volume"])
	})

	t.Run("rejects unknown inputs like a real device", func(t *testing.T) {
		response := mockAction(t, device.ActionTypeControl, "set_input",
			map[string]interface{}{"input": "Nonexistent"})
		assert.False(t, response.Success)
		assert.Contains(t, response.Error, "unknown input")
	})

	t.Run("rejects unknown actions", func(t *testing.T) {
		response := mockAction(t, device.ActionTypeQuery, "self_destruct", nil)
		assert.False(t, response.Success)
		assert.Contains(t, response.Error, "unsupported query action")
	})
}

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

package avr_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sonyavr/internal"
	"sonyavr/internal/avr"
)

// recordedRequest captures one decoded exchange with the mock device
type recordedRequest struct {
	Path    string
	Payload avr.AvrPayload
}

// deviceHandler answers one decoded request with a status and a body
type deviceHandler func(path string, payload avr.AvrPayload) (int, string)

// startDevice runs a mock device server and records every request it sees
func startDevice(t *testing.T, handler deviceHandler) (*httptest.Server, *[]recordedRequest) {
	t.Helper()

	requests := &[]recordedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var payload avr.AvrPayload
		require.NoError(t, json.Unmarshal(body, &payload))
		*requests = append(*requests, recordedRequest{Path: r.URL.Path, Payload: payload})

		status, response := handler(r.URL.Path, payload)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)

	return server, requests
}

// hostPort splits an httptest server URL into client constructor arguments
func hostPort(t *testing.T, serverURL string) (string, int) {
	t.Helper()

	u, err := url.Parse(serverURL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)
	return u.Hostname(), port
}

// createTestClient creates a client against a mock device with a fixed id
func createTestClient(t *testing.T, serverURL string, id int) *avr.AvrClient {
	t.Helper()

	host, port := hostPort(t, serverURL)
	options := internal.FnModeOptions{Debug: false, Test: false}
	return avr.NewAvrClientWithIDSource(host, port, options, func() int { return id })
}

func TestNewPayload(t *testing.T) {
	t.Run("creates payload with params", func(t *testing.T) {
		params := []interface{}{
			map[string]string{"scheme": "extInput"},
		}

		payload := avr.NewPayload(123, avr.GetSourceList, avr.V12, params)

		assert.Equal(t, 123, payload.ID)
		assert.Equal(t, "getSourceList", payload.Method)
		assert.Equal(t, "1.2", payload.Version)
		assert.Equal(t, params, payload.Params)
	})

	t.Run("creates payload without params", func(t *testing.T) {
		payload := avr.NewPayload(456, avr.GetPowerStatus, avr.V11, nil)

		assert.Equal(t, 456, payload.ID)
		assert.Equal(t, "getPowerStatus", payload.Method)
		assert.Equal(t, "1.1", payload.Version)
		assert.Equal(t, []interface{}{}, payload.Params)
	})
}

func TestCall(t *testing.T) {
	t.Run("sends documented request body with injected id", func(t *testing.T) {
		server, requests := startDevice(t, func(path string, payload avr.AvrPayload) (int, string) {
			return http.StatusOK, `{"id": 4242, "result": [["ok"]]}`
		})

		client := createTestClient(t, server.URL, 4242)
		result, err := client.Call(avr.AVContentEndpoint, avr.GetSchemeList, avr.V10, nil)

		require.NoError(t, err)
		assert.JSONEq(t, `[["ok"]]`, string(result))

		require.Len(t, *requests, 1)
		request := (*requests)[0]
		assert.Equal(t, "/sony/avContent", request.Path)
		assert.Equal(t, 4242, request.Payload.ID)
		assert.Equal(t, "getSchemeList", request.Payload.Method)
		assert.Equal(t, "1.0", request.Payload.Version)
		assert.Equal(t, []interface{}{}, request.Payload.Params)
	})

	t.Run("sends params in order", func(t *testing.T) {
		server, requests := startDevice(t, func(path string, payload avr.AvrPayload) (int, string) {
			return http.StatusOK, `{"id": 1, "result": []}`
		})

		client := createTestClient(t, server.URL, 1)
		params := []interface{}{
			map[string]string{"scheme": "extInput"},
		}
		_, err := client.Call(avr.AVContentEndpoint, avr.GetSourceList, avr.V12, params)

		require.NoError(t, err)
		require.Len(t, *requests, 1)
		require.Len(t, (*requests)[0].Payload.Params, 1)
		assert.Equal(t,
			map[string]interface{}{"scheme": "extInput"},
			(*requests)[0].Payload.Params[0])
	})

	t.Run("default ids stay in the configured range", func(t *testing.T) {
		server, requests := startDevice(t, func(path string, payload avr.AvrPayload) (int, string) {
			return http.StatusOK, `{"id": 0, "result": []}`
		})

		host, port := hostPort(t, server.URL)
		client := avr.NewAvrClient(host, port, internal.FnModeOptions{})

		for i := 0; i < 20; i++ {
			_, err := client.Call(avr.SystemEndpoint, avr.GetPowerStatus, avr.V11, nil)
			require.NoError(t, err)
		}

		for _, request := range *requests {
			assert.GreaterOrEqual(t, request.Payload.ID, 0)
			assert.Less(t, request.Payload.ID, avr.RequestIDBound)
		}
	})

	t.Run("HTTP error status is fatal regardless of body", func(t *testing.T) {
		server, _ := startDevice(t, func(path string, payload avr.AvrPayload) (int, string) {
			// A well-formed success body must not rescue a failed status
			return http.StatusInternalServerError, `{"id": 1, "result": [["ok"]]}`
		})

		client := createTestClient(t, server.URL, 1)
		result, err := client.Call(avr.SystemEndpoint, avr.GetPowerStatus, avr.V11, nil)

		require.Error(t, err)
		assert.Nil(t, result)

		var statusErr *avr.StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
	})

	t.Run("JSON error key with success status is soft", func(t *testing.T) {
		server, _ := startDevice(t, func(path string, payload avr.AvrPayload) (int, string) {
			return http.StatusOK, `{"id": 7, "error": [12, "something"], "result": [["still here"]]}`
		})

		client := createTestClient(t, server.URL, 7)
		result, err := client.Call(avr.SystemEndpoint, avr.GetPowerStatus, avr.V11, nil)

		require.NoError(t, err)
		assert.JSONEq(t, `[["still here"]]`, string(result))
	})

	t.Run("id mismatch is non-fatal", func(t *testing.T) {
		server, _ := startDevice(t, func(path string, payload avr.AvrPayload) (int, string) {
			return http.StatusOK, `{"id": 9999, "result": [["value"]]}`
		})

		client := createTestClient(t, server.URL, 10)
		result, err := client.Call(avr.SystemEndpoint, avr.GetPowerStatus, avr.V11, nil)

		require.NoError(t, err)
		assert.JSONEq(t, `[["value"]]`, string(result))
	})

	t.Run("extracts result key", func(t *testing.T) {
		server, _ := startDevice(t, func(path string, payload avr.AvrPayload) (int, string) {
			return http.StatusOK, `{"id": 1, "result": [{"status": "active"}]}`
		})

		client := createTestClient(t, server.URL, 1)
		result, err := client.Call(avr.SystemEndpoint, avr.GetPowerStatus, avr.V11, nil)

		require.NoError(t, err)
		assert.JSONEq(t, `[{"status": "active"}]`, string(result))
	})

	t.Run("falls back to results key", func(t *testing.T) {
		server, _ := startDevice(t, func(path string, payload avr.AvrPayload) (int, string) {
			return http.StatusOK, `{"id": 1, "results": [["getPowerStatus", [], [], "1.1"]]}`
		})

		client := createTestClient(t, server.URL, 1)
		result, err := client.Call(avr.SystemEndpoint, avr.GetMethodTypes, avr.V10, []interface{}{""})

		require.NoError(t, err)
		assert.JSONEq(t, `[["getPowerStatus", [], [], "1.1"]]`, string(result))
	})

	t.Run("null result means no data and wins over results", func(t *testing.T) {
		server, _ := startDevice(t, func(path string, payload avr.AvrPayload) (int, string) {
			return http.StatusOK, `{"id": 1, "result": null, "results": [["ignored"]]}`
		})

		client := createTestClient(t, server.URL, 1)
		result, err := client.Call(avr.SystemEndpoint, avr.GetPowerStatus, avr.V11, nil)

		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("missing both result keys yields nil", func(t *testing.T) {
		server, _ := startDevice(t, func(path string, payload avr.AvrPayload) (int, string) {
			return http.StatusOK, `{"id": 1}`
		})

		client := createTestClient(t, server.URL, 1)
		result, err := client.Call(avr.SystemEndpoint, avr.GetPowerStatus, avr.V11, nil)

		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("non-JSON body is a transport failure", func(t *testing.T) {
		server, _ := startDevice(t, func(path string, payload avr.AvrPayload) (int, string) {
			return http.StatusOK, `not json{`
		})

		client := createTestClient(t, server.URL, 1)
		result, err := client.Call(avr.SystemEndpoint, avr.GetPowerStatus, avr.V11, nil)

		require.Error(t, err)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "invalid JSON response")
	})

	t.Run("handles network errors", func(t *testing.T) {
		options := internal.FnModeOptions{Debug: false, Test: false}
		client := avr.NewAvrClient("invalid-host", 54480, options)

		result, err := client.Call(avr.SystemEndpoint, avr.GetPowerStatus, avr.V11, nil)

		require.Error(t, err)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "failed to send control request")
	})
}

package avr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"sonyavr/internal"
	"sonyavr/internal/logger"
)

// IDSource produces request ids for outgoing API calls
type IDSource func() int

// AvrClient represents a client for the Sony AVR/SRS JSON control API
type AvrClient struct {
	httpClient *http.Client
	host       string
	port       int
	nextID     IDSource
	debug      bool
	logger     zerolog.Logger
}

// NewAvrClient creates a new AVR client instance
func NewAvrClient(host string, port int, options internal.FnModeOptions) *AvrClient {
	client := &AvrClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		host: host,
		port: port,
		nextID: func() int {
			return rand.Intn(RequestIDBound)
		},
		debug:  options.Debug,
		logger: logger.New(),
	}

	if options.Debug {
		logger.SetLevel("debug")
	}

	return client
}

// NewAvrClientWithIDSource creates a new AVR client with a caller-supplied
// request id source, so exact request bodies can be asserted in tests
func NewAvrClientWithIDSource(host string, port int, options internal.FnModeOptions, ids IDSource) *AvrClient {
	client := NewAvrClient(host, port, options)
	client.nextID = ids
	return client
}

// Host returns the device host this client talks to
func (c *AvrClient) Host() string {
	return c.host
}

// Port returns the device control port this client talks to
func (c *AvrClient) Port() int {
	return c.port
}

// Call performs a single API exchange and returns the raw result value.
//
// Error handling is deliberately two-staged to stay tolerant of firmware
// quirks: an "error" object in a 2xx body and a mismatched response id are
// logged and the call continues, while a non-2xx HTTP status is terminal.
// The result is taken from "result" when present, else "results" (method
// introspection answers there), else nil; callers treat nil as
// "unsupported by this firmware".
func (c *AvrClient) Call(endpoint AvrEndpoint, method AvrMethod, version AvrVersion, params []interface{}) (json.RawMessage, error) {
	payload := NewPayload(c.nextID(), method, version, params)

	// Marshal payload to JSON
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	// Build URL
	url := fmt.Sprintf("http://%s:%d/sony/%s", c.host, c.port, endpoint)

	// Create request
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create control request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if c.debug {
		c.logger.Debug().
			Str("url", url).
			Str("method", payload.Method).
			Str("payload", string(jsonData)).
			Msg("Sending control API request")
	}

	// Send request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send control request: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		c.logger.Debug().
			Int("status", resp.StatusCode).
			Str("body", string(rawBody)).
			Msg("Control API request completed")
	}

	// A non-JSON body is a transport failure, whatever the status was
	var envelope avrEnvelope
	if err := json.Unmarshal(rawBody, &envelope); err != nil {
		return nil, fmt.Errorf("invalid JSON response: %w", err)
	}

	httpFailed := resp.StatusCode < 200 || resp.StatusCode >= 300

	// Diagnostics first, verdict after: both anomaly classes get reported
	// before the call decides whether to fail
	if httpFailed || len(envelope.Error) > 0 {
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("method", payload.Method).
			RawJSON("body", rawBody).
			Msg("Device reported an error")
	}
	if envelope.ID != payload.ID {
		c.logger.Warn().
			Int("request_id", payload.ID).
			Int("response_id", envelope.ID).
			Msg("The request id in the response differs")
	}

	// Only an HTTP failure is terminal; an "error" object under a 2xx
	// status is a known firmware quirk and must not abort the call
	if httpFailed {
		return nil, &StatusError{Code: resp.StatusCode, Body: rawBody}
	}

	// A key holding a literal null counts as present with no data, so a
	// null "result" never falls through to "results"
	if len(envelope.Result) > 0 {
		if string(envelope.Result) == "null" {
			return nil, nil
		}
		return envelope.Result, nil
	}
	if len(envelope.Results) > 0 {
		if string(envelope.Results) == "null" {
			return nil, nil
		}
		return envelope.Results, nil
	}
	return nil, nil
}

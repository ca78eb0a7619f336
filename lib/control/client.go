// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package control

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/garrison-works/garrison/lib/codec"
	"github.com/garrison-works/garrison/lib/session"
)

// dialTimeout caps the connect phase of a call.
const dialTimeout = 5 * time.Second

// responseTimeout is how long the client waits for the daemon's reply
// after writing the request. Generous enough to cover a say that has
// to push a chat line through a slow game connection.
const responseTimeout = 30 * time.Second

// maxResponseSize caps a single CBOR response. A status report for a
// large fleet is a few kilobytes.
const maxResponseSize = 1024 * 1024

// CallError is returned by Call when the daemon answers ok=false. It
// carries the action name and the daemon's message so callers can
// tell protocol failures from transport failures.
type CallError struct {
	Action  string
	Message string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("control error on %q: %s", e.Action, e.Message)
}

// Client issues requests against a garrison control socket. Each call
// opens its own connection, mirroring the server's one-request-per-
// connection model, so a Client is safe for concurrent use.
type Client struct {
	socketPath string
}

// NewClient returns a client for the daemon listening on socketPath.
func NewClient(socketPath string) *Client {
	return &Client{socketPath: socketPath}
}

// Status fetches the current snapshot of every session in the fleet,
// in roster order.
func (c *Client) Status(ctx context.Context) ([]session.Status, error) {
	var report StatusReport
	if err := c.Call(ctx, ActionStatus, nil, &report); err != nil {
		return nil, err
	}
	return report.Sessions, nil
}

// Restart forces the named session through its reconnect path. A
// non-empty reason is recorded as the session's disconnect cause.
func (c *Client) Restart(ctx context.Context, name, reason string) error {
	fields := map[string]any{"session": name}
	if reason != "" {
		fields["reason"] = reason
	}
	return c.Call(ctx, ActionRestart, fields, nil)
}

// Stop shuts the named session down permanently. The slot stays empty
// until the daemon restarts.
func (c *Client) Stop(ctx context.Context, name string) error {
	return c.Call(ctx, ActionStop, map[string]any{"session": name}, nil)
}

// Say sends a chat line through the named session.
func (c *Client) Say(ctx context.Context, name, text string) error {
	return c.Call(ctx, ActionSay, map[string]any{"session": name, "text": text}, nil)
}

// Call sends one request and decodes the response. The fields map may
// carry any action-specific request fields; Call adds "action" itself.
// Pass nil fields for actions without parameters.
//
// On ok=true, response data (if any) is CBOR-decoded into result when
// result is non-nil. On ok=false, Call returns a *CallError with the
// daemon's message. Transport and encoding failures are plain errors.
func (c *Client) Call(ctx context.Context, action string, fields map[string]any, result any) error {
	request := make(map[string]any, len(fields)+1)
	for key, value := range fields {
		request[key] = value
	}
	request["action"] = action

	response, err := c.send(ctx, request)
	if err != nil {
		return fmt.Errorf("calling %q on %s: %w", action, c.socketPath, err)
	}

	if !response.OK {
		return &CallError{Action: action, Message: response.Error}
	}

	if result != nil && len(response.Data) > 0 {
		if err := codec.Unmarshal(response.Data, result); err != nil {
			return fmt.Errorf("decoding response data for %q: %w", action, err)
		}
	}

	return nil
}

// send connects, writes the request, and reads the response.
func (c *Client) send(ctx context.Context, request any) (*Response, error) {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("connecting: %w", err)
	}
	defer conn.Close()

	if err := codec.NewEncoder(conn).Encode(request); err != nil {
		return nil, fmt.Errorf("writing request: %w", err)
	}

	// Half-close the write side so the server's decoder sees a clean
	// EOF after the request bytes.
	if unixConn, ok := conn.(*net.UnixConn); ok {
		unixConn.CloseWrite()
	}

	conn.SetReadDeadline(time.Now().Add(responseTimeout))
	var response Response
	if err := codec.NewDecoder(io.LimitReader(conn, maxResponseSize)).Decode(&response); err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return &response, nil
}

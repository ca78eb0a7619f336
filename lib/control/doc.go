// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

// Package control exposes a running fleet over a Unix domain socket.
//
// The protocol is CBOR request-response with one request per
// connection: the client writes a single CBOR map containing an
// "action" field plus action-specific fields, the server writes a
// single Response envelope, and the connection closes. CBOR is
// self-delimiting, so no framing protocol is needed.
//
// The socket lives under the daemon's state directory and filesystem
// permissions are the authorization boundary; there is no credential
// exchange. Server handles the daemon side, Client the operator CLI
// side, and RegisterSupervisor binds the standard fleet actions.
package control

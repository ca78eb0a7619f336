// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

// Package fleet runs a roster of sessions as one supervised unit.
package fleet

// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"math"

	"github.com/garrison-works/garrison/lib/gameclient"
)

// EyeHeight is the camera offset above a standing player's feet.
const EyeHeight = 1.62

// AimAngles computes the yaw and pitch, in degrees, that point from a
// player's eyes at the vertical midpoint of a target entity.
//
// Yaw follows the game convention: 0 faces +Z, and positive yaw turns
// toward -X, so yaw = atan2(-dx, dz). Pitch is positive upward and
// clamped to [-90, 90].
func AimAngles(from gameclient.Position, target gameclient.Entity) (yaw, pitch float64) {
	eye := gameclient.Position{X: from.X, Y: from.Y + EyeHeight, Z: from.Z}
	aim := gameclient.Position{
		X: target.Position.X,
		Y: target.Position.Y + target.Height/2,
		Z: target.Position.Z,
	}

	dx := aim.X - eye.X
	dy := aim.Y - eye.Y
	dz := aim.Z - eye.Z

	yaw = math.Atan2(-dx, dz) * 180 / math.Pi

	horiz := math.Sqrt(dx*dx + dz*dz)
	pitch = math.Atan2(dy, horiz) * 180 / math.Pi
	if pitch > 90 {
		pitch = 90
	} else if pitch < -90 {
		pitch = -90
	}
	return yaw, pitch
}

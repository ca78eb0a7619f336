// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package session

import "strings"

// joinTiers are the rank prefixes the server prepends to join
// broadcasts. The bare name comes first so unranked players match.
var joinTiers = [...]string{"", "[VIP] ", "[MVP] ", "[ELITE] "}

// MatchesJoin reports whether a chat or system line is the server's
// join broadcast for identity. The match is exact on the trimmed line,
// not a substring search, so another player mentioning the name in
// chat does not confirm a join.
func MatchesJoin(text, identity string) bool {
	line := strings.TrimSpace(text)
	for _, tier := range joinTiers {
		if line == tier+identity+" joined the game" {
			return true
		}
	}
	return false
}

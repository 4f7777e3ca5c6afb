package feed

import (
	"encoding/base64"
	"strings"
)

const sparkScheme = "ciscospark://"

// roomDeepLink decodes a room id, which is a base64 form of an internal
// spark locator like ciscospark://us/ROOM/<uuid>, and composes the client
// deep link for that room. The fallback is returned when the id does not
// decode to a locator.
func roomDeepLink(roomID, fallback string) string {
	trimmed := strings.TrimRight(roomID, "=")

	decoded, err := base64.RawURLEncoding.DecodeString(trimmed)
	if err != nil {
		decoded, err = base64.RawStdEncoding.DecodeString(trimmed)
	}
	if err != nil {
		return fallback
	}

	locator := string(decoded)
	if !strings.HasPrefix(locator, sparkScheme) {
		return fallback
	}

	idx := strings.LastIndex(locator, "/")
	if idx < 0 || idx == len(locator)-1 {
		return fallback
	}

	return "webexteams://im?space=" + locator[idx+1:]
}

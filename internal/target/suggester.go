package target

import (
	"regexp"
	"strings"
)

const (
	// MinUsernameLength / MaxUsernameLength mirror the target platform's
	// username bounds.
	MinUsernameLength = 3
	MaxUsernameLength = 20
)

var usernameDisallowed = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// SuggestUsername derives a valid candidate username from free text or an
// email address: the local part of an email, spaces to underscores,
// disallowed characters stripped, padded or truncated into bounds.
func SuggestUsername(seed string) string {
	if at := strings.IndexByte(seed, '@'); at > 0 {
		seed = seed[:at]
	}

	name := strings.TrimSpace(seed)
	name = strings.ReplaceAll(name, " ", "_")
	name = usernameDisallowed.ReplaceAllString(name, "")
	name = strings.Trim(name, "._-")

	if name == "" {
		name = "user"
	}
	for len(name) < MinUsernameLength {
		name += "1"
	}
	if len(name) > MaxUsernameLength {
		name = name[:MaxUsernameLength]
	}
	return name
}

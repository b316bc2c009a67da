package jules

import "strings"

// Resource name prefixes defined by the API.
const (
	SourcePrefix  = "sources/"
	SessionPrefix = "sessions/"
)

// ValidateSourceName checks that name looks like a source resource name
// ("sources/github/owner/repo") before it is interpolated into a URL path.
// It returns the name unchanged when valid. This is a fast local check to
// avoid a wasted round trip; segment semantics are left to upstream.
func ValidateSourceName(name string) (string, error) {
	return validateName(name, SourcePrefix, "source")
}

// ValidateSessionName checks that name looks like a session resource name
// ("sessions/abc123"). It returns the name unchanged when valid.
func ValidateSessionName(name string) (string, error) {
	return validateName(name, SessionPrefix, "session")
}

// ValidateActivityName checks that name looks like an activity resource
// name ("sessions/abc123/activities/xyz").
func ValidateActivityName(name string) (string, error) {
	name, err := validateName(name, SessionPrefix, "activity")
	if err != nil {
		return "", err
	}
	if !strings.Contains(name, "/activities/") {
		return "", invalidArgf("activity name %q must contain %q", name, "/activities/")
	}
	return name, nil
}

func validateName(name, prefix, label string) (string, error) {
	if name == "" {
		return "", invalidArgf("%s name must not be empty", label)
	}
	if !strings.HasPrefix(name, prefix) || len(name) == len(prefix) {
		return "", invalidArgf("%s name %q must start with %q followed by an identifier", label, name, prefix)
	}
	return name, nil
}

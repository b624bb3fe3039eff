package dispatcher

import (
	"net/url"
	"strings"
)

// GotoPrefix starts a navigation command. Matching is exact and
// case-sensitive, including the trailing space.
const GotoPrefix = "gotoURL "

// Kind classifies channel content.
type Kind int

// Command kinds.
const (
	// KindIdle is an empty channel.
	KindIdle Kind = iota

	// KindGoto is a gotoURL command.
	KindGoto

	// KindUnknown is any other content.
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindIdle:
		return "idle"
	case KindGoto:
		return "goto"
	default:
		return "unknown"
	}
}

// Command is parsed channel content.
type Command struct {
	Kind     Kind
	Location string
	Raw      string
}

// ParseCommand classifies content. For a gotoURL command with a malformed
// location it returns the command together with a *ValidationError.
func ParseCommand(content string) (Command, error) {
	cmd := Command{Kind: KindUnknown, Raw: content}

	switch {
	case content == "":
		cmd.Kind = KindIdle
		return cmd, nil
	case !strings.HasPrefix(content, GotoPrefix):
		return cmd, nil
	}

	cmd.Kind = KindGoto
	cmd.Location = strings.TrimSpace(content[len(GotoPrefix):])
	if err := ValidateLocation(cmd.Location); err != nil {
		return cmd, err
	}
	return cmd, nil
}

// ValidateLocation accepts absolute URLs without whitespace. A scheme is
// required, and http(s) URLs must name a host.
func ValidateLocation(location string) error {
	if location == "" {
		return &ValidationError{Location: location, Reason: "empty"}
	}
	if strings.ContainsAny(location, " \t\r\n") {
		return &ValidationError{Location: location, Reason: "contains whitespace"}
	}

	u, err := url.Parse(location)
	if err != nil {
		return &ValidationError{Location: location, Reason: err.Error()}
	}
	if u.Scheme == "" {
		return &ValidationError{Location: location, Reason: "missing scheme"}
	}
	if (u.Scheme == "http" || u.Scheme == "https") && u.Host == "" {
		return &ValidationError{Location: location, Reason: "missing host"}
	}
	return nil
}

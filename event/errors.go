package event

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrDuplicateContext reports an attempt to attach a second script context to
// an entity that already has one.
var ErrDuplicateContext = errors.New("event: entity already has an attached context")

// ScriptError is the structured diagnostic produced when a user callback
// fails. It carries the formatted message, the unmodified backtrace frames of
// the original failure, the owning script's identity marker and a best-effort
// source line (0 when unknown). Instances are created only by Translate.
type ScriptError struct {
	Message string
	Frames  []string
	Marker  string
	Line    int

	cause error
}

func (e *ScriptError) Error() string { return e.Message }

func (e *ScriptError) Unwrap() error { return e.cause }

// Translate converts a failure raised inside a user callback into a
// ScriptError. marker is the script identity string used to recognize which
// backtrace frame belongs to user code; entityKind and eventName name the
// dispatch site. The frames are scanned in order for the first one containing
// the marker; if none matches, the top-level message itself is checked. The
// leading integer following "marker:" becomes the source line.
func Translate(err error, marker, entityKind, eventName string) *ScriptError {
	text := err.Error()
	parts := strings.Split(text, "\n")
	msg := strings.TrimSpace(parts[0])

	var frames []string
	for _, p := range parts[1:] {
		if f := strings.TrimSpace(p); f != "" {
			frames = append(frames, f)
		}
	}

	line := 0
	if marker != "" {
		for _, f := range frames {
			if n, ok := lineAfterMarker(f, marker); ok {
				line = n
				break
			}
		}
		if line == 0 {
			if n, ok := lineAfterMarker(msg, marker); ok {
				line = n
			}
		}
	}

	kind, detail := splitKind(msg)
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s has occurred while calling %s %s event", article(kind), kind, entityKind, eventName)
	if line > 0 {
		fmt.Fprintf(&b, ", line %d", line)
	}
	fmt.Fprintf(&b, ": %s", detail)

	return &ScriptError{
		Message: b.String(),
		Frames:  frames,
		Marker:  marker,
		Line:    line,
		cause:   err,
	}
}

func lineAfterMarker(s, marker string) (int, bool) {
	i := strings.Index(s, marker)
	if i < 0 {
		return 0, false
	}
	rest := s[i+len(marker):]
	rest = strings.TrimPrefix(rest, ":")
	j := 0
	for j < len(rest) && rest[j] >= '0' && rest[j] <= '9' {
		j++
	}
	if j == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(rest[:j])
	if err != nil {
		return 0, false
	}
	return n, true
}

// splitKind peels a failure-kind prefix such as "Runtime Error:" off the
// original message. Anything without a recognizable prefix is reported as a
// plain "error".
func splitKind(msg string) (kind, detail string) {
	if i := strings.Index(msg, ":"); i > 0 {
		head := strings.TrimSpace(msg[:i])
		if head == "panic" || strings.HasSuffix(head, "Error") || strings.HasSuffix(head, "error") {
			return head, strings.TrimSpace(msg[i+1:])
		}
	}
	return "error", msg
}

// article is a cosmetic helper; the line-attribution logic above does not
// depend on it.
func article(word string) string {
	if word == "" {
		return "A"
	}
	switch word[0] | 0x20 {
	case 'a', 'e', 'i', 'o', 'u':
		return "An"
	}
	return "A"
}

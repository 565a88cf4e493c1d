package facetid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Separator joins hierarchy levels in a rendered ID.
const Separator = "."

// Segment is one level of a user-facing ID: the concatenated prefix tokens
// of the document's sibling scope plus its sequence number within it.
type Segment struct {
	Prefix string
	Seq    int
}

// String renders the segment, e.g. "c3" or "7".
func (s Segment) String() string {
	return s.Prefix + strconv.Itoa(s.Seq)
}

// ParseSegment splits a segment into its prefix and sequence number. The
// sequence is the maximal run of trailing digits; everything before it is
// the prefix.
func ParseSegment(raw string) (Segment, error) {
	if raw == "" {
		return Segment{}, fmt.Errorf("empty segment")
	}

	numStart := len(raw)
	for numStart > 0 && raw[numStart-1] >= '0' && raw[numStart-1] <= '9' {
		numStart--
	}
	if numStart == len(raw) {
		return Segment{}, fmt.Errorf("segment %q is missing a sequence number", raw)
	}

	seq, err := strconv.Atoi(raw[numStart:])
	if err != nil {
		return Segment{}, fmt.Errorf("segment %q has an invalid sequence number: %w", raw, err)
	}
	if seq < 1 {
		return Segment{}, fmt.Errorf("segment %q: sequence numbers start at 1", raw)
	}

	return Segment{Prefix: raw[:numStart], Seq: seq}, nil
}

// ParseID splits a user-facing ID into its hierarchy segments.
func ParseID(raw string) ([]Segment, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty id")
	}

	parts := strings.Split(raw, Separator)
	segments := make([]Segment, 0, len(parts))
	for _, part := range parts {
		seg, err := ParseSegment(part)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", raw, err)
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

// IsUUID reports whether s is a canonical hyphenated UUID. Locators in this
// form bypass ID resolution entirely.
func IsUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

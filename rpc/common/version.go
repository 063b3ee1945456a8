package common

import (
	"fmt"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Protocol Version
// --------------------------------------------------------------------------

// Version is the protocol version negotiated for a connection.
// The numeric id is major*1000000 + minor*10000 + revision*100 + 99, so the
// natural ordering of the id is the ordering of the versions.
type Version uint32

// Known protocol versions
var (
	V1_0_0 = NewVersion(1, 0, 0)
	V1_1_0 = NewVersion(1, 1, 0)
	V1_2_0 = NewVersion(1, 2, 0)
	V1_3_0 = NewVersion(1, 3, 0)
	V1_4_0 = NewVersion(1, 4, 0)

	// MinimumCompatible is the oldest version the codecs can talk to
	MinimumCompatible = V1_0_0
	// Current is the newest version the codecs know about
	Current = V1_4_0
)

// NewVersion creates a version from its components
func NewVersion(major, minor, revision uint8) Version {
	return Version(uint32(major)*1000000 + uint32(minor)*10000 + uint32(revision)*100 + 99)
}

// FromID converts a raw version id (as sent on the wire) into a Version
func FromID(id uint32) Version {
	return Version(id)
}

// ParseVersion parses a version string in the form "major.minor.revision".
// The revision may be omitted ("1.2" is the same as "1.2.0").
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimPrefix(strings.TrimSpace(s), "v"), ".")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid version %q: expected major.minor.revision", s)
	}

	var nums [3]uint8
	for i, part := range parts {
		n, err := strconv.ParseUint(part, 10, 8)
		if err != nil || n > 99 {
			return 0, fmt.Errorf("invalid version %q: component %q is not a number between 0 and 99", s, part)
		}
		nums[i] = uint8(n)
	}

	return NewVersion(nums[0], nums[1], nums[2]), nil
}

// ID returns the raw numeric id of the version
func (v Version) ID() uint32 {
	return uint32(v)
}

func (v Version) Major() uint8    { return uint8(uint32(v) / 1000000 % 100) }
func (v Version) Minor() uint8    { return uint8(uint32(v) / 10000 % 100) }
func (v Version) Revision() uint8 { return uint8(uint32(v) / 100 % 100) }

// Before reports whether v is strictly older than other
func (v Version) Before(other Version) bool {
	return v < other
}

// OnOrAfter reports whether v is the same as or newer than other
func (v Version) OnOrAfter(other Version) bool {
	return v >= other
}

// Supported reports whether v lies in [MinimumCompatible, Current]
func (v Version) Supported() bool {
	return v.OnOrAfter(MinimumCompatible) && !Current.Before(v)
}

// String returns the version as "major.minor.revision"
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Revision())
}

// CheckVersion returns a *VersionError if v is outside the supported range
func CheckVersion(v Version) error {
	if v.Supported() {
		return nil
	}
	return &VersionError{Version: v, Min: MinimumCompatible, Max: Current}
}

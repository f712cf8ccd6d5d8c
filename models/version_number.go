package models

import (
	"database/sql/driver"
	"fmt"
	"regexp"

	"github.com/rs/zerolog/log"
)

type VersionBump string

const (
	BumpNone  VersionBump = "none"
	BumpMinor VersionBump = "minor"
	BumpMajor VersionBump = "major"
)

var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)$`)

// VersionNumber is a major.minor version identifier, ordered
// lexicographically on (major, minor). The zero value means "unversioned"
// and only appears when persisted state is corrupt.
type VersionNumber struct {
	Major int
	Minor int
}

// ParseVersionNumber parses a persisted "major.minor" string.
func ParseVersionNumber(s string) (VersionNumber, error) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return VersionNumber{}, fmt.Errorf("invalid version number %q", s)
	}
	var v VersionNumber
	fmt.Sscanf(m[1], "%d", &v.Major)
	fmt.Sscanf(m[2], "%d", &v.Minor)
	return v, nil
}

func (v VersionNumber) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

func (v VersionNumber) IsZero() bool {
	return v.Major == 0 && v.Minor == 0
}

// Next derives the version number following v. A minor bump increments the
// minor component, a major bump increments the major component and resets
// minor to zero. If v is the zero (corrupt) value the result is 1.0 so that
// numbering recovers instead of failing.
func (v VersionNumber) Next(bump VersionBump) VersionNumber {
	if v.IsZero() {
		return VersionNumber{Major: 1, Minor: 0}
	}
	switch bump {
	case BumpMajor:
		return VersionNumber{Major: v.Major + 1, Minor: 0}
	default:
		return VersionNumber{Major: v.Major, Minor: v.Minor + 1}
	}
}

// Compare returns -1, 0 or 1 when v is smaller than, equal to or greater
// than other.
func (v VersionNumber) Compare(other VersionNumber) int {
	if v.Major != other.Major {
		if v.Major < other.Major {
			return -1
		}
		return 1
	}
	if v.Minor != other.Minor {
		if v.Minor < other.Minor {
			return -1
		}
		return 1
	}
	return 0
}

// Value serializes the version as "major.minor" for storage.
func (v VersionNumber) Value() (driver.Value, error) {
	return v.String(), nil
}

// Scan reads a persisted version string. A value that does not match the
// expected pattern is treated as corrupt state: it scans to the zero value
// (so the next bump computation restarts at 1.0) and logs a data-integrity
// warning rather than failing the read.
func (v *VersionNumber) Scan(src interface{}) error {
	var raw string
	switch s := src.(type) {
	case string:
		raw = s
	case []byte:
		raw = string(s)
	case nil:
		*v = VersionNumber{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into VersionNumber", src)
	}

	parsed, err := ParseVersionNumber(raw)
	if err != nil {
		log.Warn().Str("version", raw).Msg("corrupt version number in storage, treating as unversioned")
		*v = VersionNumber{}
		return nil
	}
	*v = parsed
	return nil
}

func (v VersionNumber) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", v.String())), nil
}

func (v *VersionNumber) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = raw[1 : len(raw)-1]
	}
	parsed, err := ParseVersionNumber(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

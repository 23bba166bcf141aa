// Package version parses and bumps strict MAJOR.MINOR.PATCH versions.
package version

import (
	"fmt"
	"math"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// Part names a version component
type Part string

const (
	Patch Part = "patch"
	Minor Part = "minor"
	Major Part = "major"
)

// Parts lists the components in the order their numeric aliases use
var Parts = []Part{Patch, Minor, Major}

var strictPattern = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)$`)

// ParsePart accepts a component name or its 1-based alias ("1" = patch,
// "2" = minor, "3" = major). An empty string means patch.
func ParsePart(s string) (Part, error) {
	if s == "" {
		return Patch, nil
	}
	for i, p := range Parts {
		if s == string(p) || s == fmt.Sprint(i+1) {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid part %q", s)
}

// Version is a three-component numeric version
type Version struct {
	v *semver.Version
}

// Parse accepts exactly three dot-separated non-negative integers without
// leading zeros
func Parse(s string) (Version, error) {
	if !strictPattern.MatchString(s) {
		return Version{}, fmt.Errorf("invalid version %q: expected MAJOR.MINOR.PATCH", s)
	}
	v, err := semver.NewVersion(s)
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
	}
	return Version{v: v}, nil
}

func (v Version) Major() uint64 { return v.v.Major() }
func (v Version) Minor() uint64 { return v.v.Minor() }
func (v Version) Patch() uint64 { return v.v.Patch() }

// Bump increments part and zeroes every lower component
func (v Version) Bump(part Part) (Version, error) {
	var (
		next    semver.Version
		current uint64
	)
	switch part {
	case Patch:
		current, next = v.Patch(), v.v.IncPatch()
	case Minor:
		current, next = v.Minor(), v.v.IncMinor()
	case Major:
		current, next = v.Major(), v.v.IncMajor()
	default:
		return Version{}, fmt.Errorf("invalid part %q", part)
	}
	if current == math.MaxUint64 {
		return Version{}, fmt.Errorf("cannot bump %s of %s: component is at its maximum", part, v)
	}
	return Version{v: &next}, nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}

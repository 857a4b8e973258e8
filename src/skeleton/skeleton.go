// Package skeleton describes the joint layout of a recording: the ordered joint
// descriptors (name and display color) and where each joint lives in a CSV row.
//
// A Skeleton is a plain value handed to the loader, the statistics engine and the
// viewer. Nothing in this package keeps process-wide mutable state, so tests can build
// synthetic skeletons with any joint count.
package skeleton

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Column layout of a headerless recording row.
const (
	LabelColumn      = 0
	TimestampColumn  = 1
	FirstJointColumn = 2
	AxesPerJoint     = 3
)

// JointColumns returns the half-open column range [start, end) holding joint i's x,y,z.
func JointColumns(i int) (start, end int) {
	start = FirstJointColumn + i*AxesPerJoint
	return start, start + AxesPerJoint
}

// Joint is one tracked landmark.
type Joint struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"` // hex "rrggbb" (with or without '#') or a named color
}

// Skeleton is an ordered list of joints. Index i in Joints is joint i in every row.
type Skeleton struct {
	Name   string  `yaml:"name"`
	Joints []Joint `yaml:"joints"`
}

// Count returns the number of joints.
func (s Skeleton) Count() int { return len(s.Joints) }

// JointName returns the name for index i, or "J<i>" when the index is outside the table.
func (s Skeleton) JointName(i int) string {
	if i >= 0 && i < len(s.Joints) && s.Joints[i].Name != "" {
		return s.Joints[i].Name
	}
	return fmt.Sprintf("J%d", i)
}

// JointColorHex returns the resolved "rrggbb" color of joint i (gray when unknown).
func (s Skeleton) JointColorHex(i int) string {
	if i >= 0 && i < len(s.Joints) {
		if hex, ok := ResolveColor(s.Joints[i].Color); ok {
			return hex
		}
	}
	return namedColors["gray"]
}

// Validate checks names are present and unique and that every color resolves.
func (s Skeleton) Validate() error {
	if len(s.Joints) == 0 {
		return fmt.Errorf("skeleton %q has no joints", s.Name)
	}
	seen := make(map[string]int, len(s.Joints))
	for i, j := range s.Joints {
		name := strings.TrimSpace(j.Name)
		if name == "" {
			return fmt.Errorf("skeleton %q: joint %d has no name", s.Name, i)
		}
		if prev, dup := seen[name]; dup {
			return fmt.Errorf("skeleton %q: joint name %s used at %d and %d", s.Name, name, prev, i)
		}
		seen[name] = i
		if j.Color != "" {
			if _, ok := ResolveColor(j.Color); !ok {
				return fmt.Errorf("skeleton %q: joint %s has unknown color %q", s.Name, name, j.Color)
			}
		}
	}
	return nil
}

// Clone returns a deep copy so callers can't mutate a shared table.
func (s Skeleton) Clone() Skeleton {
	out := Skeleton{Name: s.Name, Joints: make([]Joint, len(s.Joints))}
	copy(out.Joints, s.Joints)
	return out
}

// Load reads a YAML layout file:
//
//	name: custom
//	joints:
//	  - {name: PELVIS, color: navy}
//	  - {name: SPINE_NAVAL, color: "#0000ff"}
func Load(path string) (Skeleton, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Skeleton{}, fmt.Errorf("read layout: %w", err)
	}
	return Parse(b)
}

// Parse decodes and validates a YAML layout document.
func Parse(b []byte) (Skeleton, error) {
	var s Skeleton
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Skeleton{}, fmt.Errorf("parse layout: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Skeleton{}, err
	}
	return s, nil
}

// LoadOrDefault returns AzureKinect when path is empty, otherwise the file's layout.
func LoadOrDefault(path string) (Skeleton, error) {
	if strings.TrimSpace(path) == "" {
		return AzureKinect(), nil
	}
	return Load(path)
}

package analysis

import (
	"fmt"
	"strings"

	"github.com/mimisukeMaster/AKRecorder/src/recording"
)

// AxisRemap rewrites a point as a signed permutation of its axes: output axis k takes
// input axis Source[k] multiplied by Sign[k].
type AxisRemap struct {
	Source [3]int
	Sign   [3]float64
}

var axisNames = [3]string{"x", "y", "z"}

// ParseAxisRemap reads a spec such as "x,-z,y". Blank and "x,y,z" return nil (identity).
func ParseAxisRemap(spec string) (*AxisRemap, error) {
	spec = strings.ToLower(strings.ReplaceAll(spec, " ", ""))
	if spec == "" || spec == "x,y,z" {
		return nil, nil
	}
	parts := strings.Split(spec, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("axis remap %q: want three comma separated axes", spec)
	}
	var m AxisRemap
	var used [3]bool
	for k, p := range parts {
		m.Sign[k] = 1
		switch {
		case strings.HasPrefix(p, "-"):
			m.Sign[k] = -1
			p = p[1:]
		case strings.HasPrefix(p, "+"):
			p = p[1:]
		}
		src := -1
		for i, n := range axisNames {
			if p == n {
				src = i
			}
		}
		if src < 0 {
			return nil, fmt.Errorf("axis remap %q: unknown axis %q", spec, p)
		}
		if used[src] {
			return nil, fmt.Errorf("axis remap %q: axis %s used twice", spec, p)
		}
		used[src] = true
		m.Source[k] = src
	}
	return &m, nil
}

// Apply remaps p. A nil remap returns p unchanged.
func (m *AxisRemap) Apply(p recording.Point3) recording.Point3 {
	if m == nil {
		return p
	}
	return recording.Point3{
		X: m.Sign[0] * p.Axis(m.Source[0]),
		Y: m.Sign[1] * p.Axis(m.Source[1]),
		Z: m.Sign[2] * p.Axis(m.Source[2]),
	}
}

func (m *AxisRemap) String() string {
	if m == nil {
		return "x,y,z"
	}
	parts := make([]string, 3)
	for k := 0; k < 3; k++ {
		sign := ""
		if m.Sign[k] < 0 {
			sign = "-"
		}
		parts[k] = sign + axisNames[m.Source[k]]
	}
	return strings.Join(parts, ",")
}

package analysis

import "testing"

func TestParseAxisRemap(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		nilOK   bool
		wantErr bool
	}{
		{"", "x,y,z", true, false},
		{"x,y,z", "x,y,z", true, false},
		{"X, Y, Z", "x,y,z", true, false},
		{"x,-z,y", "x,-z,y", false, false},
		{"+z,x,-y", "z,x,-y", false, false},
		{"x,y", "", false, true},
		{"x,x,z", "", false, true},
		{"x,y,w", "", false, true},
	}
	for _, c := range cases {
		m, err := ParseAxisRemap(c.in)
		if c.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: %v", c.in, err)
		}
		if (m == nil) != c.nilOK {
			t.Fatalf("%q: nil=%v want %v", c.in, m == nil, c.nilOK)
		}
		if m.String() != c.want {
			t.Fatalf("%q: String()=%q want %q", c.in, m.String(), c.want)
		}
	}
}

func TestAxisRemapApply(t *testing.T) {
	var identity *AxisRemap
	p := pt(1, 2, 3)
	if identity.Apply(p) != p {
		t.Fatalf("nil remap must be identity")
	}
	m, _ := ParseAxisRemap("x,-z,y")
	if got := m.Apply(p); got != pt(1, -3, 2) {
		t.Fatalf("got %+v", got)
	}
}

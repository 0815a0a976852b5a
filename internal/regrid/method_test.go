package regrid

import (
	"errors"
	"testing"

	"go.ngs.io/regrid/internal/adapter/spatial"
	"go.ngs.io/regrid/internal/domain"
)

func TestParseMethod(t *testing.T) {
	opts := spatial.QueryOptions{K: 4}
	tests := []struct {
		name string
		want Method
	}{
		{"nearest", Nearest{opts}},
		{"distance_weighted", DistanceWeighted{opts}},
		{"bilinear", Bilinear{}},
		{"bicubic", Bicubic{K: 4}},
		{"conservative", Conservative{Order: 1}},
		{"largest_area", LargestArea{}},
	}
	for _, tt := range tests {
		got, err := ParseMethod(tt.name, opts)
		if err != nil {
			t.Errorf("ParseMethod(%q): %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMethod(%q) = %#v, want %#v", tt.name, got, tt.want)
		}
		if got.Name() != tt.name {
			t.Errorf("Name() = %q, want %q", got.Name(), tt.name)
		}
	}

	if m, _ := ParseMethod("bicubic", spatial.QueryOptions{}); m != (Bicubic{K: 10}) {
		t.Errorf("bicubic default = %#v, want K=10", m)
	}
}

func TestParseMethod_Unknown(t *testing.T) {
	for _, name := range []string{"", "Nearest", "spline"} {
		if _, err := ParseMethod(name, spatial.QueryOptions{}); !errors.Is(err, domain.ErrUnsupportedMethod) {
			t.Errorf("ParseMethod(%q) error = %v, want ErrUnsupportedMethod", name, err)
		}
	}
}

func TestMethods(t *testing.T) {
	list := Methods()
	if len(list) != 6 {
		t.Fatalf("got %d methods, want 6", len(list))
	}
	for _, info := range list {
		m, err := ParseMethod(info.Name, spatial.QueryOptions{})
		if err != nil {
			t.Errorf("listed method %q does not parse: %v", info.Name, err)
			continue
		}
		_, neighbour := m.(Nearest)
		if _, ok := m.(DistanceWeighted); ok {
			neighbour = true
		}
		if info.Implemented != neighbour {
			t.Errorf("%s: Implemented = %v", info.Name, info.Implemented)
		}
	}
}

package event

import "testing"

func TestResolveAliases(t *testing.T) {
	cases := []struct {
		name  string
		token string
		want  Name
		ok    bool
	}{
		{"canonical", "onKeyDown", OnKeyDown, true},
		{"lowercase", "keydown", OnKeyDown, true},
		{"uppercase", "KEYDOWN", OnKeyDown, true},
		{"mixed_case_with_prefix", "OnKeyDown", OnKeyDown, true},
		{"prefix_only_differs_by_case", "ONKEYDOWN", OnKeyDown, true},
		{"no_prefix_touch", "touch", OnTouch, true},
		{"touching", "Touching", OnTouching, true},
		{"untouch", "onUntouch", OnUntouch, true},
		{"wheel", "mousewheelrotate", OnMouseWheelRotate, true},
		{"extended_button", "xbutton2doubleclick", OnXButton2DoubleClick, true},
		{"surrounding_space", "  onDraw  ", OnDraw, true},
		{"unknown", "onWarpDrive", 0, false},
		{"empty", "", 0, false},
		{"bare_prefix", "on", 0, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := Resolve(c.token)
			if ok != c.ok {
				t.Fatalf("Resolve(%q) ok = %v, want %v", c.token, ok, c.ok)
			}
			if ok && got != c.want {
				t.Fatalf("Resolve(%q) = %v, want %v", c.token, got, c.want)
			}
		})
	}
}

func TestResolveCanonicalRoundTrip(t *testing.T) {
	for _, n := range Names() {
		got, ok := Resolve(n.String())
		if !ok || got != n {
			t.Fatalf("Resolve(%q) = %v ok=%v, want %v", n.String(), got, ok, n)
		}
	}
}

func TestTouchMembers(t *testing.T) {
	want := map[Name]bool{OnTouch: true, OnTouching: true, OnUntouch: true}
	for _, n := range Names() {
		if n.Touch() != want[n] {
			t.Fatalf("%v.Touch() = %v, want %v", n, n.Touch(), want[n])
		}
	}
}

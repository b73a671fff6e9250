package blend

import (
	"math/rand/v2"
	"testing"
)

func TestPackUnpack(t *testing.T) {
	p := Pack(0x12, 0x34, 0x56, 0x78)
	if p != 0x78123456 {
		t.Fatalf("Pack() = %#08x, want 0x78123456", p)
	}
	r, g, b, a := Unpack(p)
	if r != 0x12 || g != 0x34 || b != 0x56 || a != 0x78 {
		t.Errorf("Unpack(%#08x) = (%#x, %#x, %#x, %#x)", p, r, g, b, a)
	}
}

func TestNormalSourceOver(t *testing.T) {
	red := Pack(255, 0, 0, 255)
	blue := Pack(0, 0, 255, 255)

	tests := []struct {
		name     string
		src, dst uint32
		want     uint32
	}{
		{"opaque replaces", red, blue, red},
		{"transparent keeps", Pack(9, 9, 9, 0), blue, blue},
		{"onto empty", Pack(10, 20, 30, 100), 0, Pack(10, 20, 30, 100)},
		{"half red over blue", Pack(255, 0, 0, 128), blue, Pack(128, 0, 127, 255)},
		{"both empty", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Blend(tt.src, tt.dst, Normal); got != tt.want {
				t.Errorf("Blend(%#08x, %#08x) = %#08x, want %#08x", tt.src, tt.dst, got, tt.want)
			}
		})
	}
}

func TestSeparableModesOpaque(t *testing.T) {
	tests := []struct {
		mode Mode
		s, d uint8
		want uint8
	}{
		{Multiply, 128, 128, 64},
		{Multiply, 255, 77, 77},
		{Screen, 128, 128, 192},
		{Screen, 0, 77, 77},
		{Overlay, 200, 100, 157},
		{Darken, 200, 100, 100},
		{Lighten, 200, 100, 200},
		{ColorDodge, 0, 100, 100},
		{ColorDodge, 255, 100, 255},
		{ColorDodge, 200, 0, 0},
		{ColorBurn, 255, 100, 100},
		{ColorBurn, 0, 100, 0},
		{ColorBurn, 0, 255, 255},
		{HardLight, 0, 100, 0},
		{HardLight, 255, 100, 255},
		{SoftLight, 0, 128, 64},
		{SoftLight, 255, 255, 255},
		{SoftLight, 127, 100, 100},
		{Difference, 200, 50, 150},
		{Difference, 50, 200, 150},
		{Exclusion, 255, 255, 0},
		{Exclusion, 128, 128, 128},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			src := Pack(tt.s, tt.s, tt.s, 255)
			dst := Pack(tt.d, tt.d, tt.d, 255)
			got := Blend(src, dst, tt.mode)
			want := Pack(tt.want, tt.want, tt.want, 255)
			if got != want {
				t.Errorf("%v(%d, %d) = %#08x, want %#08x", tt.mode, tt.s, tt.d, got, want)
			}
		})
	}
}

func TestModesShareSourceOverAlpha(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 2000; i++ {
		src := r.Uint32()
		dst := r.Uint32()
		want := Alpha(Blend(src, dst, Normal))
		for _, m := range Modes() {
			if got := Alpha(Blend(src, dst, m)); got != want {
				t.Fatalf("%v: alpha of Blend(%#08x, %#08x) = %d, want %d", m, src, dst, got, want)
			}
		}
	}
}

func TestModesIdentityCases(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	for i := 0; i < 500; i++ {
		src := r.Uint32() | 0x01000000
		dst := r.Uint32()
		for _, m := range Modes() {
			if got := Blend(src&0x00FFFFFF, dst, m); got != dst {
				t.Fatalf("%v: transparent source changed %#08x to %#08x", m, dst, got)
			}
			if got, want := Blend(src, 0, m), Blend(src, 0, Normal); got != want {
				t.Fatalf("%v over empty = %#08x, want %#08x", m, got, want)
			}
		}
	}
}

func TestComposite(t *testing.T) {
	dst := Pack(0, 0, 255, 255)
	if got := Composite(Pack(255, 0, 0, 255), dst, Normal, 0); got != dst {
		t.Errorf("zero coverage changed dst to %#08x", got)
	}
	got := Composite(Pack(255, 0, 0, 255), dst, Normal, 128)
	if want := Blend(Pack(255, 0, 0, 128), dst, Normal); got != want {
		t.Errorf("Composite(cov=128) = %#08x, want %#08x", got, want)
	}
}

func TestModeNames(t *testing.T) {
	for _, m := range Modes() {
		got, ok := ParseMode(m.String())
		if !ok || got != m {
			t.Errorf("ParseMode(%q) = %v, %v", m.String(), got, ok)
		}
	}
	if _, ok := ParseMode("hue"); ok {
		t.Error("ParseMode accepted an unsupported mode")
	}
	if Mode(200).String() != "unknown" {
		t.Errorf("Mode(200).String() = %q", Mode(200).String())
	}
}

func BenchmarkBlend(b *testing.B) {
	src := Pack(200, 100, 50, 180)
	dst := Pack(10, 20, 30, 255)
	for _, m := range Modes() {
		b.Run(m.String(), func(b *testing.B) {
			for b.Loop() {
				dst = Blend(src, dst, m)
			}
		})
	}
}

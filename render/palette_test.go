package render

import (
	"testing"

	"github.com/lixenwraith/wa-tor/engine"
)

func TestShadeOf(t *testing.T) {
	tests := []struct {
		name string
		e    engine.Entity
		want Shade
	}{
		{"empty", engine.Empty, ShadeEmpty},
		{"young fish", engine.NewFish(1), ShadeFishYoung},
		{"breeding fish", engine.NewFish(3), ShadeFish},
		{"fed shark", engine.NewShark(0, 5), ShadeShark},
		{"weak shark", engine.NewShark(0, 2), ShadeSharkWeak},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShadeOf(tt.e, 5); got != tt.want {
				t.Errorf("ShadeOf = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPixelsInto(t *testing.T) {
	cells := []engine.Entity{engine.Empty, engine.NewShark(0, 5)}

	buf := PixelsInto(nil, cells, 5)
	if len(buf) != 8 {
		t.Fatalf("len = %d, want 8", len(buf))
	}
	shark := Palette[ShadeShark]
	if buf[4] != shark.R || buf[5] != shark.G || buf[6] != shark.B || buf[7] != 255 {
		t.Errorf("shark pixel = %v, want %v", buf[4:8], shark)
	}

	// A large enough buffer is reused
	big := make([]byte, 0, 64)
	out := PixelsInto(big, cells, 5)
	if &out[0] != &big[:1][0] {
		t.Error("PixelsInto reallocated a buffer with enough capacity")
	}
}

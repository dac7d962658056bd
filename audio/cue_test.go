package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/wa-tor/engine"
	"github.com/lixenwraith/wa-tor/scheduler"
)

func TestPitch(t *testing.T) {
	tests := []struct {
		name     string
		census   engine.Census
		expected float64
	}{
		{"empty grid", engine.Census{}, 220},
		{"no fish", engine.Census{Sharks: 2, Empty: 2}, 220},
		{"half fish", engine.Census{Fish: 2, Empty: 2}, 440},
		{"all fish", engine.Census{Fish: 4}, 660},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Pitch(tt.census); got != tt.expected {
				t.Errorf("Pitch = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	c := NewCue(0.5)
	steps := []struct {
		name     string
		info     scheduler.TickInfo
		expected Sound
	}{
		{"seed is silent", scheduler.TickInfo{Tick: 0, Census: engine.Census{Fish: 3, Sharks: 2}}, SoundNone},
		{"normal tick", scheduler.TickInfo{Tick: 1, Census: engine.Census{Fish: 4, Sharks: 2}}, SoundTick},
		{"sharks die out", scheduler.TickInfo{Tick: 2, Census: engine.Census{Fish: 6}}, SoundExtinction},
		{"fish only", scheduler.TickInfo{Tick: 3, Census: engine.Census{Fish: 7}}, SoundTick},
		{"fish die out", scheduler.TickInfo{Tick: 4, Census: engine.Census{Empty: 7}}, SoundExtinction},
		{"barren sea", scheduler.TickInfo{Tick: 5, Census: engine.Census{Empty: 7}}, SoundNone},
	}

	for _, st := range steps {
		if got := c.classify(st.info); got != st.expected {
			t.Errorf("%s: classify = %v, want %v", st.name, got, st.expected)
		}
	}
}

func TestObserveWithoutInitIsSilent(t *testing.T) {
	c := NewCue(1)
	// Must not touch the speaker
	c.ObserveTick(scheduler.TickInfo{Tick: 0, Census: engine.Census{Fish: 1}})
	c.ObserveTick(scheduler.TickInfo{Tick: 1, Census: engine.Census{Fish: 2}})
	c.Close()
}

func TestToneLength(t *testing.T) {
	rate := beep.SampleRate(1000)
	s := newTone(100, 50*time.Millisecond, rate)

	buf := make([][2]float64, 16)
	total := 0
	for {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			break
		}
		if total > 1000 {
			t.Fatal("tone never ended")
		}
	}
	if total != 50 {
		t.Errorf("streamed %d samples, want 50", total)
	}
}

func TestToneEnvelopeBounds(t *testing.T) {
	s := newTone(440, 20*time.Millisecond, beep.SampleRate(8000))
	buf := make([][2]float64, 512)
	n, _ := s.Stream(buf)

	if buf[0][0] != 0 {
		t.Errorf("first sample = %v, want 0 (attack starts silent)", buf[0][0])
	}
	for i := 0; i < n; i++ {
		if buf[i][0] > 1 || buf[i][0] < -1 {
			t.Fatalf("sample %d out of range: %v", i, buf[i][0])
		}
	}
}

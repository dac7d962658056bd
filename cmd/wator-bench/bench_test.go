package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lixenwraith/wa-tor/config"
)

func TestParseSizes(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []gridSize
		wantErr bool
	}{
		{"single", "80x24", []gridSize{{80, 24}}, false},
		{"list with spaces", "4x3, 10x10", []gridSize{{4, 3}, {10, 10}}, false},
		{"trailing comma", "4x3,", []gridSize{{4, 3}}, false},
		{"missing x", "80", nil, true},
		{"not a number", "ax3", nil, true},
		{"zero", "0x3", nil, true},
		{"empty", "", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSizes(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseSizes(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseSizes(%q): %v", tt.in, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("size %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRunBenchDeterministic(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = 11

	a, err := runBench(context.Background(), gridSize{20, 10}, 50, cfg, nil)
	if err != nil {
		t.Fatalf("runBench: %v", err)
	}
	b, err := runBench(context.Background(), gridSize{20, 10}, 50, cfg, nil)
	if err != nil {
		t.Fatalf("runBench: %v", err)
	}
	if a.finalFish != b.finalFish || a.finalSharks != b.finalSharks {
		t.Errorf("same seed diverged: %d/%d vs %d/%d", a.finalFish, a.finalSharks, b.finalFish, b.finalSharks)
	}
	if a.ticks != 50 {
		t.Errorf("ticks = %d, want 50", a.ticks)
	}
}

func TestRunBenchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := runBench(ctx, gridSize{4, 4}, 10, config.Default(), nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestWriteCSV(t *testing.T) {
	results := []result{{
		size:        gridSize{4, 3},
		ticks:       100,
		elapsed:     2 * time.Second,
		cpuSeconds:  1.5,
		rssBytes:    2048,
		finalFish:   3,
		finalSharks: 1,
	}}

	var buf bytes.Buffer
	if err := writeCSV(&buf, results, true); err != nil {
		t.Fatalf("writeCSV: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header + 1", len(rows))
	}
	want := []string{"4x3", "12", "100", "2.0000", "50.00", "1.5000", "2048", "3", "1"}
	for i, v := range want {
		if rows[1][i] != v {
			t.Errorf("column %s = %q, want %q", csvHeader[i], rows[1][i], v)
		}
	}
}

func TestAppendCSVWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.csv")
	res := []result{{size: gridSize{2, 2}, ticks: 1, elapsed: time.Second}}

	for i := 0; i < 2; i++ {
		if err := appendCSV(path, res); err != nil {
			t.Fatalf("appendCSV: %v", err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 || rows[0][0] != "grid" || rows[2][0] != "2x2" {
		t.Errorf("rows = %v, want header then two results", rows)
	}
}

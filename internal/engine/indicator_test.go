package engine

import (
	"errors"
	"testing"
)

func TestNewRollingBands_Validation(t *testing.T) {
	tests := []struct {
		name       string
		period     int
		multiplier float64
		wantErr    error
	}{
		{"period below minimum", 1, 2.0, ErrPeriodOutOfRange},
		{"period zero", 0, 2.0, ErrPeriodOutOfRange},
		{"period above maximum", 201, 2.0, ErrPeriodOutOfRange},
		{"multiplier below minimum", 20, 0.05, ErrMultiplierOutOfRange},
		{"multiplier above maximum", 20, 5.5, ErrMultiplierOutOfRange},
		{"minimum bounds valid", 2, 0.1, nil},
		{"maximum bounds valid", 200, 5.0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRollingBands(tt.period, tt.multiplier)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewRollingBands() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRollingBands_WarmupBoundary(t *testing.T) {
	bands, err := NewRollingBands(3, 2.0)
	if err != nil {
		t.Fatalf("NewRollingBands() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, ok := bands.Push(10); ok {
			t.Fatalf("Push() returned a band after %d prices, want none before 3", i+1)
		}
		if bands.Ready() {
			t.Fatalf("Ready() = true after %d prices", i+1)
		}
	}
	band, ok := bands.Push(10)
	if !ok {
		t.Fatal("Push() returned no band once the window filled")
	}
	if !bands.Ready() {
		t.Error("Ready() = false after the window filled")
	}
	if band.Middle != 10 || band.Upper != 10 || band.Lower != 10 {
		t.Errorf("constant window band = %+v, want exactly {10 10 10}", band)
	}
}

func TestRollingBands_Values(t *testing.T) {
	bands, err := NewRollingBands(2, 2.0)
	if err != nil {
		t.Fatalf("NewRollingBands() error = %v", err)
	}
	bands.Push(1)

	// Window [1,3]: mean 2, population stddev 1.
	band, ok := bands.Push(3)
	if !ok {
		t.Fatal("Push() returned no band")
	}
	if !almostEqual(band.Middle, 2) || !almostEqual(band.Upper, 4) || !almostEqual(band.Lower, 0) {
		t.Errorf("band over [1,3] = %+v, want {2 4 0}", band)
	}

	// Window slides to [3,5]: mean 4, population stddev 1.
	band, ok = bands.Push(5)
	if !ok {
		t.Fatal("Push() returned no band")
	}
	if !almostEqual(band.Middle, 4) || !almostEqual(band.Upper, 6) || !almostEqual(band.Lower, 2) {
		t.Errorf("band over [3,5] = %+v, want {4 6 2}", band)
	}
}

func TestRollingBands_Deterministic(t *testing.T) {
	prices := volatileCloses()

	first, err := NewRollingBands(5, 2.0)
	if err != nil {
		t.Fatalf("NewRollingBands() error = %v", err)
	}
	second, err := NewRollingBands(5, 2.0)
	if err != nil {
		t.Fatalf("NewRollingBands() error = %v", err)
	}

	for i, price := range prices {
		a, aok := first.Push(price)
		b, bok := second.Push(price)
		if aok != bok || a != b {
			t.Fatalf("price %d: fresh indicators diverged: %+v/%v vs %+v/%v", i, a, aok, b, bok)
		}
	}
}

package fields

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestGenerateLinear(t *testing.T) {
	got, err := Generate(0, 10, 6, Linear)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	want := []float64{0, 2, 4, 6, 8, 10}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Generate(0, 10, 6) = %v, want %v", got, want)
	}
}

func TestGenerateLogarithmic(t *testing.T) {
	got, err := Generate(1, 1000, 4, Logarithmic)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	want := []float64{1, 10, 100, 1000}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Generate(1, 1000, 4, log) = %v, want %v", got, want)
	}
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("values not strictly increasing at %d: %v", i, got)
		}
	}
}

func TestGenerateLogarithmicRounding(t *testing.T) {
	got, err := Generate(3.3, 1000, 35, Logarithmic)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if got[0] != 3.3 {
		t.Errorf("first value = %v, want 3.3", got[0])
	}
	for i, v := range got {
		if r := math.Round(v*10) / 10; r != v {
			t.Errorf("value %d (%v) is not rounded to one decimal", i, v)
		}
		if i > 0 && v < got[i-1] {
			t.Errorf("value %d (%v) is below its predecessor %v", i, v, got[i-1])
		}
	}
}

// The half-open construction may emit one trailing sample past end; it must
// stay within one step of it and the first count samples must be the evenly
// spaced ones.
func TestGenerateLinearLength(t *testing.T) {
	tests := []struct {
		start, end float64
		count      int
	}{
		{0, 1, 11},
		{0, 10, 6},
		{3.3, 1000, 35},
		{-5, 5, 3},
		{0.1, 0.7, 7},
		{1, 1.3, 4},
		{0, 3, 4},
		{10, 250, 17},
	}
	for _, tt := range tests {
		got, err := Generate(tt.start, tt.end, tt.count, Linear)
		if err != nil {
			t.Fatalf("Generate(%v, %v, %d) returned error: %v", tt.start, tt.end, tt.count, err)
		}
		if len(got) != tt.count && len(got) != tt.count+1 {
			t.Fatalf("Generate(%v, %v, %d) returned %d values", tt.start, tt.end, tt.count, len(got))
		}
		step := (tt.end - tt.start) / float64(tt.count-1)
		if got[0] != tt.start {
			t.Errorf("first value = %v, want %v", got[0], tt.start)
		}
		if math.Abs(got[tt.count-1]-tt.end) > 1e-9*math.Max(1, math.Abs(tt.end)) {
			t.Errorf("value %d = %v, want %v", tt.count-1, got[tt.count-1], tt.end)
		}
		if len(got) == tt.count+1 {
			if extra := got[tt.count] - tt.end; extra <= 0 || extra > step*(1+1e-9) {
				t.Errorf("trailing sample %v is not within one step (%v) past %v", got[tt.count], step, tt.end)
			}
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(3.3, 1000, 35, Logarithmic)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(3.3, 1000, 35, Logarithmic)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("repeated calls differ: %v vs %v", a, b)
	}
}

func TestGenerateMaxCount(t *testing.T) {
	values, err := Generate(0, 1, MaxCount, Linear)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(values); n != MaxCount && n != MaxCount+1 {
		t.Fatalf("got %d values, want %d or %d", n, MaxCount, MaxCount+1)
	}
}

func TestGeneratePreconditions(t *testing.T) {
	tests := []struct {
		name       string
		start, end float64
		count      int
		dist       Distribution
	}{
		{"count one", 0, 10, 1, Linear},
		{"count zero", 0, 10, 0, Linear},
		{"count above max", 0, 10, MaxCount + 1, Linear},
		{"huge count", 1, 10, math.MaxInt, Logarithmic},
		{"start equals end", 5, 5, 3, Linear},
		{"start above end", 10, 0, 3, Linear},
		{"log zero start", 0, 10, 3, Logarithmic},
		{"log negative start", -1, 10, 3, Logarithmic},
		{"nan end", 0, math.NaN(), 3, Linear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(tt.start, tt.end, tt.count, tt.dist)
			if !errors.Is(err, ErrInvalidSampling) {
				t.Fatalf("expected ErrInvalidSampling, got %v", err)
			}
		})
	}
}

func TestParseDistribution(t *testing.T) {
	tests := []struct {
		in      string
		want    Distribution
		wantErr bool
	}{
		{"lin", Linear, false},
		{"linear", Linear, false},
		{"exp", Logarithmic, false},
		{"exponential", Logarithmic, false},
		{"e", Logarithmic, false},
		{"LOG", Logarithmic, false},
		{"logarithmic", Logarithmic, false},
		{"", "", true},
		{"cubic", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDistribution(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownDistribution) {
				t.Errorf("ParseDistribution(%q) error = %v, want ErrUnknownDistribution", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseDistribution(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

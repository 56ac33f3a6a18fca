package timegrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInterval(t *testing.T) {
	tests := []struct {
		name    string
		start   int
		end     int
		wantErr bool
	}{
		{name: "valid", start: 540, end: 1080},
		{name: "full day", start: 0, end: MinutesPerDay},
		{name: "start equals end", start: 600, end: 600, wantErr: true},
		{name: "start after end", start: 700, end: 600, wantErr: true},
		{name: "negative start", start: -10, end: 60, wantErr: true},
		{name: "end past midnight", start: 1400, end: 1500, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv, err := NewInterval(tt.start, tt.end)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidInterval)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.end-tt.start, iv.Duration())
		})
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    Interval
		b    Interval
		want bool
	}{
		{name: "disjoint", a: Interval{540, 600}, b: Interval{660, 720}, want: false},
		{name: "touching is not overlap", a: Interval{540, 600}, b: Interval{600, 660}, want: false},
		{name: "partial", a: Interval{540, 630}, b: Interval{600, 660}, want: true},
		{name: "contained", a: Interval{540, 720}, b: Interval{600, 660}, want: true},
		{name: "identical", a: Interval{540, 600}, b: Interval{540, 600}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
			assert.Equal(t, tt.want, Overlaps(tt.b, tt.a))
		})
	}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name string
		in   []Interval
		want []Interval
	}{
		{name: "empty", in: nil, want: []Interval{}},
		{
			name: "unsorted overlapping",
			in:   []Interval{{600, 660}, {540, 630}, {700, 720}},
			want: []Interval{{540, 660}, {700, 720}},
		},
		{
			name: "touching coalesce",
			in:   []Interval{{540, 600}, {600, 660}},
			want: []Interval{{540, 660}},
		},
		{
			name: "nested",
			in:   []Interval{{540, 720}, {600, 660}},
			want: []Interval{{540, 720}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Merge(tt.in))
		})
	}
}

func TestSubtract(t *testing.T) {
	base := Interval{540, 1080} // 09:00-18:00

	tests := []struct {
		name  string
		holes []Interval
		want  []Interval
	}{
		{name: "no holes", holes: nil, want: []Interval{{540, 1080}}},
		{
			name:  "lunch break splits",
			holes: []Interval{{780, 840}},
			want:  []Interval{{540, 780}, {840, 1080}},
		},
		{
			name:  "hole covers base",
			holes: []Interval{{540, 1080}},
			want:  []Interval{},
		},
		{
			name:  "hole at start",
			holes: []Interval{{540, 600}},
			want:  []Interval{{600, 1080}},
		},
		{
			name:  "hole at end",
			holes: []Interval{{1020, 1080}},
			want:  []Interval{{540, 1020}},
		},
		{
			name:  "unsorted overlapping holes",
			holes: []Interval{{700, 760}, {600, 720}},
			want:  []Interval{{540, 600}, {760, 1080}},
		},
		{
			name:  "hole outside base ignored",
			holes: []Interval{{0, 300}, {1200, 1300}},
			want:  []Interval{{540, 1080}},
		},
		{
			name:  "hole overhangs both ends",
			holes: []Interval{{500, 560}, {1060, 1140}},
			want:  []Interval{{560, 1060}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Subtract(base, tt.holes)
			assert.Equal(t, tt.want, got)

			// Every returned minute must be inside base and outside every hole.
			for _, iv := range got {
				assert.True(t, base.Contains(iv))
				for _, hole := range tt.holes {
					assert.False(t, Overlaps(iv, hole), "free interval %v overlaps hole %v", iv, hole)
				}
			}
			// Sorted and non-overlapping.
			for i := 1; i < len(got); i++ {
				assert.LessOrEqual(t, got[i-1].EndMinute, got[i].StartMinute)
			}
		})
	}
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		name string
		in   []Interval
		step int
		want []Interval
	}{
		{
			name: "exact fit",
			in:   []Interval{{540, 600}},
			step: 30,
			want: []Interval{{540, 570}, {570, 600}},
		},
		{
			name: "remainder dropped",
			in:   []Interval{{540, 590}},
			step: 30,
			want: []Interval{{540, 570}},
		},
		{
			name: "interval shorter than step",
			in:   []Interval{{540, 560}},
			step: 30,
			want: []Interval{},
		},
		{name: "non-positive step", in: []Interval{{540, 600}}, step: 0, want: []Interval{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Quantize(tt.in, tt.step))
		})
	}
}

func TestWindows(t *testing.T) {
	tests := []struct {
		name     string
		in       []Interval
		duration int
		step     int
		want     []Interval
	}{
		{
			name:     "duration longer than step",
			in:       []Interval{{540, 660}}, // 09:00-11:00
			duration: 60,
			step:     30,
			want:     []Interval{{540, 600}, {570, 630}, {600, 660}},
		},
		{
			name:     "duration does not fit",
			in:       []Interval{{540, 580}},
			duration: 60,
			step:     30,
			want:     []Interval{},
		},
		{
			name:     "two free intervals",
			in:       []Interval{{540, 610}, {840, 930}},
			duration: 60,
			step:     30,
			want:     []Interval{{540, 600}, {840, 900}, {870, 930}},
		},
		{name: "zero duration", in: []Interval{{540, 600}}, duration: 0, step: 30, want: []Interval{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Windows(tt.in, tt.duration, tt.step)
			assert.Equal(t, tt.want, got)
			for _, w := range got {
				assert.Equal(t, tt.duration, w.Duration())
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "09:00", want: 540},
		{in: "13:30", want: 810},
		{in: "23:59", want: 1439},
		{in: "24:00", wantErr: true},
		{in: "9:00", wantErr: true},
		{in: "09:60", wantErr: true},
		{in: "09-00", wantErr: true},
		{in: "ab:cd", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidClock)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "09:05", FormatClock(545))
	assert.Equal(t, "18:00", FormatClock(1080))
	assert.Equal(t, "24:00", FormatClock(MinutesPerDay))
}

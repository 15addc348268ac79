package session

import (
	"testing"
	"time"
)

func TestNewDay(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		lastReset time.Time
		want      bool
	}{
		{
			name: "zero last reset counts as new day",
			now:  time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
			want: true,
		},
		{
			name:      "same UTC date",
			now:       time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC),
			lastReset: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			want:      false,
		},
		{
			name:      "date advanced",
			now:       time.Date(2025, 6, 2, 0, 0, 1, 0, time.UTC),
			lastReset: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			want:      true,
		},
		{
			name:      "non-UTC clock compared by UTC date",
			now:       time.Date(2025, 6, 1, 20, 0, 0, 0, time.FixedZone("UTC+5", 5*3600)),
			lastReset: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewDay(tt.now, tt.lastReset); got != tt.want {
				t.Fatalf("NewDay=%t, expected %t", got, tt.want)
			}
		})
	}
}

func TestHoursContains(t *testing.T) {
	tests := []struct {
		name  string
		hours Hours
		hour  int
		want  bool
	}{
		{"inside plain window", Hours{Start: 9, End: 17}, 12, true},
		{"start inclusive", Hours{Start: 9, End: 17}, 9, true},
		{"end exclusive", Hours{Start: 9, End: 17}, 17, false},
		{"before window", Hours{Start: 9, End: 17}, 8, false},
		{"wrapped window late evening", Hours{Start: 22, End: 4}, 23, true},
		{"wrapped window early morning", Hours{Start: 22, End: 4}, 2, true},
		{"wrapped window midday", Hours{Start: 22, End: 4}, 12, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.hours.Contains(tt.hour); got != tt.want {
				t.Fatalf("Contains(%d)=%t, expected %t", tt.hour, got, tt.want)
			}
		})
	}
}

func TestInWindowDefaultsOpen(t *testing.T) {
	var c *Controller
	if !c.InWindow(time.Now()) {
		t.Fatal("nil controller must not gate trading")
	}
	c = &Controller{}
	if !c.InWindow(time.Now()) {
		t.Fatal("controller without hours must not gate trading")
	}
}

func TestNextFlatten(t *testing.T) {
	c := &Controller{FlattenHour: 5}

	now := time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC)
	next, ok := c.NextFlatten(now)
	if !ok {
		t.Fatal("expected a flatten instant")
	}
	if want := time.Date(2025, 6, 1, 5, 0, 0, 0, time.UTC); !next.Equal(want) {
		t.Fatalf("next=%v, expected %v", next, want)
	}

	now = time.Date(2025, 6, 1, 6, 0, 0, 0, time.UTC)
	next, _ = c.NextFlatten(now)
	if want := time.Date(2025, 6, 2, 5, 0, 0, 0, time.UTC); !next.Equal(want) {
		t.Fatalf("next=%v, expected %v (next day)", next, want)
	}

	c.FlattenHour = -1
	if _, ok := c.NextFlatten(now); ok {
		t.Fatal("disabled flatten trigger still returned an instant")
	}
}

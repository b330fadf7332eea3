package rtime

import "testing"

func TestTagCompare(t *testing.T) {
	cases := []struct {
		name string
		a, b Tag
		want int
	}{
		{"equal", Tag{10, 2}, Tag{10, 2}, 0},
		{"earlier time point", Tag{5, 9}, Tag{6, 0}, -1},
		{"later time point", Tag{6, 0}, Tag{5, 9}, 1},
		{"same time point earlier microstep", Tag{10, 0}, Tag{10, 1}, -1},
		{"same time point later microstep", Tag{10, 1}, Tag{10, 0}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Compare(tc.b); got != tc.want {
				t.Errorf("Compare(%v, %v) = %d, want %d", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestTagDelay(t *testing.T) {
	start := Tag{TimePoint: 100, Microstep: 3}

	if got := start.Delay(50); got != (Tag{150, 0}) {
		t.Errorf("positive delay = %v, want (150, 0)", got)
	}

	if got := start.Delay(0); got != (Tag{100, 4}) {
		t.Errorf("zero delay = %v, want (100, 4)", got)
	}
}

func TestTagDelayStrictlyGreater(t *testing.T) {
	start := Tag{TimePoint: 100, Microstep: ^uint64(0) - 1}
	next := start.Delay(0)
	if !next.After(start) {
		t.Fatalf("Delay(0) must be strictly greater than the original tag, got %v from %v", next, start)
	}
}

func TestBeforeAfter(t *testing.T) {
	a, b := Tag{1, 0}, Tag{2, 0}
	if !a.Before(b) || a.After(b) {
		t.Fatalf("expected a before b")
	}
	if !b.After(a) || b.Before(a) {
		t.Fatalf("expected b after a")
	}
}

func TestFakeClock(t *testing.T) {
	c := NewFakeClock(1000)
	if c.Now() != 1000 {
		t.Fatalf("Now() = %d, want 1000", c.Now())
	}
	if got := c.Advance(500); got != 1500 {
		t.Fatalf("Advance = %d, want 1500", got)
	}
	c.Set(42)
	if c.Now() != 42 {
		t.Fatalf("Set did not pin clock, Now() = %d", c.Now())
	}
}

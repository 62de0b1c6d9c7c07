package funding

import "testing"

func TestUpdate(t *testing.T) {
	tests := []struct {
		name  string
		mark  uint64
		index uint64
		want  int64
	}{
		// (110-100)*1e9/100/3 with truncation at each division
		{"mark above index", 110, 100, 33_333_333},
		// negative diff truncates toward zero: -1e10/110 = -90909090,
		// then /3 = -30303030
		{"mark below index", 100, 110, -30_303_030},
		{"no spread", 100, 100, 0},
		// magnitude lost to truncation: 1e9/1e12 = 0
		{"tiny spread large index", 1_000_000_000_001, 1_000_000_000_000, 0},
		{"wide spread", 200, 100, 333_333_333},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Rate
			r.Update(tt.mark, tt.index, 42)
			if r.Rate != tt.want {
				t.Errorf("rate = %d, want %d", r.Rate, tt.want)
			}
			if r.LastUpdate != 42 {
				t.Errorf("last_update = %d, want 42", r.LastUpdate)
			}
		})
	}
}

func TestZeroIndexIsNoOp(t *testing.T) {
	r := Rate{Rate: 1234, LastUpdate: 99}
	r.Update(100, 0, 7)
	if r.Rate != 1234 || r.LastUpdate != 99 {
		t.Fatalf("state changed on zero index: %+v", r)
	}
}

func TestSignTracksSpread(t *testing.T) {
	cases := []struct {
		mark, index uint64
	}{
		{105, 100}, {100, 105}, {1, 1_000_000}, {1_000_000, 1},
		{18_446_744_073_709_551_615, 18_446_744_073_709_551_614},
	}
	for _, c := range cases {
		var r Rate
		r.Update(c.mark, c.index, 1)
		switch {
		case c.mark > c.index && r.Rate < 0:
			t.Errorf("mark %d > index %d but rate %d < 0", c.mark, c.index, r.Rate)
		case c.mark < c.index && r.Rate > 0:
			t.Errorf("mark %d < index %d but rate %d > 0", c.mark, c.index, r.Rate)
		case c.mark == c.index && r.Rate != 0:
			t.Errorf("flat spread but rate %d", r.Rate)
		}
	}
}

func TestOverwritesPriorRate(t *testing.T) {
	var r Rate
	r.Update(110, 100, 1)
	r.Update(100, 110, 2)
	if r.Rate != -30_303_030 || r.LastUpdate != 2 {
		t.Fatalf("rate = %+v, want latest update only", r)
	}
}

func TestWideIntermediateNoOverflow(t *testing.T) {
	// mark−index near the full u64 range: the 128-bit intermediate must
	// carry diff × 1e9 without wrapping.
	var r Rate
	r.Update(10_000_000_000_000_000_000, 9_000_000_000_000_000_000, 1)
	// diff=1e18, ×1e9=1e27, /9e18=111111111, /3=37037037
	if r.Rate != 37_037_037 {
		t.Fatalf("rate = %d, want 37037037", r.Rate)
	}
}

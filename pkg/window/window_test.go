package window

import (
	"testing"
)

func TestGenerate_Properties(t *testing.T) {
	tests := []struct {
		name       string
		startEpoch uint64
		windowSize uint64
		now        uint64
		wantCount  int
	}{
		{
			name:       "two full windows",
			startEpoch: 1669882894,
			windowSize: 3600,
			now:        1669882894 + 7200,
			wantCount:  2,
		},
		{
			name:       "single window",
			startEpoch: 1000,
			windowSize: 100,
			now:        1201,
			wantCount:  2,
		},
		{
			name:       "window end exactly at now is not emitted",
			startEpoch: 1000,
			windowSize: 100,
			now:        1100,
			wantCount:  0,
		},
		{
			name:       "start past now",
			startEpoch: 2000,
			windowSize: 100,
			now:        1000,
			wantCount:  0,
		},
		{
			name:       "start equals now",
			startEpoch: 1000,
			windowSize: 100,
			now:        1000,
			wantCount:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			windows := Generate(tt.startEpoch, tt.windowSize, tt.now)

			if len(windows) != tt.wantCount {
				t.Fatalf("Generate() returned %d windows, want %d", len(windows), tt.wantCount)
			}

			for i, w := range windows {
				if w.EndEpoch != w.StartEpoch+tt.windowSize {
					t.Errorf("window %d: EndEpoch = %d, want StartEpoch+%d = %d",
						i, w.EndEpoch, tt.windowSize, w.StartEpoch+tt.windowSize)
				}
				if w.EndEpoch >= tt.now {
					t.Errorf("window %d: EndEpoch = %d reaches now = %d", i, w.EndEpoch, tt.now)
				}
			}

			for i := 1; i < len(windows); i++ {
				if windows[i].StartEpoch != windows[i-1].EndEpoch {
					t.Errorf("windows %d/%d not contiguous: %d != %d",
						i-1, i, windows[i-1].EndEpoch, windows[i].StartEpoch)
				}
			}

			if len(windows) > 0 && windows[0].StartEpoch != tt.startEpoch {
				t.Errorf("first window starts at %d, want %d", windows[0].StartEpoch, tt.startEpoch)
			}
		})
	}
}

func TestGenerate_EmptyIffStartPlusSizeReachesNow(t *testing.T) {
	cases := []struct {
		startEpoch, windowSize, now uint64
	}{
		{0, 1, 1},
		{0, 1, 2},
		{100, 50, 149},
		{100, 50, 150},
		{100, 50, 151},
		{1669882894, 3600, 1669882894 + 3601},
	}

	for _, c := range cases {
		windows := Generate(c.startEpoch, c.windowSize, c.now)
		wantEmpty := c.startEpoch+c.windowSize >= c.now
		if (len(windows) == 0) != wantEmpty {
			t.Errorf("Generate(%d, %d, %d): got %d windows, wantEmpty=%v",
				c.startEpoch, c.windowSize, c.now, len(windows), wantEmpty)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(1669882894, 3600, 1669982894)
	b := Generate(1669882894, 3600, 1669982894)

	if len(a) != len(b) {
		t.Fatalf("non-deterministic length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("window %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestGenerate_LaterNowExtendsSequence(t *testing.T) {
	early := Generate(1000, 100, 2000)
	late := Generate(1000, 100, 3000)

	if len(late) <= len(early) {
		t.Fatalf("later now should add windows: %d vs %d", len(late), len(early))
	}
	for i := range early {
		if early[i] != late[i] {
			t.Fatalf("window %d regenerated differently: %+v vs %+v", i, early[i], late[i])
		}
	}
}

package settings

import "testing"

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"08:30", "08:30", false},
		{"8:30", "08:30", false},
		{"00:00", "00:00", false},
		{"23:59", "23:59", false},
		{"9:5", "09:05", false},
		{" 18:00 ", "18:00", false},
		{"24:00", "", true},
		{"12:60", "", true},
		{"-1:30", "", true},
		{"08.30", "", true},
		{"eight", "", true},
		{"08:30:00", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		c, err := ParseClock(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error, got %v", tc.in, c)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if c.String() != tc.want {
			t.Errorf("ParseClock(%q).String() = %q, want %q", tc.in, c.String(), tc.want)
		}
		// The display label must parse back to itself.
		again, err := ParseClock(c.String())
		if err != nil {
			t.Errorf("reparse %q: %v", c.String(), err)
		} else if again.String() != c.String() {
			t.Errorf("label %q did not round-trip, got %q", c.String(), again.String())
		}
	}
}

func TestClockMinus(t *testing.T) {
	cases := []struct {
		in      Clock
		minutes int
		want    string
	}{
		{Clock{Hour: 8, Minute: 0}, 30, "07:30"},
		{Clock{Hour: 0, Minute: 10}, 30, "23:40"},
		{Clock{Hour: 0, Minute: 0}, 30, "23:30"},
		{Clock{Hour: 12, Minute: 45}, 0, "12:45"},
	}

	for _, tc := range cases {
		if got := tc.in.Minus(tc.minutes).String(); got != tc.want {
			t.Errorf("%s minus %d = %s, want %s", tc.in, tc.minutes, got, tc.want)
		}
	}
}

func TestCoordinate(t *testing.T) {
	c := Coordinate{Lat: 51.5074, Lon: -0.1278}
	if !c.Valid() {
		t.Error("expected coordinate to be valid")
	}
	if got := c.String(); got != "51.5074,-0.1278" {
		t.Errorf("String() = %q", got)
	}

	for _, bad := range []Coordinate{{Lat: 91}, {Lat: -91}, {Lon: 181}, {Lon: -181}} {
		if bad.Valid() {
			t.Errorf("expected %+v to be invalid", bad)
		}
	}
}

func TestLegReadiness(t *testing.T) {
	home := Coordinate{Lat: 1, Lon: 2}
	work := Coordinate{Lat: 3, Lon: 4}
	dh := Clock{Hour: 8}
	dw := Clock{Hour: 17, Minute: 30}

	cfg := &CommuteSettings{}
	if cfg.HomeLegReady() || cfg.WorkLegReady() || cfg.Complete() {
		t.Fatal("empty record must not be ready")
	}

	cfg.HomeCoord = &home
	cfg.HomeAddress = home.String()
	cfg.DepartHome = &dh
	if cfg.HomeLegReady() {
		t.Error("home leg must not be ready without the work address")
	}

	cfg.WorkCoord = &work
	cfg.WorkAddress = work.String()
	if !cfg.HomeLegReady() {
		t.Error("home leg should be ready")
	}
	if cfg.WorkLegReady() {
		t.Error("work leg must not be ready without a departure time")
	}
	if cfg.Complete() {
		t.Error("record must not be complete yet")
	}

	cfg.DepartWork = &dw
	cfg.Notify = Target{Channel: "telegram", ChatID: "42"}
	if !cfg.Complete() {
		t.Error("record should be complete")
	}
}

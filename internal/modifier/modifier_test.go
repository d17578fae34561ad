package modifier

import "testing"

func TestToggle_TwiceRestores(t *testing.T) {
	for _, start := range []Flags{None, Control, Alt | Shift, Known} {
		for _, m := range All {
			got := start.Toggle(m).Toggle(m)
			if got != start {
				t.Fatalf("%v toggled %v twice = %v", start, m, got)
			}
		}
	}
}

func TestToggle_RemovesMember(t *testing.T) {
	got := (Fn | Control | Alt).Toggle(Control)
	if got != Fn|Alt {
		t.Fatalf("got %v, want %v", got, Fn|Alt)
	}
}

func TestExclusivelySetIn(t *testing.T) {
	tests := []struct {
		name string
		set  Flags
		held Flags
		want bool
	}{
		{"exact match", Fn | Control, Fn | Control, true},
		{"extra unknown bits ignored", Fn | Control, Fn | Control | 1<<20, true},
		{"subset held", Fn | Control, Fn, false},
		{"superset held", Fn | Control, Fn | Control | Shift, false},
		{"empty set never matches", None, None, false},
		{"nothing held", Alt, None, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.set.ExclusivelySetIn(tt.held); got != tt.want {
				t.Fatalf("ExclusivelySetIn = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	if got := (Fn | Control).String(); got != "control fn" {
		t.Fatalf("String() = %q", got)
	}
	if got := None.String(); got != "none" {
		t.Fatalf("String() = %q", got)
	}
}

func TestParseList(t *testing.T) {
	got, err := ParseList([]string{"Ctrl", "super", "shift"})
	if err != nil {
		t.Fatalf("ParseList error: %v", err)
	}
	if got != Control|Command|Shift {
		t.Fatalf("ParseList = %v", got)
	}
	if _, err := ParseList([]string{"meta-ish"}); err == nil {
		t.Fatal("expected error for unknown modifier")
	}
}

func TestIsSingle(t *testing.T) {
	if !Shift.IsSingle() {
		t.Fatal("Shift should be single")
	}
	if (Shift | Alt).IsSingle() || None.IsSingle() || Flags(1<<12).IsSingle() {
		t.Fatal("unexpected single")
	}
}

func TestMapping_FromStateIgnoresLocks(t *testing.T) {
	m := DefaultMapping()
	state := MaskControl | Mask4 | MaskLock | Mask2 | 1<<8 // Button1
	got := m.FromState(state)
	if got != Control|Command {
		t.Fatalf("FromState = %v, want control command", got)
	}
	if !(Control | Command).ExclusivelySetIn(got) {
		t.Fatal("expected exclusive match with lock bits present")
	}
}

func TestMapping_MaskRoundTrip(t *testing.T) {
	m := DefaultMapping().With(Fn, Mask5)
	mask := m.Mask(Fn | Shift)
	if mask != Mask5|MaskShift {
		t.Fatalf("Mask = %#x", mask)
	}
	if got := m.FromState(mask); got != Fn|Shift {
		t.Fatalf("FromState = %v", got)
	}
}

func TestTitle(t *testing.T) {
	if got := Command.Title(); got != "Super (Command)" {
		t.Fatalf("Command.Title() = %q", got)
	}
	if got := (Control | Shift).Title(); got != "control shift" {
		t.Fatalf("multi Title() = %q", got)
	}
}

func TestBitValues(t *testing.T) {
	// modifier_flags in CLI, IPC and MCP status reports these values.
	for _, tt := range []struct {
		flag Flags
		want uint32
	}{
		{Alt, 1}, {Command, 2}, {Control, 4}, {Fn, 8}, {Shift, 16},
	} {
		if uint32(tt.flag) != tt.want {
			t.Errorf("%v = %d, want %d", tt.flag, uint32(tt.flag), tt.want)
		}
	}
}

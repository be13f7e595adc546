package fixture

import (
	"testing"
	"time"
)

func strptr(s string) *string { return &s }

func TestParseDate(t *testing.T) {
	tests := []struct {
		text string
		want string // empty means nil expected
	}{
		{"15-03-2025", "2025-03-15"},
		{" 22-03-2025 ", "2025-03-22"},
		{"2025-03-15", ""},
		{"15/03/2025", ""},
		{"pendiente", ""},
		{"", ""},
		{"32-01-2025", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := ParseDate(tt.text)
			if tt.want == "" {
				if got != nil {
					t.Errorf("ParseDate(%q) = %v, expected nil", tt.text, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ParseDate(%q) = nil, expected %s", tt.text, tt.want)
			}
			if got.Format("2006-01-02") != tt.want {
				t.Errorf("ParseDate(%q) = %s, expected %s", tt.text, got.Format("2006-01-02"), tt.want)
			}
		})
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		f    Fixture
		want bool
	}{
		{"both teams", Fixture{HomeTeam: strptr("Home FC"), AwayTeam: strptr("Away FC")}, true},
		{"missing away", Fixture{HomeTeam: strptr("Home FC")}, false},
		{"missing home", Fixture{AwayTeam: strptr("Away FC")}, false},
		{"empty home", Fixture{HomeTeam: strptr(""), AwayTeam: strptr("Away FC")}, false},
		{"no teams", Fixture{Date: ParseDate("15-03-2025")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestKeyString(t *testing.T) {
	f := Fixture{
		Date:        ParseDate("15-03-2025"),
		Competition: DefaultCompetition,
		HomeTeam:    strptr("Home FC"),
		AwayTeam:    strptr("Away FC"),
	}
	want := "15-03-2025|Home FC|Away FC|Liga"
	if got := f.Key().String(); got != want {
		t.Errorf("Key().String() = %q, expected %q", got, want)
	}

	// Nil date fixtures still produce a usable key.
	f.Date = nil
	want = "|Home FC|Away FC|Liga"
	if got := f.Key().String(); got != want {
		t.Errorf("Key().String() = %q, expected %q", got, want)
	}
}

func TestKeyCopiesDate(t *testing.T) {
	d := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	f := Fixture{Date: &d, HomeTeam: strptr("A"), AwayTeam: strptr("B")}
	k := f.Key()
	if k.Date == f.Date {
		t.Error("key should hold its own copy of the date")
	}
	if !k.Date.Equal(d) {
		t.Errorf("key date = %v, expected %v", k.Date, d)
	}
}

func TestNormalizeSpace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Camp   Municipal \n\t El Collao ", "Camp Municipal El Collao"},
		{"Main Field", "Main Field"},
		{"   ", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeSpace(tt.in); got != tt.want {
			t.Errorf("NormalizeSpace(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}

func TestPlayed(t *testing.T) {
	two, one := 2, 1
	played := Fixture{HomeGoals: &two, AwayGoals: &one}
	if !played.Played() {
		t.Error("fixture with both goals should report played")
	}
	pending := Fixture{HomeGoals: &two}
	if pending.Played() {
		t.Error("fixture with one goal missing should not report played")
	}
}

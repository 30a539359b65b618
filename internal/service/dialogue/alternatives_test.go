package dialogue

import (
	"reflect"
	"testing"
)

func TestAlternatives_PlainTitle(t *testing.T) {
	got := Alternatives("Inception")

	want := []string{"Inception"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Alternatives(Inception) = %v, want %v", got, want)
	}
}

func TestAlternatives_Digits(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"Apollo 13", []string{"Apollo 13", "Apollo onethree"}},
		{"2 Fast 2 Furious", []string{"2 Fast 2 Furious", "two Fast two Furious"}},
		{"Se7en", []string{"Se7en", "Sesevenen"}},
	}

	for _, tt := range tests {
		got := Alternatives(tt.name)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Alternatives(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestAlternatives_Honorific(t *testing.T) {
	got := Alternatives("Dr. No")

	want := []string{"Dr. No", "Doctor No"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Alternatives(Dr. No) = %v, want %v", got, want)
	}
}

func TestAlternatives_DigitsAndHonorific(t *testing.T) {
	// Digit variants form the outer loop, honorific variants the inner one
	got := Alternatives("Dr. Strangelove 2")

	want := []string{
		"Dr. Strangelove 2",
		"Doctor Strangelove 2",
		"Dr. Strangelove two",
		"Doctor Strangelove two",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Alternatives(Dr. Strangelove 2) = %v, want %v", got, want)
	}
}

func TestAlternatives_AllDigitsReplacedAtOnce(t *testing.T) {
	got := Alternatives("Ocean's 11")

	if len(got) != 2 {
		t.Fatalf("Expected 2 alternatives, got %v", got)
	}
	if got[1] != "Ocean's oneone" {
		t.Errorf("Every digit must be replaced in one pass, got %q", got[1])
	}
}

func TestAlternatives_OriginalAlwaysFirst(t *testing.T) {
	for _, name := range []string{"", "Tenet", "Dr. 9", "1917"} {
		got := Alternatives(name)
		if len(got) == 0 || got[0] != name {
			t.Errorf("Alternatives(%q) must start with the original, got %v", name, got)
		}
	}
}

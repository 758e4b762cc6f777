package event

import "testing"

func TestTerminal(t *testing.T) {
	t.Parallel()

	if !Terminal(End{}) {
		t.Error("End should be terminal")
	}
	if !Terminal(Error{Message: "boom"}) {
		t.Error("Error should be terminal")
	}
	if Terminal(Token{Text: "hi"}) {
		t.Error("Token should not be terminal")
	}
	if Terminal(ResponseTime{Seconds: 0.1}) {
		t.Error("ResponseTime should not be terminal")
	}
	if Terminal(Timing{Seconds: 1.0}) {
		t.Error("Timing should not be terminal")
	}
}

func TestCheckSequence(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		events []Event
		ok     bool
	}{
		{
			name:   "full success",
			events: []Event{ResponseTime{0.3}, Token{"Hello"}, Token{" there"}, Timing{1.1}, End{}},
			ok:     true,
		},
		{
			name:   "success without response time",
			events: []Event{Token{"hi"}, Timing{0.5}, End{}},
			ok:     true,
		},
		{
			name:   "zero tokens is still success",
			events: []Event{Timing{0.2}, End{}},
			ok:     true,
		},
		{
			name:   "bare error",
			events: []Event{Error{"upstream failed"}},
			ok:     true,
		},
		{
			name:   "empty",
			events: nil,
			ok:     false,
		},
		{
			name:   "events after error",
			events: []Event{Error{"boom"}, End{}},
			ok:     false,
		},
		{
			name:   "missing end",
			events: []Event{Token{"hi"}, Timing{0.5}},
			ok:     false,
		},
		{
			name:   "missing timing",
			events: []Event{Token{"hi"}, End{}},
			ok:     false,
		},
		{
			name:   "response time after token",
			events: []Event{Token{"hi"}, ResponseTime{0.1}, Timing{0.5}, End{}},
			ok:     false,
		},
		{
			name:   "events after end",
			events: []Event{Timing{0.5}, End{}, Token{"late"}},
			ok:     false,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := CheckSequence(tc.events)
			if tc.ok && err != nil {
				t.Fatalf("expected valid sequence, got %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected invalid sequence to be rejected")
			}
		})
	}
}

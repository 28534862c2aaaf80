package intent

import "testing"

func TestIsFAQQuery(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{name: "refund", in: "Can I get a REFUND on my booking?", want: true},
		{name: "hidden charges", in: "are there any hidden charges", want: true},
		{name: "policy", in: "what is your cancellation policy", want: true},
		{name: "plain move", in: "I am moving from Boston to Miami", want: false},
		{name: "small talk", in: "hello there", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsFAQQuery(tc.in); got != tc.want {
				t.Fatalf("IsFAQQuery(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestIsMoveRequest(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{name: "moving from keyword", in: "I'm Moving From New York next month", want: true},
		{name: "relocating", in: "we are relocating from chicago", want: true},
		{name: "from to pattern", in: "need a truck from austin to dallas", want: true},
		{name: "no pattern", in: "how much does a truck cost", want: false},
		{name: "from without to", in: "I am from texas", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsMoveRequest(tc.in); got != tc.want {
				t.Fatalf("IsMoveRequest(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestFAQAndMoveOverlap(t *testing.T) {
	// Both predicates can be true at once; the dialogue engine gives FAQ priority.
	in := "I want to move from Boston to Miami but first, what is the refund policy?"
	if !IsFAQQuery(in) || !IsMoveRequest(in) {
		t.Fatal("expected both predicates to match independently")
	}
}

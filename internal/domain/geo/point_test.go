package geo

import "testing"

func TestParse_OK(t *testing.T) {
	p, err := Parse("-12.0464, -77.0428")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if p.Lat != -12.0464 || p.Lng != -77.0428 {
		t.Fatalf("unexpected point: %#v", p)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	p := Point{Lat: 40.4168, Lng: -3.7038}
	got, err := Parse(p.String())
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got != p {
		t.Fatalf("round trip mismatch: %#v vs %#v", got, p)
	}
}

func TestParse_Invalid(t *testing.T) {
	cases := []string{"", "12.5", "abc,def", "12.5;13.5", "91,0", "0,181"}
	for _, c := range cases {
		if _, err := Parse(c); err != ErrInvalidPoint {
			t.Fatalf("Parse(%q): expected ErrInvalidPoint, got %v", c, err)
		}
	}
}

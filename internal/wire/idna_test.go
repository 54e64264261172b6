package wire

import "testing"

func TestHostnameToASCII(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain ascii unchanged", "mail.example.com", "mail.example.com"},
		{"empty unchanged", "", ""},
		{"unicode transcoded", "bücher.example", "xn--bcher-kva.example"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HostnameToASCII(tt.in); got != tt.want {
				t.Errorf("HostnameToASCII(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHostnameToUnicode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain ascii unchanged", "mail.example.com", "mail.example.com"},
		{"empty unchanged", "", ""},
		{"punycode transcoded", "xn--bcher-kva.example", "bücher.example"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HostnameToUnicode(tt.in); got != tt.want {
				t.Errorf("HostnameToUnicode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHostnameRoundTrip(t *testing.T) {
	original := "münchen.example"
	ascii := HostnameToASCII(original)
	if ascii == original {
		t.Fatalf("HostnameToASCII(%q) did not transcode", original)
	}
	unicode := HostnameToUnicode(ascii)
	if unicode != original {
		t.Errorf("round trip = %q, want %q", unicode, original)
	}
}

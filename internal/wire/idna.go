package wire

import "golang.org/x/net/idna"

// HostnameToASCII converts a hostname to its IDNA ASCII ("punycode") wire
// form using the idna.Lookup profile, which also maps ASCII input (for
// example, it lowercases it). If the hostname is invalid under that profile,
// the input is returned unchanged.
func HostnameToASCII(hostname string) string {
	if hostname == "" {
		return hostname
	}
	ascii, err := idna.Lookup.ToASCII(hostname)
	if err != nil {
		return hostname
	}
	return ascii
}

// HostnameToUnicode converts an IDNA ASCII hostname read off the wire back
// to its Unicode form using the idna.Lookup profile. If the hostname is
// invalid under that profile, the input is returned unchanged.
func HostnameToUnicode(hostname string) string {
	if hostname == "" {
		return hostname
	}
	unicode, err := idna.Lookup.ToUnicode(hostname)
	if err != nil {
		return hostname
	}
	return unicode
}

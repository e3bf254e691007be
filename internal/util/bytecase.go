package util

import "strings"

const toLower = 'a' - 'A'

// ByteLowercase returns a [byte-lowercase] version of str.
//
// [byte-lowercase]: https://infra.spec.whatwg.org/#byte-lowercase
func ByteLowercase(str string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + toLower
		}
		return r
	}, str)
}

// ByteUppercase returns a [byte-uppercase] version of str.
//
// [byte-uppercase]: https://infra.spec.whatwg.org/#byte-uppercase
func ByteUppercase(str string) string {
	return strings.Map(func(r rune) rune {
		if 'a' <= r && r <= 'z' {
			return r - toLower
		}
		return r
	}, str)
}

package message

import "golang.org/x/text/transform"

const (
	cr  = '\r'
	lf  = '\n'
	sp  = ' '
	nul = '\000'
)

// nulToSpTransformer replaces NUL bytes with SP. It is UTF-8 safe because
// UTF-8 never places a zero byte in the middle of a rune.
type nulToSpTransformer struct {
	transform.NopResetter
}

func (t *nulToSpTransformer) Transform(dst, src []byte, _ bool) (nDst, nSrc int, err error) {
	for nDst < len(dst) && nSrc < len(src) {
		c := src[nSrc]
		if c == nul {
			c = sp
		}
		dst[nDst] = c
		nDst++
		nSrc++
	}
	if nSrc < len(src) {
		err = transform.ErrShortDst
	}
	return
}

var _ transform.Transformer = (*nulToSpTransformer)(nil)

// crLfToLfTransformer replaces every CRLF or lone CR in src with LF in dst.
type crLfToLfTransformer struct {
	prevCR bool
}

func (t *crLfToLfTransformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nDst < len(dst) && nSrc < len(src) {
		c := src[nSrc]
		if c == lf && t.prevCR {
			nSrc++
			t.prevCR = false
			continue
		}
		t.prevCR = c == cr
		if t.prevCR {
			c = lf
		}
		dst[nDst] = c
		nDst++
		nSrc++
	}
	if nSrc < len(src) {
		err = transform.ErrShortDst
	}
	if err == nil && !atEOF && len(src) > 0 && src[len(src)-1] == cr {
		err = transform.ErrShortSrc
		nSrc--
		nDst--
	}
	return
}

func (t *crLfToLfTransformer) Reset() { t.prevCR = false }

var _ transform.Transformer = (*crLfToLfTransformer)(nil)

// newlineToSpaceTransformer replaces every CRLF, lone CR, or LF in src with
// SP in dst.
type newlineToSpaceTransformer struct {
	prevCR bool
}

func (t *newlineToSpaceTransformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nDst < len(dst) && nSrc < len(src) {
		c := src[nSrc]
		if c == lf {
			if t.prevCR {
				nSrc++
				t.prevCR = false
				continue
			}
			c = sp
		}
		t.prevCR = c == cr
		if t.prevCR {
			c = sp
		}
		dst[nDst] = c
		nDst++
		nSrc++
	}
	if nSrc < len(src) {
		err = transform.ErrShortDst
	}
	if err == nil && !atEOF && len(src) > 0 && src[len(src)-1] == cr {
		err = transform.ErrShortSrc
		nSrc--
		nDst--
	}
	return
}

func (t *newlineToSpaceTransformer) Reset() { t.prevCR = false }

var _ transform.Transformer = (*newlineToSpaceTransformer)(nil)

// canonicalizeHeaderValue converts a header value to the form the wire
// protocol wants: NUL bytes become SP, and all line endings become bare LF.
// Sendmail-family MTAs expect LF-only continuation lines in filter-supplied
// header values.
func canonicalizeHeaderValue(value []byte) []byte {
	out, _, _ := transform.Bytes(transform.Chain(&nulToSpTransformer{}, &crLfToLfTransformer{}), value)
	return out
}

// canonicalizeFreeText converts a free-text field (a quarantine reason, an
// ESMTP argument string) to single-line form: NUL bytes and every kind of
// line ending become SP.
func canonicalizeFreeText(s string) string {
	out, _, _ := transform.String(transform.Chain(&nulToSpTransformer{}, &newlineToSpaceTransformer{}), s)
	return out
}

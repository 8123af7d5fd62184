package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// NewUTF8Reader detects the encoding of a branch list export and returns a
// reader that decodes it to UTF-8.
//
// Detection order:
//  1. BOM (UTF-8 BOM is stripped; UTF-16 LE/BE is decoded)
//  2. Valid UTF-8 is returned as-is
//  3. Thai single-byte text (TIS-620 / Windows-874), which chardet does not know
//  4. Heuristic detection via chardet
//  5. Fallback to Windows-1252
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	buf, err := br.Peek(4096)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	if bytes.HasPrefix(buf, bomUTF8) {
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	}

	if bytes.HasPrefix(buf, bomUTF16LE) {
		decoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(br, decoder), nil
	}

	if bytes.HasPrefix(buf, bomUTF16BE) {
		decoder := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(br, decoder), nil
	}

	if utf8.Valid(trimPartialRune(buf)) {
		return br, nil
	}

	if looksThai(buf) {
		return transform.NewReader(br, charmap.Windows874.NewDecoder()), nil
	}

	detector := chardet.NewTextDetector()

	result, detectErr := detector.DetectBest(buf)
	if detectErr == nil {
		switch result.Charset {
		case "UTF-8":
			return br, nil
		case "ISO-8859-1", "windows-1252":
			return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
		case "ISO-8859-9":
			return transform.NewReader(br, charmap.ISO8859_9.NewDecoder()), nil
		case "ISO-8859-11", "TIS-620", "windows-874":
			return transform.NewReader(br, charmap.Windows874.NewDecoder()), nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
}

// trimPartialRune drops a multi-byte sequence cut off by the peek window.
func trimPartialRune(buf []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(buf); i++ {
		if utf8.RuneStart(buf[len(buf)-i]) {
			if !utf8.FullRune(buf[len(buf)-i:]) {
				return buf[:len(buf)-i]
			}
			break
		}
	}
	return buf
}

// looksThai reports whether the non-ASCII bytes of buf read as Thai in
// TIS-620. Every high byte must be a Thai code point and most of them must
// come in runs, as Thai words do, rather than the isolated accented letters
// of Latin text.
func looksThai(buf []byte) bool {
	var high, inRuns, run int

	flush := func() {
		if run >= 3 {
			inRuns += run
		}
		run = 0
	}

	for _, b := range buf {
		if b < 0x80 {
			flush()
			continue
		}

		if !isTIS620(b) {
			return false
		}

		high++
		run++
	}
	flush()

	return high > 0 && inRuns*2 >= high
}

func isTIS620(b byte) bool {
	return (b >= 0xA1 && b <= 0xDA) || (b >= 0xDF && b <= 0xFB)
}

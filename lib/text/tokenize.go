package text

import (
	"unicode/utf8"

	"github.com/blevesearch/segment"
	"gitlab.com/textlab/spanish-ner/lib"
)

const nonAlphaNumericChar = 0

// Tokenize splits snippet.Text into word tokens and calls onToken for each
// token found. Punctuation marks come out as their own tokens and whitespace
// is dropped, which matches how the MITIE server expects its token stream.
// Each token's offset (rune position in the source document) is calculated
// and set.
func Tokenize(snippet *lib.Snippet, onToken func(*lib.Snippet) error) error {
	segmenter := segment.NewWordSegmenterDirect([]byte(snippet.Text))

	var position uint32
	for segmenter.Segment() {
		segmentBytes := segmenter.Bytes()

		if segmenter.Type() == nonAlphaNumericChar && isWhitespace(segmentBytes[0]) {
			incrementPosition(&position, segmentBytes)
			continue
		}

		token := &lib.Snippet{
			Text:   string(segmentBytes),
			Offset: snippet.Offset + position,
		}
		if err := onToken(token); err != nil {
			return err
		}
		incrementPosition(&position, segmentBytes)
	}

	return segmenter.Err()
}

func isWhitespace(b byte) bool {
	whitespaceBoundary := byte(32)
	return b <= whitespaceBoundary
}

func incrementPosition(position *uint32, textBytes []byte) {
	// count runes, not bytes, so that accented chars advance by one
	*position += uint32(utf8.RuneCount(textBytes))
}

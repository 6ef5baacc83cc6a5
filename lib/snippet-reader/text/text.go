package text

import (
	"bufio"
	"io"

	"gitlab.com/textlab/spanish-ner/lib"
	snippet_reader "gitlab.com/textlab/spanish-ner/lib/snippet-reader"
)

type SnippetReader struct{}

func (t SnippetReader) ReadSnippets(r io.Reader) <-chan snippet_reader.Value {
	return ReadSnippets(r)
}

func (t SnippetReader) ReadSnippetsWithCallback(r io.Reader, onSnippet func(*lib.Snippet) error) error {
	snips := ReadSnippets(r)
	return snippet_reader.ReadChannelWithCallback(snips, onSnippet)
}

// ReadSnippets is a convenience function so that the caller doesn't need to
// instantiate a channel.
func ReadSnippets(r io.Reader) <-chan snippet_reader.Value {
	snips := make(chan snippet_reader.Value)
	go readLines(r, snips)
	return snips
}

func readLines(r io.Reader, values chan snippet_reader.Value) {
	scanner := bufio.NewScanner(r)
	offset := 0
	for scanner.Scan() {
		values <- snippet_reader.Value{
			Snippet: &lib.Snippet{
				Text:   scanner.Text(),
				Offset: uint32(offset),
			},
			Err: nil,
		}
		offset += len(scanner.Text()) + 1 // +1 for newline character
	}
	if err := scanner.Err(); err != nil {
		values <- snippet_reader.Value{Err: err}
		return
	}
	values <- snippet_reader.Value{
		Snippet: nil,
		Err:     io.EOF,
	}
}

package testhelpers

import (
	"io"

	"gitlab.com/textlab/spanish-ner/lib"
	snippet_reader "gitlab.com/textlab/spanish-ner/lib/snippet-reader"
)

func Snips(texts ...string) []*lib.Snippet {
	snippets := make([]*lib.Snippet, len(texts))
	for i, text := range texts {
		snippets[i] = Snip(text, 0)
	}
	return snippets
}

func Snip(text string, offset uint32) *lib.Snippet {
	return &lib.Snippet{
		Text:   text,
		Offset: offset,
	}
}

// SnippetChannel streams the given snippets followed by the io.EOF marker,
// the same protocol the snippet readers use.
func SnippetChannel(snippets ...*lib.Snippet) <-chan snippet_reader.Value {
	values := make(chan snippet_reader.Value, len(snippets)+1)
	for _, snippet := range snippets {
		values <- snippet_reader.Value{Snippet: snippet}
	}
	values <- snippet_reader.Value{Err: io.EOF}
	return values
}

package snippet_reader

import (
	"io"

	"gitlab.com/textlab/spanish-ner/lib"
)

type Client interface {
	ReadSnippets(r io.Reader) <-chan Value
	ReadSnippetsWithCallback(r io.Reader, onSnippet func(*lib.Snippet) error) error
}

// Value is one item on a snippet channel. The producer signals completion by
// sending a Value with Err == io.EOF.
type Value struct {
	Snippet *lib.Snippet
	Err     error
}

func ReadChannelWithCallback(snipReaderValues <-chan Value, callback func(snippet *lib.Snippet) error) error {
	for readerValue := range snipReaderValues {
		if readerValue.Err == io.EOF {
			break
		} else if readerValue.Err != nil {
			return readerValue.Err
		}
		if err := callback(readerValue.Snippet); err != nil {
			return err
		}
	}
	return nil
}

package recogniser

import (
	"sync"

	"gitlab.com/textlab/spanish-ner/lib"
	snippet_reader "gitlab.com/textlab/spanish-ner/lib/snippet-reader"
)

// Client is a backend adapter. Recognise consumes a channel of snippets and
// analyzes them asynchronously; it registers itself on the WaitGroup and the
// caller waits on it before collecting Err and Result. A Client is good for
// one invocation: callers construct a fresh one per request.
type Client interface {
	Recognise(snips <-chan snippet_reader.Value, wg *sync.WaitGroup) error
	Err() error
	Result() []lib.Entity
	Info() lib.BackendInfo
}

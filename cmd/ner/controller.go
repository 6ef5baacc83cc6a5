package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"gitlab.com/textlab/spanish-ner/lib"
	"gitlab.com/textlab/spanish-ner/lib/blocklist"
	"gitlab.com/textlab/spanish-ner/lib/recogniser"
	http_recogniser "gitlab.com/textlab/spanish-ner/lib/recogniser/http-recogniser"
	"gitlab.com/textlab/spanish-ner/lib/results"
	snippet_reader "gitlab.com/textlab/spanish-ner/lib/snippet-reader"
	"gitlab.com/textlab/spanish-ner/lib/snippet-reader/html"
	"gitlab.com/textlab/spanish-ner/lib/snippet-reader/text"
)

type contentType int

const (
	contentTypePlain contentType = iota
	contentTypeHTML
)

var allowedContentTypeEnumMap = map[string]contentType{
	"application/json": contentTypePlain,
	"text/plain":       contentTypePlain,
	"text/html":        contentTypeHTML,
}

var errUnknownBackend = errors.New("unknown backend")

// controller selects a backend, drives it over the input snippets, and
// normalizes its raw entities. Recogniser clients hold per-call state, so
// each invocation gets a fresh one from its factory.
type controller struct {
	backends       map[string]func() recogniser.Client
	defaultBackend string
	minScore       float64
	blocklist      *blocklist.Blocklist
}

func newController() (controller, error) {
	backends := map[string]func() recogniser.Client{
		backendSpacy: func() recogniser.Client {
			return http_recogniser.NewSpacyClient(config.Spacy.Url, config.Spacy.Model)
		},
		backendMitie: func() recogniser.Client {
			return http_recogniser.NewMitieClient(config.Mitie.Url)
		},
	}

	var bl *blocklist.Blocklist
	if config.Blocklist != "" {
		var err error
		bl, err = blocklist.Load(config.Blocklist)
		if err != nil {
			return controller{}, err
		}
	}

	return controller{
		backends:       backends,
		defaultBackend: strings.ToLower(config.Backend),
		minScore:       config.MinScore,
		blocklist:      bl,
	}, nil
}

func (c controller) DefaultBackend() string {
	return c.defaultBackend
}

func (c controller) backendNames() []string {
	names := make([]string, 0, len(c.backends))
	for name := range c.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c controller) client(backend string) (recogniser.Client, string, error) {
	if backend == "" {
		backend = c.defaultBackend
	}
	backend = strings.ToLower(backend)
	factory, ok := c.backends[backend]
	if !ok {
		return nil, backend, fmt.Errorf("%w %q: must be one of %s", errUnknownBackend, backend, strings.Join(c.backendNames(), ", "))
	}
	return factory(), backend, nil
}

func (c controller) BackendInfo(backend string) (lib.BackendInfo, error) {
	client, _, err := c.client(backend)
	if err != nil {
		return lib.BackendInfo{}, err
	}
	return client.Info(), nil
}

func (c controller) Backends() []lib.BackendInfo {
	infos := make([]lib.BackendInfo, 0, len(c.backends))
	for _, name := range c.backendNames() {
		infos = append(infos, c.backends[name]().Info())
	}
	return infos
}

// Recognize runs the selected backend over the snippets read from reader and
// normalizes the raw entity sequence. Backends are mutually exclusive per
// invocation: an empty backend falls back to the configured default.
func (c controller) Recognize(reader io.Reader, contentType contentType, backend string) ([]lib.Entity, error) {
	client, name, err := c.client(backend)
	if err != nil {
		return nil, err
	}

	var snipReader snippet_reader.Client
	switch contentType {
	case contentTypeHTML:
		snipReader = html.SnippetReader{}
	default:
		snipReader = text.SnippetReader{}
	}

	snips := snipReader.ReadSnippets(reader)
	wg := &sync.WaitGroup{}
	if err := client.Recognise(snips, wg); err != nil {
		return nil, err
	}
	wg.Wait()
	if err := client.Err(); err != nil {
		return nil, err
	}

	normalizer := results.Normalizer{Blocklist: c.blocklist}
	// The score threshold only means something for mitie: spacy scores are
	// a fixed constant.
	if name == backendMitie {
		normalizer.MinScore = c.minScore
	}
	return normalizer.Normalize(client.Result()), nil
}

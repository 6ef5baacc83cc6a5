package http_recogniser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"gitlab.com/textlab/spanish-ner/lib"
	snippet_reader "gitlab.com/textlab/spanish-ner/lib/snippet-reader"
	"gitlab.com/textlab/spanish-ner/lib/recogniser"
	"gitlab.com/textlab/spanish-ner/lib/text"
)

func NewMitieClient(url string) recogniser.Client {
	return &mitie{
		Url:        url,
		httpClient: http.DefaultClient,
	}
}

type mitie struct {
	Url        string
	httpClient lib.HttpClient
	err        error
	entities   []lib.Entity
}

func (m *mitie) reset() {
	m.err = nil
	m.entities = nil
}

func (m *mitie) Err() error {
	return m.err
}

func (m *mitie) Result() []lib.Entity {
	return m.entities
}

func (m *mitie) handleError(err error) {
	m.err = err
}

func (m *mitie) Recognise(snips <-chan snippet_reader.Value, wg *sync.WaitGroup) error {
	m.reset()
	wg.Add(1)
	go m.recognise(snips, wg)
	return nil
}

type mitieRequest struct {
	Tokens []string `json:"tokens"`
}

// mitieEntity is a token range: Start and Stop index into the request's
// token slice, Stop exclusive.
type mitieEntity struct {
	Start int     `json:"start"`
	Stop  int     `json:"stop"`
	Tag   string  `json:"tag"`
	Score float64 `json:"score"`
}

type mitieResponse struct {
	Entities []mitieEntity `json:"entities"`
}

type mitieHealth struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}

func (m *mitie) recognise(snips <-chan snippet_reader.Value, wg *sync.WaitGroup) {
	defer wg.Done()

	// MITIE operates on a token stream, not raw text, so tokenization
	// happens on our side of the wire.
	var tokens []string
	err := snippet_reader.ReadChannelWithCallback(snips, func(snippet *lib.Snippet) error {
		return text.Tokenize(snippet, func(token *lib.Snippet) error {
			tokens = append(tokens, token.Text)
			return nil
		})
	})
	if err != nil {
		m.handleError(err)
		return
	}

	if len(tokens) == 0 {
		return
	}

	body, err := json.Marshal(mitieRequest{Tokens: tokens})
	if err != nil {
		m.handleError(err)
		return
	}

	req, err := http.NewRequest(http.MethodPost, m.Url+"/ner", bytes.NewReader(body))
	if err != nil {
		m.handleError(err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		m.handleError(fmt.Errorf("%w: mitie at %s: %v", lib.ErrBackendUnavailable, m.Url, err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		m.handleError(fmt.Errorf("mitie inference failed with status %d", resp.StatusCode))
		return
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		m.handleError(err)
		return
	}

	var mitieResp mitieResponse
	if err := json.Unmarshal(b, &mitieResp); err != nil {
		m.handleError(fmt.Errorf("invalid mitie response: %v", err))
		return
	}

	entities := make([]lib.Entity, 0, len(mitieResp.Entities))
	for _, entity := range mitieResp.Entities {
		if entity.Start < 0 || entity.Stop <= entity.Start || entity.Stop > len(tokens) {
			m.handleError(fmt.Errorf("mitie returned token range [%d, %d) outside of %d tokens", entity.Start, entity.Stop, len(tokens)))
			return
		}
		entities = append(entities, lib.Entity{
			Tag:   lib.NormalizeTag(entity.Tag),
			Score: lib.Score(entity.Score),
			Label: strings.Join(tokens[entity.Start:entity.Stop], " "),
		})
	}

	m.entities = entities
}

func (m *mitie) Info() lib.BackendInfo {
	info := lib.BackendInfo{Name: "mitie"}

	ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.Url+"/health", nil)
	if err != nil {
		info.Error = err.Error()
		return info
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		info.Error = fmt.Sprintf("mitie at %s: %v", m.Url, err)
		return info
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		info.Error = fmt.Sprintf("mitie health check returned status %d", resp.StatusCode)
		return info
	}

	var health mitieHealth
	if err := json.NewDecoder(resp.Body).Decode(&health); err == nil {
		info.Model = health.Model
	}

	info.Available = true
	return info
}

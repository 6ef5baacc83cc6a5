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
	"time"

	"gitlab.com/textlab/spanish-ner/lib"
	snippet_reader "gitlab.com/textlab/spanish-ner/lib/snippet-reader"
	"gitlab.com/textlab/spanish-ner/lib/recogniser"
)

// The spaCy sidecar does not report per-entity confidence, so every entity
// gets this fixed score.
const spacyScore = 0.95

const healthTimeout = 5 * time.Second

func NewSpacyClient(url, model string) recogniser.Client {
	return &spacy{
		Url:        url,
		Model:      model,
		httpClient: http.DefaultClient,
	}
}

type spacy struct {
	Url        string
	Model      string
	httpClient lib.HttpClient
	err        error
	entities   []lib.Entity
}

func (s *spacy) reset() {
	s.err = nil
	s.entities = nil
}

func (s *spacy) Err() error {
	return s.err
}

func (s *spacy) Result() []lib.Entity {
	return s.entities
}

func (s *spacy) handleError(err error) {
	s.err = err
}

func (s *spacy) Recognise(snips <-chan snippet_reader.Value, wg *sync.WaitGroup) error {
	s.reset()
	wg.Add(1)
	go s.recognise(snips, wg)
	return nil
}

type spacyRequest struct {
	Text  string `json:"text"`
	Model string `json:"model,omitempty"`
}

type spacyEntity struct {
	Text  string `json:"text"`
	Type  string `json:"type"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

func (s *spacy) recognise(snips <-chan snippet_reader.Value, wg *sync.WaitGroup) {
	defer wg.Done()

	// The sidecar works on whole documents, so collect the snippets back
	// into one block of text first.
	var sb strings.Builder
	err := snippet_reader.ReadChannelWithCallback(snips, func(snippet *lib.Snippet) error {
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(snippet.Text)
		return nil
	})
	if err != nil {
		s.handleError(err)
		return
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return
	}

	body, err := json.Marshal(spacyRequest{Text: text, Model: s.Model})
	if err != nil {
		s.handleError(err)
		return
	}

	req, err := http.NewRequest(http.MethodPost, s.Url+"/ent", bytes.NewReader(body))
	if err != nil {
		s.handleError(err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.handleError(fmt.Errorf("%w: spacy at %s: %v", lib.ErrBackendUnavailable, s.Url, err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.handleError(fmt.Errorf("spacy inference failed with status %d", resp.StatusCode))
		return
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		s.handleError(err)
		return
	}

	var spacyEntities []spacyEntity
	if err := json.Unmarshal(b, &spacyEntities); err != nil {
		s.handleError(fmt.Errorf("invalid spacy response: %v", err))
		return
	}

	entities := make([]lib.Entity, 0, len(spacyEntities))
	for _, entity := range spacyEntities {
		entities = append(entities, lib.Entity{
			Tag:   lib.NormalizeTag(entity.Type),
			Score: spacyScore,
			Label: entity.Text,
		})
	}

	s.entities = entities
}

func (s *spacy) Info() lib.BackendInfo {
	info := lib.BackendInfo{
		Name:  "spacy",
		Model: s.Model,
	}

	ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Url+"/health", nil)
	if err != nil {
		info.Error = err.Error()
		return info
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		info.Error = fmt.Sprintf("spacy at %s: %v", s.Url, err)
		return info
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		info.Error = fmt.Sprintf("spacy health check returned status %d", resp.StatusCode)
		return info
	}

	info.Available = true
	return info
}

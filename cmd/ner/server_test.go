package main

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gitlab.com/textlab/spanish-ner/lib"
	"gitlab.com/textlab/spanish-ner/lib/recogniser"
)

func TestServer(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Server Suite")
}

func newTestRouter(ctrl controller) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	server{controller: ctrl, maxTextLength: 100}.RegisterRoutes(r)
	return r
}

func performRequest(r *gin.Engine, method, target, contentType, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var _ = Describe("POST /ner", func() {
	var router *gin.Engine

	BeforeEach(func() {
		router = newTestRouter(testController(map[string]recogniser.Client{
			backendMitie: &fakeRecogniser{
				entities: []lib.Entity{{Tag: lib.TagPerson, Score: 0.9931, Label: "Juan"}},
				info:     lib.BackendInfo{Name: "mitie", Model: "es_ner_total", Available: true},
			},
			backendSpacy: &fakeRecogniser{
				entities: []lib.Entity{{Tag: lib.TagLocation, Score: 0.95, Label: "Madrid"}},
				info:     lib.BackendInfo{Name: "spacy", Error: "spacy at http://localhost:8080: connection refused"},
			},
		}))
	})

	It("returns the entity collection for a json request", func() {
		w := performRequest(router, http.MethodPost, "/ner", "application/json", `{"text": "Juan vive en Madrid."}`)
		Expect(w.Code).To(Equal(200))
		Expect(w.Body.String()).To(MatchJSON(`{"entities": [{"tag": "PERSON", "score": "0.9931", "label": "Juan"}]}`))
	})

	It("accepts plain text bodies", func() {
		w := performRequest(router, http.MethodPost, "/ner", "text/plain", "Juan vive en Madrid.")
		Expect(w.Code).To(Equal(200))
		Expect(w.Body.String()).To(MatchJSON(`{"entities": [{"tag": "PERSON", "score": "0.9931", "label": "Juan"}]}`))
	})

	It("accepts html bodies", func() {
		w := performRequest(router, http.MethodPost, "/ner", "text/html", "<p>Juan vive en Madrid.</p>")
		Expect(w.Code).To(Equal(200))
	})

	It("selects the backend from the query string", func() {
		w := performRequest(router, http.MethodPost, "/ner?backend=spacy", "application/json", `{"text": "Juan vive en Madrid."}`)
		Expect(w.Code).To(Equal(200))
		Expect(w.Body.String()).To(MatchJSON(`{"entities": [{"tag": "LOCATION", "score": "0.9500", "label": "Madrid"}]}`))
	})

	It("rejects an unknown backend", func() {
		w := performRequest(router, http.MethodPost, "/ner?backend=stanford", "application/json", `{"text": "Juan"}`)
		Expect(w.Code).To(Equal(400))
		Expect(w.Body.String()).To(ContainSubstring("unknown backend"))
	})

	It("rejects a missing body", func() {
		w := performRequest(router, http.MethodPost, "/ner", "application/json", "")
		Expect(w.Code).To(Equal(400))
		Expect(w.Body.String()).To(MatchJSON(`{"status": 400, "message": "request body missing"}`))
	})

	It("rejects invalid json", func() {
		w := performRequest(router, http.MethodPost, "/ner", "application/json", "{not json")
		Expect(w.Code).To(Equal(400))
	})

	It("rejects a json body without a text field", func() {
		w := performRequest(router, http.MethodPost, "/ner", "application/json", `{"other": "value"}`)
		Expect(w.Code).To(Equal(400))
		Expect(w.Body.String()).To(ContainSubstring("missing text field"))
	})

	It("rejects an unsupported content type", func() {
		w := performRequest(router, http.MethodPost, "/ner", "application/xml", "<text>Juan</text>")
		Expect(w.Code).To(Equal(400))
		Expect(w.Body.String()).To(ContainSubstring("invalid content type"))
	})

	It("rejects text over the configured limit", func() {
		long := strings.Repeat("a", 101)
		w := performRequest(router, http.MethodPost, "/ner", "application/json", fmt.Sprintf(`{"text": %q}`, long))
		Expect(w.Code).To(Equal(400))
		Expect(w.Body.String()).To(ContainSubstring("too long"))

		w = performRequest(router, http.MethodPost, "/ner", "text/plain", long)
		Expect(w.Code).To(Equal(400))
	})

	It("returns an empty collection for empty text", func() {
		router = newTestRouter(testController(map[string]recogniser.Client{
			backendMitie: &fakeRecogniser{},
		}))
		w := performRequest(router, http.MethodPost, "/ner", "application/json", `{"text": ""}`)
		Expect(w.Code).To(Equal(200))
		Expect(w.Body.String()).To(MatchJSON(`{"entities": []}`))
	})

	It("maps an unavailable backend to 503", func() {
		router = newTestRouter(testController(map[string]recogniser.Client{
			backendMitie: &fakeRecogniser{
				err: fmt.Errorf("%w: mitie at http://localhost:9090: connection refused", lib.ErrBackendUnavailable),
			},
		}))
		w := performRequest(router, http.MethodPost, "/ner", "application/json", `{"text": "Juan"}`)
		Expect(w.Code).To(Equal(503))
		Expect(w.Body.String()).To(ContainSubstring("connection refused"))
	})
})

var _ = Describe("GET endpoints", func() {
	var router *gin.Engine

	BeforeEach(func() {
		router = newTestRouter(testController(map[string]recogniser.Client{
			backendMitie: &fakeRecogniser{info: lib.BackendInfo{Name: "mitie", Model: "es_ner_total", Available: true}},
			backendSpacy: &fakeRecogniser{info: lib.BackendInfo{Name: "spacy", Error: "spacy at http://localhost:8080: connection refused"}},
		}))
	})

	It("reports a healthy default backend", func() {
		w := performRequest(router, http.MethodGet, "/health", "", "")
		Expect(w.Code).To(Equal(200))
		Expect(w.Body.String()).To(MatchJSON(`{"status": "healthy", "backend": "mitie", "model": "es_ner_total"}`))
	})

	It("reports an unhealthy default backend with 503", func() {
		ctrl := testController(map[string]recogniser.Client{
			backendMitie: &fakeRecogniser{info: lib.BackendInfo{Name: "mitie", Available: true}},
			backendSpacy: &fakeRecogniser{info: lib.BackendInfo{Name: "spacy", Error: "spacy at http://localhost:8080: connection refused"}},
		})
		ctrl.defaultBackend = backendSpacy
		router = newTestRouter(ctrl)

		w := performRequest(router, http.MethodGet, "/health", "", "")
		Expect(w.Code).To(Equal(503))
		Expect(w.Body.String()).To(ContainSubstring("unhealthy"))
	})

	It("lists all configured backends", func() {
		w := performRequest(router, http.MethodGet, "/backends", "", "")
		Expect(w.Code).To(Equal(200))
		Expect(w.Body.String()).To(MatchJSON(`[
			{"name": "mitie", "model": "es_ner_total", "available": true},
			{"name": "spacy", "available": false, "error": "spacy at http://localhost:8080: connection refused"}
		]`))
	})

	It("serves the banner", func() {
		w := performRequest(router, http.MethodGet, "/", "", "")
		Expect(w.Code).To(Equal(200))
		Expect(w.Body.String()).To(ContainSubstring("Spanish NER API"))
		Expect(w.Body.String()).To(ContainSubstring(version))
	})
})

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gitlab.com/textlab/spanish-ner/lib"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the NER REST API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	ctrl, err := newController()
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.LoggerWithFormatter(lib.JsonLogFormatter), gin.Recovery(), cors.Default())

	s := server{controller: ctrl, maxTextLength: config.MaxTextLength}
	s.RegisterRoutes(r)

	go lib.HandleInterrupt()

	addr := fmt.Sprintf("%s:%d", config.APIHost, config.APIPort)
	log.Info().Str("addr", addr).Str("backend", ctrl.DefaultBackend()).Msg("starting NER API")
	return r.Run(addr)
}

type HttpError struct {
	code int
	error
}

func (e HttpError) Error() string {
	return e.error.Error()
}

func NewHttpError(code int, err error) HttpError {
	return HttpError{
		code:  code,
		error: err,
	}
}

type server struct {
	controller    controller
	maxTextLength int
}

func (s server) RegisterRoutes(r *gin.Engine) {
	r.GET("/", s.Root)
	r.GET("/health", s.Health)
	r.GET("/backends", s.ListBackends)
	r.POST("/ner", validateBody, s.Recognize)
}

type nerRequest struct {
	Text *string `json:"text"`
}

type nerResponse struct {
	Entities []lib.Entity `json:"entities"`
}

func (s server) Root(c *gin.Context) {
	c.JSON(200, gin.H{
		"message": "Spanish NER API",
		"version": version,
		"backend": s.controller.DefaultBackend(),
		"endpoints": gin.H{
			"ner":      "/ner - POST - named entity analysis",
			"health":   "/health - GET - API status",
			"backends": "/backends - GET - configured backends",
		},
	})
}

func (s server) Health(c *gin.Context) {
	info, err := s.controller.BackendInfo("")
	if err != nil {
		handleError(c, err)
		return
	}
	if !info.Available {
		c.JSON(503, gin.H{"status": "unhealthy", "backend": info.Name, "error": info.Error})
		return
	}
	c.JSON(200, gin.H{"status": "healthy", "backend": info.Name, "model": info.Model})
}

func (s server) ListBackends(c *gin.Context) {
	c.JSON(200, s.controller.Backends())
}

func (s server) Recognize(c *gin.Context) {
	contentType, ok := allowedContentTypeEnumMap[c.ContentType()]
	if !ok {
		handleError(c, NewHttpError(400, errors.New("invalid content type - must be application/json, text/plain or text/html")))
		return
	}

	var reader io.Reader
	if c.ContentType() == "application/json" {
		var req nerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			handleError(c, NewHttpError(400, errors.New("invalid request body - must be valid json")))
			return
		}
		if req.Text == nil {
			handleError(c, NewHttpError(400, errors.New("missing text field")))
			return
		}
		if len(*req.Text) > s.maxTextLength {
			handleError(c, NewHttpError(400, fmt.Errorf("text is too long - maximum %d characters", s.maxTextLength)))
			return
		}
		reader = strings.NewReader(*req.Text)
	} else {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, int64(s.maxTextLength)+1))
		if err != nil {
			handleError(c, err)
			return
		}
		if len(body) > s.maxTextLength {
			handleError(c, NewHttpError(400, fmt.Errorf("text is too long - maximum %d characters", s.maxTextLength)))
			return
		}
		reader = bytes.NewReader(body)
	}

	entities, err := s.controller.Recognize(reader, contentType, c.Query("backend"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(200, nerResponse{Entities: entities})
}

func validateBody(c *gin.Context) {
	if c.Request.Body == nil {
		handleError(c, NewHttpError(400, errors.New("request body missing")))
	} else if _, err := c.Request.Body.Read(nil); err == io.EOF {
		handleError(c, NewHttpError(400, errors.New("request body missing")))
	} else {
		c.Next()
	}
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		abort(c, 500, errors.New("abort called on nil error"))
		return
	}
	switch e := err.(type) {
	case HttpError:
		abort(c, e.code, e.error)
	default:
		switch {
		case errors.Is(err, errUnknownBackend):
			abort(c, 400, err)
		case errors.Is(err, lib.ErrBackendUnavailable):
			abort(c, 503, err)
		default:
			abort(c, 500, err)
		}
	}
}

func abort(c *gin.Context, code int, err error) {
	c.JSON(code, map[string]interface{}{
		"status":  code,
		"message": err.Error(),
	})
	c.Abort()
}

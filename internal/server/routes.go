package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"digitsort/internal/batch"
	"digitsort/internal/ingest"
	"digitsort/internal/radix"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type sortRequest struct {
	Values any  `json:"values"`
	Trace  bool `json:"trace"`
}

type sortResponse struct {
	Values []int        `json:"values"`
	Width  int          `json:"width"`
	Passes []radix.Pass `json:"passes,omitempty"`
}

type batchRequest struct {
	Inputs any `json:"inputs"`
}

type batchItem struct {
	Values []int  `json:"values"`
	Error  string `json:"error,omitempty"`
}

type batchResponse struct {
	Results []batchItem `json:"results"`
	Failed  int         `json:"failed"`
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	v1 := s.router.Group("/v1")
	v1.POST("/sort", s.handleSort)
	v1.POST("/sort/batch", s.handleBatch)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleSort(c *gin.Context) {
	var req sortRequest
	if err := decodeBody(c, &req); err != nil {
		s.abortWithError(c, http.StatusBadRequest, err)
		return
	}

	values, err := ingest.FromJSONValue(req.Values)
	if err != nil {
		s.abortWithError(c, http.StatusBadRequest, err)
		return
	}
	if err := ingest.CheckLimit(values, s.cfg.Limits.MaxValues); err != nil {
		s.abortWithError(c, statusFor(err), err)
		return
	}

	sorter := radix.NewSorter(radix.WithLogger(s.logger))
	resp := sortResponse{Width: radix.Width(values)}
	if req.Trace && s.cfg.Server.Trace {
		resp.Values, resp.Passes, err = sorter.Trace(values)
	} else {
		resp.Values, err = sorter.Sort(values)
	}
	if err != nil {
		s.abortWithError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleBatch(c *gin.Context) {
	var req batchRequest
	if err := decodeBody(c, &req); err != nil {
		s.abortWithError(c, http.StatusBadRequest, err)
		return
	}
	raw, ok := req.Inputs.([]any)
	if !ok {
		s.abortWithError(c, http.StatusBadRequest,
			fmt.Errorf("%w: inputs must be an array of arrays", radix.ErrInvalidArgument))
		return
	}
	if err := ingest.CheckBatchLimit(len(raw), s.cfg.Limits.MaxBatchInputs); err != nil {
		s.abortWithError(c, statusFor(err), err)
		return
	}

	inputs := make([]batch.Input, len(raw))
	for i, r := range raw {
		values, err := ingest.FromJSONValue(r)
		if err == nil {
			err = ingest.CheckLimit(values, s.cfg.Limits.MaxValues)
		}
		inputs[i] = batch.Input{Values: values, Err: err}
	}

	results, err := batch.Run(c.Request.Context(), inputs, batch.Options{
		Workers: s.cfg.EffectiveWorkers(),
		Logger:  s.logger,
	})
	if err != nil {
		s.abortWithError(c, statusFor(err), err)
		return
	}

	items := make([]batchItem, len(results))
	for i, r := range results {
		if r.Err != nil {
			items[i].Error = r.Err.Error()
			continue
		}
		items[i].Values = r.Values
	}

	c.JSON(http.StatusOK, batchResponse{Results: items, Failed: batch.Failed(results)})
}

// decodeBody binds the JSON body and rejects anything after the first
// document. The body is cached by gin under gin.BodyBytesKey.
func decodeBody(c *gin.Context, dst any) error {
	if err := c.ShouldBindBodyWithJSON(dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", radix.ErrInvalidArgument, err)
	}
	if body, ok := c.Get(gin.BodyBytesKey); ok {
		if b, ok := body.([]byte); ok && !json.Valid(b) {
			return fmt.Errorf("%w: malformed JSON body: trailing data after document", radix.ErrInvalidArgument)
		}
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ingest.ErrLimitExceeded):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, radix.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) abortWithError(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

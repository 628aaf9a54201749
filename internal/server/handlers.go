package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	apperrors "optionlab/internal/errors"
	"optionlab/internal/legspec"
	"optionlab/internal/logging"
	"optionlab/internal/models"
	"optionlab/internal/payoff"
	"optionlab/internal/presets"
)

// maxSamples caps the curve resolution a client may request.
const maxSamples = 10000

// maxBodyBytes limits request bodies.
const maxBodyBytes = 1 << 20

var (
	errNoStore  = errors.New("strategy store is not configured")
	errNoQuotes = errors.New("quote provider is not configured")
)

type errorResponse struct {
	Type string `json:"type"`
	Msg  string `json:"message"`
	// Error duplicates Msg for older /getprice clients that read "error".
	Error string `json:"error"`
}

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	Legs     []models.OptionLeg `json:"legs"`
	MinPrice *float64           `json:"min_price,omitempty"`
	MaxPrice *float64           `json:"max_price,omitempty"`
	Samples  int                `json:"samples,omitempty"`
}

// StrategyRequest is the body of POST and PUT /api/strategies.
type StrategyRequest struct {
	Name string             `json:"name"`
	Legs []models.OptionLeg `json:"legs"`
}

func setResponse(w http.ResponseWriter, status int, response interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if response == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(response)
}

func (s *Server) setErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status, errType := classify(err)
	if status >= http.StatusInternalServerError {
		logger := logging.FromContext(r.Context())
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	}
	setResponse(w, status, errorResponse{Type: errType, Msg: err.Error(), Error: err.Error()})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrInputValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperrors.ErrStrategyNotFound),
		errors.Is(err, apperrors.ErrPresetNotFound),
		errors.Is(err, apperrors.ErrSymbolNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, errNoStore),
		errors.Is(err, errNoQuotes),
		errors.Is(err, apperrors.ErrQuoteUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func decodeBody(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return apperrors.NewValidationError("body", "", fmt.Sprintf("invalid JSON: %v", err))
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	setResponse(w, http.StatusOK, map[string]string{"message": "optionlab"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	setResponse(w, http.StatusOK, s.health.Check(r.Context()))
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decodeBody(r, &req); err != nil {
		s.setErrorResponse(w, r, err)
		return
	}

	legspec.ApplyDefaults(req.Legs)
	if err := legspec.Validate(req.Legs); err != nil {
		s.setErrorResponse(w, r, err)
		return
	}

	opts, err := s.curveOptions(req)
	if err != nil {
		s.setErrorResponse(w, r, err)
		return
	}

	analysis := payoff.AnalyzeWith(req.Legs, opts)
	logging.LogAnalysis(logging.FromContext(r.Context()), len(req.Legs), len(analysis.PayoffData), len(analysis.Breakevens), analysis.NetPremium)
	setResponse(w, http.StatusOK, analysis)
}

func (s *Server) curveOptions(req AnalyzeRequest) (payoff.CurveOptions, error) {
	opts := payoff.CurveOptions{
		MinPrice:    req.MinPrice,
		MaxPrice:    req.MaxPrice,
		SampleCount: s.samples,
	}
	if req.Samples != 0 {
		if req.Samples < 1 || req.Samples > maxSamples {
			return opts, apperrors.NewValidationError("samples", req.Samples, fmt.Sprintf("must be between 1 and %d", maxSamples))
		}
		opts.SampleCount = req.Samples
	}
	if req.MinPrice != nil && *req.MinPrice < 0 {
		return opts, apperrors.NewValidationError("min_price", *req.MinPrice, "must be >= 0")
	}
	if lo, hi := opts.Range(req.Legs); hi <= lo {
		if req.MaxPrice != nil {
			return opts, apperrors.NewValidationError("max_price", hi, fmt.Sprintf("must be greater than the window minimum %.2f", lo))
		}
		return opts, apperrors.NewValidationError("min_price", lo, fmt.Sprintf("must be less than the window maximum %.2f", hi))
	}
	return opts, nil
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	base := s.base
	if raw := r.URL.Query().Get("base"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			s.setErrorResponse(w, r, apperrors.NewValidationError("base", raw, "must be a positive number"))
			return
		}
		base = v
	}
	setResponse(w, http.StatusOK, presets.All(base))
}

func (s *Server) handleListStrategies(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.setErrorResponse(w, r, errNoStore)
		return
	}
	strategies, err := s.store.List(r.Context())
	if err != nil {
		s.setErrorResponse(w, r, err)
		return
	}
	setResponse(w, http.StatusOK, strategies)
}

func (s *Server) handleGetStrategy(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.setErrorResponse(w, r, errNoStore)
		return
	}
	strategy, err := s.store.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.setErrorResponse(w, r, err)
		return
	}
	setResponse(w, http.StatusOK, strategy)
}

func (s *Server) decodeStrategy(r *http.Request) (StrategyRequest, error) {
	var req StrategyRequest
	if err := decodeBody(r, &req); err != nil {
		return req, err
	}
	legspec.ApplyDefaults(req.Legs)
	if err := legspec.Validate(req.Legs); err != nil {
		return req, err
	}
	return req, nil
}

func (s *Server) handleCreateStrategy(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.setErrorResponse(w, r, errNoStore)
		return
	}
	req, err := s.decodeStrategy(r)
	if err != nil {
		s.setErrorResponse(w, r, err)
		return
	}
	strategy, err := s.store.Save(r.Context(), req.Name, req.Legs)
	if err != nil {
		s.setErrorResponse(w, r, err)
		return
	}
	setResponse(w, http.StatusCreated, strategy)
}

func (s *Server) handleUpdateStrategy(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.setErrorResponse(w, r, errNoStore)
		return
	}
	req, err := s.decodeStrategy(r)
	if err != nil {
		s.setErrorResponse(w, r, err)
		return
	}
	strategy, err := s.store.Update(r.Context(), mux.Vars(r)["id"], req.Name, req.Legs)
	if err != nil {
		s.setErrorResponse(w, r, err)
		return
	}
	setResponse(w, http.StatusOK, strategy)
}

func (s *Server) handleDeleteStrategy(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.setErrorResponse(w, r, errNoStore)
		return
	}
	if err := s.store.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.setErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetPrice(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimSpace(r.URL.Query().Get("stock"))
	if symbol == "" {
		s.setErrorResponse(w, r, apperrors.NewValidationError("stock", "", "stock symbol is required"))
		return
	}
	if s.quotes == nil {
		s.setErrorResponse(w, r, errNoQuotes)
		return
	}

	q, err := s.quotes.Fetch(r.Context(), symbol)
	if err != nil {
		s.setErrorResponse(w, r, err)
		return
	}
	setResponse(w, http.StatusOK, q)
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	apperrors "github.com/agbru/ulam/internal/errors"
	"github.com/agbru/ulam/internal/service"
	"github.com/agbru/ulam/internal/spiral"
	"github.com/agbru/ulam/pkg/models"
)

// handleHealth reports that the server is up.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	s.writeJSONResponse(w, http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Unix(),
	})
}

// handleVersion returns the build information of the running binary.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	s.writeJSONResponse(w, http.StatusOK, s.version)
}

// handleSpiral returns the first n coordinates of the spiral.
func (s *Server) handleSpiral(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	n, err := parseSpiralParams(r)
	if err != nil {
		var valErr apperrors.ValidationError
		if errors.As(err, &valErr) {
			s.writeErrorResponse(w, http.StatusBadRequest, valErr.Message)
		} else {
			s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	start := time.Now()
	coords, err := s.service.Generate(ctx, n)
	duration := time.Since(start)

	switch {
	case errors.Is(err, service.ErrMaxCountExceeded):
		s.writeErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("Value of 'n' exceeds maximum allowed (%d). This limit prevents resource exhaustion.", s.securityConfig.MaxNValue))
		return
	case errors.Is(err, context.DeadlineExceeded):
		s.writeErrorResponse(w, http.StatusServiceUnavailable, "Generation timed out")
		return
	case err != nil:
		s.logger.Error("spiral generation failed", err)
		s.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSONResponse(w, http.StatusOK, buildSpiralResponse(coords, duration))
}

// parseSpiralParams extracts the requested count. It must be present and a
// positive integer.
func parseSpiralParams(r *http.Request) (uint64, error) {
	nStr := r.URL.Query().Get("n")
	if nStr == "" {
		return 0, apperrors.NewValidationError("n", "Missing 'n' parameter", nil)
	}

	// ParseUint rejects a leading minus sign.
	n, err := strconv.ParseUint(nStr, 10, 64)
	if err != nil || n == 0 {
		return 0, apperrors.NewValidationError("n", "Invalid 'n' parameter: must be a positive integer", nStr)
	}
	return n, nil
}

func buildSpiralResponse(coords []spiral.Coord[int64], duration time.Duration) models.SpiralResponse {
	count := uint64(len(coords))
	return models.SpiralResponse{
		Count:       count,
		Rings:       spiral.CompleteRings(count),
		Duration:    duration.String(),
		Coordinates: models.PointsFrom(coords),
	}
}

// writeJSONResponse writes data as JSON with the given status code.
func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Printf("Error encoding JSON response: %v", err)
	}
}

// writeErrorResponse writes a models.ErrorResponse.
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	s.writeJSONResponse(w, statusCode, models.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

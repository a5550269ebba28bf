package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MeKo-Tech/stipple/internal/encode"
	"github.com/MeKo-Tech/stipple/internal/render"
	"github.com/MeKo-Tech/stipple/internal/style"
	"github.com/MeKo-Tech/stipple/internal/version"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	writeJSON(w, http.StatusOK, response)
}

// stylesHandler lists the available styles.
func (s *Server) stylesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	infos := make([]StyleInfo, len(style.Styles))
	for i, st := range style.Styles {
		infos[i] = StyleInfo{Name: st.String(), Label: st.Label()}
	}

	writeJSON(w, http.StatusOK, StylesResponse{Styles: infos, Count: len(infos)})
}

// formatsHandler lists the available symbologies.
func (s *Server) formatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	infos := make([]FormatInfo, len(encode.Formats))
	for i, f := range encode.Formats {
		infos[i] = FormatInfo{Name: f.String(), Label: f.Label(), Square: f.IsSquare()}
	}

	writeJSON(w, http.StatusOK, FormatsResponse{Formats: infos, Count: len(infos)})
}

// generateHandler renders one styled code from a JSON request. The
// response is the PNG image itself unless the client asks for JSON via
// the Accept header, in which case the PNG is returned base64-encoded.
func (s *Server) generateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyKB*1024)

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, "Failed to parse request body: "+err.Error(), http.StatusBadRequest)
		generateRequestsTotal.WithLabelValues("unknown", "error").Inc()
		return
	}

	result, status, err := s.renderFromWire(&req)
	if err != nil {
		s.writeErrorResponse(w, err.Error(), status)
		generateRequestsTotal.WithLabelValues(req.Format, "error").Inc()
		return
	}

	generateRequestsTotal.WithLabelValues(result.Format.String(), "success").Inc()
	generateDuration.WithLabelValues(result.Format.String()).Observe(result.Elapsed.Seconds())
	generatedBytes.Observe(float64(len(result.PNG)))

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, GenerateResponse{
			Success: true,
			PNG:     base64.StdEncoding.EncodeToString(result.PNG),
			Width:   result.Width,
			Height:  result.Height,
			Format:  result.Format.String(),
			Style:   result.Style.String(),
		})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(result.PNG)))
	if _, err := w.Write(result.PNG); err != nil {
		slog.Error("Failed to write PNG response", "error", err)
	}
}

// renderFromWire converts and renders a wire request, mapping failures
// to HTTP status codes.
func (s *Server) renderFromWire(req *GenerateRequest) (*render.Result, int, error) {
	renderReq, err := req.toRenderRequest()
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	result, err := s.renderer.Render(renderReq)
	if err != nil {
		var encErr *encode.EncodingError
		if errors.As(err, &encErr) {
			return nil, http.StatusUnprocessableEntity, err
		}
		return nil, http.StatusInternalServerError, err
	}
	return result, http.StatusOK, nil
}

// writeErrorResponse writes a JSON error envelope.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, ErrorResponse{Success: false, Error: message})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json")
}

package server

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"net/http"

	"github.com/MeKo-Tech/stipple/internal/encode"
	"github.com/MeKo-Tech/stipple/internal/render"
	"github.com/MeKo-Tech/stipple/internal/style"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	renderer    *render.Renderer
	corsOrigin  string
	maxBodyKB   int64
	timeoutSec  int
	rateLimiter *RateLimiter
}

// Config holds server configuration.
type Config struct {
	Host          string
	Port          int
	CORSOrigin    string
	MaxBodyKB     int64
	TimeoutSec    int
	RatePerMinute int

	// Renderer defaults applied to requests that omit them.
	DefaultSize   int
	DefaultFormat encode.Format
	DefaultStyle  style.Style
	DefaultLevel  encode.Level
}

// HealthResponse reports server liveness.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// StyleInfo describes one available style.
type StyleInfo struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// StylesResponse lists the available styles.
type StylesResponse struct {
	Styles []StyleInfo `json:"styles"`
	Count  int         `json:"count"`
}

// FormatInfo describes one available symbology.
type FormatInfo struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Square bool   `json:"square"`
}

// FormatsResponse lists the available symbologies.
type FormatsResponse struct {
	Formats []FormatInfo `json:"formats"`
	Count   int          `json:"count"`
}

// GenerateRequest is the JSON body accepted by /generate and /ws/generate.
type GenerateRequest struct {
	Data            string `json:"data"`
	Format          string `json:"format,omitempty"`
	Style           string `json:"style,omitempty"`
	Size            int    `json:"size,omitempty"`
	ErrorCorrection string `json:"error_correction,omitempty"`
	StripHeight     int    `json:"strip_height,omitempty"`

	Foreground string `json:"foreground,omitempty"`
	Background string `json:"background,omitempty"`
	Secondary  string `json:"secondary,omitempty"`
	Tertiary   string `json:"tertiary,omitempty"`

	FrameWidth int    `json:"frame_width,omitempty"`
	FrameColor string `json:"frame_color,omitempty"`

	ShadowDX    int     `json:"shadow_dx,omitempty"`
	ShadowDY    int     `json:"shadow_dy,omitempty"`
	ShadowBlur  float64 `json:"shadow_blur,omitempty"`
	ShadowColor string  `json:"shadow_color,omitempty"`

	// Logo is a base64-encoded PNG composited by the with-logo style.
	Logo         string  `json:"logo,omitempty"`
	LogoFraction float64 `json:"logo_fraction,omitempty"`

	MosaicCells int     `json:"mosaic_cells,omitempty"`
	EyeFraction float64 `json:"eye_fraction,omitempty"`
}

// GenerateResponse is the JSON envelope used by the WebSocket endpoint
// and by /generate when the client asks for JSON.
type GenerateResponse struct {
	Success bool   `json:"success"`
	PNG     string `json:"png,omitempty"` // base64
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	Format  string `json:"format,omitempty"`
	Style   string `json:"style,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewServer creates a new code generation server instance.
func NewServer(config Config) (*Server, error) {
	builder := render.NewBuilder()
	if config.DefaultSize > 0 {
		builder = builder.WithSize(config.DefaultSize)
	}
	if config.DefaultFormat != encode.FormatUnknown {
		builder = builder.WithFormat(config.DefaultFormat)
	}
	if config.DefaultStyle != style.StyleUnknown {
		builder = builder.WithStyle(config.DefaultStyle)
	}
	if config.DefaultLevel != encode.LevelDefault {
		builder = builder.WithLevel(config.DefaultLevel)
	}

	renderer, err := builder.Build()
	if err != nil {
		return nil, err
	}

	var limiter *RateLimiter
	if config.RatePerMinute > 0 {
		limiter = NewRateLimiter(config.RatePerMinute)
	}

	return &Server{
		renderer:    renderer,
		corsOrigin:  config.CORSOrigin,
		maxBodyKB:   config.MaxBodyKB,
		timeoutSec:  config.TimeoutSec,
		rateLimiter: limiter,
	}, nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/styles", s.corsMiddleware(s.stylesHandler))
	mux.HandleFunc("/formats", s.corsMiddleware(s.formatsHandler))
	mux.HandleFunc("/generate", s.corsMiddleware(s.rateLimitMiddleware(s.generateHandler)))
	mux.HandleFunc("/ws/generate", s.generateWebSocketHandler)
	mux.Handle("/metrics", metricsHandler())
}

// toRenderRequest translates the wire request into a render request.
// Field-level parse failures surface as *requestError.
func (r *GenerateRequest) toRenderRequest() (render.Request, error) {
	req := render.Request{
		Data:        r.Data,
		Size:        r.Size,
		StripHeight: r.StripHeight,
	}

	if r.Data == "" {
		return req, &requestError{field: "data", err: fmt.Errorf("payload must not be empty")}
	}

	if r.Format != "" {
		f, err := encode.ParseFormat(r.Format)
		if err != nil {
			return req, &requestError{field: "format", err: err}
		}
		req.Format = f
	}
	if r.Style != "" {
		st, err := style.ParseStyle(r.Style)
		if err != nil {
			return req, &requestError{field: "style", err: err}
		}
		req.Style = st
	}
	if r.ErrorCorrection != "" {
		level, err := encode.ParseLevel(r.ErrorCorrection)
		if err != nil {
			return req, &requestError{field: "error_correction", err: err}
		}
		req.Level = level
	}

	pal, err := r.palette()
	if err != nil {
		return req, err
	}
	req.Palette = pal

	params, err := r.params()
	if err != nil {
		return req, err
	}
	req.Params = params

	return req, nil
}

func (r *GenerateRequest) palette() (style.Palette, error) {
	var pal style.Palette

	if r.Foreground != "" {
		c, err := style.ParseColor(r.Foreground)
		if err != nil {
			return pal, &requestError{field: "foreground", err: err}
		}
		pal.Primary = c
	}
	if r.Background != "" {
		c, err := style.ParseColor(r.Background)
		if err != nil {
			return pal, &requestError{field: "background", err: err}
		}
		pal.Background = c
	}
	if r.Secondary != "" {
		c, err := style.ParseColor(r.Secondary)
		if err != nil {
			return pal, &requestError{field: "secondary", err: err}
		}
		pal.Secondary = c
	}
	if r.Tertiary != "" {
		c, err := style.ParseColor(r.Tertiary)
		if err != nil {
			return pal, &requestError{field: "tertiary", err: err}
		}
		pal.Tertiary = c
	}
	return pal, nil
}

func (r *GenerateRequest) params() (style.Params, error) {
	params := style.Params{
		FrameWidth:   r.FrameWidth,
		ShadowOffset: image.Pt(r.ShadowDX, r.ShadowDY),
		ShadowBlur:   r.ShadowBlur,
		LogoFraction: r.LogoFraction,
		MosaicCells:  r.MosaicCells,
		EyeFraction:  r.EyeFraction,
	}

	if r.FrameColor != "" {
		c, err := style.ParseColor(r.FrameColor)
		if err != nil {
			return params, &requestError{field: "frame_color", err: err}
		}
		params.FrameColor = c
	}
	if r.ShadowColor != "" {
		c, err := style.ParseColor(r.ShadowColor)
		if err != nil {
			return params, &requestError{field: "shadow_color", err: err}
		}
		params.ShadowColor = c
	}
	if r.Logo != "" {
		raw, err := base64.StdEncoding.DecodeString(r.Logo)
		if err != nil {
			return params, &requestError{field: "logo", err: err}
		}
		logo, err := png.Decode(bytes.NewReader(raw))
		if err != nil {
			return params, &requestError{field: "logo", err: err}
		}
		params.Logo = logo
	}
	return params, nil
}

// requestError marks a client-side request field failure.
type requestError struct {
	field string
	err   error
}

func (e *requestError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.field, e.err)
}

func (e *requestError) Unwrap() error { return e.err }

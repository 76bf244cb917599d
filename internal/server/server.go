// Package server implements the protplot web GUI: upload a feature
// file, select proteins and domains, pick a shape and colors, and view
// the rendered track figure inline.
//
// All state is in-memory and per browser session. Parse failures map to
// 422; an empty filtered selection is reported as an informational
// message, not an error.
package server

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"

	"github.com/protplot/protplot/internal/config"
	"github.com/protplot/protplot/internal/gff"
	"github.com/protplot/protplot/internal/palette"
	"github.com/protplot/protplot/internal/track"
)

// Server is the web GUI HTTP application.
type Server struct {
	cfg      *config.Config
	log      *slog.Logger
	sessions *SessionStore
	mux      *http.ServeMux
}

// New creates the web application from configuration.
func New(cfg *config.Config, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	policyName := cfg.Render.Palette
	newPolicy := func() palette.Policy {
		p, err := palette.ParsePolicy(policyName)
		if err != nil {
			return palette.FixedPolicy{}
		}
		return p
	}
	if _, err := palette.ParsePolicy(policyName); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		log:      log,
		sessions: NewSessionStore(newPolicy),
		mux:      http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /upload", s.handleUpload)
	s.mux.HandleFunc("POST /render", s.handleRender)

	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe runs the server on the configured address.
func (s *Server) ListenAndServe() error {
	s.log.Info("serve starting", "addr", s.cfg.Serve.Addr)
	return http.ListenAndServe(s.cfg.Serve.Addr, s.Handler())
}

// session returns the request's session, creating one and setting the
// cookie when missing.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *Session {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if sess, ok := s.sessions.Get(c.Value); ok {
			return sess
		}
	}

	sess := s.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.Lock()
	defer sess.Unlock()

	s.renderPage(w, http.StatusOK, s.pageFor(sess, nil, nil, "", pageData{}))
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.Lock()
	defer sess.Unlock()

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Serve.MaxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.log.Warn("upload rejected", "error", err)
		s.renderPage(w, http.StatusBadRequest,
			s.pageFor(sess, nil, nil, "", pageData{Error: "no file uploaded"}))
		return
	}
	defer file.Close()

	result, err := gff.Parse(file)
	if err != nil {
		s.log.Warn("parse failed", "file", header.Filename, "error", err)
		s.renderPage(w, http.StatusUnprocessableEntity,
			s.pageFor(sess, nil, nil, "", pageData{Error: fmt.Sprintf("could not parse %s: %v", header.Filename, err)}))
		return
	}

	sess.FileName = header.Filename
	sess.Result = result
	s.log.Info("file parsed",
		"file", header.Filename,
		"records", len(result.Records),
		"proteins", len(result.Proteins))

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.Lock()
	defer sess.Unlock()

	if sess.Result == nil {
		s.renderPage(w, http.StatusBadRequest,
			s.pageFor(sess, nil, nil, "", pageData{Error: "upload a feature file first"}))
		return
	}

	if err := r.ParseForm(); err != nil {
		s.renderPage(w, http.StatusBadRequest,
			s.pageFor(sess, nil, nil, "", pageData{Error: "malformed form submission"}))
		return
	}

	proteins := r.Form["protein"]
	domains := r.Form["domain"]

	shape, err := track.ParseShape(r.FormValue("shape"))
	if err != nil {
		shape, _ = track.ParseShape(s.cfg.Render.Shape)
	}

	// Lazily assign colors for the current selection, then apply any
	// user overrides from the color pickers.
	sess.Colors.Ensure(domains)
	for _, domain := range domains {
		if picked := r.FormValue("color_" + domain); picked != "" {
			if err := sess.Colors.Set(domain, picked); err != nil {
				s.log.Warn("color override rejected", "domain", domain, "error", err)
			}
		}
	}

	svg, err := track.Render(track.Request{
		Records:  sess.Result.Records,
		Proteins: proteins,
		Domains:  domains,
		Shape:    shape,
		Colors:   sess.Colors,
	}, &track.Options{Width: s.cfg.Render.FigureWidth, Title: "Protein domain tracks"})

	data := pageData{}
	switch {
	case errors.Is(err, track.ErrNoData):
		data.Message = "No domain data found for the selected proteins and domains."
	case err != nil:
		s.log.Error("render failed", "error", err)
		s.renderPage(w, http.StatusInternalServerError,
			s.pageFor(sess, proteins, domains, shape.String(), pageData{Error: "render failed"}))
		return
	default:
		data.SVG = template.HTML(svg)
		s.log.Info("figure rendered",
			"proteins", len(proteins),
			"domains", len(domains),
			"shape", shape.String())
	}

	s.renderPage(w, http.StatusOK, s.pageFor(sess, proteins, domains, shape.String(), data))
}

// pageFor assembles the view model for the current session state,
// carrying over the user's selection and any message or figure in base.
func (s *Server) pageFor(sess *Session, selectedProteins, selectedDomains []string, selectedShape string, base pageData) pageData {
	data := base
	data.FileName = sess.FileName

	if selectedShape == "" {
		selectedShape = s.cfg.Render.Shape
	}
	for _, shape := range track.Shapes {
		data.Shapes = append(data.Shapes, shapeView{
			Value:    shape.String(),
			Label:    shape.Label(),
			Selected: shape.String() == selectedShape,
		})
	}

	if sess.Result == nil {
		return data
	}

	proteinSel := toSet(selectedProteins)
	for _, id := range sess.Result.ProteinList() {
		data.Proteins = append(data.Proteins, optionView{Name: id, Selected: proteinSel[id]})
	}

	domainSel := toSet(selectedDomains)
	for _, name := range sess.Result.DomainList() {
		data.Domains = append(data.Domains, optionView{Name: name, Selected: domainSel[name]})
		if color, ok := sess.Colors.Get(name); ok {
			data.ColoredDomains = append(data.ColoredDomains, colorView{Name: name, Color: color})
		}
	}

	return data
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		s.log.Error("template render failed", "error", err)
	}
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// NewLogger builds the JSON logger used by the serve command.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

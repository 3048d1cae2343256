package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"runclub/internal/core"
	"runclub/internal/ledger"
	applog "runclub/internal/log"
	"runclub/internal/middleware/trace"
	"runclub/internal/pages"
	"runclub/internal/render"
)

// maxFormBytes bounds the size of submitted forms.
const maxFormBytes = 4 << 10

// document executes the host template of page and parses it for patching.
func (s *Server) document(page string, data pageData) (*render.Document, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, page+".html", data); err != nil {
		return nil, err
	}
	return render.Parse(&buf)
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, status int, doc *render.Document) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := doc.Render(w); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Page write failed", applog.FieldError, err)
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	applog.FromContext(r.Context()).LogError(r.Context(), msg, err, applog.OpRender, nil)
	body := "internal server error"
	if id := trace.GetRequestID(r.Context()); id != "" {
		body += " (request " + id + ")"
	}
	http.Error(w, body, http.StatusInternalServerError)
}

// loadPage builds a page and runs its page-load pipeline.
func (s *Server) loadPage(ctx context.Context, id pages.ID, data pageData) (*render.Document, error) {
	doc, err := s.document(string(id), data)
	if err != nil {
		return nil, err
	}
	if err := s.pages.Load(ctx, id, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Server) handlePage(id pages.ID) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := s.loadPage(r.Context(), id, newPageData(string(id)))
		if err != nil {
			s.fail(w, r, "Page render failed", err)
			return
		}
		s.write(w, r, http.StatusOK, doc)
	}
}

// handleLogRun records a submitted run and answers with the tracker page
// showing the feedback box and the new row on top of the history. A JSON
// submission gets the stored run back as JSON instead.
func (s *Server) handleLogRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, ok := s.parseBody(w, r)
	if !ok {
		return
	}
	rawDistance := body.Get("distance")
	pledge := body.Get("pledge")

	distance, err := core.ParseDistance(rawDistance)
	if err != nil {
		s.rejectRun(w, r, body.IsJSON(), rawDistance, err)
		return
	}

	if body.IsJSON() {
		run, err := s.tracker.Submit(ctx, nil, distance, pledge)
		if err != nil {
			s.runFailed(w, r, true, rawDistance, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"run": run})
		return
	}

	doc, err := s.loadPage(ctx, pages.Tracker, newPageData(string(pages.Tracker)))
	if err != nil {
		s.fail(w, r, "Page render failed", err)
		return
	}
	if _, err := s.tracker.Submit(ctx, doc, distance, pledge); err != nil {
		s.runFailed(w, r, false, rawDistance, err)
		return
	}
	s.write(w, r, http.StatusOK, doc)
}

func (s *Server) runFailed(w http.ResponseWriter, r *http.Request, asJSON bool, rawDistance string, err error) {
	if errors.Is(err, core.ErrInvalidDistance) {
		s.rejectRun(w, r, asJSON, rawDistance, err)
		return
	}
	if asJSON {
		applog.FromContext(r.Context()).LogError(r.Context(), "Run append failed", err, applog.OpAppend, nil)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not save run"})
		return
	}
	s.fail(w, r, "Run append failed", err)
}

// parseBody parses a submitted form or JSON body, answering 400 or 413 itself
// when that fails.
func (s *Server) parseBody(w http.ResponseWriter, r *http.Request) (*RequestBodyParser, bool) {
	body := NewRequestBodyParser(r)
	if err := body.Parse(); err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Parse body error", applog.FieldError, err)
		status := http.StatusBadRequest
		if errors.Is(err, errBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		http.Error(w, "invalid request body", status)
		return nil, false
	}
	return body, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) rejectRun(w http.ResponseWriter, r *http.Request, asJSON bool, rawDistance string, err error) {
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Run rejected",
		applog.FieldError, err, applog.FieldDistance, rawDistance)
	if asJSON {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}

	data := newPageData(string(pages.Tracker))
	data.Distance = rawDistance
	data.Error = "Please enter a valid distance in kilometres."
	doc, derr := s.loadPage(r.Context(), pages.Tracker, data)
	if derr != nil {
		s.fail(w, r, "Page render failed", derr)
		return
	}
	s.write(w, r, http.StatusUnprocessableEntity, doc)
}

// formPage renders the login or sign-up page with the welcome message applied.
func (s *Server) formPage(w http.ResponseWriter, r *http.Request, page string, status int, errMsg string) {
	data := newPageData(page)
	data.Error = errMsg
	doc, err := s.document(page, data)
	if err != nil {
		s.fail(w, r, "Page render failed", err)
		return
	}
	name, _ := s.identity.Name(r.Context())
	render.Welcome(doc, name)
	s.write(w, r, status, doc)
}

func (s *Server) handleForm(page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.formPage(w, r, page, http.StatusOK, "")
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	body, ok := s.parseBody(w, r)
	if !ok {
		return
	}
	if _, err := s.identity.Login(r.Context(), body.Get("email")); err != nil {
		s.fail(w, r, "Login failed", err)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	body, ok := s.parseBody(w, r)
	if !ok {
		return
	}
	fullName := body.Get("fullname")
	accepted := body.Get("pledge") != ""

	switch err := s.identity.Signup(r.Context(), fullName, accepted); {
	case errors.Is(err, ledger.ErrPledgeNotAccepted):
		s.formPage(w, r, pageSignup, http.StatusUnprocessableEntity,
			"You must agree to the Community Pledge to join. We believe in sharing the wealth!")
	case fullName == "":
		s.formPage(w, r, pageSignup, http.StatusUnprocessableEntity, "Please enter your name.")
	case err != nil:
		s.fail(w, r, "Sign-up failed", err)
	default:
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}
}

// handleLogout forgets the stored name. The run history is kept.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.identity.Clear(r.Context()); err != nil {
		s.fail(w, r, "Logout failed", err)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

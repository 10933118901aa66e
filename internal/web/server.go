// Package web serves the register as a local browser form.
package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/dutyreg/internal/duty"
	"github.com/sadopc/dutyreg/internal/export"
	"github.com/sadopc/dutyreg/internal/register"
)

type Server struct {
	reg *register.Register
	tpl *template.Template
	now func() time.Time
}

type Option func(*Server)

// WithClock sets the clock used to pick the default month.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func New(reg *register.Register, opts ...Option) *Server {
	s := &Server{
		reg: reg,
		tpl: template.Must(template.New("page").Funcs(template.FuncMap{
			"hours": func(v float64) string { return fmt.Sprintf("%.2f", v) },
			"num":   duty.FormatNumber,
		}).Parse(pageHTML)),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /entries", s.handleAdd)
	mux.HandleFunc("POST /entries/{id}/delete", s.handleDelete)
	mux.HandleFunc("GET /export.csv", s.handleExport)
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	log.Printf("serving duty register on http://%s", ln.Addr())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

type pageData struct {
	Month   duty.Month
	Prev    duty.Month
	Next    duty.Month
	View    duty.View
	Draft   duty.Draft
	PRCodes []string
	Error   string
	Warning string
}

// month reads ?month=YYYY-MM (or the form field), falling back to the
// current month.
func (s *Server) month(r *http.Request) duty.Month {
	if m, err := duty.ParseMonth(r.FormValue("month")); err == nil {
		return m
	}
	return duty.CurrentMonth(s.now())
}

func (s *Server) render(w http.ResponseWriter, status int, m duty.Month, draft duty.Draft, errText string) {
	data := pageData{
		Month:   m,
		Prev:    m.Prev(),
		Next:    m.Next(),
		View:    s.reg.Month(m),
		Draft:   draft,
		PRCodes: duty.PRCodes,
		Error:   errText,
		Warning: s.reg.Warning(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tpl.Execute(w, data); err != nil {
		log.Printf("render page: %v", err)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, s.month(r), duty.Draft{}, "")
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	m := s.month(r)
	draft := duty.Draft{
		Date:    strings.TrimSpace(r.FormValue("date")),
		TrainNo: r.FormValue("trainNo"),
		From:    r.FormValue("from"),
		To:      r.FormValue("to"),
		SignOn:  r.FormValue("signOn"),
		SignOff: r.FormValue("signOff"),
		Km:      r.FormValue("km"),
		PR:      r.FormValue("pr"),
		Remarks: r.FormValue("remarks"),
	}

	if _, err := s.reg.Add(draft); err != nil {
		status := http.StatusBadRequest
		if !isInputError(err) {
			status = http.StatusInternalServerError
			log.Printf("add entry: %v", err)
		}
		s.render(w, status, m, draft, errorText(err))
		return
	}
	http.Redirect(w, r, "/?month="+m.String(), http.StatusSeeOther)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "bad entry id", http.StatusBadRequest)
		return
	}
	if _, err := s.reg.Delete(id); err != nil {
		if errors.Is(err, register.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("delete entry %d: %v", id, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/?month="+s.month(r).String(), http.StatusSeeOther)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	m := s.month(r)
	v := s.reg.Month(m)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName(m, "csv")))
	if err := export.WriteCSV(w, v.Rows); err != nil {
		log.Printf("export %s: %v", m, err)
		return
	}
	log.Printf("exported %s (%d rows) over http", m, len(v.Rows))
}

func isInputError(err error) bool {
	return errors.Is(err, duty.ErrDateRequired) ||
		errors.Is(err, duty.ErrInvalidDate) ||
		errors.Is(err, duty.ErrInvalidClock) ||
		errors.Is(err, duty.ErrUnknownPR)
}

func errorText(err error) string {
	if errors.Is(err, duty.ErrDateRequired) {
		return "Please select date"
	}
	return err.Error()
}

package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/KaramelBytes/insightbox-cli/internal/analysis"
	"github.com/KaramelBytes/insightbox-cli/internal/clean"
	"github.com/KaramelBytes/insightbox-cli/internal/parser"
	"github.com/KaramelBytes/insightbox-cli/internal/quality"
	"github.com/KaramelBytes/insightbox-cli/internal/selector"
	"github.com/KaramelBytes/insightbox-cli/internal/session"
	"github.com/KaramelBytes/insightbox-cli/internal/table"
)

const previewRows = 5

type preview struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

type sessionView struct {
	ID       string           `json:"id"`
	Source   string           `json:"source"`
	LoadedAt time.Time        `json:"loaded_at"`
	Steps    int              `json:"steps"`
	Overview quality.Overview `json:"overview"`
	Preview  preview          `json:"preview"`
}

type stepView struct {
	Index     int          `json:"index"`
	Action    clean.Action `json:"action"`
	Summary   string       `json:"summary"`
	Effect    clean.Effect `json:"effect"`
	AppliedAt time.Time    `json:"applied_at"`
}

type actionResult struct {
	Effect   clean.Effect     `json:"effect"`
	Overview quality.Overview `json:"overview"`
}

func viewOf(sess *session.Session) sessionView {
	t := sess.Current()
	return sessionView{
		ID:       sess.ID(),
		Source:   sess.Source(),
		LoadedAt: sess.LoadedAt(),
		Steps:    len(sess.Steps()),
		Overview: quality.Summarize(t),
		Preview:  previewOf(t, previewRows),
	}
}

func previewOf(t *table.Table, n int) preview {
	head := t.Head(n)
	p := preview{Columns: head.Names(), Rows: make([][]any, head.NumRows())}
	for i := range p.Rows {
		cells := head.Row(i)
		row := make([]any, len(cells))
		for j, c := range cells {
			row[j] = c.Interface()
		}
		p.Rows[i] = row
	}
	return p
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ok(w, r, http.StatusOK, "ok", map[string]any{
		"sessions": s.store.Len(),
		"time":     time.Now().UTC(),
	})
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opt.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.metrics.upload("rejected")
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(w, r, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		fail(w, r, http.StatusBadRequest, "expected a multipart upload with a \"file\" field")
		return
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		s.metrics.upload("rejected")
		fail(w, r, http.StatusBadRequest, "missing \"file\" field")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		s.metrics.upload("rejected")
		fail(w, r, http.StatusBadRequest, "read upload: "+err.Error())
		return
	}

	t, err := parser.Load(hdr.Filename, data, s.opt.Parse)
	if err != nil {
		s.metrics.upload("failed")
		s.logger.Warn("upload rejected", zap.String("file", hdr.Filename), zap.Error(err))
		fail(w, r, statusFor(err), err.Error())
		return
	}
	sess, err := s.store.Create(t, hdr.Filename)
	if err != nil {
		s.metrics.upload("failed")
		fail(w, r, statusFor(err), err.Error())
		return
	}
	s.metrics.upload("ok")
	s.metrics.setSessions(s.store.Len())

	var v sessionView
	_ = s.store.With(sess.ID(), func(sess *session.Session) error {
		v = viewOf(sess)
		return nil
	})
	ok(w, r, http.StatusCreated, "session created", v)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	var v sessionView
	err := s.store.With(chi.URLParam(r, "id"), func(sess *session.Session) error {
		v = viewOf(sess)
		return nil
	})
	if err != nil {
		fail(w, r, statusFor(err), err.Error())
		return
	}
	ok(w, r, http.StatusOK, "ok", v)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.store.Delete(id) {
		fail(w, r, http.StatusNotFound, session.ErrSessionNotFound.Error())
		return
	}
	s.metrics.setSessions(s.store.Len())
	ok(w, r, http.StatusOK, "session deleted", nil)
}

func (s *Server) missing(w http.ResponseWriter, r *http.Request) {
	var rep quality.MissingReport
	err := s.store.With(chi.URLParam(r, "id"), func(sess *session.Session) error {
		rep = quality.ScanMissing(sess.Current())
		return nil
	})
	if err != nil {
		fail(w, r, statusFor(err), err.Error())
		return
	}
	msg := "missing values found"
	if rep.Empty() {
		msg = "no missing values"
	}
	ok(w, r, http.StatusOK, msg, rep)
}

func (s *Server) duplicates(w http.ResponseWriter, r *http.Request) {
	sel := selector.All()
	if q := strings.TrimSpace(r.URL.Query().Get("columns")); q != "" {
		sel = selector.Columns(splitList(q)...)
	}
	var rep quality.DuplicateReport
	err := s.store.With(chi.URLParam(r, "id"), func(sess *session.Session) error {
		var err error
		rep, err = quality.ScanDuplicates(sess.Current(), sel)
		return err
	})
	if err != nil {
		fail(w, r, statusFor(err), err.Error())
		return
	}
	ok(w, r, http.StatusOK, fmt.Sprintf("%d duplicate rows", rep.Count), rep)
}

func (s *Server) applyAction(w http.ResponseWriter, r *http.Request) {
	var a clean.Action
	if err := render.DecodeJSON(r.Body, &a); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid action body: "+err.Error())
		return
	}
	var res actionResult
	err := s.store.With(chi.URLParam(r, "id"), func(sess *session.Session) error {
		eff, err := sess.Apply(a)
		if err != nil {
			return err
		}
		res = actionResult{Effect: eff, Overview: quality.Summarize(sess.Current())}
		return nil
	})
	if err != nil {
		if !errors.Is(err, session.ErrSessionNotFound) {
			s.metrics.action(kindLabel(a.Kind), "rejected")
		}
		fail(w, r, statusFor(err), err.Error())
		return
	}
	s.metrics.action(kindLabel(a.Kind), "applied")
	ok(w, r, http.StatusOK, a.String(), res)
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	var out []stepView
	err := s.store.With(chi.URLParam(r, "id"), func(sess *session.Session) error {
		steps := sess.Steps()
		out = make([]stepView, len(steps))
		for i, st := range steps {
			out[i] = stepView{Index: i + 1, Action: st.Action, Summary: st.Action.String(), Effect: st.Effect, AppliedAt: st.AppliedAt}
		}
		return nil
	})
	if err != nil {
		fail(w, r, statusFor(err), err.Error())
		return
	}
	ok(w, r, http.StatusOK, fmt.Sprintf("%d steps", len(out)), out)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	var rep *analysis.Report
	err := s.store.With(chi.URLParam(r, "id"), func(sess *session.Session) error {
		rep = analysis.Describe(sess.Source(), sess.Current(), s.opt.Analysis)
		return nil
	})
	if err != nil {
		fail(w, r, statusFor(err), err.Error())
		return
	}
	if strings.EqualFold(r.URL.Query().Get("format"), "markdown") {
		render.PlainText(w, r, rep.Markdown())
		return
	}
	ok(w, r, http.StatusOK, "ok", rep)
}

func (s *Server) chart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "column")
	bins := s.opt.HistogramBins
	if q := r.URL.Query().Get("bins"); q != "" {
		n, err := cast.ToIntE(q)
		if err != nil || n <= 0 {
			fail(w, r, http.StatusBadRequest, "bins must be a positive integer")
			return
		}
		bins = n
	}
	var ch *analysis.Chart
	err := s.store.With(chi.URLParam(r, "id"), func(sess *session.Session) error {
		col, found := sess.Current().Column(name)
		if !found {
			return fmt.Errorf("%w: %s", table.ErrColumnNotFound, name)
		}
		var err error
		ch, err = analysis.ChartFor(col, bins, s.opt.TopValues)
		return err
	})
	switch {
	case errors.Is(err, table.ErrColumnNotFound):
		fail(w, r, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, analysis.ErrNoValues):
		fail(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		fail(w, r, statusFor(err), err.Error())
		return
	}
	ok(w, r, http.StatusOK, "ok", ch)
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		fail(w, r, http.StatusBadRequest, "format must be csv or xlsx")
		return
	}
	var buf bytes.Buffer
	err := s.store.With(chi.URLParam(r, "id"), func(sess *session.Session) error {
		if format == "xlsx" {
			return parser.WriteXLSX(&buf, sess.Current(), "")
		}
		return parser.WriteCSV(&buf, sess.Current(), ',')
	})
	if err != nil {
		fail(w, r, statusFor(err), err.Error())
		return
	}
	ctype := "text/csv; charset=utf-8"
	if format == "xlsx" {
		ctype = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "cleaned_data."+format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func kindLabel(k clean.Kind) string {
	for _, known := range clean.Kinds() {
		if k == known {
			return string(k)
		}
	}
	return "unknown"
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Package notiontest provides an in-memory Notion API for tests.
package notiontest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"research-desk/config"
	"research-desk/providers/notion"
)

const Token = "secret-test-token"

// Recorded is one query received by the server.
type Recorded struct {
	DatabaseID string
	Query      notion.Query
}

type page struct {
	id         string
	databaseID string
	created    time.Time
	archived   bool
	props      map[string]json.RawMessage
}

// Server emulates the database query, page create and page update endpoints.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	seq      int
	pages    map[string]*page
	order    []string
	queries  []Recorded
	requests int
	fail     func(r *http.Request) bool

	patchDelay  atomic.Int64
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

// NewServer starts a server that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	s := &Server{pages: map[string]*page{}}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Config returns settings pointing a notion.Client at this server.
func (s *Server) Config() *config.Config {
	return &config.Config{
		NotionBaseURL: s.URL,
		NotionToken:   Token,
		NotionVersion: "2022-06-28",
		HTTPTimeout:   5 * time.Second,
	}
}

// FailWhen makes matching requests answer 500.
func (s *Server) FailWhen(fn func(r *http.Request) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fn
}

// Seed stores a page and returns its id.
func (s *Server) Seed(databaseID string, props notion.Properties) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := encodeProps(props)
	if err != nil {
		panic(err)
	}
	return s.insert(databaseID, raw)
}

// Page returns a stored page, archived or not.
func (s *Server) Page(id string) (notion.Page, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pages[id]
	if !ok {
		return notion.Page{}, false
	}
	return s.decode(p), true
}

// RawProperty returns the stored write-shape JSON of one property.
func (s *Server) RawProperty(id, name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pages[id]; ok {
		return string(p.props[name])
	}
	return ""
}

// Live returns the non-archived pages of a database in insertion order.
func (s *Server) Live(databaseID string) []notion.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []notion.Page
	for _, id := range s.order {
		p := s.pages[id]
		if p.databaseID == databaseID && !p.archived {
			out = append(out, s.decode(p))
		}
	}
	return out
}

func (s *Server) Queries() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.queries...)
}

// Requests counts every request received, including failed ones.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

// SetPatchDelay slows down page updates so concurrent archives overlap.
func (s *Server) SetPatchDelay(d time.Duration) {
	s.patchDelay.Store(int64(d))
}

// MaxInFlight is the highest number of concurrent page updates observed.
func (s *Server) MaxInFlight() int {
	return int(s.maxInFlight.Load())
}

func (s *Server) insert(databaseID string, props map[string]json.RawMessage) string {
	s.seq++
	id := fmt.Sprintf("page-%04d", s.seq)
	if props == nil {
		props = map[string]json.RawMessage{}
	}
	s.pages[id] = &page{
		id:         id,
		databaseID: databaseID,
		created:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(s.seq) * time.Minute),
		props:      props,
	}
	s.order = append(s.order, id)
	return id
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests++
	fail := s.fail
	s.mu.Unlock()

	if r.Header.Get("Authorization") != "Bearer "+Token || r.Header.Get("Notion-Version") == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "API token is invalid.")
		return
	}
	if fail != nil && fail(r) {
		writeError(w, http.StatusInternalServerError, "internal_server_error", "injected failure")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/")
	switch {
	case r.Method == http.MethodPost && strings.HasPrefix(path, "databases/") && strings.HasSuffix(path, "/query"):
		s.query(w, r, strings.TrimSuffix(strings.TrimPrefix(path, "databases/"), "/query"))
	case r.Method == http.MethodPost && path == "pages":
		s.create(w, r)
	case r.Method == http.MethodPatch && strings.HasPrefix(path, "pages/"):
		s.update(w, r, strings.TrimPrefix(path, "pages/"))
	default:
		writeError(w, http.StatusNotFound, "invalid_request_url", "Invalid request URL.")
	}
}

func (s *Server) query(w http.ResponseWriter, r *http.Request, databaseID string) {
	var q notion.Query
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, Recorded{DatabaseID: databaseID, Query: q})

	var matched []*page
	for _, id := range s.order {
		p := s.pages[id]
		if p.databaseID != databaseID || p.archived {
			continue
		}
		if q.Filter == nil || matches(s.decode(p), *q.Filter) {
			matched = append(matched, p)
		}
	}
	for _, srt := range q.Sorts {
		if srt.Timestamp == "created_time" {
			desc := srt.Direction == notion.Descending
			sort.SliceStable(matched, func(i, j int) bool {
				if desc {
					return matched[i].created.After(matched[j].created)
				}
				return matched[i].created.Before(matched[j].created)
			})
		}
	}

	start, _ := strconv.Atoi(q.StartCursor)
	size := q.PageSize
	if size <= 0 || size > notion.MaxPageSize {
		size = notion.MaxPageSize
	}
	if start > len(matched) {
		start = len(matched)
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}

	res := map[string]any{"object": "list", "has_more": end < len(matched), "next_cursor": nil}
	if end < len(matched) {
		res["next_cursor"] = strconv.Itoa(end)
	}
	results := make([]map[string]any, 0, end-start)
	for _, p := range matched[start:end] {
		results = append(results, s.render(p))
	}
	res["results"] = results
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Parent struct {
			DatabaseID string `json:"database_id"`
		} `json:"parent"`
		Properties map[string]json.RawMessage `json:"properties"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Parent.DatabaseID == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "body failed validation")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.insert(body.Parent.DatabaseID, body.Properties)
	writeJSON(w, http.StatusOK, s.render(s.pages[id]))
}

func (s *Server) update(w http.ResponseWriter, r *http.Request, id string) {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		m := s.maxInFlight.Load()
		if n <= m || s.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}
	if d := time.Duration(s.patchDelay.Load()); d > 0 {
		time.Sleep(d)
	}

	var body struct {
		Archived   *bool                      `json:"archived"`
		Properties map[string]json.RawMessage `json:"properties"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pages[id]
	if !ok {
		writeError(w, http.StatusNotFound, "object_not_found", "Could not find page with ID: "+id)
		return
	}
	if body.Archived != nil {
		p.archived = *body.Archived
	}
	for k, v := range body.Properties {
		p.props[k] = v
	}
	writeJSON(w, http.StatusOK, s.render(p))
}

// render turns stored write-shape properties into the read shape, adding
// "type" and plain_text the way the real API does.
func (s *Server) render(p *page) map[string]any {
	props := map[string]any{}
	for name, raw := range p.props {
		props[name] = readShape(raw)
	}
	return map[string]any{
		"object":       "page",
		"id":           p.id,
		"url":          "https://www.notion.so/" + p.id,
		"created_time": p.created.Format(time.RFC3339),
		"archived":     p.archived,
		"properties":   props,
	}
}

func (s *Server) decode(p *page) notion.Page {
	raw, _ := json.Marshal(s.render(p))
	var pg notion.Page
	_ = json.Unmarshal(raw, &pg)
	return pg
}

func readShape(raw json.RawMessage) map[string]any {
	var v map[string]any
	_ = json.Unmarshal(raw, &v)
	out := map[string]any{}
	for typ, val := range v {
		out["type"] = typ
		if segs, ok := val.([]any); ok && (typ == notion.TypeTitle || typ == notion.TypeRichText) {
			for _, seg := range segs {
				m, ok := seg.(map[string]any)
				if !ok {
					continue
				}
				if text, ok := m["text"].(map[string]any); ok {
					m["plain_text"] = text["content"]
				}
			}
		}
		out[typ] = val
	}
	return out
}

func matches(pg notion.Page, f notion.Filter) bool {
	if len(f.And) > 0 {
		for _, sub := range f.And {
			if !matches(pg, sub) {
				return false
			}
		}
		return true
	}
	prop := pg.Properties[f.Property]
	switch {
	case f.Select != nil:
		return prop.SelectName() == f.Select.Equals
	case f.Title != nil:
		text := prop.PlainText()
		if f.Title.Equals != "" {
			return text == f.Title.Equals
		}
		return strings.Contains(strings.ToLower(text), strings.ToLower(f.Title.Contains))
	case f.Checkbox != nil:
		v, _ := prop.Checked()
		return v == f.Checkbox.Equals
	}
	return true
}

func encodeProps(props notion.Properties) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(props))
	for name, p := range props {
		raw, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		out[name] = raw
	}
	return out, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]any{"object": "error", "status": status, "code": code, "message": msg})
}

package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/mindgraft/pkg/backend"
	"github.com/matzehuels/mindgraft/pkg/graph"
	"github.com/matzehuels/mindgraft/pkg/pipeline"
	"github.com/matzehuels/mindgraft/pkg/session"
)

const sampleDoc = `{
	"id": "r", "topic": "Root", "summary": "root summary",
	"children": [
		{"id": "a", "topic": "A", "summary": ""},
		{"id": "b", "topic": "B", "summary": "", "children": [{"id": "c", "topic": "C", "summary": ""}]}
	]
}`

// fakeBackend answers every upload with sampleDoc, or with a 400 detail
// when the uploaded file is named "bad.txt".
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hdr, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if hdr.Filename == "bad.txt" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"detail":"unsupported file type"}`)
			return
		}
		_, _ = io.WriteString(w, sampleDoc)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	return newTestServerWith(t, pipeline.Options{})
}

// newTestServerWith creates sessions with opts, as 'mindgraft serve' does
// after validating its configuration.
func newTestServerWith(t *testing.T, opts pipeline.Options) http.Handler {
	t.Helper()
	client := backend.NewClient(fakeBackend(t).URL)
	reg := session.NewRegistry(func(id string) *session.Session {
		return session.New(id, session.Config{Generator: client, Pipeline: opts})
	}, 0)
	return New(Config{}, reg, nil).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func upload(t *testing.T, h http.Handler, sid, filename string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write([]byte("%PDF-1.4"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/sessions/"+sid+"/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/sessions", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session: status %d", rec.Code)
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	return resp.ID
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) session.State {
	t.Helper()
	var st session.State
	if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return st
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	_ = json.NewDecoder(rec.Body).Decode(&body)
	return body.Detail
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("healthz = %d %s", rec.Code, rec.Body.String())
	}
}

func TestVersion(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/version", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"version"`) {
		t.Errorf("version = %d %s", rec.Code, rec.Body.String())
	}
}

func TestSessionLifecycle(t *testing.T) {
	h := newTestServer(t)
	sid := createSession(t, h)

	rec := do(t, h, http.MethodGet, "/sessions/"+sid, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get session: %d", rec.Code)
	}
	if st := decodeState(t, rec); st.ID != sid || len(st.Graph.Nodes) != 0 {
		t.Errorf("state = %+v, want empty session %s", st, sid)
	}

	if rec := do(t, h, http.MethodDelete, "/sessions/"+sid, ""); rec.Code != http.StatusNoContent {
		t.Errorf("delete: %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/sessions/"+sid, ""); rec.Code != http.StatusNotFound {
		t.Errorf("get deleted session: %d, want 404", rec.Code)
	}
}

func TestUpload(t *testing.T) {
	h := newTestServer(t)
	sid := createSession(t, h)

	rec := upload(t, h, sid, "paper.pdf")
	if rec.Code != http.StatusOK {
		t.Fatalf("upload: %d %s", rec.Code, rec.Body.String())
	}
	st := decodeState(t, rec)
	if len(st.Graph.Nodes) != 4 || len(st.Graph.Edges) != 3 {
		t.Errorf("graph = %d/%d, want 4/3", len(st.Graph.Nodes), len(st.Graph.Edges))
	}
	if st.FileName != "paper.pdf" {
		t.Errorf("FileName = %q", st.FileName)
	}
	if st.Bounds.X != 0 || st.Bounds.Y != 0 || st.Bounds.Width < graph.DefaultNodeWidth || st.Bounds.Height <= graph.DefaultNodeHeight {
		t.Errorf("Bounds = %+v, want a box at the origin enclosing every card", st.Bounds)
	}
}

func TestUploadBackendError(t *testing.T) {
	h := newTestServer(t)
	sid := createSession(t, h)
	upload(t, h, sid, "paper.pdf")

	rec := upload(t, h, sid, "bad.txt")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if got := detail(t, rec); got != "unsupported file type" {
		t.Errorf("detail = %q, want %q", got, "unsupported file type")
	}

	st := decodeState(t, do(t, h, http.MethodGet, "/sessions/"+sid, ""))
	if st.Error != "unsupported file type" || len(st.Graph.Nodes) != 0 || len(st.Graph.Edges) != 0 {
		t.Errorf("state after failure = %+v, want error and empty graph", st)
	}
}

func TestUploadMissingFile(t *testing.T) {
	h := newTestServer(t)
	sid := createSession(t, h)
	rec := do(t, h, http.MethodPost, "/sessions/"+sid+"/upload", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAddChild(t *testing.T) {
	h := newTestServer(t)
	sid := createSession(t, h)
	upload(t, h, sid, "paper.pdf")

	rec := do(t, h, http.MethodPost, "/sessions/"+sid+"/nodes/a/children", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("add child: %d %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Node graph.Node `json:"node"`
		Edge graph.Edge `json:"edge"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Node.ID != "manual-a-1" || resp.Edge.Source != "a" || resp.Edge.Animated {
		t.Errorf("response = %+v", resp)
	}

	rec = do(t, h, http.MethodPost, "/sessions/"+sid+"/nodes/missing/children", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown parent: %d, want 404", rec.Code)
	}
}

func TestNodeChanges(t *testing.T) {
	h := newTestServer(t)
	sid := createSession(t, h)
	upload(t, h, sid, "paper.pdf")

	rec := do(t, h, http.MethodPost, "/sessions/"+sid+"/nodes/changes",
		`[{"type":"position","id":"a","position":{"x":11,"y":22},"dragging":true}]`)
	if rec.Code != http.StatusOK {
		t.Fatalf("changes: %d %s", rec.Code, rec.Body.String())
	}
	var g graph.Graph
	if err := json.NewDecoder(rec.Body).Decode(&g); err != nil {
		t.Fatal(err)
	}
	a, _ := g.Node("a")
	if a.Position != (graph.Position{X: 11, Y: 22}) {
		t.Errorf("a.position = %+v", a.Position)
	}

	rec = do(t, h, http.MethodPost, "/sessions/"+sid+"/nodes/changes", `[{"type":"explode","id":"a"}]`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown change type: %d, want 400", rec.Code)
	}
	rec = do(t, h, http.MethodPost, "/sessions/"+sid+"/nodes/changes", `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad JSON: %d, want 400", rec.Code)
	}
}

func TestEdgeChangesAndConnect(t *testing.T) {
	h := newTestServer(t)
	sid := createSession(t, h)
	upload(t, h, sid, "paper.pdf")

	rec := do(t, h, http.MethodPost, "/sessions/"+sid+"/connect", `{"source":"a","target":"c"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("connect: %d %s", rec.Code, rec.Body.String())
	}
	var e graph.Edge
	_ = json.NewDecoder(rec.Body).Decode(&e)
	if e.ID != "e-a-c" {
		t.Errorf("edge id = %q, want e-a-c", e.ID)
	}

	rec = do(t, h, http.MethodPost, "/sessions/"+sid+"/connect", `{"source":"a","target":"zzz"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("connect unknown: %d, want 404", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/sessions/"+sid+"/edges/changes", `[{"type":"remove","id":"e-a-c"}]`)
	if rec.Code != http.StatusOK {
		t.Fatalf("edge changes: %d", rec.Code)
	}
	var g graph.Graph
	_ = json.NewDecoder(rec.Body).Decode(&g)
	if len(g.Edges) != 3 {
		t.Errorf("edges = %d, want 3 after removal", len(g.Edges))
	}
}

func TestNodeDetail(t *testing.T) {
	h := newTestServer(t)
	sid := createSession(t, h)
	upload(t, h, sid, "paper.pdf")

	rec := do(t, h, http.MethodGet, "/sessions/"+sid+"/nodes/r", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("detail: %d", rec.Code)
	}
	var data graph.NodeData
	_ = json.NewDecoder(rec.Body).Decode(&data)
	if data.Label != "Root" || data.Summary != "root summary" {
		t.Errorf("detail = %+v", data)
	}

	if rec := do(t, h, http.MethodGet, "/sessions/"+sid+"/nodes/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown node: %d, want 404", rec.Code)
	}
}

func TestRelayout(t *testing.T) {
	h := newTestServer(t)
	sid := createSession(t, h)
	upload(t, h, sid, "paper.pdf")

	rec := do(t, h, http.MethodPost, "/sessions/"+sid+"/layout", `{"direction":"LR"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("relayout: %d %s", rec.Code, rec.Body.String())
	}
	var g graph.Graph
	_ = json.NewDecoder(rec.Body).Decode(&g)
	r, _ := g.Node("r")
	c, _ := g.Node("c")
	if !(r.Position.X < c.Position.X) || r.SourceAnchor != graph.AnchorRight {
		t.Errorf("LR relayout: r=%+v c=%+v", r, c)
	}

	if rec := do(t, h, http.MethodPost, "/sessions/"+sid+"/layout", `{"direction":"diagonal"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("bad direction: %d, want 400", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/sessions/"+sid+"/layout", ""); rec.Code != http.StatusOK {
		t.Errorf("relayout without body: %d", rec.Code)
	}
}

func TestRelayoutValidatedOptions(t *testing.T) {
	opts := pipeline.Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	h := newTestServerWith(t, opts)
	sid := createSession(t, h)
	upload(t, h, sid, "paper.pdf")

	tests := []struct {
		name      string
		direction string
		want      int
	}{
		{"Lowercase", "lr", http.StatusOK},
		{"Padded", " tb ", http.StatusOK},
		{"Unknown", "diagonal", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"direction":"` + tt.direction + `"}`
			rec := do(t, h, http.MethodPost, "/sessions/"+sid+"/layout", body)
			if rec.Code != tt.want {
				t.Fatalf("relayout %q: %d %s, want %d", tt.direction, rec.Code, rec.Body.String(), tt.want)
			}
		})
	}

	rec := do(t, h, http.MethodPost, "/sessions/"+sid+"/layout", `{"direction":"lr"}`)
	var g graph.Graph
	_ = json.NewDecoder(rec.Body).Decode(&g)
	if r, ok := g.Node("r"); !ok || r.SourceAnchor != graph.AnchorRight {
		t.Errorf("lowercase lr not applied: %+v", r)
	}
}

func TestUnknownSession(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/sessions/00000000-0000-0000-0000-000000000000", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if detail(t, rec) == "" {
		t.Error("error response should carry a detail")
	}
}

func TestCORS(t *testing.T) {
	h := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/sessions", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %q, want the dev origin", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/sessions", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q for foreign origin, want none", got)
	}
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/admingen/internal/artifact"
	"github.com/matthewbaird/admingen/internal/generate"
	"github.com/matthewbaird/admingen/internal/history"
	"github.com/matthewbaird/admingen/internal/metrics"
)

const postConfig = `{
  "uid": "u-1",
  "templateName": "basic",
  "schema": {"title": "STRING", "count": "INTNUMBER"},
  "namingConvention": {
    "Users_1_000___": "Posts",
    "users_2_000___": "posts",
    "User_3_000___": "Post",
    "user_4_000___": "post",
    "use_generate_folder": false
  }
}`

type fixture struct {
	srv     *httptest.Server
	history *history.MemoryStore
	metrics *metrics.Metrics
}

func newFixture(t *testing.T, rps float64, burst int) *fixture {
	t.Helper()
	f := &fixture{history: history.NewMemoryStore(), metrics: metrics.New()}
	f.srv = httptest.NewServer(NewRouter(Config{
		RateLimitRPS:   rps,
		RateLimitBurst: burst,
		Generator:      generate.New(artifact.Default(), generate.WithHistory(f.history)),
		History:        f.history,
		Metrics:        f.metrics,
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealthz(t *testing.T) {
	f := newFixture(t, 100, 100)
	resp, err := http.Get(f.srv.URL + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestGenerate_AllKinds(t *testing.T) {
	f := newFixture(t, 100, 100)
	resp, err := http.Post(f.srv.URL+"/v1/generate", "application/json", strings.NewReader(postConfig))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body generateResponse
	decodeBody(t, resp, &body)
	assert.NotEqual(t, uuid.Nil, body.ID)
	assert.Equal(t, "Post", body.Entity)
	require.Len(t, body.Files, len(artifact.Kinds()))
	assert.Equal(t, "src/app/dashboard/posts/all/api/v1/model.ts", body.Files[0].Path)
}

func TestGenerate_SelectedKinds(t *testing.T) {
	f := newFixture(t, 100, 100)
	resp, err := http.Post(f.srv.URL+"/v1/generate?kinds=store-data,summary", "application/json", strings.NewReader(postConfig))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body generateResponse
	decodeBody(t, resp, &body)
	require.Len(t, body.Files, 2)
	assert.Equal(t, artifact.StoreData, body.Files[0].Kind)
	assert.Contains(t, body.Files[0].Content, "export interface IPost {")
	assert.Contains(t, body.Files[1].Content, "totalCount")
}

func TestGenerate_Errors(t *testing.T) {
	f := newFixture(t, 100, 100)
	tests := []struct {
		name   string
		query  string
		body   string
		status int
		code   string
	}{
		{"malformed json", "", `{"schema":`, http.StatusBadRequest, "INVALID_CONFIG"},
		{"missing schema", "", `{"namingConvention": {}}`, http.StatusBadRequest, "INVALID_CONFIG"},
		{"missing naming", "", `{"schema": {"a": "STRING"}}`, http.StatusBadRequest, "INVALID_CONFIG"},
		{"unknown kind", "?kinds=model,widget", postConfig, http.StatusBadRequest, "UNKNOWN_KIND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(f.srv.URL+"/v1/generate"+tt.query, "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body map[string]string
			decodeBody(t, resp, &body)
			assert.Equal(t, tt.code, body["code"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestGenerations_ListAndGet(t *testing.T) {
	f := newFixture(t, 100, 100)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		g := history.Generation{
			ID:        uuid.New(),
			Entity:    "Post",
			Kinds:     []string{"model"},
			Bytes:     10,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, f.history.Record(ctx, g))
		ids = append(ids, g.ID)
	}

	resp, err := http.Get(f.srv.URL + "/v1/generations?page_size=2&offset=0&ignored=1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list listGenerationsResponse
	decodeBody(t, resp, &list)
	assert.Equal(t, 3, list.Total)
	assert.Equal(t, 2, list.PageSize)
	require.Len(t, list.Items, 2)
	assert.Equal(t, ids[2], list.Items[0].ID)

	resp, err = http.Get(f.srv.URL + "/v1/generations/" + ids[0].String())
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got history.Generation
	decodeBody(t, resp, &got)
	assert.Equal(t, ids[0], got.ID)
	assert.Equal(t, "Post", got.Entity)
}

func TestGenerate_IDIsImmediatelyRetrievable(t *testing.T) {
	f := newFixture(t, 100, 100)
	resp, err := http.Post(f.srv.URL+"/v1/generate?kinds=model", "application/json", strings.NewReader(postConfig))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body generateResponse
	decodeBody(t, resp, &body)

	resp, err = http.Get(f.srv.URL + "/v1/generations/" + body.ID.String())
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got history.Generation
	decodeBody(t, resp, &got)
	assert.Equal(t, body.ID, got.ID)
	assert.Equal(t, "Post", got.Entity)
	assert.Equal(t, []string{"model"}, got.Kinds)
}

func TestGenerations_Errors(t *testing.T) {
	f := newFixture(t, 100, 100)

	resp, err := http.Get(f.srv.URL + "/v1/generations/" + uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(f.srv.URL + "/v1/generations/not-a-uuid")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(f.srv.URL + "/v1/generations?page_size=abc")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestGenerations_EmptyListIsArray(t *testing.T) {
	f := newFixture(t, 100, 100)
	resp, err := http.Get(f.srv.URL + "/v1/generations")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"items":[]`)
	assert.Contains(t, string(raw), `"page_size":20`)
}

func TestListKinds(t *testing.T) {
	f := newFixture(t, 100, 100)
	resp, err := http.Get(f.srv.URL + "/v1/kinds")
	require.NoError(t, err)
	var body struct {
		Kinds []kindInfo `json:"kinds"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Kinds, len(artifact.Kinds()))
	assert.Equal(t, artifact.Model, body.Kinds[0].Kind)
	assert.Equal(t, "api/v1/model.ts", body.Kinds[0].Path)
}

func TestRateLimit(t *testing.T) {
	f := newFixture(t, 0.01, 2)
	var last *http.Response
	for i := 0; i < 3; i++ {
		resp, err := http.Get(f.srv.URL + "/v1/kinds")
		require.NoError(t, err)
		resp.Body.Close()
		last = resp
	}
	assert.Equal(t, http.StatusTooManyRequests, last.StatusCode)

	// health checks are not limited
	resp, err := http.Get(f.srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func getWithForwardedFor(t *testing.T, url, ip string) int {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	req.Header.Set("X-Forwarded-For", ip)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestRateLimit_IgnoresForwardedForByDefault(t *testing.T) {
	f := newFixture(t, 0.01, 1)
	assert.Equal(t, http.StatusOK, getWithForwardedFor(t, f.srv.URL+"/v1/kinds", "203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, getWithForwardedFor(t, f.srv.URL+"/v1/kinds", "203.0.113.2"))
}

func TestRateLimit_TrustedProxyUsesForwardedFor(t *testing.T) {
	srv := httptest.NewServer(NewRouter(Config{
		RateLimitRPS:   0.01,
		RateLimitBurst: 1,
		TrustProxy:     true,
		Generator:      generate.New(artifact.Default()),
		History:        history.NewMemoryStore(),
	}))
	t.Cleanup(srv.Close)

	assert.Equal(t, http.StatusOK, getWithForwardedFor(t, srv.URL+"/v1/kinds", "203.0.113.1"))
	assert.Equal(t, http.StatusOK, getWithForwardedFor(t, srv.URL+"/v1/kinds", "203.0.113.2"))
	assert.Equal(t, http.StatusTooManyRequests, getWithForwardedFor(t, srv.URL+"/v1/kinds", "203.0.113.2"))
}

func TestMetricsRecordsRoutePattern(t *testing.T) {
	f := newFixture(t, 100, 100)
	resp, err := http.Get(f.srv.URL + "/v1/generations/" + uuid.NewString())
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(f.srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `admingen_http_requests_total{method="GET",route="/v1/generations/{id}",status="404"} 1`)
}

func TestClassify(t *testing.T) {
	status, code := classify(&http.MaxBytesError{Limit: maxConfigBytes})
	assert.Equal(t, http.StatusRequestEntityTooLarge, status)
	assert.Equal(t, "TOO_LARGE", code)

	status, code = classify(fmt.Errorf("list: %w", history.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", code)

	status, _ = classify(errors.New("disk full"))
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestRecovery(t *testing.T) {
	h := recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}

func TestIPLimiter_SeparateBuckets(t *testing.T) {
	l := newIPLimiter(0.01, 1)
	now := time.Now()
	assert.True(t, l.allow("10.0.0.1", now))
	assert.False(t, l.allow("10.0.0.1", now))
	assert.True(t, l.allow("10.0.0.2", now))
}

func dialPreview(t *testing.T, f *fixture) (*websocket.Conn, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(f.srv.URL, "http")+"/v1/preview", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.CloseNow() })
	return conn, ctx
}

type rawServerMessage struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data"`
}

func TestPreview_StreamsFilesThenDone(t *testing.T) {
	f := newFixture(t, 100, 100)
	conn, ctx := dialPreview(t, f)

	require.NoError(t, wsjson.Write(ctx, conn, ClientMessage{
		Type:  "generate",
		ID:    "r1",
		Kinds: "model,form",
		Data:  json.RawMessage(postConfig),
	}))

	var files []artifact.File
	for {
		var msg rawServerMessage
		require.NoError(t, wsjson.Read(ctx, conn, &msg))
		assert.Equal(t, "r1", msg.RequestID)
		if msg.Type == "done" {
			var done DoneData
			require.NoError(t, json.Unmarshal(msg.Data, &done))
			assert.Equal(t, 2, done.Files)
			assert.Positive(t, done.Bytes)
			assert.NotEqual(t, uuid.Nil, done.ID)
			break
		}
		require.Equal(t, "file", msg.Type)
		var file artifact.File
		require.NoError(t, json.Unmarshal(msg.Data, &file))
		files = append(files, file)
	}
	require.Len(t, files, 2)
	assert.Equal(t, artifact.Model, files[0].Kind)
	assert.Equal(t, artifact.Form, files[1].Kind)
}

func TestPreview_PingAndErrors(t *testing.T) {
	f := newFixture(t, 100, 100)
	conn, ctx := dialPreview(t, f)

	require.NoError(t, wsjson.Write(ctx, conn, ClientMessage{Type: "ping", ID: "p"}))
	var msg rawServerMessage
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	assert.Equal(t, "pong", msg.Type)
	assert.Equal(t, "p", msg.RequestID)

	require.NoError(t, wsjson.Write(ctx, conn, ClientMessage{Type: "generate", ID: "bad", Data: json.RawMessage(`{"schema": {}}`)}))
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	assert.Equal(t, "error", msg.Type)
	var e ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &e))
	assert.Equal(t, "INVALID_CONFIG", e.Code)

	require.NoError(t, wsjson.Write(ctx, conn, ClientMessage{Type: "execute", ID: "x"}))
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	assert.Equal(t, "error", msg.Type)
	require.NoError(t, json.Unmarshal(msg.Data, &e))
	assert.Equal(t, "UNKNOWN_TYPE", e.Code)
}

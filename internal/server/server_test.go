package server

import (
	"bytes"
	"encoding/json"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/numbit/internal/editor"
	"github.com/example/numbit/internal/grid"
	"github.com/example/numbit/internal/tool"
)

func init() { gin.SetMode(gin.TestMode) }

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := New(func(string) *editor.Editor { return editor.New(editor.WithSize(4)) })
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, req Request) map[string]json.RawMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.WriteJSON(req))
	var reply map[string]json.RawMessage
	require.NoError(t, conn.ReadJSON(&reply))
	return reply
}

func decodeState(t *testing.T, reply map[string]json.RawMessage) State {
	t.Helper()
	require.NotContains(t, reply, "error")
	raw, err := json.Marshal(reply)
	require.NoError(t, err)
	var st State
	require.NoError(t, json.Unmarshal(raw, &st))
	return st
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestBucketOverWebsocket(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	roundTrip(t, conn, Request{Op: "color", Color: "#ff0000"})
	roundTrip(t, conn, Request{Op: "begin", Tool: "bucket", Index: 0})
	st := decodeState(t, roundTrip(t, conn, Request{Op: "end"}))

	assert.Equal(t, 4, st.Width)
	assert.Len(t, st.Pixels, 16)
	for _, c := range st.Pixels {
		assert.Equal(t, grid.Color("#ff0000"), c)
	}
	assert.True(t, st.CanUndo)
	assert.Equal(t, "bucket", st.Tool)
	assert.NotEmpty(t, st.Session)

	st = decodeState(t, roundTrip(t, conn, Request{Op: "undo"}))
	assert.Equal(t, grid.Empty, st.Pixels[0])
	assert.True(t, st.CanRedo)
}

func TestShapePreviewIsVisible(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	roundTrip(t, conn, Request{Op: "fill", Mode: "outline"})
	roundTrip(t, conn, Request{Op: "begin", Tool: "square", Index: 0})
	st := decodeState(t, roundTrip(t, conn, Request{Op: "continue", Index: 15}))
	n := 0
	for _, c := range st.Pixels {
		if c != grid.Empty {
			n++
		}
	}
	assert.Equal(t, 12, n)
	assert.False(t, st.CanUndo, "preview must not commit")
}

func TestErrors(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	for _, req := range []Request{
		{Op: "explode"},
		{Op: "tool", Tool: "chainsaw"},
		{Op: "resize", Size: 2},
		{Op: "color", Color: "#12"},
		{Op: "fill", Mode: "hatched"},
	} {
		reply := roundTrip(t, conn, req)
		assert.Contains(t, reply, "error", req.Op)
	}

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{")))
	var reply ErrorReply
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Contains(t, reply.Error, "invalid request")
}

func TestExportEndpoint(t *testing.T) {
	s, ts := newTestServer(t)
	conn := dial(t, ts)
	st := decodeState(t, roundTrip(t, conn, Request{Op: "state"}))

	e, ok := s.Session(st.Session)
	require.True(t, ok)
	assert.Equal(t, 4, e.Size())
	roundTrip(t, conn, Request{Op: "bg", Color: "#0000ff"})

	resp, err := http.Get(ts.URL + "/sessions/" + st.Session + "/export?format=png&scale=2")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, color.RGBA{B: 0xff, A: 0xff}, color.RGBAModel.Convert(img.At(0, 0)), "session background")

	resp, err = http.Get(ts.URL + "/sessions/nope/export")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/sessions/" + st.Session + "/export?format=gif")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSessionsAreIndependent(t *testing.T) {
	_, ts := newTestServer(t)
	a := dial(t, ts)
	b := dial(t, ts)

	roundTrip(t, a, Request{Op: "begin", Tool: "pen", Index: 5})
	stA := decodeState(t, roundTrip(t, a, Request{Op: "end"}))
	stB := decodeState(t, roundTrip(t, b, Request{Op: "state"}))

	assert.NotEqual(t, stA.Session, stB.Session)
	assert.Equal(t, grid.Color("#ffffff"), stA.Pixels[5])
	assert.Equal(t, grid.Empty, stB.Pixels[5])
}

func TestApply(t *testing.T) {
	e := editor.New(editor.WithSize(8))
	require.NoError(t, Apply(e, Request{Op: "tool", Tool: "mirror"}))
	require.NoError(t, Apply(e, Request{Op: "begin", Index: 3*8 + 2}))
	require.NoError(t, Apply(e, Request{Op: "END"}))
	assert.Equal(t, tool.Mirror, e.ActiveTool())
	assert.Equal(t, editor.DefaultColor, e.Grid().At(5, 3))

	require.NoError(t, Apply(e, Request{Op: "addcolor", Color: "#123456"}))
	require.NoError(t, Apply(e, Request{Op: "bg", Color: "none"}))
	require.NoError(t, Apply(e, Request{Op: "brush", Size: 3}))
	require.NoError(t, Apply(e, Request{Op: "resize", Size: 16}))
	require.NoError(t, Apply(e, Request{Op: "reset"}))
	assert.Equal(t, []grid.Color{"#123456"}, e.CustomColors())
	assert.True(t, e.Background().IsEmpty())
	assert.Equal(t, 3, e.BrushSize())
	assert.Equal(t, 16, e.Size())
}

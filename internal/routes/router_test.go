package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"pocketdesk/internal/app"
	"pocketdesk/internal/controller"
	"pocketdesk/internal/kv"
	"pocketdesk/internal/models"
	"pocketdesk/internal/store"
)

func setupRouter(t *testing.T, secret string) (*gin.Engine, *app.App) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tick := time.UnixMilli(1_700_000_000_000)
	st := store.New(kv.NewMemory(), store.WithClock(func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}))
	st.Load(context.Background())
	a := app.New(st, language.BrazilianPortuguese)
	return Router(controller.New(a), secret), a
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthAndReady(t *testing.T) {
	r, _ := setupRouter(t, "")
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ready", "").Code)
}

func TestReady_BeforeLoad(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a := app.New(store.New(kv.NewMemory()), language.Und)
	r := Router(controller.New(a), "")
	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodGet, "/ready", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodPost, "/api/tasks", `{"title":"x"}`).Code)
}

func TestTaskLifecycle(t *testing.T) {
	r, _ := setupRouter(t, "")

	w := do(r, http.MethodPost, "/api/tasks", `{"title":"Buy milk","date":"05/03/2024"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	milk := decode[models.Task](t, w)

	w = do(r, http.MethodPost, "/api/tasks", `{"title":"Call Alice","date":"01/03/2024","alarm":true}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodPost, "/api/tasks", `{"title":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation")

	list := decode[[]models.Task](t, do(r, http.MethodGet, "/api/tasks", ""))
	require.Len(t, list, 2)
	assert.Equal(t, "Call Alice", list[0].Title)

	list = decode[[]models.Task](t, do(r, http.MethodGet, "/api/tasks?sort=oldest", ""))
	assert.Equal(t, "Buy milk", list[0].Title)

	list = decode[[]models.Task](t, do(r, http.MethodGet, "/api/tasks?q=alice", ""))
	require.Len(t, list, 1)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/tasks?sort=random", "").Code)

	w = do(r, http.MethodPut, "/api/tasks/"+milk.ID, `{"title":"Buy oat milk","date":"06/03/2024"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]any](t, w)["updated"])

	w = do(r, http.MethodPut, "/api/tasks/nope", `{"title":"x"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode[map[string]any](t, w)["updated"])

	assert.Equal(t, http.StatusPreconditionRequired, do(r, http.MethodDelete, "/api/tasks/"+milk.ID, "").Code)
	w = do(r, http.MethodDelete, "/api/tasks/"+milk.ID+"?confirm=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]any](t, w)["deleted"])
	w = do(r, http.MethodDelete, "/api/tasks/"+milk.ID+"?confirm=true", "")
	assert.Equal(t, false, decode[map[string]any](t, w)["deleted"])

	list = decode[[]models.Task](t, do(r, http.MethodGet, "/api/tasks", ""))
	assert.Len(t, list, 1)
}

func TestLockedNoteFlow(t *testing.T) {
	r, _ := setupRouter(t, "")

	w := do(r, http.MethodPost, "/api/notes", `{"title":"diary","desc":"secret","locked":true}`)
	require.Equal(t, http.StatusPreconditionRequired, w.Code)
	assert.Contains(t, w.Body.String(), "pin_required")

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/pin", `{"pin":"12"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/pin", `{"pin":"abcd"}`).Code)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/pin", `{"pin":"1234"}`).Code)
	assert.Equal(t, http.StatusConflict, do(r, http.MethodPost, "/api/pin", `{"pin":"5678"}`).Code)

	w = do(r, http.MethodPost, "/api/notes", `{"title":"diary","desc":"secret","locked":true}`)
	require.Equal(t, http.StatusCreated, w.Code)
	note := decode[models.Note](t, w)
	assert.True(t, note.Locked)
	assert.Empty(t, note.Description)

	list := decode[[]models.Note](t, do(r, http.MethodGet, "/api/notes", ""))
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Description)

	w = do(r, http.MethodPost, "/api/notes/"+note.ID+"/unlock", `{"pin":"0000"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodPost, "/api/notes/"+note.ID+"/unlock", `{"pin":"1234"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "secret", decode[models.Note](t, w).Description)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/api/notes/missing/unlock", `{"pin":"1234"}`).Code)
}

func TestChangePIN(t *testing.T) {
	r, a := setupRouter(t, "")
	require.NoError(t, a.Gate.Register(context.Background(), "1234"))

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPut, "/api/pin", `{"old":"9999","new":"5678"}`).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPut, "/api/pin", `{"old":"1234","new":"5678"}`).Code)
	pin, _ := a.Store.PIN()
	assert.Equal(t, "5678", pin)
}

func TestViewAndTheme(t *testing.T) {
	r, a := setupRouter(t, "")

	w := do(r, http.MethodPut, "/api/view", `{"query":"milk","sort":"az"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, app.View{Query: "milk", Sort: "az"}, a.View())
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, "/api/view", `{"sort":"sideways"}`).Code)

	w = do(r, http.MethodGet, "/api/view", "")
	assert.Contains(t, w.Body.String(), `"note_sorts":["newest","oldest","az"]`)

	w = do(r, http.MethodPost, "/api/theme/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]any](t, w)["dark"])
	assert.True(t, a.IsDark())
}

func TestClearAll(t *testing.T) {
	r, a := setupRouter(t, "")
	ctx := context.Background()
	_, _ = a.Store.CreateTask(ctx, "t", "", "", false)
	require.NoError(t, a.Gate.Register(ctx, "1234"))

	assert.Equal(t, http.StatusPreconditionRequired, do(r, http.MethodDelete, "/api/data", "").Code)
	assert.Len(t, a.Store.Tasks(), 1)

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/api/data?confirm=true", "").Code)
	assert.Empty(t, a.Store.Tasks())
	assert.False(t, a.Gate.Configured())
}

func TestAPIRequiresTokenWhenSecretSet(t *testing.T) {
	r, _ := setupRouter(t, "s3cret")
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/tasks", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health", "").Code)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "phone"}).SignedString([]byte("s3cret"))
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

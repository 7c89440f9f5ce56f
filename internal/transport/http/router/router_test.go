package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"note-anywhere/internal/core/auth"
	"note-anywhere/internal/core/config"
	"note-anywhere/internal/core/database"
	"note-anywhere/internal/domain"
	"note-anywhere/internal/repo"
	"note-anywhere/internal/service"
	"note-anywhere/internal/transport/http/handler"
)

func init() { gin.SetMode(gin.TestMode) }

var testLimits = config.Limits{RPS: 1000, Burst: 1000, Concurrency: 10, MaxBodyMB: 1, TimeoutSec: 5}

func newUserRepo(t *testing.T) *repo.UserRepo {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
		MaxOpenConns: 1,
		LogLevel:     "silent",
	}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return repo.NewUserRepo(db)
}

func send(t *testing.T, r http.Handler, method, path, body string, hdr ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeUser(t *testing.T, w *httptest.ResponseRecorder) domain.User {
	t.Helper()
	var u domain.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	return u
}

func TestAPISoftDeleteScenario(t *testing.T) {
	svc := service.NewUserService(newUserRepo(t))
	r := NewAPIEngine(zap.NewNop(), Options{Limits: testLimits}, handler.NewUserHandler(svc))
	before := time.Now().Add(-time.Second)

	w := send(t, r, http.MethodPost, "/users", `{"userName":"alice","userProfile":"http://x/p.png"}`)
	require.Equal(t, http.StatusOK, w.Code)
	u := decodeUser(t, w)
	assert.EqualValues(t, 1, u.ID)
	assert.Equal(t, "alice", u.UserName)
	assert.Nil(t, u.DeletedAt)
	assert.True(t, u.CreatedAt.After(before))

	w = send(t, r, http.MethodGet, "/users/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeUser(t, w)
	assert.Equal(t, u.ID, got.ID)
	assert.True(t, u.CreatedAt.Equal(got.CreatedAt))

	w = send(t, r, http.MethodDelete, "/users/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = send(t, r, http.MethodGet, "/users/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = send(t, r, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = send(t, r, http.MethodDelete, "/users/1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(t, r, http.MethodDelete, "/users/2", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPIHealthAndMetrics(t *testing.T) {
	r := NewAPIEngine(zap.NewNop(), Options{Limits: testLimits})

	w := send(t, r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":1}`, w.Body.String())

	w = send(t, r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")

	w = send(t, r, http.MethodGet, "/health", "", "X-Request-ID", "abc")
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
}

func TestAPIHealthFailing(t *testing.T) {
	r := NewAPIEngine(zap.NewNop(), Options{
		Limits: testLimits,
		Health: func(context.Context) error { return errors.New("db down") },
	})
	w := send(t, r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "db down")
}

func TestAPIBodyLimit(t *testing.T) {
	svc := service.NewUserService(newUserRepo(t))
	r := NewAPIEngine(zap.NewNop(), Options{Limits: testLimits}, handler.NewUserHandler(svc))

	big := `{"userName":"` + strings.Repeat("a", 2<<20) + `"}`
	w := send(t, r, http.MethodPost, "/users", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestAdminEngine(t *testing.T) {
	users := newUserRepo(t)
	userSvc := service.NewUserService(users)
	ctx := context.Background()
	a, err := userSvc.CreateUser(ctx, service.CreateUserInput{UserName: "alice"})
	require.NoError(t, err)
	_, err = userSvc.CreateUser(ctx, service.CreateUserInput{UserName: "bob"})
	require.NoError(t, err)
	require.NoError(t, userSvc.DeleteUser(ctx, a.ID))

	jwter := &auth.JWTer{Secret: []byte("s"), Issuer: "test", TTL: time.Minute}
	r := NewAdminEngine(zap.NewNop(), Options{Limits: testLimits}, jwter,
		handler.NewAdminHandler(service.NewAdminService(users)))

	assert.Equal(t, http.StatusUnauthorized, send(t, r, http.MethodGet, "/admin/v1/users", "").Code)

	tok, err := jwter.Issue("ops", auth.RoleAdmin)
	require.NoError(t, err)
	bearer := "Bearer " + tok

	var page service.Page
	w := send(t, r, http.MethodGet, "/admin/v1/users", "", "Authorization", bearer)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "bob", page.Items[0].UserName)

	w = send(t, r, http.MethodGet, "/admin/v1/users?with_deleted=true", "", "Authorization", bearer)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.EqualValues(t, 2, page.Total)
}

type orderMod struct {
	name string
	prio int
	log  *[]string
}

func (m orderMod) MountAPI(*gin.RouterGroup) { *m.log = append(*m.log, m.name) }
func (m orderMod) Priority() int             { return m.prio }

type plainMod struct{ log *[]string }

func (m plainMod) MountAPI(*gin.RouterGroup) { *m.log = append(*m.log, "plain") }

func TestMountAllAPIOrder(t *testing.T) {
	var log []string
	g := &gin.New().RouterGroup
	MountAllAPI(g, plainMod{&log}, orderMod{"late", 200, &log}, orderMod{"early", 1, &log})
	assert.Equal(t, []string{"early", "plain", "late"}, log)
}

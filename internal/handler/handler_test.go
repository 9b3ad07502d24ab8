package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glog "gorm.io/gorm/logger"

	"github.com/covox/callaudit/internal/models"
	"github.com/covox/callaudit/pkg/config"
	stores "github.com/covox/callaudit/pkg/storage"
	"github.com/covox/callaudit/pkg/transcriber"
)

type fakeASR struct {
	text string
	err  error
}

func (f *fakeASR) Vendor() string { return "fake" }

func (f *fakeASR) Transcribe(ctx context.Context, audioPath string) (*transcriber.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &transcriber.Result{Text: f.text, Language: "en"}, nil
}

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	store  *stores.LocalStore
	asr    *fakeASR
}

func setupTest(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config.GlobalConfig = &config.Config{
		APIPrefix:         "/api",
		MediaPrefix:       "/media",
		TranscribeTimeout: 2 * time.Second,
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: glog.Default.LogMode(glog.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Agent{}, &models.CallRecord{}, &models.KnowledgeEntry{}))

	store := stores.NewLocalStore(t.TempDir(), "/media")
	asr := &fakeASR{text: "hello, thank you for calling"}

	r := gin.New()
	r.Use(sessions.Sessions("callaudit", cookie.NewStore([]byte("test-secret"))))
	NewHandlers(db, store, asr).Register(r, "/api")

	return &testEnv{router: r, db: db, store: store, asr: asr}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var parsed map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func (e *testEnv) upload(t *testing.T, agentID, userID uint, filename string, audio []byte) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("agent_id", fmt.Sprint(agentID)))
	require.NoError(t, mw.WriteField("user_id", fmt.Sprint(userID)))
	require.NoError(t, mw.WriteField("caller_number", "+15550100"))
	require.NoError(t, mw.WriteField("duration", "42.5"))
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(audio)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/calls/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var parsed map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func (e *testEnv) seedUserAndAgent(t *testing.T) (*models.User, *models.Agent) {
	t.Helper()
	user, err := models.CreateUser(e.db, "Alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	agent, err := models.CreateAgent(e.db, "Dana", "dana@example.com", "AG-001")
	require.NoError(t, err)
	return user, agent
}

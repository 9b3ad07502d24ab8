package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covox/callaudit/internal/models"
	"github.com/covox/callaudit/pkg/response"
)

func TestKnowledgeCRUD(t *testing.T) {
	env := setupTest(t)
	user, _ := env.seedUserAndAgent(t)

	doc := map[string]any{
		"nodes": []any{map[string]any{"id": "n1", "label": "billing"}},
		"edges": []any{},
	}
	w, body := env.do(t, http.MethodPost, "/api/knowledge", map[string]any{
		"user_id":   user.ID,
		"json_data": doc,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := body["data"].(map[string]any)
	id := int64(data["id"].(float64))

	w, body = env.do(t, http.MethodGet, "/api/knowledge/"+int64Str(id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := body["data"].(map[string]any)
	assert.Equal(t, doc, got["jsonData"], "document comes back verbatim")

	w, _ = env.do(t, http.MethodPut, "/api/knowledge/"+int64Str(id), map[string]any{
		"json_data": map[string]any{"v": 2},
	})
	require.Equal(t, http.StatusOK, w.Code)

	entry, err := models.GetKnowledgeEntry(env.db, id)
	require.NoError(t, err)
	assert.Equal(t, models.JSONMap{"v": float64(2)}, entry.JSONData)

	w, _ = env.do(t, http.MethodDelete, "/api/knowledge/"+int64Str(id), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, body = env.do(t, http.MethodGet, "/api/knowledge/"+int64Str(id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.CodeNotFound, body["code"])
}

func TestCreateKnowledgeUnknownUser(t *testing.T) {
	env := setupTest(t)

	w, body := env.do(t, http.MethodPost, "/api/knowledge", map[string]any{
		"user_id":   999999,
		"json_data": map[string]any{"v": 1},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.CodeNotFound, body["code"])
}

func TestListKnowledgeByUser(t *testing.T) {
	env := setupTest(t)
	user, _ := env.seedUserAndAgent(t)

	for i := 0; i < 3; i++ {
		_, err := models.CreateKnowledgeEntry(env.db, user.ID, models.JSONMap{"n": float64(i)})
		require.NoError(t, err)
	}

	w, body := env.do(t, http.MethodGet, "/api/knowledge/by-user/"+uintStr(user.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	entries, ok := body["data"].([]any)
	require.True(t, ok)
	assert.Len(t, entries, 3)
}

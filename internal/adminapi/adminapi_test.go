package adminapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	docs map[string]string
}

func newFakeStore() *fakeStore { return &fakeStore{docs: map[string]string{}} }

func (f *fakeStore) Save(slot, document string) error { f.docs[slot] = document; return nil }
func (f *fakeStore) Load(slot string) (string, error) { return f.docs[slot], nil }
func (f *fakeStore) List() ([]string, error) {
	var out []string
	for k := range f.docs {
		out = append(out, k)
	}
	return out, nil
}
func (f *fakeStore) Delete(slot string) error { delete(f.docs, slot); return nil }

func newTestServer() *Server {
	gin.SetMode(gin.TestMode)
	return NewServer(newFakeStore(), []byte("test-secret"), []byte("cookie-secret"))
}

func login(t *testing.T, s *Server) string {
	body, _ := json.Marshal(loginRequest{Username: "admin", Password: "pw"})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp["token"]
}

func TestSaveAndLoadSceneRequiresToken(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/scenes/default", nil)
	rec := httptest.NewRecorder()
	s.Engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	token := login(t, s)

	saveBody, _ := json.Marshal(saveRequest{Document: `{"blend":0.5}`})
	saveReq := httptest.NewRequest(http.MethodPut, "/api/scenes/default", bytes.NewReader(saveBody))
	saveReq.Header.Set("Content-Type", "application/json")
	saveReq.Header.Set("Authorization", "Bearer "+token)
	saveRec := httptest.NewRecorder()
	s.Engine.ServeHTTP(saveRec, saveReq)
	require.Equal(t, http.StatusNoContent, saveRec.Code)

	loadReq := httptest.NewRequest(http.MethodGet, "/api/scenes/default", nil)
	loadReq.Header.Set("Authorization", "Bearer "+token)
	loadRec := httptest.NewRecorder()
	s.Engine.ServeHTTP(loadRec, loadReq)
	require.Equal(t, http.StatusOK, loadRec.Code)
	require.JSONEq(t, `{"blend":0.5}`, loadRec.Body.String())
}

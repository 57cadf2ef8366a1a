package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"facture-backend/internal/middleware"
	"facture-backend/internal/models"
	"facture-backend/internal/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memClientRepo struct {
	nextID  int
	clients map[int]*models.Client
}

func newMemClientRepo() *memClientRepo {
	return &memClientRepo{nextID: 1, clients: make(map[int]*models.Client)}
}

func (m *memClientRepo) Create(ctx context.Context, c *models.Client) error {
	c.ID = m.nextID
	m.nextID++
	cp := *c
	m.clients[c.ID] = &cp
	return nil
}

func (m *memClientRepo) Get(ctx context.Context, userID, id int) (*models.Client, error) {
	c, ok := m.clients[id]
	if !ok || c.UserID != userID {
		return nil, errors.New("client not found")
	}
	cp := *c
	return &cp, nil
}

func (m *memClientRepo) ListActive(ctx context.Context, userID int) ([]*models.Client, error) {
	return m.list(userID, false), nil
}

func (m *memClientRepo) ListTrashed(ctx context.Context, userID int) ([]*models.Client, error) {
	return m.list(userID, true), nil
}

func (m *memClientRepo) list(userID int, deleted bool) []*models.Client {
	out := []*models.Client{}
	for _, c := range m.clients {
		if c.UserID == userID && c.Deleted == deleted {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out
}

func (m *memClientRepo) Update(ctx context.Context, c *models.Client) error {
	stored, ok := m.clients[c.ID]
	if !ok || stored.UserID != c.UserID {
		return errors.New("client not found")
	}
	cp := *c
	m.clients[c.ID] = &cp
	return nil
}

func (m *memClientRepo) SoftDelete(ctx context.Context, userID, id int) error {
	c, ok := m.clients[id]
	if !ok || c.UserID != userID {
		return errors.New("client not found")
	}
	c.Deleted = true
	return nil
}

func (m *memClientRepo) Restore(ctx context.Context, userID, id int) error {
	c, ok := m.clients[id]
	if !ok || c.UserID != userID {
		return errors.New("client not found")
	}
	c.Deleted = false
	return nil
}

func (m *memClientRepo) PermanentlyDelete(ctx context.Context, userID, id int) error {
	c, ok := m.clients[id]
	if !ok || c.UserID != userID {
		return errors.New("client not found")
	}
	delete(m.clients, id)
	return nil
}

func (m *memClientRepo) PurgeTrash(ctx context.Context, userID int) (int, error) {
	n := 0
	for id, c := range m.clients {
		if c.UserID == userID && c.Deleted {
			delete(m.clients, id)
			n++
		}
	}
	return n, nil
}

// asUser injects the authenticated user ID the way the auth middleware does
func asUser(userID int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newClientTestRouter(userID int) (*mux.Router, *memClientRepo) {
	repo := newMemClientRepo()
	handler := NewClientHandler(services.NewClientService(repo))

	r := mux.NewRouter()
	r.Use(asUser(userID))
	r.HandleFunc("/api/clients", handler.List).Methods("GET")
	r.HandleFunc("/api/clients", handler.Create).Methods("POST")
	r.HandleFunc("/api/clients/trash", handler.ListTrash).Methods("GET")
	r.HandleFunc("/api/clients/trash", handler.PurgeTrash).Methods("DELETE")
	r.HandleFunc("/api/clients/{id}", handler.Get).Methods("GET")
	r.HandleFunc("/api/clients/{id}", handler.Update).Methods("PUT")
	r.HandleFunc("/api/clients/{id}", handler.Delete).Methods("DELETE")
	r.HandleFunc("/api/clients/{id}/restore", handler.Restore).Methods("POST")

	return r, repo
}

func doJSON(t *testing.T, router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestClientHandlerCreate(t *testing.T) {
	router, _ := newClientTestRouter(1)

	rec := doJSON(t, router, "POST", "/api/clients",
		`{"name":"Acme SARL","email":"contact@acme.fr","phone":"0612345678"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var client models.Client
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &client))
	assert.Equal(t, "Acme SARL", client.Name)
	assert.Equal(t, 1, client.UserID)
	assert.NotZero(t, client.ID)
}

func TestClientHandlerCreateRejectsMissingFields(t *testing.T) {
	router, _ := newClientTestRouter(1)

	rec := doJSON(t, router, "POST", "/api/clients", `{"name":"","email":"a@b.fr"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, "POST", "/api/clients", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClientHandlerInvalidID(t *testing.T) {
	router, _ := newClientTestRouter(1)

	rec := doJSON(t, router, "GET", "/api/clients/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClientHandlerTrashFlow(t *testing.T) {
	router, _ := newClientTestRouter(1)

	rec := doJSON(t, router, "POST", "/api/clients", `{"name":"Acme","email":"a@b.fr"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var client models.Client
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &client))

	// Delete moves it to trash
	rec = doJSON(t, router, "DELETE", "/api/clients/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "GET", "/api/clients", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var active []models.Client
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &active))
	assert.Empty(t, active)

	rec = doJSON(t, router, "GET", "/api/clients/trash", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var trashed []models.Client
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trashed))
	require.Len(t, trashed, 1)

	// Restore brings it back
	rec = doJSON(t, router, "POST", "/api/clients/1/restore", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "GET", "/api/clients", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &active))
	assert.Len(t, active, 1)
}

func TestClientHandlerPurgeTrash(t *testing.T) {
	router, _ := newClientTestRouter(1)

	doJSON(t, router, "POST", "/api/clients", `{"name":"A","email":"a@b.fr"}`)
	doJSON(t, router, "POST", "/api/clients", `{"name":"B","email":"b@b.fr"}`)
	doJSON(t, router, "DELETE", "/api/clients/1", "")
	doJSON(t, router, "DELETE", "/api/clients/2", "")

	rec := doJSON(t, router, "DELETE", "/api/clients/trash", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var result map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 2, result["deleted"])
}

func TestClientHandlerCrossUserAccess(t *testing.T) {
	ownerRouter, repo := newClientTestRouter(1)

	rec := doJSON(t, ownerRouter, "POST", "/api/clients", `{"name":"Acme","email":"a@b.fr"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Same store, different authenticated user
	otherHandler := NewClientHandler(services.NewClientService(repo))
	otherRouter := mux.NewRouter()
	otherRouter.Use(asUser(2))
	otherRouter.HandleFunc("/api/clients/{id}", otherHandler.Get).Methods("GET")

	rec = doJSON(t, otherRouter, "GET", "/api/clients/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

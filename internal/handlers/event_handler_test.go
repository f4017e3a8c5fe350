package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tickethub/internal/models"
)

func loginToken(t *testing.T, r http.Handler, email, password string) string {
	t.Helper()
	w := postJSON(t, r, "/api/v1/auth", map[string]string{
		"email":       email,
		"password":    password,
		"tenant_slug": "acme",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func authedJSON(t *testing.T, r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUnknownTenantIs404(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db, &fakeSender{})

	w := getPath(r, "/api/v1/nowhere/events")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminEventLifecycle(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := newTestDB(t)
	tenant := seedTenant(t, db)
	seedAdmin(t, db, tenant, "admin@acme.test", "s3cret", true)
	r := newTestRouter(db, &fakeSender{})
	token := loginToken(t, r, "admin@acme.test", "s3cret")

	create := authedJSON(t, r, http.MethodPost, "/api/v1/acme/admin/events", token, map[string]interface{}{
		"slug":       "gophercon",
		"title":      "GopherCon",
		"start_time": time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"end_time":   time.Now().Add(32 * time.Hour).Format(time.RFC3339),
		"location":   "Convention Center",
	})
	require.Equal(t, http.StatusCreated, create.Code, create.Body.String())

	// Duplicate slug within the tenant is rejected.
	dup := authedJSON(t, r, http.MethodPost, "/api/v1/acme/admin/events", token, map[string]interface{}{
		"slug":       "gophercon",
		"title":      "GopherCon Again",
		"start_time": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"end_time":   time.Now().Add(56 * time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusConflict, dup.Code)

	var event models.Event
	require.NoError(t, db.First(&event, "slug = ?", "gophercon").Error)

	// Add a ticket type, then read the event back publicly.
	quantity := 100
	tt := authedJSON(t, r, http.MethodPost, "/api/v1/acme/admin/events/"+event.ID.String()+"/ticket-types", token, map[string]interface{}{
		"name":     "Early Bird",
		"price":    25.00,
		"is_paid":  true,
		"quantity": quantity,
	})
	require.Equal(t, http.StatusCreated, tt.Code, tt.Body.String())

	public := getPath(r, "/api/v1/acme/events/gophercon")
	require.Equal(t, http.StatusOK, public.Code)
	var view struct {
		TicketTypes []struct {
			Name      string `json:"name"`
			Remaining *int   `json:"remaining"`
			SoldOut   bool   `json:"sold_out"`
		} `json:"ticket_types"`
	}
	require.NoError(t, json.Unmarshal(public.Body.Bytes(), &view))
	require.Len(t, view.TicketTypes, 1)
	assert.Equal(t, "Early Bird", view.TicketTypes[0].Name)
	require.NotNil(t, view.TicketTypes[0].Remaining)
	assert.Equal(t, 100, *view.TicketTypes[0].Remaining)
	assert.False(t, view.TicketTypes[0].SoldOut)

	update := authedJSON(t, r, http.MethodPut, "/api/v1/acme/admin/events/"+event.ID.String(), token, map[string]interface{}{
		"slug":       "gophercon",
		"title":      "GopherCon EU",
		"start_time": time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"end_time":   time.Now().Add(32 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusOK, update.Code, update.Body.String())
	require.NoError(t, db.First(&event, "id = ?", event.ID).Error)
	assert.Equal(t, "GopherCon EU", event.Title)

	del := authedJSON(t, r, http.MethodDelete, "/api/v1/acme/admin/events/"+event.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, del.Code)
	err := db.First(&models.Event{}, "id = ?", event.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound, "deleted events disappear from scoped queries")
}

func TestUpdateEventRejectsDuplicateSlug(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := newTestDB(t)
	tenant := seedTenant(t, db)
	seedAdmin(t, db, tenant, "admin@acme.test", "s3cret", true)

	first := models.Event{
		TenantID:  tenant.ID,
		Slug:      "gophercon",
		Title:     "GopherCon",
		StartTime: time.Now().Add(24 * time.Hour),
		EndTime:   time.Now().Add(32 * time.Hour),
	}
	require.NoError(t, db.Create(&first).Error)
	second := models.Event{
		TenantID:  tenant.ID,
		Slug:      "gophercon-eu",
		Title:     "GopherCon EU",
		StartTime: time.Now().Add(48 * time.Hour),
		EndTime:   time.Now().Add(56 * time.Hour),
	}
	require.NoError(t, db.Create(&second).Error)

	r := newTestRouter(db, &fakeSender{})
	token := loginToken(t, r, "admin@acme.test", "s3cret")

	w := authedJSON(t, r, http.MethodPut, "/api/v1/acme/admin/events/"+second.ID.String(), token, map[string]interface{}{
		"slug":       "gophercon",
		"title":      "GopherCon EU",
		"start_time": second.StartTime.Format(time.RFC3339),
		"end_time":   second.EndTime.Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	require.NoError(t, db.First(&second, "id = ?", second.ID).Error)
	assert.Equal(t, "gophercon-eu", second.Slug)
}

func TestAdminScopedToOwnTenant(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := newTestDB(t)
	tenant := seedTenant(t, db)
	seedAdmin(t, db, tenant, "admin@acme.test", "s3cret", true)

	other := models.Tenant{Slug: "globex", Name: "Globex"}
	require.NoError(t, db.Create(&other).Error)

	r := newTestRouter(db, &fakeSender{})
	token := loginToken(t, r, "admin@acme.test", "s3cret")

	w := authedJSON(t, r, http.MethodGet, "/api/v1/globex/admin/events", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = authedJSON(t, r, http.MethodGet, "/api/v1/acme/admin/events", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := newTestDB(t)
	seedTenant(t, db)
	r := newTestRouter(db, &fakeSender{})

	w := getPath(r, "/api/v1/acme/admin/events")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"med-diagnosis-api/apiv1"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)

	engine := gin.New()
	group := engine.Group("/api/v1/admin")
	NewRouter[apiv1.Disease](db).Register(group, "/diseases")
	return engine, db
}

func performRequest(engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRouter_Create(t *testing.T) {
	engine, db := setupRouter(t)
	defer cleanupTestDB(t, db)

	disease := testDisease("Грипп", "температура", "кашель")
	w := performRequest(engine, http.MethodPost, "/api/v1/admin/diseases", disease)
	assert.Equal(t, http.StatusCreated, w.Code)

	var created apiv1.Disease
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Грипп", created.Name)
}

func TestRouter_Create_InvalidBody(t *testing.T) {
	engine, db := setupRouter(t)
	defer cleanupTestDB(t, db)

	// Missing required fields fails binding
	w := performRequest(engine, http.MethodPost, "/api/v1/admin/diseases", map[string]string{"name": "Грипп"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_GetAndList(t *testing.T) {
	engine, db := setupRouter(t)
	defer cleanupTestDB(t, db)

	disease := testDisease("Грипп")
	assert.NoError(t, db.Create(&disease).Error)

	w := performRequest(engine, http.MethodGet, fmt.Sprintf("/api/v1/admin/diseases/%d", disease.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var found apiv1.Disease
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &found))
	assert.Equal(t, disease.ID, found.ID)

	w = performRequest(engine, http.MethodGet, "/api/v1/admin/diseases?page=1&size=10", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var list ListResponse[apiv1.Disease]
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, int64(1), list.Total)
	assert.Len(t, list.Items, 1)
}

func TestRouter_Get_Errors(t *testing.T) {
	engine, db := setupRouter(t)
	defer cleanupTestDB(t, db)

	w := performRequest(engine, http.MethodGet, "/api/v1/admin/diseases/invalid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(engine, http.MethodGet, "/api/v1/admin/diseases/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_Update(t *testing.T) {
	engine, db := setupRouter(t)
	defer cleanupTestDB(t, db)

	disease := testDisease("Грипп")
	assert.NoError(t, db.Create(&disease).Error)

	disease.Severity = apiv1.SeverityHigh
	w := performRequest(engine, http.MethodPut, fmt.Sprintf("/api/v1/admin/diseases/%d", disease.ID), disease)
	assert.Equal(t, http.StatusOK, w.Code)

	var updated apiv1.Disease
	assert.NoError(t, db.First(&updated, disease.ID).Error)
	assert.Equal(t, apiv1.SeverityHigh, updated.Severity)
}

func TestRouter_Update_BodyMetadataCannotRetarget(t *testing.T) {
	engine, db := setupRouter(t)
	defer cleanupTestDB(t, db)

	flu := testDisease("Грипп")
	cold := testDisease("Простуда")
	assert.NoError(t, db.Create(&flu).Error)
	assert.NoError(t, db.Create(&cold).Error)

	// A body echoing the other row's metadata must not steer the write
	payload := flu
	payload.ID = cold.ID
	payload.UID = cold.UID
	payload.Description = "Новое описание гриппа"

	w := performRequest(engine, http.MethodPut, fmt.Sprintf("/api/v1/admin/diseases/%d", flu.ID), payload)
	assert.Equal(t, http.StatusOK, w.Code)

	var updated apiv1.Disease
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, flu.ID, updated.ID)
	assert.Equal(t, flu.UID, updated.UID)

	var stored apiv1.Disease
	assert.NoError(t, db.First(&stored, flu.ID).Error)
	assert.Equal(t, "Новое описание гриппа", stored.Description)

	var untouched apiv1.Disease
	assert.NoError(t, db.First(&untouched, cold.ID).Error)
	assert.Equal(t, "Простуда", untouched.Name)
	assert.NotEqual(t, "Новое описание гриппа", untouched.Description)
}

func TestRouter_Update_ValidatesResource(t *testing.T) {
	engine, db := setupRouter(t)
	defer cleanupTestDB(t, db)

	disease := testDisease("Грипп")
	assert.NoError(t, db.Create(&disease).Error)

	original := disease.Severity
	disease.Severity = "critical"
	w := performRequest(engine, http.MethodPut, fmt.Sprintf("/api/v1/admin/diseases/%d", disease.ID), disease)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var stored apiv1.Disease
	assert.NoError(t, db.First(&stored, disease.ID).Error)
	assert.Equal(t, original, stored.Severity)
}

func TestRouter_Delete(t *testing.T) {
	engine, db := setupRouter(t)
	defer cleanupTestDB(t, db)

	disease := testDisease("Грипп")
	assert.NoError(t, db.Create(&disease).Error)

	w := performRequest(engine, http.MethodDelete, fmt.Sprintf("/api/v1/admin/diseases/%d", disease.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = performRequest(engine, http.MethodDelete, fmt.Sprintf("/api/v1/admin/diseases/%d", disease.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_OnChange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	changes := 0
	engine := gin.New()
	group := engine.Group("/api/v1/admin")
	NewRouter[apiv1.Disease](db).OnChange(func() { changes++ }).Register(group, "/diseases")

	disease := testDisease("Грипп")
	w := performRequest(engine, http.MethodPost, "/api/v1/admin/diseases", disease)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, changes)

	var created apiv1.Disease
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = performRequest(engine, http.MethodDelete, fmt.Sprintf("/api/v1/admin/diseases/%d", created.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 2, changes)

	// Reads must not fire the hook
	performRequest(engine, http.MethodGet, "/api/v1/admin/diseases", nil)
	assert.Equal(t, 2, changes)
}

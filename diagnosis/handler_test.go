package diagnosis

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"med-diagnosis-api/internal/logger"
)

func setupHandler(t *testing.T, seed bool) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	if seed {
		seedKnowledge(t, db)
	}

	engine, err := NewEngine(db)
	require.NoError(t, err)

	router := gin.New()
	NewHandler(db, engine, logger.New("error")).Register(router)
	return router, db
}

func getJSON(t *testing.T, router *gin.Engine, path string, status int) map[string]interface{} {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, status, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(payload))
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_Health(t *testing.T) {
	router, _ := setupHandler(t, true)

	body := getJSON(t, router, "/healthz", http.StatusOK)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["ready"])
}

func TestHandler_Overview(t *testing.T) {
	router, _ := setupHandler(t, true)

	body := getJSON(t, router, "/api/v1/overview", http.StatusOK)
	assert.Equal(t, float64(7), body["symptomsCount"])
	assert.Equal(t, float64(3), body["diseasesCount"])
	assert.Equal(t, true, body["ready"])
	assert.Equal(t, "", body["error"])

	byLetter, ok := body["symptomsByLetter"].(map[string]interface{})
	require.True(t, ok)
	// кашель groups under К
	group, ok := byLetter["К"].([]interface{})
	require.True(t, ok)
	assert.Contains(t, group, "кашель")
}

func TestHandler_Overview_NotReady(t *testing.T) {
	router, _ := setupHandler(t, false)

	body := getJSON(t, router, "/api/v1/overview", http.StatusOK)
	assert.Equal(t, false, body["ready"])
	assert.NotEmpty(t, body["error"])
	assert.Equal(t, float64(0), body["diseasesCount"])
}

func TestHandler_Analyze(t *testing.T) {
	router, _ := setupHandler(t, true)

	w := postJSON(t, router, "/api/v1/analyze", AnalyzeRequest{
		Symptoms: []string{"температура", "кашель", "головная боль", "слабость"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Results          []Result `json:"results"`
		SymptomsCount    int      `json:"symptomsCount"`
		SelectedSymptoms []string `json:"selectedSymptoms"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	require.NotEmpty(t, body.Results)
	assert.Equal(t, "Грипп", body.Results[0].Disease)
	assert.Equal(t, 4, body.SymptomsCount)
	assert.Len(t, body.SelectedSymptoms, 4)
}

func TestHandler_Analyze_EmptySelection(t *testing.T) {
	router, _ := setupHandler(t, true)

	w := postJSON(t, router, "/api/v1/analyze", AnalyzeRequest{Symptoms: []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, router, "/api/v1/analyze", AnalyzeRequest{Symptoms: []string{"выдуманный симптом"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Analyze_MissingBody(t *testing.T) {
	router, _ := setupHandler(t, true)

	w := postJSON(t, router, "/api/v1/analyze", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Analyze_NotReady(t *testing.T) {
	router, _ := setupHandler(t, false)

	w := postJSON(t, router, "/api/v1/analyze", AnalyzeRequest{Symptoms: []string{"кашель"}})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandler_KnowledgeBase(t *testing.T) {
	router, _ := setupHandler(t, true)

	body := getJSON(t, router, "/api/v1/knowledge-base", http.StatusOK)
	assert.Equal(t, float64(3), body["totalDiseases"])

	byLetter, ok := body["diseasesByLetter"].(map[string]interface{})
	require.True(t, ok)

	// Грипп groups under Г
	group, ok := byLetter["Г"].([]interface{})
	require.True(t, ok)
	require.Len(t, group, 1)

	entry := group[0].(map[string]interface{})
	assert.Equal(t, "Грипп", entry["name"])
	assert.Equal(t, "MEDIUM", entry["severityDisplay"])
}

func TestHandler_DiseaseDetail(t *testing.T) {
	router, _ := setupHandler(t, true)

	body := getJSON(t, router, "/api/v1/knowledge-base/diseases/Грипп", http.StatusOK)
	assert.Equal(t, "Грипп", body["diseaseName"])
	assert.Equal(t, "MEDIUM", body["severityDisplay"])

	info := body["info"].(map[string]interface{})
	assert.Equal(t, "Острая вирусная инфекция", info["description"])

	contacts := body["emergencyContacts"].([]interface{})
	assert.Len(t, contacts, 3)
	assert.Contains(t, contacts[0], "112")
}

func TestHandler_DiseaseDetail_CaseInsensitive(t *testing.T) {
	router, _ := setupHandler(t, true)

	body := getJSON(t, router, "/api/v1/knowledge-base/diseases/грипп", http.StatusOK)
	assert.Equal(t, "Грипп", body["diseaseName"])
}

func TestHandler_DiseaseDetail_NotFoundWithSuggestions(t *testing.T) {
	router, _ := setupHandler(t, true)

	body := getJSON(t, router, "/api/v1/knowledge-base/diseases/Грип", http.StatusNotFound)
	assert.Equal(t, "Грип", body["searchedDisease"])

	suggestions := body["suggestions"].([]interface{})
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "Грипп", suggestions[0])

	// Placeholder info accompanies the miss
	info := body["info"].(map[string]interface{})
	assert.Contains(t, info["description"], "Грип")
	assert.Equal(t, "unknown", info["severity"])
}

func TestGroupByLetter(t *testing.T) {
	groups := GroupByLetter([]string{"кашель", "температура", "тошнота", "123 симптом", ""})

	assert.Equal(t, []string{"кашель"}, groups["К"])
	assert.Equal(t, []string{"температура", "тошнота"}, groups["Т"])
	assert.Equal(t, []string{"123 симптом"}, groups["#"])
	_, hasEmpty := groups[""]
	assert.False(t, hasEmpty)
}

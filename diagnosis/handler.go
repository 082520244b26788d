package diagnosis

import (
	"net/http"
	"sort"
	"unicode"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"med-diagnosis-api/apiv1"
	"med-diagnosis-api/internal"
	"med-diagnosis-api/internal/logger"
)

// emergencyContacts is shown on every disease detail page.
var emergencyContacts = []string{
	"112 - Unified emergency service",
	"103 - Ambulance",
	"03 - Ambulance (legacy number)",
}

// Handler serves the public diagnosis API.
type Handler struct {
	engine   *Engine
	diseases *internal.DAO[apiv1.Disease]
	log      logger.Logger
}

// NewHandler creates the public API handler.
func NewHandler(db *gorm.DB, engine *Engine, log logger.Logger) *Handler {
	return &Handler{
		engine:   engine,
		diseases: internal.NewDAO[apiv1.Disease](db),
		log:      log,
	}
}

// Register mounts the public routes.
func (h *Handler) Register(router *gin.Engine) {
	router.GET("/healthz", h.Health)

	api := router.Group("/api/v1")
	{
		api.GET("/overview", h.Overview)
		api.POST("/analyze", h.Analyze)
		api.GET("/knowledge-base", h.KnowledgeBase)
		api.GET("/knowledge-base/diseases/:name", h.DiseaseDetail)
	}
}

// Health reports liveness and engine readiness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"ready":  h.engine.Ready(),
	})
}

// Overview serves the home-page context: the symptom catalogue grouped
// by first letter plus knowledge base counters and engine state.
func (h *Handler) Overview(c *gin.Context) {
	symptoms := h.engine.Symptoms()
	symptomCount, diseaseCount := h.engine.Counts()

	c.JSON(http.StatusOK, gin.H{
		"symptoms":         symptoms,
		"symptomsByLetter": GroupByLetter(symptoms),
		"symptomsCount":    symptomCount,
		"diseasesCount":    diseaseCount,
		"ready":            h.engine.Ready(),
		"error":            h.engine.StatusMessage(),
	})
}

// AnalyzeRequest is the analyze request body.
type AnalyzeRequest struct {
	Symptoms []string `json:"symptoms" binding:"required"`
}

// Analyze runs the diagnosis engine over the selected symptoms.
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.engine.Analyze(req.Symptoms)
	if err != nil {
		switch err {
		case ErrNoSymptoms:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case ErrNotReady:
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		default:
			h.log.Error("analysis failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	h.log.Info("symptoms analyzed", "selected", len(req.Symptoms), "results", len(results))
	c.JSON(http.StatusOK, gin.H{
		"results":          results,
		"symptomsCount":    len(req.Symptoms),
		"selectedSymptoms": req.Symptoms,
	})
}

// diseaseSummary is one knowledge base entry.
type diseaseSummary struct {
	Name            string            `json:"name"`
	Info            apiv1.DiseaseInfo `json:"info"`
	SeverityDisplay string            `json:"severityDisplay"`
}

// KnowledgeBase serves all diseases grouped alphabetically.
func (h *Handler) KnowledgeBase(c *gin.Context) {
	diseases, err := h.diseases.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sort.Slice(diseases, func(a, b int) bool {
		return diseases[a].Name < diseases[b].Name
	})

	byLetter := make(map[string][]diseaseSummary)
	for _, disease := range diseases {
		letter := firstLetter(disease.Name)
		byLetter[letter] = append(byLetter[letter], diseaseSummary{
			Name:            disease.Name,
			Info:            disease.Info(),
			SeverityDisplay: apiv1.SeverityDisplay(disease.Severity),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"diseasesByLetter": byLetter,
		"totalDiseases":    len(diseases),
	})
}

// DiseaseDetail serves one disease with full info and emergency
// contacts. Unknown names get close-match suggestions.
func (h *Handler) DiseaseDetail(c *gin.Context) {
	name := c.Param("name")

	disease, err := h.diseases.GetByName(name)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"searchedDisease": name,
				"suggestions":     Suggest(name, h.engine.DiseaseNames()),
				"info":            apiv1.UnknownDiseaseInfo(name),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"diseaseName":       disease.Name,
		"info":              disease.Info(),
		"severityDisplay":   apiv1.SeverityDisplay(disease.Severity),
		"emergencyContacts": emergencyContacts,
	})
}

// GroupByLetter groups names by their uppercased first letter. Names
// starting with anything but a letter are collected under "#". Both the
// group members and the implicit key order (sorted map keys on the
// consumer side) are sorted.
func GroupByLetter(names []string) map[string][]string {
	groups := make(map[string][]string)
	for _, name := range names {
		if name == "" {
			continue
		}
		groups[firstLetter(name)] = append(groups[firstLetter(name)], name)
	}
	for letter := range groups {
		sort.Strings(groups[letter])
	}
	return groups
}

func firstLetter(name string) string {
	for _, r := range name {
		if unicode.IsLetter(r) {
			return string(unicode.ToUpper(r))
		}
		break
	}
	return "#"
}

package internal

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListResponse represents a paginated list response
type ListResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}

// RegisterResource migrates the resource table and mounts its CRUD
// routes on the given group. onChange may be nil.
func RegisterResource[T any](group *gin.RouterGroup, db *gorm.DB, path string, onChange func()) {
	dao := NewDAO[T](db)
	if err := dao.AutoMigrate(); err != nil {
		panic(err)
	}

	NewRouter[T](db).OnChange(onChange).Register(group, path)
}

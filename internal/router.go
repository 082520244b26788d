package internal

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"med-diagnosis-api/meta"
)

// Validator interface for resource validation
type Validator interface {
	Validate() error
}

// Router handles the admin CRUD routing for a resource
type Router[T any] struct {
	db  *gorm.DB
	dao *DAO[T]

	// onChange runs after every successful mutation, so dependents
	// (the diagnosis engine) can pick up the new store contents.
	onChange func()
}

// NewRouter creates a new router for the given resource
func NewRouter[T any](db *gorm.DB) *Router[T] {
	return &Router[T]{
		db:  db,
		dao: NewDAO[T](db),
	}
}

// OnChange registers a hook invoked after each successful mutation.
func (r *Router[T]) OnChange(fn func()) *Router[T] {
	r.onChange = fn
	return r
}

// Register registers all CRUD routes for the resource
func (r *Router[T]) Register(group *gin.RouterGroup, path string) {
	routes := group.Group(path)
	{
		routes.POST("", r.Create)
		routes.GET("", r.List)
		routes.GET("/:id", r.Get)
		routes.PUT("/:id", r.Update)
		routes.DELETE("/:id", r.Delete)
	}
}

func (r *Router[T]) notifyChange() {
	if r.onChange != nil {
		r.onChange()
	}
}

// Create handles POST requests to create a new resource
func (r *Router[T]) Create(c *gin.Context) {
	var resource T
	if err := c.ShouldBindJSON(&resource); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Check if resource implements Validator interface
	if validator, ok := any(&resource).(Validator); ok {
		if err := validator.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := r.dao.Create(&resource); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	r.notifyChange()
	c.JSON(http.StatusCreated, resource)
}

// List handles GET requests to list resources with pagination and filtering
func (r *Router[T]) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	// Remaining query parameters become column filters
	filters := make(map[string]interface{})
	for key, values := range c.Request.URL.Query() {
		if key != "page" && key != "size" {
			filters[key] = values[0]
		}
	}

	items, total, err := r.dao.List(page, pageSize, filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if items == nil {
		items = make([]T, 0)
	}

	c.JSON(http.StatusOK, ListResponse[T]{
		Items: items,
		Total: total,
		Page:  page,
		Size:  pageSize,
	})
}

// Get handles GET requests to retrieve a resource by ID
func (r *Router[T]) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	resource, err := r.dao.Get(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resource)
}

// Update handles PUT requests to update a resource
func (r *Router[T]) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	resource, err := r.dao.Get(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// The stored metadata is authoritative. The body may carry its own
	// metadata block (a client echoing a GET response, or a crafted id
	// pointing at another row), so it is restored after binding to keep
	// the write pinned to the path id.
	var stored meta.ObjectMeta
	accessor, hasMeta := any(resource).(meta.ObjectMetaAccessor)
	if hasMeta {
		stored = *accessor.GetObjectMeta()
	}

	if err := c.ShouldBindJSON(resource); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if hasMeta {
		*accessor.GetObjectMeta() = stored
	}

	if validator, ok := any(resource).(Validator); ok {
		if err := validator.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := r.dao.Update(uint(id), resource); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	r.notifyChange()
	c.JSON(http.StatusOK, resource)
}

// Delete handles DELETE requests to delete a resource
func (r *Router[T]) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := r.dao.Delete(uint(id)); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	r.notifyChange()
	c.Status(http.StatusNoContent)
}

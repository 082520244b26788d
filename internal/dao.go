package internal

import (
	"strings"

	"gorm.io/gorm"

	"med-diagnosis-api/meta"
)

// DAO provides generic database operations for resources
type DAO[T any] struct {
	db *gorm.DB
}

// NewDAO creates a new DAO instance
func NewDAO[T any](db *gorm.DB) *DAO[T] {
	return &DAO[T]{db: db}
}

// Create creates a new resource
func (d *DAO[T]) Create(resource *T) error {
	return d.db.Create(resource).Error
}

// Get retrieves a resource by ID
func (d *DAO[T]) Get(id uint) (*T, error) {
	var resource T
	err := d.db.First(&resource, id).Error
	if err != nil {
		return nil, err
	}
	return &resource, nil
}

// GetByName retrieves a resource by its unique name column,
// case-insensitively. An exact match is tried first; when that misses,
// names are compared with Unicode case folding so that Cyrillic names
// match regardless of case (SQLite's LOWER only folds ASCII).
func (d *DAO[T]) GetByName(name string) (*T, error) {
	var resource T
	err := d.db.Where("name = ?", name).First(&resource).Error
	if err == nil {
		return &resource, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	var obj T
	var names []string
	if err := d.db.Model(&obj).Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	for _, candidate := range names {
		if strings.EqualFold(candidate, name) {
			err := d.db.Where("name = ?", candidate).First(&resource).Error
			if err != nil {
				return nil, err
			}
			return &resource, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// List retrieves all resources with pagination and filtering
func (d *DAO[T]) List(page, pageSize int, filter map[string]interface{}) ([]T, int64, error) {
	var resources []T
	var total int64

	var obj T
	query := d.db.Model(&obj)
	if filter != nil {
		query = query.Where(filter)
	}

	err := query.Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err = query.Offset(offset).Limit(pageSize).Find(&resources).Error
	if err != nil {
		return nil, 0, err
	}

	return resources, total, nil
}

// ListAll retrieves every resource ordered by ID.
func (d *DAO[T]) ListAll() ([]T, error) {
	var resources []T
	err := d.db.Order("id").Find(&resources).Error
	if err != nil {
		return nil, err
	}
	return resources, nil
}

// Update writes the full row for the resource identified by id. The
// write is pinned to the given id regardless of the key carried inside
// the resource, and all columns are written so cleared fields persist.
// Callers pass the complete resource (fetch, merge, update).
func (d *DAO[T]) Update(id uint, resource *T) error {
	if accessor, ok := any(resource).(meta.ObjectMetaAccessor); ok {
		accessor.GetObjectMeta().ID = id
	}
	result := d.db.Model(resource).Where("id = ?", id).Select("*").Omit("id", "created_at").Updates(resource)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete deletes a resource by ID
func (d *DAO[T]) Delete(id uint) error {
	var resource T
	result := d.db.Delete(&resource, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplaceAll atomically replaces the whole table contents with the
// given resources. Returns the number of deleted rows.
func (d *DAO[T]) ReplaceAll(resources []T) (int64, error) {
	var deleted int64
	err := d.db.Transaction(func(tx *gorm.DB) error {
		var obj T
		result := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&obj)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected

		if len(resources) == 0 {
			return nil
		}
		return tx.Create(&resources).Error
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// AutoMigrate performs database migration for the resource
func (d *DAO[T]) AutoMigrate() error {
	var obj T
	return d.db.AutoMigrate(&obj)
}

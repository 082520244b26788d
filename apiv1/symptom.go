package apiv1

import (
	"errors"

	"gorm.io/gorm"

	"med-diagnosis-api/meta"
)

// Symptom is one entry of the symptom catalogue. The catalogue ordered
// by ID defines the input vector of the diagnosis engine, so symptom
// rows must never be reordered in place.
type Symptom struct {
	meta.BaseResource `json:",inline"`

	// Name is the unique symptom name shown to the user.
	Name string `gorm:"size:255;not null;unique" json:"name" binding:"required"`
}

// TableName specifies the table name for GORM
func (Symptom) TableName() string {
	return "symptoms"
}

// Validate implements meta.ResourceValidator.
func (s *Symptom) Validate() error {
	if s.Name == "" {
		return errors.New("symptom name is required")
	}
	return nil
}

// BeforeCreate is a GORM hook that runs before creating a symptom
func (s *Symptom) BeforeCreate(tx *gorm.DB) error {
	s.Kind = "Symptom"
	s.APIVersion = "v1"

	s.SetStatus("Active", "Symptom record created", "Created")
	return s.BaseResource.BeforeCreate(tx)
}

// BeforeUpdate is a GORM hook that runs before updating a symptom
func (s *Symptom) BeforeUpdate(tx *gorm.DB) error {
	s.Kind = "Symptom"
	s.APIVersion = "v1"

	s.SetStatus("Active", "Symptom record updated", "Updated")
	return s.BaseResource.BeforeUpdate(tx)
}

package meta

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResourceStatus records the lifecycle state of a stored resource.
type ResourceStatus struct {
	// Phase is the coarse lifecycle phase (Pending, Active, Deleted).
	Phase string `json:"phase,omitempty"`

	// Message is a human-readable explanation of the current phase.
	Message string `json:"message,omitempty"`

	// Reason is a brief CamelCase cause meant for machine parsing.
	Reason string `json:"reason,omitempty"`

	// LastTransitionTime is when the phase last changed.
	LastTransitionTime time.Time `json:"lastTransitionTime,omitempty"`
}

// TypeMeta identifies the kind and schema version of an object carried
// in an API request or response.
type TypeMeta struct {
	Kind       string `json:"kind,omitempty"`
	APIVersion string `json:"apiVersion,omitempty"`
}

// ObjectMeta is the metadata every persisted resource carries.
type ObjectMeta struct {
	// ID is the primary key.
	ID uint `gorm:"primaryKey" json:"id"`

	// UID is unique in time and space, assigned on first create.
	UID string `gorm:"type:char(36)" json:"uid,omitempty"`

	// ResourceVersion increments on every update so clients can detect
	// stale reads.
	ResourceVersion int `json:"resourceVersion,omitempty" gorm:"column:resource_version"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Labels organize and select subsets of resources.
	Labels map[string]string `gorm:"serializer:json" json:"labels,omitempty"`

	// Annotations hold arbitrary key/value data set by external tools.
	Annotations map[string]string `gorm:"serializer:json" json:"annotations,omitempty"`

	Status ResourceStatus `json:"status,omitempty" gorm:"embedded"`
}

// BaseResource is embedded by every stored resource (Disease, Symptom,
// Account).
type BaseResource struct {
	TypeMeta   `json:",inline"`
	ObjectMeta `json:"metadata,inline"`
}

// ResourceValidator is implemented by resources that validate themselves
// before being persisted or served.
type ResourceValidator interface {
	Validate() error
}

// ObjectMetaAccessor exposes the object metadata of any resource
// embedding BaseResource, so generic code can guard identity fields
// against client tampering.
type ObjectMetaAccessor interface {
	GetObjectMeta() *ObjectMeta
}

// GetObjectMeta implements ObjectMetaAccessor.
func (b *BaseResource) GetObjectMeta() *ObjectMeta {
	return &b.ObjectMeta
}

// GetID returns the primary key.
func (b *BaseResource) GetID() uint {
	return b.ID
}

// GetUID returns the resource UID.
func (b *BaseResource) GetUID() string {
	return b.UID
}

// GetKind returns the resource kind.
func (b *BaseResource) GetKind() string {
	return b.Kind
}

// SetStatus moves the resource to a new lifecycle phase.
func (b *BaseResource) SetStatus(phase, message, reason string) {
	b.Status.Phase = phase
	b.Status.Message = message
	b.Status.Reason = reason
	b.Status.LastTransitionTime = time.Now()
}

// Validate checks the type metadata shared by all resources.
func (b *BaseResource) Validate() error {
	if b.Kind == "" {
		return errors.New("kind is required")
	}
	if b.APIVersion == "" {
		return errors.New("apiVersion is required")
	}
	return nil
}

// BeforeCreate assigns identity and initial status before the first insert.
func (b *BaseResource) BeforeCreate(tx *gorm.DB) error {
	if b.UID == "" {
		b.UID = uuid.New().String()
	}
	if b.ResourceVersion == 0 {
		b.ResourceVersion = 1
	}
	if b.Status.Phase == "" {
		b.SetStatus("Pending", "Resource is being created", "")
	}
	return b.Validate()
}

// BeforeUpdate bumps the resource version on every update.
func (b *BaseResource) BeforeUpdate(tx *gorm.DB) error {
	b.ResourceVersion++
	return b.Validate()
}

// SetAnnotation sets an annotation key/value pair.
func (b *BaseResource) SetAnnotation(key, value string) {
	if b.Annotations == nil {
		b.Annotations = make(map[string]string)
	}
	b.Annotations[key] = value
}

// GetAnnotation looks up an annotation value.
func (b *BaseResource) GetAnnotation(key string) (string, bool) {
	if b.Annotations == nil {
		return "", false
	}
	value, exists := b.Annotations[key]
	return value, exists
}

package apiv1

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"med-diagnosis-api/meta"
)

// Severity codes stored on a disease record.
const (
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
	SeverityUnknown  = "unknown"
	SeverityVariable = "variable"
)

// severityDisplay maps stored severity codes to their display form.
var severityDisplay = map[string]string{
	SeverityHigh:     "HIGH",
	SeverityMedium:   "MEDIUM",
	SeverityLow:      "LOW",
	SeverityUnknown:  "UNDETERMINED",
	SeverityVariable: "VARIES BY STAGE",
}

// SeverityDisplay converts a severity code to its display form. Unknown
// codes fall back to UNDETERMINED.
func SeverityDisplay(severity string) string {
	if display, ok := severityDisplay[severity]; ok {
		return display
	}
	return severityDisplay[SeverityUnknown]
}

// Disease is one entry of the diagnostic knowledge base.
type Disease struct {
	meta.BaseResource `json:",inline"`

	// Name is the unique disease name.
	Name string `gorm:"size:255;not null;unique" json:"name" binding:"required"`

	// Description is a short description of the disease.
	Description string `gorm:"type:text;not null" json:"description" binding:"required"`

	// Treatment holds the treatment recommendations.
	Treatment string `gorm:"type:text;not null" json:"treatment" binding:"required"`

	// Symptoms is the list of symptom names associated with the disease.
	Symptoms []string `gorm:"serializer:json" json:"symptoms" binding:"required"`

	// Severity is one of the severity codes above.
	Severity string `gorm:"size:50" json:"severity"`

	// Specialist is the medical specialist to consult.
	Specialist string `gorm:"size:100" json:"specialist"`

	// Category is the disease category.
	Category string `gorm:"size:100" json:"category"`
}

// TableName specifies the table name for GORM
func (Disease) TableName() string {
	return "diseases"
}

// DiseaseInfo is the denormalized disease record served by the public
// API and by analysis results.
type DiseaseInfo struct {
	Description string   `json:"description"`
	Treatment   string   `json:"treatment"`
	Symptoms    []string `json:"symptoms"`
	Severity    string   `json:"severity"`
	Specialist  string   `json:"specialist"`
	Category    string   `json:"category"`
}

// Info returns the disease as a DiseaseInfo.
func (d *Disease) Info() DiseaseInfo {
	return DiseaseInfo{
		Description: d.Description,
		Treatment:   d.Treatment,
		Symptoms:    d.Symptoms,
		Severity:    d.Severity,
		Specialist:  d.Specialist,
		Category:    d.Category,
	}
}

// UnknownDiseaseInfo is the placeholder served when a disease is not in
// the knowledge base.
func UnknownDiseaseInfo(name string) DiseaseInfo {
	return DiseaseInfo{
		Description: fmt.Sprintf("Information about '%s' is being prepared by our specialists. Consult a doctor for an accurate diagnosis and treatment.", name),
		Treatment:   "Consult a qualified medical specialist for treatment. Do not self-medicate.",
		Symptoms:    []string{"Information pending"},
		Severity:    SeverityUnknown,
		Specialist:  "General practitioner",
		Category:    "Unclassified",
	}
}

// IsUnknown reports whether the info is the not-found placeholder.
func (i DiseaseInfo) IsUnknown() bool {
	return i.Category == "Unclassified" && i.Severity == SeverityUnknown
}

// Validate implements meta.ResourceValidator. TypeMeta is not checked
// here: the create/update hooks stamp it before the base validation
// runs.
func (d *Disease) Validate() error {
	if d.Name == "" {
		return errors.New("disease name is required")
	}
	if d.Description == "" {
		return errors.New("disease description is required")
	}
	if d.Treatment == "" {
		return errors.New("disease treatment is required")
	}
	if len(d.Symptoms) == 0 {
		return errors.New("disease must list at least one symptom")
	}
	if d.Severity != "" {
		if _, ok := severityDisplay[d.Severity]; !ok {
			return fmt.Errorf("unsupported severity code: %s", d.Severity)
		}
	}
	return nil
}

// BeforeCreate is a GORM hook that runs before creating a disease
func (d *Disease) BeforeCreate(tx *gorm.DB) error {
	d.Kind = "Disease"
	d.APIVersion = "v1"

	if d.Severity == "" {
		d.Severity = SeverityUnknown
	}
	if d.Specialist == "" {
		d.Specialist = "General practitioner"
	}
	if d.Category == "" {
		d.Category = "Unclassified"
	}

	d.SetStatus("Active", "Disease record created", "Created")
	return d.BaseResource.BeforeCreate(tx)
}

// BeforeUpdate is a GORM hook that runs before updating a disease
func (d *Disease) BeforeUpdate(tx *gorm.DB) error {
	d.Kind = "Disease"
	d.APIVersion = "v1"

	d.SetStatus("Active", "Disease record updated", "Updated")
	return d.BaseResource.BeforeUpdate(tx)
}

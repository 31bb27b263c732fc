package models

// DefaultSectionCapacity is used when a section is created without max_capacity
const DefaultSectionCapacity = 20

// Section defines the section model based on the 'sections' table
type Section struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description" db:"description"`
	MaxCapacity int     `json:"max_capacity" db:"max_capacity"`
	Timestamps
}

// SectionCreate holds the columns written when inserting a section
type SectionCreate struct {
	Name        string
	Description *string
	MaxCapacity int
}

// SectionUpdate holds the columns a partial section update may change.
// ClearDescription sets description to NULL and wins over Description.
type SectionUpdate struct {
	Name             *string
	Description      *string
	ClearDescription bool
	MaxCapacity      *int
}

package model

const (
	ExampleStatusActive   = "active"
	ExampleStatusInactive = "inactive"
)

type Example struct {
	Base
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description" db:"description"`
	Status      string  `json:"status" db:"status"`
}

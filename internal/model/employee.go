package model

import (
	"github.com/google/uuid"
)

type Employee struct {
	Base
	SalonID  uuid.UUID `db:"salon_id" json:"salon_id"`
	Name     string    `db:"name" json:"name"`
	Email    string    `db:"email" json:"email"`
	IsActive bool      `db:"is_active" json:"is_active"`
}

type CreateEmployeeRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

type UpdateEmployeeRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	IsActive *bool   `json:"is_active"`
}

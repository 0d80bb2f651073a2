package dto

import "time"

// Request DTOs

type HospitalRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	IsInsideMetro bool   `json:"is_inside_metro"`
	Location      string `json:"location" validate:"omitempty,max=100"`
	Address       string `json:"address" validate:"omitempty"`
	ContactNumber string `json:"contact_number" validate:"omitempty,max=20"`
	Status        string `json:"status" validate:"omitempty,oneof=available busy unavailable"`
}

type HospitalStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available busy unavailable"`
}

type SpecialtyRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty"`
}

type HospitalListQuery struct {
	Search        string
	IsInsideMetro *bool
	Location      string
}

// Response DTOs

type HospitalResponse struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	IsInsideMetro bool      `json:"is_inside_metro"`
	Region        string    `json:"region"`
	Location      string    `json:"location,omitempty"`
	Address       string    `json:"address,omitempty"`
	ContactNumber string    `json:"contact_number,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type HospitalListResponse struct {
	Hospitals []HospitalResponse `json:"hospitals"`
	Total     int                `json:"total"`
}

type SpecialtyResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type SpecialtyListResponse struct {
	Specialties []SpecialtyResponse `json:"specialties"`
	Total       int                 `json:"total"`
}

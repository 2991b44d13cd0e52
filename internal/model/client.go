package model

import "time"

// Client represents a customer company
type Client struct {
	IDClient           string    `json:"id_client" gorm:"column:id_client;primaryKey;size:36"`
	NomClient          string    `json:"nom_client" gorm:"column:nom_client;size:100;not null"`
	CodeClient         string    `json:"code_client" gorm:"column:code_client;size:20;index"`
	ICE                string    `json:"ice,omitempty" gorm:"column:ice;size:30"`
	VilleCode          string    `json:"ville_code" gorm:"column:ville_code;size:10"`
	Adresse            string    `json:"adresse,omitempty" gorm:"size:200"`
	ContactResponsable string    `json:"contact_responsable" gorm:"column:contact_responsable;size:100"`
	Telephone          string    `json:"telephone,omitempty" gorm:"size:30"`
	Email              string    `json:"email,omitempty" gorm:"size:100"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (Client) TableName() string {
	return "clients"
}

// CreateClientRequest is bound on POST /clients
type CreateClientRequest struct {
	NomClient          string `json:"nom_client" binding:"required"`
	CodeClient         string `json:"code_client"`
	ICE                string `json:"ice"`
	VilleCode          string `json:"ville_code"`
	Adresse            string `json:"adresse"`
	ContactResponsable string `json:"contact_responsable"`
	Telephone          string `json:"telephone"`
	Email              string `json:"email"`
}

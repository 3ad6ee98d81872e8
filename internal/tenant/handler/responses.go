package handler

import (
	"time"

	"a2admin/internal/tenant/models"
)

type TenantResponse struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	EmailContact   string              `json:"email_contact"`
	Phone          string              `json:"phone"`
	Address        string              `json:"address"`
	PrimaryColor   string              `json:"primary_color"`
	SecondaryColor string              `json:"secondary_color"`
	Status         models.TenantStatus `json:"status"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

type TenantDetailsResponse struct {
	*TenantResponse
	AdminCount    int `json:"admin_count"`
	SponsorCount  int `json:"sponsor_count"`
	CampaignCount int `json:"campaign_count"`
}

// Response mapping functions - convert domain objects to HTTP DTOs

func toTenantResponse(t *models.Tenant) *TenantResponse {
	return &TenantResponse{
		ID:             t.ID.String(),
		Name:           t.Name,
		EmailContact:   t.EmailContact,
		Phone:          t.Phone,
		Address:        t.Address,
		PrimaryColor:   t.PrimaryColor,
		SecondaryColor: t.SecondaryColor,
		Status:         t.Status,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func toTenantDetailsResponse(td *models.TenantDetails) *TenantDetailsResponse {
	return &TenantDetailsResponse{
		TenantResponse: toTenantResponse(td.Tenant),
		AdminCount:     td.AdminCount,
		SponsorCount:   td.SponsorCount,
		CampaignCount:  td.CampaignCount,
	}
}

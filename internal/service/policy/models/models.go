package models

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// Request модели

// UpsertPolicyRequest запрос на создание или обновление политики сборов
// Все поля сборов опциональны - обновляются только переданные значения
type UpsertPolicyRequest struct {
	UserID                int64  `json:"-"`
	FacilityID            int64  `json:"-"`
	CourtID               *int64 `json:"courtId,omitempty"` // NULL = для всех кортов объекта
	CancellationFeeBps    *int64 `json:"cancellationFeeBps,omitempty"`
	CancellationFlatFee   *int64 `json:"cancellationFlatFee,omitempty"`
	FreeCancellationHours *int   `json:"freeCancellationHours,omitempty"`
	ModificationFee       *int64 `json:"modificationFee,omitempty"`
}

// Response модели

// PolicyResponse ответ с данными политики сборов
type PolicyResponse struct {
	ID                    int64     `json:"id"`
	FacilityID            int64     `json:"facilityId"`
	CourtID               *int64    `json:"courtId,omitempty"`
	CancellationFeeBps    int64     `json:"cancellationFeeBps"`
	CancellationFlatFee   int64     `json:"cancellationFlatFee"`
	FreeCancellationHours int       `json:"freeCancellationHours"`
	ModificationFee       int64     `json:"modificationFee"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// PolicyListResponse ответ со списком политик объекта
type PolicyListResponse struct {
	Policies []PolicyResponse `json:"policies"`
}

// Методы конвертации

// FromDomainPolicy конвертирует domain модель в DTO
func FromDomainPolicy(p *domain.FacilityPolicy) *PolicyResponse {
	if p == nil {
		return nil
	}

	return &PolicyResponse{
		ID:                    p.ID,
		FacilityID:            p.FacilityID,
		CourtID:               p.CourtID,
		CancellationFeeBps:    p.CancellationFeeBps,
		CancellationFlatFee:   p.CancellationFlatFee,
		FreeCancellationHours: p.FreeCancellationHours,
		ModificationFee:       p.ModificationFee,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

// FromDomainPolicyList конвертирует список domain моделей в DTO
func FromDomainPolicyList(policies []*domain.FacilityPolicy) *PolicyListResponse {
	resp := &PolicyListResponse{
		Policies: make([]PolicyResponse, 0, len(policies)),
	}

	for _, p := range policies {
		if policyResp := FromDomainPolicy(p); policyResp != nil {
			resp.Policies = append(resp.Policies, *policyResp)
		}
	}

	return resp
}

// ApplyToPolicy применяет обновления к существующей политике
// Обновляются только непустые (not nil) поля из request
func (r *UpsertPolicyRequest) ApplyToPolicy(p *domain.FacilityPolicy) {
	if r.CancellationFeeBps != nil {
		p.CancellationFeeBps = *r.CancellationFeeBps
	}
	if r.CancellationFlatFee != nil {
		p.CancellationFlatFee = *r.CancellationFlatFee
	}
	if r.FreeCancellationHours != nil {
		p.FreeCancellationHours = *r.FreeCancellationHours
	}
	if r.ModificationFee != nil {
		p.ModificationFee = *r.ModificationFee
	}
}

package handler

import (
	"strings"
	"time"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
	"github.com/eyeclinic/clinic-system/internal/core/ports"
)

func toRegisterOptometristInput(req registerOptometristRequest) ports.RegisterInput {
	profile := domain.Profile{
		Qualification:   req.Qualification,
		Specialization:  req.Specialization,
		ExperienceYears: req.ExperienceYears,
		Bio:             req.Bio,
		ClinicAddress:   req.ClinicAddress,
		Website:         req.Website,
		OfficeHours:     req.OfficeHours,
		Languages:       req.Languages,
	}
	if license := strings.TrimSpace(req.LicenseNumber); license != "" {
		profile.LicenseNumber = &license
	}
	return ports.RegisterInput{
		PhoneNumber: req.PhoneNumber,
		Name:        req.Name,
		Password:    req.Password,
		Email:       req.Email,
		Role:        domain.RoleOptometrist,
		Profile:     profile,
	}
}

func toUserResponse(a *domain.Actor) userResponse {
	return userResponse{
		ID:          a.ID,
		Name:        a.Name,
		PhoneNumber: a.PhoneNumber,
		Email:       a.Email,
		Role:        a.Role,
	}
}

func toProfileResponse(a *domain.Actor) profileResponse {
	return profileResponse{
		ID:          a.ID,
		Name:        a.Name,
		PhoneNumber: a.PhoneNumber,
		Email:       a.Email,
		Role:        a.Role,
		IsActive:    a.IsActive,
		Profile:     a.Profile,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   a.UpdatedAt.Format(time.RFC3339),
	}
}

func toProfileResponses(actors []*domain.Actor) []profileResponse {
	out := make([]profileResponse, 0, len(actors))
	for _, a := range actors {
		out = append(out, toProfileResponse(a))
	}
	return out
}

package converter

import (
	"mediflow/internal/delivery/dto"
	"mediflow/internal/domain/entity"
)

// SaveProfileRequestToEntity converts a SaveProfileRequest DTO to a StaffProfile entity
func SaveProfileRequestToEntity(req *dto.SaveProfileRequest) *entity.StaffProfile {
	return &entity.StaffProfile{
		Name:          req.Name,
		Mobile:        req.Mobile,
		Email:         req.Email,
		Gender:        req.Gender,
		DOB:           req.DOB,
		Address:       req.Address,
		Experience:    req.Experience,
		Qualification: req.Qualification,
		IDProof:       req.IDProof,
		ProfileImage:  req.ProfileImage,
	}
}

// ProfileToResponse converts a StaffProfile entity to ProfileResponse DTO
func ProfileToResponse(profile *entity.StaffProfile) *dto.ProfileResponse {
	if profile == nil {
		return nil
	}

	return &dto.ProfileResponse{
		Name:          profile.Name,
		Mobile:        profile.Mobile,
		Email:         profile.Email,
		Gender:        profile.Gender,
		DOB:           profile.DOB,
		Address:       profile.Address,
		Experience:    profile.Experience,
		Qualification: profile.Qualification,
		IDProof:       profile.IDProof,
		ProfileImage:  profile.ProfileImage,
	}
}

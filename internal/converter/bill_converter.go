package converter

import (
	"mediflow/internal/delivery/dto"
	"mediflow/internal/domain/entity"
)

// BillToResponse converts a Bill entity to BillResponse DTO
func BillToResponse(bill *entity.Bill) *dto.BillResponse {
	if bill == nil {
		return nil
	}

	return &dto.BillResponse{
		ID:          bill.ID,
		BillNumber:  bill.BillNumber,
		PatientID:   bill.PatientID,
		PatientName: bill.PatientName,
		Mobile:      bill.Mobile,
		Address:     bill.Address,
		GSTNumber:   bill.GSTNumber,
		Amount:      bill.Amount,
		GSTRate:     bill.GSTRate,
		GSTAmount:   bill.GSTAmount,
		Total:       bill.Total,
		Description: bill.Description,
		CreatedAt:   bill.CreatedAt,
	}
}

// BillsToResponses converts a slice of Bill entities to slice of BillResponse DTOs
func BillsToResponses(bills []entity.Bill) []dto.BillResponse {
	responses := make([]dto.BillResponse, len(bills))
	for i := range bills {
		responses[i] = *BillToResponse(&bills[i])
	}
	return responses
}

package repository

import (
	"context"
	"fmt"

	"mediflow/internal/domain/entity"
	domainRepo "mediflow/internal/domain/repository"
	"mediflow/pkg/keylock"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const billNumberFormat = "BILL-%05d"

type billRepository struct {
	doc *jsonDocument[[]entity.Bill]
}

func NewBillRepository(kv domainRepo.KeyValueStore, locks *keylock.KeyLock, log *logrus.Logger) domainRepo.BillRepository {
	return &billRepository{
		doc: newJSONDocument(kv, locks, entity.KeyBills, defaultMaxRetries, log,
			func() []entity.Bill { return []entity.Bill{} }),
	}
}

// Create appends the bill and assigns the next sequential bill number
func (r *billRepository) Create(ctx context.Context, bill *entity.Bill) error {
	if bill.ID == uuid.Nil {
		bill.ID = uuid.New()
	}
	return r.doc.update(ctx, func(bills []entity.Bill) ([]entity.Bill, error) {
		bill.BillNumber = fmt.Sprintf(billNumberFormat, len(bills)+1)
		return append(bills, *bill), nil
	})
}

// FindAll pages through bills newest first and returns the total count
func (r *billRepository) FindAll(ctx context.Context, limit, offset int) ([]entity.Bill, int64, error) {
	bills, err := r.doc.load(ctx)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(bills))

	page := []entity.Bill{}
	if offset < 0 || offset >= len(bills) {
		return page, total, nil
	}
	for i := len(bills) - 1 - offset; i >= 0 && (limit <= 0 || len(page) < limit); i-- {
		page = append(page, bills[i])
	}
	return page, total, nil
}

func (r *billRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	bills, err := r.doc.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range bills {
		if bills[i].ID == id {
			return &bills[i], nil
		}
	}
	return nil, nil
}

func (r *billRepository) FindByPatientID(ctx context.Context, patientID int64) ([]entity.Bill, error) {
	bills, err := r.doc.load(ctx)
	if err != nil {
		return nil, err
	}
	result := []entity.Bill{}
	for i := len(bills) - 1; i >= 0; i-- {
		if bills[i].PatientID == patientID {
			result = append(result, bills[i])
		}
	}
	return result, nil
}

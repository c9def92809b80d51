// file: internals/features/expenses/dto/expense_dto.go
package dto

import (
	"time"

	service "iplku_backend/internals/features/expenses/service"
)

type ExpenseRequest struct {
	Description string  `json:"description"  validate:"required,max=255"`
	Amount      float64 `json:"amount"       validate:"min=0"`
	ExpenseDate string  `json:"expense_date" validate:"required,datetime=2006-01-02"`
	Category    *string `json:"category"     validate:"omitempty,max=255"`
	Notes       *string `json:"notes"        validate:"omitempty,max=1000"`
}

func (r *ExpenseRequest) ToInput() (service.ExpenseInput, error) {
	d, err := time.Parse("2006-01-02", r.ExpenseDate)
	if err != nil {
		return service.ExpenseInput{}, err
	}
	return service.ExpenseInput{
		Description: r.Description,
		Amount:      r.Amount,
		ExpenseDate: d,
		Category:    r.Category,
		Notes:       r.Notes,
	}, nil
}

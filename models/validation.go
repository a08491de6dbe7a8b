package models

import "github.com/shopspring/decimal"

// Amounts are decimal(12,2): at most 12 digits total, 2 of them fractional,
// so the absolute value must stay below 10^10. This precision bound is the
// only magnitude limit.
var amountLimit = decimal.New(1, 10)

const (
	msgAmountNotPositive   = "Сумма должна быть положительной."
	msgAmountTooPrecise    = "Убедитесь, что в числе не больше 2 знаков после запятой."
	msgAmountTooLarge      = "Убедитесь, что в числе не больше 12 знаков."
	msgCategoryMismatch    = "Категория должна соответствовать выбранному типу."
	msgSubcategoryMismatch = "Подкатегория должна соответствовать выбранной категории."
)

// ValidateOperation runs the cross-field checks on a complete candidate
// record. The reference associations (Category, Subcategory) must already be
// resolved. Every violation is collected before reporting; nothing
// short-circuits.
func ValidateOperation(op *Operation) ValidationErrors {
	var verrs ValidationErrors

	if op.Amount.LessThanOrEqual(decimal.Zero) {
		verrs.Add("amount", msgAmountNotPositive)
	} else {
		if !op.Amount.Equal(op.Amount.Round(2)) {
			verrs.Add("amount", msgAmountTooPrecise)
		}
		if op.Amount.Abs().GreaterThanOrEqual(amountLimit) {
			verrs.Add("amount", msgAmountTooLarge)
		}
	}

	if op.Category.ID != 0 && op.TypeID != 0 && op.Category.TypeID != op.TypeID {
		verrs.Add("category", msgCategoryMismatch)
	}

	if op.Subcategory.ID != 0 && op.CategoryID != 0 && op.Subcategory.CategoryID != op.CategoryID {
		verrs.Add("subcategory", msgSubcategoryMismatch)
	}

	return verrs
}

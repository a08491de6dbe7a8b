package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// Fixture hierarchy:
//
//	Пополнение (type 1): Инфраструктура (cat 1): VPS (sub 1)
//	Списание   (type 2): Маркетинг      (cat 2): Avito (sub 2)
func fixtureOperation() Operation {
	typeIn := OperationType{ID: 1, Name: "Пополнение"}
	catInf := Category{ID: 1, Name: "Инфраструктура", TypeID: 1, Type: typeIn}
	subVPS := Subcategory{ID: 1, Name: "VPS", CategoryID: 1, Category: catInf}

	return Operation{
		Date:          time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		StatusID:      1,
		Status:        OperationStatus{ID: 1, Name: "Бизнес"},
		TypeID:        1,
		Type:          typeIn,
		CategoryID:    1,
		Category:      catInf,
		SubcategoryID: 1,
		Subcategory:   subVPS,
		Amount:        decimal.NewFromInt(1000),
	}
}

func TestValidateOperation(t *testing.T) {
	catMkt := Category{ID: 2, Name: "Маркетинг", TypeID: 2, Type: OperationType{ID: 2, Name: "Списание"}}
	subAvito := Subcategory{ID: 2, Name: "Avito", CategoryID: 2, Category: catMkt}

	testCases := []struct {
		name           string
		mutate         func(op *Operation)
		expectedFields []string
	}{
		{
			name:           "Valid operation",
			mutate:         func(op *Operation) {},
			expectedFields: nil,
		},
		{
			name: "Zero amount",
			mutate: func(op *Operation) {
				op.Amount = decimal.Zero
			},
			expectedFields: []string{"amount"},
		},
		{
			name: "Negative amount",
			mutate: func(op *Operation) {
				op.Amount = decimal.NewFromInt(-1)
			},
			expectedFields: []string{"amount"},
		},
		{
			name: "More than two fractional digits",
			mutate: func(op *Operation) {
				op.Amount = decimal.RequireFromString("10.555")
			},
			expectedFields: []string{"amount"},
		},
		{
			name: "More than twelve digits total",
			mutate: func(op *Operation) {
				op.Amount = decimal.RequireFromString("10000000000.00")
			},
			expectedFields: []string{"amount"},
		},
		{
			name: "Largest representable amount is accepted",
			mutate: func(op *Operation) {
				op.Amount = decimal.RequireFromString("9999999999.99")
			},
			expectedFields: nil,
		},
		{
			name: "Category of a different type",
			mutate: func(op *Operation) {
				op.CategoryID = catMkt.ID
				op.Category = catMkt
				op.SubcategoryID = subAvito.ID
				op.Subcategory = subAvito
			},
			expectedFields: []string{"category"},
		},
		{
			name: "Subcategory of a different category",
			mutate: func(op *Operation) {
				op.SubcategoryID = subAvito.ID
				op.Subcategory = subAvito
			},
			expectedFields: []string{"subcategory"},
		},
		{
			name: "All violations are collected, not just the first",
			mutate: func(op *Operation) {
				op.Amount = decimal.Zero
				op.CategoryID = catMkt.ID
				op.Category = catMkt
				op.Subcategory = Subcategory{ID: 1, Name: "VPS", CategoryID: 1}
				op.SubcategoryID = 1
			},
			expectedFields: []string{"amount", "category", "subcategory"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			op := fixtureOperation()
			tc.mutate(&op)

			verrs := ValidateOperation(&op)

			var fields []string
			for _, fe := range verrs {
				fields = append(fields, fe.Field)
			}
			assert.Equal(t, tc.expectedFields, fields)
		})
	}
}

func TestValidationErrorsFields(t *testing.T) {
	var verrs ValidationErrors
	verrs.Add("amount", "Сумма должна быть положительной.")
	verrs.Add("amount", "Убедитесь, что в числе не больше 12 знаков.")
	verrs.Add("category", "Категория должна соответствовать выбранному типу.")

	fields := verrs.Fields()
	assert.Len(t, fields, 2)
	assert.Len(t, fields["amount"], 2)
	assert.Equal(t, []string{"Категория должна соответствовать выбранному типу."}, fields["category"])
	assert.Contains(t, verrs.Error(), "amount")
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Operation is a single cash-flow record. It references one entry of each
// dictionary level and must respect the type to category to subcategory
// hierarchy (see ValidateOperation).
type Operation struct {
	ID            uint            `gorm:"primaryKey"`
	Date          time.Time       `gorm:"type:date;not null"`
	StatusID      uint            `gorm:"not null"`
	Status        OperationStatus `gorm:"foreignKey:StatusID"`
	TypeID        uint            `gorm:"not null"`
	Type          OperationType   `gorm:"foreignKey:TypeID"`
	CategoryID    uint            `gorm:"not null"`
	Category      Category        `gorm:"foreignKey:CategoryID"`
	SubcategoryID uint            `gorm:"not null"`
	Subcategory   Subcategory     `gorm:"foreignKey:SubcategoryID"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Comment       string          `gorm:"type:text;not null;default:''"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Operation) TableName() string {
	return "operations"
}

// OperationInput carries the writable fields of an operation. Nil means "not
// supplied": on create the field falls back to its default (today's date,
// empty comment) or fails validation; on update the stored value is kept.
type OperationInput struct {
	Date          *time.Time
	StatusID      *uint
	TypeID        *uint
	CategoryID    *uint
	SubcategoryID *uint
	Amount        *decimal.Decimal
	Comment       *string
}

// Apply overlays the supplied fields onto op, producing the full candidate
// record that validation inspects.
func (in OperationInput) Apply(op *Operation) {
	if in.Date != nil {
		op.Date = *in.Date
	}
	if in.StatusID != nil {
		op.StatusID = *in.StatusID
	}
	if in.TypeID != nil {
		op.TypeID = *in.TypeID
	}
	if in.CategoryID != nil {
		op.CategoryID = *in.CategoryID
	}
	if in.SubcategoryID != nil {
		op.SubcategoryID = *in.SubcategoryID
	}
	if in.Amount != nil {
		op.Amount = *in.Amount
	}
	if in.Comment != nil {
		op.Comment = *in.Comment
	}
}

package models

// OperationStatus is a flat dictionary entry: the business context of a
// record (e.g. "Бизнес", "Личное", "Налог").
type OperationStatus struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:64;uniqueIndex;not null"`
}

func (OperationStatus) TableName() string {
	return "operation_statuses"
}

// OperationType is a flat dictionary entry: the direction of a record
// (e.g. "Пополнение", "Списание").
type OperationType struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:64;uniqueIndex;not null"`
}

func (OperationType) TableName() string {
	return "operation_types"
}

// DictionaryEntry is the common row shape both dictionaries share. The
// dictionary repository works through this type so statuses and types do not
// need separate implementations.
type DictionaryEntry struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

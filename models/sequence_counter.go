package models

import "time"

// CounterOrderNumber is the name of the singleton counter backing
// maintenance-request order numbers.
const CounterOrderNumber = "orderNumber"

// OrderNumberStart is the first order number ever handed out. Customer-facing
// order codes begin at 100 rather than 1.
const OrderNumberStart = 100

// SequenceCounter stores the last value for named monotonic counters.
type SequenceCounter struct {
	Name      string    `gorm:"primaryKey;size:64" json:"name"`
	LastValue int64     `gorm:"not null" json:"last_value"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (SequenceCounter) TableName() string { return "sequence_counters" }

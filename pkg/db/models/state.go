package models

// StateEntry is one named cursor: a per-task watermark, the round-robin
// pointer, or a monthly counter. Values are stored as text; counters are
// string-encoded integers.
type StateEntry struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value;not null"`
}

// TableName specifies the table name for the StateEntry model
func (StateEntry) TableName() string {
	return "collection_state"
}

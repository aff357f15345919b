package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Registration is one phone number's opt-in record. Rows are never deleted;
// opting out only clears the flag so history survives and the number cannot
// be re-registered.
type Registration struct {
	ID              string    `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	FullName        string    `gorm:"column:full_name;not null" json:"full_name"`
	CallSign        string    `gorm:"column:call_sign;not null" json:"call_sign"`
	PhoneNumber     string    `gorm:"column:phone_number;not null" json:"phone_number"`
	PhoneNormalized string    `gorm:"column:phone_normalized;uniqueIndex;not null" json:"phone_normalized"`
	OptedIn         bool      `gorm:"column:opted_in;default:false" json:"opted_in"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	IPAddress       *string   `gorm:"column:ip_address" json:"ip_address,omitempty"`
	UserAgent       *string   `gorm:"column:user_agent" json:"user_agent,omitempty"`
}

// TableName specifies the table name for GORM
func (Registration) TableName() string {
	return "registrations"
}

// BeforeCreate assigns the id client-side so the model works on both
// Postgres and the sqlite test databases.
func (r *Registration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// InquiryStatus tracks the back-office workflow state of a teamwear inquiry.
type InquiryStatus string

const (
	InquiryPending    InquiryStatus = "pending"
	InquiryInProgress InquiryStatus = "in-progress"
	InquiryCompleted  InquiryStatus = "completed"
	InquiryCancelled  InquiryStatus = "cancelled"
)

// ValidInquiryStatus reports whether s is a known inquiry status.
func ValidInquiryStatus(s InquiryStatus) bool {
	switch s {
	case InquiryPending, InquiryInProgress, InquiryCompleted, InquiryCancelled:
		return true
	}
	return false
}

// MaxDesignFiles caps the attachments accepted per inquiry.
const MaxDesignFiles = 5

// DesignFile is an uploaded design attachment (data URL).
type DesignFile struct {
	File     string `json:"file"`
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
}

// TeamwearInquiry is a custom teamwear request submitted from the storefront.
type TeamwearInquiry struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	FirstName   string        `json:"firstName" db:"first_name"`
	LastName    string        `json:"lastName" db:"last_name"`
	PhoneNumber string        `json:"phoneNumber" db:"phone_number"`
	Email       string        `json:"email" db:"email"`
	Description string        `json:"description" db:"description"`
	DesignFiles []DesignFile  `json:"designFiles,omitempty" db:"design_files"`
	Status      InquiryStatus `json:"status" db:"status"`
	Notes       *string       `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time     `json:"updatedAt" db:"updated_at"`
}

// InquiryUpdate carries the admin-editable inquiry fields.
type InquiryUpdate struct {
	Status InquiryStatus `json:"status"`
	Notes  *string       `json:"notes,omitempty"`
}

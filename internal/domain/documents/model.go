package documents

import "time"

const (
	PlaybookSlug  = "reluctant-seller-playbook"
	PlaybookTitle = "The Reluctant Seller Playbook"
	PlaybookPath  = "private-assets/The_Reluctant_Seller.pdf"
)

type Document struct {
	ID            string `gorm:"primaryKey"`
	Slug          string `gorm:"size:120;not null;uniqueIndex:idx_documents_slug"`
	Title         string `gorm:"size:255;not null"`
	FilePath      string `gorm:"not null"`
	MimeType      string `gorm:"size:128;not null;default:'application/pdf'"`
	FileSizeBytes *int
	IsPaywalled   bool `gorm:"not null;default:true"`
	IsActive      bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AccessLog rows are append-only; nothing in the application updates or
// deletes them.
type AccessLog struct {
	ID         string  `gorm:"primaryKey"`
	UserID     *string `gorm:"index"`
	DocumentID *string `gorm:"index"`
	IPAddress  string  `gorm:"size:128"`
	UserAgent  string
	CreatedAt  time.Time
}

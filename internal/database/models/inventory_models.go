package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Store struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"size:255;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Folders []Folder `gorm:"foreignKey:StoreID"`
}

type Folder struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"size:255;not null"`
	StoreID   string `gorm:"size:36;index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Store    *Store    `gorm:"foreignKey:StoreID"`
	Products []Product `gorm:"foreignKey:FolderID"`
}

type Product struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"size:255;not null"`
	Quantity  int32  `gorm:"not null"`
	FolderID  string `gorm:"size:36;index;not null"`
	ImageURL  *string
	Source    string `gorm:"size:255;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Folder *Folder `gorm:"foreignKey:FolderID"`
}

// SaleRecord is an append-only historical fact. It keeps referencing the
// product id after the product is deleted, so no DB-level foreign key is
// declared for it.
type SaleRecord struct {
	ID           string `gorm:"primaryKey;size:36"`
	CustomerName string `gorm:"size:255;not null"`
	ProductID    string `gorm:"size:36;index;not null"`
	Quantity     int32  `gorm:"not null"`
	SoldAt       time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (s *Store) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func (f *Folder) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (r *SaleRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Note is the record shape kept in the "notes" collection. Besides the
// domain fields it carries the owner and the store-assigned timestamps.
type Note struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title     string         `gorm:"type:varchar(255);not null"`
	Body      string         `gorm:"type:text"`
	Tag       string         `gorm:"type:varchar(50)"`
	Date      datatypes.Date `gorm:"type:date"`
	UserId    string         `gorm:"type:varchar(128);not null;index"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (Note) TableName() string {
	return "notes"
}

// HasDate reports whether the stored calendar day is set.
func (n *Note) HasDate() bool {
	return !time.Time(n.Date).IsZero()
}

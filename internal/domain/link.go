package domain

import "time"

// Link is the single persistent entity: a short code mapped to its target URL.
// Soft-deleted links keep their row so the code can never be allocated again.
type Link struct {
	Code        string     `gorm:"primaryKey;column:code;size:32" json:"code"`
	URL         string     `gorm:"column:url;type:text;not null" json:"url"`
	Clicks      int64      `gorm:"column:clicks;not null;default:0" json:"clicks"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	LastClicked *time.Time `gorm:"column:last_clicked" json:"last_clicked,omitempty"`
	Deleted     bool       `gorm:"column:deleted;not null;default:false" json:"-"`
}

// TableName returns the table name used by GORM.
func (Link) TableName() string {
	return "links"
}

package models

import "time"

// Post represents a top-level question in a channel. A post may carry a
// reference into the screenshot blob store; the reference is a weak one and
// resolves to a null screenshot when the blob is gone.
type Post struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ChannelID    uint      `gorm:"not null;index" json:"channel_id"`
	Channel      Channel   `gorm:"foreignKey:ChannelID;constraint:OnDelete:CASCADE" json:"-"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	User         User      `gorm:"foreignKey:UserID" json:"-"`
	Title        string    `gorm:"not null" json:"title"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	ScreenshotID *string   `gorm:"index" json:"screenshot_id"`
	CreatedAt    time.Time `json:"created_at"`

	// Author is the author's display name; not persisted, joined at query time
	Author string `gorm:"->;-:migration" json:"author"`
	// ReplyCount is not persisted; computed at query time
	ReplyCount int64 `gorm:"->;-:migration" json:"reply_count"`
	// Screenshot holds the base64 payload hydrated from the blob store
	Screenshot *string `gorm:"-" json:"screenshot"`
	// Replies is the assembled reply forest on detail views
	Replies []*Reply `gorm:"-" json:"replies,omitempty"`
}

package models

import "time"

// Reply represents one node in a post's reply forest. Every reply carries
// the root post id regardless of nesting depth; ParentReplyID is nil for a
// top-level reply and otherwise references another reply of the same post.
type Reply struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PostID        uint      `gorm:"not null;index" json:"post_id"`
	Post          Post      `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	User          User      `gorm:"foreignKey:UserID" json:"-"`
	ParentReplyID *uint     `gorm:"index" json:"parent_reply_id"`
	Parent        *Reply    `gorm:"foreignKey:ParentReplyID;constraint:OnDelete:CASCADE" json:"-"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	ScreenshotID  *string   `gorm:"index" json:"screenshot_id"`
	CreatedAt     time.Time `json:"created_at"`

	// Author is the author's display name; not persisted, joined at query time
	Author string `gorm:"->;-:migration" json:"author"`
	// Level is the depth below the recursion root; only set by the tree fetch
	Level int `gorm:"->;-:migration" json:"level"`
	// Screenshot holds the base64 payload hydrated from the blob store
	Screenshot *string `gorm:"-" json:"screenshot"`
	// Replies are the children once the flat tree fetch has been re-nested
	Replies []*Reply `gorm:"-" json:"replies"`
}

/* Copyright 2025 Bindery Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"time"
)

// Model is the base model definition
type Model struct {
	ID        int       `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// User is a model for a user
type User struct {
	Model
	UUID        string     `json:"uuid" gorm:"type:text;index"`
	Name        string     `json:"name"`
	Email       NullString `gorm:"index"`
	Password    NullString `json:"-"`
	LastLoginAt *time.Time `json:"-"`
}

// Session represents a user session
type Session struct {
	Model
	UserID     int    `gorm:"index"`
	Key        string `gorm:"index"`
	LastUsedAt time.Time
	ExpiresAt  time.Time
}

// Contact links a user to another user they collaborate with
type Contact struct {
	Model
	UserID    int `gorm:"index"`
	ContactID int `gorm:"index"`
}

// UserInvite is an invitation to a person that has not registered yet.
// An invite can hold access rights in place of the future user. Once the
// invite is applied and bound to a registered user, deleting it hands its
// rights over to that user.
type UserInvite struct {
	Model
	UUID     string `json:"uuid" gorm:"uniqueIndex;type:text"`
	SenderID int    `json:"sender_id" gorm:"index"`
	Username string `json:"username"`
	Email    string `json:"email" gorm:"index"`
	ToUserID *int   `json:"-" gorm:"index"`
	Applied  bool   `json:"-" gorm:"default:false"`
}

// Document is a text document managed by the external document engine.
// Only the fields the book core reads are modeled here.
type Document struct {
	Model
	OwnerID   int    `json:"owner_id" gorm:"index"`
	Title     string `json:"title"`
	UpdatedOn int64  `json:"updated_on"`
}

// DocumentAccessRight grants a holder access to a document
type DocumentAccessRight struct {
	Model
	DocumentID int    `gorm:"index"`
	HolderType string `gorm:"index"`
	HolderID   int    `gorm:"index"`
	Rights     string
}

// Image is an image in the external media store
type Image struct {
	Model
	UUID         string     `json:"uuid" gorm:"uniqueIndex;type:text"`
	Checksum     string     `json:"checksum"`
	FileType     string     `json:"file_type"`
	URL          string     `json:"image"`
	ThumbnailURL NullString `json:"thumbnail"`
	Width        int        `json:"width"`
	Height       int        `json:"height"`
}

// UserImage is a claim an image holds in a user's media library
type UserImage struct {
	Model
	UserID  int `gorm:"index"`
	ImageID int `gorm:"index"`
}

// Book is a model for a book
type Book struct {
	Model
	UUID         string `json:"uuid" gorm:"uniqueIndex;type:text"`
	OwnerID      int    `json:"owner_id" gorm:"index"`
	Title        string `json:"title"`
	Metadata     string `json:"metadata" gorm:"default:'{}'"`
	Settings     string `json:"settings" gorm:"default:'{}'"`
	CoverImageID *int   `json:"cover_image_id" gorm:"index"`
	Path         string `json:"path" gorm:"index"`
	AddedOn      int64  `json:"added_on"`
	UpdatedOn    int64  `json:"updated_on"`
}

// Chapter places a document into a book. A book's chapters are always
// replaced as a whole set, never mutated individually.
type Chapter struct {
	Model
	BookID     int    `gorm:"index"`
	DocumentID int    `gorm:"index"`
	Number     int    `gorm:"index"`
	Part       string `gorm:"default:''"`
}

// BookAccessRight grants a holder access to a book. Holders are either
// registered users or pending invites, identified by (holder_type,
// holder_id). At most one row exists per (book, holder) pair; the unique
// index lives in a SQL migration. The book owner's write access is implicit
// and never stored as a row.
type BookAccessRight struct {
	Model
	BookID     int    `gorm:"index"`
	HolderType string `gorm:"index"`
	HolderID   int    `gorm:"index"`
	Rights     string
	// Path is the holder's own view of where the book sits in their
	// hierarchy, independent of the owner's path.
	Path string
}

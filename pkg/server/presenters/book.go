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

package presenters

import (
	"encoding/json"

	"github.com/bindery/bindery/pkg/server/app"
	"github.com/bindery/bindery/pkg/server/database"
)

// BookChapter is a chapter position within a book
type BookChapter struct {
	Document int    `json:"document"`
	Number   int    `json:"number"`
	Part     string `json:"part"`
	Title    string `json:"title"`
}

// Image is a cover image
type Image struct {
	UUID         string `json:"uuid"`
	Checksum     string `json:"checksum"`
	FileType     string `json:"file_type"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
}

// Book is a book annotated with the viewer's rights
type Book struct {
	UUID       string          `json:"uuid"`
	Title      string          `json:"title"`
	Path       string          `json:"path"`
	IsOwner    bool            `json:"is_owner"`
	Owner      Holder          `json:"owner"`
	AddedOn    int64           `json:"added"`
	UpdatedOn  int64           `json:"updated"`
	Rights     string          `json:"rights"`
	Chapters   []BookChapter   `json:"chapters"`
	Metadata   json.RawMessage `json:"metadata"`
	Settings   json.RawMessage `json:"settings"`
	CoverImage *Image          `json:"cover_image,omitempty"`
}

// PresentBook presents a book
func PresentBook(info app.BookInfo) Book {
	chapters := []BookChapter{}
	for _, chapter := range info.Chapters {
		chapters = append(chapters, BookChapter{
			Document: chapter.DocumentID,
			Number:   chapter.Number,
			Part:     chapter.Part,
			Title:    chapter.Title,
		})
	}

	ret := Book{
		UUID:      info.Book.UUID,
		Title:     info.Book.Title,
		Path:      info.Path,
		IsOwner:   info.IsOwner,
		Owner:     PresentHolder(info.Owner),
		AddedOn:   info.Book.AddedOn,
		UpdatedOn: info.UpdatedOn,
		Rights:    info.Rights,
		Chapters:  chapters,
		Metadata:  FormatBlob(info.Book.Metadata),
		Settings:  FormatBlob(info.Book.Settings),
	}

	if info.CoverImage != nil {
		ret.CoverImage = presentImage(*info.CoverImage)
	}

	return ret
}

// PresentBooks presents books
func PresentBooks(infos []app.BookInfo) []Book {
	ret := []Book{}

	for _, info := range infos {
		ret = append(ret, PresentBook(info))
	}

	return ret
}

func presentImage(image database.Image) *Image {
	return &Image{
		UUID:         image.UUID,
		Checksum:     image.Checksum,
		FileType:     image.FileType,
		URL:          image.URL,
		ThumbnailURL: image.ThumbnailURL.String,
		Width:        image.Width,
		Height:       image.Height,
	}
}

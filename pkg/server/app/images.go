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

package app

import (
	"github.com/bindery/bindery/pkg/server/database"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// isImageDeletable reports whether nothing references the image anymore.
// Callers check this after detaching their own reference.
func isImageDeletable(tx *gorm.DB, imageID int) (bool, error) {
	var userImageCount int64
	err := tx.Model(&database.UserImage{}).Where("image_id = ?", imageID).Count(&userImageCount).Error
	if err != nil {
		return false, errors.Wrap(err, "counting user images")
	}
	if userImageCount > 0 {
		return false, nil
	}

	var bookCount int64
	err = tx.Model(&database.Book{}).Where("cover_image_id = ?", imageID).Count(&bookCount).Error
	if err != nil {
		return false, errors.Wrap(err, "counting book covers")
	}
	if bookCount > 0 {
		return false, nil
	}

	return true, nil
}

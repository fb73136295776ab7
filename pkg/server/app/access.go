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

// ensureMinReadAccess guarantees that every given holder holds at least a read
// access right on every given document. Existing document rights are never
// modified, so a holder already granted write keeps it.
func ensureMinReadAccess(tx *gorm.DB, documentIDs []int, holders []holderRef) error {
	for _, documentID := range documentIDs {
		for _, holder := range holders {
			var count int64
			err := tx.Model(&database.DocumentAccessRight{}).
				Where("document_id = ? AND holder_type = ? AND holder_id = ?", documentID, holder.holderType, holder.holderID).
				Count(&count).Error
			if err != nil {
				return errors.Wrap(err, "counting document access rights")
			}
			if count > 0 {
				continue
			}

			right := database.DocumentAccessRight{
				DocumentID: documentID,
				HolderType: holder.holderType,
				HolderID:   holder.holderID,
				Rights:     database.RightsRead,
			}
			if err := tx.Create(&right).Error; err != nil {
				return errors.Wrap(err, "inserting document access right")
			}
		}
	}

	return nil
}

// ownedDocumentIDs filters the given document ids down to those owned by the
// given user
func ownedDocumentIDs(tx *gorm.DB, userID int, documentIDs []int) ([]int, error) {
	if len(documentIDs) == 0 {
		return nil, nil
	}

	var ids []int
	err := tx.Model(&database.Document{}).
		Where("owner_id = ? AND id IN (?)", userID, documentIDs).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "finding owned documents")
	}

	return ids, nil
}

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

// Package permissions provides derived access checks for books. The owner's
// write access is implicit and never stored as an access-right row, so every
// check is "owner or ledger row".
package permissions

import (
	"github.com/bindery/bindery/pkg/server/database"
)

// OwnsBook checks if the given user owns the given book
func OwnsBook(user *database.User, book database.Book) bool {
	if user == nil {
		return false
	}
	if book.OwnerID == 0 {
		return false
	}

	return book.OwnerID == user.ID
}

// ViewBook checks if the given user can view the given book. The access
// right, if any, is the user's ledger row for the book.
func ViewBook(user *database.User, book database.Book, right *database.BookAccessRight) bool {
	if OwnsBook(user, book) {
		return true
	}

	return right != nil
}

// WriteBook checks if the given user can modify the given book
func WriteBook(user *database.User, book database.Book, right *database.BookAccessRight) bool {
	if OwnsBook(user, book) {
		return true
	}

	return right != nil && right.Rights == database.RightsWrite
}

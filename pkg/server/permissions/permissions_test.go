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

package permissions

import (
	"testing"

	"github.com/bindery/bindery/pkg/assert"
	"github.com/bindery/bindery/pkg/server/database"
)

func TestViewBook(t *testing.T) {
	owner := database.User{Model: database.Model{ID: 1}}
	holder := database.User{Model: database.Model{ID: 2}}
	stranger := database.User{Model: database.Model{ID: 3}}

	book := database.Book{Model: database.Model{ID: 10}, OwnerID: owner.ID}
	readRight := database.BookAccessRight{
		BookID:     book.ID,
		HolderType: database.HolderTypeUser,
		HolderID:   holder.ID,
		Rights:     database.RightsRead,
	}

	assert.Equal(t, ViewBook(&owner, book, nil), true, "owner should view")
	assert.Equal(t, ViewBook(&holder, book, &readRight), true, "holder should view")
	assert.Equal(t, ViewBook(&stranger, book, nil), false, "stranger should not view")
	assert.Equal(t, ViewBook(nil, book, nil), false, "nil user should not view")
}

func TestWriteBook(t *testing.T) {
	owner := database.User{Model: database.Model{ID: 1}}
	holder := database.User{Model: database.Model{ID: 2}}

	book := database.Book{Model: database.Model{ID: 10}, OwnerID: owner.ID}
	readRight := database.BookAccessRight{
		BookID:     book.ID,
		HolderType: database.HolderTypeUser,
		HolderID:   holder.ID,
		Rights:     database.RightsRead,
	}
	writeRight := database.BookAccessRight{
		BookID:     book.ID,
		HolderType: database.HolderTypeUser,
		HolderID:   holder.ID,
		Rights:     database.RightsWrite,
	}

	assert.Equal(t, WriteBook(&owner, book, nil), true, "owner should write")
	assert.Equal(t, WriteBook(&holder, book, &readRight), false, "read holder should not write")
	assert.Equal(t, WriteBook(&holder, book, &writeRight), true, "write holder should write")
	assert.Equal(t, WriteBook(&holder, book, nil), false, "holder without right should not write")
}

func TestOwnsBook(t *testing.T) {
	owner := database.User{Model: database.Model{ID: 1}}
	other := database.User{Model: database.Model{ID: 2}}

	book := database.Book{Model: database.Model{ID: 10}, OwnerID: owner.ID}

	assert.Equal(t, OwnsBook(&owner, book), true, "owner check")
	assert.Equal(t, OwnsBook(&other, book), false, "non-owner check")
	assert.Equal(t, OwnsBook(nil, book), false, "nil user check")
	assert.Equal(t, OwnsBook(&owner, database.Book{}), false, "zero book check")
}

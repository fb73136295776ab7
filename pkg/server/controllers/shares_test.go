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

package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/bindery/bindery/pkg/assert"
	"github.com/bindery/bindery/pkg/server/app"
	"github.com/bindery/bindery/pkg/server/database"
	"github.com/bindery/bindery/pkg/server/presenters"
	"github.com/bindery/bindery/pkg/server/testutils"
	"github.com/pkg/errors"
)

func TestSaveAccessRights(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	// Setup
	a := app.NewTest(db)
	server := MustNewServer(t, &a)
	defer server.Close()

	owner := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	collaborator := testutils.SetupUserData(db, "bob@example.com", "pass1234")

	book := database.Book{
		UUID:    testutils.MustUUID(t),
		OwnerID: owner.ID,
		Title:   "Novel",
		Path:    "/Drafts/Novel",
	}
	testutils.MustExec(t, db.Save(&book), "preparing book")

	// Execute
	data := fmt.Sprintf(`{
		"books": [%q],
		"access_rights": [
			{"holder": {"id": %d, "type": "user"}, "rights": "write"}
		]
	}`, book.UUID, collaborator.ID)
	req := testutils.MakeReq(server.URL, "POST", "/api/v3/books/access_rights", data)
	res := testutils.HTTPAuthDo(t, db, req, owner)

	// Test
	assert.StatusCodeEquals(t, res, http.StatusCreated, "")

	var right database.BookAccessRight
	testutils.MustExec(t, db.Where("book_id = ?", book.ID).First(&right), "finding right")

	assert.Equal(t, right.HolderType, "user", "holder type mismatch")
	assert.Equal(t, right.HolderID, collaborator.ID, "holder id mismatch")
	assert.Equal(t, right.Rights, "write", "rights mismatch")
	assert.Equal(t, right.Path, "/Novel", "path should be seeded from the final segment")
}

func TestSaveAccessRights_NotOwner(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	// Setup
	a := app.NewTest(db)
	server := MustNewServer(t, &a)
	defer server.Close()

	owner := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	stranger := testutils.SetupUserData(db, "bob@example.com", "pass1234")

	book := database.Book{
		UUID:    testutils.MustUUID(t),
		OwnerID: owner.ID,
		Title:   "Novel",
		Path:    "/Novel",
	}
	testutils.MustExec(t, db.Save(&book), "preparing book")

	// Execute
	data := fmt.Sprintf(`{
		"books": [%q],
		"access_rights": [
			{"holder": {"id": %d, "type": "user"}, "rights": "write"}
		]
	}`, book.UUID, stranger.ID)
	req := testutils.MakeReq(server.URL, "POST", "/api/v3/books/access_rights", data)
	res := testutils.HTTPAuthDo(t, db, req, stranger)

	// Test. Books the user does not own are skipped, not rejected.
	assert.StatusCodeEquals(t, res, http.StatusCreated, "")

	var count int64
	testutils.MustExec(t, db.Model(&database.BookAccessRight{}).Count(&count), "counting rights")
	assert.Equal(t, count, int64(0), "right count mismatch")
}

func TestSaveAccessRights_InvalidRights(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	// Setup
	a := app.NewTest(db)
	server := MustNewServer(t, &a)
	defer server.Close()

	owner := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	collaborator := testutils.SetupUserData(db, "bob@example.com", "pass1234")

	book := database.Book{
		UUID:    testutils.MustUUID(t),
		OwnerID: owner.ID,
		Title:   "Novel",
		Path:    "/Novel",
	}
	testutils.MustExec(t, db.Save(&book), "preparing book")

	// Execute. Only read, write and delete are valid rights.
	data := fmt.Sprintf(`{
		"books": [%q],
		"access_rights": [
			{"holder": {"id": %d, "type": "user"}, "rights": "admin"}
		]
	}`, book.UUID, collaborator.ID)
	req := testutils.MakeReq(server.URL, "POST", "/api/v3/books/access_rights", data)
	res := testutils.HTTPAuthDo(t, db, req, owner)

	// Test
	assert.StatusCodeEquals(t, res, http.StatusBadRequest, "")

	var count int64
	testutils.MustExec(t, db.Model(&database.BookAccessRight{}).Count(&count), "counting rights")
	assert.Equal(t, count, int64(0), "right count mismatch")
}

func TestGetAccessRights(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	// Setup
	a := app.NewTest(db)
	server := MustNewServer(t, &a)
	defer server.Close()

	owner := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	collaborator := testutils.SetupUserData(db, "bob@example.com", "pass1234")

	b1 := database.Book{
		UUID:    testutils.MustUUID(t),
		OwnerID: owner.ID,
		Title:   "Novel",
		Path:    "/Novel",
	}
	testutils.MustExec(t, db.Save(&b1), "preparing b1")
	b2 := database.Book{
		UUID:    testutils.MustUUID(t),
		OwnerID: owner.ID,
		Title:   "Thesis",
		Path:    "/Thesis",
	}
	testutils.MustExec(t, db.Save(&b2), "preparing b2")

	r1 := database.BookAccessRight{
		BookID:     b1.ID,
		HolderType: "user",
		HolderID:   collaborator.ID,
		Rights:     "read",
		Path:       "/Novel",
	}
	testutils.MustExec(t, db.Save(&r1), "preparing r1")
	r2 := database.BookAccessRight{
		BookID:     b2.ID,
		HolderType: "user",
		HolderID:   collaborator.ID,
		Rights:     "write",
		Path:       "/Thesis",
	}
	testutils.MustExec(t, db.Save(&r2), "preparing r2")

	// Execute. Restrict the listing to the first book.
	endpoint := fmt.Sprintf("/api/v3/books/access_rights?book=%s", b1.UUID)
	req := testutils.MakeReq(server.URL, "GET", endpoint, "")
	res := testutils.HTTPAuthDo(t, db, req, owner)

	// Test
	assert.StatusCodeEquals(t, res, http.StatusOK, "")

	var payload struct {
		AccessRights []presenters.AccessRight `json:"access_rights"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatal(errors.Wrap(err, "decoding payload"))
	}

	assert.Equal(t, len(payload.AccessRights), 1, "access right count mismatch")
	assert.Equal(t, payload.AccessRights[0].BookUUID, b1.UUID, "book mismatch")
	assert.Equal(t, payload.AccessRights[0].Rights, "read", "rights mismatch")
	assert.Equal(t, payload.AccessRights[0].Holder.ID, collaborator.ID, "holder mismatch")
}

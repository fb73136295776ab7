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

func TestCreateInvite(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	// Setup
	a := app.NewTest(db)
	server := MustNewServer(t, &a)
	defer server.Close()

	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

	// Execute
	data := `{"username": "carol", "email": "carol@example.com"}`
	req := testutils.MakeReq(server.URL, "POST", "/api/v3/invites", data)
	res := testutils.HTTPAuthDo(t, db, req, user)

	// Test
	assert.StatusCodeEquals(t, res, http.StatusCreated, "")

	var payload presenters.Invite
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatal(errors.Wrap(err, "decoding payload"))
	}
	assert.NotEqual(t, payload.UUID, "", "uuid should not be empty")

	var inviteRecord database.UserInvite
	testutils.MustExec(t, db.Where("uuid = ?", payload.UUID).First(&inviteRecord), "finding invite")
	assert.Equal(t, inviteRecord.SenderID, user.ID, "sender mismatch")
	assert.Equal(t, inviteRecord.Email, "carol@example.com", "email mismatch")
}

func TestCreateInvite_MissingEmail(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	// Setup
	a := app.NewTest(db)
	server := MustNewServer(t, &a)
	defer server.Close()

	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

	// Execute
	req := testutils.MakeReq(server.URL, "POST", "/api/v3/invites", `{"username": "carol"}`)
	res := testutils.HTTPAuthDo(t, db, req, user)

	// Test
	assert.StatusCodeEquals(t, res, http.StatusBadRequest, "")
}

func TestApplyInvite(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	// Setup
	a := app.NewTest(db)
	server := MustNewServer(t, &a)
	defer server.Close()

	sender := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	joiner := testutils.SetupUserData(db, "carol@example.com", "pass1234")

	book := database.Book{
		UUID:    testutils.MustUUID(t),
		OwnerID: sender.ID,
		Title:   "Novel",
		Path:    "/Novel",
	}
	testutils.MustExec(t, db.Save(&book), "preparing book")

	invite := database.UserInvite{
		UUID:     testutils.MustUUID(t),
		SenderID: sender.ID,
		Username: "carol",
		Email:    "carol@example.com",
	}
	testutils.MustExec(t, db.Save(&invite), "preparing invite")
	right := database.BookAccessRight{
		BookID:     book.ID,
		HolderType: "invite",
		HolderID:   invite.ID,
		Rights:     "write",
		Path:       "/Novel",
	}
	testutils.MustExec(t, db.Save(&right), "preparing right")

	// Execute
	endpoint := fmt.Sprintf("/api/v3/invites/%s/apply", invite.UUID)
	req := testutils.MakeReq(server.URL, "POST", endpoint, "")
	res := testutils.HTTPAuthDo(t, db, req, joiner)

	// Test
	assert.StatusCodeEquals(t, res, http.StatusNoContent, "")

	var inviteCount int64
	testutils.MustExec(t, db.Model(&database.UserInvite{}).Count(&inviteCount), "counting invites")
	assert.Equal(t, inviteCount, int64(0), "invite count mismatch")

	var rightRecord database.BookAccessRight
	testutils.MustExec(t, db.Where("book_id = ?", book.ID).First(&rightRecord), "finding right")
	assert.Equal(t, rightRecord.HolderType, "user", "holder type mismatch")
	assert.Equal(t, rightRecord.HolderID, joiner.ID, "holder id mismatch")
	assert.Equal(t, rightRecord.Rights, "write", "rights mismatch")
}

func TestDeleteInvite_NotSender(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	// Setup
	a := app.NewTest(db)
	server := MustNewServer(t, &a)
	defer server.Close()

	sender := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	other := testutils.SetupUserData(db, "bob@example.com", "pass1234")

	invite := database.UserInvite{
		UUID:     testutils.MustUUID(t),
		SenderID: sender.ID,
		Username: "carol",
		Email:    "carol@example.com",
	}
	testutils.MustExec(t, db.Save(&invite), "preparing invite")

	// Execute
	endpoint := fmt.Sprintf("/api/v3/invites/%s", invite.UUID)
	req := testutils.MakeReq(server.URL, "DELETE", endpoint, "")
	res := testutils.HTTPAuthDo(t, db, req, other)

	// Test
	assert.StatusCodeEquals(t, res, http.StatusNotFound, "")

	var count int64
	testutils.MustExec(t, db.Model(&database.UserInvite{}).Count(&count), "counting invites")
	assert.Equal(t, count, int64(1), "invite count mismatch")
}

func TestGetInvites(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	// Setup
	a := app.NewTest(db)
	server := MustNewServer(t, &a)
	defer server.Close()

	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	other := testutils.SetupUserData(db, "bob@example.com", "pass1234")

	i1 := database.UserInvite{
		UUID:     testutils.MustUUID(t),
		SenderID: user.ID,
		Username: "carol",
		Email:    "carol@example.com",
	}
	testutils.MustExec(t, db.Save(&i1), "preparing i1")
	i2 := database.UserInvite{
		UUID:     testutils.MustUUID(t),
		SenderID: other.ID,
		Username: "dave",
		Email:    "dave@example.com",
	}
	testutils.MustExec(t, db.Save(&i2), "preparing i2")

	// Execute
	req := testutils.MakeReq(server.URL, "GET", "/api/v3/invites", "")
	res := testutils.HTTPAuthDo(t, db, req, user)

	// Test
	assert.StatusCodeEquals(t, res, http.StatusOK, "")

	var payload struct {
		Invites []presenters.Invite `json:"invites"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatal(errors.Wrap(err, "decoding payload"))
	}

	assert.Equal(t, len(payload.Invites), 1, "invite count mismatch")
	assert.Equal(t, payload.Invites[0].UUID, i1.UUID, "uuid mismatch")
}

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
	"github.com/bindery/bindery/pkg/server/database"
)

// Invite is a pending invite sent by a user
type Invite struct {
	UUID     string `json:"uuid"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// PresentInvite presents an invite
func PresentInvite(invite database.UserInvite) Invite {
	return Invite{
		UUID:     invite.UUID,
		Username: invite.Username,
		Email:    invite.Email,
	}
}

// PresentInvites presents invites
func PresentInvites(invites []database.UserInvite) []Invite {
	ret := []Invite{}

	for _, invite := range invites {
		ret = append(ret, PresentInvite(invite))
	}

	return ret
}

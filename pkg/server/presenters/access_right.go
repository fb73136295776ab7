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
	"github.com/bindery/bindery/pkg/server/app"
)

// AccessRight is a ledger row with its resolved holder
type AccessRight struct {
	BookUUID string `json:"book"`
	Rights   string `json:"rights"`
	Path     string `json:"path"`
	Holder   Holder `json:"holder"`
}

// PresentAccessRight presents an access right
func PresentAccessRight(info app.AccessRightInfo) AccessRight {
	return AccessRight{
		BookUUID: info.BookUUID,
		Rights:   info.Right.Rights,
		Path:     info.Right.Path,
		Holder:   PresentHolder(info.Holder),
	}
}

// PresentAccessRights presents access rights
func PresentAccessRights(infos []app.AccessRightInfo) []AccessRight {
	ret := []AccessRight{}

	for _, info := range infos {
		ret = append(ret, PresentAccessRight(info))
	}

	return ret
}

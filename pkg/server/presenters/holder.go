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

// Holder is a resolved rights holder
type Holder struct {
	ID     int     `json:"id"`
	Type   string  `json:"type"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar"`
}

// PresentHolder presents a holder
func PresentHolder(holder app.Holder) Holder {
	return Holder{
		ID:     holder.ID,
		Type:   holder.Type,
		Name:   holder.Name,
		Avatar: holder.Avatar,
	}
}

// PresentHolders presents holders
func PresentHolders(holders []app.Holder) []Holder {
	ret := []Holder{}

	for _, holder := range holders {
		ret = append(ret, PresentHolder(holder))
	}

	return ret
}

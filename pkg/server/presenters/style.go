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
	"github.com/bindery/bindery/pkg/server/styles"
)

// Style is a book CSS style
type Style struct {
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Contents string `json:"contents"`
}

// PresentStyles presents styles
func PresentStyles(items []styles.Style) []Style {
	ret := []Style{}

	for _, item := range items {
		ret = append(ret, Style{
			Title:    item.Title,
			Slug:     item.Slug,
			Contents: item.Contents,
		})
	}

	return ret
}

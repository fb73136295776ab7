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

package mailer

// BookSharedTmplData is a template data for book share notifications.
// Change indicates that the holder's existing rights were modified rather
// than granted for the first time.
type BookSharedTmplData struct {
	CollaboratorName string
	OwnerName        string
	BookTitle        string
	Rights           string
	Link             string
	Change           bool
}

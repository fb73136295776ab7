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
	"fmt"
	"net/url"
	"strings"

	"github.com/bindery/bindery/pkg/server/database"
	"github.com/bindery/bindery/pkg/server/mailer"
	"github.com/pkg/errors"
)

func getDomainFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrap(err, "parsing url")
	}

	host := u.Hostname()
	parts := strings.Split(host, ".")
	if len(parts) < 2 {
		return host, nil
	}
	domain := parts[len(parts)-2] + "." + parts[len(parts)-1]

	return domain, nil
}

func getNoreplySender(webURL string) (string, error) {
	domain, err := getDomainFromURL(webURL)
	if err != nil {
		return "", errors.Wrap(err, "parsing web url")
	}

	addr := fmt.Sprintf("noreply@%s", domain)
	return addr, nil
}

// SendBookSharedEmail notifies a collaborator that a book was shared with
// them or that their rights on it changed
func (a *App) SendBookSharedEmail(owner database.User, n shareNotification) error {
	from, err := getNoreplySender(a.WebURL)
	if err != nil {
		return errors.Wrap(err, "getting the sender email")
	}

	ownerName := owner.Name
	if ownerName == "" {
		ownerName = owner.Email.String
	}
	bookTitle := n.bookTitle
	if bookTitle == "" {
		bookTitle = "Untitled"
	}

	data := mailer.BookSharedTmplData{
		CollaboratorName: n.collaboratorName,
		OwnerName:        ownerName,
		BookTitle:        bookTitle,
		Rights:           n.rights,
		Link:             a.WebURL + "/books/",
		Change:           n.change,
	}

	if err := a.EmailBackend.SendEmail(mailer.EmailTypeBookShared, from, []string{n.collaboratorEmail}, data); err != nil {
		return errors.Wrapf(err, "sending book shared email for %s", n.collaboratorEmail)
	}

	return nil
}

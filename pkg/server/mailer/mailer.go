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

// Package mailer provides a functionality to send emails
package mailer

import (
	"bytes"
	"fmt"
	htemplate "html/template"
	"io"
	ttemplate "text/template"

	"github.com/aymerick/douceur/inliner"
	"github.com/bindery/bindery/pkg/server/mailer/templates"
	"github.com/pkg/errors"
)

var (
	// EmailTypeBookShared represents an email notifying a collaborator
	// that a book was shared with them or that their rights changed
	EmailTypeBookShared = "book_shared"
)

var (
	// EmailKindText is the type of text email
	EmailKindText = "text/plain"
	// EmailKindHTML is the type of html email
	EmailKindHTML = "text/html"
)

// tmpl is the common interface shared between Template from
// html/template and text/template
type tmpl interface {
	Execute(wr io.Writer, data interface{}) error
}

// template wraps a body template with its subject template
type template struct {
	tmpl    tmpl
	subject *ttemplate.Template
}

// Templates holds the parsed email templates with their subjects
type Templates map[string]template

func getTemplateKey(name, kind string) string {
	return fmt.Sprintf("%s.%s", name, kind)
}

func (tmpl Templates) get(name, kind string) (template, error) {
	key := getTemplateKey(name, kind)
	t := tmpl[key]
	if t.tmpl == nil {
		return template{}, errors.Errorf("unsupported template '%s' with type '%s'", name, kind)
	}

	return t, nil
}

func (tmpl Templates) set(name, kind string, t tmpl, subject string) {
	subjectTmpl, err := ttemplate.New(name + ".subject").Parse(subject)
	if err != nil {
		panic(errors.Wrapf(err, "parsing subject for template %s", name))
	}

	key := getTemplateKey(name, kind)
	tmpl[key] = template{
		tmpl:    t,
		subject: subjectTmpl,
	}
}

// NewTemplates initializes templates
func NewTemplates() Templates {
	bookSharedText, err := initTextTmpl(EmailTypeBookShared)
	if err != nil {
		panic(errors.Wrap(err, "initializing book shared text template"))
	}
	bookSharedHTML, err := initHTMLTmpl(EmailTypeBookShared)
	if err != nil {
		panic(errors.Wrap(err, "initializing book shared html template"))
	}

	subject := "{{if .Change}}Access rights changed: {{.BookTitle}}{{else}}Book shared: {{.BookTitle}}{{end}}"

	T := Templates{}
	T.set(EmailTypeBookShared, EmailKindText, bookSharedText, subject)
	T.set(EmailTypeBookShared, EmailKindHTML, bookSharedHTML, subject)

	return T
}

// initTextTmpl returns a template instance by parsing the template with the given name
func initTextTmpl(templateName string) (tmpl, error) {
	filename := fmt.Sprintf("%s.txt", templateName)

	content, err := templates.Files.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "reading template")
	}

	t := ttemplate.New(templateName)
	if _, err = t.Parse(string(content)); err != nil {
		return nil, errors.Wrap(err, "parsing template")
	}

	return t, nil
}

// initHTMLTmpl returns an html template instance by parsing the template with the given name
func initHTMLTmpl(templateName string) (tmpl, error) {
	filename := fmt.Sprintf("%s.html", templateName)

	content, err := templates.Files.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "reading template")
	}

	t := htemplate.New(templateName)
	if _, err = t.Parse(string(content)); err != nil {
		return nil, errors.Wrap(err, "parsing template")
	}

	return t, nil
}

// Execute executes the template and returns the subject, body, and any error.
// For html templates, stylesheet rules are inlined into the markup so that
// the result renders in email clients.
func (tmpl Templates) Execute(name, kind string, data any) (subject, body string, err error) {
	t, err := tmpl.get(name, kind)
	if err != nil {
		return "", "", errors.Wrap(err, "getting template")
	}

	buf := new(bytes.Buffer)
	if err := t.tmpl.Execute(buf, data); err != nil {
		return "", "", errors.Wrap(err, "executing the template")
	}
	body = buf.String()

	if kind == EmailKindHTML {
		body, err = inliner.Inline(body)
		if err != nil {
			return "", "", errors.Wrap(err, "inlining css")
		}
	}

	subjectBuf := new(bytes.Buffer)
	if err := t.subject.Execute(subjectBuf, data); err != nil {
		return "", "", errors.Wrap(err, "executing the subject template")
	}

	return subjectBuf.String(), body, nil
}

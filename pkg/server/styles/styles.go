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

// Package styles provides a registry of book CSS styles loaded from a
// directory. The registry is read-only for clients; styles are managed by
// dropping files into the directory.
package styles

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bindery/bindery/pkg/server/log"
	"github.com/pkg/errors"
	"github.com/radovskyb/watcher"
)

// Style is a CSS style a book can be rendered with
type Style struct {
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Contents string `json:"contents"`
}

// Registry holds the styles loaded from the style directory
type Registry struct {
	dir    string
	mu     sync.RWMutex
	styles []Style
	w      *watcher.Watcher
}

// NewRegistry creates a registry for the given directory and performs the
// initial load. An empty dir results in an empty registry.
func NewRegistry(dir string) (*Registry, error) {
	r := &Registry{dir: dir}

	if dir == "" {
		return r, nil
	}

	if err := r.Reload(); err != nil {
		return nil, errors.Wrap(err, "loading styles")
	}

	return r, nil
}

// List returns the loaded styles
func (r *Registry) List() []Style {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ret := make([]Style, len(r.styles))
	copy(ret, r.styles)

	return ret
}

// Reload re-reads the style files from the directory
func (r *Registry) Reload() error {
	if r.dir == "" {
		return nil
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return errors.Wrapf(err, "reading style directory %s", r.dir)
	}

	var loaded []Style
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".css") {
			continue
		}

		contents, err := os.ReadFile(filepath.Join(r.dir, e.Name()))
		if err != nil {
			return errors.Wrapf(err, "reading style file %s", e.Name())
		}

		slug := strings.TrimSuffix(e.Name(), ".css")
		loaded = append(loaded, Style{
			Title:    titleForSlug(slug),
			Slug:     slug,
			Contents: string(contents),
		})
	}

	sort.Slice(loaded, func(i, j int) bool {
		return loaded[i].Slug < loaded[j].Slug
	})

	r.mu.Lock()
	r.styles = loaded
	r.mu.Unlock()

	return nil
}

// Watch reloads the registry whenever a file in the style directory
// changes. It runs until Close is called.
func (r *Registry) Watch() error {
	if r.dir == "" {
		return nil
	}

	w := watcher.New()
	w.SetMaxEvents(1)
	if err := w.Add(r.dir); err != nil {
		return errors.Wrapf(err, "watching style directory %s", r.dir)
	}
	r.w = w

	go func() {
		for {
			select {
			case <-w.Event:
				if err := r.Reload(); err != nil {
					log.ErrorWrap(err, "reloading styles")
				}
			case err := <-w.Error:
				log.ErrorWrap(err, "watching styles")
			case <-w.Closed:
				return
			}
		}
	}()

	go func() {
		if err := w.Start(time.Second); err != nil {
			log.ErrorWrap(err, "starting style watcher")
		}
	}()

	return nil
}

// Close stops the watcher, if any
func (r *Registry) Close() {
	if r.w != nil {
		r.w.Close()
	}
}

func titleForSlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}

	return strings.Join(words, " ")
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"fmt"
	"net/url"
	"strings"
)

// CollectionPath returns "users/{userID}/{collection}".
func CollectionPath(userID, collection string) string {
	return "users/" + userID + "/" + collection
}

// DocumentPath returns "users/{userID}/{collection}/{docID}".
func DocumentPath(userID, collection, docID string) string {
	return CollectionPath(userID, collection) + "/" + docID
}

// remotePath is a parsed collection or document path.
type remotePath struct {
	UserID     string
	Collection string
	DocID      string
}

// parsePath accepts a collection path (three segments) or, when document is
// true, a document path (four segments).
func parsePath(path string, document bool) (remotePath, error) {
	want := 3
	if document {
		want = 4
	}

	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != want || parts[0] != "users" {
		return remotePath{}, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			return remotePath{}, fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
	}

	rp := remotePath{UserID: parts[1], Collection: parts[2]}
	if document {
		rp.DocID = parts[3]
	}
	return rp, nil
}

func (p remotePath) collectionKey() string {
	return p.UserID + "/" + p.Collection
}

// url returns the server route of the path.
func (p remotePath) url(suffix ...string) string {
	segments := []string{"/api/users", url.PathEscape(p.UserID), url.PathEscape(p.Collection)}
	if p.DocID != "" {
		segments = append(segments, url.PathEscape(p.DocID))
	}
	segments = append(segments, suffix...)
	return strings.Join(segments, "/")
}

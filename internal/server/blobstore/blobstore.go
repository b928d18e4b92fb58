// Package blobstore moves inline media into durable storage and returns
// the URL clients should reference instead.
package blobstore

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/visittracker/internal/media"
)

const (
	ObjectPrefix = "objects/"
	PhotoPrefix  = "photos/"
)

type BlobStore interface {
	// Upload stores the payload of dataURI under a key derived from prefix,
	// logicalID and the declared MIME type. Uploading the same logical id
	// twice overwrites the first copy.
	Upload(ctx context.Context, dataURI, logicalID, prefix string) (key, url string, err error)
}

func decode(dataURI, logicalID, prefix string) (*media.DataURI, string, error) {
	d, err := media.Parse(dataURI)
	if err != nil {
		return nil, "", err
	}
	return d, media.StorageKey(prefix, logicalID, d.MIMEType), nil
}

func joinURL(base string, parts ...string) string {
	out := strings.TrimRight(base, "/")
	for _, p := range parts {
		out += "/" + strings.Trim(p, "/")
	}
	return out
}

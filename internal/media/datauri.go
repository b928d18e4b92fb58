// Package media handles inline media references: base64 data URIs that
// clients embed in sync payloads until the server moves them to blob storage.
package media

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/visittracker/internal/common"
)

const (
	dataURIPrefix = "data:"

	// DefaultMIMEType is assumed when a data URI does not declare one.
	DefaultMIMEType = "image/jpeg"
	// DefaultExtension is used when the MIME type is missing or unparseable.
	DefaultExtension = "jpg"
)

// knownExtensions maps MIME types whose subtype is not a usable file
// extension on its own.
var knownExtensions = map[string]string{
	"image/jpeg":      "jpg",
	"image/jpg":       "jpg",
	"image/pjpeg":     "jpg",
	"image/svg+xml":   "svg",
	"video/quicktime": "mov",
	"video/x-msvideo": "avi",
	"video/3gpp":      "3gp",
}

// DataURI is a decoded "data:<mime>;base64,<payload>" reference.
type DataURI struct {
	MIMEType string
	Data     []byte
}

// IsInline reports whether ref is an inline data URI rather than a resolved URL.
func IsInline(ref string) bool {
	return strings.HasPrefix(ref, dataURIPrefix)
}

// Parse decodes a base64 data URI. A missing MIME type falls back to
// DefaultMIMEType; anything that is not base64-encoded is rejected.
func Parse(ref string) (*DataURI, error) {
	if !IsInline(ref) {
		return nil, fmt.Errorf("%w: missing data: prefix", common.ErrMalformedDataURI)
	}

	header, payload, ok := strings.Cut(ref[len(dataURIPrefix):], ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing payload separator", common.ErrMalformedDataURI)
	}

	params := strings.Split(header, ";")
	mimeType := strings.TrimSpace(strings.ToLower(params[0]))
	base64Encoded := false
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			base64Encoded = true
		}
	}
	if !base64Encoded {
		return nil, fmt.Errorf("%w: payload is not base64", common.ErrMalformedDataURI)
	}
	if mimeType == "" {
		mimeType = DefaultMIMEType
	}

	data, err := decodeBase64(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedDataURI, err)
	}

	return &DataURI{MIMEType: mimeType, Data: data}, nil
}

// decodeBase64 accepts both padded and unpadded standard encodings; some
// mobile browsers strip the padding.
func decodeBase64(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if data, err := base64.StdEncoding.DecodeString(payload); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
}

// Extension derives a file extension (without the dot) from a MIME type.
func Extension(mimeType string) string {
	mimeType = strings.TrimSpace(strings.ToLower(mimeType))
	if ext, ok := knownExtensions[mimeType]; ok {
		return ext
	}

	_, subtype, ok := strings.Cut(mimeType, "/")
	if !ok || subtype == "" {
		return DefaultExtension
	}

	var b strings.Builder
	for _, r := range subtype {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		break
	}
	if b.Len() == 0 {
		return DefaultExtension
	}
	return b.String()
}

// StorageKey builds the deterministic blob key for a logical media id, so a
// retried upload lands on the same object.
func StorageKey(prefix, logicalID, mimeType string) string {
	return prefix + logicalID + "." + Extension(mimeType)
}

// ObjectPhotoID is the logical media id of an object's photo.
func ObjectPhotoID(objectID string) string {
	return "obj_" + objectID
}

// VisitPhotoID is the logical media id of the i-th photo of a visit.
func VisitPhotoID(visitID string, i int) string {
	return fmt.Sprintf("visit_%s_%d", visitID, i)
}

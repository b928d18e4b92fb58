package media

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/visittracker/internal/common"
)

func TestIsInline(t *testing.T) {
	assert.True(t, IsInline("data:image/jpeg;base64,AAAA"))
	assert.True(t, IsInline("data:,"))
	assert.False(t, IsInline("http://localhost:9000/bucket/photos/visit_v1_0.jpg"))
	assert.False(t, IsInline(""))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		ref      string
		wantMIME string
		wantData []byte
		wantErr  bool
	}{
		{
			name:     "jpeg",
			ref:      "data:image/jpeg;base64,AAAA",
			wantMIME: "image/jpeg",
			wantData: []byte{0, 0, 0},
		},
		{
			name:     "video with extra params",
			ref:      "data:video/mp4;codecs=avc1;base64,aGVsbG8=",
			wantMIME: "video/mp4",
			wantData: []byte("hello"),
		},
		{
			name:     "missing mime defaults to jpeg",
			ref:      "data:;base64,aGVsbG8=",
			wantMIME: "image/jpeg",
			wantData: []byte("hello"),
		},
		{
			name:     "unpadded payload",
			ref:      "data:image/png;base64,aGVsbG8",
			wantMIME: "image/png",
			wantData: []byte("hello"),
		},
		{name: "not inline", ref: "https://cdn/x.jpg", wantErr: true},
		{name: "no comma", ref: "data:image/png;base64", wantErr: true},
		{name: "not base64", ref: "data:text/plain,hello", wantErr: true},
		{name: "garbage payload", ref: "data:image/png;base64,@@@@", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.ref)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, common.ErrMalformedDataURI))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMIME, got.MIMEType)
			assert.Equal(t, tt.wantData, got.Data)
		})
	}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"image/jpeg":      "jpg",
		"image/png":       "png",
		"image/webp":      "webp",
		"video/mp4":       "mp4",
		"video/quicktime": "mov",
		"IMAGE/PNG":       "png",
		"image/svg+xml":   "svg",
		"":                "jpg",
		"garbage":         "jpg",
		"image/":          "jpg",
		"image/+weird":    "jpg",
	}
	for in, want := range tests {
		assert.Equal(t, want, Extension(in), "mime %q", in)
	}
}

func TestStorageKey(t *testing.T) {
	assert.Equal(t, "objects/obj_1.jpg", StorageKey("objects/", ObjectPhotoID("1"), "image/jpeg"))
	assert.Equal(t, "photos/visit_v1_2.mp4", StorageKey("photos/", VisitPhotoID("v1", 2), "video/mp4"))
}

package objectstorage

import (
	"encoding/base64"
	"testing"
)

func TestValidateImageType(t *testing.T) {
	client := &Client{}

	tests := []struct {
		name        string
		contentType string
		wantErr     bool
	}{
		{
			name:        "valid jpeg",
			contentType: "image/jpeg",
			wantErr:     false,
		},
		{
			name:        "valid jpg",
			contentType: "image/jpg",
			wantErr:     false,
		},
		{
			name:        "valid png",
			contentType: "image/png",
			wantErr:     false,
		},
		{
			name:        "valid webp",
			contentType: "image/webp",
			wantErr:     false,
		},
		{
			name:        "valid jpeg uppercase",
			contentType: "IMAGE/JPEG",
			wantErr:     false,
		},
		{
			name:        "invalid gif",
			contentType: "image/gif",
			wantErr:     true,
		},
		{
			name:        "invalid text",
			contentType: "text/plain",
			wantErr:     true,
		},
		{
			name:        "invalid svg",
			contentType: "image/svg+xml",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.ValidateImageType(tt.contentType)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateImageType() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateImageSize(t *testing.T) {
	client := &Client{}

	createBase64Image := func(sizeBytes int) string {
		data := make([]byte, sizeBytes)
		return base64.StdEncoding.EncodeToString(data)
	}

	createDataURI := func(sizeBytes int) string {
		data := make([]byte, sizeBytes)
		encoded := base64.StdEncoding.EncodeToString(data)
		return "data:image/png;base64," + encoded
	}

	tests := []struct {
		name      string
		imageData string
		wantErr   bool
	}{
		{
			name:      "valid small image (1KB)",
			imageData: createBase64Image(1024),
			wantErr:   false,
		},
		{
			name:      "valid large image (5MB)",
			imageData: createBase64Image(5 * 1024 * 1024),
			wantErr:   false,
		},
		{
			name:      "valid max size (10MB)",
			imageData: createBase64Image(10 * 1024 * 1024),
			wantErr:   false,
		},
		{
			name:      "invalid too large (11MB)",
			imageData: createBase64Image(11 * 1024 * 1024),
			wantErr:   true,
		},
		{
			name:      "valid data URI format (1MB)",
			imageData: createDataURI(1024 * 1024),
			wantErr:   false,
		},
		{
			name:      "invalid base64",
			imageData: "not-valid-base64!!!",
			wantErr:   true,
		},
		{
			name:      "invalid data URI format",
			imageData: "data:invalid",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.ValidateImageSize(tt.imageData)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateImageSize() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecodeImage(t *testing.T) {
	tests := []struct {
		name      string
		imageData string
		wantErr   bool
	}{
		{
			name:      "valid plain base64",
			imageData: base64.StdEncoding.EncodeToString([]byte("test image data")),
			wantErr:   false,
		},
		{
			name:      "valid data URI",
			imageData: "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("test image data")),
			wantErr:   false,
		},
		{
			name:      "invalid base64",
			imageData: "not-valid-base64!!!",
			wantErr:   true,
		},
		{
			name:      "invalid data URI format",
			imageData: "data:invalid",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imageBytes, err := decodeImage(tt.imageData)
			if (err != nil) != tt.wantErr {
				t.Errorf("decodeImage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && len(imageBytes) == 0 {
				t.Error("decoded image bytes should not be empty")
			}
		})
	}
}

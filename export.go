package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"visualnotes/notes"
)

// extensionByMIME maps the MIME types image backends actually return to
// file extensions. Unknown types fall back to .bin so the bytes are never
// silently dropped.
var extensionByMIME = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// exportImages writes each completed unit's image into dir as
// note_<order><ext> and returns the written paths in display order.
func exportImages(units []*notes.Unit, dir string) ([]string, error) {
	var saved []string
	for _, unit := range units {
		if unit.Stage != notes.StageDone || unit.FinalImage == "" {
			continue
		}
		mimeType, data, err := decodeDataURI(unit.FinalImage)
		if err != nil {
			return saved, fmt.Errorf("unit %s: %w", unit.ID, err)
		}

		ext, ok := extensionByMIME[mimeType]
		if !ok {
			ext = ".bin"
		}
		path := filepath.Join(dir, fmt.Sprintf("note_%d%s", unit.Order, ext))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return saved, fmt.Errorf("failed to write %s: %w", path, err)
		}
		saved = append(saved, path)
	}
	return saved, nil
}

// decodeDataURI splits a data:<mime>;base64,<payload> URI into its MIME
// type and decoded bytes.
func decodeDataURI(uri string) (string, []byte, error) {
	if !strings.HasPrefix(uri, "data:") {
		return "", nil, fmt.Errorf("not a data URI")
	}
	meta, payload, found := strings.Cut(uri[len("data:"):], ",")
	if !found {
		return "", nil, fmt.Errorf("malformed data URI")
	}
	mimeType := strings.TrimSuffix(meta, ";base64")

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("data URI payload is not valid base64: %w", err)
	}
	return mimeType, data, nil
}

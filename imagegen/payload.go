package imagegen

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	// Register decoders so ValidatePayload can sniff the common formats
	// image APIs actually return.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"visualnotes/core"
)

// ValidatePayload checks that the payload bytes decode as an image header.
// An undecodable payload counts as a malformed response so the retry policy
// treats it like any other failed attempt instead of handing the caller a
// broken image.
func ValidatePayload(payload Payload) error {
	if len(payload.Bytes) == 0 {
		return core.NewMalformedResponseError("image", "empty image payload")
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(payload.Bytes))
	if err != nil {
		return core.NewMalformedResponseError("image", "payload does not decode as an image: "+err.Error())
	}

	// The declared MIME type is advisory; the sniffed format wins when they
	// disagree, so don't fail on mismatch.
	_ = format
	return nil
}

// DataURI wraps the payload as a self-contained data URI suitable for
// direct display or download. SniffedMIMEType is consulted when the
// backend did not declare one.
func DataURI(payload Payload) string {
	mimeType := payload.MIMEType
	if mimeType == "" {
		mimeType = SniffedMIMEType(payload.Bytes)
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(payload.Bytes))
}

// SniffedMIMEType returns the MIME type implied by the image header, or
// "application/octet-stream" when the bytes are not a known image format.
func SniffedMIMEType(data []byte) string {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "application/octet-stream"
	}
	return "image/" + format
}

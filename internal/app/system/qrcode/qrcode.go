// Package qrcode renders registration QR codes as PNG images.
package qrcode

import (
	"encoding/json"
	"fmt"

	qr "github.com/skip2/go-qrcode"
)

// Size is the rendered PNG edge length in pixels.
const Size = 256

// Payload is the content encoded into a registration QR code.
type Payload struct {
	Name      string `json:"name"`
	StudentID string `json:"studentId"`
	Email     string `json:"email"`
	Gender    string `json:"gender"`
}

// Generate encodes payload as JSON and renders it as a PNG at medium
// error-correction.
func Generate(payload any) ([]byte, error) {
	content, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode qr payload: %w", err)
	}
	png, err := qr.Encode(string(content), qr.Medium, Size)
	if err != nil {
		return nil, fmt.Errorf("render qr: %w", err)
	}
	return png, nil
}

// Path is the deterministic storage key for a student's QR code for an event.
// Re-registering overwrites the same object.
func Path(studentID, eventID string) string {
	return fmt.Sprintf("qrcodes/%s_%s.png", studentID, eventID)
}

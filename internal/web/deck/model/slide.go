package model

import (
	"path"
	"strings"
)

// OrderFileName is the sidecar document recording the slide order,
// stored in the same folder as the images.
const OrderFileName = "slides_order.json"

// Slide is one image of the investor deck. Identity is the filename;
// display position comes from the order ledger, not the slide itself.
type Slide struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Order is the ledger document persisted as slides_order.json.
type Order struct {
	Slides []string `json:"slides"`
	// LastUpdated is epoch milliseconds.
	LastUpdated int64 `json:"lastUpdated"`
}

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// IsImageName reports whether name has a supported image extension.
// The sidecar ledger and folder-marker files never match.
func IsImageName(name string) bool {
	return imageExts[strings.ToLower(path.Ext(name))]
}

// ContentTypeForName maps a slide filename to its MIME type.
func ContentTypeForName(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		return "image/png"
	default:
		return "image/jpeg"
	}
}

package storage

import (
	"fmt"
	"path"
	"strings"
)

// VariantWidths lists the resized renditions stored next to every original.
// Image processing and cleanup both derive keys from it.
var VariantWidths = []int{96, 256, 640, 1080}

func base(key string) string {
	return strings.TrimSuffix(key, path.Ext(key))
}

// VariantKey returns the key of the width-pixel rendition of key,
// e.g. "u1/d2/e3/photo.jpg" -> "u1/d2/e3/photo-256w.webp".
func VariantKey(key string, width int) string {
	return fmt.Sprintf("%s-%dw.webp", base(key), width)
}

// CompressedKey returns the key of the full-size compressed rendition.
func CompressedKey(key string) string {
	return base(key) + "-compressed.webp"
}

// VariantKeys returns key followed by all of its sized renditions.
func VariantKeys(key string) []string {
	keys := make([]string, 0, len(VariantWidths)+1)
	keys = append(keys, key)
	for _, w := range VariantWidths {
		keys = append(keys, VariantKey(key, w))
	}
	return keys
}

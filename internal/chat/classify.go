package chat

import "strings"

// ImagePrefix is the reserved command prefix that forces an image request.
const ImagePrefix = "/image"

// imagePhrases are the natural-language image-intent markers, lowercase,
// across the supported languages. Classification is plain substring
// containment; there is deliberately no smarter intent resolution.
var imagePhrases = []string{
	"generate image",
	"generate an image",
	"create image",
	"create an image",
	"draw",
	"génère une image",
	"genere une image",
	"dessine",
	"genera una imagen",
	"dibuja",
	"generiere ein bild",
	"zeichne",
	"male ein bild",
}

// IsImageRequest reports whether the raw user input should be handled as
// an image generation rather than a text completion. It is a pure function
// of the input and the fixed phrase table.
func IsImageRequest(input string) bool {
	lower := strings.ToLower(strings.TrimSpace(input))
	if strings.HasPrefix(lower, ImagePrefix) {
		return true
	}
	for _, phrase := range imagePhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// ImagePrompt strips the command prefix, if present, to obtain the prompt
// passed to the image service.
func ImagePrompt(input string) string {
	trimmed := strings.TrimSpace(input)
	if len(trimmed) >= len(ImagePrefix) && strings.EqualFold(trimmed[:len(ImagePrefix)], ImagePrefix) {
		return strings.TrimSpace(trimmed[len(ImagePrefix):])
	}
	return trimmed
}

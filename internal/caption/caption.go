// Package caption produces short alt-text descriptions of photos using a
// vision model.
package caption

import (
	"context"
	"io"
	"strings"
)

// Prompt is the shared prompt used by all caption adapters.
const Prompt = `Describe this photograph in one short sentence suitable as alt text for a
gallery. Mention the main subject and setting. Do not mention the camera,
the image quality, or that it is a photograph. Respond with the sentence only.`

// maxLen caps captions so a verbose model cannot bloat the sidecar.
const maxLen = 200

type Captioner interface {
	Caption(ctx context.Context, r io.Reader, mimeType string) (string, error)
}

// Clean reduces a raw model response to a single trimmed line without
// wrapping quotes or a leading preamble.
func Clean(raw string) string {
	var line string
	for _, l := range strings.Split(raw, "\n") {
		l = strings.TrimSpace(l)
		if l == "" || isPreamble(l) {
			continue
		}
		line = l
		break
	}

	line = strings.Trim(line, "\"'` ")
	line = strings.TrimPrefix(line, "Alt text: ")
	if r := []rune(line); len(r) > maxLen {
		line = strings.TrimSpace(string(r[:maxLen-1])) + "…"
	}
	return line
}

func isPreamble(line string) bool {
	for _, p := range []string{"Here is", "Here's", "Sure"} {
		if strings.HasPrefix(line, p) && strings.HasSuffix(line, ":") {
			return true
		}
	}
	return false
}

// NormaliseMIME maps MIME types to the image types vision APIs accept.
// Unknown types are sent as jpeg.
func NormaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}

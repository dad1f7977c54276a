package ai

import "strings"

// NormalizeModel strips the vendor prefix from a qualified model id, so
// "google/gemini-3-flash-preview" becomes "gemini-3-flash-preview". Only the
// first segment is a vendor prefix: "a/b/c" becomes "b/c".
func NormalizeModel(model string) string {
	model = strings.TrimSpace(model)
	if _, name, ok := strings.Cut(model, "/"); ok && strings.TrimSpace(name) != "" {
		return strings.TrimSpace(name)
	}
	return model
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var unsafeFilenameChars = regexp.MustCompile(`[^\w\- ]+`)

// sanitizeFilename strips characters that are unsafe in filenames and
// falls back to "presentation" for empty titles.
func sanitizeFilename(title string) string {
	name := unsafeFilenameChars.ReplaceAllString(title, "")
	name = strings.TrimSpace(name)
	if name == "" {
		name = "presentation"
	}
	return name
}

// ExportPPTX serializes the session's current deck to PowerPoint bytes and
// returns them with a suggested filename.
func (a *App) ExportPPTX(sessionID, title string) ([]byte, string, error) {
	s, err := a.session(sessionID)
	if err != nil {
		return nil, "", err
	}

	deck := s.store.Snapshot()
	data, err := a.pptService.ExportDeck(deck, title)
	if err != nil {
		return nil, "", WrapError("app", "ExportPPTX", err)
	}

	filename := sanitizeFilename(title) + ".pptx"
	a.Log(fmt.Sprintf("Session %s: exported %d slides to %s (%d bytes)", sessionID, len(deck), filename, len(data)))
	return data, filename, nil
}

// ExportPPTXToFile exports the deck into the exports directory under the
// data cache dir and returns the written path.
func (a *App) ExportPPTXToFile(sessionID, title string) (string, error) {
	data, filename, err := a.ExportPPTX(sessionID, title)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(a.config().DataCacheDir, "exports")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", WrapError("app", "ExportPPTXToFile", err)
	}

	// Timestamped so repeated exports never clobber each other
	stamped := fmt.Sprintf("%s_%s.pptx", strings.TrimSuffix(filename, ".pptx"), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, stamped)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", WrapError("app", "ExportPPTXToFile", err)
	}
	return path, nil
}

// Package archive reads uploaded zip exports and finds chat transcripts.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/chatdigest/link-digest-service/internal/model"
	"github.com/chatdigest/link-digest-service/internal/transcript"
)

// Upload is one zip blob received from the caller.
type Upload struct {
	Name string
	Data []byte
}

// CorruptError reports an archive that could not be read. It aborts the
// whole request and names the offending file.
type CorruptError struct {
	Name string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt archive %q: %v", e.Name, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// chatHints flag entry names or content that look like chat data. The last
// entry is the localized word used by the predominant export locale.
var chatHints = []string{"chat", "whatsapp", "צ'אט"}

var (
	chatWithPattern    = regexp.MustCompile(`(?i)^WhatsApp Chat with (.+)\.txt$`)
	chatArchivePattern = regexp.MustCompile(`(?i)^WhatsApp Chat - (.+)\.zip$`)
)

// ReadChatFiles decompresses every upload in memory and returns the
// transcript files found across them, plus the names of archives that held
// no transcript. A corrupt archive returns a CorruptError; archives are
// otherwise independent.
func ReadChatFiles(uploads []Upload) ([]model.ChatFile, []string, error) {
	var files []model.ChatFile
	var empty []string

	for _, up := range uploads {
		found, err := readOne(up)
		if err != nil {
			return nil, nil, err
		}
		if len(found) == 0 {
			empty = append(empty, up.Name)
			continue
		}
		files = append(files, found...)
	}

	return files, empty, nil
}

func readOne(up Upload) ([]model.ChatFile, error) {
	zr, err := zip.NewReader(bytes.NewReader(up.Data), int64(len(up.Data)))
	if err != nil {
		return nil, &CorruptError{Name: up.Name, Err: err}
	}

	var files []model.ChatFile
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() || strings.HasPrefix(entry.Name, "__MACOSX/") {
			continue
		}

		base := path.Base(entry.Name)
		canonical := strings.HasSuffix(base, "_chat.txt")
		if !canonical && !strings.HasSuffix(strings.ToLower(base), ".txt") {
			continue
		}

		content, err := readEntry(entry)
		if err != nil {
			return nil, &CorruptError{Name: up.Name, Err: fmt.Errorf("entry %q: %w", entry.Name, err)}
		}

		if !canonical && !looksLikeChat(base, content) {
			continue
		}

		files = append(files, model.ChatFile{
			Name:      entry.Name,
			Content:   content,
			GroupName: groupName(up.Name, base),
		})
	}

	return files, nil
}

func readEntry(entry *zip.File) (string, error) {
	rc, err := entry.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// looksLikeChat accepts a .txt entry whose name or content hints at chat
// data, confirmed by a timestamp line near the top.
func looksLikeChat(name, content string) bool {
	lowerName := strings.ToLower(name)
	hinted := false
	for _, hint := range chatHints {
		if strings.Contains(lowerName, hint) || strings.Contains(strings.ToLower(content), hint) {
			hinted = true
			break
		}
	}
	if !hinted {
		return false
	}

	lines := strings.SplitN(content, "\n", 11)
	if len(lines) > 10 {
		lines = lines[:10]
	}
	for _, line := range lines {
		if _, ok := transcript.MatchTimestamp(line); ok {
			return true
		}
	}
	return false
}

// groupName derives the conversation name from the known export naming
// conventions; empty when none match.
func groupName(archiveName, entryName string) string {
	if m := chatWithPattern.FindStringSubmatch(entryName); m != nil {
		return m[1]
	}
	if m := chatArchivePattern.FindStringSubmatch(path.Base(archiveName)); m != nil {
		return m[1]
	}
	if entryName != "_chat.txt" && strings.HasSuffix(strings.ToLower(entryName), ".txt") {
		return strings.TrimSuffix(entryName, path.Ext(entryName))
	}
	return ""
}

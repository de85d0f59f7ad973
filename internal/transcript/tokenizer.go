package transcript

import (
	"bufio"
	"strings"

	"github.com/chatdigest/link-digest-service/internal/model"
)

// senderTrailers are WhatsApp-generated phrases that trail a sender header
// on service lines and are not part of the name.
var senderTrailers = []string{
	"requested to join",
}

// systemPhrases mark WhatsApp membership-change notices. A message whose
// text contains any of them carries no user content, even when it embeds a
// URL-shaped substring (group invite links).
var systemPhrases = []string{
	"joined",
	"left",
	"changed the subject",
	"changed this group",
	"הצטרף",
	"הצטרפה",
	"עזב",
	"עזבה",
}

// Tokenize splits a transcript into ordered messages. A line opens a new
// message when a timestamp prefix matches; everything else is a continuation
// of the current message. Lines before the first recognized timestamp are
// discarded, and boundary lines whose timestamp fails validation drop the
// whole message they would have opened. The second return value counts
// dropped lines.
func Tokenize(file model.ChatFile) ([]model.Message, int) {
	var (
		messages []model.Message
		cur      *model.Message
		dropping bool
		dropped  int
		wasBlank bool
	)

	flush := func() {
		if cur != nil {
			cur.RawText = strings.TrimRight(cur.RawText, "\n")
			messages = append(messages, *cur)
			cur = nil
		}
	}

	sc := bufio.NewScanner(strings.NewReader(file.Content))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		line := sc.Text()

		m, boundary := MatchTimestamp(line)
		if boundary {
			flush()
			wasBlank = false
			if !m.Valid {
				dropped++
				dropping = true
				continue
			}
			dropping = false
			sender, body := splitSender(strings.TrimSpace(line[m.End:]))
			cur = &model.Message{
				RawText:   body,
				Timestamp: m.When,
				Sender:    sender,
				GroupName: file.GroupName,
			}
			continue
		}

		if dropping {
			dropped++
			continue
		}
		if cur == nil {
			// No message open yet; nothing to append to.
			continue
		}

		text := strings.TrimSpace(line)
		if text == "" {
			if !wasBlank {
				cur.RawText += "\n"
				wasBlank = true
			}
			continue
		}
		wasBlank = false
		if cur.RawText != "" {
			cur.RawText += "\n"
		}
		cur.RawText += text
	}

	flush()
	return messages, dropped
}

// splitSender separates the colon-delimited sender header from the message
// body. Service lines without a header return an empty sender and the whole
// text as body.
func splitSender(rest string) (sender, body string) {
	idx := strings.Index(rest, ":")
	if idx <= 0 {
		return "", rest
	}

	head := rest[:idx]
	// A colon inside a URL is not a sender delimiter.
	if strings.Contains(head, "http") || len(head) > 100 {
		return "", rest
	}

	head = strings.TrimSpace(strings.TrimLeft(head, "~- "))
	for _, trailer := range senderTrailers {
		head = strings.TrimSpace(strings.TrimSuffix(head, trailer))
	}
	if head == "" {
		return "", rest
	}

	return head, strings.TrimSpace(rest[idx+1:])
}

// IsSystemMessage reports whether a message is WhatsApp-generated rather
// than user content. Such messages are excluded from link extraction.
func IsSystemMessage(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range systemPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

package mailbox

import (
	"bytes"
	"io"
	"strings"

	"github.com/emersion/go-message/mail"
)

// decodeBody extracts the readable text of a raw RFC 822 message. Both
// text/plain and text/html parts are collected, concatenated in order; the
// classifier and extractor run plain substring/regexp matches, so markup is
// harmless. Undecodable input degrades to the raw bytes.
func decodeBody(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}

	reader, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return string(raw)
	}
	defer reader.Close()

	var body strings.Builder
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}

		contentType, _, err := header.ContentType()
		if err != nil {
			continue
		}
		if contentType != "text/plain" && contentType != "text/html" {
			continue
		}

		data, err := io.ReadAll(part.Body)
		if err != nil {
			continue
		}
		body.Write(data)
	}

	if body.Len() == 0 {
		return string(raw)
	}
	return body.String()
}

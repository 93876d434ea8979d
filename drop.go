package gridshell

import (
	"mime"
	"net/url"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// DropPayload is the decoded content of a drag-and-drop or paste payload.
type DropPayload struct {
	Files []string
	Text  string
}

// Empty reports whether the payload carries nothing.
func (p DropPayload) Empty() bool {
	return len(p.Files) == 0 && p.Text == ""
}

var dropTypes = map[string]bool{
	"text/uri-list": true,
	"text/html":     true,
	"text/plain":    true,
	"utf8_string":   true,
	"string":        true,
}

// AcceptsDrop reports whether payloads of the given MIME type can be decoded.
func AcceptsDrop(mimeType string) bool {
	mt, _ := parseDropType(mimeType)
	return dropTypes[mt]
}

func parseDropType(mimeType string) (string, map[string]string) {
	mt, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		mt = strings.TrimSpace(mimeType)
		if i := strings.IndexByte(mt, ';'); i >= 0 {
			mt = strings.TrimSpace(mt[:i])
		}
	}
	return strings.ToLower(mt), params
}

// DecodeDropPayload decodes a dropped or pasted payload.
//
// text/uri-list becomes a file list (file:// URLs turned into paths, other URLs kept).
// STRING is ISO-8859-1, a utf-16 charset is UTF-16 (a BOM overrides the byte order),
// and everything else is UTF-8. Bytes that do not decode are dropped.
func DecodeDropPayload(mimeType string, data []byte) DropPayload {
	mt, params := parseDropType(mimeType)

	if mt == "text/uri-list" {
		return DropPayload{Files: parseURIList(string(data))}
	}

	var dec *encoding.Decoder
	switch charset := strings.ToLower(params["charset"]); {
	case mt == "string":
		dec = charmap.ISO8859_1.NewDecoder()
	case charset == "utf-16le":
		dec = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case charset == "utf-16be":
		dec = unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	case charset == "utf-16":
		dec = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	}

	if dec == nil {
		return DropPayload{Text: strings.ToValidUTF8(string(data), "")}
	}

	out, err := dec.Bytes(data)
	if err != nil {
		return DropPayload{}
	}
	return DropPayload{Text: strings.ReplaceAll(string(out), "\uFFFD", "")}
}

func parseURIList(s string) []string {
	var files []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		u, err := url.Parse(line)
		if err == nil && u.Scheme == "file" {
			if u.Path != "" {
				files = append(files, u.Path)
			}
			continue
		}
		files = append(files, line)
	}
	return files
}

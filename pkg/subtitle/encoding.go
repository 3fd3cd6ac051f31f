package subtitle

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// TextEncoding converts between bytes and text. A nil TextEncoding means
// UTF-8.
type TextEncoding = encoding.Encoding

// LookupEncoding resolves an IANA or WHATWG encoding name such as
// "windows-1252", "utf-16le" or "shift_jis". Empty and UTF-8 names return
// nil.
func LookupEncoding(name string) (TextEncoding, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" || n == "utf-8" || n == "utf8" {
		return nil, nil
	}
	if enc, err := ianaindex.IANA.Encoding(n); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(n); err == nil {
		return enc, nil
	}
	return nil, newError(KindInvalidEncoding, fmt.Sprintf("unknown encoding %q", name), nil)
}

// EncodingName returns a display name for enc.
func EncodingName(enc TextEncoding) string {
	if enc == nil {
		return "utf-8"
	}
	if name, err := ianaindex.IANA.Name(enc); err == nil {
		return strings.ToLower(name)
	}
	if name, err := htmlindex.Name(enc); err == nil {
		return name
	}
	return fmt.Sprint(enc)
}

func decodeText(data []byte, enc TextEncoding) (string, error) {
	if enc == nil || enc == unicode.UTF8 {
		if !utf8.Valid(data) {
			return "", newError(KindInvalidEncoding, "content is not valid utf-8", nil)
		}
		return stripBOM(string(data)), nil
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", newError(KindInvalidEncoding, "cannot decode content", err)
	}
	return stripBOM(string(out)), nil
}

func encodeText(text string, enc TextEncoding) ([]byte, error) {
	if enc == nil {
		return []byte(text), nil
	}
	out, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, newError(KindInvalidEncoding, "text cannot be represented", err)
	}
	return out, nil
}

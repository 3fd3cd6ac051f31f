package subtitle

import (
	"errors"
	"sort"
	"strings"
)

// Coder decodes one subtitle format. Coders that can also write their
// format implement Encoder.
type Coder interface {
	Extension() string
	Decode(content string) (Subtitles, error)
}

type Encoder interface {
	Encode(subs Subtitles) (string, error)
}

// coders whose output is always UTF-8 bytes regardless of the requested
// text encoding
type byteEncoder interface {
	EncodeBytes(subs Subtitles) ([]byte, error)
}

// Registry maps format identifiers to coders. Lookups are case-insensitive
// and ignore a leading dot, so ".SRT", "srt" and "Srt" are the same format.
//
// A Registry must be fully populated before it is used concurrently.
type Registry struct {
	coders  map[string]Coder
	aliases map[string]string
}

func NewRegistry(coders ...Coder) *Registry {
	r := &Registry{
		coders:  make(map[string]Coder),
		aliases: make(map[string]string),
	}
	for _, c := range coders {
		r.Register(c)
	}
	return r
}

// NewDefaultRegistry returns a registry holding every built-in coder with
// its default settings.
func NewDefaultRegistry() *Registry {
	r := NewRegistry(
		SRTCoder{},
		VTTCoder{},
		SBVCoder{},
		NewSSACoder("ssa"),
		NewSSACoder("ass"),
		NewTTMLCoder(),
		LRCCoder{},
		NewCSVCoder(DefaultCSVProfile()),
		JSONCoder{},
		PodcastCoder{},
		NewSUBCoder(DefaultSUBFrameRate),
	)
	r.Alias("dfxp", "ttml")
	r.Alias("xml", "ttml")
	r.Alias("json-subtitles", "json")
	r.Alias("json-podcast", "podcast")
	return r
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// Register adds c under its extension, replacing any coder already there.
func (r *Registry) Register(c Coder) {
	key := normalizeExt(c.Extension())
	delete(r.aliases, key)
	r.coders[key] = c
}

// Alias makes alias resolve to whatever coder is registered for target,
// including coders registered later.
func (r *Registry) Alias(alias, target string) {
	r.aliases[normalizeExt(alias)] = normalizeExt(target)
}

func (r *Registry) Lookup(ext string) (Coder, error) {
	key := normalizeExt(ext)
	if target, ok := r.aliases[key]; ok {
		key = target
	}
	c, ok := r.coders[key]
	if !ok {
		return nil, errUnsupportedFormat(ext)
	}
	return c, nil
}

func (r *Registry) Encoder(ext string) (Encoder, error) {
	c, err := r.Lookup(ext)
	if err != nil {
		return nil, err
	}
	enc, ok := c.(Encoder)
	if !ok {
		return nil, newError(KindEncodingUnsupported, "", nil).withFormat(normalizeExt(ext))
	}
	return enc, nil
}

// CanEncode reports whether the coder registered for ext can write.
func (r *Registry) CanEncode(ext string) bool {
	_, err := r.Encoder(ext)
	return err == nil
}

// sorted list of registered identifiers, aliases included
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.coders)+len(r.aliases))
	for ext := range r.coders {
		out = append(out, ext)
	}
	for alias, target := range r.aliases {
		if _, ok := r.coders[target]; ok {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}

func (r *Registry) Decode(content, ext string) (Subtitles, error) {
	c, err := r.Lookup(ext)
	if err != nil {
		return Subtitles{}, err
	}
	subs, err := c.Decode(stripBOM(content))
	if err != nil {
		return Subtitles{}, tagFormat(err, normalizeExt(ext))
	}
	return subs, nil
}

// DecodeBytes converts data to text with enc (nil for UTF-8) and decodes it.
func (r *Registry) DecodeBytes(data []byte, ext string, enc TextEncoding) (Subtitles, error) {
	if _, err := r.Lookup(ext); err != nil {
		return Subtitles{}, err
	}
	content, err := decodeText(data, enc)
	if err != nil {
		return Subtitles{}, tagFormat(err, normalizeExt(ext))
	}
	return r.Decode(content, ext)
}

func (r *Registry) Encode(subs Subtitles, ext string) (string, error) {
	enc, err := r.Encoder(ext)
	if err != nil {
		return "", err
	}
	out, err := enc.Encode(subs)
	if err != nil {
		return "", tagFormat(err, normalizeExt(ext))
	}
	return out, nil
}

// EncodeBytes encodes subs and converts the text with enc (nil for UTF-8).
func (r *Registry) EncodeBytes(subs Subtitles, ext string, enc TextEncoding) ([]byte, error) {
	e, err := r.Encoder(ext)
	if err != nil {
		return nil, err
	}
	if be, ok := e.(byteEncoder); ok {
		out, err := be.EncodeBytes(subs)
		if err != nil {
			return nil, tagFormat(err, normalizeExt(ext))
		}
		return out, nil
	}
	text, err := e.Encode(subs)
	if err != nil {
		return nil, tagFormat(err, normalizeExt(ext))
	}
	out, err := encodeText(text, enc)
	if err != nil {
		return nil, tagFormat(err, normalizeExt(ext))
	}
	return out, nil
}

func tagFormat(err error, ext string) error {
	var se *Error
	if errors.As(err, &se) {
		se.withFormat(ext)
	}
	return err
}

var defaultRegistry = NewDefaultRegistry()

// Default returns the package-level registry used by Decode and Encode.
func Default() *Registry {
	return defaultRegistry
}

func Decode(content, ext string) (Subtitles, error) {
	return defaultRegistry.Decode(content, ext)
}

func DecodeBytes(data []byte, ext string, enc TextEncoding) (Subtitles, error) {
	return defaultRegistry.DecodeBytes(data, ext, enc)
}

func Encode(subs Subtitles, ext string) (string, error) {
	return defaultRegistry.Encode(subs, ext)
}

func EncodeBytes(subs Subtitles, ext string, enc TextEncoding) ([]byte, error) {
	return defaultRegistry.EncodeBytes(subs, ext, enc)
}

// Aliases returns the alias table as alias -> target.
func (r *Registry) Aliases() map[string]string {
	out := make(map[string]string, len(r.aliases))
	for k, v := range r.aliases {
		out[k] = v
	}
	return out
}

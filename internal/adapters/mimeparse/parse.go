package mimeparse

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/mikey/inbox-radio/internal/core"
)

// LabelUnread marks drop-box and file messages as not yet read
const LabelUnread = "UNREAD"

// maxDepth bounds multipart nesting
const maxDepth = 8

var decoder = &mime.WordDecoder{CharsetReader: charsetReader}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", charset, err)
	}
	return enc.NewDecoder().Reader(input), nil
}

// Parse reads one RFC 822 message and builds the same part tree a mail API
// would return. Leaf bodies are stored base64url encoded.
func Parse(id string, r io.Reader) (core.RawEmail, error) {
	msg, err := mail.ReadMessage(r)
	if err != nil {
		return core.RawEmail{}, fmt.Errorf("failed to parse message: %w", err)
	}

	if id == "" {
		id = strings.Trim(msg.Header.Get("Message-Id"), "<> ")
	}
	if id == "" {
		return core.RawEmail{}, errors.New("message has no id and no Message-Id header")
	}

	payload, err := parsePart(msg.Header, msg.Body, "", 0)
	if err != nil {
		return core.RawEmail{}, err
	}
	payload.Headers = headerList(msg.Header)

	raw := core.RawEmail{
		ID:       id,
		LabelIDs: []string{LabelUnread},
		Payload:  payload,
	}
	if date, err := msg.Header.Date(); err == nil {
		raw.InternalDate = date.UnixMilli()
	}
	return raw, nil
}

// ParseBytes is Parse over an in-memory message
func ParseBytes(id string, data []byte) (core.RawEmail, error) {
	return Parse(id, bytes.NewReader(data))
}

type partHeader interface {
	Get(key string) string
}

func parsePart(h partHeader, body io.Reader, partID string, depth int) (core.MessagePart, error) {
	contentType := h.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		// unparseable content types are read as plain text
		mediaType, params = "text/plain", nil
	}

	part := core.MessagePart{PartID: partID, MimeType: mediaType}
	if _, dparams, err := mime.ParseMediaType(h.Get("Content-Disposition")); err == nil {
		part.Filename = dparams["filename"]
	}

	if strings.HasPrefix(mediaType, "multipart/") && params["boundary"] != "" && depth < maxDepth {
		mr := multipart.NewReader(body, params["boundary"])
		for i := 0; ; i++ {
			p, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				// keep the parts read so far
				break
			}
			childID := strconv.Itoa(i)
			if partID != "" {
				childID = partID + "." + childID
			}
			child, err := parsePart(p.Header, p, childID, depth+1)
			if err != nil {
				return core.MessagePart{}, err
			}
			child.Headers = headerList(p.Header)
			part.Parts = append(part.Parts, child)
		}
		return part, nil
	}

	data, err := io.ReadAll(decodeTransfer(h.Get("Content-Transfer-Encoding"), body))
	if err != nil {
		return core.MessagePart{}, fmt.Errorf("failed to read part %q: %w", partID, err)
	}
	if strings.HasPrefix(mediaType, "text/") {
		data = toUTF8(data, params["charset"])
	}
	part.Body = core.MessageBody{
		Data: base64.RawURLEncoding.EncodeToString(data),
		Size: len(data),
	}
	return part, nil
}

func decodeTransfer(encoding string, r io.Reader) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, newlineStripper{r})
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	default:
		return r
	}
}

// toUTF8 converts a text body from its declared charset. Bodies in an
// unknown charset are kept as they are.
func toUTF8(data []byte, charset string) []byte {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8", "us-ascii":
		return data
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return data
	}
	out, err := io.ReadAll(enc.NewDecoder().Reader(bytes.NewReader(data)))
	if err != nil {
		return data
	}
	return out
}

// newlineStripper drops CR and LF so wrapped base64 decodes
type newlineStripper struct {
	r io.Reader
}

func (n newlineStripper) Read(p []byte) (int, error) {
	for {
		c, err := n.r.Read(p)
		j := 0
		for _, b := range p[:c] {
			if b != '\r' && b != '\n' {
				p[j] = b
				j++
			}
		}
		if j > 0 || err != nil {
			return j, err
		}
	}
}

// headerList flattens headers in a stable order, decoding RFC 2047 words
func headerList(h map[string][]string) []core.Header {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []core.Header
	for _, k := range keys {
		for _, v := range h[k] {
			if decoded, err := decoder.DecodeHeader(v); err == nil {
				v = decoded
			}
			out = append(out, core.Header{Name: k, Value: v})
		}
	}
	return out
}

package settings

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	rootTag     = "gavpi"
	settingsTag = "Settings"
)

// element is one Settings element as found in a document. Missing
// attributes are absent from the map.
type element map[string]string

// decodeDocument parses a settings document and returns its Settings elements
// in document order.
func decodeDocument(r io.Reader) ([]element, error) {
	src := &sourceReader{r: r}
	decoder := xml.NewDecoder(transform.NewReader(src, unicode.BOMOverride(transform.Nop)))
	decoder.CharsetReader = charsetReader

	root, err := nextRoot(decoder, src)
	if err != nil {
		return nil, err
	}
	if root.Name.Space != "" || root.Name.Local != rootTag {
		return nil, &Error{
			Kind:   KindMalformedRoot,
			Detail: fmt.Sprintf("expected first tag %s got %s", rootTag, qualifiedName(root.Name)),
		}
	}

	var elements []element
	for {
		tok, err := decoder.Token()
		if err != nil {
			return nil, src.classify(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != "" || t.Name.Local != settingsTag {
				return nil, &Error{Kind: KindUnexpectedElement, Detail: qualifiedName(t.Name)}
			}
			el := make(element, len(t.Attr))
			for _, attr := range t.Attr {
				if attr.Name.Space != "" {
					continue
				}
				el[attr.Name.Local] = attr.Value
			}
			if err := decoder.Skip(); err != nil {
				return nil, src.classify(err)
			}
			elements = append(elements, el)
		case xml.EndElement:
			if err := expectEOF(decoder, src); err != nil {
				return nil, err
			}
			return elements, nil
		case xml.CharData:
			if text := strings.TrimSpace(string(t)); text != "" {
				return nil, &Error{Kind: KindUnexpectedElement, Detail: fmt.Sprintf("text %q", text)}
			}
		case xml.Comment, xml.ProcInst, xml.Directive:
		}
	}
}

// nextRoot skips the prolog and returns the document element.
func nextRoot(decoder *xml.Decoder, src *sourceReader) (xml.StartElement, error) {
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) && src.err == nil {
			return xml.StartElement{}, &Error{Kind: KindMalformedRoot, Detail: "root element is missing"}
		}
		if err != nil {
			return xml.StartElement{}, src.classify(err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start, nil
		}
	}
}

// expectEOF allows only comments, processing instructions, and whitespace
// after the document element.
func expectEOF(decoder *xml.Decoder, src *sourceReader) error {
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) && src.err == nil {
			return nil
		}
		if err != nil {
			return src.classify(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			return &Error{Kind: KindMalformedDocument, Detail: fmt.Sprintf("multiple root elements: %s after %s", qualifiedName(t.Name), rootTag)}
		case xml.CharData:
			if text := strings.TrimSpace(string(t)); text != "" {
				return &Error{Kind: KindMalformedDocument, Detail: fmt.Sprintf("text %q after root element", text)}
			}
		}
	}
}

// sourceReader remembers the first read failure so decoder errors caused by
// I/O can be told apart from malformed content.
type sourceReader struct {
	r   io.Reader
	err error
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && s.err == nil {
		s.err = err
	}
	return n, err
}

// classify maps a decoder error to FileUnavailable when reading failed and
// to MalformedDocument otherwise.
func (s *sourceReader) classify(err error) error {
	if s.err != nil {
		return &Error{Kind: KindFileUnavailable, Err: s.err}
	}
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return &Error{Kind: KindMalformedDocument, Err: err}
}

func qualifiedName(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

// charsetReader resolves encoding declarations other than UTF-8.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	// UTF-16 input only decodes with a BOM, which BOMOverride already converted.
	if strings.HasPrefix(strings.ToLower(label), "utf-16") {
		return input, nil
	}
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported document encoding %q: %w", label, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported document encoding %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

// checkText rejects strings an XML 1.0 document cannot carry. The encoder
// would otherwise replace them with U+FFFD and the value would not survive a
// reload.
func checkText(value string) error {
	if !utf8.ValidString(value) {
		return fmt.Errorf("value %q is not valid UTF-8", value)
	}
	for _, r := range value {
		if !isXMLChar(r) {
			return fmt.Errorf("value %q contains character %U not allowed in XML", value, r)
		}
	}
	return nil
}

func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}

type settingsAttrs struct {
	DefaultProfileName     string `xml:"default_profile_name,attr"`
	DefaultProfileFilepath string `xml:"default_profile_filepath,attr"`
	VoiceInfo              string `xml:"voice_info,attr"`
	PushToTalkMode         string `xml:"pushtotalk_mode,attr"`
	PushToTalkKey          string `xml:"pushtotalk_key,attr"`
	RecognizerInfo         string `xml:"recognizer_info,attr"`
}

type document struct {
	XMLName  xml.Name      `xml:"gavpi"`
	Settings settingsAttrs `xml:"Settings"`
}

// encodeDocument renders rec as an indented settings document. Empty values
// are still written as empty attributes.
func encodeDocument(w io.Writer, rec Record) error {
	for _, attr := range rec.Attributes() {
		if err := checkText(attr[1]); err != nil {
			return fmt.Errorf("%s: %w", attr[0], err)
		}
	}

	doc := document{Settings: settingsAttrs{
		DefaultProfileName:     rec.DefaultProfileName,
		DefaultProfileFilepath: rec.DefaultProfileFilepath,
		VoiceInfo:              rec.VoiceInfo,
		PushToTalkMode:         rec.PushToTalkMode,
		PushToTalkKey:          rec.PushToTalkKey,
		RecognizerInfo:         rec.RecognizerString(),
	}}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	encoder := xml.NewEncoder(&buf)
	encoder.Indent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	buf.WriteByte('\n')

	_, err := w.Write(buf.Bytes())
	return err
}

package artifact

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding selects how raw module bytes are turned into text. MIB
// sources in the wild are not guaranteed to be in a single encoding,
// so none of these ever fail on undecodable input.
type Encoding string

const (
	// Invalid sequences are replaced with U+FFFD, a leading BOM is dropped.
	EncodingUTF8 Encoding = "utf-8"
	// Every byte maps to a rune; never lossy, sometimes wrong.
	EncodingLatin1 Encoding = "latin-1"
	// UTF-8 when the input is valid UTF-8, Latin-1 otherwise.
	EncodingAuto Encoding = "auto"
)

var AvailableEncodings = map[string]string{
	string(EncodingUTF8):   "Decode as UTF-8, replacing invalid sequences",
	string(EncodingLatin1): "Decode every byte as ISO 8859-1",
	string(EncodingAuto):   "Use UTF-8 if the file is valid UTF-8, otherwise ISO 8859-1",
}

func (e *Encoding) UnmarshalText(text []byte) error {
	val := Encoding(strings.ToLower(string(text)))
	switch val {
	case EncodingUTF8, EncodingLatin1, EncodingAuto:
		*e = val
		return nil
	case "", "utf8":
		*e = EncodingUTF8
		return nil
	case "latin1", "iso-8859-1":
		*e = EncodingLatin1
		return nil
	}

	return fmt.Errorf("invalid value for Encoding '%s'", text)
}

// Decode converts raw bytes to text according to enc. An unknown
// encoding is treated as UTF-8.
func Decode(data []byte, enc Encoding) string {
	switch enc {
	case EncodingLatin1:
		return decodeLatin1(data)
	case EncodingAuto:
		if utf8.Valid(data) {
			return decodeUTF8(data)
		}
		return decodeLatin1(data)
	default:
		return decodeUTF8(data)
	}
}

func decodeUTF8(data []byte) string {
	out, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "�")
	}
	return string(out)
}

func decodeLatin1(data []byte) string {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "�")
	}
	return string(out)
}

package vodutil

import (
	"encoding/json"
	"strings"

	"github.com/gorilla/websocket"
)

// Clamp bounds value to [min, max].
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// SimpleHash mirrors the portal's 31-bit string hash. It is only used to
// build cache keys, never for anything security related.
func SimpleHash(value string) string {
	var hash int32 = 0
	for i, ch := range value {
		if i >= 10000 {
			break
		}
		hash = hash<<5 - hash + int32(ch)
	}
	if hash < 0 {
		hash = -hash
	}
	return itoa(uint32(hash))
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// EncodeQueryValue percent-encodes everything outside the RFC 3986
// unreserved set. Twitch's usher endpoint rejects '+' as a space, which
// rules out url.Values.Encode for token payloads.
func EncodeQueryValue(s string) string {
	var out strings.Builder
	for _, b := range []byte(s) {
		if b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' ||
			b == '-' || b == '_' || b == '.' || b == '~' {
			out.WriteByte(b)
		} else {
			const hex = "0123456789ABCDEF"
			out.WriteByte('%')
			out.WriteByte(hex[b>>4])
			out.WriteByte(hex[b&0xf])
		}
	}
	return out.String()
}

// NormalizeLanguage lower-cases and trims a language code, mapping nil
// metadata to the empty string.
func NormalizeLanguage(language string) string {
	return strings.ToLower(strings.TrimSpace(language))
}

type WebsocketResponse struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
	Error string      `json:"error"`
}

func SendWebsocketResponse(conn *websocket.Conn, event string, data interface{}, err error) error {
	res := WebsocketResponse{
		Event: event,
		Data:  data,
	}
	if err != nil {
		res.Error = err.Error()
	}
	bdata, merr := json.Marshal(res)
	if merr != nil {
		return merr
	}
	return conn.WriteMessage(websocket.TextMessage, bdata)
}

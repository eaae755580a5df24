package session

import "encoding/json"

// textComponent is the minimal JSON chat-component shape
// `{"text": "..."}` vanilla clients accept for disconnect/kick reasons.
// Rich text components (click events, translated strings, formatting) are
// explicitly out of scope; every reason this core sends is plain text.
type textComponent struct {
	Text string `json:"text"`
}

// Reason encodes a plain-text disconnect/kick reason as a chat component,
// for use in LoginDisconnect.ReasonJSON / PlayDisconnect.ReasonJSON.
func Reason(text string) string {
	b, err := json.Marshal(textComponent{Text: text})
	if err != nil {
		// json.Marshal on a struct of a single string field cannot fail.
		return `{"text":""}`
	}
	return string(b)
}

package assistant

import (
	"encoding/json"
	"fmt"
)

type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Turn is one entry of the transcript handed to the model. Content is usually
// a string, but structured values are accepted and serialized to text before
// transmission.
type Turn struct {
	Speaker Speaker
	Content any
}

func stringify(content any) string {
	switch v := content.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}

		return string(data)
	}
}

// trigger/event.go
package trigger

import (
	"encoding/json"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/onlyoffice/signupgate/gate"
)

// Event is a decoded Cognito PreSignUp event. Raw holds the original bytes
// so the accept path can hand them back untouched, including fields this
// package does not model.
type Event struct {
	Raw           json.RawMessage
	TriggerSource string
	UserPoolID    string
	UserName      string

	attrs map[string]any
}

// Decode parses a raw PreSignUp event. Keys are matched exactly, so
// "Request" or "USERATTRIBUTES" never stand in for request.userAttributes.
// A payload that is not a JSON object yields an unreadable rejection; a
// request or userAttributes that is absent or not an object reads as a
// missing email.
func Decode(raw json.RawMessage) (Event, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return Event{}, gate.Reject(gate.ReasonUnreadable)
	}
	ev := Event{
		Raw:           raw,
		TriggerSource: stringField(top, "triggerSource"),
		UserPoolID:    stringField(top, "userPoolId"),
		UserName:      stringField(top, "userName"),
	}

	request := objectField(top, "request")
	userAttrs := objectField(request, "userAttributes")
	if userAttrs == nil {
		return ev, nil
	}
	ev.attrs = make(map[string]any, 1)
	if v, ok := userAttrs["email"]; ok {
		var email any
		if err := json.Unmarshal(v, &email); err != nil {
			return Event{}, gate.Reject(gate.ReasonUnreadable)
		}
		ev.attrs["email"] = email
	}
	return ev, nil
}

// objectField returns m[key] decoded as a JSON object, or nil when the key
// is absent, null or holds anything other than an object.
func objectField(m map[string]json.RawMessage, key string) map[string]json.RawMessage {
	v, ok := m[key]
	if !ok {
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(v, &obj); err != nil {
		return nil
	}
	return obj
}

// stringField returns m[key] when it is a JSON string, else "".
func stringField(m map[string]json.RawMessage, key string) string {
	var s string
	if v, ok := m[key]; ok {
		_ = json.Unmarshal(v, &s)
	}
	return s
}

// EmailAttribute implements gate.EmailSource.
func (e Event) EmailAttribute() (any, bool) {
	v, ok := e.attrs["email"]
	return v, ok
}

// PreSignup adapts the typed aws-lambda-go event to gate.EmailSource.
type PreSignup events.CognitoEventUserPoolsPreSignup

// EmailAttribute implements gate.EmailSource.
func (p PreSignup) EmailAttribute() (any, bool) {
	v, ok := p.Request.UserAttributes["email"]
	return v, ok
}

// emailDomain returns the part after the last '@' for logging, or "".
func emailDomain(src gate.EmailSource) string {
	v, ok := src.EmailAttribute()
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	at := strings.LastIndexByte(s, '@')
	if at < 0 {
		return ""
	}
	return s[at+1:]
}

package soa

import (
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/srgio-es/teamcenter-mcp-server-sub000/pkg/tcerr"
)

// clientID identifies this client to the backend in every request header.
const clientID = "TcMCPServer"

// defaultLocale is sent with login requests unless the caller overrides it.
const defaultLocale = "en_US"

// EnvelopeHeader carries the fixed protocol flags every SOA request needs.
type EnvelopeHeader struct {
	State  EnvelopeState  `json:"state"`
	Policy map[string]any `json:"policy"`
}

// EnvelopeState holds the protocol flags. The backend requires all four
// booleans set; clientID is free-form.
type EnvelopeState struct {
	Stateless                bool   `json:"stateless"`
	UnloadObjects            bool   `json:"unloadObjects"`
	EnableServerStateHeaders bool   `json:"enableServerStateHeaders"`
	FormatProperties         bool   `json:"formatProperties"`
	ClientID                 string `json:"clientID"`
}

// Envelope is the wire-level wrapper for every SOA call. The body shape is
// determined solely by the (service, operation) pair.
type Envelope struct {
	Header EnvelopeHeader `json:"header"`
	Body   map[string]any `json:"body"`
}

// BuildEnvelope produces the request envelope for op. Login and logout have
// fixed body shapes; every other pair passes params through verbatim as the
// body (the parameter shape is owned by the caller).
func BuildEnvelope(op Operation, params map[string]any) (*Envelope, error) {
	env := &Envelope{
		Header: EnvelopeHeader{
			State: EnvelopeState{
				Stateless:                true,
				UnloadObjects:            true,
				EnableServerStateHeaders: true,
				FormatProperties:         true,
				ClientID:                 clientID,
			},
			Policy: map[string]any{},
		},
	}

	switch op {
	case OpLogin, OpLoginLegacy:
		body, err := loginBody(params)
		if err != nil {
			return nil, err
		}
		env.Body = body
	case OpLogout:
		env.Body = map[string]any{}
	default:
		if params == nil {
			params = map[string]any{}
		}
		env.Body = params
	}
	return env, nil
}

// loginBody validates the credentials and builds the login body. The field
// name "descrimator" is the backend's own spelling; it must be unique per
// call so the backend does not collapse repeated logins into one.
func loginBody(params map[string]any) (map[string]any, error) {
	user, _ := params["username"].(string)
	password, _ := params["password"].(string)
	if user == "" || password == "" {
		return nil, tcerr.New(tcerr.CodeDataValidation, "login requires username and password")
	}

	group, _ := params["group"].(string)
	role, _ := params["role"].(string)
	locale, _ := params["locale"].(string)
	if locale == "" {
		locale = defaultLocale
	}

	return map[string]any{
		"credentials": map[string]any{
			"user":        user,
			"password":    password,
			"group":       group,
			"role":        role,
			"locale":      locale,
			"descrimator": discriminator(),
		},
	}, nil
}

// discriminator returns a string unique per call.
func discriminator() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixNano(), uuid.NewString()[:8])
}

// Redacted returns a copy of the envelope body safe for logging: the
// credential password, when present, is masked. The header carries no
// secrets and is omitted.
func (e *Envelope) Redacted() map[string]any {
	body := maps.Clone(e.Body)
	creds, ok := body["credentials"].(map[string]any)
	if !ok {
		return body
	}
	redacted := maps.Clone(creds)
	if _, has := redacted["password"]; has {
		redacted["password"] = "***"
	}
	body["credentials"] = redacted
	return body
}

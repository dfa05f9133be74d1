package errors

import (
	"encoding/json"
	"errors"

	pkgerrors "github.com/pkg/errors"

	"github.com/fluxcd/graphdiff/pkg/diff"
	"github.com/fluxcd/graphdiff/pkg/format"
)

// Representation of errors as shown to users, of the command line or
// the API. These are divided into a small number of categories,
// essentially distinguished by whose fault the error is; i.e., is
// this error:
//  - a problem with the service, so worth reporting?
//  - not going to work until the user changes what they asked for?
type Error struct {
	Type Type
	// a message that can be printed out for the user
	Help string `json:"help"`
	// the underlying error that can be e.g., logged for developers to look at
	Err error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

type Type string

const (
	// The request looked fine on paper, but something went wrong
	Server Type = "server"
	// The thing you mentioned, whatever it is, just doesn't exist
	Missing Type = "missing"
	// The request was well-formed, but asks for something that can't
	// be done (e.g., comparing nothing with nothing)
	User Type = "user"
)

func IsMissing(err error) bool {
	if err, ok := err.(*Error); ok && err.Type == Missing {
		return true
	}
	return false
}

func IsUser(err error) bool {
	if err, ok := err.(*Error); ok && err.Type == User {
		return true
	}
	return false
}

func (e *Error) MarshalJSON() ([]byte, error) {
	var errMsg string
	if e.Err != nil {
		errMsg = e.Err.Error()
	}
	jsonable := &struct {
		Type string `json:"type"`
		Help string `json:"help"`
		Err  string `json:"error,omitempty"`
	}{
		Type: string(e.Type),
		Help: e.Help,
		Err:  errMsg,
	}
	return json.Marshal(jsonable)
}

func (e *Error) UnmarshalJSON(data []byte) error {
	jsonable := &struct {
		Type string `json:"type"`
		Help string `json:"help"`
		Err  string `json:"error,omitempty"`
	}{}
	if err := json.Unmarshal(data, &jsonable); err != nil {
		return err
	}
	e.Type = Type(jsonable.Type)
	e.Help = jsonable.Help
	if jsonable.Err != "" {
		e.Err = errors.New(jsonable.Err)
	}
	return nil
}

func CoverAllError(err error) *Error {
	return &Error{
		Type: Server,
		Err:  err,
		Help: `Error: ` + err.Error() + `

We don't have a specific help message for the error above.

It would help us remedy this if you report it, saying what you were
comparing when you saw this, and quoting the message at the top.
`,
	}
}

// For returns the user-facing form of err. Errors the user can do
// something about get their own help; anything else is covered by
// CoverAllError.
func For(err error) *Error {
	switch cause := pkgerrors.Cause(err); {
	case cause == nil:
		return nil
	case diff.IsInvalidComparison(err):
		return &Error{
			Type: User,
			Err:  err,
			Help: `Error: ` + err.Error() + `

There was nothing on either side to compare. At least one of the two
documents must hold a value.
`,
		}
	case cause == format.ErrUnknownFormat:
		return &Error{
			Type: User,
			Err:  err,
			Help: `Error: ` + err.Error() + `

The output format must be one of text, table, json or yaml.
`,
		}
	default:
		if e, ok := cause.(*Error); ok {
			return e
		}
		return CoverAllError(err)
	}
}

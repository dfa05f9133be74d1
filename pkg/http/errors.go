package http

import (
	"errors"

	fluxerr "github.com/fluxcd/graphdiff/pkg/errors"
)

func MakeAPINotFound(path string) *fluxerr.Error {
	return &fluxerr.Error{
		Type: fluxerr.Missing,
		Help: `The API endpoint requested is not supported by this server.

This indicates that your client is either out of date, or faulty. The
endpoints served are

    GET  /v1/ping
    GET  /v1/version
    POST /v1/compare

and the path requested was

    ` + path + `
`,
		Err: errors.New("API endpoint not found"),
	}
}

// MakeBadRequest is returned when the body of a request can't be
// made sense of.
func MakeBadRequest(err error) *fluxerr.Error {
	return &fluxerr.Error{
		Type: fluxerr.User,
		Help: `Error: ` + err.Error() + `

The request body should be a JSON object of the form

    {"from": ..., "to": ..., "options": {...}}

where either "from" or "to" may be left out, and "options" takes the
same fields as a graphdiff config file.
`,
		Err: err,
	}
}

package message

import (
	"fmt"
	"strconv"
)

// RestStatus is the HTTP status code a server reports for one operation.
// The zero value means "no status".
type RestStatus int

const (
	StatusOK                  RestStatus = 200
	StatusCreated             RestStatus = 201
	StatusAccepted            RestStatus = 202
	StatusNoContent           RestStatus = 204
	StatusBadRequest          RestStatus = 400
	StatusUnauthorized        RestStatus = 401
	StatusForbidden           RestStatus = 403
	StatusNotFound            RestStatus = 404
	StatusConflict            RestStatus = 409
	StatusTooManyRequests     RestStatus = 429
	StatusInternalServerError RestStatus = 500
	StatusServiceUnavailable  RestStatus = 503
)

var restStatusNames = map[RestStatus]string{
	StatusOK:                  "OK",
	StatusCreated:             "CREATED",
	StatusAccepted:            "ACCEPTED",
	StatusNoContent:           "NO_CONTENT",
	StatusBadRequest:          "BAD_REQUEST",
	StatusUnauthorized:        "UNAUTHORIZED",
	StatusForbidden:           "FORBIDDEN",
	StatusNotFound:            "NOT_FOUND",
	StatusConflict:            "CONFLICT",
	StatusTooManyRequests:     "TOO_MANY_REQUESTS",
	StatusInternalServerError: "INTERNAL_SERVER_ERROR",
	StatusServiceUnavailable:  "SERVICE_UNAVAILABLE",
}

// RestStatusFromCode converts an integer code. Any code in [100, 599] is accepted.
func RestStatusFromCode(code int64) (RestStatus, error) {
	if code < 100 || code > 599 {
		return 0, fmt.Errorf("invalid status code %d", code)
	}
	return RestStatus(code), nil
}

// IsSet reports whether a status is present
func (s RestStatus) IsSet() bool {
	return s != 0
}

// Code returns the numeric HTTP status code
func (s RestStatus) Code() int {
	return int(s)
}

// String returns the canonical name ("NOT_FOUND") or the code for unnamed statuses
func (s RestStatus) String() string {
	if name, ok := restStatusNames[s]; ok {
		return name
	}
	return strconv.Itoa(int(s))
}

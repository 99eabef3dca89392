package result

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_OK_writesJSONBody(t *testing.T) {
	assert := assert.New(t)

	type payload struct {
		Message string `json:"message"`
	}

	r := OK(payload{Message: "hi"}, "user '%s' said hi", "vriska")

	assert.Equal("user 'vriska' said hi", r.InternalMsg)
	assert.False(r.IsErr)

	w := httptest.NewRecorder()
	r.WriteResponse(w)

	assert.Equal(http.StatusOK, w.Code)
	assert.Equal("application/json", w.Header().Get("Content-Type"))
	assert.Equal("nosniff", w.Header().Get("X-Content-Type-Options"))

	var got payload
	err := json.Unmarshal(w.Body.Bytes(), &got)
	assert.NoError(err)
	assert.Equal("hi", got.Message)
}

func Test_errorConstructors(t *testing.T) {
	testCases := []struct {
		name          string
		r             Result
		expectStatus  int
		expectUserMsg string
	}{
		{
			name:          "NotFound",
			r:             NotFound(),
			expectStatus:  http.StatusNotFound,
			expectUserMsg: "The requested resource was not found",
		},
		{
			name:          "BadRequest",
			r:             BadRequest("that makes no sense"),
			expectStatus:  http.StatusBadRequest,
			expectUserMsg: "that makes no sense",
		},
		{
			name:          "Conflict",
			r:             Conflict("already there"),
			expectStatus:  http.StatusConflict,
			expectUserMsg: "already there",
		},
		{
			name:          "Forbidden",
			r:             Forbidden(),
			expectStatus:  http.StatusForbidden,
			expectUserMsg: "You don't have permission to do that",
		},
		{
			name:          "Unauthorized with default message",
			r:             Unauthorized(""),
			expectStatus:  http.StatusUnauthorized,
			expectUserMsg: "You are not authorized to do that",
		},
		{
			name:          "Unauthorized with custom message",
			r:             Unauthorized("bad token"),
			expectStatus:  http.StatusUnauthorized,
			expectUserMsg: "bad token",
		},
		{
			name:          "InternalServerError",
			r:             InternalServerError("oh no: %d", 413),
			expectStatus:  http.StatusInternalServerError,
			expectUserMsg: "An internal server error occurred",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.True(tc.r.IsErr)

			w := httptest.NewRecorder()
			tc.r.WriteResponse(w)

			assert.Equal(tc.expectStatus, w.Code)

			var body ErrorResponse
			err := json.Unmarshal(w.Body.Bytes(), &body)
			assert.NoError(err)
			assert.Equal(tc.expectUserMsg, body.Error)
			assert.Equal(tc.expectStatus, body.Status)
		})
	}
}

func Test_Unauthorized_setsChallengeHeader(t *testing.T) {
	assert := assert.New(t)

	w := httptest.NewRecorder()
	Unauthorized("").WriteResponse(w)

	assert.Contains(w.Header().Get("WWW-Authenticate"), "Basic realm=")
}

func Test_MethodNotAllowed_namesMethodAndPath(t *testing.T) {
	assert := assert.New(t)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/info", nil)

	w := httptest.NewRecorder()
	MethodNotAllowed(req).WriteResponse(w)

	assert.Equal(http.StatusMethodNotAllowed, w.Code)

	var body ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &body)
	assert.NoError(err)
	assert.Equal("Method PUT is not allowed for /api/v1/info", body.Error)
}

func Test_NoContent_hasEmptyBody(t *testing.T) {
	assert := assert.New(t)

	w := httptest.NewRecorder()
	NoContent("user deleted").WriteResponse(w)

	assert.Equal(http.StatusNoContent, w.Code)
	assert.Empty(w.Body.Bytes())
}

func Test_Redirection(t *testing.T) {
	assert := assert.New(t)

	w := httptest.NewRecorder()
	Redirection("/api/v1/info").WriteResponse(w)

	assert.Equal(http.StatusPermanentRedirect, w.Code)
	assert.Equal("/api/v1/info", w.Header().Get("Location"))
}

func Test_TextErr_writesPlainText(t *testing.T) {
	assert := assert.New(t)

	w := httptest.NewRecorder()
	TextErr(http.StatusInternalServerError, "something broke", "panic: %v", "a bad thing").WriteResponse(w)

	assert.Equal(http.StatusInternalServerError, w.Code)
	assert.Equal("text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal("something broke", w.Body.String())
}

func Test_WithHeader(t *testing.T) {
	assert := assert.New(t)

	original := OK(map[string]string{"a": "1"})
	withHdr := original.WithHeader("X-Custom", "yes")

	w := httptest.NewRecorder()
	withHdr.WriteResponse(w)
	assert.Equal("yes", w.Header().Get("X-Custom"))

	// the original must not have picked up the header
	w2 := httptest.NewRecorder()
	original.WriteResponse(w2)
	assert.Empty(w2.Header().Get("X-Custom"))
}

func Test_WriteResponse_panicsOnZeroResult(t *testing.T) {
	assert := assert.New(t)

	var r Result

	assert.Panics(func() {
		r.WriteResponse(httptest.NewRecorder())
	})
}

func Test_PrepareMarshaledResponse_badBody(t *testing.T) {
	assert := assert.New(t)

	// channels cannot be marshaled to JSON
	r := OK(make(chan int))

	err := r.PrepareMarshaledResponse()
	assert.Error(err)

	assert.Panics(func() {
		OK(make(chan int)).WriteResponse(httptest.NewRecorder())
	})
}

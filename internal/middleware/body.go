package middleware

import (
	"bytes"
	"io"
	"net/http"
)

// readAndRestoreBody reads the full request body and replaces it so the
// next handler can read it again.
func readAndRestoreBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	buf, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(buf))
	return buf, nil
}

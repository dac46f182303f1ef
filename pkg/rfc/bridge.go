package rfc

import (
	"bufio"
	"bytes"
	"net/http"
	"net/http/httputil"
)

// DumpResponse serializes the whole response (status line, headers, body) into
// an independent snapshot. The body is drained and restored on the original
// response, so the caller can still consume it — the stored bytes are a copy,
// never the live body.
func DumpResponse(res *http.Response) ([]byte, error) {
	return httputil.DumpResponse(res, true)
}

// ReadResponse rebuilds a response from a stored snapshot. Returns nil when
// the snapshot is empty or unreadable.
func ReadResponse(snapshot []byte, req *http.Request) *http.Response {
	if len(snapshot) == 0 {
		return nil
	}

	res, err := http.ReadResponse(bufio.NewReader(bytes.NewBuffer(snapshot)), req)
	if err != nil {
		return nil
	}

	return res
}

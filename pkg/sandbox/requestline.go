package sandbox

import (
	"fmt"
	"net/http"
)

// RequestLine formats the request that produced resp as
// "<METHOD> <URI> HTTP/<major>.<minor>". It returns "" for a nil response.
// A response without a request yields empty method and URI tokens.
func RequestLine(resp *http.Response) string {
	if resp == nil {
		return ""
	}

	var method, uri, version string
	if req := resp.Request; req != nil {
		method = req.Method
		if req.URL != nil {
			uri = req.URL.String()
		}
		version = fmt.Sprintf("%d.%d", req.ProtoMajor, req.ProtoMinor)
	}
	return method + " " + uri + " HTTP/" + version
}

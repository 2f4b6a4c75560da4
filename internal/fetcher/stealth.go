package fetcher

import (
	"net/http"
)

// browserHeaders are the navigation headers a desktop Chrome sends with a
// top-level page load. They are only added when the request lacks them.
var browserHeaders = [][2]string{
	{"Upgrade-Insecure-Requests", "1"},
	{"Sec-Fetch-Dest", "document"},
	{"Sec-Fetch-Mode", "navigate"},
	{"Sec-Fetch-Site", "none"},
	{"Sec-Fetch-User", "?1"},
	{"Sec-Ch-Ua", `"Chromium";v="120", "Not?A_Brand";v="8", "Google Chrome";v="120"`},
	{"Sec-Ch-Ua-Mobile", "?0"},
	{"Sec-Ch-Ua-Platform", `"Windows"`},
}

// stealthTransport fills in browser navigation headers before delegating.
type stealthTransport struct {
	inner http.RoundTripper
}

func (t *stealthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for _, h := range browserHeaders {
		if req.Header.Get(h[0]) == "" {
			req.Header.Set(h[0], h[1])
		}
	}
	return t.inner.RoundTrip(req)
}

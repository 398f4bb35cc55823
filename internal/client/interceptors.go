// ABOUTME: Request and response interceptors for the gateway
// ABOUTME: Bearer token injection and centralized 401 handling

package client

import "net/http"

// RequestInterceptor mutates an outbound request before it is sent
type RequestInterceptor func(req *http.Request) error

// ResponseInterceptor observes every response before error mapping
type ResponseInterceptor func(resp *http.Response)

// TokenSource supplies the current bearer token, empty when logged out
type TokenSource interface {
	Token() string
}

// UnauthorizedHandler reacts to a 401 from the backend
type UnauthorizedHandler interface {
	HandleUnauthorized()
}

// BearerAuth attaches "Authorization: Bearer <token>" when src has a token
func BearerAuth(src TokenSource) RequestInterceptor {
	return func(req *http.Request) error {
		if token := src.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return nil
	}
}

// UnauthorizedRedirect calls h once for each 401 response
func UnauthorizedRedirect(h UnauthorizedHandler) ResponseInterceptor {
	return func(resp *http.Response) {
		if resp.StatusCode == http.StatusUnauthorized {
			h.HandleUnauthorized()
		}
	}
}

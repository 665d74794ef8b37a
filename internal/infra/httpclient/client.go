package httpclient

import (
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

func New(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

package model

import "time"

// CheckRequest is the public availability check payload.
type CheckRequest struct {
	ZipCode   string `json:"zip_code"`
	ProductID int64  `json:"product_id"`
	Token     string `json:"token"`
}

// CheckResponse is returned to the storefront after a check.
type CheckResponse struct {
	Availability string `json:"availability"`
	Message      string `json:"message"`
	ZipCode      string `json:"zip_code"`
}

// CheckResult is the session-scoped record of the most recent availability
// check, consulted again at checkout time. Each new check for the same
// session overwrites the previous result.
type CheckResult struct {
	Availability string    `json:"availability"`
	ProductID    int64     `json:"product_id"`
	ZipCode      string    `json:"zip_code"`
	CheckedAt    time.Time `json:"checked_at"`
}

// TokenResponse carries a freshly issued check token.
type TokenResponse struct {
	Token string `json:"token"`
}

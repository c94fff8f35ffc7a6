package apiclient

import (
	"errors"
	"net/url"
)

// secretParams are query parameters never written to logs or observers.
var secretParams = []string{"session_id"}

const redacted = "REDACTED"

// RedactURL returns endpoint with secret query values masked. Unparseable
// input is returned unchanged.
func RedactURL(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.RawQuery == "" {
		return endpoint
	}
	q := u.Query()
	changed := false
	for _, p := range secretParams {
		if q.Has(p) {
			q.Set(p, redacted)
			changed = true
		}
	}
	if !changed {
		return endpoint
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// redactErr masks the URL carried by transport errors.
func redactErr(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		ue.URL = RedactURL(ue.URL)
	}
	return err
}

package models

// Identity is the verified caller. Credential is the raw bearer token, forwarded to
// the atomic appointment service so it can authorize the call itself.
type Identity struct {
	SubjectID  string
	Claims     map[string]interface{}
	Credential string
}

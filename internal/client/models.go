package client

// Detail is one relying-party client registration as this core consumes it.
// Registration management lives in another service; this core only reads.
type Detail struct {
	ID             string
	Name           string
	RelyingPartyID string
	LogoURI        string

	// RedirectURIs is the exhaustive set of redirect targets the client may
	// use; requests naming anything else are rejected.
	RedirectURIs []string

	// ACRValues is the ordered list of ACR URIs registered for the client.
	// Order matters: it is the fallback precedence for ACR resolution.
	ACRValues []string

	// Claims is the hard ceiling on what may ever be disclosed to this client.
	Claims []string

	// SecretHash is the bcrypt hash of the client secret, used by the token
	// exchange. Empty for public clients.
	SecretHash string

	Status string
}

// StatusActive marks registrations this core will serve.
const StatusActive = "ACTIVE"

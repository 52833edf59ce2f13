package entity

// ServiceIdentity is the verified caller identity carried by an internal
// service token.
type ServiceIdentity struct {
	Service string `json:"service"`
	Scope   string `json:"scope"`
}

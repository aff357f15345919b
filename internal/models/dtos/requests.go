package dtos

// CreateRegistrationReq is the admin API payload for registering a number.
type CreateRegistrationReq struct {
	FullName    string `json:"full_name"`
	CallSign    string `json:"call_sign"`
	PhoneNumber string `json:"phone_number"`
	OptedIn     bool   `json:"opted_in"`
}

// UpdateOptInReq toggles a registration's opt-in flag.
type UpdateOptInReq struct {
	OptedIn bool `json:"opted_in"`
}

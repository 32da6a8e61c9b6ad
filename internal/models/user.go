package models

// User is the single registered demo account. At most one exists at a time;
// registering again overwrites it. No password is retained anywhere — the
// demo login matches on email only.
type User struct {
	// Name is the display name given at registration.
	Name string `json:"name"`

	// Email identifies the account. Login succeeds iff it matches exactly.
	Email string `json:"email"`
}

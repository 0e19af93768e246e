package models

import "time"

// User is a registered account. The password is stored and compared
// verbatim: this is a demo app and the reveal-password feature depends on
// it. Do not reuse this as a security model.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

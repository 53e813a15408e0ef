package models

import "strings"

// Identity is the verified Google principal for a login or a session.
type Identity struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	EmailVerified bool   `json:"-"`
}

// Profile is the public view of an identity returned to clients.
type Profile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (i *Identity) Profile() Profile {
	return Profile{
		ID:      i.ID,
		Email:   i.Email,
		Name:    i.Name,
		Picture: i.Picture,
	}
}

// HasEmail compares case-insensitively against the identity's email.
func (i *Identity) HasEmail(email string) bool {
	return i.Email != "" && strings.EqualFold(i.Email, email)
}

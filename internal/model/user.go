package model

import "time"

// AdminUser is a back-office account. Password holds either the plaintext
// value or a bcrypt hash, depending on how the account was created.
type AdminUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminUserInput is the payload for creating an admin user.
type AdminUserInput struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminUserPatch carries the fields to merge into an existing admin user.
type AdminUserPatch struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p *AdminUserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Password == nil
}

// AdminUserView is an admin user without credentials.
type AdminUserView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// View strips the password.
func (u AdminUser) View() AdminUserView {
	return AdminUserView{ID: u.ID, Name: u.Name, Username: u.Username, Email: u.Email}
}

// LoginRequest is the admin login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is returned after a successful login.
type LoginResult struct {
	Token     string        `json:"token"`
	User      AdminUserView `json:"user"`
	LoginTime time.Time     `json:"loginTime"`
	ExpiresAt time.Time     `json:"expiresAt"`
}

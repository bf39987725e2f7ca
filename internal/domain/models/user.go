package models

// User is an employee account. Password holds the bcrypt hash.
type User struct {
	Base
	Email    string `gorm:"size:160;uniqueIndex;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"`
	Name     string `gorm:"size:120;not null" json:"name"`
	Role     Role   `gorm:"size:16;not null;default:WORKER" json:"role"`
}

// Principal is the authenticated user carried in the request context.
type Principal struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
}

// Principal returns the session identity of u.
func (u User) Principal() Principal {
	return Principal{UserID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

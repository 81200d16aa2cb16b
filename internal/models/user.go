package models

// User is an account row. Passwords are stored as bcrypt hashes and never
// serialized.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:256" json:"name"`
	Username string `gorm:"size:256;uniqueIndex" json:"username"`
	Password string `gorm:"size:256" json:"-"`
}

func (User) TableName() string { return "uno_user" }

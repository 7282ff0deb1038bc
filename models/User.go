package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	FirstName      string         `json:"firstName"`
	LastName       string         `json:"lastName"`
	Email          string         `json:"email"`
	PhoneNumber    string         `json:"phoneNumber"`
	Password       string         `json:"-"`
	SocialLogin    bool           `json:"socialLogin"`
	SocialProvider string         `json:"socialProvider"`
	AvatarURL      string         `json:"avatarURL"`
	Languages      datatypes.JSON `json:"languages"`
	Properties     []Property     `json:"properties" gorm:"foreignKey:HostID;references:ID"`
	Role           string         `json:"role" gorm:"type:varchar(20);default:host;index"` // host, admin
}

// MarshalJSON flattens the Languages JSON column into a plain string slice
// so clients never see raw bytes.
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		Languages []string `json:"languages"`
		*Alias
	}{
		Languages: []string{},
		Alias:     (*Alias)(u),
	}

	if u.Languages != nil {
		var languages []string
		if err := json.Unmarshal(u.Languages, &languages); err == nil {
			aux.Languages = languages
		}
	}

	return json.Marshal(aux)
}

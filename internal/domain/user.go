package domain

import "time"

// User is the account document. The auth/refresh pair stored here is the only
// active session for the account; issuing a new pair overwrites it.
type User struct {
	UserID     string `bson:"user_id" json:"user_id"`
	Email      string `bson:"email" json:"email"`
	KakaoID    string `bson:"kakao_id,omitempty" json:"-"`
	FacebookID string `bson:"facebook_id,omitempty" json:"-"`
	Password   string `bson:"password,omitempty" json:"-"`

	AuthToken    string `bson:"auth_token,omitempty" json:"-"`
	RefreshToken string `bson:"refresh_token,omitempty" json:"-"`
	// AccessToken predates the auth/refresh pair; logout still clears it.
	AccessToken string `bson:"access_token,omitempty" json:"-"`

	TmpPassword           string     `bson:"tmp_password,omitempty" json:"-"`
	TmpPasswordValidUntil *time.Time `bson:"tmp_password_valid_period,omitempty" json:"-"`

	Name     string     `bson:"name,omitempty" json:"name"`
	Birthday *time.Time `bson:"birthday,omitempty" json:"birthday,omitempty"`
	Gender   string     `bson:"gender,omitempty" json:"gender"`
	Picture  string     `bson:"picture,omitempty" json:"picture"`

	Place        string   `bson:"place,omitempty" json:"place,omitempty"`
	Space        string   `bson:"space,omitempty" json:"space,omitempty"`
	Purpose      string   `bson:"purpose,omitempty" json:"purpose,omitempty"`
	PreferScents []string `bson:"prefer_scents,omitempty" json:"prefer_scents,omitempty"`

	// Devices maps device id to display name for devices this account owns.
	Devices map[string]string `bson:"devices,omitempty" json:"devices"`

	RegDate time.Time `bson:"reg_date" json:"-"`
}

// Marshal is the user_info wire shape.
func (u *User) Marshal() map[string]interface{} {
	birthday := ""
	if u.Birthday != nil {
		birthday = u.Birthday.UTC().Format(time.RFC3339)
	}
	devices := u.Devices
	if devices == nil {
		devices = map[string]string{}
	}
	return map[string]interface{}{
		"user_id":  u.UserID,
		"email":    u.Email,
		"name":     u.Name,
		"gender":   u.Gender,
		"picture":  u.Picture,
		"devices":  devices,
		"birthday": birthday,
	}
}

// HasTmpPasswordExpired reports whether the temporary password window has
// closed. Accounts without a window are never expired.
func (u *User) HasTmpPasswordExpired(now time.Time) bool {
	if u.TmpPasswordValidUntil == nil {
		return false
	}
	return !now.Before(*u.TmpPasswordValidUntil)
}

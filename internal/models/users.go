package models

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const SessionKeyUserID = "userId"

type User struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time  `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"-" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Name      string     `json:"name" gorm:"size:128"`
	Email     string     `json:"email" gorm:"size:128;uniqueIndex"`
	Password  string     `json:"-" gorm:"size:128"`
	Enabled   bool       `json:"-" gorm:"default:true"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// HashPassword hashes with sha256 and base64-encodes the digest. The row
// never stores the plaintext.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func CheckPassword(user *User, password string) bool {
	hashed := HashPassword(password)
	return subtle.ConstantTimeCompare([]byte(user.Password), []byte(hashed)) == 1
}

func CreateUser(db *gorm.DB, name, email, password string) (*User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	if IsExistsByEmail(db, email) {
		return nil, ErrEmailTaken
	}
	user := &User{
		Name:     name,
		Email:    email,
		Password: HashPassword(password),
		Enabled:  true,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func GetUserByID(db *gorm.DB, id uint) (*User, error) {
	var user User
	err := db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func GetUserByEmail(db *gorm.DB, email string) (*User, error) {
	var user User
	err := db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func IsExistsByEmail(db *gorm.DB, email string) bool {
	var count int64
	db.Model(&User{}).Where("email = ?", email).Count(&count)
	return count > 0
}

func ListUsers(db *gorm.DB) ([]User, error) {
	var users []User
	err := db.Order("id").Find(&users).Error
	return users, err
}

// UpdateUser overwrites name/email/password for an existing row.
func UpdateUser(db *gorm.DB, id uint, name, email, password string) error {
	vals := map[string]any{
		"name":  name,
		"email": email,
	}
	if password != "" {
		vals["password"] = HashPassword(password)
	}
	result := db.Model(&User{}).Where("id = ?", id).Updates(vals)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func DeleteUser(db *gorm.DB, id uint) error {
	result := db.Where("id = ?", id).Delete(&User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetLastLogin stamps a successful login.
func SetLastLogin(db *gorm.DB, user *User) error {
	now := time.Now()
	user.LastLogin = &now
	return db.Model(user).Update("last_login", &now).Error
}

// Login binds the user to the session cookie.
func Login(c *gin.Context, user *User) {
	session := sessions.Default(c)
	session.Set(SessionKeyUserID, user.ID)
	_ = session.Save()
}

func Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
}

// CurrentUser resolves the session user, or nil when unauthenticated.
func CurrentUser(c *gin.Context, db *gorm.DB) *User {
	session := sessions.Default(c)
	v := session.Get(SessionKeyUserID)
	if v == nil {
		return nil
	}
	id, ok := v.(uint)
	if !ok {
		return nil
	}
	user, err := GetUserByID(db, id)
	if err != nil {
		return nil
	}
	return user
}

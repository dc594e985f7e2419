package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// UserRole enum
type UserRole string

const (
	RoleStudent        UserRole = "student"
	RoleStaff          UserRole = "staff"
	RoleAdmin          UserRole = "admin"
	RoleDepartmentUser UserRole = "department"
)

func ValidRole(role string) bool {
	switch UserRole(role) {
	case RoleStudent, RoleStaff, RoleAdmin, RoleDepartmentUser:
		return true
	}
	return false
}

type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password,omitempty" json:"-"`
	PhoneNumber string             `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	StudentID   string             `bson:"studentId,omitempty" json:"studentId,omitempty"`
	Department  string             `bson:"department,omitempty" json:"department,omitempty"`
	Role        UserRole           `bson:"role" json:"role"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) ComparePassword(candidate string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(candidate))
	return err == nil
}

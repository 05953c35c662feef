package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type UserRole string

const (
	RoleAdmin UserRole = "Admin"
	RoleAgent UserRole = "Agent"
)

func ParseRole(s string) (UserRole, error) {
	switch UserRole(s) {
	case RoleAdmin, RoleAgent:
		return UserRole(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User is the stored principal, including the password hash.
type User struct {
	ID           string          `json:"id"`
	StaffName    string          `json:"staffName"`
	Designation  string          `json:"designation"`
	EmpID        string          `json:"empId"`
	JoiningDate  string          `json:"joiningDate"`
	Mobile       string          `json:"mobile"`
	Role         UserRole        `json:"role"`
	Salary       decimal.Decimal `json:"salary"`
	LoginID      string          `json:"userId"`
	PasswordHash string          `json:"passwordHash,omitempty"`
}

// AuthenticatedUser is a User as exposed to the session and views; it has no
// secret field at all.
type AuthenticatedUser struct {
	ID          string          `json:"id"`
	StaffName   string          `json:"staffName"`
	Designation string          `json:"designation"`
	EmpID       string          `json:"empId"`
	JoiningDate string          `json:"joiningDate"`
	Mobile      string          `json:"mobile"`
	Role        UserRole        `json:"role"`
	Salary      decimal.Decimal `json:"salary"`
	LoginID     string          `json:"userId"`
}

func (u User) Authenticated() AuthenticatedUser {
	return AuthenticatedUser{
		ID:          u.ID,
		StaffName:   u.StaffName,
		Designation: u.Designation,
		EmpID:       u.EmpID,
		JoiningDate: u.JoiningDate,
		Mobile:      u.Mobile,
		Role:        u.Role,
		Salary:      u.Salary,
		LoginID:     u.LoginID,
	}
}

func (u AuthenticatedUser) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u AuthenticatedUser) HasRole(roles ...UserRole) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

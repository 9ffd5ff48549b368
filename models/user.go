// user.go - Defines the User model and its CSV row mapping

package models

import (
	"go-training-backend/csvcodec"
)

type Role string // Role of a roster member

const (
	RoleTrainer Role = "Trainer" // Manages the roster and assigns sessions
	RolePlayer  Role = "Player"  // Sees their own sessions only
)

// UserColumns is the fixed header of the users CSV file.
var UserColumns = []string{"id", "name", "password", "surname", "email", "category", "role", "isTrainer"}

type User struct { // User struct represents one row of the users CSV file
	ID        string `json:"id"`        // Allocated as max(numeric ids)+1
	Name      string `json:"name"`      // First name
	Password  string `json:"password"`  // bcrypt hash once persisted
	Surname   string `json:"surname"`   // Last name
	Email     string `json:"email"`     // Unique, exact match
	Category  string `json:"category"`  // Free-text label such as U10
	Role      Role   `json:"role"`      // Trainer or Player
	IsTrainer bool   `json:"isTrainer"` // Always derived from Role
}

// IsTrainerRole reports whether role grants trainer capabilities.
func IsTrainerRole(role Role) bool {
	return role == RoleTrainer
}

// Record converts u into a CSV record. IsTrainer is recomputed from Role.
func (u User) Record() csvcodec.Record {
	return csvcodec.Record{
		"id":        u.ID,
		"name":      u.Name,
		"password":  u.Password,
		"surname":   u.Surname,
		"email":     u.Email,
		"category":  u.Category,
		"role":      string(u.Role),
		"isTrainer": csvcodec.FormatBool(IsTrainerRole(u.Role)),
	}
}

// UserFromRecord converts a CSV record into a User.
// A stored "true" and a Trainer role both yield IsTrainer; files written by
// older versions may carry either signal.
func UserFromRecord(rec csvcodec.Record) User {
	role := Role(rec["role"])
	return User{
		ID:        rec["id"],
		Name:      rec["name"],
		Password:  rec["password"],
		Surname:   rec["surname"],
		Email:     rec["email"],
		Category:  rec["category"],
		Role:      role,
		IsTrainer: csvcodec.ParseBool(rec["isTrainer"]) || IsTrainerRole(role),
	}
}

// UsersToRecords converts users for persistence.
func UsersToRecords(users []User) []csvcodec.Record {
	records := make([]csvcodec.Record, 0, len(users))
	for _, u := range users {
		records = append(records, u.Record())
	}
	return records
}

// UsersFromRecords converts decoded rows to users.
func UsersFromRecords(records []csvcodec.Record) []User {
	users := make([]User, 0, len(records))
	for _, rec := range records {
		users = append(users, UserFromRecord(rec))
	}
	return users
}

// PlayerName renders the "<name> - <surname>" snapshot stored on trainings.
func (u User) PlayerName() string {
	return u.Name + " - " + u.Surname
}

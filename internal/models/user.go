// Package models defines the persistent domain types of the application.
package models

import "strings"

// Gender is the classification bucket assigned to an account.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// User is a single account record.
//
// Gender and GenderConfidence are nil until a classification succeeded;
// GenderConfidence is meaningful only when Gender is set and not unknown.
// SecondFactorSecret is empty until the user completes TOTP enrollment;
// its presence toggles the second-factor challenge on login.
type User struct {
	ID                 int64
	Name               string
	Email              string
	PasswordHash       string
	Gender             *Gender
	GenderConfidence   *float64
	SecondFactorSecret string
}

// GivenName returns the first whitespace-delimited token of a full name.
// It is used for greetings and gender classification.
func GivenName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Greeting builds the salutation for a full name and an optional gender:
// the feminine form for female, masculine for male, and a neutral form
// otherwise.
func Greeting(fullName string, gender *Gender) string {
	name := GivenName(fullName)
	if gender != nil {
		switch *gender {
		case GenderFemale:
			return "Bem-vinda, " + name + "!"
		case GenderMale:
			return "Bem-vindo, " + name + "!"
		}
	}
	return "Bem-vindo(a), " + name + "!"
}

// Greeting returns the salutation for this account.
func (u *User) Greeting() string {
	return Greeting(u.Name, u.Gender)
}

// GivenName returns the account's given name.
func (u *User) GivenName() string {
	return GivenName(u.Name)
}

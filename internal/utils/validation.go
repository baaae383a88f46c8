package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailRegex     = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	telephoneRegex = regexp.MustCompile(`^\+?[0-9]{8,15}$`)
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateTelephone checks a phone number. Spaces and dashes are
// tolerated in input but the stored form is digits only, with an
// optional leading +.
func ValidateTelephone(telephone string) error {
	cleaned := NormalizeTelephone(telephone)
	if cleaned == "" {
		return ValidationError{Field: "telephone", Message: "le numéro de téléphone est requis"}
	}
	if !telephoneRegex.MatchString(cleaned) {
		return ValidationError{Field: "telephone", Message: "format de numéro invalide"}
	}
	return nil
}

// NormalizeTelephone strips spaces and dashes so the same number
// always compares equal
func NormalizeTelephone(telephone string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' || r == '.' {
			return -1
		}
		return r
	}, telephone)
	return strings.TrimSpace(cleaned)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "l'email est requis"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "format d'email invalide"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "le mot de passe est requis"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "le mot de passe doit contenir au moins 8 caractères"}
	}
	return nil
}

// ValidateNomComplet checks a member's full name
func ValidateNomComplet(nom string) error {
	nom = strings.TrimSpace(nom)
	if nom == "" {
		return ValidationError{Field: "nom_complet", Message: "le nom complet est requis"}
	}
	if len(nom) < 2 {
		return ValidationError{Field: "nom_complet", Message: "le nom doit contenir au moins 2 caractères"}
	}
	return nil
}

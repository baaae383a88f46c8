package service

import (
	"errors"
	"fmt"

	"lescombis/internal/models"
	"lescombis/internal/security"
	"lescombis/internal/utils"
)

var ErrInvalidCredentials = errors.New("téléphone ou mot de passe invalide")

// AuthService handles authentication business logic. Members sign in
// with their primary phone number; sessions are stateless JWT bearer
// tokens so no session table is needed.
type AuthService struct {
	membres MembreStore
	tokens  *security.TokenManager
}

// NewAuthService creates a new auth service
func NewAuthService(membres MembreStore, tokens *security.TokenManager) *AuthService {
	return &AuthService{membres: membres, tokens: tokens}
}

// Login authenticates a member by phone number and issues a token.
// Suspended and inactive members cannot sign in.
func (s *AuthService) Login(telephone, password string) (string, *models.Membre, error) {
	membre, err := s.membres.GetMembreByTelephone(utils.NormalizeTelephone(telephone))
	if err != nil {
		return "", nil, fmt.Errorf("failed to get member: %w", err)
	}
	if membre == nil {
		return "", nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, membre.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	if !membre.IsActif() {
		return "", nil, fmt.Errorf("%w: compte %s", ErrForbidden, membre.Statut)
	}

	token, err := s.tokens.Issue(membre.ID, membre.Roles)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return token, membre, nil
}

// Verify checks a bearer token and reloads the member it names. The
// member record is re-read on every request so a suspension takes
// effect immediately, not at token expiry.
func (s *AuthService) Verify(token string) (*models.Membre, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	membre, err := s.membres.GetMembreByID(claims.MembreID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if membre == nil {
		return nil, security.ErrInvalidToken
	}
	if !membre.IsActif() {
		return nil, fmt.Errorf("%w: compte %s", ErrForbidden, membre.Statut)
	}

	return membre, nil
}

// ChangePassword lets a signed-in member change their own password
func (s *AuthService) ChangePassword(membreID int64, currentPassword, newPassword string) error {
	membre, err := s.membres.GetMembreByID(membreID)
	if err != nil {
		return fmt.Errorf("failed to get member: %w", err)
	}
	if membre == nil {
		return ErrNotFound
	}

	if !security.CheckPassword(currentPassword, membre.PasswordHash) {
		return ErrInvalidCredentials
	}

	if err := utils.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.membres.UpdatePassword(membreID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// ResetPassword sets a new password for a member without knowing the
// current one. Admin only.
func (s *AuthService) ResetPassword(membreID int64, newPassword string, actorRoles []string) error {
	if !security.CanManageMembers(actorRoles) {
		return ErrForbidden
	}
	if err := utils.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	membre, err := s.membres.GetMembreByID(membreID)
	if err != nil {
		return fmt.Errorf("failed to get member: %w", err)
	}
	if membre == nil {
		return ErrNotFound
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.membres.UpdatePassword(membreID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

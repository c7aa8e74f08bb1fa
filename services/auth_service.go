package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-api/models"
	"storefront-api/repository"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

const sessionTokenTTL = 7 * 24 * time.Hour

// LeadInfo is the locally captured visitor contact the client may attach
// to its first session request, so a fresh phone-OTP user gets a real name
// instead of a placeholder.
type LeadInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// SessionResult is a minted session token plus the provisioned user.
type SessionResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthService interface {
	// EstablishSession verifies an identity-provider token, provisions the
	// user document on first sign-in, and returns a session JWT.
	EstablishSession(ctx context.Context, idToken string, lead *LeadInfo) (*SessionResult, *ServiceError)
}

type authServiceImpl struct {
	verifier  TokenVerifier
	users     repository.UserRepository
	jwtSecret []byte
	admins    map[string]bool
	logger    *zap.Logger
}

func NewAuthService(verifier TokenVerifier, users repository.UserRepository, jwtSecret string, adminIdentities []string, logger *zap.Logger) AuthService {
	admins := make(map[string]bool, len(adminIdentities))
	for _, id := range adminIdentities {
		admins[id] = true
	}
	return &authServiceImpl{
		verifier:  verifier,
		users:     users,
		jwtSecret: []byte(jwtSecret),
		admins:    admins,
		logger:    logger,
	}
}

func (s *authServiceImpl) EstablishSession(ctx context.Context, idToken string, lead *LeadInfo) (*SessionResult, *ServiceError) {
	identity, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, &ServiceError{StatusCode: 401, Message: "Invalid or expired sign-in token"}
	}

	user, err := s.users.FindByUID(ctx, identity.UID)
	switch {
	case err == nil:
		// Existing user, nothing to provision.
	case errors.Is(err, repository.ErrNotFound):
		user = s.newUser(identity, lead)
		if err := s.users.Create(ctx, user); err != nil && !errors.Is(err, repository.ErrDuplicate) {
			s.logger.Error("failed to provision user", zap.String("uid", identity.UID), zap.Error(err))
			return nil, &ServiceError{StatusCode: 500, Message: "Could not create your account"}
		}
	default:
		return nil, &ServiceError{StatusCode: 500, Message: "Could not look up your account"}
	}

	role := "user"
	if s.admins[identity.UID] || (identity.Email != "" && s.admins[identity.Email]) {
		role = "admin"
	}

	token, err := s.signToken(user.UID, role)
	if err != nil {
		s.logger.Error("failed to sign session token", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Could not create a session"}
	}

	return &SessionResult{Token: token, User: user}, nil
}

// newUser builds the first-sign-in user document. Name preference order:
// lead capture, provider claims, then a short placeholder derived from the
// uid, matching the original onboarding.
func (s *authServiceImpl) newUser(identity *Identity, lead *LeadInfo) *models.User {
	name := identity.Name
	phone := identity.Phone
	if lead != nil {
		if lead.Name != "" {
			name = lead.Name
		}
		if phone == "" {
			phone = lead.Phone
		}
	}
	if name == "" {
		uid := identity.UID
		if len(uid) > 5 {
			uid = uid[:5]
		}
		name = fmt.Sprintf("User %s", uid)
	}
	return &models.User{
		UID:   identity.UID,
		Name:  name,
		Phone: phone,
		Email: identity.Email,
	}
}

func (s *authServiceImpl) signToken(userID, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(sessionTokenTTL).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

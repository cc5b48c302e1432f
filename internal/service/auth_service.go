package service

import (
	"errors"
	"log"

	"softcart/config"
	"softcart/internal/apperr"
	"softcart/internal/auth"
	"softcart/internal/domain"
	"softcart/internal/models"
	"softcart/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	cfg      *config.Config
	userRepo *repository.UserRepository
	cartRepo *repository.CartRepository
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository, cartRepo *repository.CartRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo, cartRepo: cartRepo}
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (s *AuthService) issueTokens(u *models.User) (*TokenPair, error) {
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "sign access token", err)
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "sign refresh token", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Register creates a CUSTOMER account. If sessionID is non-empty, any cart
// built anonymously under that session is merged into the new account.
func (s *AuthService) Register(email, name, password, sessionID string) (*models.User, *TokenPair, error) {
	_, err := s.userRepo.GetByEmail(email)
	if err == nil {
		return nil, nil, apperr.New(apperr.Conflict, "email already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, apperr.Wrap(apperr.Internal, "lookup email", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.Internal, "hash password", err)
	}
	u := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         domain.RoleCustomer,
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, nil, apperr.Wrap(apperr.Internal, "create user", err)
	}
	s.mergeSessionCart(sessionID, u.ID)
	tokens, err := s.issueTokens(u)
	if err != nil {
		return nil, nil, err
	}
	return u, tokens, nil
}

func (s *AuthService) Login(email, password, sessionID string) (*models.User, *TokenPair, error) {
	u, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.New(apperr.Unauthorized, "invalid email or password")
		}
		return nil, nil, apperr.Wrap(apperr.Internal, "lookup email", err)
	}
	if u.PasswordHash == "" {
		return nil, nil, apperr.New(apperr.Unauthorized, "account uses Google sign-in")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperr.New(apperr.Unauthorized, "invalid email or password")
	}
	s.mergeSessionCart(sessionID, u.ID)
	tokens, err := s.issueTokens(u)
	if err != nil {
		return nil, nil, err
	}
	return u, tokens, nil
}

// LoginWithGoogle finds or creates the account behind a verified Google
// identity. Existing email accounts get the Google ID linked instead of a
// duplicate account.
func (s *AuthService) LoginWithGoogle(googleID, email, name, avatarURL, sessionID string) (*models.User, *TokenPair, bool, error) {
	u, err := s.userRepo.GetByGoogleID(googleID)
	if err == nil {
		s.mergeSessionCart(sessionID, u.ID)
		tokens, terr := s.issueTokens(u)
		return u, tokens, false, terr
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, false, apperr.Wrap(apperr.Internal, "lookup google id", err)
	}
	existing, err := s.userRepo.GetByEmail(email)
	if err == nil {
		gid := googleID
		existing.GoogleID = &gid
		if avatarURL != "" {
			existing.AvatarURL = avatarURL
		}
		if err := s.userRepo.Update(existing); err != nil {
			return nil, nil, false, apperr.Wrap(apperr.Internal, "link google account", err)
		}
		s.mergeSessionCart(sessionID, existing.ID)
		tokens, terr := s.issueTokens(existing)
		return existing, tokens, false, terr
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, false, apperr.Wrap(apperr.Internal, "lookup email", err)
	}
	gid := googleID
	u = &models.User{
		Email:     email,
		Name:      name,
		GoogleID:  &gid,
		Role:      domain.RoleCustomer,
		AvatarURL: avatarURL,
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, nil, false, apperr.Wrap(apperr.Internal, "create user", err)
	}
	s.mergeSessionCart(sessionID, u.ID)
	tokens, terr := s.issueTokens(u)
	return u, tokens, true, terr
}

func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	userID, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return nil, apperr.New(apperr.Unauthorized, "invalid refresh token")
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, apperr.New(apperr.Unauthorized, "invalid refresh token")
	}
	return s.issueTokens(u)
}

func (s *AuthService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return apperr.New(apperr.Unauthorized, "invalid credentials")
	}
	if u.PasswordHash == "" {
		return apperr.New(apperr.Invalid, "account uses Google sign-in; no password to change")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(currentPassword)); err != nil {
		return apperr.New(apperr.Unauthorized, "invalid credentials")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "hash password", err)
	}
	u.PasswordHash = string(hash)
	if err := s.userRepo.Update(u); err != nil {
		return apperr.Wrap(apperr.Internal, "update user", err)
	}
	return nil
}

// mergeSessionCart folds an anonymous session cart into the user's cart.
// Best effort: a merge failure never blocks login.
func (s *AuthService) mergeSessionCart(sessionID string, userID uint) {
	if sessionID == "" {
		return
	}
	if err := s.cartRepo.Merge(sessionID, userID); err != nil {
		log.Printf("[auth] cart merge for session %s -> user %d failed: %v", sessionID, userID, err)
	}
}

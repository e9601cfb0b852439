package service

import (
	"context"
	"fmt"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/facturio/facturio-api/pkg/apperror"
	"github.com/facturio/facturio-api/pkg/oauth"
	"github.com/facturio/facturio-api/pkg/utils"
)

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo   repository.UserRepository
	tenantRepo repository.TenantRepository
	jwtManager *utils.JWTManager
	googleAuth *oauth.GoogleVerifier
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	tenantRepo repository.TenantRepository,
	jwtManager *utils.JWTManager,
	googleAuth *oauth.GoogleVerifier,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		jwtManager: jwtManager,
		googleAuth: googleAuth,
	}
}

// RegisterInput represents the registration input
type RegisterInput struct {
	CompanyName string
	FirstName   string
	LastName    string
	Email       string
	Password    string
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// AuthOutput carries an authenticated user and their tokens
type AuthOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
}

// Register creates a new tenant and its first user account
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthOutput, error) {
	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	slug := utils.Slugify(input.CompanyName)
	if taken, err := s.tenantRepo.GetBySlug(ctx, slug); err != nil {
		return nil, err
	} else if taken != nil {
		slug = fmt.Sprintf("%s-%s", slug, utils.NewUUID().String()[:8])
	}

	tenant := &entity.Tenant{
		Name:  input.CompanyName,
		Slug:  slug,
		Email: &input.Email,
	}
	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		TenantID:  tenant.ID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Password:  hashed,
		Provider:  "local",
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// RefreshToken exchanges a valid refresh token for a new token pair
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrUnauthorized
	}

	return s.issueTokens(user)
}

// GoogleAuthURL returns the consent-screen URL to redirect the user to
func (s *AuthService) GoogleAuthURL(state string) (string, error) {
	if !s.googleAuth.Enabled() {
		return "", apperror.New(503, "OAUTH_NOT_CONFIGURED", "Google OAuth is not configured")
	}
	return s.googleAuth.ConsentURL(state), nil
}

// GoogleLogin completes the Google OAuth flow: the authorization code is
// exchanged, the account is matched by provider ID then by email, and a new
// tenant plus user is provisioned when neither exists.
func (s *AuthService) GoogleLogin(ctx context.Context, code string) (*AuthOutput, error) {
	if !s.googleAuth.Enabled() {
		return nil, apperror.New(503, "OAUTH_NOT_CONFIGURED", "Google OAuth is not configured")
	}

	profile, err := s.googleAuth.Authenticate(ctx, code)
	if err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByProviderID(ctx, "google", profile.SubjectID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		// Link to an existing local account with the same address.
		user, err = s.userRepo.GetByEmail(ctx, profile.Email)
		if err != nil {
			return nil, err
		}
		if user != nil {
			user.Provider = "google"
			user.ProviderID = &profile.SubjectID
			if profile.PictureURL != "" {
				user.Photo = &profile.PictureURL
			}
			if err := s.userRepo.Update(ctx, user); err != nil {
				return nil, err
			}
		}
	}

	if user == nil {
		user, err = s.provisionGoogleUser(ctx, profile)
		if err != nil {
			return nil, err
		}
	}

	return s.issueTokens(user)
}

func (s *AuthService) provisionGoogleUser(ctx context.Context, profile *oauth.Profile) (*entity.User, error) {
	name := profile.FullName
	if name == "" {
		name = profile.Email
	}

	slug := utils.Slugify(name)
	if taken, err := s.tenantRepo.GetBySlug(ctx, slug); err != nil {
		return nil, err
	} else if taken != nil {
		slug = fmt.Sprintf("%s-%s", slug, utils.NewUUID().String()[:8])
	}

	tenant := &entity.Tenant{
		Name:  name,
		Slug:  slug,
		Email: &profile.Email,
	}
	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, err
	}

	user := &entity.User{
		TenantID:   tenant.ID,
		FirstName:  profile.GivenName,
		LastName:   profile.FamilyName,
		Email:      profile.Email,
		Provider:   "google",
		ProviderID: &profile.SubjectID,
	}
	if profile.PictureURL != "" {
		user.Photo = &profile.PictureURL
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issueTokens(user *entity.User) (*AuthOutput, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.TenantID, user.Email)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

package service

import (
	"context"
	"errors"
	"strings"

	"devhub/internal/models"
	"devhub/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService handles accounts, profiles, onboarding and follows.
type UserService struct {
	userRepo    repository.UserRepository
	contentRepo repository.ContentRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, contentRepo repository.ContentRepository) *UserService {
	return &UserService{userRepo: userRepo, contentRepo: contentRepo}
}

type RegisterInput struct {
	UserName string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// ProviderLoginInput carries the profile asserted by an external identity
// provider. An account is created on first login.
type ProviderLoginInput struct {
	Email     string
	UserName  string
	Name      string
	AvatarImg string
}

type UpdateProfileInput struct {
	UserID    uuid.UUID
	UserName  string
	Name      string
	Bio       string
	AvatarImg string

	LinkedinName  string
	LinkedinLink  string
	TwitterName   string
	TwitterLink   string
	InstagramName string
	InstagramLink string
}

type OnboardingInput struct {
	UserID           uuid.UUID
	CurrentKnowledge string
	CodingAmbitions  []string
	PreferredSkills  []string
}

// UserProfile is a user together with their latest content.
type UserProfile struct {
	User          *models.User      `json:"user"`
	LatestContent []*models.Content `json:"latestContent"`
}

// Register creates a password-backed account. Returns CONFLICT when the
// email is taken.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.UserName == "" {
		return nil, models.NewValidationError("userName is required")
	}
	if !strings.Contains(in.Email, "@") {
		return nil, models.NewValidationError("A valid email is required")
	}
	if len(in.Password) < 8 {
		return nil, models.NewValidationError("Password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		UserName: in.UserName,
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Password: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("Email is already registered")
		}
		return nil, err
	}
	return user, nil
}

// Login verifies the password and returns the account.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewUnauthorizedError("Invalid email or password")
		}
		return nil, err
	}
	if user.Password == "" {
		return nil, models.NewUnauthorizedError("Account uses an external login provider")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		return nil, models.NewUnauthorizedError("Invalid email or password")
	}
	return user, nil
}

// LoginWithProvider returns the account for the provider-asserted email,
// creating it on first login.
func (s *UserService) LoginWithProvider(ctx context.Context, in ProviderLoginInput) (*models.User, error) {
	if !strings.Contains(in.Email, "@") {
		return nil, models.NewValidationError("A valid email is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	userName := in.UserName
	if userName == "" {
		userName = strings.SplitN(in.Email, "@", 2)[0]
	}
	user = &models.User{
		UserName:  userName,
		Name:      in.Name,
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		AvatarImg: in.AvatarImg,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent first login for the same email.
			return s.userRepo.GetByEmail(ctx, in.Email)
		}
		return nil, err
	}
	return user, nil
}

// GetProfile returns the user with their latest content.
func (s *UserService) GetProfile(ctx context.Context, id uuid.UUID, latestLimit int) (*UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, err
	}

	if latestLimit < 1 {
		latestLimit = DefaultFeedPageSize
	}
	latest, err := s.contentRepo.List(ctx, repository.FeedQuery{
		AuthorID: &user.ID,
		Sort:     repository.SortRecent,
	}, latestLimit, 0)
	if err != nil {
		return nil, err
	}

	return &UserProfile{User: user, LatestContent: latest}, nil
}

// GetByEmail returns the user for the email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", email)
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies profile changes to the user's own account.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", in.UserID)
		}
		return nil, err
	}

	if in.UserName != "" {
		user.UserName = in.UserName
	}
	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Bio != "" {
		user.Bio = in.Bio
	}
	if in.AvatarImg != "" {
		user.AvatarImg = in.AvatarImg
	}
	if in.LinkedinName != "" {
		user.LinkedinName = in.LinkedinName
	}
	if in.LinkedinLink != "" {
		user.LinkedinLink = in.LinkedinLink
	}
	if in.TwitterName != "" {
		user.TwitterName = in.TwitterName
	}
	if in.TwitterLink != "" {
		user.TwitterLink = in.TwitterLink
	}
	if in.InstagramName != "" {
		user.InstagramName = in.InstagramName
	}
	if in.InstagramLink != "" {
		user.InstagramLink = in.InstagramLink
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CompleteOnboarding stores the onboarding answers and marks onboarding done.
func (s *UserService) CompleteOnboarding(ctx context.Context, in OnboardingInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", in.UserID)
		}
		return nil, err
	}

	user.CurrentKnowledge = in.CurrentKnowledge
	user.CodingAmbitions = in.CodingAmbitions
	user.PreferredSkills = in.PreferredSkills
	user.IsOnboardingCompleted = true

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the account and its relations.
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("User", id)
		}
		return err
	}
	return s.userRepo.Delete(ctx, id)
}

// GetUserGroups returns the groups the user belongs to with their role.
func (s *UserService) GetUserGroups(ctx context.Context, userID uuid.UUID) ([]models.GroupUser, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", userID)
		}
		return nil, err
	}
	return s.userRepo.ListGroups(ctx, userID)
}

// Follow makes follower follow following. Returns CONFLICT when already
// following.
func (s *UserService) Follow(ctx context.Context, followerID, followingID uuid.UUID) error {
	if followerID == followingID {
		return models.NewValidationError("Cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, followingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("User", followingID)
		}
		return err
	}

	err := s.userRepo.Follow(ctx, followerID, followingID)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.NewConflictError("Already following this user")
	}
	return err
}

// Unfollow removes the follow. Returns NOT_FOUND when not following.
func (s *UserService) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	err := s.userRepo.Unfollow(ctx, followerID, followingID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Follow", followingID)
	}
	return err
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sinantan/document-chat-assistant/repository"
	"github.com/sinantan/document-chat-assistant/types"
	"github.com/sinantan/document-chat-assistant/utils"
)

type UserService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*types.User, error)
	Login(ctx context.Context, username, password string) (*types.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*types.TokenResponse, error)
	GetUser(ctx context.Context, id string) (*types.User, error)
}

type userService struct {
	repo       repository.UserRepo
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewUserService(repo repository.UserRepo, accessTTL, refreshTTL time.Duration) UserService {
	return &userService{
		repo:       repo,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *userService) Register(ctx context.Context, req *types.RegisterRequest) (*types.User, error) {
	existing, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, types.NewValidationError("Username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UnixMilli()
	user := &types.User{
		ID:        uuid.New().String(),
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hash),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Login(ctx context.Context, username, password string) (*types.TokenResponse, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, types.NewAuthenticationError("Invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, types.NewAuthenticationError("Invalid username or password")
	}
	return s.issueTokens(user)
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	claims, err := utils.ParseToken(refreshToken, utils.TokenTypeRefresh)
	if err != nil {
		return nil, types.NewAuthenticationError("Invalid refresh token")
	}
	user, err := s.repo.GetUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, types.NewAuthenticationError("Invalid refresh token")
	}
	return s.issueTokens(user)
}

func (s *userService) GetUser(ctx context.Context, id string) (*types.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, types.NewNotFoundError("User not found")
	}
	return user, nil
}

func (s *userService) issueTokens(user *types.User) (*types.TokenResponse, error) {
	access, err := utils.GenerateToken(user, utils.TokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := utils.GenerateToken(user, utils.TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &types.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

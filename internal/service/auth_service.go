package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/mbeoliero/kit/log"
	"github.com/mluqi/km-support/common"
	"github.com/mluqi/km-support/internal/config"
	"github.com/mluqi/km-support/internal/entity"
	"github.com/mluqi/km-support/internal/repository"
	"github.com/mluqi/km-support/pkg/constant"
	"github.com/mluqi/km-support/pkg/errcode"
	"github.com/mluqi/km-support/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// derivedPasswordBytes is the HMAC truncation used for storefront-provisioned
// accounts.
const derivedPasswordBytes = 16

// AuthService handles registration, login and storefront account provisioning
type AuthService struct {
	userRepo   *repository.UserRepo
	tokenStore *jwt.TokenStore
	cfg        *config.Config
}

// NewAuthService creates a new AuthService
func NewAuthService(repos *repository.Repositories, tokenStore *jwt.TokenStore, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:   repos.User,
		tokenStore: tokenStore,
		cfg:        cfg,
	}
}

// RegisterRequest represents register request
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProvisionRequest is sent by the storefront backend to mirror one of its web
// accounts into the support system. The password is derived, never chosen.
type ProvisionRequest struct {
	UserId string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role,omitempty"`
}

// LoginResult carries the issued token and the user's public profile
type LoginResult struct {
	Token string           `json:"token"`
	User  *entity.UserInfo `json:"user"`
}

// Register creates a new customer account with a bcrypt-hashed password
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*entity.UserInfo, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, errcode.ErrInvalidParam
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		log.CtxError(ctx, "check email failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if existing != nil {
		return nil, errcode.ErrUserExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.CtxError(ctx, "hash password failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	now := entity.NowUnixMilli()
	user := &entity.User{
		Id:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Role:      constant.RoleUser,
		Password:  string(hashed),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		log.CtxError(ctx, "create user failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	log.CtxInfo(ctx, "user registered: id=%s, email=%s", user.Id, user.Email)
	return user.ToUserInfo(), nil
}

// Login verifies credentials and issues a token, replacing any previous live
// token for the user.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	if req.Email == "" || req.Password == "" {
		return nil, errcode.ErrInvalidParam
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		log.CtxError(ctx, "get user failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if user == nil {
		return nil, errcode.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errcode.ErrPasswordWrong
	}

	return s.issueToken(ctx, user)
}

// Provision mirrors a storefront account into the support system and logs it
// in. Re-provisioning an existing account refreshes the profile and issues a
// fresh token; the derived password stays stable across calls.
func (s *AuthService) Provision(ctx context.Context, req *ProvisionRequest) (*LoginResult, error) {
	if req.UserId == "" || req.Name == "" {
		return nil, errcode.ErrInvalidParam
	}
	role := req.Role
	if role == "" {
		role = constant.RoleUser
	}
	if !constant.IsValidRole(role) {
		return nil, errcode.ErrInvalidParam
	}

	derived := common.GeneratePasswordFromUserId(req.UserId, s.cfg.Storefront.PasswordSecret, derivedPasswordBytes)
	hashed, err := bcrypt.GenerateFromPassword([]byte(derived), bcrypt.DefaultCost)
	if err != nil {
		log.CtxError(ctx, "hash derived password failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	user, err := s.userRepo.GetById(ctx, req.UserId)
	if err != nil {
		log.CtxError(ctx, "get user failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	now := entity.NowUnixMilli()
	if user == nil {
		user = &entity.User{
			Id:        req.UserId,
			Name:      req.Name,
			Email:     req.Email,
			Role:      role,
			Password:  string(hashed),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			log.CtxError(ctx, "provision user failed: %v", err)
			return nil, errcode.ErrInternalServer
		}
		log.CtxInfo(ctx, "user provisioned: id=%s, role=%s", user.Id, user.Role)
	} else {
		updates := map[string]interface{}{
			"name":       req.Name,
			"email":      req.Email,
			"updated_at": now,
		}
		if err := s.userRepo.Update(ctx, user.Id, updates); err != nil {
			log.CtxError(ctx, "refresh provisioned user failed: %v", err)
			return nil, errcode.ErrInternalServer
		}
		user.Name = req.Name
		user.Email = req.Email
	}

	return s.issueToken(ctx, user)
}

// Logout revokes the user's live token
func (s *AuthService) Logout(ctx context.Context, userId string) error {
	if err := s.tokenStore.RevokeToken(ctx, userId); err != nil {
		log.CtxError(ctx, "revoke token failed: %v", err)
		return errcode.ErrInternalServer
	}
	return nil
}

func (s *AuthService) issueToken(ctx context.Context, user *entity.User) (*LoginResult, error) {
	token, err := jwt.GenerateToken(user.Id, user.Role, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		log.CtxError(ctx, "generate token failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	if err := s.tokenStore.RecordToken(ctx, user.Id, token); err != nil {
		log.CtxError(ctx, "record token failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	log.CtxInfo(ctx, "user logged in: id=%s, role=%s", user.Id, user.Role)
	return &LoginResult{Token: token, User: user.ToUserInfo()}, nil
}

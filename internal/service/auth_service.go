package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"policyai-be/internal/dto"
	"policyai-be/internal/entity"
	"policyai-be/internal/pkg/apperr"
	"policyai-be/internal/repository/specification"
	"policyai-be/internal/repository/unitofwork"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 30 * 24 * time.Hour
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshRequest, ipAddress, userAgent string) (*dto.LoginResponse, error)
	Logout(ctx context.Context, userId uuid.UUID, refreshToken string) error
	Profile(ctx context.Context, userId uuid.UUID) (*dto.ProfileResponse, error)
}

type authService struct {
	uowFactory  unitofwork.RepositoryFactory
	roleService IRoleService
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, roleService IRoleService) IAuthService {
	return &authService{
		uowFactory:  uowFactory,
		roleService: roleService,
	}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func generateOpaqueToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	user := &entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: &hashStr,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	return &dto.RegisterResponse{Id: user.Id}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		return nil, apperr.Unauthenticated("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.Unauthenticated("Invalid credentials")
	}

	return s.issueTokens(ctx, uow, user.Id, ipAddress, userAgent)
}

func (s *authService) issueTokens(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, ipAddress, userAgent string) (*dto.LoginResponse, error) {
	claims := jwt.MapClaims{
		"user_id": userId.String(),
		"exp":     time.Now().Add(accessTokenTTL).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return nil, err
	}

	refreshToken, err := generateOpaqueToken()
	if err != nil {
		return nil, err
	}

	record := &entity.UserRefreshToken{
		Id:        uuid.New(),
		UserId:    userId,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: time.Now().Add(refreshTokenTTL),
		IpAddress: ipAddress,
		UserAgent: userAgent,
		CreatedAt: time.Now(),
	}
	if err := uow.UserRepository().CreateRefreshToken(ctx, record); err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
	}, nil
}

func (s *authService) Refresh(ctx context.Context, req *dto.RefreshRequest, ipAddress, userAgent string) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	record, err := uow.UserRepository().FindRefreshTokenByHash(ctx, hashToken(req.RefreshToken))
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperr.Unauthenticated("Invalid refresh token")
	}

	// Rotate: the presented token is spent regardless of outcome.
	if err := uow.UserRepository().RevokeRefreshToken(ctx, record.Id); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, uow, record.UserId, ipAddress, userAgent)
}

func (s *authService) Logout(ctx context.Context, userId uuid.UUID, refreshToken string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if refreshToken != "" {
		record, err := uow.UserRepository().FindRefreshTokenByHash(ctx, hashToken(refreshToken))
		if err != nil {
			return err
		}
		if record != nil && record.UserId == userId {
			if err := uow.UserRepository().RevokeRefreshToken(ctx, record.Id); err != nil {
				return err
			}
		}
	} else if err := uow.UserRepository().RevokeAllRefreshTokens(ctx, userId); err != nil {
		return err
	}

	// A logout ends the cached role picture too.
	s.roleService.InvalidateCache(userId)
	return nil
}

func (s *authService) Profile(ctx context.Context, userId uuid.UUID) (*dto.ProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFoundf("User not found")
	}

	role, err := s.roleService.ResolveRole(ctx, userId)
	if err != nil {
		return nil, err
	}

	return &dto.ProfileResponse{
		Id:        user.Id,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      string(role),
		CreatedAt: user.CreatedAt,
	}, nil
}

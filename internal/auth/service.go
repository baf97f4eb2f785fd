package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jaummdev/nexa-ecommerce-backend/internal/users"
	pkgAuth "github.com/jaummdev/nexa-ecommerce-backend/pkg/auth"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/config"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/db"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/db/models"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/enums"
	pkgerrors "github.com/jaummdev/nexa-ecommerce-backend/pkg/errors"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/logger"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/validate"
)

const (
	msgLoginFieldsRequired    = "Email and password are required"
	msgInvalidRole            = "Invalid role"
	msgInvalidCredentials     = "Invalid credentials"
	msgRoleMismatch           = "Unauthorized"
	msgCustomerFieldsRequired = "Email, password, name and phone are required"
	msgAdminFieldsRequired    = "Email, password and name are required for admin"
	msgUserExists             = "User already exists"
	msgAdminRegistrationOff   = "Admin registration is disabled"
)

// Service defines the behavior needed by the auth controllers.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Register(ctx context.Context, req RegisterRequest, asAdmin bool) (*users.UserDTO, error)
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
}

type passwordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo               userRepository
	Hasher                 passwordHasher
	JWTConfig              config.JWTConfig
	AllowAdminRegistration bool
	Logger                 *logger.Logger
	Now                    func() time.Time
}

type service struct {
	users      userRepository
	hasher     passwordHasher
	jwtCfg     config.JWTConfig
	allowAdmin bool
	logg       *logger.Logger
	now        func() time.Time
}

// NewService constructs the login/registration service.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Hasher == nil {
		return nil, fmt.Errorf("password hasher is required")
	}
	if params.JWTConfig.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		users:      params.UserRepo,
		hasher:     params.Hasher,
		jwtCfg:     params.JWTConfig,
		allowAdmin: params.AllowAdminRegistration,
		logg:       logg,
		now:        now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validate.Struct(req, msgLoginFieldsRequired); err != nil {
		return nil, err
	}
	if req.Role != "" && !req.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgInvalidRole)
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, msgInvalidCredentials)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, msgInvalidCredentials)
	}
	if req.Role != "" && req.Role != user.Role {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, msgRoleMismatch)
	}

	token, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "auth.login")
	return &LoginResponse{Token: token, User: users.FromModel(user)}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest, asAdmin bool) (*users.UserDTO, error) {
	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)

	role := enums.RoleCustomer
	msg := msgCustomerFieldsRequired
	if asAdmin {
		role = enums.RoleAdmin
		msg = msgAdminFieldsRequired
	}
	if err := validate.Struct(req, msg); err != nil {
		return nil, err
	}
	if !asAdmin && req.Phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msg)
	}
	if asAdmin && !s.allowAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, msgAdminRegistrationOff)
	}

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgUserExists)
	} else if !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		Name:         req.Name,
		Phone:        req.Phone,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, msgUserExists)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{"user_id": user.ID.String(), "role": string(user.Role)})
	s.logg.Info(ctx, "auth.registered")
	return users.FromModel(user), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

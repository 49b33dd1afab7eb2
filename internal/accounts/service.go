package accounts

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/veloxmart/veloxmart/internal/domain"
	"github.com/veloxmart/veloxmart/pkg/common"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrEmailTaken      = errors.New("email already registered")
	ErrBadCredentials  = errors.New("invalid credentials")
)

// profileFactories dispatches profile creation on the closed role enum.
// A nil factory means the role carries no profile row (admin). Roles
// absent from the map are rejected at registration.
var profileFactories = map[string]func(ctx context.Context, tx Store, userID int64) error{
	domain.RoleAdmin: nil,
	domain.RoleCustomer: func(ctx context.Context, tx Store, userID int64) error {
		return tx.CreateCustomer(ctx, &domain.Customer{ID: common.UUIDint64(), UserID: userID})
	},
	domain.RoleVendor: func(ctx context.Context, tx Store, userID int64) error {
		return tx.CreateVendor(ctx, &domain.Vendor{ID: common.UUIDint64(), UserID: userID})
	},
}

type RegisterInput struct {
	Email    string
	Name     string
	Phone    string
	Password string
	Role     string
}

type AddressInput struct {
	ID           int64
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string
	IsDefault    bool
}

// TokenPair is the opaque bearer pair handed to a logged-in client.
type TokenPair struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
}

// Service manages user registration, login and address maintenance.
type Service struct {
	store        Store
	jwtSecret    string
	accessExpire time.Duration
}

func NewService(store Store, jwtSecret string, accessExpire time.Duration) *Service {
	if accessExpire <= 0 {
		accessExpire = 2 * time.Hour
	}
	return &Service{store: store, jwtSecret: jwtSecret, accessExpire: accessExpire}
}

// Register creates a user plus the profile row keyed by its role, in one
// transaction. The role is immutable afterwards.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Name = strings.TrimSpace(input.Name)
	if input.Email == "" || input.Name == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "email and name are required")
	}
	if len(input.Password) < 6 {
		return nil, errors.Wrap(ErrInvalidArgument, "password must be at least 6 characters")
	}
	if input.Role == "" {
		input.Role = domain.RoleCustomer
	}
	factory, known := profileFactories[input.Role]
	if !known {
		return nil, errors.Wrapf(ErrInvalidArgument, "unknown role %q", input.Role)
	}

	if _, err := s.store.GetUserByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "query user")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	user := &domain.User{
		ID:        common.UUIDint64(),
		Email:     input.Email,
		Name:      input.Name,
		Phone:     strings.TrimSpace(input.Phone),
		Password:  string(hashed),
		Role:      input.Role,
		Status:    common.ENABLED,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	err = s.store.Transaction(ctx, func(tx Store) error {
		if err := tx.CreateUser(ctx, user); err != nil {
			return errors.Wrap(err, "create user")
		}
		if factory != nil {
			if err := factory(ctx, tx, user.ID); err != nil {
				return errors.Wrap(err, "create profile")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("user registered",
		zap.String("email", user.Email),
		zap.String("role", user.Role))
	return user, nil
}

// Authenticate verifies credentials and issues a bearer token pair.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrBadCredentials
	} else if err != nil {
		return nil, nil, errors.Wrap(err, "query user")
	}
	if user.Status != common.ENABLED {
		return nil, nil, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, nil, ErrBadCredentials
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	if err := s.store.TouchLastLogin(ctx, user.ID); err != nil {
		zap.L().Warn("failed to update last login", zap.Error(err))
	}
	return user, pair, nil
}

func (s *Service) issueTokens(user *domain.User) (*TokenPair, error) {
	now := time.Now()
	sign := func(lifetime time.Duration, usage string) (string, error) {
		claims := jwt.MapClaims{
			"sub":  strconv.FormatInt(user.ID, 10),
			"role": user.Role,
			"use":  usage,
			"iat":  now.Unix(),
			"exp":  now.Add(lifetime).Unix(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		return token.SignedString([]byte(s.jwtSecret))
	}

	access, err := sign(s.accessExpire, "access")
	if err != nil {
		return nil, errors.Wrap(err, "sign access token")
	}
	refresh, err := sign(7*24*time.Hour, "refresh")
	if err != nil {
		return nil, errors.Wrap(err, "sign refresh token")
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// UpsertAddress creates or updates an address for the user. When the
// address is flagged default, every other default of the same user is
// cleared in the same transaction, keeping at most one default per user
// at any commit point.
func (s *Service) UpsertAddress(ctx context.Context, userID int64, input AddressInput) (*domain.Address, error) {
	if userID <= 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "missing user")
	}
	if strings.TrimSpace(input.AddressLine1) == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "address_line1 is required")
	}
	if strings.TrimSpace(input.City) == "" || strings.TrimSpace(input.PostalCode) == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "city and postal_code are required")
	}
	if input.Country == "" {
		input.Country = "India"
	}

	var addr *domain.Address
	err := s.store.Transaction(ctx, func(tx Store) error {
		if input.ID > 0 {
			existing, err := tx.GetAddress(ctx, input.ID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.Wrapf(ErrNotFound, "address %d", input.ID)
			} else if err != nil {
				return errors.Wrap(err, "load address")
			}
			if existing.UserID != userID {
				return errors.Wrapf(ErrNotFound, "address %d", input.ID)
			}
			addr = existing
		} else {
			addr = &domain.Address{ID: common.UUIDint64(), UserID: userID, CreatedAt: time.Now()}
		}

		addr.AddressLine1 = strings.TrimSpace(input.AddressLine1)
		addr.AddressLine2 = strings.TrimSpace(input.AddressLine2)
		addr.City = strings.TrimSpace(input.City)
		addr.State = strings.TrimSpace(input.State)
		addr.PostalCode = strings.TrimSpace(input.PostalCode)
		addr.Country = input.Country
		addr.IsDefault = input.IsDefault
		addr.UpdatedAt = time.Now()

		if addr.IsDefault {
			if err := tx.ClearDefaultAddresses(ctx, userID, addr.ID); err != nil {
				return errors.Wrap(err, "clear default addresses")
			}
		}
		return errors.Wrap(tx.SaveAddress(ctx, addr), "save address")
	})
	if err != nil {
		return nil, err
	}
	return addr, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/mentorship-backend/internal/authz"
	"github.com/yungbote/mentorship-backend/internal/data/db"
	"github.com/yungbote/mentorship-backend/internal/data/dberr"
	"github.com/yungbote/mentorship-backend/internal/data/repos"
	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/domain/apperr"
	"github.com/yungbote/mentorship-backend/internal/platform/dbctx"
	"github.com/yungbote/mentorship-backend/internal/platform/logger"
)

const minPasswordLen = 8

type JWTClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type AuthService interface {
	RegisterUser(ctx context.Context, in RegisterInput) (*types.User, error)
	LoginUser(ctx context.Context, email, password string) (*TokenPair, error)
	RefreshUser(ctx context.Context, refreshToken string) (*TokenPair, error)
	LogoutUser(ctx context.Context, accessToken string) error
	// Authenticate verifies a bearer token and resolves the caller's current role.
	Authenticate(ctx context.Context, tokenString string) (authz.Principal, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	log           *logger.Logger
	tx            db.TxRunner
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	avatarService AvatarService
	jwtSecretKey  []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewAuthService builds the JWT session service. avatarService may be nil.
func NewAuthService(
	log *logger.Logger,
	tx db.TxRunner,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	avatarService AvatarService,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		log:           log.With("service", "AuthService"),
		tx:            tx,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		avatarService: avatarService,
		jwtSecretKey:  []byte(jwtSecretKey),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (as *authService) RegisterUser(ctx context.Context, in RegisterInput) (*types.User, error) {
	const op = "auth.register"
	email := normalizeEmail(in.Email)
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Validation(op, "invalid email")
	}
	if len(in.Password) < minPasswordLen {
		return nil, apperr.Validation(op, fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	if first == "" || last == "" {
		return nil, apperr.Validation(op, "first_name and last_name required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.New(apperr.CodeUpstream, op, "failed to hash password", err)
	}
	user := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  string(hash),
		FirstName: first,
		LastName:  last,
		Role:      types.RoleMentee,
	}

	// Avatar is best effort; a storage outage must not block signup.
	if as.avatarService != nil {
		if err := as.avatarService.CreateAndUploadUserAvatar(ctx, user); err != nil {
			as.log.Warn("Avatar generation failed at signup", "user_id", user.ID, "error", err)
		}
	}

	err = as.tx.InTx(ctx, func(dbc dbctx.Context) error {
		exists, err := as.userRepo.EmailExists(dbc, email)
		if err != nil {
			return dberr.Map(op, err)
		}
		if exists {
			return apperr.New(apperr.CodeConflict, op, "email already registered", nil)
		}
		if _, err := as.userRepo.Create(dbc, []*types.User{user}); err != nil {
			return dberr.Map(op, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	as.log.Info("User registered", "user_id", user.ID)
	return user, nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (*TokenPair, error) {
	const op = "auth.login"
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.Validation(op, "email and password required")
	}
	invalid := apperr.Unauthorized(op, "invalid email or password")

	var pair *TokenPair
	err := as.tx.InTx(ctx, func(dbc dbctx.Context) error {
		user, err := as.userRepo.GetByEmail(dbc, email)
		if err != nil {
			if dberr.NotFound(err) {
				return invalid
			}
			return dberr.Map(op, err)
		}
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
			return invalid
		}
		if _, err := as.userTokenRepo.DeleteExpired(dbc, as.now()); err != nil {
			as.log.Warn("Expired token cleanup failed", "error", err)
		}
		pair, err = as.issue(dbc, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (as *authService) RefreshUser(ctx context.Context, refreshToken string) (*TokenPair, error) {
	const op = "auth.refresh"
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, apperr.Unauthorized(op, "refresh token required")
	}

	var pair *TokenPair
	expired := false
	err := as.tx.InTx(ctx, func(dbc dbctx.Context) error {
		existing, err := as.userTokenRepo.GetByRefreshToken(dbc, refreshToken)
		if err != nil {
			if dberr.NotFound(err) {
				return apperr.Unauthorized(op, "unknown refresh token")
			}
			return dberr.Map(op, err)
		}
		if existing.ExpiresAt.Before(as.now()) {
			expired = true
			return dberr.Map(op, as.userTokenRepo.DeleteByIDs(dbc, []uuid.UUID{existing.ID}))
		}
		user, err := as.userRepo.GetByID(dbc, existing.UserID)
		if err != nil {
			if dberr.NotFound(err) {
				return apperr.Unauthorized(op, "user no longer exists")
			}
			return dberr.Map(op, err)
		}
		if err := as.userTokenRepo.DeleteByIDs(dbc, []uuid.UUID{existing.ID}); err != nil {
			return dberr.Map(op, err)
		}
		pair, err = as.issue(dbc, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, apperr.Unauthorized(op, "refresh token expired")
	}
	return pair, nil
}

func (as *authService) LogoutUser(ctx context.Context, accessToken string) error {
	const op = "auth.logout"
	if strings.TrimSpace(accessToken) == "" {
		return apperr.Unauthorized(op, "access token required")
	}
	dbc := dbctx.Context{Ctx: ctx}
	tok, err := as.userTokenRepo.GetByAccessToken(dbc, accessToken)
	if err != nil {
		if dberr.NotFound(err) {
			return nil
		}
		return dberr.Map(op, err)
	}
	return dberr.Map(op, as.userTokenRepo.DeleteByIDs(dbc, []uuid.UUID{tok.ID}))
}

func (as *authService) Authenticate(ctx context.Context, tokenString string) (authz.Principal, error) {
	const op = "auth.authenticate"
	if tokenString == "" {
		return authz.Principal{}, apperr.Unauthorized(op, "missing token")
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return as.jwtSecretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return authz.Principal{}, apperr.New(apperr.CodeUnauthorized, op, "token expired", err)
		}
		return authz.Principal{}, apperr.New(apperr.CodeUnauthorized, op, "invalid token", err)
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return authz.Principal{}, apperr.Unauthorized(op, "invalid token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return authz.Principal{}, apperr.New(apperr.CodeUnauthorized, op, "invalid subject", err)
	}

	dbc := dbctx.Context{Ctx: ctx}
	if _, err := as.userTokenRepo.GetByAccessToken(dbc, tokenString); err != nil {
		if dberr.NotFound(err) {
			return authz.Principal{}, apperr.Unauthorized(op, "session ended")
		}
		return authz.Principal{}, dberr.Map(op, err)
	}
	user, err := as.userRepo.GetByID(dbc, userID)
	if err != nil {
		if dberr.NotFound(err) {
			return authz.Principal{}, apperr.Unauthorized(op, "user no longer exists")
		}
		return authz.Principal{}, dberr.Map(op, err)
	}
	return authz.Principal{UserID: user.ID, Role: user.Role}, nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

func (as *authService) issue(dbc dbctx.Context, user *types.User) (*TokenPair, error) {
	now := as.now()
	access, err := as.generateAccessToken(user, now)
	if err != nil {
		return nil, apperr.New(apperr.CodeUpstream, "auth.issue", "failed to sign token", err)
	}
	tok := &types.UserToken{
		UserID:       user.ID,
		AccessToken:  access,
		RefreshToken: uuid.NewString(),
		ExpiresAt:    now.Add(as.refreshTTL),
	}
	if _, err := as.userTokenRepo.Create(dbc, []*types.UserToken{tok}); err != nil {
		return nil, dberr.Map("auth.issue", err)
	}
	return &TokenPair{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    now.Add(as.accessTTL),
	}, nil
}

func (as *authService) generateAccessToken(user *types.User, now time.Time) (string, error) {
	claims := JWTClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(as.jwtSecretKey)
}

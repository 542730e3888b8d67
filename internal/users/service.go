package users

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"interviewhub/internal/notify"
	"interviewhub/internal/shared/auth"
	"interviewhub/internal/shared/errs"
)

const (
	minPasswordLength = 6
	otpDigits         = 6
	defaultOTPTTL     = 10 * time.Minute
)

// Notifier sends the registration passcode.
type Notifier interface {
	SendVerificationCode(ctx context.Context, to notify.Person, code string, expiresIn time.Duration) error
}

type Service struct {
	Repo     Repo
	Tokens   *auth.Tokens
	Notifier Notifier
	Runner   notify.Runner
	OTPTTL   time.Duration

	now     func() time.Time
	newID   func() string
	newCode func() (string, error)
}

func NewService(repo Repo, tokens *auth.Tokens, notifier Notifier, runner notify.Runner, otpTTL time.Duration) *Service {
	if runner == nil {
		runner = notify.Inline{}
	}
	if otpTTL <= 0 {
		otpTTL = defaultOTPTTL
	}
	return &Service{
		Repo:     repo,
		Tokens:   tokens,
		Notifier: notifier,
		Runner:   runner,
		OTPTTL:   otpTTL,
		now:      time.Now,
		newID:    uuid.NewString,
		newCode:  generateOTP,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Phone    string
}

// Register creates an unverified account and emails a passcode.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" {
		return User{}, errs.Invalid("Name is required")
	}
	if !validEmail(email) {
		return User{}, errs.Invalid("Please enter a valid email")
	}
	if len(in.Password) < minPasswordLength {
		return User{}, errs.Invalid(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	role, ok := auth.ParseRole(in.Role)
	if !ok {
		return User{}, errs.Invalid("Role must be HR, Interviewer or Student")
	}

	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	code, err := s.newCode()
	if err != nil {
		return User{}, fmt.Errorf("generate otp: %w", err)
	}

	now := s.now().UTC()
	expires := now.Add(s.OTPTTL)
	user := User{
		ID:           s.newID(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Phone:        strings.TrimSpace(in.Phone),
		OTPCode:      code,
		OTPExpiresAt: &expires,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}

	s.sendCode(ctx, user)
	return user, nil
}

// VerifyOTP marks the account verified and signs the caller in.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) (User, auth.TokenPair, error) {
	user, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return User{}, auth.TokenPair{}, err
	}
	if user.EmailVerified {
		return User{}, auth.TokenPair{}, ErrAlreadyVerified
	}
	code = strings.TrimSpace(code)
	if user.OTPCode == "" || subtle.ConstantTimeCompare([]byte(user.OTPCode), []byte(code)) != 1 {
		return User{}, auth.TokenPair{}, ErrInvalidOTP
	}
	now := s.now().UTC()
	if user.OTPExpiresAt == nil || now.After(*user.OTPExpiresAt) {
		return User{}, auth.TokenPair{}, ErrOTPExpired
	}

	user.EmailVerified = true
	user.OTPCode = ""
	user.OTPExpiresAt = nil
	user.UpdatedAt = now
	if err := s.Repo.Update(ctx, user); err != nil {
		return User{}, auth.TokenPair{}, err
	}
	pair, err := s.issue(user)
	if err != nil {
		return User{}, auth.TokenPair{}, err
	}
	return user, pair, nil
}

// ResendOTP rotates the passcode of an unverified account.
func (s *Service) ResendOTP(ctx context.Context, email string) error {
	user, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return ErrAlreadyVerified
	}
	code, err := s.newCode()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	now := s.now().UTC()
	expires := now.Add(s.OTPTTL)
	user.OTPCode = code
	user.OTPExpiresAt = &expires
	user.UpdatedAt = now
	if err := s.Repo.Update(ctx, user); err != nil {
		return err
	}
	s.sendCode(ctx, user)
	return nil
}

// Login checks credentials. Unverified accounts get ErrEmailNotVerified.
func (s *Service) Login(ctx context.Context, email, password string) (User, auth.TokenPair, error) {
	user, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, auth.TokenPair{}, ErrInvalidCredentials
		}
		return User{}, auth.TokenPair{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return User{}, auth.TokenPair{}, ErrInvalidCredentials
	}
	if !user.EmailVerified {
		return user, auth.TokenPair{}, ErrEmailNotVerified
	}
	pair, err := s.issue(user)
	if err != nil {
		return User{}, auth.TokenPair{}, err
	}
	return user, pair, nil
}

// Refresh exchanges a refresh token for a new pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return auth.TokenPair{}, errs.Invalid("Refresh token is required")
	}
	claims, err := s.Tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return auth.TokenPair{}, ErrInvalidRefresh
	}
	user, err := s.Repo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return auth.TokenPair{}, ErrInvalidRefresh
		}
		return auth.TokenPair{}, err
	}
	return s.issue(user)
}

// SignInVerified issues tokens for an existing verified account, used by
// third-party sign-in once the provider has vouched for the email.
func (s *Service) SignInVerified(ctx context.Context, email string) (User, auth.TokenPair, error) {
	user, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return User{}, auth.TokenPair{}, err
	}
	if !user.EmailVerified {
		return User{}, auth.TokenPair{}, ErrEmailNotVerified
	}
	pair, err := s.issue(user)
	if err != nil {
		return User{}, auth.TokenPair{}, err
	}
	return user, pair, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	if strings.TrimSpace(id) == "" {
		return User{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

func (s *Service) ListByIDs(ctx context.Context, ids []string) ([]User, error) {
	return s.Repo.ListByIDs(ctx, ids)
}

type ProfileUpdate struct {
	Name           *string
	Phone          *string
	ProfilePicture *string
}

func (s *Service) UpdateProfile(ctx context.Context, actor auth.Actor, in ProfileUpdate) (User, error) {
	if err := actor.Require(); err != nil {
		return User{}, err
	}
	user, err := s.Repo.GetByID(ctx, actor.ID)
	if err != nil {
		return User{}, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return User{}, errs.Invalid("Name cannot be empty")
		}
		user.Name = name
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.ProfilePicture != nil {
		user.ProfilePicture = strings.TrimSpace(*in.ProfilePicture)
	}
	user.UpdatedAt = s.now().UTC()
	if err := s.Repo.Update(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// ListByRole is HR-only; it backs the interviewer picker.
func (s *Service) ListByRole(ctx context.Context, actor auth.Actor, rawRole string) ([]User, error) {
	if err := actor.Require(auth.RoleHR); err != nil {
		return nil, err
	}
	var role auth.Role
	if strings.TrimSpace(rawRole) != "" {
		parsed, ok := auth.ParseRole(rawRole)
		if !ok {
			return nil, errs.Invalid("Unknown role filter")
		}
		role = parsed
	}
	return s.Repo.ListByRole(ctx, role)
}

func (s *Service) issue(user User) (auth.TokenPair, error) {
	return s.Tokens.Issue(auth.Subject{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	})
}

func (s *Service) sendCode(ctx context.Context, user User) {
	if s.Notifier == nil {
		return
	}
	to := notify.Person{Name: user.Name, Email: user.Email}
	code := user.OTPCode
	s.Runner.Go(ctx, "verification_code", map[string]any{"user_id": user.ID}, func(ctx context.Context) error {
		return s.Notifier.SendVerificationCode(ctx, to, code, s.OTPTTL)
	})
}

func generateOTP() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

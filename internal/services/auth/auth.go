package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MyelinBots/vitals-go/internal/db/repositories"
	"github.com/MyelinBots/vitals-go/internal/db/repositories/user"
	"github.com/MyelinBots/vitals-go/internal/services/calculator"
	"github.com/MyelinBots/vitals-go/internal/services/session"
)

var (
	ErrMissingField       = errors.New("please fill in every required field")
	ErrInvalidDate        = errors.New("invalid birth date, use YYYY-MM-DD")
	ErrInvalidChoice      = errors.New("unrecognised sex or activity level")
	ErrDuplicateEmail     = errors.New("an account with that email already exists")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrFieldTooLong       = errors.New("name and email must be at most 150 characters, goal at most 200")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
)

const BirthDateLayout = "2006-01-02"

// MaxPasswordBytes is the most bcrypt will hash.
const MaxPasswordBytes = 72

type RegisterInput struct {
	Name          string `form:"name" json:"name"`
	BirthDate     string `form:"birth_date" json:"birth_date"`
	Sex           string `form:"sex" json:"sex"`
	Goal          string `form:"goal" json:"goal"`
	ActivityLevel string `form:"activity_level" json:"activity_level"`
	Email         string `form:"email" json:"email"`
	Password      string `form:"password" json:"password"`
}

type Service struct {
	store    repositories.Store
	hasher   Hasher
	sessions *session.Manager
	logger   *slog.Logger

	// compared against on unknown emails so both failure paths cost one bcrypt run
	dummyHash string
}

func NewService(store repositories.Store, hasher Hasher, sessions *session.Manager, logger *slog.Logger) (*Service, error) {
	dummy, err := hasher.Hash("vitals-dummy-password")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &Service{
		store:     store,
		hasher:    hasher,
		sessions:  sessions,
		logger:    logger.With("component", "auth"),
		dummyHash: dummy,
	}, nil
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*user.User, error) {
	name := strings.TrimSpace(in.Name)
	birth := strings.TrimSpace(in.BirthDate)
	email := user.NormalizeEmail(in.Email)
	if name == "" || birth == "" || strings.TrimSpace(in.Sex) == "" || email == "" ||
		in.Password == "" || strings.TrimSpace(in.ActivityLevel) == "" {
		return nil, ErrMissingField
	}

	if utf8.RuneCountInString(name) > user.MaxNameLength ||
		utf8.RuneCountInString(email) > user.MaxEmailLength ||
		utf8.RuneCountInString(calculator.CanonicalGoal(in.Goal)) > user.MaxGoalLength {
		return nil, ErrFieldTooLong
	}
	if len(in.Password) > MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	birthDate, err := time.Parse(BirthDateLayout, birth)
	if err != nil {
		return nil, ErrInvalidDate
	}

	sex, ok := calculator.CanonicalSex(in.Sex)
	if !ok {
		return nil, ErrInvalidChoice
	}
	activity, ok := calculator.CanonicalActivity(in.ActivityLevel)
	if !ok {
		return nil, ErrInvalidChoice
	}

	existing, err := s.store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{
		Name:          name,
		BirthDate:     birthDate,
		Sex:           sex,
		Goal:          optionalGoal(in.Goal),
		ActivityLevel: activity,
		Email:         email,
		PasswordHash:  hash,
	}
	if err := s.store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", u.ID)
	return u, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*session.Session, error) {
	u, err := s.store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if u == nil {
		s.hasher.Verify(s.dummyHash, password)
		return nil, ErrInvalidCredentials
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	sess, err := s.sessions.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user logged in", "user_id", u.ID)
	return sess, nil
}

func optionalGoal(goal string) *string {
	g := calculator.CanonicalGoal(goal)
	if g == "" {
		return nil
	}
	return &g
}

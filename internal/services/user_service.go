package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"jobboard/internal/domain"
	"jobboard/internal/domain/models"
	"jobboard/internal/listing"
	"jobboard/internal/record"
	"jobboard/internal/repositories"
	"jobboard/internal/utils"
)

const (
	minPasswordLen = 8
	// bcrypt ignores input past 72 bytes
	maxPasswordLen = 72
)

// UserService handles accounts: registration, login, admin listing and import.
type UserService struct {
	Users     repositories.UserRepository
	Tokens    TokenIssuer
	RequestID string
	// HashCost defaults to bcrypt.DefaultCost; tests lower it.
	HashCost int
}

type RegisterInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	Phone       string `json:"phone"`
	City        string `json:"city"`
	CompanyName string `json:"company_name"`
}

func (s UserService) cost() int {
	if s.HashCost > 0 {
		return s.HashCost
	}
	return bcrypt.DefaultCost
}

// Register creates a jobseeker or employer account. Admins are never
// self-registered.
func (s UserService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	u := models.User{
		FirstName: utils.NormalizeSpace(in.FirstName),
		LastName:  utils.NormalizeSpace(in.LastName),
		Email:     utils.NormalizeEmail(in.Email),
		Role:      lowerOr(in.Role, domain.RoleJobseeker),
		Status:    domain.UserActive,
		Phone:     utils.TrimOrEmpty(in.Phone),
		City:      utils.NormalizeSpace(in.City),
	}
	if c := utils.NormalizeSpace(in.CompanyName); c != "" {
		u.Profile = &models.UserProfile{CompanyName: c}
	}

	errs := validateUser(u)
	if n := len(in.Password); n < minPasswordLen || n > maxPasswordLen {
		errs = append(errs, domain.ValidationError{Field: "password", Msg: fmt.Sprintf("must be %d to %d characters", minPasswordLen, maxPasswordLen)})
	}
	if !domain.OneOf(u.Role, []string{domain.RoleJobseeker, domain.RoleEmployer}) {
		errs = append(errs, domain.ValidationError{Field: "role", Msg: "must be jobseeker or employer"})
	}
	if err := errs.OrNil(); err != nil {
		return models.User{}, err
	}

	if err := s.create(ctx, &u, in.Password); err != nil {
		return models.User{}, err
	}
	utils.LogEvent(s.RequestID, "user", "register", fmt.Sprintf("user_id=%d role=%s", u.ID, u.Role))
	return u, nil
}

// Login checks credentials and returns a signed token.
func (s UserService) Login(ctx context.Context, email, password string) (string, models.User, error) {
	u, err := s.Users.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		if domain.IsNotFound(err) {
			return "", models.User{}, domain.UnauthorizedError{Msg: "invalid email or password"}
		}
		return "", models.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", models.User{}, domain.UnauthorizedError{Msg: "invalid email or password"}
	}
	if u.Status != domain.UserActive {
		return "", models.User{}, domain.ForbiddenError{Msg: "account is inactive"}
	}
	token, err := s.Tokens.Issue(u.ID, u.Role)
	if err != nil {
		return "", models.User{}, domain.InternalError{Msg: "could not issue token", Err: err}
	}
	utils.LogEvent(s.RequestID, "user", "login", fmt.Sprintf("user_id=%d", u.ID))
	return token, u, nil
}

func (s UserService) Get(ctx context.Context, id int64) (models.User, error) {
	return s.Users.GetByID(ctx, id)
}

func (s UserService) List(ctx context.Context, q listing.ListQuery) (Page[models.User], error) {
	return listPage[models.User](ctx, s.Users, repositories.UserSpec, q)
}

// Export returns every user matching q, ignoring pagination.
func (s UserService) Export(ctx context.Context, q listing.ListQuery) ([]models.User, error) {
	return s.Users.All(ctx, repositories.UserSpec.Build(q), repositories.UserSpec.OrderBy(q))
}

func (s UserService) SetStatus(ctx context.Context, id int64, status string) (models.User, error) {
	status = lowerOr(status, "")
	if !domain.OneOf(status, domain.UserStatuses) {
		return models.User{}, domain.ValidationError{Field: "status", Msg: "must be one of " + strings.Join(domain.UserStatuses, ", ")}
	}
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	if err := s.Users.UpdateStatus(ctx, id, status); err != nil {
		return models.User{}, err
	}
	u.Status = status
	utils.LogEvent(s.RequestID, "user", "set_status", fmt.Sprintf("user_id=%d status=%s", id, status))
	return u, nil
}

// ImportedPasswordHash is stored for imported accounts. It is not a bcrypt
// hash, so no password matches it until the user sets one.
const ImportedPasswordHash = "!"

// ImportRow creates one user from a CSV record. Imported accounts cannot log
// in until they set a password.
func (s UserService) ImportRow(ctx context.Context, rec record.Record) error {
	u := models.User{
		FirstName: utils.NormalizeSpace(rec.String("first_name")),
		LastName:  utils.NormalizeSpace(rec.String("last_name")),
		Email:     utils.NormalizeEmail(rec.String("email")),
		Role:      lowerOr(rec.String("role"), domain.RoleJobseeker),
		Status:    lowerOr(rec.String("status"), domain.UserActive),
		Phone:     rec.String("phone"),
		City:      utils.NormalizeSpace(rec.String("city")),
	}
	if p := (models.UserProfile{
		Headline:        rec.String("profile.headline"),
		ExperienceYears: recInt64(rec, "profile.experience_years"),
		Skills:          recStrings(rec, "profile.skills"),
		CompanyName:     rec.String("profile.company_name"),
	}); p.Headline != "" || p.ExperienceYears != nil || p.Skills != nil || p.CompanyName != "" {
		u.Profile = &p
	}

	errs := validateUser(u)
	checkOneOf(&errs, "role", u.Role, domain.Roles)
	checkOneOf(&errs, "status", u.Status, domain.UserStatuses)
	if err := errs.OrNil(); err != nil {
		return err
	}

	exists, err := s.Users.ExistsEmail(ctx, u.Email)
	if err != nil {
		return err
	}
	if exists {
		return domain.ConflictError{Resource: "user", Msg: "email " + u.Email + " is already registered"}
	}
	u.PasswordHash = ImportedPasswordHash
	return s.Users.Create(ctx, &u)
}

func (s UserService) create(ctx context.Context, u *models.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost())
	if err != nil {
		return domain.InternalError{Msg: "could not hash password", Err: err}
	}
	u.PasswordHash = string(hash)
	return s.Users.Create(ctx, u)
}

func validateUser(u models.User) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if u.FirstName == "" {
		errs = append(errs, domain.ValidationError{Field: "first_name", Msg: "is required"})
	}
	if _, err := mail.ParseAddress(u.Email); err != nil || !strings.Contains(u.Email, "@") {
		errs = append(errs, domain.ValidationError{Field: "email", Msg: "must be a valid address"})
	}
	if p := u.Profile; p != nil && p.ExperienceYears != nil && *p.ExperienceYears < 0 {
		errs = append(errs, domain.ValidationError{Field: "experience_years", Msg: "must not be negative"})
	}
	return errs
}

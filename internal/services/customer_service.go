package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"gotier/internal/domain"
	"gotier/internal/repos"
	"gotier/internal/textcheck"
	"gotier/internal/validate"
)

const adultAge = 18

type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Birthdate string `json:"birthdate"`
}

// UpdateInput holds the profile fields to change; empty fields are left
// alone. Password is the current password and is required to change the
// email or to set NewPassword.
type UpdateInput struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	NewPassword string `json:"newpass"`
	Birthdate   string `json:"birthdate"`
	Gender      string `json:"gender"`
	Phone       string `json:"phone"`
	Country     string `json:"country"`
	City        string `json:"city"`
	Address     string `json:"address"`
}

// Reactions are the review ids a customer liked, disliked or reported.
type Reactions struct {
	Likes    []int64 `json:"likes"`
	Dislikes []int64 `json:"dislikes"`
	Reports  []int64 `json:"reports"`
}

type CustomerDeps struct {
	Tx        *repos.TxManager
	Customers *repos.CustomerRepo
	Reviews   *repos.ReviewRepo
	Text      textcheck.Validator
	DailyCap  int
	Clock     func() time.Time
}

// CustomerService owns the account lifecycle: registration, profile edits,
// removal and the caller's review reactions.
type CustomerService struct {
	tx        *repos.TxManager
	customers *repos.CustomerRepo
	reviews   *repos.ReviewRepo
	text      textcheck.Validator
	dailyCap  int
	clock     func() time.Time
}

func NewCustomerService(deps CustomerDeps) *CustomerService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	text := deps.Text
	if text == nil {
		text = textcheck.New()
	}
	return &CustomerService{
		tx:        deps.Tx,
		customers: deps.Customers,
		reviews:   deps.Reviews,
		text:      text,
		dailyCap:  deps.DailyCap,
		clock:     clock,
	}
}

// Register creates a customer account. Field checks run first; the daily
// cap and uniqueness checks share the insert transaction.
func (s *CustomerService) Register(ctx context.Context, in RegisterInput) (int64, error) {
	now := s.clock()
	today := now.Format(dateLayout)

	username, err := checkUsername(in.Username)
	if err != nil {
		return 0, err
	}
	email, err := checkEmail(in.Email)
	if err != nil {
		return 0, err
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return 0, err
	}
	born, err := checkBirthdate(in.Birthdate, now)
	if err != nil {
		return 0, err
	}
	if err := s.checkName(username); err != nil {
		return 0, err
	}

	var id int64
	err = s.tx.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		customers := s.customers.WithTx(tx)
		if err := DailyCap(ctx, s.dailyCap, today, customers.CountJoinedOn, domain.ReasonDailySignupCap); err != nil {
			return err
		}
		if err := usernameFree(ctx, customers, username, 0); err != nil {
			return err
		}
		if err := emailFree(ctx, customers, email, 0); err != nil {
			return err
		}
		id, err = customers.Create(ctx, domain.Customer{
			Username:  username,
			Email:     email,
			Hash:      hash,
			Birthdate: born,
			Joined:    today,
		})
		if errors.Is(err, repos.ErrDuplicate) {
			return domain.Conflict("Username or email is already in use.")
		}
		return err
	})
	return id, err
}

func (s *CustomerService) Profile(ctx context.Context, id int64) (*domain.Customer, error) {
	c, err := s.customers.ByID(ctx, id)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, domain.NotFound("Customer not found.")
	}
	return c, err
}

// Update applies the non-empty fields of in to the account. Username and
// birthdate go through the registration rules again.
func (s *CustomerService) Update(ctx context.Context, id int64, in UpdateInput) (*domain.Customer, error) {
	cur, err := s.Profile(ctx, id)
	if err != nil {
		return nil, err
	}
	next := *cur

	if in.Email != "" || in.NewPassword != "" {
		if bcrypt.CompareHashAndPassword([]byte(cur.Hash), []byte(in.Password)) != nil {
			return nil, domain.Unauthenticated(domain.ReasonIncorrectPassword)
		}
	}
	if in.Email != "" {
		if next.Email, err = checkEmail(in.Email); err != nil {
			return nil, err
		}
	}
	if in.NewPassword != "" {
		if next.Hash, err = hashPassword(in.NewPassword); err != nil {
			return nil, err
		}
	}
	if in.Username != "" {
		if next.Username, err = checkUsername(in.Username); err != nil {
			return nil, err
		}
		if err := s.checkName(next.Username); err != nil {
			return nil, err
		}
	}
	if in.Birthdate != "" {
		if next.Birthdate, err = checkBirthdate(in.Birthdate, s.clock()); err != nil {
			return nil, err
		}
	}
	if in.Gender != "" {
		g := strings.ToUpper(strings.TrimSpace(in.Gender))
		if g != "M" && g != "F" {
			return nil, domain.Validation("gender", "Gender must be M or F.")
		}
		next.Gender = g
	}
	for _, f := range []struct {
		name string
		in   string
		out  *string
	}{
		{"phone", in.Phone, &next.Phone},
		{"country", in.Country, &next.Country},
		{"city", in.City, &next.City},
		{"address", in.Address, &next.Address},
	} {
		v := strings.TrimSpace(f.in)
		if v == "" {
			continue
		}
		if utf8.RuneCountInString(v) > 100 {
			return nil, domain.Validation(f.name, fmt.Sprintf("The %s must be at most 100 characters.", f.name))
		}
		*f.out = v
	}

	err = s.tx.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		customers := s.customers.WithTx(tx)
		if err := usernameFree(ctx, customers, next.Username, id); err != nil {
			return err
		}
		if err := emailFree(ctx, customers, next.Email, id); err != nil {
			return err
		}
		err := customers.Update(ctx, next)
		switch {
		case errors.Is(err, repos.ErrDuplicate):
			return domain.Conflict("Username or email is already in use.")
		case errors.Is(err, repos.ErrNotFound):
			return domain.NotFound("Customer not found.")
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &next, nil
}

// Delete removes an account. Their orders stay on record without an owner.
func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	err := s.customers.Delete(ctx, id)
	if errors.Is(err, repos.ErrNotFound) {
		return domain.NotFound("Customer not found.")
	}
	return err
}

// DeleteSelf removes the caller's own account after re-checking password.
func (s *CustomerService) DeleteSelf(ctx context.Context, id int64, password string) error {
	c, err := s.Profile(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(c.Hash), []byte(password)) != nil {
		return domain.Unauthenticated(domain.ReasonIncorrectPassword)
	}
	return s.Delete(ctx, id)
}

func (s *CustomerService) Reactions(ctx context.Context, id int64) (Reactions, error) {
	var out Reactions
	var err error
	if out.Likes, err = s.reviews.ReactedBy(ctx, repos.Likes, id); err != nil {
		return Reactions{}, fmt.Errorf("load likes: %w", err)
	}
	if out.Dislikes, err = s.reviews.ReactedBy(ctx, repos.Dislikes, id); err != nil {
		return Reactions{}, fmt.Errorf("load dislikes: %w", err)
	}
	if out.Reports, err = s.reviews.ReactedBy(ctx, repos.Reports, id); err != nil {
		return Reactions{}, fmt.Errorf("load reports: %w", err)
	}
	return out, nil
}

func (s *CustomerService) checkName(username string) error {
	if err := s.text.Validate(username); err != nil {
		return domain.Rejected("username", domain.ReasonInappropriateName)
	}
	return nil
}

func checkUsername(raw string) (string, error) {
	username := strings.TrimSpace(raw)
	if n := utf8.RuneCountInString(username); n < 8 {
		return "", domain.Validation("username", "Username is too short.")
	} else if n > 16 {
		return "", domain.Validation("username", "Username is too long.")
	}
	if _, ok := validate.Username(username); !ok {
		return "", domain.Validation("username", "Username may only contain letters, digits and @.+-_ characters.")
	}
	return username, nil
}

func checkEmail(raw string) (string, error) {
	email, ok := validate.Email(raw)
	if !ok {
		return "", domain.Validation("email", "Enter a valid email address.")
	}
	return email, nil
}

func hashPassword(password string) (string, error) {
	if !validate.Password(password) {
		return "", domain.Validation("password", "Password must be 8 to 20 characters with upper and lower case letters, a digit and a symbol.")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// checkBirthdate returns the normalized date of an adult birthdate.
func checkBirthdate(raw string, now time.Time) (string, error) {
	born, ok := validate.Birthdate(raw, now)
	if !ok {
		return "", domain.Validation("birthdate", "Birthdate must be a past date in YYYY-MM-DD format.")
	}
	if born.AddDate(adultAge, 0, 0).After(now) {
		return "", domain.BusinessRule(domain.ReasonUnderage)
	}
	return born.Format(dateLayout), nil
}

func usernameFree(ctx context.Context, customers *repos.CustomerRepo, username string, self int64) error {
	other, err := customers.ByUsername(ctx, username)
	if errors.Is(err, repos.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if other.ID != self {
		return domain.Conflict(fmt.Sprintf("Username %q is already in use.", username))
	}
	return nil
}

func emailFree(ctx context.Context, customers *repos.CustomerRepo, email string, self int64) error {
	taken, err := customers.EmailTaken(ctx, email, self)
	if err != nil {
		return err
	}
	if taken {
		return domain.Conflict(fmt.Sprintf("Email %q is already in use.", email))
	}
	return nil
}

// internal/registration/service.go
//
// Merchant sign-up and sign-in.
//
// Context
// -------
// Registration is where the subdomain allocator earns its keep.  The flow:
//
//   1. Validate struct tags (lengths, email shape, password confirmation).
//   2. Normalise the email and derive the subdomain from the requested value
//      or, when blank, from the store name.
//   3. Pre-check: email taken → field error; subdomain taken → field error
//      with Suggest alternatives.
//   4. Hash the password (bcrypt) and insert.
//   5. Commit race: a *merchant.UniquenessViolation from Insert is turned
//      into the same field errors, with a fresh Suggest for subdomains.
//
// Any other failure is wrapped in ErrSaveFailed so handlers answer with a
// generic message and never leak driver text.
//
// Notes
// -----
// • Field names in errors match the JSON request body.
// • Oxford commas, two spaces after periods.
package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/yanizio/storefront/internal/form"
	"github.com/yanizio/storefront/internal/merchant"
	"github.com/yanizio/storefront/internal/metrics"
	"github.com/yanizio/storefront/internal/slug"
)

// DefaultSuggestions is how many alternatives accompany a subdomain error.
const DefaultSuggestions = 3

var (
	// ErrSaveFailed marks a registration that failed for reasons the user
	// cannot fix.
	ErrSaveFailed = errors.New("registration: could not save account")

	// ErrInvalidCredentials is returned by Authenticate for an unknown email
	// or a wrong password.
	ErrInvalidCredentials = errors.New("registration: invalid credentials")
)

const (
	msgEmailTaken   = "This email is already registered."
	msgSubdomainFmt = "The subdomain %q is already in use."
	msgSubdomainLen = "Must be at most 50 characters."
)

// Request is the sign-up payload.
type Request struct {
	FirstName       string `json:"first_name"       validate:"required,min=2,max=50"`
	LastName        string `json:"last_name"        validate:"required,min=2,max=50"`
	Email           string `json:"email"            validate:"required,email,max=100"`
	Password        string `json:"password"         validate:"required,min=6,max=35"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	StoreName       string `json:"store_name"       validate:"required,max=100"`
	StoreAddress    string `json:"store_address"    validate:"required,max=255"`
	Phone           string `json:"phone"            validate:"required,max=20"`
	Subdomain       string `json:"subdomain"        validate:"max=100"`
	Country         string `json:"country"          validate:"required,max=50"`
	City            string `json:"city"             validate:"required,max=50"`
}

// Result identifies the new merchant.
type Result struct {
	ID        uint64 `json:"id"`
	Subdomain string `json:"subdomain"`
}

// Identities is the identity store as seen by registration.  The merchant
// repository satisfies it.
type Identities interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsBySubdomain(ctx context.Context, subdomain string) (bool, error)
	Insert(ctx context.Context, rec *merchant.Record) (uint64, error)
	ByEmail(ctx context.Context, email string) (*merchant.Record, error)
}

// Service runs registrations against one identity store.
type Service struct {
	ids         Identities
	alloc       *slug.Allocator
	suggestions int
	cost        int
}

// Option tweaks a Service.
type Option func(*Service)

// WithSuggestions sets the number of alternatives offered (default 3).
func WithSuggestions(n int) Option { return func(s *Service) { s.suggestions = n } }

// WithBcryptCost overrides bcrypt.DefaultCost.
func WithBcryptCost(c int) Option { return func(s *Service) { s.cost = c } }

// NewService wires ids and alloc.  alloc should check the same store.
func NewService(ids Identities, alloc *slug.Allocator, opts ...Option) *Service {
	s := &Service{
		ids:         ids,
		alloc:       alloc,
		suggestions: DefaultSuggestions,
		cost:        bcrypt.DefaultCost,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a merchant.  It returns a *form.ValidationError for
// anything the user can fix and ErrSaveFailed (wrapped) otherwise.
func (s *Service) Register(ctx context.Context, req Request) (*Result, error) {
	req.Email = NormalizeEmail(req.Email)
	if err := form.Validate(ctx, req); err != nil {
		s.count("invalid")
		return nil, err
	}

	email := req.Email
	raw := strings.TrimSpace(req.Subdomain)
	if raw == "" {
		raw = strings.TrimSpace(req.StoreName)
	}
	sub := s.alloc.Slugify(raw)

	ve := &form.ValidationError{}
	if len(sub) > merchant.MaxSubdomainLength {
		ve.Add(form.ErrorField{Name: merchant.FieldSubdomain, Message: msgSubdomainLen})
	}

	taken, err := s.ids.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, s.failed("email precheck", err)
	}
	if taken {
		ve.Add(form.ErrorField{Name: merchant.FieldEmail, Message: msgEmailTaken})
	}

	if len(sub) <= merchant.MaxSubdomainLength {
		taken, err = s.alloc.Exists(ctx, sub)
		if err != nil {
			return nil, s.failed("subdomain precheck", err)
		}
		if taken {
			metrics.SubdomainConflictsTotal.WithLabelValues("precheck").Inc()
			f, err := s.subdomainTaken(ctx, sub)
			if err != nil {
				return nil, s.failed("suggest", err)
			}
			ve.Add(f)
		}
	}

	if !ve.Empty() {
		s.count("invalid")
		return nil, ve
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, s.failed("hash password", err)
	}

	rec := &merchant.Record{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		PasswordHash: string(hash),
		StoreName:    strings.TrimSpace(req.StoreName),
		StoreAddress: strings.TrimSpace(req.StoreAddress),
		Phone:        strings.TrimSpace(req.Phone),
		Subdomain:    sub,
		Country:      strings.TrimSpace(req.Country),
		City:         strings.TrimSpace(req.City),
		Status:       merchant.StatusActive,
	}

	id, err := s.ids.Insert(ctx, rec)
	if err != nil {
		var uv *merchant.UniquenessViolation
		if !errors.As(err, &uv) {
			return nil, s.failed("insert", err)
		}
		return nil, s.commitConflict(ctx, uv, sub)
	}

	s.count("ok")
	zap.L().Info("merchant registered",
		zap.Uint64("merchant_id", id),
		zap.String("subdomain", sub))
	return &Result{ID: id, Subdomain: sub}, nil
}

// commitConflict reports a unique-key rejection that slipped past the
// pre-check.
func (s *Service) commitConflict(ctx context.Context, uv *merchant.UniquenessViolation, sub string) error {
	ve := &form.ValidationError{}
	switch uv.Field {
	case merchant.FieldEmail:
		ve.Add(form.ErrorField{Name: merchant.FieldEmail, Message: msgEmailTaken})
	case merchant.FieldSubdomain:
		metrics.SubdomainConflictsTotal.WithLabelValues("commit").Inc()
		f, err := s.subdomainTaken(ctx, sub)
		if err != nil {
			return s.failed("suggest after conflict", err)
		}
		ve.Add(f)
	default:
		return s.failed("insert", uv)
	}
	zap.L().Info("registration lost uniqueness race",
		zap.String("field", uv.Field),
		zap.String("value", uv.Value))
	s.count("invalid")
	return ve
}

func (s *Service) subdomainTaken(ctx context.Context, sub string) (form.ErrorField, error) {
	alts, err := s.alloc.Suggest(ctx, sub, s.suggestions)
	if err != nil {
		return form.ErrorField{}, err
	}
	return form.ErrorField{
		Name:        merchant.FieldSubdomain,
		Message:     fmt.Sprintf(msgSubdomainFmt, sub),
		Suggestions: alts,
	}, nil
}

func (s *Service) failed(stage string, err error) error {
	s.count("error")
	zap.L().Error("registration failed", zap.String("stage", stage), zap.Error(err))
	return fmt.Errorf("%w: %s: %w", ErrSaveFailed, stage, err)
}

func (s *Service) count(result string) {
	metrics.RegistrationsTotal.WithLabelValues(result).Inc()
}

// Authenticate returns the active merchant whose email and password match.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*merchant.Record, error) {
	rec, err := s.ids.ByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, merchant.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return rec, nil
}

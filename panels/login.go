package panels

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/go-playground/validator/v10"

	"food-delivery-client/api"
	"food-delivery-client/models"
)

var validate = validator.New()

// LoginForm is the login-mode submission.
type LoginForm struct {
	Email    string          `validate:"required,email"`
	UserType models.UserType `validate:"required,oneof=customer driver restaurant admin"`
}

// RegisterForm is the registration-mode submission. Address is optional, as
// on the platform's own form; the default geolocation is filled in here.
type RegisterForm struct {
	Email    string          `validate:"required,email"`
	Name     string          `validate:"required"`
	Phone    string          `validate:"required"`
	UserType models.UserType `validate:"required,oneof=customer driver restaurant admin"`
	Address  string
}

// LoginPanel is the combined login/registration view shown whenever no user
// is present.
type LoginPanel struct {
	deps Deps

	mu      sync.Mutex
	loading bool
}

// NewLoginPanel builds the panel.
func NewLoginPanel(deps Deps) *LoginPanel {
	return &LoginPanel{deps: deps}
}

func (p *LoginPanel) Mount(ctx context.Context) error { return nil }

func (p *LoginPanel) Close() {}

func (p *LoginPanel) Render(w io.Writer) {
	fmt.Fprintln(w, "Not logged in.")
	fmt.Fprintln(w, "  login <email> <customer|driver|restaurant|admin>")
	fmt.Fprintln(w, "  register <email> <name> <phone> <role> [address]")
}

// Loading reports whether a submission is in flight; further submissions are
// rejected until it resolves.
func (p *LoginPanel) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

func (p *LoginPanel) begin() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loading {
		return false
	}
	p.loading = true
	return true
}

func (p *LoginPanel) end() {
	p.mu.Lock()
	p.loading = false
	p.mu.Unlock()
}

// SubmitLogin validates and submits the login form. On success the returned
// user and token are handed to the session; on failure the server's message
// is surfaced verbatim.
func (p *LoginPanel) SubmitLogin(ctx context.Context, form LoginForm) error {
	if err := validate.Struct(form); err != nil {
		p.deps.notice("Invalid form: %v", err)
		return err
	}
	if !p.begin() {
		return fmt.Errorf("submission already in progress")
	}
	defer p.end()

	resp, err := p.deps.API.Login(ctx, form.Email, form.UserType)
	if err != nil {
		p.deps.notice("%s", errorDetail(err))
		return err
	}
	return p.deps.Session.Login(&resp.User, resp.Token)
}

// SubmitRegister validates and submits the registration form with the
// default geolocation.
func (p *LoginPanel) SubmitRegister(ctx context.Context, form RegisterForm) error {
	if err := validate.Struct(form); err != nil {
		p.deps.notice("Invalid form: %v", err)
		return err
	}
	if !p.begin() {
		return fmt.Errorf("submission already in progress")
	}
	defer p.end()

	loc := defaultLocation
	resp, err := p.deps.API.Register(ctx, models.UserCreate{
		Email:    form.Email,
		Name:     form.Name,
		Phone:    form.Phone,
		UserType: form.UserType,
		Address:  form.Address,
		Location: &loc,
	})
	if err != nil {
		p.deps.notice("%s", errorDetail(err))
		return err
	}
	return p.deps.Session.Login(&resp.User, resp.Token)
}

// errorDetail extracts the user-facing message for a failed call: the
// server's detail when present, a generic fallback otherwise (network
// errors and the like are not worth showing raw).
func errorDetail(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return "An error occurred"
}

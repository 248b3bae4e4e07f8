package accounts

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

const (
	// IdentityContextKey is the fiber locals key the bearer guard
	// stores the resolved identity under.
	IdentityContextKey = "identity"
	// ClaimsContextKey is the fiber locals key the bearer guard stores
	// the validated claims under.
	ClaimsContextKey = "claims"
)

// AccountsController exposes the credential service and profile
// service over HTTP. Structural payload validation runs here, before
// the core is invoked; core failures map to statuses by their embedded
// HTTP code.
type AccountsController struct {
	Credentials *CredentialService
	Profile     *ProfileService
	Logger      Logger
	// UniformAuthErrors collapses the unknown-email, username-mismatch,
	// and password-mismatch messages into one generic response so
	// clients cannot enumerate accounts. Statuses are unchanged.
	UniformAuthErrors bool

	validator  TokenValidator
	authScheme string
}

type ControllerOption func(*AccountsController) *AccountsController

// NewAccountsController wires a controller from the two services and
// the injected configuration.
func NewAccountsController(credentials *CredentialService, profile *ProfileService, cfg Config, opts ...ControllerOption) *AccountsController {
	scheme := cfg.GetAuthScheme()
	if scheme == "" {
		scheme = "Bearer"
	}

	c := &AccountsController{
		Credentials: credentials,
		Profile:     profile,
		Logger:      defLogger{},
		validator:   credentials.TokenService(),
		authScheme:  scheme,
	}

	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

func WithControllerLogger(logger Logger) ControllerOption {
	return func(c *AccountsController) *AccountsController {
		c.Logger = logger
		return c
	}
}

// WithUniformAuthErrors enables the enumeration-safe generic message
// for authentication failures.
func WithUniformAuthErrors() ControllerOption {
	return func(c *AccountsController) *AccountsController {
		c.UniformAuthErrors = true
		return c
	}
}

// RegisterRoutes mounts the credential and profile routes. Profile
// routes sit behind the bearer guard.
func (a *AccountsController) RegisterRoutes(app *fiber.App) {
	auth := app.Group("/auth")
	auth.Post("/signup", a.Signup)
	auth.Post("/login", a.Login)

	user := app.Group("/user", a.RequireAuth)
	user.Get("/", a.CurrentUser)
	user.Patch("/", a.UpdateUser)
	user.Delete("/", a.RemoveUser)
}

// SignupRequest payload
type SignupRequest struct {
	Email    string `form:"email" json:"email"`
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Username,
			validation.Required,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Username,
			validation.Required,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *AccountsController) Signup(ctx *fiber.Ctx) error {
	payload := new(SignupRequest)

	if err := ctx.BodyParser(payload); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return badRequest(ctx, err.Error())
	}

	token, err := a.Credentials.Signup(ctx.Context(), payload.Email, payload.Username, payload.Password)
	if err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(token)
}

func (a *AccountsController) Login(ctx *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := ctx.BodyParser(payload); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return badRequest(ctx, err.Error())
	}

	token, err := a.Credentials.Login(ctx.Context(), payload.Email, payload.Username, payload.Password)
	if err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(token)
}

// RequireAuth is the bearer guard for profile routes. It validates the
// token, resolves the identity minus its password hash, and stores
// both in request locals. Failures are unauthenticated outcomes, not
// server faults.
func (a *AccountsController) RequireAuth(ctx *fiber.Ctx) error {
	raw, ok := bearerToken(ctx.Get(fiber.HeaderAuthorization), a.authScheme)
	if !ok {
		return unauthenticated(ctx)
	}

	claims, err := a.validator.Validate(raw)
	if err != nil {
		a.Logger.Debug("bearer guard rejected token", "error", err)
		return unauthenticated(ctx)
	}

	user, err := a.Profile.Get(ctx.Context(), claims.UserID())
	if err != nil {
		if errors.IsNotFound(err) {
			return unauthenticated(ctx)
		}
		return a.renderError(ctx, err)
	}

	ctx.Locals(ClaimsContextKey, claims)
	ctx.Locals(IdentityContextKey, user)

	return ctx.Next()
}

func (a *AccountsController) CurrentUser(ctx *fiber.Ctx) error {
	user, ok := ctx.Locals(IdentityContextKey).(*User)
	if !ok {
		return unauthenticated(ctx)
	}

	return ctx.JSON(user)
}

// UpdateUserRequest payload
type UpdateUserRequest struct {
	Email       *string `form:"email" json:"email"`
	Username    *string `form:"username" json:"username"`
	DisplayName *string `form:"display_name" json:"display_name"`
	Password    *string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			is.Email,
		),
	)
}

func (a *AccountsController) UpdateUser(ctx *fiber.Ctx) error {
	user, ok := ctx.Locals(IdentityContextKey).(*User)
	if !ok {
		return unauthenticated(ctx)
	}

	payload := new(UpdateUserRequest)
	if err := ctx.BodyParser(payload); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return badRequest(ctx, err.Error())
	}

	updated, err := a.Profile.Update(ctx.Context(), user.ID, ProfileUpdate{
		Email:       payload.Email,
		Username:    payload.Username,
		DisplayName: payload.DisplayName,
		Password:    payload.Password,
	})
	if err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.JSON(updated)
}

func (a *AccountsController) RemoveUser(ctx *fiber.Ctx) error {
	user, ok := ctx.Locals(IdentityContextKey).(*User)
	if !ok {
		return unauthenticated(ctx)
	}

	if err := a.Profile.Remove(ctx.Context(), user.ID); err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.JSON(user)
}

// renderError maps rich errors to their embedded HTTP code. Anything
// uncategorized is an infrastructure fault: logged here, surfaced as a
// generic server error.
func (a *AccountsController) renderError(ctx *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		a.Logger.Error("unhandled error in accounts controller", "error", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "internal server error",
		})
	}

	message := richErr.Message
	if a.UniformAuthErrors && IsAuthFailure(richErr) {
		message = "invalid credentials"
	}

	status := richErr.Code
	if status < fiber.StatusBadRequest {
		status = fiber.StatusInternalServerError
	}

	return ctx.Status(status).JSON(fiber.Map{
		"message": message,
		"code":    richErr.TextCode,
	})
}

func badRequest(ctx *fiber.Ctx, message string) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": message,
	})
}

func unauthenticated(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "unauthenticated",
	})
}

func bearerToken(header, scheme string) (string, bool) {
	if header == "" {
		return "", false
	}

	prefix := scheme + " "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

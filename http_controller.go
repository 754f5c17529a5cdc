package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// AuthController exposes the credential endpoints over HTTP
type AuthController struct {
	Auther Authenticator
	Logger Logger
	Routes *AuthControllerRoutes
}

type AuthControllerRoutes struct {
	Register string
	Login    string
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func NewAuthController(auther Authenticator, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Auther: auther,
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Register: "/auth/register",
			Login:    "/auth/login",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the credential endpoints on the router
func RegisterAuthRoutes(app fiber.Router, controller *AuthController) {
	app.Post(controller.Routes.Register, controller.RegisterPost)
	app.Post(controller.Routes.Login, controller.LoginPost)
}

// RegisterRequest payload
type RegisterRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Username,
			validation.Required,
			validation.Length(3, 64),
		),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.Length(8, 72),
		),
	)
}

// LoginRequest payload
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// RegisterPost handles POST /auth/register
func (a *AuthController) RegisterPost(ctx *fiber.Ctx) error {
	payload := new(RegisterRequest)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Debug("RegisterPost bind error", "error", err)
		return ctx.Status(fiber.StatusBadRequest).SendString("Invalid request payload")
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": err.Error(),
		})
	}

	if err := a.Auther.Register(ctx.UserContext(), payload.Username, payload.Password); err != nil {
		if IsUsernameTakenError(err) {
			return ctx.Status(fiber.StatusBadRequest).SendString("Username is already taken!")
		}

		a.Logger.Error("RegisterPost error", "error", err)
		return ctx.Status(resolveStatus(err, fiber.StatusInternalServerError)).
			SendString("Unable to register user")
	}

	return ctx.Status(fiber.StatusOK).SendString("User registered successfully!")
}

// LoginPost handles POST /auth/login. Every authentication failure maps to
// the same 401 body; the precise cause stays in the logs.
func (a *AuthController) LoginPost(ctx *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Debug("LoginPost bind error", "error", err)
		return ctx.Status(fiber.StatusBadRequest).SendString("Invalid request payload")
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": err.Error(),
		})
	}

	token, err := a.Auther.Login(ctx.UserContext(), payload.Username, payload.Password)
	if err != nil {
		if IsInvalidCredentialsError(err) {
			return ctx.Status(fiber.StatusUnauthorized).SendString("Invalid credentials")
		}

		a.Logger.Error("LoginPost error", "error", err)
		return ctx.Status(resolveStatus(err, fiber.StatusInternalServerError)).
			SendString("Unable to authenticate")
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"token": token,
	})
}

// resolveStatus picks the HTTP status from a structured error, falling back
// when the error carries none
func resolveStatus(err error, fallback int) int {
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.Code > 0 {
		return richErr.Code
	}
	return fallback
}

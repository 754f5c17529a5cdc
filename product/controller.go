package product

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	auth "github.com/goliatone/go-auth-service"
)

// Resource is the policy key for this entity
const Resource = "products"

// Controller exposes the product CRUD over HTTP. Authorization happens in
// the guard middleware before any handler runs; handlers only deal with the
// entity.
type Controller struct {
	Repo   Repository
	Logger auth.Logger
}

// NewController creates the controller
func NewController(repo Repository, logger auth.Logger) *Controller {
	if logger == nil {
		panic("Missing logger in product controller...")
	}
	if repo == nil {
		panic("Missing repository in product controller...")
	}
	return &Controller{Repo: repo, Logger: logger}
}

// RegisterRoutes mounts the CRUD endpoints, each behind the guard built for
// its operation
func RegisterRoutes(app fiber.Router, ctrl *Controller, protect func(operation auth.Operation) fiber.Handler) {
	app.Get("/products", protect(auth.OpRead), ctrl.List)
	app.Get("/products/:id", protect(auth.OpRead), ctrl.Show)
	app.Post("/products", protect(auth.OpCreate), ctrl.Create)
	app.Put("/products/:id", protect(auth.OpUpdate), ctrl.Update)
	app.Delete("/products/:id", protect(auth.OpDelete), ctrl.Delete)
}

// ProductRequest is the write payload
type ProductRequest struct {
	Name        string  `form:"name" json:"name"`
	Description string  `form:"description" json:"description"`
	Price       float64 `form:"price" json:"price"`
}

// Validate will run validation rules
func (r ProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Price, validation.Min(0.0)),
	)
}

// List handles GET /products
func (c *Controller) List(ctx *fiber.Ctx) error {
	records, err := c.Repo.FindAll(ctx.UserContext())
	if err != nil {
		c.Logger.Error("product list error", "error", err)
		return ctx.SendStatus(fiber.StatusInternalServerError)
	}

	return ctx.JSON(records)
}

// Show handles GET /products/:id
func (c *Controller) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.SendStatus(fiber.StatusNotFound)
	}

	record, err := c.Repo.FindByID(ctx.UserContext(), id)
	if err != nil {
		if IsNotFound(err) {
			return ctx.SendStatus(fiber.StatusNotFound)
		}
		c.Logger.Error("product show error", "error", err)
		return ctx.SendStatus(fiber.StatusInternalServerError)
	}

	return ctx.JSON(record)
}

// Create handles POST /products
func (c *Controller) Create(ctx *fiber.Ctx) error {
	payload := new(ProductRequest)

	if err := ctx.BodyParser(payload); err != nil {
		c.Logger.Debug("product create bind error", "error", err)
		return ctx.Status(fiber.StatusBadRequest).SendString("Invalid request payload")
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": err.Error(),
		})
	}

	record, err := c.Repo.Create(ctx.UserContext(), &Product{
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
	})
	if err != nil {
		c.Logger.Error("product create error", "error", err)
		return ctx.SendStatus(fiber.StatusInternalServerError)
	}

	if principal, ok := auth.PrincipalFromContext(ctx.UserContext()); ok {
		c.Logger.Info("product created", "id", record.ID, "actor", principal.Username())
	}

	return ctx.JSON(record)
}

// Update handles PUT /products/:id. Mirrors create but copies the payload
// onto the stored record so unknown fields are preserved.
func (c *Controller) Update(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.SendStatus(fiber.StatusNotFound)
	}

	payload := new(ProductRequest)
	if err := ctx.BodyParser(payload); err != nil {
		c.Logger.Debug("product update bind error", "error", err)
		return ctx.Status(fiber.StatusBadRequest).SendString("Invalid request payload")
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": err.Error(),
		})
	}

	record, err := c.Repo.FindByID(ctx.UserContext(), id)
	if err != nil {
		if IsNotFound(err) {
			return ctx.SendStatus(fiber.StatusNotFound)
		}
		c.Logger.Error("product update lookup error", "error", err)
		return ctx.SendStatus(fiber.StatusInternalServerError)
	}

	record.Name = payload.Name
	record.Description = payload.Description
	record.Price = payload.Price

	updated, err := c.Repo.Update(ctx.UserContext(), record)
	if err != nil {
		if IsNotFound(err) {
			return ctx.SendStatus(fiber.StatusNotFound)
		}
		c.Logger.Error("product update error", "error", err)
		return ctx.SendStatus(fiber.StatusInternalServerError)
	}

	return ctx.JSON(updated)
}

// Delete handles DELETE /products/:id
func (c *Controller) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.SendStatus(fiber.StatusNotFound)
	}

	if _, err := c.Repo.FindByID(ctx.UserContext(), id); err != nil {
		if IsNotFound(err) {
			return ctx.SendStatus(fiber.StatusNotFound)
		}
		c.Logger.Error("product delete lookup error", "error", err)
		return ctx.SendStatus(fiber.StatusInternalServerError)
	}

	if err := c.Repo.Delete(ctx.UserContext(), id); err != nil {
		// a concurrent delete between the lookup and here surfaces as a miss
		if IsNotFound(err) {
			return ctx.SendStatus(fiber.StatusNotFound)
		}
		c.Logger.Error("product delete error", "error", err)
		return ctx.SendStatus(fiber.StatusInternalServerError)
	}

	if principal, ok := auth.PrincipalFromContext(ctx.UserContext()); ok {
		c.Logger.Info("product deleted", "id", id, "actor", principal.Username())
	}

	return ctx.SendStatus(fiber.StatusOK)
}

package tasks

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// RegisterRoutes mounts the public auth endpoints and the protected task
// endpoints on the given app.
func RegisterRoutes(app *fiber.App, auther *Auther, repo RepositoryManager, logger Logger) {
	if logger == nil {
		logger = defLogger{}
	}

	authController := &AuthController{
		Logger: logger,
		Repo:   repo,
		Auther: auther,
	}

	tasksController := &TasksController{
		Logger: logger,
		Repo:   repo,
	}

	app.Post("/register", authController.Register)
	app.Post("/token", authController.Token)
	app.Get("/confirm/:token", authController.Confirm)

	protected := app.Group("/tasks", Protected(auther, logger))
	protected.Post("/", tasksController.Create)
	protected.Get("/", tasksController.List)
	protected.Get("/:id", tasksController.Get)
	protected.Patch("/:id", tasksController.Update)
	protected.Delete("/:id", tasksController.Delete)
}

type AuthController struct {
	Debug  bool
	Logger Logger
	Repo   RepositoryManager
	Auther *Auther
}

// RegisterPayload is the registration body
type RegisterPayload struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Validate will run validation rules
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *AuthController) Register(c *fiber.Ctx) error {
	payload := new(RegisterPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("register parse payload", "error", err)
		return RenderError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "Error parsing body"))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Debug("register validate payload", "error", err)
		return renderValidationError(c, err)
	}

	if a.Debug {
		fmt.Println("======= REGISTER ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=======================")
	}

	ctx := c.Context()

	// Check the address before hashing so a duplicate costs no bcrypt work.
	if _, err := a.Repo.Users().GetByEmail(ctx, payload.Email); err == nil {
		return RenderError(c, ErrDuplicateEmail)
	} else if !goerrors.IsNotFound(err) {
		a.Logger.Error("register lookup error", "error", err)
		return RenderError(c, err)
	}

	hash, err := HashPassword(payload.Password)
	if err != nil {
		a.Logger.Error("register hash error", "error", err)
		return RenderError(c, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password"))
	}

	user, err := a.Repo.Users().Register(ctx, payload.Email, hash)
	if err != nil {
		a.Logger.Error("register create error", "error", err)
		return RenderError(c, err)
	}

	confirmation, err := a.Auther.TokenService().IssueConfirmation(user.Email)
	if err != nil {
		a.Logger.Error("register confirmation token error", "error", err)
		return RenderError(c, err)
	}

	confirmationURL := c.BaseURL() + "/confirm/" + confirmation

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"detail": "User created. Please confirm your email: " + confirmationURL,
	})
}

// TokenPayload is the form-encoded login body, OAuth2 password-flow shaped.
type TokenPayload struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Validate will run validation rules
func (r TokenPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) Token(c *fiber.Ctx) error {
	payload := new(TokenPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("token parse payload", "error", err)
		return RenderError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "Error parsing body"))
	}

	if err := payload.Validate(); err != nil {
		return renderValidationError(c, err)
	}

	token, err := a.Auther.Login(c.Context(), payload.Username, payload.Password)
	if err != nil {
		return RenderError(c, err)
	}

	return c.JSON(fiber.Map{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (a *AuthController) Confirm(c *fiber.Ctx) error {
	email, err := a.Auther.ConfirmationSubject(c.Params("token"))
	if err != nil {
		return RenderError(c, err)
	}

	if err := a.Repo.Users().Confirm(c.Context(), email); err != nil {
		if goerrors.IsNotFound(err) {
			// Account gone since the token was issued.
			return RenderError(c, ErrInvalidToken)
		}
		a.Logger.Error("confirm update error", "error", err)
		return RenderError(c, err)
	}

	return c.JSON(fiber.Map{
		"detail": "User confirmed",
	})
}

type TasksController struct {
	Debug  bool
	Logger Logger
	Repo   RepositoryManager
}

// TaskCreatePayload is the task creation body
type TaskCreatePayload struct {
	Title   string     `json:"title"`
	Status  TaskStatus `json:"status"`
	EndDate *time.Time `json:"end_date"`
}

// Validate will run validation rules. Titles are trimmed before the length
// check so whitespace padding cannot smuggle short titles through.
func (r TaskCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Title,
			validation.Required,
			validation.Length(3, 100),
		),
		validation.Field(
			&r.Status,
			validation.By(validateStatusValue),
		),
	)
}

// TaskUpdatePayload is the partial update body; absent fields stay untouched.
type TaskUpdatePayload struct {
	Title   *string     `json:"title"`
	Status  *TaskStatus `json:"status"`
	EndDate *time.Time  `json:"end_date"`
}

// Validate will run validation rules
func (r TaskUpdatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Title,
			validation.Length(3, 100),
		),
		validation.Field(
			&r.Status,
			validation.By(validateStatusValue),
		),
	)
}

func validateStatusValue(value any) error {
	status, ok := value.(TaskStatus)
	if !ok {
		if ptr, isPtr := value.(*TaskStatus); isPtr {
			if ptr == nil {
				return nil
			}
			status = *ptr
		}
	}
	return status.Validate()
}

func (a *TasksController) Create(c *fiber.Ctx) error {
	user, err := CurrentUser(c)
	if err != nil {
		return RenderError(c, err)
	}

	payload := new(TaskCreatePayload)
	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("task create parse payload", "error", err)
		return RenderError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "Error parsing body"))
	}

	payload.Title = trimTitle(payload.Title)

	if err := payload.Validate(); err != nil {
		return renderValidationError(c, err)
	}

	task := &Task{
		Title:   payload.Title,
		Status:  payload.Status,
		EndDate: payload.EndDate,
		OwnerID: user.ID,
	}

	record, err := a.Repo.Tasks().Create(c.Context(), task)
	if err != nil {
		a.Logger.Error("task create error", "error", err)
		return RenderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

func (a *TasksController) List(c *fiber.Ctx) error {
	user, err := CurrentUser(c)
	if err != nil {
		return RenderError(c, err)
	}

	filter := TasksFilter{
		Search: c.Query("search"),
		Limit:  c.QueryInt("limit", defaultTasksLimit),
		Offset: c.QueryInt("offset", 0),
	}

	if raw := c.Query("status"); raw != "" {
		status := TaskStatus(c.QueryInt("status", -1))
		if err := status.Validate(); err != nil {
			return renderValidationError(c, validation.Errors{
				"status": err,
			})
		}
		filter.Status = &status
	}

	records, err := a.Repo.Tasks().ListByOwner(c.Context(), user.ID, filter)
	if err != nil {
		a.Logger.Error("task list error", "error", err)
		return RenderError(c, err)
	}

	return c.JSON(records)
}

func (a *TasksController) Get(c *fiber.Ctx) error {
	user, err := CurrentUser(c)
	if err != nil {
		return RenderError(c, err)
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return RenderError(c, ErrTaskNotFound)
	}

	record, err := a.Repo.Tasks().GetByIDAndOwner(c.Context(), int64(id), user.ID)
	if err != nil {
		return RenderError(c, err)
	}

	return c.JSON(record)
}

func (a *TasksController) Update(c *fiber.Ctx) error {
	user, err := CurrentUser(c)
	if err != nil {
		return RenderError(c, err)
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return RenderError(c, ErrTaskNotFound)
	}

	payload := new(TaskUpdatePayload)
	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("task update parse payload", "error", err)
		return RenderError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "Error parsing body"))
	}

	if payload.Title != nil {
		trimmed := trimTitle(*payload.Title)
		payload.Title = &trimmed
	}

	patch := TaskPatch{
		Title:   payload.Title,
		Status:  payload.Status,
		EndDate: payload.EndDate,
	}

	if patch.IsZero() {
		return RenderError(c, ErrEmptyUpdate)
	}

	if err := payload.Validate(); err != nil {
		return renderValidationError(c, err)
	}

	record, err := a.Repo.Tasks().UpdateOwned(c.Context(), int64(id), user.ID, patch)
	if err != nil {
		return RenderError(c, err)
	}

	return c.JSON(record)
}

func (a *TasksController) Delete(c *fiber.Ctx) error {
	user, err := CurrentUser(c)
	if err != nil {
		return RenderError(c, err)
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return RenderError(c, ErrTaskNotFound)
	}

	if err := a.Repo.Tasks().DeleteOwned(c.Context(), int64(id), user.ID); err != nil {
		return RenderError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func renderValidationError(c *fiber.Ctx, err error) error {
	if verrs, ok := err.(validation.Errors); ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"detail": "Validation failed",
			"errors": verrs,
		})
	}

	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"detail": err.Error(),
	})
}

func trimTitle(title string) string {
	return strings.TrimSpace(title)
}

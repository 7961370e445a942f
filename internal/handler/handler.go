package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/auth"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/config"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/domain"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/service"
)

// UserRepository is the account storage the HTTP layer needs beyond the services.
type UserRepository interface {
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) error
	UpdateUser(ctx context.Context, user *domain.User) error
}

type MailPublisher interface {
	Publish(ctx context.Context, msg domain.MailMessage) error
}

type OTPStore interface {
	Save(ctx context.Context, purpose, subject, code string) error
	Verify(ctx context.Context, purpose, subject, code string) error
}

// Deps groups what NewHandler wires together.
type Deps struct {
	Users     UserRepository
	Tokens    *auth.TokenManager
	Skills    *service.SkillManager
	Taxonomy  *service.TaxonomyRegistry
	Views     *service.AggregationView
	Directory *service.Directory
	Mail      MailPublisher
	OTP       OTPStore
}

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	translator ut.Translator

	users     UserRepository
	tokens    *auth.TokenManager
	skills    *service.SkillManager
	taxonomy  *service.TaxonomyRegistry
	views     *service.AggregationView
	directory *service.Directory
	mail      MailPublisher
	otps      OTPStore

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, deps Deps) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		translator: trans,

		users:     deps.Users,
		tokens:    deps.Tokens,
		skills:    deps.Skills,
		taxonomy:  deps.Taxonomy,
		views:     deps.Views,
		directory: deps.Directory,
		mail:      deps.Mail,
		otps:      deps.OTP,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// everything below needs a valid token
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/me", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/skills", func(r chi.Router) {
			r.Get("/", h.ListSkills)
			r.Post("/", h.CreateSkill)
			r.Put("/{index}", h.UpdateSkill)
			r.Delete("/{index}", h.DeleteSkill)
			r.Put("/id/{skillID}", h.UpdateSkillByID)
			r.Delete("/id/{skillID}", h.DeleteSkillByID)
		})

		r.Route("/taxonomy", func(r chi.Router) {
			r.Route("/skill-names", h.catalogRoutes(domain.CatalogSkillNames))
			r.Route("/course-names", h.catalogRoutes(domain.CatalogCourseNames))
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
			r.Post("/", h.CreateUser)
			r.Get("/", h.ListUsers)
			r.With(h.preventDeleteInitialAdmin).Delete("/{id}", h.DeleteUser)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
			r.Get("/pending-skills", h.GetPendingSkills)
			r.Get("/approved-skills", h.GetApprovedSkills)
			r.Get("/employee-skills", h.GetEmployeeSkills)
			r.Get("/department-stats", h.GetDepartmentStats)
			r.Get("/employee-stats", h.GetEmployeeStats)
			r.Get("/skill-name-stats", h.GetSkillNameStats)
			r.Get("/course-name-stats", h.GetCourseNameStats)
			r.Put("/skills/{skillID}/approve", h.ApproveSkill)
			r.Put("/skills/{skillID}/reject", h.RejectSkill)
		})
	})
}

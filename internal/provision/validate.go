package provision

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fieldstack/fieldstack/internal/domain"
)

// slugPattern matches lowercase alphanumeric segments joined by single
// hyphens, the URL-safe shape used for tenant-scoped routing.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// "slug" tag: URL-safe organization slug.
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})

	return v
}

// AdminUserInput describes the admin principal to provision.
type AdminUserInput struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Phone     string `json:"phone,omitempty"`
}

// BrandingInput carries optional branding overrides; empty fields fall back
// to the industry defaults.
type BrandingInput struct {
	PrimaryColor   string `json:"primaryColor,omitempty" validate:"omitempty,hexcolor"`
	SecondaryColor string `json:"secondaryColor,omitempty" validate:"omitempty,hexcolor"`
	LogoURL        string `json:"logoUrl,omitempty" validate:"omitempty,url"`
	CustomCSS      string `json:"customCss,omitempty"`
}

// SettingsInput carries tenant operational settings.
type SettingsInput struct {
	Timezone          string `json:"timezone" validate:"required"`
	Currency          string `json:"currency" validate:"required"`
	DataRetentionDays int    `json:"dataRetentionDays,omitempty" validate:"omitempty,gt=0"`
}

// Input is the request shape for provisioning one tenant.
type Input struct {
	OrganizationName string                  `json:"organizationName" validate:"required,max=255"`
	OrganizationSlug string                  `json:"organizationSlug" validate:"required,max=63,slug"`
	Industry         domain.Industry         `json:"industry" validate:"required"`
	SubscriptionTier domain.SubscriptionTier `json:"subscriptionTier" validate:"required"`
	AdminUser        AdminUserInput          `json:"adminUser" validate:"required"`
	Branding         BrandingInput           `json:"branding"`
	Settings         SettingsInput           `json:"settings" validate:"required"`
}

// Validate checks the input's syntactic constraints: slug shape, email shape,
// required fields, and closed-set membership of industry and tier. It does
// not touch the store; slug availability is checked by the service.
func (in *Input) Validate() error {
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if ok := asValidationErrors(err, &verrs); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describeFieldError(fe))
			}
			return fmt.Errorf("provision: validation failed: %s", strings.Join(msgs, ", "))
		}
		return fmt.Errorf("provision: validation failed: %w", err)
	}

	if !in.Industry.Valid() {
		return fmt.Errorf("provision: validation failed: unknown industry %q", in.Industry)
	}
	if !in.SubscriptionTier.Valid() {
		return fmt.Errorf("provision: validation failed: unknown subscription tier %q", in.SubscriptionTier)
	}

	return nil
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s is not a valid email address", fe.Field())
	case "slug":
		return fmt.Sprintf("%s is not a valid URL-safe slug", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors) //nolint:errorlint // validator returns the slice directly
	if ok {
		*target = verrs
	}
	return ok
}

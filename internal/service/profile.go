package service

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/auroramart/storefront/internal/models"
	"github.com/auroramart/storefront/internal/recommend"
	"github.com/auroramart/storefront/internal/repository"
)

// ProfileService manages customer demographics and the onboarding flow that
// seeds the preferred category from the classifier.
type ProfileService struct {
	customers   *repository.CustomerRepository
	carts       *repository.CartRepository
	recommender recommend.Recommender
	logger      *zap.Logger
}

func NewProfileService(db *gorm.DB, recommender recommend.Recommender, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		customers:   repository.NewCustomerRepository(db),
		carts:       repository.NewCartRepository(db),
		recommender: recommender,
		logger:      logger,
	}
}

func (s *ProfileService) GetOrCreate(ctx context.Context, subject string) (*models.Customer, error) {
	return s.customers.GetOrCreateBySubject(ctx, subject)
}

type ProfileUpdate struct {
	Bio              *string        `json:"bio"`
	Gender           *models.Gender `json:"gender"`
	EmploymentStatus *string        `json:"employment_status"`
	IncomeRange      *string        `json:"income_range"`
}

func (s *ProfileService) Update(ctx context.Context, customer *models.Customer, update ProfileUpdate) error {
	if update.Bio != nil {
		customer.Bio = *update.Bio
	}
	if update.Gender != nil {
		customer.Gender = *update.Gender
	}
	if update.EmploymentStatus != nil {
		customer.EmploymentStatus = *update.EmploymentStatus
	}
	if update.IncomeRange != nil {
		customer.IncomeRange = *update.IncomeRange
	}
	return s.customers.Update(ctx, customer)
}

type OnboardingInput struct {
	Age        int    `json:"age" binding:"required,min=1"`
	Gender     string `json:"gender" binding:"required"`
	Employment string `json:"employment" binding:"required"`
	Income     int    `json:"income" binding:"min=0"`
}

// Onboard stores the demographics, predicts a preferred category when the
// classifier is available, and makes sure the customer's cart exists. A
// prediction failure is tolerated; the profile is saved either way.
func (s *ProfileService) Onboard(ctx context.Context, customer *models.Customer, input OnboardingInput) error {
	age := input.Age
	customer.Age = &age
	customer.Gender = parseGender(input.Gender)
	customer.EmploymentStatus = input.Employment
	customer.IncomeRange = IncomeBracket(input.Income)

	if category, ok := s.recommender.PredictCategory(*customer); ok {
		customer.PreferredCategory = category
	} else {
		s.logger.Info("preferred category not predicted", zap.Uint("customer_id", customer.ID))
	}
	if err := s.customers.Update(ctx, customer); err != nil {
		return err
	}

	_, err := s.carts.GetOrCreate(ctx, customer.ID)
	return err
}

// IncomeBracket maps a raw annual income onto the four discrete brackets.
func IncomeBracket(income int) string {
	switch {
	case income < 30000:
		return "Below 30k"
	case income < 60000:
		return "30k-60k"
	case income < 100000:
		return "60k-100k"
	default:
		return "Above 100k"
	}
}

func parseGender(raw string) models.Gender {
	switch raw {
	case "male":
		return models.GenderMale
	case "female":
		return models.GenderFemale
	default:
		return models.GenderUnspecified
	}
}

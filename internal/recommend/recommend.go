// Package recommend wraps the externally trained decision tree and
// association rules behind an injectable Recommender. Every failure path
// degrades to a catalog-backed default; callers never see an error.
package recommend

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/auroramart/storefront/internal/models"
	"github.com/auroramart/storefront/internal/repository"
)

type Recommender interface {
	// PredictCategory classifies a customer profile into a preferred
	// category. ok is false when the model is unavailable or the profile is
	// incomplete.
	PredictCategory(customer models.Customer) (category string, ok bool)

	// ForProfile suggests up to k products for the home page.
	ForProfile(ctx context.Context, customer models.Customer, k int) []models.Product

	// ForCategories suggests up to k products related to the given
	// categories, excluding the listed product ids (typically the cart's).
	ForCategories(ctx context.Context, categories []string, exclude []uint, k int) []models.Product
}

// Engine serves recommendations from the loaded artifacts with a top-rated
// in-stock fallback from the catalog.
type Engine struct {
	tree     *treeNode
	rules    []AssociationRule
	products *repository.ProductRepository
	logger   *zap.Logger
}

func NewEngine(artifacts *Artifacts, products *repository.ProductRepository, logger *zap.Logger) *Engine {
	e := &Engine{products: products, logger: logger}
	if artifacts != nil {
		e.tree = artifacts.Tree
		e.rules = artifacts.Rules
	}
	return e
}

func (e *Engine) PredictCategory(customer models.Customer) (string, bool) {
	if e.tree == nil || customer.Age == nil {
		return "", false
	}
	features := profileFeatures(customer)
	category := e.tree.classify(features)
	return category, category != ""
}

func (e *Engine) ForProfile(ctx context.Context, customer models.Customer, k int) []models.Product {
	category := customer.PreferredCategory
	if category == "" {
		category, _ = e.PredictCategory(customer)
	}

	var categories []string
	if category != "" {
		categories = []string{category}
	}
	products, err := e.products.TopRated(ctx, categories, nil, k)
	if err != nil {
		e.logger.Warn("profile recommendation failed", zap.Error(err))
		return nil
	}
	if len(products) == 0 && len(categories) > 0 {
		return e.fallback(ctx, nil, k)
	}
	return products
}

func (e *Engine) ForCategories(ctx context.Context, categories []string, exclude []uint, k int) []models.Product {
	expanded := e.expandWithRules(categories)
	products, err := e.products.TopRated(ctx, expanded, exclude, k)
	if err != nil {
		e.logger.Warn("category recommendation failed", zap.Error(err))
		return nil
	}
	if len(products) == 0 {
		return e.fallback(ctx, exclude, k)
	}
	return products
}

func (e *Engine) fallback(ctx context.Context, exclude []uint, k int) []models.Product {
	products, err := e.products.TopRated(ctx, nil, exclude, k)
	if err != nil {
		e.logger.Warn("fallback recommendation failed", zap.Error(err))
		return nil
	}
	return products
}

// expandWithRules adds rule consequents for any antecedent category present,
// strongest rules first.
func (e *Engine) expandWithRules(categories []string) []string {
	seen := make(map[string]bool, len(categories))
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		if c != "" && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}

	matched := make([]AssociationRule, 0)
	for _, rule := range e.rules {
		if seen[rule.Antecedent] && !seen[rule.Consequent] {
			matched = append(matched, rule)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Confidence > matched[j].Confidence
	})
	for _, rule := range matched {
		if !seen[rule.Consequent] {
			seen[rule.Consequent] = true
			out = append(out, rule.Consequent)
		}
	}
	return out
}

// profileFeatures encodes a profile the way the training pipeline did:
// age, gender flag and income bracket index.
func profileFeatures(customer models.Customer) map[string]float64 {
	features := map[string]float64{
		"age":    float64(*customer.Age),
		"gender": 0,
		"income": 0,
	}
	if customer.Gender == models.GenderMale {
		features["gender"] = 1
	}
	for i, bracket := range models.IncomeRanges {
		if customer.IncomeRange == bracket {
			features["income"] = float64(i)
			break
		}
	}
	return features
}

package deals

import (
	"fmt"
	"strings"
)

// ScrapedDeal is a fully populated record built from one feed entry:
// the entry's own fields plus the extracted text of its destination page.
// Details and Features are always set together by a single content split;
// Features is empty exactly when the page had no features marker.
type ScrapedDeal struct {
	Category string
	Title    string
	Summary  string
	URL      string
	Details  string
	Features string
}

func (d ScrapedDeal) String() string {
	return "<" + d.Title + ">"
}

// Describe renders the deal as a text blob for the valuation model.
func (d ScrapedDeal) Describe() string {
	return fmt.Sprintf("Title: %s\nDetails: %s\nFeatures: %s\nURL: %s",
		d.Title, strings.TrimSpace(d.Details), strings.TrimSpace(d.Features), d.URL)
}

// Deal is the stable output contract consumed by valuation and storage.
type Deal struct {
	ProductDescription string  `json:"product_description"`
	Price              float64 `json:"price"`
	URL                string  `json:"url"`
}

// ValidationError reports a missing or mistyped required field on a Deal.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid deal: " + e.Field + ": " + e.Reason
}

// NewDeal validates the required fields. A zero price is treated as
// missing: every advertised deal carries a positive asking price.
func NewDeal(productDescription string, price float64, url string) (Deal, error) {
	if productDescription == "" {
		return Deal{}, &ValidationError{Field: "product_description", Reason: "required"}
	}
	if price <= 0 {
		return Deal{}, &ValidationError{Field: "price", Reason: "required and must be positive"}
	}
	if url == "" {
		return Deal{}, &ValidationError{Field: "url", Reason: "required"}
	}
	return Deal{ProductDescription: productDescription, Price: price, URL: url}, nil
}

// DealSelection is an ordered batch of deals picked by the valuation
// collaborator. No uniqueness constraint on its contents.
type DealSelection struct {
	Deals []Deal `json:"deals"`
}

// Opportunity wraps one Deal with an externally computed market value
// estimate. Discount is a currency delta, not a percentage: positive
// means the deal is underpriced relative to the estimate.
type Opportunity struct {
	Deal     Deal    `json:"deal"`
	Estimate float64 `json:"estimate"`
	Discount float64 `json:"discount"`
}

// NewOpportunity computes the discount from the estimate and the asking price.
func NewOpportunity(deal Deal, estimate float64) Opportunity {
	return Opportunity{
		Deal:     deal,
		Estimate: estimate,
		Discount: estimate - deal.Price,
	}
}

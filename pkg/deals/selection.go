package deals

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// ParseDealSelection decodes a deal selection from the valuation
// collaborator's JSON output. Every required field is type-checked up
// front so a missing price or a price sent as a string surfaces as a
// ValidationError instead of silently defaulting to zero.
func ParseDealSelection(raw string) (*DealSelection, error) {
	if !gjson.Valid(raw) {
		return nil, &ValidationError{Field: "deals", Reason: "not valid JSON"}
	}

	dealsField := gjson.Get(raw, "deals")
	if !dealsField.Exists() || !dealsField.IsArray() {
		return nil, &ValidationError{Field: "deals", Reason: "missing or not an array"}
	}

	sel := &DealSelection{}
	for i, item := range dealsField.Array() {
		deal, err := parseDeal(item, i)
		if err != nil {
			return nil, err
		}
		sel.Deals = append(sel.Deals, deal)
	}
	return sel, nil
}

func parseDeal(item gjson.Result, index int) (Deal, error) {
	desc := item.Get("product_description")
	if desc.Type != gjson.String || desc.String() == "" {
		return Deal{}, &ValidationError{
			Field:  fmt.Sprintf("deals.%d.product_description", index),
			Reason: "missing or not a string",
		}
	}

	price := item.Get("price")
	if price.Type != gjson.Number {
		return Deal{}, &ValidationError{
			Field:  fmt.Sprintf("deals.%d.price", index),
			Reason: "missing or not a number",
		}
	}

	url := item.Get("url")
	if url.Type != gjson.String || url.String() == "" {
		return Deal{}, &ValidationError{
			Field:  fmt.Sprintf("deals.%d.url", index),
			Reason: "missing or not a string",
		}
	}

	return Deal{
		ProductDescription: desc.String(),
		Price:              price.Float(),
		URL:                url.String(),
	}, nil
}

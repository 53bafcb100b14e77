package receipt

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"emisor/internal/core/apperror"
)

// maxNameLength caps names and descriptions, counted in characters.
const maxNameLength = 500

// taxIDPattern matches the 11-digit tax identifier format.
var taxIDPattern = regexp.MustCompile(`^\d{11}$`)

// seriesPattern matches a series code: one letter followed by three digits.
// The letter must agree with the receipt kind (F for invoices, B for
// simplified receipts), which is checked separately.
var seriesPattern = regexp.MustCompile(`^[A-Z]\d{3}$`)

// CreateInput carries everything needed to issue a receipt except the
// number, which is allocated by the service.
type CreateInput struct {
	Kind           Kind        `json:"kind"`
	Series         string      `json:"series"`
	IssuerTaxID    string      `json:"issuerTaxId"`
	IssuerName     string      `json:"issuerName"`
	RecipientTaxID *string     `json:"recipientTaxId"`
	RecipientName  *string     `json:"recipientName"`
	Items          []ItemInput `json:"items"`
}

// Validate checks the full input and collects every violation before
// returning, so the caller sees all problems in a single response.
// Returns a validation AppError whose details carry a field -> messages map,
// or nil when the input is well formed.
func (in CreateInput) Validate() error {
	fields := map[string][]string{}
	add := func(field, msg string) {
		fields[field] = append(fields[field], msg)
	}

	if !in.Kind.IsValid() {
		add("kind", "kind must be Invoice or SimplifiedReceipt")
	}

	if in.Series == "" {
		add("series", "series is required")
	} else if !seriesPattern.MatchString(in.Series) {
		add("series", "series must be a letter followed by three digits")
	} else if in.Kind.IsValid() && in.Series[0] != in.Kind.SeriesPrefix() {
		add("series", fmt.Sprintf("series for %s must start with %c", in.Kind, in.Kind.SeriesPrefix()))
	}

	if in.IssuerTaxID == "" {
		add("issuerTaxId", "issuer tax id is required")
	} else if !taxIDPattern.MatchString(in.IssuerTaxID) {
		add("issuerTaxId", "issuer tax id must be exactly 11 digits")
	}

	if in.IssuerName == "" {
		add("issuerName", "issuer name is required")
	} else if utf8.RuneCountInString(in.IssuerName) > maxNameLength {
		add("issuerName", fmt.Sprintf("issuer name must not exceed %d characters", maxNameLength))
	}

	// Invoices always identify the recipient; simplified receipts may omit
	// it, but whatever is provided must still be well formed.
	if in.Kind == KindInvoice {
		if in.RecipientTaxID == nil || *in.RecipientTaxID == "" {
			add("recipientTaxId", "recipient tax id is required for invoices")
		}
		if in.RecipientName == nil || *in.RecipientName == "" {
			add("recipientName", "recipient name is required for invoices")
		}
	}
	if in.RecipientTaxID != nil && *in.RecipientTaxID != "" && !taxIDPattern.MatchString(*in.RecipientTaxID) {
		add("recipientTaxId", "recipient tax id must be exactly 11 digits")
	}
	if in.RecipientName != nil && utf8.RuneCountInString(*in.RecipientName) > maxNameLength {
		add("recipientName", fmt.Sprintf("recipient name must not exceed %d characters", maxNameLength))
	}

	if len(in.Items) == 0 {
		add("items", "at least one item is required")
	}
	for i, item := range in.Items {
		prefix := fmt.Sprintf("items[%d]", i)
		if item.Description == "" {
			add(prefix+".description", "description is required")
		} else if utf8.RuneCountInString(item.Description) > maxNameLength {
			add(prefix+".description", fmt.Sprintf("description must not exceed %d characters", maxNameLength))
		}
		if item.Quantity.Cmp(decimal.Zero) <= 0 {
			add(prefix+".quantity", "quantity must be greater than zero")
		}
		if item.UnitPrice.Cmp(decimal.Zero) <= 0 {
			add(prefix+".unitPrice", "unit price must be greater than zero")
		}
	}

	if len(fields) > 0 {
		return apperror.NewValidationFields(fields)
	}
	return nil
}

package receipt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emisor/internal/core/apperror"
	"emisor/internal/core/types"
)

func validInvoiceInput() CreateInput {
	recTaxID := "20987654321"
	recName := "Cliente SAC"
	return CreateInput{
		Kind:           KindInvoice,
		Series:         "F001",
		IssuerTaxID:    "20123456789",
		IssuerName:     "Acme SA",
		RecipientTaxID: &recTaxID,
		RecipientName:  &recName,
		Items: []ItemInput{
			{Description: "Widget", Quantity: types.MustMoney("2"), UnitPrice: types.MustMoney("50.00")},
		},
	}
}

// fieldErrors extracts the collected field -> messages map from a
// validation error.
func fieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, apperror.CodeValidation, appErr.Code)
	fields, ok := appErr.Details["errors"].(map[string][]string)
	require.True(t, ok)
	return fields
}

func TestCreateInput_Validate_OK(t *testing.T) {
	assert.NoError(t, validInvoiceInput().Validate())

	in := CreateInput{
		Kind:        KindSimplifiedReceipt,
		Series:      "B001",
		IssuerTaxID: "20123456789",
		IssuerName:  "Acme SA",
		Items: []ItemInput{
			{Description: "Coffee", Quantity: types.MustMoney("1"), UnitPrice: types.MustMoney("12.50")},
		},
	}
	assert.NoError(t, in.Validate(), "simplified receipt without recipient must pass")
}

func TestCreateInput_Validate_Series(t *testing.T) {
	tests := []struct {
		name   string
		kind   Kind
		series string
		ok     bool
	}{
		{"invoice series", KindInvoice, "F001", true},
		{"simplified series", KindSimplifiedReceipt, "B123", true},
		{"wrong prefix for invoice", KindInvoice, "B001", false},
		{"wrong prefix for simplified", KindSimplifiedReceipt, "F001", false},
		{"unknown prefix", KindInvoice, "A001", false},
		{"too short", KindInvoice, "F01", false},
		{"too long", KindInvoice, "F0001", false},
		{"lowercase prefix", KindInvoice, "f001", false},
		{"empty", KindInvoice, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInvoiceInput()
			in.Kind = tt.kind
			in.Series = tt.series
			if tt.kind == KindSimplifiedReceipt {
				in.RecipientTaxID = nil
				in.RecipientName = nil
			}

			err := in.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				fields := fieldErrors(t, err)
				assert.Contains(t, fields, "series")
			}
		})
	}
}

func TestCreateInput_Validate_TaxIDs(t *testing.T) {
	t.Run("issuer tax id malformed", func(t *testing.T) {
		in := validInvoiceInput()
		in.IssuerTaxID = "123"
		fields := fieldErrors(t, in.Validate())
		assert.Contains(t, fields, "issuerTaxId")
	})

	t.Run("issuer tax id with letters", func(t *testing.T) {
		in := validInvoiceInput()
		in.IssuerTaxID = "2012345678X"
		fields := fieldErrors(t, in.Validate())
		assert.Contains(t, fields, "issuerTaxId")
	})

	t.Run("recipient required for invoice", func(t *testing.T) {
		in := validInvoiceInput()
		in.RecipientTaxID = nil
		in.RecipientName = nil
		fields := fieldErrors(t, in.Validate())
		assert.Contains(t, fields, "recipientTaxId")
		assert.Contains(t, fields, "recipientName")
	})

	t.Run("recipient format checked when present on simplified", func(t *testing.T) {
		bad := "not-a-taxid"
		in := validInvoiceInput()
		in.Kind = KindSimplifiedReceipt
		in.Series = "B001"
		in.RecipientTaxID = &bad
		fields := fieldErrors(t, in.Validate())
		assert.Contains(t, fields, "recipientTaxId")
	})
}

func TestCreateInput_Validate_MultibyteNames(t *testing.T) {
	// 300 characters but 600 bytes: within the character limit
	name := strings.Repeat("ñ", 300)

	in := validInvoiceInput()
	in.IssuerName = name
	in.RecipientName = &name
	in.Items[0].Description = name
	assert.NoError(t, in.Validate(), "length limits count characters, not bytes")

	tooLong := strings.Repeat("ñ", maxNameLength+1)
	in.IssuerName = tooLong
	fields := fieldErrors(t, in.Validate())
	assert.Contains(t, fields, "issuerName")
}

func TestCreateInput_Validate_Items(t *testing.T) {
	t.Run("no items", func(t *testing.T) {
		in := validInvoiceInput()
		in.Items = nil
		fields := fieldErrors(t, in.Validate())
		assert.Contains(t, fields, "items")
	})

	t.Run("bad line values", func(t *testing.T) {
		in := validInvoiceInput()
		in.Items = []ItemInput{
			{Description: "", Quantity: types.MustMoney("0"), UnitPrice: types.MustMoney("-1")},
			{Description: "ok", Quantity: types.MustMoney("1"), UnitPrice: types.MustMoney("10")},
		}
		fields := fieldErrors(t, in.Validate())
		assert.Contains(t, fields, "items[0].description")
		assert.Contains(t, fields, "items[0].quantity")
		assert.Contains(t, fields, "items[0].unitPrice")
		assert.NotContains(t, fields, "items[1].description")
	})
}

func TestCreateInput_Validate_CollectsAll(t *testing.T) {
	in := CreateInput{
		Kind:        Kind("Bogus"),
		Series:      "X",
		IssuerTaxID: "nope",
		IssuerName:  strings.Repeat("a", maxNameLength+1),
	}

	fields := fieldErrors(t, in.Validate())
	assert.Contains(t, fields, "kind")
	assert.Contains(t, fields, "series")
	assert.Contains(t, fields, "issuerTaxId")
	assert.Contains(t, fields, "issuerName")
	assert.Contains(t, fields, "items")
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"emisor/internal/domain"
	"emisor/internal/domain/receipt"
)

// --- Request DTOs ---

// CreateReceiptRequest represents a request to issue a receipt.
// Business rules are checked by the domain validator, not by binding tags,
// so that all violations are reported together.
type CreateReceiptRequest struct {
	Kind           string               `json:"kind"`
	Series         string               `json:"series"`
	IssuerTaxID    string               `json:"issuerTaxId"`
	IssuerName     string               `json:"issuerName"`
	RecipientTaxID *string              `json:"recipientTaxId"`
	RecipientName  *string              `json:"recipientName"`
	Items          []ReceiptItemRequest `json:"items"`
}

// ReceiptItemRequest represents a line in the create request.
// Quantity and unit price accept JSON numbers or numeric strings.
type ReceiptItemRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// ToInput converts the request to domain input.
func (r *CreateReceiptRequest) ToInput() receipt.CreateInput {
	items := make([]receipt.ItemInput, len(r.Items))
	for i, item := range r.Items {
		items[i] = receipt.ItemInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}

	return receipt.CreateInput{
		Kind:           receipt.Kind(r.Kind),
		Series:         r.Series,
		IssuerTaxID:    r.IssuerTaxID,
		IssuerName:     r.IssuerName,
		RecipientTaxID: r.RecipientTaxID,
		RecipientName:  r.RecipientName,
		Items:          items,
	}
}

// --- Response DTOs ---

// ReceiptResponse represents a receipt in API responses.
type ReceiptResponse struct {
	ID             string                `json:"id"`
	Kind           string                `json:"kind"`
	Series         string                `json:"series"`
	Number         int                   `json:"number"`
	IssuedAt       time.Time             `json:"issuedAt"`
	IssuerTaxID    string                `json:"issuerTaxId"`
	IssuerName     string                `json:"issuerName"`
	RecipientTaxID *string               `json:"recipientTaxId,omitempty"`
	RecipientName  *string               `json:"recipientName,omitempty"`
	Subtotal       Amount                `json:"subtotal"`
	Tax            Amount                `json:"tax"`
	Total          Amount                `json:"total"`
	Status         string                `json:"status"`
	Items          []ReceiptItemResponse `json:"items"`
}

// ReceiptItemResponse represents a line item in API responses.
type ReceiptItemResponse struct {
	ID          string   `json:"id"`
	LineNo      int      `json:"lineNo"`
	Description string   `json:"description"`
	Quantity    Quantity `json:"quantity"`
	UnitPrice   Amount   `json:"unitPrice"`
	Subtotal    Amount   `json:"subtotal"`
}

// FromReceipt converts a domain receipt to a response DTO.
func FromReceipt(r *receipt.Receipt) *ReceiptResponse {
	resp := &ReceiptResponse{
		ID:             r.ID.String(),
		Kind:           string(r.Kind),
		Series:         r.Series,
		Number:         r.Number,
		IssuedAt:       r.IssuedAt,
		IssuerTaxID:    r.IssuerTaxID,
		IssuerName:     r.IssuerName,
		RecipientTaxID: r.RecipientTaxID,
		RecipientName:  r.RecipientName,
		Subtotal:       Amount(r.Subtotal),
		Tax:            Amount(r.Tax),
		Total:          Amount(r.Total),
		Status:         string(r.Status),
	}

	resp.Items = make([]ReceiptItemResponse, len(r.Items))
	for i, item := range r.Items {
		resp.Items[i] = ReceiptItemResponse{
			ID:          item.ID.String(),
			LineNo:      item.LineNo,
			Description: item.Description,
			Quantity:    Quantity(item.Quantity),
			UnitPrice:   Amount(item.UnitPrice),
			Subtotal:    Amount(item.Subtotal),
		}
	}

	return resp
}

// ReceiptListResponse represents a page of receipts.
type ReceiptListResponse struct {
	Items      []*ReceiptResponse `json:"items"`
	TotalCount int64              `json:"totalCount"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
}

// FromReceiptList converts a domain list result to a response DTO.
func FromReceiptList(result domain.ListResult[*receipt.Receipt]) ReceiptListResponse {
	items := make([]*ReceiptResponse, len(result.Items))
	for i, r := range result.Items {
		items[i] = FromReceipt(r)
	}

	return ReceiptListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Page:       result.Page,
		PageSize:   result.PageSize,
	}
}

// VoidReceiptResponse confirms a successful void operation.
type VoidReceiptResponse struct {
	Message   string `json:"message"`
	ReceiptID string `json:"receiptId"`
}

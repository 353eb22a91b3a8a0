package order

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/streetmandi/mandi-backend/internal/modules/pricing"
	"github.com/streetmandi/mandi-backend/internal/modules/user"
)

// Receipt is everything an invoice renderer needs, with no catalog lookups:
// item snapshots, the GST breakdown with the rate used, and both parties.
type Receipt struct {
	InvoiceNumber string        `json:"invoice_number"`
	OrderID       uuid.UUID     `json:"order_id"`
	IssuedAt      time.Time     `json:"issued_at"`
	Status        Status        `json:"status"`
	Supplier      Party         `json:"supplier"`
	Vendor        Party         `json:"vendor"`
	Items         []*OrderItem  `json:"items"`
	Subtotal      pricing.Paise `json:"subtotal"`
	TaxRateBps    int           `json:"tax_rate_bps"`
	Tax           pricing.Paise `json:"tax"`
	Total         pricing.Paise `json:"total"`
	Currency      string        `json:"currency"`
}

// Party identifies one side of the invoice.
type Party struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	BusinessName string `json:"business_name,omitempty"`
	GSTNumber    string `json:"gst_number,omitempty"`
}

func (s *service) Receipt(ctx context.Context, actorID string, role user.Role, id string) (*Receipt, error) {
	o, err := s.GetOrder(ctx, actorID, role, id)
	if err != nil {
		return nil, err
	}

	vendor, err := s.users.GetUser(ctx, o.VendorID.String())
	if err != nil {
		return nil, errStorageUnavailable(err)
	}
	supplier, err := s.users.GetUser(ctx, o.SupplierID.String())
	if err != nil {
		return nil, errStorageUnavailable(err)
	}

	return &Receipt{
		InvoiceNumber: strings.ToUpper(o.ID.String()[:8]),
		OrderID:       o.ID,
		IssuedAt:      o.CreatedAt,
		Status:        o.Status,
		Supplier:      toParty(supplier),
		Vendor:        toParty(vendor),
		Items:         o.Items,
		Subtotal:      o.Subtotal,
		TaxRateBps:    o.TaxRateBps,
		Tax:           o.Tax,
		Total:         o.Total,
		Currency:      "INR",
	}, nil
}

func toParty(u *user.User) Party {
	return Party{
		Name:         u.Name,
		Address:      u.Address,
		Phone:        u.Phone,
		Email:        u.Email,
		BusinessName: u.BusinessName,
		GSTNumber:    u.GSTNumber,
	}
}

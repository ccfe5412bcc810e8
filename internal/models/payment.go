package models

import (
	"time"

	"github.com/ceylonworkforce/jobboard/internal/apperrors"
)

type PaymentStatus string

const PaymentSucceeded PaymentStatus = "succeeded"

// Payment records an onboarding fee; the payment provider is mocked
type Payment struct {
	ID        string        `json:"id" bson:"_id"`
	UserID    string        `json:"userId" bson:"userId"`
	Amount    int64         `json:"amount" bson:"amount"`
	Currency  string        `json:"currency" bson:"currency"`
	Reference string        `json:"reference" bson:"reference"`
	Status    PaymentStatus `json:"status" bson:"status"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
}

func (p Payment) Validate() error {
	fields := map[string]string{}
	if blank(p.ID) {
		fields["id"] = "id is required"
	}
	if blank(p.UserID) {
		fields["userId"] = "userId is required"
	}
	if p.Amount <= 0 {
		fields["amount"] = "amount must be positive"
	}
	if len(p.Currency) != 3 {
		fields["currency"] = "currency must be a 3-letter code"
	}
	if len(fields) > 0 {
		return apperrors.Validation("invalid payment", fields)
	}
	return nil
}

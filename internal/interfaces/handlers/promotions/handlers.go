package promotions

import (
	"math"
	"strconv"

	promosvc "rentora-backend/internal/application/promotions"
	"rentora-backend/internal/middleware"
	"rentora-backend/internal/pkg/constants"
	"rentora-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

type Handlers struct {
	Service       *promosvc.Service
	StripeCreator StripePaymentIntentCreator
}

// StripePaymentIntentCreator abstracts Stripe PaymentIntent creation for testability.
type StripePaymentIntentCreator interface {
	Create(amountCents int64, currency string, metadata map[string]string) (*StripePaymentIntentResult, error)
}

type StripePaymentIntentResult struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

// RealStripeCreator uses the Stripe Go SDK to create PaymentIntents.
type RealStripeCreator struct {
	SecretKey string
}

func (r *RealStripeCreator) Create(amountCents int64, currency string, metadata map[string]string) (*StripePaymentIntentResult, error) {
	if r.SecretKey == "" {
		return nil, fiber.NewError(501, "Stripe integration pending")
	}
	stripe.Key = r.SecretKey
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		Metadata: metadata,
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, err
	}
	return &StripePaymentIntentResult{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
	}, nil
}

// Plans GET /api/v1/promotions/plans — available boost plans with prices.
func (h *Handlers) Plans(c *fiber.Ctx) error {
	plans := []fiber.Map{
		{"plan": constants.PlanWeek, "price": promosvc.PlanPrices[constants.PlanWeek], "days": 7},
		{"plan": constants.PlanMonth, "price": promosvc.PlanPrices[constants.PlanMonth], "days": 30},
	}
	return response.Success(c, "Promotion plans", plans, nil)
}

// Checkout POST /api/v1/promotions/checkout — ONLY creates the Stripe
// PaymentIntent; the promotion itself is activated by the webhook once the
// payment succeeds.
func (h *Handlers) Checkout(c *fiber.Ctx) error {
	var body struct {
		PropertyID string `json:"property_id"`
		Plan       string `json:"plan"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "property_id and plan are required", fiber.StatusBadRequest, nil)
	}
	if body.PropertyID == "" || body.Plan == "" {
		return response.Error(c, "property_id and plan are required", fiber.StatusBadRequest, nil)
	}
	if !constants.IsValidPromotionPlan(body.Plan) {
		return response.Error(c, "Invalid promotion plan", fiber.StatusBadRequest, nil)
	}
	propertyID, err := uuid.Parse(body.PropertyID)
	if err != nil {
		return response.Error(c, "Invalid property_id format", fiber.StatusBadRequest, nil)
	}

	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	ownerID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.Service.CheckOwnership(c.Context(), propertyID, ownerID); err != nil {
		switch err {
		case promosvc.ErrPropertyNotFound:
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		case promosvc.ErrNotOwner:
			return response.Error(c, err.Error(), fiber.StatusForbidden, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	if h.StripeCreator == nil {
		return response.Error(c, "Stripe not configured", fiber.StatusInternalServerError, nil)
	}

	price := promosvc.PlanPrices[body.Plan]
	amountCents := int64(math.Round(price * 100))
	pi, err := h.StripeCreator.Create(amountCents, "usd", map[string]string{
		"property_id": body.PropertyID,
		"plan":        body.Plan,
		"amount":      strconv.FormatFloat(price, 'f', 2, 64),
	})
	if err != nil {
		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}
		return response.Error(c, err.Error(), code, nil)
	}

	return response.Success(c, "Payment intent created", fiber.Map{
		"payment_intent_id": pi.ID,
		"client_secret":     pi.ClientSecret,
	}, nil)
}

// History GET /api/v1/properties/:id/promotions — all promotions, newest first.
func (h *Handlers) History(c *fiber.Ctx) error {
	propertyID, ownerID, errResp := ownedProperty(c)
	if errResp != nil {
		return errResp(c)
	}
	if err := h.Service.CheckOwnership(c.Context(), propertyID, ownerID); err != nil {
		return ownershipError(c, err)
	}
	promos, err := h.Service.History(c.Context(), propertyID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Promotions fetched", promos, nil)
}

// Active GET /api/v1/properties/:id/promotions/active — current promotion or null.
func (h *Handlers) Active(c *fiber.Ctx) error {
	propertyID, ownerID, errResp := ownedProperty(c)
	if errResp != nil {
		return errResp(c)
	}
	if err := h.Service.CheckOwnership(c.Context(), propertyID, ownerID); err != nil {
		return ownershipError(c, err)
	}
	promo, err := h.Service.Active(c.Context(), propertyID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Active promotion", promo, nil)
}

func ownedProperty(c *fiber.Ctx) (uuid.UUID, uuid.UUID, func(*fiber.Ctx) error) {
	propertyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, func(c *fiber.Ctx) error {
			return response.Error(c, "Invalid property id", fiber.StatusBadRequest, nil)
		}
	}
	actor := middleware.GetActor(c)
	if actor == nil {
		return uuid.Nil, uuid.Nil, func(c *fiber.Ctx) error {
			return response.Unauthorized(c, "Unauthorized")
		}
	}
	ownerID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return uuid.Nil, uuid.Nil, func(c *fiber.Ctx) error {
			return response.Unauthorized(c, "Unauthorized")
		}
	}
	return propertyID, ownerID, nil
}

func ownershipError(c *fiber.Ctx, err error) error {
	switch err {
	case promosvc.ErrPropertyNotFound:
		return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
	case promosvc.ErrNotOwner:
		return response.Error(c, err.Error(), fiber.StatusForbidden, nil)
	default:
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
}

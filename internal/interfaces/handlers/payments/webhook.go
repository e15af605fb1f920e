package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"rentora-backend/internal/domain"
	"rentora-backend/internal/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type WebhookHandler struct {
	DB            *gorm.DB
	WebhookSecret string
}

type stripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type paymentIntentObject struct {
	ID             string            `json:"id"`
	AmountReceived int               `json:"amount_received"`
	Currency       string            `json:"currency"`
	Status         string            `json:"status"`
	Metadata       map[string]string `json:"metadata"`
}

// HandleWebhook POST /api/v1/stripe/webhook — raw body, signature
// verification, then process. Mounted before the body-consuming middleware.
func (wh *WebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	rawBody := c.BodyRaw()
	sig := c.Get("Stripe-Signature")

	if len(rawBody) == 0 {
		log.Warn().Msg("Stripe webhook received empty body")
		return c.Status(400).SendString("Webhook Error: empty body")
	}

	if err := verifyStripeSignature(rawBody, sig, wh.WebhookSecret); err != nil {
		log.Warn().Err(err).Bool("has_sig", sig != "").Bool("has_secret", wh.WebhookSecret != "").Msg("Stripe webhook signature verification failed")
		return c.Status(400).SendString(fmt.Sprintf("Webhook Error: %s", err.Error()))
	}

	var event stripeEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		log.Warn().Err(err).Msg("Stripe webhook JSON parse failed")
		return c.Status(400).SendString(fmt.Sprintf("Webhook Error: %s", err.Error()))
	}

	if event.Type == "payment_intent.succeeded" {
		var pi paymentIntentObject
		if err := json.Unmarshal(event.Data.Object, &pi); err != nil {
			return c.Status(200).SendString("ok")
		}
		// Domain errors still get a 200 so Stripe does not retry forever.
		if err := wh.handlePaymentIntentSucceeded(pi, event.ID, event.Type, rawBody); err != nil {
			log.Warn().Err(err).Str("event_id", event.ID).Msg("Stripe webhook processing failed")
			return c.Status(200).SendString("ok")
		}
	}

	return c.Status(200).SendString("ok")
}

// handlePaymentIntentSucceeded activates the promotion named by the payment
// intent metadata, recording the event for idempotency in the same
// transaction.
func (wh *WebhookHandler) handlePaymentIntentSucceeded(pi paymentIntentObject, eventID, eventType string, rawBody []byte) error {
	propertyIDStr := pi.Metadata["property_id"]
	plan := pi.Metadata["plan"]
	if propertyIDStr == "" || plan == "" {
		return nil // not a promotion payment, skip silently
	}
	propertyID, err := uuid.Parse(propertyIDStr)
	if err != nil {
		return nil
	}
	if !constants.IsValidPromotionPlan(plan) {
		return nil
	}

	amountPaid := float64(pi.AmountReceived) / 100
	if s := pi.Metadata["amount"]; s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil && v > 0 {
			amountPaid = v
		}
	}

	return wh.DB.Transaction(func(tx *gorm.DB) error {
		var existing domain.PaymentEvent
		if err := tx.Where("stripe_event_id = ?", eventID).First(&existing).Error; err == nil {
			return nil // already processed
		}

		record := domain.PaymentEvent{
			StripeEventID: eventID,
			EventType:     eventType,
			EventData:     datatypes.JSON(rawBody),
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		var property domain.Property
		if err := tx.Where("id = ?", propertyID).First(&property).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("Property not found")
			}
			return err
		}

		days := 7
		if plan == constants.PlanMonth {
			days = 30
		}
		now := time.Now()
		promo := domain.Promotion{
			PropertyID: propertyID,
			Plan:       plan,
			StartDate:  now,
			EndDate:    now.AddDate(0, 0, days),
			AmountPaid: amountPaid,
			IsActive:   true,
		}
		return tx.Create(&promo).Error
	})
}

// verifyStripeSignature verifies the Stripe-Signature header using the webhook secret.
func verifyStripeSignature(payload []byte, sigHeader, secret string) error {
	if sigHeader == "" || secret == "" {
		return errors.New("missing signature or secret")
	}

	var timestamp string
	var signatures []string

	parts := strings.Split(sigHeader, ",")
	for _, part := range parts {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if timestamp == "" || len(signatures) == 0 {
		return errors.New("invalid signature format")
	}

	signedPayload := timestamp + "." + string(payload)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signedPayload))
	expectedSig := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(sig), []byte(expectedSig)) {
			// 5 minute tolerance
			ts, err := strconv.ParseInt(timestamp, 10, 64)
			if err != nil {
				return errors.New("invalid timestamp")
			}
			diff := time.Now().Unix() - ts
			if diff < 0 {
				diff = -diff
			}
			if diff > 300 {
				return errors.New("timestamp too old")
			}
			return nil
		}
	}

	return errors.New("signature mismatch")
}

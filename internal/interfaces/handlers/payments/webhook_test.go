package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rentora-backend/internal/domain"
	"rentora-backend/internal/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "whsec_test_secret_123"

func setupWebhookTest(t *testing.T) (*WebhookHandler, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Property{}, &domain.Promotion{}, &domain.PaymentEvent{},
	))
	wh := &WebhookHandler{DB: db, WebhookSecret: testSecret}
	return wh, db
}

func signPayload(t *testing.T, payload []byte, secret string) string {
	ts := fmt.Sprintf("%d", time.Now().Unix())
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts + "." + string(payload)))
	sig := hex.EncodeToString(mac.Sum(nil))
	return fmt.Sprintf("t=%s,v1=%s", ts, sig)
}

func createTestProperty(t *testing.T, db *gorm.DB) domain.Property {
	p := domain.Property{
		OwnerID:      uuid.New(),
		Title:        "Sunny flat",
		PropertyType: constants.TypeApartment,
		City:         "Berlin",
		Address:      "Hauptstr. 1",
		Price:        1200,
		Status:       constants.StatusPublished,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func promotionEvent(propertyID, plan, eventID string) []byte {
	piObj := map[string]interface{}{
		"id":              "pi_test_promo_001",
		"amount_received": 2999,
		"currency":        "usd",
		"status":          "succeeded",
		"metadata": map[string]string{
			"property_id": propertyID,
			"plan":        plan,
			"amount":      "29.99",
		},
	}
	event := map[string]interface{}{
		"id":   eventID,
		"type": "payment_intent.succeeded",
		"data": map[string]interface{}{"object": piObj},
	}
	body, _ := json.Marshal(event)
	return body
}

func postWebhook(t *testing.T, wh *WebhookHandler, body []byte, sig string) int {
	app := fiber.New()
	app.Post("/webhook", wh.HandleWebhook)

	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	if sig != "" {
		req.Header.Set("stripe-signature", sig)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestWebhook_MissingSignature(t *testing.T) {
	wh, _ := setupWebhookTest(t)
	assert.Equal(t, 400, postWebhook(t, wh, []byte(`{}`), ""))
}

func TestWebhook_InvalidSignature(t *testing.T) {
	wh, _ := setupWebhookTest(t)
	body := []byte(`{"type":"payment_intent.succeeded"}`)
	assert.Equal(t, 400, postWebhook(t, wh, body, "t=123,v1=invalid"))
}

func TestWebhook_UnhandledEventType_Returns200(t *testing.T) {
	wh, _ := setupWebhookTest(t)
	event := map[string]interface{}{
		"id":   "evt_test_123",
		"type": "charge.succeeded",
		"data": map[string]interface{}{"object": map[string]interface{}{}},
	}
	body, _ := json.Marshal(event)
	assert.Equal(t, 200, postWebhook(t, wh, body, signPayload(t, body, testSecret)))
}

func TestWebhook_PaymentIntentSucceeded_ActivatesPromotion(t *testing.T) {
	wh, db := setupWebhookTest(t)
	property := createTestProperty(t, db)

	body := promotionEvent(property.ID.String(), constants.PlanWeek, "evt_promo_001")
	sig := signPayload(t, body, testSecret)
	assert.Equal(t, 200, postWebhook(t, wh, body, sig))

	var promo domain.Promotion
	require.NoError(t, db.Where("property_id = ?", property.ID).First(&promo).Error)
	assert.Equal(t, constants.PlanWeek, promo.Plan)
	assert.True(t, promo.IsActive)
	assert.InDelta(t, 29.99, promo.AmountPaid, 0.001)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 7), promo.EndDate, 2*time.Minute)

	var event domain.PaymentEvent
	require.NoError(t, db.Where("stripe_event_id = ?", "evt_promo_001").First(&event).Error)
	assert.Equal(t, "payment_intent.succeeded", event.EventType)
}

func TestWebhook_DuplicateEvent_IsIdempotent(t *testing.T) {
	wh, db := setupWebhookTest(t)
	property := createTestProperty(t, db)

	body := promotionEvent(property.ID.String(), constants.PlanMonth, "evt_promo_dup")
	sig := signPayload(t, body, testSecret)
	assert.Equal(t, 200, postWebhook(t, wh, body, sig))
	assert.Equal(t, 200, postWebhook(t, wh, body, sig))

	var count int64
	db.Model(&domain.Promotion{}).Where("property_id = ?", property.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestWebhook_MissingMetadata_SkipsSilently(t *testing.T) {
	wh, db := setupWebhookTest(t)

	piObj := map[string]interface{}{
		"id":       "pi_no_meta",
		"metadata": map[string]string{},
	}
	event := map[string]interface{}{
		"id":   "evt_no_meta",
		"type": "payment_intent.succeeded",
		"data": map[string]interface{}{"object": piObj},
	}
	body, _ := json.Marshal(event)
	assert.Equal(t, 200, postWebhook(t, wh, body, signPayload(t, body, testSecret)))

	var count int64
	db.Model(&domain.Promotion{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

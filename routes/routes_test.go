package routes

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ThebeLedwaba/aurarent/models"
	"github.com/ThebeLedwaba/aurarent/services"
	"github.com/ThebeLedwaba/aurarent/storage"
	"github.com/ThebeLedwaba/aurarent/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testWebhookSecret = []byte("whsec_routes_test")

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "routes.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Property{}, &models.Booking{}, &models.Notification{}, &models.AuditLog{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// buildTestApp wires the booking, payment and admin routes the way main
// does, against an isolated sqlite database.
func buildTestApp(t *testing.T, db *gorm.DB) *iris.Application {
	t.Helper()
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	storage.DB = db

	bookings := services.NewBookingService(db)
	notifier := services.NewNotificationService(db)
	gateway := services.NewPaymentGatewayWithSecret("https://pay.test", testWebhookSecret)

	bookingHandler := NewBookingHandler(bookings, notifier)
	paymentHandler := NewPaymentHandler(bookings, gateway, notifier)

	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	property := app.Party("/api/property")
	{
		property.Get("/{id:uint}/booked-dates", bookingHandler.GetBookedDates)
	}

	booking := app.Party("/api/booking", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		booking.Post("/", bookingHandler.CreateBooking)
		booking.Get("/{id:uint}", bookingHandler.GetBookingByID)
	}

	payment := app.Party("/api/payment")
	{
		payment.Post("/checkout", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, paymentHandler.CreateCheckoutSession)
		payment.Post("/webhook", paymentHandler.Webhook)
	}

	dashboard := app.Party("/api/dashboard", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		dashboard.Get("/passport", GetTenantPassport)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", AdminListUsers)
		admin.Patch("/users/{id:uint}/verify", AdminVerifyUser)
	}

	if err := app.Build(); err != nil {
		t.Fatalf("build app: %v", err)
	}
	return app
}

// signTestToken returns a signed access token for the given principal.
func signTestToken(t *testing.T, userID uint, role string) string {
	t.Helper()
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), time.Hour)
	token, err := signer.Sign(utils.AccessToken{ID: userID, Role: role})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return string(token)
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	user := models.User{Name: "Test User", Email: email, Password: "x", Role: role}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &user
}

func seedTestProperty(t *testing.T, db *gorm.DB, ownerID uint, price float64) *models.Property {
	t.Helper()
	property := models.Property{
		OwnerID:  ownerID,
		Title:    "Loft at the harbour",
		Type:     "APARTMENT",
		City:     "Cape Town",
		Price:    price,
		Currency: "ZAR",
		Status:   models.PropertyStatusAvailable,
	}
	if err := db.Create(&property).Error; err != nil {
		t.Fatalf("seed property: %v", err)
	}
	return &property
}

func seedTestBooking(t *testing.T, db *gorm.DB, propertyID, renterID uint, status string) *models.Booking {
	t.Helper()
	booking := models.Booking{
		PropertyID: propertyID,
		RenterID:   renterID,
		StartDate:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC),
		TotalPrice: 1600,
		Status:     status,
	}
	if err := db.Create(&booking).Error; err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return &booking
}

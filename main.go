package main

import (
	"os"

	"github.com/ThebeLedwaba/aurarent/routes"
	"github.com/ThebeLedwaba/aurarent/services"
	"github.com/ThebeLedwaba/aurarent/storage"
	"github.com/ThebeLedwaba/aurarent/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	db := storage.InitializeDB()
	storage.InitializeRedis()

	// Services are constructed once here and handed to the handlers that
	// need them; the data-access handle lives for the whole process.
	bookingService := services.NewBookingService(db)
	notificationService := services.NewNotificationService(db)
	paymentGateway := services.NewPaymentGateway()

	bookingHandler := routes.NewBookingHandler(bookingService, notificationService)
	paymentHandler := routes.NewPaymentHandler(bookingService, paymentGateway, notificationService)
	conversationHandler := &routes.ConversationHandler{Notifier: notificationService}
	maintenanceHandler := &routes.MaintenanceHandler{Notifier: notificationService}

	app := iris.New()
	app.Validator = validator.New()

	// CORS for the web dashboard
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With, Aura-Signature")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/google", routes.GoogleLoginOrSignUp)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		user.Get("/me", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetCurrentUser)
	}

	property := app.Party("/api/property")
	{
		property.Get("/", routes.GetProperties)
		property.Get("/{id:uint}", routes.GetPropertyByID)
		property.Get("/{id:uint}/booked-dates", bookingHandler.GetBookedDates)
		property.Post("/", accessTokenVerifierMiddleware, utils.LandlordOnlyMiddleware, routes.CreateProperty)
		property.Get("/mine", accessTokenVerifierMiddleware, utils.LandlordOnlyMiddleware, routes.GetMyProperties)
		property.Patch("/{id:uint}", accessTokenVerifierMiddleware, utils.LandlordOnlyMiddleware, routes.UpdateProperty)
		property.Delete("/{id:uint}", accessTokenVerifierMiddleware, utils.LandlordOnlyMiddleware, routes.DeleteProperty)
	}

	booking := app.Party("/api/booking", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		booking.Post("/", bookingHandler.CreateBooking)
		booking.Get("/", bookingHandler.GetUserBookings)
		booking.Get("/{id:uint}", bookingHandler.GetBookingByID)
		booking.Post("/{id:uint}/confirm", bookingHandler.ConfirmBooking)
		booking.Post("/{id:uint}/cancel", bookingHandler.CancelBooking)
	}

	payment := app.Party("/api/payment")
	{
		payment.Post("/checkout", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, paymentHandler.CreateCheckoutSession)
		// Webhook authenticates via its signature, not a session.
		payment.Post("/webhook", paymentHandler.Webhook)
	}

	conversation := app.Party("/api/conversation", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		conversation.Post("/", conversationHandler.StartConversation)
		conversation.Get("/", conversationHandler.GetUserConversations)
		conversation.Get("/{id:uint}/messages", conversationHandler.GetConversationMessages)
		conversation.Post("/{id:uint}/messages", conversationHandler.SendMessage)
	}

	notification := app.Party("/api/notification", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		notification.Get("/", routes.GetUserNotifications)
		notification.Patch("/{id:uint}/read", routes.MarkNotificationRead)
		notification.Patch("/read-all", routes.MarkAllNotificationsRead)
	}

	maintenance := app.Party("/api/maintenance", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		maintenance.Post("/", maintenanceHandler.CreateTicket)
		maintenance.Get("/mine", maintenanceHandler.GetTenantTickets)
		maintenance.Get("/landlord", maintenanceHandler.GetLandlordTickets)
		maintenance.Patch("/{id:uint}/status", maintenanceHandler.UpdateTicketStatus)
	}

	review := app.Party("/api/review")
	{
		review.Get("/", routes.GetReviews)
		review.Post("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateReview)
	}

	dashboard := app.Party("/api/dashboard", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		dashboard.Get("/tenant", routes.GetTenantStats)
		dashboard.Get("/passport", routes.GetTenantPassport)
		dashboard.Get("/landlord", routes.GetLandlordStats)
		dashboard.Get("/admin", utils.AdminOnlyMiddleware, routes.GetAdminStats)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", routes.AdminListUsers)
		admin.Patch("/users/role", routes.AdminUpdateUserRole)
		admin.Patch("/users/{id:uint}/verify", routes.AdminVerifyUser)
		admin.Get("/properties", routes.AdminListProperties)
		admin.Patch("/properties/{id:uint}", routes.AdminModerateProperty)
		admin.Get("/bookings", routes.AdminListBookings)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	app.Listen(":" + port)
}

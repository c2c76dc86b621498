package routes

import (
	"net/http"

	"github.com/dcode-github/rishstay/controllers"
	"github.com/dcode-github/rishstay/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func Routes(router *mux.Router, d *controllers.Deps) {
	auth := middleware.AuthMiddleware(d.JWT)

	router.HandleFunc("/healthz", controllers.Health()).Methods("GET")

	// Auth routes
	authRoutes := router.PathPrefix("/api/auth").Subrouter()
	authRoutes.HandleFunc("/createuser", controllers.CreateUser(d)).Methods("POST")
	authRoutes.HandleFunc("/login", controllers.LoginUser(d)).Methods("POST")
	authRoutes.Handle("/getuser", auth(controllers.GetUser(d))).Methods("POST")
	authRoutes.Handle("/updateuser", auth(controllers.UpdateUser(d))).Methods("PUT")

	// Property routes; fixed paths go before /{id}
	property := router.PathPrefix("/api/property").Subrouter()
	property.HandleFunc("", controllers.GetAllProperties(d)).Methods("GET")
	property.Handle("/create", auth(controllers.CreateProperty(d))).Methods("POST")
	property.Handle("/my-properties", auth(controllers.MyProperties(d))).Methods("GET")
	property.HandleFunc("/similar/{id}", controllers.GetSimilarProperties(d)).Methods("GET")
	property.HandleFunc("/image/{publicId}", controllers.ServePropertyImage(d)).Methods("GET")
	property.Handle("/update/{id}", auth(controllers.UpdateProperty(d))).Methods("PUT")
	property.Handle("/delete/{id}", auth(controllers.DeleteProperty(d))).Methods("DELETE")
	property.Handle("/toggle-availability/{id}", auth(controllers.ToggleAvailability(d))).Methods("PATCH")
	property.HandleFunc("/{id}", controllers.GetProperty(d)).Methods("GET")

	// Message routes
	message := router.PathPrefix("/api/message").Subrouter()
	message.Use(auth)
	message.HandleFunc("/send", controllers.SendMessage(d)).Methods("POST")
	message.HandleFunc("/received", controllers.ReceivedMessages(d)).Methods("GET")
	message.HandleFunc("/sent", controllers.SentMessages(d)).Methods("GET")
	message.HandleFunc("/property/{propertyId}", controllers.PropertyMessages(d)).Methods("GET")
	message.HandleFunc("/mark-read/{id}", controllers.MarkMessageRead(d)).Methods("PUT")
	message.HandleFunc("/reply/{id}", controllers.ReplyMessage(d)).Methods("PUT")
	message.HandleFunc("/{id}", controllers.DeleteMessage(d)).Methods("DELETE")

	// Favorites routes
	favorites := router.PathPrefix("/api/user/{id}/favorites").Subrouter()
	favorites.Use(auth)
	favorites.HandleFunc("", controllers.ReplaceFavorites(d)).Methods("PUT")
	favorites.HandleFunc("", controllers.AddFavorite(d)).Methods("POST")
	favorites.HandleFunc("", controllers.GetFavorites(d)).Methods("GET")
	favorites.HandleFunc("/{propertyId}", controllers.RemoveFavorite(d)).Methods("DELETE")

	// Review routes
	reviews := router.PathPrefix("/api/reviews").Subrouter()
	reviews.HandleFunc("", controllers.GetReviews(d)).Methods("GET")
	reviews.Handle("/me", auth(controllers.MyReview(d))).Methods("GET")
	reviews.Handle("/add", auth(controllers.AddReview(d))).Methods("POST")
	reviews.Handle("/update/{id}", auth(controllers.UpdateReview(d))).Methods("PUT")
	reviews.Handle("/delete/{id}", auth(controllers.DeleteReview(d))).Methods("DELETE")
}

// Handler wraps the router with CORS, tracing and request logging.
func Handler(router *mux.Router, allowedOrigins []string) http.Handler {
	corsOptions := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowedHeaders:   []string{"Content-Type", middleware.TokenHeader},
		AllowCredentials: true,
	})
	handler := corsOptions.Handler(router)
	handler = otelhttp.NewHandler(handler, "rishstay")
	return middleware.RequestLogger(handler)
}

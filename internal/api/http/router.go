package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"gearshare-backend/internal/security"
	"gearshare-backend/internal/service"
	"gearshare-backend/internal/storage"
)

// RouterDeps bundles everything the HTTP surface needs.
type RouterDeps struct {
	Bookings      service.BookingService
	Inspections   service.InspectionService
	Claims        service.ClaimService
	Availability  service.AvailabilityService
	Notifications service.NotificationService
	Evidence      storage.EvidenceStorage
	Validator     security.TokenValidator
	MaxUploadMB   int64
}

// NewRouter builds the full v1 route table. Every route behind /v1 requires a
// valid bearer token.
func NewRouter(deps RouterDeps) *mux.Router {
	root := mux.NewRouter()
	root.Use(LoggingMiddleware)

	root.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	v1 := root.PathPrefix("/v1").Subrouter()
	v1.Use(AuthMiddleware(deps.Validator))

	bookings := NewBookingHandler(deps.Bookings)
	v1.HandleFunc("/bookings", bookings.Create).Methods(http.MethodPost)
	v1.HandleFunc("/bookings", bookings.List).Methods(http.MethodGet)
	v1.HandleFunc("/bookings/{id}", bookings.Get).Methods(http.MethodGet)
	v1.HandleFunc("/bookings/{id}/approve", bookings.Approve).Methods(http.MethodPost)
	v1.HandleFunc("/bookings/{id}/cancel", bookings.Cancel).Methods(http.MethodPost)
	v1.HandleFunc("/bookings/{id}/return", bookings.InitiateReturn).Methods(http.MethodPost)
	v1.HandleFunc("/bookings/{id}/confirm-return", bookings.ConfirmReturn).Methods(http.MethodPost)

	inspections := NewInspectionHandler(deps.Inspections)
	v1.HandleFunc("/bookings/{id}/inspections", inspections.Submit).Methods(http.MethodPost)
	v1.HandleFunc("/bookings/{id}/inspections", inspections.List).Methods(http.MethodGet)
	v1.HandleFunc("/bookings/{id}/comparison", inspections.Comparison).Methods(http.MethodGet)

	claims := NewClaimHandler(deps.Claims)
	v1.HandleFunc("/bookings/{id}/claims", claims.File).Methods(http.MethodPost)
	v1.HandleFunc("/claims/{id}", claims.Get).Methods(http.MethodGet)
	v1.HandleFunc("/claims/{id}/resolve", claims.Resolve).Methods(http.MethodPost)

	availability := NewAvailabilityHandler(deps.Availability)
	v1.HandleFunc("/equipment/{id}/availability", availability.Check).Methods(http.MethodGet)

	notifications := NewNotificationHandler(deps.Notifications)
	v1.HandleFunc("/notifications", notifications.List).Methods(http.MethodGet)
	v1.HandleFunc("/notifications/{id}/read", notifications.MarkAsRead).Methods(http.MethodPost)

	evidence := NewEvidenceHandler(deps.Evidence, deps.MaxUploadMB)
	v1.HandleFunc("/evidence", evidence.Upload).Methods(http.MethodPost)
	v1.HandleFunc("/evidence/{ref}", evidence.Download).Methods(http.MethodGet)

	return root
}

package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
)

// EndpointSecurityConfig maps methods to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// BookingService - Public. Handover calls are authorised by the scanned token itself.
	"/farmrent.booking.v1.BookingService/MarkPickedUp":    SecurityPublic,
	"/farmrent.booking.v1.BookingService/MarkReturned":    SecurityPublic,
	"/farmrent.booking.v1.BookingService/QuotePrice":      SecurityPublic,
	"/farmrent.booking.v1.BookingService/GetAvailability": SecurityPublic,

	// BookingService - Access Protected
	"/farmrent.booking.v1.BookingService/CreateRentalRequest":   SecurityAccess,
	"/farmrent.booking.v1.BookingService/ApproveRentalRequest":  SecurityAccess,
	"/farmrent.booking.v1.BookingService/RejectRentalRequest":   SecurityAccess,
	"/farmrent.booking.v1.BookingService/CancelRentalRequest":   SecurityAccess,
	"/farmrent.booking.v1.BookingService/CompleteRental":        SecurityAccess,
	"/farmrent.booking.v1.BookingService/ReissueHandoverToken":  SecurityAccess,
	"/farmrent.booking.v1.BookingService/GetRentalRequest":      SecurityAccess,
	"/farmrent.booking.v1.BookingService/ListEquipmentRequests": SecurityAccess,

	// NotificationService - Access Protected
	"/farmrent.booking.v1.NotificationService/GetNotifications":     SecurityAccess,
	"/farmrent.booking.v1.NotificationService/MarkNotificationRead": SecurityAccess,

	// Health
	"/grpc.health.v1.Health/Check": SecurityPublic,
}

// GetSecurityLevel returns the security level for a given method
func GetSecurityLevel(method string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[method]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAccess
}

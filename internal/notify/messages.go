package notify

import (
	"fmt"

	"farmrent-backend/internal/domain"
)

// Render turns an event into a short title and a one-line message.
func Render(event domain.Event) (string, string) {
	name := event.Attributes["equipment_name"]
	if name == "" {
		name = fmt.Sprintf("equipment #%d", event.EquipmentID)
	}
	dates := fmt.Sprintf("%s to %s", event.Attributes["start_date"], event.Attributes["end_date"])

	switch event.Kind {
	case domain.EventRequested:
		return "New Rental Request", fmt.Sprintf("You have a new request to rent %s from %s.", name, dates)
	case domain.EventApproved:
		return "Rental Approved", fmt.Sprintf("Your request for %s from %s was approved.", name, dates)
	case domain.EventRejected:
		msg := fmt.Sprintf("Your request for %s from %s was declined.", name, dates)
		if reason := event.Attributes["reason"]; reason != "" {
			msg += " Reason: " + reason
		}
		return "Rental Declined", msg
	case domain.EventCancelled:
		return "Rental Cancelled", fmt.Sprintf("The rental of %s from %s was cancelled.", name, dates)
	case domain.EventPickupReady:
		return "Ready for Pickup", fmt.Sprintf("Show your pickup code in the app when you collect %s on %s.", name, event.Attributes["start_date"])
	case domain.EventPickedUp:
		return "Equipment Picked Up", fmt.Sprintf("%s was handed over. Keep your return code for %s.", name, event.Attributes["end_date"])
	case domain.EventReturnDue:
		return "Return Due", fmt.Sprintf("%s is due back on %s.", name, event.Attributes["end_date"])
	case domain.EventReturned:
		return "Equipment Returned", fmt.Sprintf("%s was returned. Thank you!", name)
	case domain.EventCompleted:
		return "Rental Closed", fmt.Sprintf("The rental of %s was closed by the owner.", name)
	default:
		return "Rental Update", fmt.Sprintf("There is an update on your rental of %s.", name)
	}
}

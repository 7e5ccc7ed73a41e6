package notification

import (
	"fmt"
	"strings"

	"github.com/wellside/barber-booking/internal/domain"
)

// Render формирует тему и текст письма
func Render(req *Request) (subject, body string) {
	ref := req.Reference()
	admin := req.Audience == domain.AudienceAdmin

	var b strings.Builder
	switch {
	case req.Event == domain.EventConfirmation && admin:
		subject = "New booking created • " + ref
		b.WriteString("New booking created\n\n")
	case req.Event == domain.EventConfirmation:
		subject = "Your booking is confirmed • " + ref
		fmt.Fprintf(&b, "Hi %s,\n\nYour booking has been confirmed. Here are the details:\n\n", req.CustomerName)
	case admin:
		subject = "Booking cancelled • " + ref
		b.WriteString("A booking was cancelled\n\n")
	default:
		subject = "Booking cancelled • " + ref
		fmt.Fprintf(&b, "Hi %s,\n\nYour booking has been cancelled. Here are the details:\n\n", req.CustomerName)
	}

	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%-11s %s\n", label+":", value)
		}
	}

	line("Booking ID", ref)
	if admin {
		line("Customer", req.CustomerName)
		line("Phone", req.CustomerPhone)
	}
	line("Service", req.ServiceName)
	line("Barber", req.BarberName)
	line("Date", req.DateLabel)
	line("Time", req.TimeLabel)
	line("Total", req.TotalPrice)
	if req.Event == domain.EventConfirmation {
		line("Status", "Confirmed")
	} else {
		line("Status", "Cancelled")
	}

	b.WriteString("\n")
	switch {
	case admin:
		b.WriteString("Open the admin dashboard to manage this booking.\n")
	case req.Event == domain.EventConfirmation:
		b.WriteString("If you have any questions, just reply to this email.\n")
	default:
		b.WriteString("If you need a new slot, you can book again anytime.\n")
	}

	return subject, b.String()
}

package notify

import (
	"fmt"
	"time"
)

// BookingDetails feeds the confirmation email template.
type BookingDetails struct {
	ClinicName string
	Date       time.Time
	TimeSlot   string
}

// BuildBookingConfirmation renders the subject and HTML body for a booking
// confirmation email.
func BuildBookingConfirmation(d BookingDetails) (subject, html string) {
	dateStr := d.Date.Format("Monday, January 2, 2006")
	subject = fmt.Sprintf("Appointment confirmed at %s", d.ClinicName)
	html = fmt.Sprintf(`<div style="font-family:sans-serif">
<h2>Your appointment is confirmed</h2>
<p>We look forward to seeing you.</p>
<ul>
<li><strong>Clinic:</strong> %s</li>
<li><strong>Date:</strong> %s</li>
<li><strong>Time:</strong> %s</li>
</ul>
<p>If you need to make changes, please contact the clinic directly.</p>
<p>— Neon Care</p>
</div>`, d.ClinicName, dateStr, d.TimeSlot)
	return subject, html
}

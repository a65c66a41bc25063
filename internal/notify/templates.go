package notify

import (
	"bytes"
	"html/template"
)

const siteURL = "https://www.lala-rentals.com/"

var layout = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>LALA Rentals</title></head>
<body style="background-color:#f4f8fb;font-family:Arial,sans-serif;padding:10px;">
<div style="max-width:640px;margin:40px auto;background-color:#ffffff;padding:24px;color:#4a5568;border-radius:8px;">
  <h2 style="color:#2d3748;">{{.Heading}}</h2>
  <p style="font-size:1.125rem;margin-bottom:16px;">Hi {{.Name}},</p>
  {{range .Paragraphs}}<p style="margin-bottom:16px;">{{.}}</p>
  {{end}}<p style="margin-bottom:16px;">Regards,<br />The LALA Rentals Team</p>
  <hr style="margin-bottom:16px;" />
  <p style="font-size:0.75rem;margin-top:12px;text-align:center;">
    You can visit our website via: <a href="{{.SiteURL}}" style="color:#3182ce;">{{.SiteURL}}</a>
  </p>
</div>
</body>
</html>`))

type page struct {
	Heading    string
	Name       string
	Paragraphs []string
	SiteURL    string
}

func render(to, subject, heading, name string, paragraphs ...string) Message {
	var buf bytes.Buffer
	// the template is static and every value is a string; Execute cannot fail
	_ = layout.Execute(&buf, page{Heading: heading, Name: name, Paragraphs: paragraphs, SiteURL: siteURL})
	return Message{To: to, Subject: subject, HTMLBody: buf.String()}
}

// Welcome is sent after a successful registration.
func Welcome(to, name string) Message {
	return render(to, "Your account has been created successfully!", "Welcome to LALA Rentals", name,
		"Thank you for joining LALA Rentals! We're excited to have you on board.",
		"You can now log in to your account and start exploring our services.",
		"If you have any questions, feel free to reach out to our support team.",
	)
}

// BookingRequested tells a house owner that a renter asked for the house.
func BookingRequested(to, ownerName, renterName, houseTitle string) Message {
	return render(to, "New Booking Request", "New Booking Request", ownerName,
		renterName+" has requested to book your house: "+houseTitle,
	)
}

// BookingStatusChanged tells a renter that the owner moved their booking.
func BookingStatusChanged(to, renterName, houseTitle, status string) Message {
	return render(to, "Booking Status Update", "Booking Status Updated", renterName,
		"Your booking for "+houseTitle+" is now "+status+".",
	)
}

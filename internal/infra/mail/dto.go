package mail

type AppointmentCancelledData struct {
	Name      string
	Doctor    string
	Specialty string
	Location  string
	Date      string
	Slot      string
}

type EmailSender struct {
	From   string
	dialer Dialer
}

package mail

type AssignmentEmailData struct {
	AgentName string
	LeadName  string
	LeadID    string
}

type EmailSender struct {
	From   string
	Dialer Dialer
}

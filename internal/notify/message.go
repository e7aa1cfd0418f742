package notify

// Message is one notification envelope, immutable once composed.
type Message struct {
	From     string
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

package push

// Payload is the message delivered to a push endpoint. URL is the deep link
// the client opens when the notification is clicked.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon,omitempty"`
	Image string `json:"image,omitempty"`
	URL   string `json:"url"`
}

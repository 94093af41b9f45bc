package graph

// EmailAddress is the Graph API emailAddress resource.
type EmailAddress struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

// Recipient is the Graph API recipient resource.
type Recipient struct {
	EmailAddress EmailAddress `json:"emailAddress"`
}

// ItemBody is the Graph API itemBody resource. ContentType is "Text" or
// "HTML".
type ItemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// Recipients converts a list of plain addresses to recipient resources.
func Recipients(addrs []string) []Recipient {
	out := make([]Recipient, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, Recipient{EmailAddress: EmailAddress{Address: a}})
	}

	return out
}

// DateTimeZone is the Graph API dateTimeTimeZone resource used for event
// start and end times.
type DateTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

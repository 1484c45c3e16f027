package bot

// Update is the subset of a Telegram update the bot consumes: one text
// message from an external user in a chat.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message is an inbound chat message.
type Message struct {
	MessageID int64  `json:"message_id"`
	From      *From  `json:"from"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

// From identifies the external user who sent the message.
type From struct {
	ID int64 `json:"id"`
}

// Chat identifies the chat the message arrived in.
type Chat struct {
	ID int64 `json:"id"`
}

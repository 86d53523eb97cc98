package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Message is an Outlook message from Microsoft Graph.
type Message struct {
	ID                string      `json:"id"`
	Subject           string      `json:"subject"`
	BodyPreview       string      `json:"bodyPreview"`
	Body              *ItemBody   `json:"body"`
	From              *Recipient  `json:"from"`
	ToRecipients      []Recipient `json:"toRecipients"`
	CcRecipients      []Recipient `json:"ccRecipients"`
	ReceivedDateTime  string      `json:"receivedDateTime"`
	SentDateTime      string      `json:"sentDateTime"`
	IsRead            bool        `json:"isRead"`
	IsDraft           bool        `json:"isDraft"`
	Importance        string      `json:"importance"`
	ConversationID    string      `json:"conversationId"`
	ParentFolderID    string      `json:"parentFolderId"`
	WebLink           string      `json:"webLink"`
	HasAttachments    bool        `json:"hasAttachments"`
	InternetMessageID string      `json:"internetMessageId"`
}

// ItemBody is the body of a message.
type ItemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// EmailAddress is an address with an optional display name.
type EmailAddress struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Recipient is a message sender or recipient.
type Recipient struct {
	EmailAddress EmailAddress `json:"emailAddress"`
}

// GetMessage fetches a single message from a user's mailbox.
func (c *Client) GetMessage(ctx context.Context, userID, messageID string, opts ...CallOption) (*Message, error) {
	o := newCallOptions(opts)
	url := appendQuery(fmt.Sprintf("%s/users/%s/messages/%s", c.baseURL, userID, messageID), o.query)

	resp, err := c.call(ctx, http.MethodGet, url, nil, o)
	if err != nil {
		return nil, err
	}

	var msg Message
	if err := resp.Decode(&msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListUserMessages fetches a single page of a user's messages.
func (c *Client) ListUserMessages(ctx context.Context, userID string, opts ...CallOption) (*Page[Message], error) {
	o := newCallOptions(opts)
	url := appendQuery(fmt.Sprintf("%s/users/%s/messages", c.baseURL, userID), o.query)
	return fetchPage[Message](ctx, c, url, o)
}

// ListMoreUserMessages fetches a page of messages from a continuation URL.
func (c *Client) ListMoreUserMessages(ctx context.Context, nextLink string, opts ...CallOption) (*Page[Message], error) {
	return fetchPage[Message](ctx, c, nextLink, newCallOptions(opts))
}

// ListAllUserMessages returns a lazy iterator over every message in a
// user's mailbox, following continuation links page by page.
func (c *Client) ListAllUserMessages(userID string, opts ...CallOption) *Iterator[Message] {
	return newIterator(
		func(ctx context.Context) (*Page[Message], error) {
			return c.ListUserMessages(ctx, userID, opts...)
		},
		func(ctx context.Context, nextLink string) (*Page[Message], error) {
			return c.ListMoreUserMessages(ctx, nextLink, opts...)
		},
	)
}

// MoveMessage moves a message to another mail folder and returns the
// moved copy. Graph answers 201 with the message in its new location.
func (c *Client) MoveMessage(ctx context.Context, userID, messageID, destinationFolderID string, opts ...CallOption) (*Message, error) {
	o := newCallOptions(opts)
	url := fmt.Sprintf("%s/users/%s/messages/%s/move", c.baseURL, userID, messageID)

	body, err := json.Marshal(map[string]string{"destinationId": destinationFolderID})
	if err != nil {
		return nil, fmt.Errorf("graph: encode move request: %w", err)
	}

	resp, err := c.call(ctx, http.MethodPost, url, bytes.NewReader(body), o)
	if err != nil {
		return nil, err
	}

	var msg Message
	if err := resp.Decode(&msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/escrowdesk/escrowdesk/internal/chat"
)

// ListDisputes returns all disputes across the platform.
func (c *Client) ListDisputes(ctx context.Context) ([]Dispute, error) {
	var resp struct {
		Data struct {
			Disputes []Dispute `json:"disputes"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/disputes/admin/all", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Disputes, nil
}

// DisputeMessages fetches the authoritative message history for a dispute.
func (c *Client) DisputeMessages(ctx context.Context, disputeID string) ([]Message, error) {
	var resp struct {
		Data struct {
			Messages []Message `json:"messages"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/disputes/"+disputeID, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Messages, nil
}

// PostDisputeMessage persists a new chat message and returns it with the
// server-assigned id and timestamp.
func (c *Client) PostDisputeMessage(ctx context.Context, disputeID, body string) (Message, error) {
	req := struct {
		Message string `json:"message"`
	}{Message: body}

	var resp struct {
		Data Message `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/disputes/"+disputeID+"/messages", req, &resp); err != nil {
		return Message{}, err
	}
	return resp.Data, nil
}

// UpdateDisputeStatus resolves or cancels a dispute.
func (c *Client) UpdateDisputeStatus(ctx context.Context, disputeID, status, resolution string) error {
	req := struct {
		Status     string `json:"status"`
		Resolution string `json:"resolution,omitempty"`
	}{Status: status, Resolution: resolution}

	path := fmt.Sprintf("/api/disputes/admin/%s/status", disputeID)
	return c.do(ctx, http.MethodPut, path, req, nil)
}

// ToDomain maps a REST message onto the synchronizer's domain model.
func (m Message) ToDomain() chat.Message {
	var authorID string
	if m.Author != nil {
		authorID = m.Author.ID
	}
	return chat.Message{
		ID:         m.ID,
		RoomID:     m.DisputeID,
		AuthorID:   authorID,
		AuthorRole: chat.Role(m.UserRole),
		Body:       m.Body,
		SentAt:     m.Timestamp,
	}
}

// ChatHistory adapts the client to the synchronizer's History interface.
type ChatHistory struct {
	Client *Client
}

func (h ChatHistory) Messages(ctx context.Context, roomID string) ([]chat.Message, error) {
	messages, err := h.Client.DisputeMessages(ctx, roomID)
	if err != nil {
		return nil, err
	}
	out := make([]chat.Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, m.ToDomain())
	}
	return out, nil
}

// ChatPoster adapts the client to the synchronizer's Poster interface.
type ChatPoster struct {
	Client *Client
}

func (p ChatPoster) Post(ctx context.Context, roomID, body string) (chat.Message, error) {
	msg, err := p.Client.PostDisputeMessage(ctx, roomID, body)
	if err != nil {
		return chat.Message{}, err
	}
	return msg.ToDomain(), nil
}

package store

import (
	"context"
	"fmt"
	"sort"
	"umsassist-backend/internal/components/retry"
	"umsassist-backend/internal/store/db"

	"github.com/google/uuid"
)

const (
	report_store_save_message      = "store.save-message"
	report_store_get_messages      = "store.get-messages"
	report_store_mark_read         = "store.mark-messages-read"
	report_store_get_conversations = "store.get-conversations"
	report_store_delete            = "store.delete-conversation"
)

// ConversationId identifies the conversation between two users, it is the
// same whichever order they are given in.
func ConversationId(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("%s_%s", a, b)
}

func messageFromRow(row db.Message) Message {
	return Message{
		Id:             row.ID,
		ConversationId: row.ConversationID,
		Sender:         row.Sender,
		Recipient:      row.Recipient,
		Text:           row.Text,
		Timestamp:      row.Timestamp,
		Read:           row.IsRead,
	}
}

func (s Store) SaveMessage(ctx context.Context, sender, recipient, text string) (Message, error) {
	message := Message{
		Id:             uuid.NewString(),
		ConversationId: ConversationId(sender, recipient),
		Sender:         sender,
		Recipient:      recipient,
		Text:           text,
		Timestamp:      s.time.Now().Unix(),
	}
	err := retry.Exec(ctx, s.retry, func() error {
		return s.qry.CreateMessage(ctx, db.CreateMessageParams{
			ID:             message.Id,
			ConversationID: message.ConversationId,
			Sender:         message.Sender,
			Recipient:      message.Recipient,
			Text:           message.Text,
			Timestamp:      message.Timestamp,
		})
	})
	if err != nil {
		s.tel.ReportBroken(report_store_save_message, err)
		return Message{}, fmt.Errorf("save message: %w", err)
	}
	return message, nil
}

// GetMessages returns the conversation between user and other, oldest
// first.
func (s Store) GetMessages(ctx context.Context, user, other string) ([]Message, error) {
	rows, err := retry.Do(ctx, s.retry, func() ([]db.Message, error) {
		return s.qry.GetConversationMessages(ctx, ConversationId(user, other))
	})
	if err != nil {
		s.tel.ReportBroken(report_store_get_messages, err)
		return nil, fmt.Errorf("get messages: %w", err)
	}

	out := []Message{}
	for _, row := range rows {
		if row.Sender != user && row.Recipient != user {
			continue
		}
		out = append(out, messageFromRow(row))
	}
	return out, nil
}

// MarkMessagesRead marks everything sender has sent to recipient as read and
// returns how many messages changed.
func (s Store) MarkMessagesRead(ctx context.Context, recipient, sender string) (int64, error) {
	count, err := retry.Do(ctx, s.retry, func() (int64, error) {
		return s.qry.MarkMessagesRead(ctx, db.MarkMessagesReadParams{
			Recipient: recipient,
			Sender:    sender,
		})
	})
	if err != nil {
		s.tel.ReportBroken(report_store_mark_read, err)
		return 0, fmt.Errorf("mark messages read: %w", err)
	}
	return count, nil
}

// GetConversations summarizes every conversation user takes part in, most
// recently active first.
func (s Store) GetConversations(ctx context.Context, user string) ([]Conversation, error) {
	rows, err := retry.Do(ctx, s.retry, func() ([]db.Message, error) {
		return s.qry.GetUserMessages(ctx, user)
	})
	if err != nil {
		s.tel.ReportBroken(report_store_get_conversations, err)
		return nil, fmt.Errorf("get conversations: %w", err)
	}

	byId := map[string]*Conversation{}
	var order []string
	for _, row := range rows {
		conversation, ok := byId[row.ConversationID]
		if !ok {
			conversation = &Conversation{ConversationId: row.ConversationID}
			byId[row.ConversationID] = conversation
			order = append(order, row.ConversationID)
		}

		// rows are ordered oldest first so the last one seen is the latest
		message := messageFromRow(row)
		conversation.LatestMessage = message
		conversation.Timestamp = message.Timestamp

		if row.Recipient == user && !row.IsRead {
			conversation.UnreadCount++
		}
		if row.Sender != user {
			conversation.OtherUser = row.Sender
		} else if row.Recipient != user {
			conversation.OtherUser = row.Recipient
		}
	}

	out := []Conversation{}
	for _, id := range order {
		conversation := byId[id]
		if conversation.OtherUser == "" {
			continue
		}
		out = append(out, *conversation)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out, nil
}

// DeleteConversation removes every message between a and b and returns how
// many were deleted.
func (s Store) DeleteConversation(ctx context.Context, a, b string) (int64, error) {
	count, err := retry.Do(ctx, s.retry, func() (int64, error) {
		return s.qry.DeleteConversationMessages(ctx, ConversationId(a, b))
	})
	if err != nil {
		s.tel.ReportBroken(report_store_delete, err)
		return 0, fmt.Errorf("delete conversation: %w", err)
	}
	return count, nil
}

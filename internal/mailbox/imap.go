package mailbox

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"mrsummarizer/internal/config"
	"mrsummarizer/internal/logger"
)

// IMAPClient connects to an IMAP mailbox over TLS. Message IDs are IMAP UIDs,
// which are stable within a mailbox and never reused for distinct messages.
type IMAPClient struct {
	cfg config.MailboxConfig
	log logger.Logger
}

func NewIMAPClient(cfg config.MailboxConfig, log logger.Logger) *IMAPClient {
	return &IMAPClient{
		cfg: cfg,
		log: log,
	}
}

func (c *IMAPClient) Connect(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)
	client, err := imapclient.DialTLS(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial IMAP server %s: %w", addr, err)
	}

	if err := client.Login(c.cfg.Username, c.cfg.Password).Wait(); err != nil {
		client.Close()
		return nil, fmt.Errorf("IMAP login failed: %w", err)
	}

	if _, err := client.Select(c.cfg.Folder, nil).Wait(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to select folder %s: %w", c.cfg.Folder, err)
	}

	return &imapSession{client: client}, nil
}

type imapSession struct {
	client *imapclient.Client
}

func (s *imapSession) Search(sender string, since time.Time) ([]string, error) {
	criteria := &imap.SearchCriteria{
		Since: since,
		Header: []imap.SearchCriteriaHeaderField{
			{Key: "From", Value: sender},
		},
	}

	data, err := s.client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("IMAP search failed: %w", err)
	}

	uids := data.AllUIDs()
	ids := make([]string, 0, len(uids))
	for _, uid := range uids {
		ids = append(ids, strconv.FormatUint(uint64(uid), 10))
	}
	return ids, nil
}

func (s *imapSession) Fetch(id string) (*Message, error) {
	uid, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid message ID %q: %w", id, err)
	}

	bodySection := &imap.FetchItemBodySection{}
	options := &imap.FetchOptions{
		Envelope:     true,
		InternalDate: true,
		BodySection:  []*imap.FetchItemBodySection{bodySection},
	}

	messages, err := s.client.Fetch(imap.UIDSetNum(imap.UID(uid)), options).Collect()
	if err != nil {
		return nil, fmt.Errorf("IMAP fetch failed for message %s: %w", id, err)
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("message %s not found", id)
	}

	buf := messages[0]

	msg := &Message{
		ID:         id,
		ReceivedAt: buf.InternalDate,
	}
	if buf.Envelope != nil {
		msg.Subject = buf.Envelope.Subject
		if !buf.Envelope.Date.IsZero() {
			msg.ReceivedAt = buf.Envelope.Date
		}
	}

	msg.Body = decodeBody(buf.FindBodySection(bodySection))

	return msg, nil
}

func (s *imapSession) Close() error {
	err := s.client.Logout().Wait()
	if closeErr := s.client.Close(); err == nil {
		err = closeErr
	}
	return err
}

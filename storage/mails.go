package storage

import (
	"sort"
	"time"

	"github.com/mizunashi/gamevault/server/model"
	"gorm.io/datatypes"
)

// CreateMail inserts a new mail record. fromAccountID is nil for system mail.
func (s *Store) CreateMail(toAccountID int64, fromAccountID *int64, title, body string, attachments datatypes.JSON, expiresAt *time.Time) (*model.Mail, error) {
	s.mailsMu.Lock()
	defer s.mailsMu.Unlock()

	mail := &model.Mail{
		ID:            s.nextMailID,
		ToAccountID:   toAccountID,
		FromAccountID: fromAccountID,
		Title:         title,
		Body:          body,
		Attachments:   attachments,
		CreatedAt:     time.Now().UTC(),
		ExpiresAt:     expiresAt,
	}
	s.nextMailID++
	s.mails[mail.ID] = mail
	s.saveMailsLocked()

	cp := *mail
	return &cp, nil
}

// MailByID returns a copy of the mail or ErrNotFound.
func (s *Store) MailByID(id int64) (*model.Mail, error) {
	s.mailsMu.Lock()
	defer s.mailsMu.Unlock()

	mail, ok := s.mails[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *mail
	return &cp, nil
}

// MailsByAccount returns the account's mail, newest first. Soft-deleted mail
// is excluded unless includeDeleted is set.
func (s *Store) MailsByAccount(accountID int64, includeDeleted bool) []*model.Mail {
	s.mailsMu.Lock()
	defer s.mailsMu.Unlock()

	result := make([]*model.Mail, 0)
	for _, mail := range s.mails {
		if mail.ToAccountID != accountID {
			continue
		}
		if mail.Deleted && !includeDeleted {
			continue
		}
		cp := *mail
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// MarkMailRead sets the read flag and timestamp. Re-marking already-read
// mail keeps the original read timestamp.
func (s *Store) MarkMailRead(id int64) error {
	s.mailsMu.Lock()
	defer s.mailsMu.Unlock()

	mail, ok := s.mails[id]
	if !ok {
		return ErrNotFound
	}
	if mail.Read {
		return nil
	}
	now := time.Now().UTC()
	mail.Read = true
	mail.ReadAt = &now
	s.saveMailsLocked()
	return nil
}

// MarkAttachmentsClaimed flips the attachments-claimed flag. It re-checks
// ownership, the flag and the presence of a payload under the family lock
// and reports whether the flip happened; the transition is one-way.
func (s *Store) MarkAttachmentsClaimed(id, accountID int64) bool {
	s.mailsMu.Lock()
	defer s.mailsMu.Unlock()

	mail, ok := s.mails[id]
	if !ok || mail.ToAccountID != accountID || mail.AttachmentsClaimed || !mail.HasAttachments() {
		return false
	}
	mail.AttachmentsClaimed = true
	s.saveMailsLocked()
	return true
}

// SoftDeleteMail hides the mail from default listings. The record remains.
func (s *Store) SoftDeleteMail(id int64) error {
	s.mailsMu.Lock()
	defer s.mailsMu.Unlock()

	mail, ok := s.mails[id]
	if !ok {
		return ErrNotFound
	}
	if !mail.Deleted {
		mail.Deleted = true
		s.saveMailsLocked()
	}
	return nil
}

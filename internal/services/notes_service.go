package services

import (
	"context"
	"strings"

	"finsafe/internal/core"
	"finsafe/internal/log"
	"finsafe/internal/session"
)

const (
	MsgNotAuthenticated = "User not authenticated."
	MsgNotesFetchFailed = "Failed to fetch notes."
	MsgNoteSaveFailed   = "Failed to save the note. Please try again."
	MsgNoteDeleteFailed = "Failed to delete note."
)

// NotesService manages the user's notes. The session keeps the list the
// notes modal renders.
type NotesService struct {
	api    NotesAPI
	logger *log.Logger
}

func NewNotesService(notesAPI NotesAPI, logger *log.Logger) *NotesService {
	if logger == nil {
		logger = log.Discard()
	}
	return &NotesService{api: notesAPI, logger: logger.WithComponent(log.ComponentNotes)}
}

func (s *NotesService) token(sess *session.Session) (string, error) {
	u := sess.User()
	if u == nil || u.Token == "" {
		return "", fail(MsgNotAuthenticated, ErrSignedOut)
	}
	return u.Token, nil
}

// List reloads the notes from the API.
func (s *NotesService) List(ctx context.Context, sess *session.Session) ([]core.Note, error) {
	token, err := s.token(sess)
	if err != nil {
		return nil, err
	}
	notes, err := s.api.ListNotes(ctx, token)
	if err != nil {
		s.logger.WarnContext(ctx, "Note fetch failed", log.FieldOperation, log.OpList, log.FieldError, err)
		return nil, fail(MsgNotesFetchFailed, err)
	}
	sess.Notes = notes
	return notes, nil
}

// Find returns the cached note with id.
func (s *NotesService) Find(sess *session.Session, id string) (core.Note, bool) {
	for _, n := range sess.Notes {
		if n.ID == id {
			return n, true
		}
	}
	return core.Note{}, false
}

// Save creates the note when it has no ID and updates it otherwise. New
// notes go to the front of the list; updated ones keep their place.
func (s *NotesService) Save(ctx context.Context, sess *session.Session, n core.Note) (core.Note, error) {
	token, err := s.token(sess)
	if err != nil {
		return core.Note{}, err
	}
	n.Title = strings.TrimSpace(n.Title)
	if err := n.Validate(); err != nil {
		return core.Note{}, fail(MsgNoteSaveFailed, err)
	}

	if n.ID == "" {
		saved, err := s.api.CreateNote(ctx, token, n)
		if err != nil {
			s.logger.WarnContext(ctx, "Note save failed", log.FieldOperation, log.OpCreate, log.FieldError, err)
			return core.Note{}, fail(MsgNoteSaveFailed, err)
		}
		sess.Notes = append([]core.Note{saved}, sess.Notes...)
		return saved, nil
	}

	saved, err := s.api.UpdateNote(ctx, token, n.ID, n)
	if err != nil {
		s.logger.WarnContext(ctx, "Note save failed",
			log.FieldOperation, log.OpUpdate, log.FieldNoteID, n.ID, log.FieldError, err)
		return core.Note{}, fail(MsgNoteSaveFailed, err)
	}
	notes := make([]core.Note, len(sess.Notes))
	for i, existing := range sess.Notes {
		if existing.ID == saved.ID {
			existing = saved
		}
		notes[i] = existing
	}
	sess.Notes = notes
	return saved, nil
}

func (s *NotesService) Delete(ctx context.Context, sess *session.Session, id string) error {
	token, err := s.token(sess)
	if err != nil {
		return err
	}
	if err := s.api.DeleteNote(ctx, token, id); err != nil {
		s.logger.WarnContext(ctx, "Note delete failed",
			log.FieldOperation, log.OpDelete, log.FieldNoteID, id, log.FieldError, err)
		return fail(MsgNoteDeleteFailed, err)
	}
	notes := make([]core.Note, 0, len(sess.Notes))
	for _, n := range sess.Notes {
		if n.ID != id {
			notes = append(notes, n)
		}
	}
	sess.Notes = notes
	return nil
}

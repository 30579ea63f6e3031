package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"finsafe/internal/log"
	"finsafe/internal/services"
)

const (
	msgNoteSaved    = "Note saved."
	msgNoteDeleted  = "Note deleted."
	msgNoteNotFound = "Note not found."
)

func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFrom(r)
	ctx, cancel := s.apiContext(r)
	defer cancel()

	view := notesView{}
	notes, err := s.notes.List(ctx, sess)
	if err != nil {
		view.Error = userMessage(err, services.MsgNotesFetchFailed)
		notes = sess.Notes
	}
	view.Notes = notes

	s.commit(w, r, sess)
	s.render(w, r, http.StatusOK, "notes_modal", view)
}

func (s *Server) handleNewNote(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "note_form", noteFormView{})
}

// handleEditNote looks the note up in the list last shown, reloading it
// once when the note is not there.
func (s *Server) handleEditNote(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFrom(r)
	id := chi.URLParam(r, "id")

	n, ok := s.notes.Find(sess, id)
	if !ok {
		ctx, cancel := s.apiContext(r)
		defer cancel()
		if _, err := s.notes.List(ctx, sess); err == nil {
			s.commit(w, r, sess)
			n, ok = s.notes.Find(sess, id)
		}
	}
	if !ok {
		NotFoundError(msgNoteNotFound).Write(w)
		return
	}
	s.render(w, r, http.StatusOK, "note_form", noteFormView{Note: n})
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	s.saveNote(w, r, "")
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	s.saveNote(w, r, chi.URLParam(r, "id"))
}

// saveNote creates the note when id is empty and updates it otherwise. On
// success the whole modal is redrawn; on failure only the editor is.
func (s *Server) saveNote(w http.ResponseWriter, r *http.Request, id string) {
	sess := s.sessionFrom(r)

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError(msgInvalidRequest).Write(w)
		return
	}
	n := ParseNote(p)
	n.ID = id

	ctx, cancel := s.apiContext(r)
	defer cancel()
	saved, err := s.notes.Save(ctx, sess, n)
	if err != nil {
		body, rerr := s.execute("note_form", noteFormView{Note: n, Error: userMessage(err, services.MsgNoteSaveFailed)})
		if rerr != nil {
			s.renderFailed(w, r, rerr)
			return
		}
		NewHTMXResponse().
			Status(http.StatusUnprocessableEntity).
			Retarget("#note-editor").
			Body(body).
			Write(w)
		return
	}
	log.FromContext(ctx).DebugContext(ctx, "Note saved", log.FieldNoteID, saved.ID)

	s.commit(w, r, sess)
	s.writeNotes(w, r, notesView{Notes: sess.Notes}, msgNoteSaved)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFrom(r)
	ctx, cancel := s.apiContext(r)
	defer cancel()

	if err := s.notes.Delete(ctx, sess, chi.URLParam(r, "id")); err != nil {
		msg := userMessage(err, services.MsgNoteDeleteFailed)
		body, rerr := s.execute("notes_modal", notesView{Notes: sess.Notes, Error: msg})
		if rerr != nil {
			s.renderFailed(w, r, rerr)
			return
		}
		NewHTMXResponse().
			Status(http.StatusUnprocessableEntity).
			TriggerErrorNotification(msg).
			Body(body).
			Write(w)
		return
	}

	s.commit(w, r, sess)
	s.writeNotes(w, r, notesView{Notes: sess.Notes}, msgNoteDeleted)
}

func (s *Server) writeNotes(w http.ResponseWriter, r *http.Request, view notesView, notice string) {
	body, err := s.execute("notes_modal", view)
	if err != nil {
		s.renderFailed(w, r, err)
		return
	}
	NewHTMXResponse().
		TriggerNotesChanged().
		TriggerSuccessNotification(notice).
		Body(body).
		Write(w)
}

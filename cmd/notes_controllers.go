package main

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/quicknote/quicknote-api/pkg/notes"
	notesdb "github.com/quicknote/quicknote-api/pkg/notes-db"
)

// NoteResponse decorates a note with the can_delete display hint. The hint
// is not persisted and carries no permission semantics; it only tells the
// frontend whether to show a delete control for this payload.
type NoteResponse struct {
	*notes.Note
	CanDelete bool `json:"can_delete"`
}

type CreateNoteRequest struct {
	Title   *string `json:"title" validate:"required"`
	Content *string `json:"content" validate:"required"`
}

type UpdateNoteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func getNoteFromContext(c *fiber.Ctx) *notes.Note {
	return c.Locals(NoteLocalName).(*notes.Note)
}

func ListNotes(c *fiber.Ctx) error {
	all, err := notesdb.GetNotes(DB)
	if err != nil {
		Log.WithError(err).Error("failed to execute query to retrieve notes")
		return jsonError(c, fiber.StatusInternalServerError, "failed to retrieve notes")
	}
	return c.JSON(all)
}

func CreateNote(c *fiber.Ctx) error {
	data := &CreateNoteRequest{}
	if err := json.Unmarshal(c.Body(), data); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	if err := validate.Struct(data); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Title and content are required")
	}

	entry, err := notesdb.NewNote(DB, *data.Title, *data.Content)
	if err != nil {
		if isValidationError(err) {
			return jsonError(c, fiber.StatusBadRequest, err.Error())
		}
		Log.WithFields(logrus.Fields{
			"title": *data.Title,
			"error": err.Error(),
		}).Error("failed to create note")
		return jsonError(c, fiber.StatusInternalServerError, "failed to create note")
	}

	c.Status(fiber.StatusCreated)
	return c.JSON(&NoteResponse{Note: entry, CanDelete: false})
}

func GetNote(c *fiber.Ctx) error {
	note := getNoteFromContext(c)
	return c.JSON(&NoteResponse{Note: note, CanDelete: true})
}

func UpdateNote(c *fiber.Ctx) error {
	existing := getNoteFromContext(c)

	if len(c.Body()) == 0 {
		return jsonError(c, fiber.StatusBadRequest, "No data provided")
	}
	data := &UpdateNoteRequest{}
	if err := json.Unmarshal(c.Body(), data); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	if data.Title == nil && data.Content == nil {
		return jsonError(c, fiber.StatusBadRequest, "No data provided")
	}

	updated, err := notesdb.UpdateNote(DB, existing.ID, data.Title, data.Content)
	if err != nil {
		if isValidationError(err) {
			return jsonError(c, fiber.StatusBadRequest, err.Error())
		}
		if errors.Is(err, notesdb.ErrNotFound) {
			return jsonError(c, fiber.StatusNotFound, "Note not found")
		}
		Log.WithFields(logrus.Fields{
			"noteID": existing.ID,
			"error":  err.Error(),
		}).Error("failed to update note")
		return jsonError(c, fiber.StatusInternalServerError, "failed to update note")
	}

	return c.JSON(&NoteResponse{Note: updated, CanDelete: true})
}

func DeleteNote(c *fiber.Ctx) error {
	note := getNoteFromContext(c)
	if err := notesdb.DeleteNote(DB, note.ID); err != nil {
		if errors.Is(err, notesdb.ErrNotFound) {
			return jsonError(c, fiber.StatusNotFound, "Note not found")
		}
		Log.WithFields(logrus.Fields{
			"noteID": note.ID,
			"error":  err.Error(),
		}).Error("failed to remove note")
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete note")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func SearchNotes(c *fiber.Ctx) error {
	query := c.Query("q")
	found, err := notesdb.SearchNotes(DB, query)
	if err != nil {
		Log.WithFields(logrus.Fields{
			"query": query,
			"error": err.Error(),
		}).Error("failed to execute note search query")
		return jsonError(c, fiber.StatusInternalServerError, "failed to search notes")
	}

	results := []*NoteResponse{}
	for _, n := range found {
		results = append(results, &NoteResponse{Note: n, CanDelete: true})
	}
	return c.JSON(results)
}

func isValidationError(err error) bool {
	return errors.Is(err, notesdb.ErrTitleTooLong) ||
		errors.Is(err, notesdb.ErrEmptyTitle) ||
		errors.Is(err, notesdb.ErrEmptyContent)
}

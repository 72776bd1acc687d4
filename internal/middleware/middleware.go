package middleware

import (
	"database/sql"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	notesdb "github.com/quicknote/quicknote-api/pkg/notes-db"
)

// LoadNoteFromRoute resolves the note id route parameter into the note
// itself, stored under localName in the request locals. Handlers behind it
// never see a missing note.
func LoadNoteFromRoute(localName string, param string, db *sql.DB, log *logrus.Entry) func(*fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		idStr := c.Params(param)
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			c.Status(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{"error": "invalid note id"})
		}
		found, err := notesdb.GetNote(db, id)
		if err != nil && errors.Is(err, notesdb.ErrNotFound) {
			c.Status(fiber.StatusNotFound)
			return c.JSON(fiber.Map{"error": "Note not found"})
		} else if err != nil {
			log.WithFields(logrus.Fields{
				"id":    id,
				"error": err.Error(),
			}).Error("failed to execute query to retrieve note")
			c.Status(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{"error": "failed to load note"})
		}
		c.Locals(localName, found)
		return c.Next()
	}
}

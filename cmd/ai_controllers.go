package main

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/quicknote/quicknote-api/internal/llm"
	notesdb "github.com/quicknote/quicknote-api/pkg/notes-db"
)

type ChatRequest struct {
	Prompt *string `json:"prompt" validate:"required"`
}

type TranslateRequest struct {
	NoteID *int64  `json:"note_id"`
	Text   *string `json:"text"`
	Target string  `json:"target"`
}

type GenerateRequest struct {
	Prompt   *string `json:"prompt" validate:"required"`
	Language string  `json:"language"`
}

func Chat(c *fiber.Ctx) error {
	if Assist == nil {
		return jsonError(c, fiber.StatusInternalServerError, "LLM API token not configured on server")
	}

	data := &ChatRequest{}
	if err := json.Unmarshal(c.Body(), data); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Missing or invalid prompt")
	}
	if err := validate.Struct(data); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Missing or invalid prompt")
	}

	reply, err := Assist.Chat(c.UserContext(), *data.Prompt)
	if err != nil {
		Log.WithError(err).Error("chat request failed")
		return jsonError(c, fiber.StatusInternalServerError, "Chat request failed", err.Error())
	}

	return c.JSON(fiber.Map{"reply": reply})
}

func Translate(c *fiber.Ctx) error {
	if Assist == nil {
		return jsonError(c, fiber.StatusInternalServerError, "LLM API token not configured on server")
	}

	data := &TranslateRequest{}
	if err := json.Unmarshal(c.Body(), data); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid JSON body")
	}

	var text string
	switch {
	case data.NoteID != nil && *data.NoteID != 0:
		note, err := notesdb.GetNote(DB, *data.NoteID)
		if err != nil && errors.Is(err, notesdb.ErrNotFound) {
			return jsonError(c, fiber.StatusNotFound, "Note not found")
		} else if err != nil {
			Log.WithError(err).Error("failed to load note for translation")
			return jsonError(c, fiber.StatusInternalServerError, "failed to load note")
		}
		text = note.Content
	case data.Text != nil && *data.Text != "":
		text = *data.Text
	default:
		return jsonError(c, fiber.StatusBadRequest, "Provide either note_id or text to translate")
	}

	translation, err := Assist.Translate(c.UserContext(), text, data.Target)
	if err != nil {
		Log.WithError(err).Error("translation request failed")
		if llm.IsContentFiltered(err) {
			return jsonError(c, fiber.StatusUnprocessableEntity, "Translation blocked by model content filter", err.Error())
		}
		return jsonError(c, fiber.StatusInternalServerError, "Translation failed", err.Error())
	}

	return c.JSON(fiber.Map{"translation": translation})
}

func GenerateNote(c *fiber.Ctx) error {
	if Assist == nil {
		return jsonError(c, fiber.StatusInternalServerError, "LLM API token not configured on server")
	}

	data := &GenerateRequest{}
	if err := json.Unmarshal(c.Body(), data); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Missing or invalid prompt")
	}
	if err := validate.Struct(data); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Missing or invalid prompt")
	}

	draft, err := Assist.GenerateNote(c.UserContext(), *data.Prompt, data.Language)
	if err != nil {
		Log.WithError(err).Error("note generation failed")
		if llm.IsContentFiltered(err) {
			return jsonError(c, fiber.StatusUnprocessableEntity, "Note generation blocked by model content filter", err.Error())
		}
		return jsonError(c, fiber.StatusInternalServerError, "Note generation failed", err.Error())
	}

	return c.JSON(draft)
}

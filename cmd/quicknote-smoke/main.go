// quicknote-smoke walks the core API against a running server: create,
// list, get, update, search, delete. It exists for manual end-to-end
// checks, not CI.
package main

import (
	"fmt"
	"os"

	"github.com/quicknote/quicknote-api/pkg/client"
	"github.com/quicknote/quicknote-api/pkg/notes"
)

func main() {
	baseURL := "http://localhost:3333/"
	if len(os.Args) > 1 {
		baseURL = os.Args[1]
	}
	c := client.NewClient(baseURL)

	note, err := c.CreateNote("smoke test note", "created by quicknote-smoke")
	if err != nil {
		fail("create", err)
	}
	fmt.Println("created:")
	printNote(note)

	all, err := c.ListNotes()
	if err != nil {
		fail("list", err)
	}
	fmt.Printf("listed %d notes\n", len(all))

	fetched, err := c.GetNote(note.ID)
	if err != nil {
		fail("get", err)
	}
	printNote(fetched)

	newContent := "updated by quicknote-smoke"
	updated, err := c.UpdateNote(note.ID, nil, &newContent)
	if err != nil {
		fail("update", err)
	}
	printNote(updated)

	found, err := c.SearchNotes("quicknote-smoke")
	if err != nil {
		fail("search", err)
	}
	fmt.Printf("search matched %d notes\n", len(found))

	if err := c.DeleteNote(note.ID); err != nil {
		fail("delete", err)
	}
	fmt.Println("deleted")

	if _, err := c.GetNote(note.ID); err == nil {
		fail("get-after-delete", fmt.Errorf("expected an error for a deleted note"))
	}
	fmt.Println("smoke test passed")
}

func printNote(n *notes.Note) {
	fmt.Printf("  #%d %q (updated %s)\n", n.ID, n.Title, n.UpdatedAt)
}

func fail(step string, err error) {
	fmt.Fprintf(os.Stderr, "smoke test failed at %s: %s\n", step, err)
	os.Exit(1)
}

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"notefiber-sync/internal/bootstrap"
	"notefiber-sync/internal/dto"
	"notefiber-sync/internal/entity"
	"notefiber-sync/internal/pkg/validation"
	"notefiber-sync/internal/store"

	"github.com/spf13/cobra"
)

var (
	listJSON    bool
	searchQuery string

	deleteYes bool
)

// noteFlags holds the authoring form fields of add and edit.
type noteFlags struct {
	title string
	body  string
	tag   string
	date  string
}

func (f *noteFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "Note title")
	cmd.Flags().StringVarP(&f.body, "body", "b", "", "Note body")
	cmd.Flags().StringVar(&f.tag, "tag", "", "One of Personal, Work, Travel, Reminder")
	cmd.Flags().StringVar(&f.date, "date", "", "Date as YYYY-MM-DD (defaults to today)")
}

// apply copies the flags the user set onto form.
func (f *noteFlags) apply(cmd *cobra.Command, form dto.NoteForm) dto.NoteForm {
	if cmd.Flags().Changed("title") {
		form.Title = f.title
	}
	if cmd.Flags().Changed("body") {
		form.Body = f.body
	}
	if cmd.Flags().Changed("tag") {
		form.Tag = f.tag
	}
	if cmd.Flags().Changed("date") {
		form.Date = f.date
	}
	return form
}

var (
	addFlags  noteFlags
	editFlags noteFlags
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Manage the signed-in user's notes",
}

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *bootstrap.Container) error {
			if err := fetchNotes(ctx, app); err != nil {
				return err
			}
			app.Store.Dispatch(store.SetSearchQuery{Query: searchQuery})
			notes := store.Select(app.Store, store.SelectFilteredNotes)

			if listJSON {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(notes)
			}

			if len(notes) == 0 {
				fmt.Println("No notes")
				return nil
			}
			for _, n := range notes {
				printNoteLine(os.Stdout, n)
			}
			return nil
		})
	},
}

var notesShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *bootstrap.Container) error {
			n, err := findNote(ctx, app, args[0])
			if err != nil {
				return err
			}
			printNote(os.Stdout, *n)
			return nil
		})
	},
}

var notesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Write a new note",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *bootstrap.Container) error {
			uid, err := requireUser(app)
			if err != nil {
				return err
			}

			form := addFlags.apply(cmd, dto.NoteForm{Date: entity.Today(time.Now())})
			if err := validation.ValidateRequest(form); err != nil {
				return err
			}

			out := app.Store.Run(ctx, store.AddNote(form.Draft(), uid))
			if out.Err != nil {
				return errors.New(store.Select(app.Store, store.SelectNotesError))
			}
			printSuccess("Saved note %s", out.Value.(entity.Note).Id)
			return nil
		})
	},
}

var notesEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Change fields of a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *bootstrap.Container) error {
			uid, err := requireUser(app)
			if err != nil {
				return err
			}
			current, err := findNote(ctx, app, args[0])
			if err != nil {
				return err
			}

			form := editFlags.apply(cmd, dto.NoteFormFrom(*current))
			if err := validation.ValidateRequest(form); err != nil {
				return err
			}

			edited := form.Draft().WithId(current.Id)
			if out := app.Store.Run(ctx, store.UpdateNote(edited, uid)); out.Err != nil {
				return errors.New(store.Select(app.Store, store.SelectNotesError))
			}
			printSuccess("Updated note %s", edited.Id)
			return nil
		})
	},
}

var notesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note permanently",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		if !deleteYes && !confirm(bufio.NewReader(os.Stdin), os.Stderr, fmt.Sprintf("Delete note %s?", id)) {
			fmt.Println("Cancelled")
			return nil
		}

		return withApp(cmd, func(ctx context.Context, app *bootstrap.Container) error {
			if _, err := requireUser(app); err != nil {
				return err
			}
			if out := app.Store.Run(ctx, store.DeleteNote(id)); out.Err != nil {
				return errors.New(store.Select(app.Store, store.SelectNotesError))
			}
			printSuccess("Deleted note %s", id)
			return nil
		})
	},
}

func fetchNotes(ctx context.Context, app *bootstrap.Container) error {
	uid, err := requireUser(app)
	if err != nil {
		return err
	}
	if out := app.Store.Run(ctx, store.FetchNotes(uid)); out.Err != nil {
		return errors.New(store.Select(app.Store, store.SelectNotesError))
	}
	return nil
}

// findNote looks in the held notes first and asks the document store only
// when the note is not among them.
func findNote(ctx context.Context, app *bootstrap.Container, id string) (*entity.Note, error) {
	if err := fetchNotes(ctx, app); err != nil {
		return nil, err
	}
	if n := store.Select(app.Store, store.SelectNoteByID(id)); n != nil {
		return n, nil
	}

	n, err := app.Notes.GetById(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, fmt.Errorf("note %s not found", id)
	}
	return n, nil
}

func init() {
	notesListCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	notesListCmd.Flags().StringVarP(&searchQuery, "search", "s", "", "Only notes whose title or body contains this text")

	addFlags.register(notesAddCmd)
	editFlags.register(notesEditCmd)

	notesDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Do not ask for confirmation")

	notesCmd.AddCommand(notesListCmd, notesShowCmd, notesAddCmd, notesEditCmd, notesDeleteCmd)
	rootCmd.AddCommand(notesCmd)
}

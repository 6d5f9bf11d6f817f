package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"storeadmin/internal/cache"
	"storeadmin/internal/logging"
	"storeadmin/internal/modal"
	"storeadmin/internal/resource"
	"storeadmin/internal/rest"
	"storeadmin/internal/validate"
)

// Screen is the list view of one collection plus its create/edit dialog.
type Screen struct {
	schema resource.Schema
	cache  *cache.Cache
	modal  *modal.Controller
	api    *rest.Client
	log    logging.Logger
}

func NewScreen(schema resource.Schema, api *rest.Client, log logging.Logger) *Screen {
	c := cache.New(schema.ListWrapKeys...)
	gate := validate.NewGate(0)
	return &Screen{
		schema: schema,
		cache:  c,
		modal:  modal.NewController(schema, gate, api, c, log),
		api:    api,
		log:    log,
	}
}

// Path is the screen's route, checked by the route gate.
func (s *Screen) Path() string {
	return "/" + s.schema.Name
}

// Refresh fetches the collection. Any failure or unexpected shape leaves an
// empty list rather than breaking the screen.
func (s *Screen) Refresh(ctx context.Context) error {
	payload, err := s.api.List(ctx, s.schema.ListPath)
	if err != nil {
		s.cache.Reload(nil)
		return err
	}
	s.cache.Reload(payload)
	return nil
}

// Run enters the screen's command loop: list, search, add, edit, refresh.
func (s *Screen) Run(ctx context.Context, reader *bufio.Reader, out io.Writer) {
	if err := s.Refresh(ctx); err != nil {
		fmt.Fprintf(out, "Could not load %s: %v\n", s.schema.Name, err)
	}
	s.list(out, "")

	for {
		fmt.Fprintf(out, "%s> ", s.schema.Name)
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			fmt.Fprintln(out, "Available commands: list, search <text>, add, edit <id>, refresh, back")

		case "list", "l":
			s.list(out, "")

		case "search":
			if len(parts) < 2 {
				fmt.Fprintln(out, "Usage: search <text>")
				continue
			}
			s.list(out, strings.Join(parts[1:], " "))

		case "refresh":
			if err := s.Refresh(ctx); err != nil {
				fmt.Fprintf(out, "Could not load %s: %v\n", s.schema.Name, err)
			}
			s.list(out, "")

		case "add":
			s.addDialog(ctx, reader, out)

		case "edit":
			if len(parts) < 2 {
				fmt.Fprintln(out, "Usage: edit <id>")
				continue
			}
			s.editDialog(ctx, reader, out, parts[1])

		case "back", "b":
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}
	}
}

func (s *Screen) list(out io.Writer, search string) {
	records := s.cache.FilterContains(s.schema.SearchField, search)
	renderTable(out, s.schema, records)
}

// addDialog runs the create flow: stage an empty draft, collect every
// field, then settle validation before submitting.
func (s *Screen) addDialog(ctx context.Context, reader *bufio.Reader, out io.Writer) {
	s.modal.Open(nil)
	fmt.Fprintf(out, "Creating a new %s (empty line skips a field)\n", s.schema.Singular)
	s.runDialog(ctx, reader, out)
}

// editDialog stages a draft from the cached entity; an empty answer keeps
// the current value of a field.
func (s *Screen) editDialog(ctx context.Context, reader *bufio.Reader, out io.Writer, id string) {
	seed, ok := s.cache.Get(id)
	if !ok {
		fmt.Fprintf(out, "No %s with id %s\n", s.schema.Singular, id)
		return
	}
	s.modal.Open(seed)
	fmt.Fprintf(out, "Editing %s %s (empty line keeps the current value)\n", s.schema.Singular, id)
	s.runDialog(ctx, reader, out)
}

func (s *Screen) runDialog(ctx context.Context, reader *bufio.Reader, out io.Writer) {
	for {
		if !s.collectFields(reader, out) {
			s.modal.Cancel()
			fmt.Fprintln(out, "Cancelled")
			return
		}

		st := s.modal.Wait(ctx)
		if !st.Valid {
			fmt.Fprintf(out, "Cannot save: %v\n", s.modal.ValidationErr())
			if !askRetry(reader, out) {
				s.modal.Cancel()
				fmt.Fprintln(out, "Cancelled")
				return
			}
			continue
		}

		entity, err := s.modal.Submit(ctx)
		if err != nil {
			fmt.Fprintf(out, "Save failed: %s\n", saveFailureMessage(err))
			if errors.Is(err, modal.ErrCancelled) {
				return
			}
			if !askRetry(reader, out) {
				s.modal.Cancel()
				fmt.Fprintln(out, "Cancelled")
				return
			}
			continue
		}

		fmt.Fprintf(out, "Saved %s %s\n", s.schema.Singular, resource.PrimaryID(entity))
		s.list(out, "")
		return
	}
}

// collectFields prompts for every schema field once. Returns false when
// input is no longer available.
func (s *Screen) collectFields(reader *bufio.Reader, out io.Writer) bool {
	draft := s.modal.Draft()
	for _, f := range s.schema.Fields {
		prompt := f.Label
		if cur, ok := draft[f.Name]; ok {
			prompt = fmt.Sprintf("%s [%s]", f.Label, formatValue(cur))
		} else if !f.Required {
			prompt += " (optional)"
		}

		for {
			raw, err := getSimpleText(reader, prompt, out)
			if err != nil {
				return false
			}
			if raw == "" {
				break // keep current value / leave unset
			}
			if err := s.modal.SetField(f.Name, raw); err != nil {
				fmt.Fprintf(out, "%v\n", err)
				continue
			}
			break
		}
	}
	return true
}

func askRetry(reader *bufio.Reader, out io.Writer) bool {
	answer, err := getSimpleText(reader, "Try again? (y/N)", out)
	if err != nil {
		return false
	}
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
}

func saveFailureMessage(err error) string {
	var apiErr *rest.APIError
	switch {
	case errors.As(err, &apiErr):
		return fmt.Sprintf("server rejected the change (%d)", apiErr.StatusCode)
	case errors.Is(err, rest.ErrUnavailable):
		return "server unavailable"
	case errors.Is(err, modal.ErrCancelled):
		return "dialog was closed"
	default:
		return err.Error()
	}
}

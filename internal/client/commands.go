package client

import (
	"context"
	"flag"
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/MKhiriev/go-gravity/internal/service"
	"github.com/MKhiriev/go-gravity/internal/validators"
	"github.com/MKhiriev/go-gravity/internal/workers"
	"github.com/MKhiriev/go-gravity/models"
)

const (
	cmdList   = "list"
	cmdGet    = "get"
	cmdPut    = "put"
	cmdDelete = "delete"
	cmdSync   = "sync"
	cmdWatch  = "watch"
	cmdLogin  = "login"
	cmdReset  = "reset"
)

var commands = map[string]func(*App, context.Context) error{
	cmdList:   (*App).list,
	cmdGet:    (*App).get,
	cmdPut:    (*App).put,
	cmdDelete: (*App).remove,
	cmdSync:   (*App).sync,
	cmdWatch:  (*App).watch,
	cmdLogin:  (*App).login,
	cmdReset:  (*App).reset,
}

// syncNow runs one sync. Failures leave the local data usable, so they are
// only reported.
func (a *App) syncNow(ctx context.Context) bool {
	if err := a.notes.Sync(ctx); err != nil {
		a.warnf("sync failed, showing local data: %v", err)
		return false
	}
	return true
}

func (a *App) list(ctx context.Context) error {
	all := models.All[string]()
	a.notes.Revalidate(all)
	if !a.syncNow(ctx) {
		a.printNotes(a.notes.Cached())
		return nil
	}

	a.printNotes(a.notes.Read(all))
	return nil
}

func (a *App) get(ctx context.Context) error {
	id, err := a.requireID()
	if err != nil {
		return err
	}

	a.notes.Revalidate(models.One(id))
	a.syncNow(ctx)

	n, ok := a.notes.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}

	a.printf("id:       %s\ntitle:    %s\ntags:     %s\nupdated:  %s\n\n%s\n",
		n.ID, n.Title, strings.Join(n.Tags, ", "), n.UpdatedAt.Format(time.RFC3339), n.Body)
	return nil
}

func (a *App) put(ctx context.Context) error {
	fs := flag.NewFlagSet(cmdPut, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	id := fs.String("id", "", "Note id; a new note is created when empty")
	title := fs.String("title", "", "Note title")
	body := fs.String("body", "", "Note text")
	tags := fs.String("tags", "", "Comma separated tags")
	if err := fs.Parse(a.args); err != nil {
		return fmt.Errorf("%w: %w", ErrMissingArgument, err)
	}

	tagsSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "tags" {
			tagsSet = true
		}
	})

	now := a.now().UTC()
	mutate := func(n *models.Note) {
		if *title != "" {
			n.Title = *title
		}
		if *body != "" {
			n.Body = *body
		}
		if tagsSet {
			n.Tags = parseTags(*tags)
		}
		n.UpdatedAt = now
	}

	var changed []string
	if *title != "" {
		changed = append(changed, validators.FieldTitle)
	}
	if tagsSet {
		changed = append(changed, validators.FieldTags)
	}
	if len(changed) > 0 {
		draft := models.Note{Title: *title, Tags: parseTags(*tags)}
		if err := a.validator.Validate(ctx, draft, changed...); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidNote, err)
		}
	}

	if *id != "" && a.notes.Update(*id, models.One(*id), mutate, service.PushAfter(0)) {
		a.syncNow(ctx)
		a.printf("%s\n", *id)
		return nil
	}

	if *title == "" {
		return fmt.Errorf("%w: -title is required for a new note", ErrMissingArgument)
	}

	n := models.Note{ID: *id}
	if n.ID == "" {
		n.ID = a.ids.Generate()
	}
	mutate(&n)
	if err := a.validator.Validate(ctx, n); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidNote, err)
	}

	a.notes.Write(n, models.One(n.ID), service.PushAfter(0))
	a.syncNow(ctx)
	a.printf("%s\n", n.ID)
	return nil
}

func (a *App) remove(ctx context.Context) error {
	id, err := a.requireID()
	if err != nil {
		return err
	}

	n, ok := a.notes.Get(id)
	if !ok {
		a.syncNow(ctx)
		n, ok = a.notes.Get(id)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}

	a.notes.Delete(n, service.PopAfter(0))
	a.syncNow(ctx)
	return nil
}

func (a *App) sync(ctx context.Context) error {
	before := a.notes.Pending()

	a.notes.Revalidate(models.All[string]())
	if err := a.notes.Sync(ctx); err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	after := a.notes.Pending()
	a.printf("pushed %d, deleted %d, %d notes cached, %d changes still pending\n",
		before.Push-after.Push, before.Pop-after.Pop, a.notes.Len(), after.Push+after.Pop)
	return nil
}

func (a *App) login(ctx context.Context) error {
	if len(a.args) == 0 || strings.TrimSpace(a.args[0]) == "" {
		return fmt.Errorf("%w: client id", ErrMissingArgument)
	}
	clientID := strings.TrimSpace(a.args[0])

	resp, err := a.remote.Login(ctx, clientID)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	s := session{ClientID: clientID, Token: resp.Token, ExpiresAt: resp.ExpiresAt}
	if err = saveSession(ctx, a.snapshots, a.cfg.App.Reference, s); err != nil {
		return err
	}

	a.printf("logged in as %s until %s\n", clientID, resp.ExpiresAt.Local().Format(time.RFC1123))
	return nil
}

func (a *App) reset(ctx context.Context) error {
	if err := a.notes.Reset(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	a.printf("local cache cleared\n")
	return nil
}

// watch keeps the cache live until ctx is done.
func (a *App) watch(ctx context.Context) error {
	a.realtime.Subscribe(a.live)
	a.notes.Revalidate(a.live)

	ws := workers.NewWorkers(a.logger).
		Add("realtime", a.realtime).
		Add("sync-job", a.syncJob).
		Add("changes", workers.WorkerFunc(a.printChanges))
	if a.monitor != nil {
		ws.Add("network-monitor", a.monitor)
	}

	return ws.Run(ctx)
}

func (a *App) printChanges(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-a.notes.Changes():
			p := a.notes.Pending()
			a.printf("%s  %d notes  pending push=%d pull=%d pop=%d  realtime=%s\n",
				a.now().Format(time.TimeOnly), a.notes.Len(), p.Push, p.Pull, p.Pop, a.realtime.State())
		}
	}
}

func (a *App) requireID() (string, error) {
	if len(a.args) == 0 || strings.TrimSpace(a.args[0]) == "" {
		return "", fmt.Errorf("%w: note id", ErrMissingArgument)
	}
	return strings.TrimSpace(a.args[0]), nil
}

// printNotes lists notes, most recently updated first.
func (a *App) printNotes(notes []models.Note) {
	slices.SortFunc(notes, func(x, y models.Note) int {
		if c := y.UpdatedAt.Compare(x.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(x.ID, y.ID)
	})

	a.outMu.Lock()
	defer a.outMu.Unlock()

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tTITLE\tTAGS\tUPDATED")
	for _, n := range notes {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.ID, n.Title, strings.Join(n.Tags, ","), n.UpdatedAt.Format(time.RFC3339))
	}
	_ = tw.Flush()
}

func parseTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

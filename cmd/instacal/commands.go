package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/client"
	accountentity "github.com/dominik-olsz/insta-cal-scheduler/internal/domain/account/entity"
	postentity "github.com/dominik-olsz/insta-cal-scheduler/internal/domain/post/entity"
)

var errUsage = errors.New("invalid usage")

// API is the part of the backend client the commands use besides the post store
type API interface {
	Upcoming(ctx context.Context) ([]postentity.Post, error)
	ListAccounts(ctx context.Context) ([]accountentity.Account, error)
	ConnectAccount(ctx context.Context, username string) (*accountentity.Account, error)
	DisconnectAccount(ctx context.Context, id string) error
}

type runner struct {
	api   API
	store *client.PostStore
	loc   *time.Location
	state client.AppState
	out   io.Writer
	now   func() time.Time
}

func (r *runner) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "list":
		return r.list(ctx)
	case "create":
		return r.create(ctx, args)
	case "delete":
		return r.delete(ctx, args)
	case "calendar":
		return r.calendar(ctx, args)
	case "upcoming":
		return r.upcoming(ctx)
	case "accounts":
		return r.accounts(ctx)
	case "connect":
		return r.connect(ctx, args)
	case "disconnect":
		return r.disconnect(ctx, args)
	default:
		return fmt.Errorf("%w: unknown command %q\n\n%s", errUsage, command, usage)
	}
}

func (r *runner) list(ctx context.Context) error {
	r.state = r.state.WithTab(client.TabPosts)

	if err := r.store.Refresh(ctx); err != nil {
		return err
	}
	fmt.Fprint(r.out, renderPosts(r.state, r.store.Posts(), r.loc))
	return nil
}

func (r *runner) create(ctx context.Context, args []string) error {
	r.state = r.state.WithTab(client.TabCreate)

	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	caption := fs.String("caption", "", "post caption")
	at := fs.String("at", "", "publish time, RFC3339")
	day := fs.String("day", "", "publish day, YYYY-MM-DD")
	slot := fs.String("slot", suggestedSlots[0], "time of day with --day, HH:MM")
	account := fs.String("account", "", "instagram account id")
	image := fs.String("image", "", "image URL")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	in := client.CreatePostInput{Caption: *caption, AccountID: *account, ImageURL: *image}
	switch {
	case *at != "" && *day != "":
		return fmt.Errorf("%w: use either --at or --day", errUsage)
	case *at != "":
		t, err := time.Parse(time.RFC3339, *at)
		if err != nil {
			return fmt.Errorf("%w: --at must be RFC3339, e.g. 2025-06-01T10:00:00+02:00", errUsage)
		}
		in.ScheduledFor = t
	case *day != "":
		t, err := slotTime(*day, *slot, r.loc)
		if err != nil {
			return err
		}
		in.ScheduledFor = t
	}

	post, err := r.store.Create(ctx, in)
	if post == nil {
		return err
	}

	fmt.Fprintln(r.out, successStyle.Render(fmt.Sprintf("Scheduled %s for %s", post.ID, post.ScheduledFor.In(r.loc).Format(timeLayout))))
	if tags := post.Hashtags(); len(tags) > 0 {
		fmt.Fprintln(r.out, mutedStyle.Render(fmt.Sprintf("%d hashtags: %s", len(tags), strings.Join(tags, " "))))
	}
	if err != nil {
		fmt.Fprintln(r.out, mutedStyle.Render("post list not refreshed: "+err.Error()))
	}
	return nil
}

// suggestedSlots are the times of day offered for new posts
var suggestedSlots = []string{"09:00", "12:00", "18:00", "21:00"}

// slotTime combines a day and an HH:MM slot in loc
func slotTime(day, slot string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", day+" "+slot, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: --day must be YYYY-MM-DD and --slot HH:MM (suggested: %s)",
			errUsage, strings.Join(suggestedSlots, ", "))
	}
	return t, nil
}

func (r *runner) delete(ctx context.Context, args []string) error {
	r.state = r.state.WithTab(client.TabPosts)

	if len(args) != 1 {
		return fmt.Errorf("%w: delete takes exactly one post id", errUsage)
	}
	if err := r.store.Delete(ctx, args[0]); err != nil {
		return err
	}

	fmt.Fprintln(r.out, successStyle.Render("Deleted "+args[0]))
	return nil
}

func (r *runner) calendar(ctx context.Context, args []string) error {
	r.state = r.state.WithTab(client.TabCalendar)

	fs := flag.NewFlagSet("calendar", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	month := fs.String("month", "", "month to show, YYYY-MM")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	first := r.now().In(r.loc)
	if *month != "" {
		t, err := time.ParseInLocation("2006-01", *month, r.loc)
		if err != nil {
			return fmt.Errorf("%w: --month must be YYYY-MM", errUsage)
		}
		first = t
	}

	if err := r.store.Refresh(ctx); err != nil {
		return err
	}
	buckets, err := r.store.Buckets(r.loc)
	if err != nil {
		return err
	}
	stats, err := r.store.MonthlyStats(r.loc, first.Year(), first.Month())
	if err != nil {
		return err
	}

	fmt.Fprint(r.out, renderMonth(r.state, first.Year(), first.Month(), r.loc, buckets, stats, r.now()))
	return nil
}

func (r *runner) upcoming(ctx context.Context) error {
	r.state = r.state.WithTab(client.TabCalendar)

	posts, err := r.api.Upcoming(ctx)
	if err != nil {
		return err
	}
	fmt.Fprint(r.out, renderPosts(r.state, posts, r.loc))
	return nil
}

func (r *runner) accounts(ctx context.Context) error {
	r.state = r.state.WithTab(client.TabSettings)

	accounts, err := r.api.ListAccounts(ctx)
	if err != nil {
		return err
	}
	r.state = r.state.WithConnected(len(accounts) > 0)

	fmt.Fprint(r.out, renderAccounts(r.state, accounts))
	return nil
}

func (r *runner) connect(ctx context.Context, args []string) error {
	r.state = r.state.WithTab(client.TabSettings)

	if len(args) != 1 {
		return fmt.Errorf("%w: connect takes exactly one username", errUsage)
	}
	account, err := r.api.ConnectAccount(ctx, args[0])
	if err != nil {
		return err
	}
	r.state = r.state.WithConnected(true)

	fmt.Fprintln(r.out, successStyle.Render(fmt.Sprintf("Connected @%s (%s)", account.Username, account.ID)))
	return nil
}

func (r *runner) disconnect(ctx context.Context, args []string) error {
	r.state = r.state.WithTab(client.TabSettings)

	if len(args) != 1 {
		return fmt.Errorf("%w: disconnect takes exactly one account id", errUsage)
	}
	if err := r.api.DisconnectAccount(ctx, args[0]); err != nil {
		return err
	}

	fmt.Fprintln(r.out, successStyle.Render("Disconnected "+args[0]))
	return nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/apperr"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/calendar"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/client"
)

const usage = `Usage: instacal COMMAND [ARGS]

Commands:
  list                                  list scheduled posts
  create --caption TEXT --at RFC3339    schedule a post (flags: --account, --image)
  create --caption TEXT --day YYYY-MM-DD [--slot HH:MM]
                                        schedule at a slot in INSTACAL_TIMEZONE;
                                        suggested slots: 09:00, 12:00, 18:00, 21:00
  delete ID                             delete a post
  calendar [--month YYYY-MM]            month grid with statistics
  upcoming                              posts due soon
  accounts                              connected Instagram accounts
  connect USERNAME                      connect a demo account
  disconnect ID                         disconnect an account

Environment:
  INSTACAL_BASE_URL, INSTACAL_TOKEN, INSTACAL_TIMEOUT, INSTACAL_TIMEZONE`

// cliConfig is read from the environment (and .env when present)
type cliConfig struct {
	BaseURL  string        `env:"INSTACAL_BASE_URL" env-default:"http://localhost:8080"`
	Token    string        `env:"INSTACAL_TOKEN"`
	Timeout  time.Duration `env:"INSTACAL_TIMEOUT" env-default:"30s"`
	TimeZone string        `env:"INSTACAL_TIMEZONE" env-default:"Local"`
}

func main() {
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	var cfg cliConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		fatal(fmt.Errorf("reading environment: %w", err))
	}

	loc, err := calendar.ResolveLocation(cfg.TimeZone)
	if err != nil {
		fatal(fmt.Errorf("INSTACAL_TIMEZONE: %w", err))
	}

	c := client.New(cfg.BaseURL, client.WithToken(cfg.Token), client.WithTimeout(cfg.Timeout))
	r := &runner{
		api:   c,
		store: client.NewPostStore(c),
		loc:   loc,
		state: client.NewAppState(),
		out:   os.Stdout,
		now:   time.Now,
	}

	if err := r.run(context.Background(), args[0], args[1:]); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+describe(err)))

	var ve *apperr.ValidationError
	if errors.As(err, &ve) || errors.Is(err, errUsage) {
		os.Exit(2)
	}
	os.Exit(1)
}

// describe adds a hint for the error kinds a user can act on
func describe(err error) string {
	switch {
	case apperr.IsAuth(err):
		return err.Error() + " (set INSTACAL_TOKEN, see `migrate session`)"
	case apperr.IsRemote(err):
		return err.Error() + " (is the server at INSTACAL_BASE_URL running?)"
	default:
		return err.Error()
	}
}

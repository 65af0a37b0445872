package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli"

	"github.com/Obed704/church-portal/internal/config"
	"github.com/Obed704/church-portal/internal/db"
	"github.com/Obed704/church-portal/internal/http/middleware"
	"github.com/Obed704/church-portal/internal/ingest"
	"github.com/Obed704/church-portal/internal/model"
)

var (
	adminEmail    string
	adminPassword string
	adminName     string

	adminFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "email, e",
			Usage:       "login email of the new admin",
			Destination: &adminEmail,
		},
		cli.StringFlag{
			Name:        "password, p",
			Usage:       "initial password (at least 8 characters)",
			EnvVar:      "ADMIN_PASSWORD",
			Destination: &adminPassword,
		},
		cli.StringFlag{
			Name:        "name, n",
			Usage:       "display name",
			Destination: &adminName,
		},
	}

	showAllReminders bool

	reminderFlags = []cli.Flag{
		cli.BoolFlag{
			Name:        "all, a",
			Usage:       "include reminders already due (default: false)",
			Destination: &showAllReminders,
		},
	}

	ingestURL string
	ingestAs  string

	ingestFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "url, u",
			Usage:       "calendar page to scrape (default: $INGEST_URL)",
			Destination: &ingestURL,
		},
		cli.StringFlag{
			Name:        "as",
			Usage:       "email of the admin recorded as creator",
			Destination: &ingestAs,
		},
	}
)

func openStore(ctx context.Context) (*config.Config, db.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := db.Init(ctx, cfg.DatabaseURL); err != nil {
		return nil, nil, err
	}
	return cfg, db.NewStore(db.DB), nil
}

func migrate(ctx *cli.Context) error {
	cfg, _, err := openStore(context.Background())
	if err != nil {
		return err
	}
	if err := db.RunMigrations(context.Background(), cfg.MigrationsPath); err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, "migrations applied")
	return nil
}

func createAdmin(ctx *cli.Context) error {
	if adminEmail == "" || len(adminPassword) < 8 {
		return cli.NewExitError("--email and a --password of at least 8 characters are required", 1)
	}
	_, store, err := openStore(context.Background())
	if err != nil {
		return err
	}
	hashed, err := middleware.HashPassword(adminPassword)
	if err != nil {
		return err
	}
	var name *string
	if adminName != "" {
		name = &adminName
	}
	id, err := store.CreateUser(adminEmail, hashed, name, model.RoleAdmin)
	if errors.Is(err, db.ErrDuplicate) {
		return cli.NewExitError(fmt.Sprintf("%s is already registered", adminEmail), 1)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "created admin %s (id %d)\n", adminEmail, id)
	return nil
}

func listReminders(ctx *cli.Context) error {
	_, store, err := openStore(context.Background())
	if err != nil {
		return err
	}
	pending, err := store.ListScheduledReminders()
	if err != nil {
		return err
	}
	return printReminders(ctx.App.Writer, pending, time.Now(), showAllReminders)
}

// printReminders writes one row per reminder. Overdue ones are skipped unless all is set.
func printReminders(w io.Writer, reminders []model.Reminder, now time.Time, all bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSER\tTARGET\tWHEN\tCHANNELS\tREPEATS")
	shown := 0
	for _, r := range reminders {
		if !all && r.RemindAt.Before(now) {
			continue
		}
		repeats := "-"
		if r.Recurring() {
			repeats = *r.CronExpr
		}
		fmt.Fprintf(tw, "%d\t%d\t%s/%d\t%s\t%s\t%s\n",
			r.ID, r.UserID, r.TargetType, r.TargetID,
			humanize.RelTime(r.RemindAt, now, "ago", "from now"),
			strings.Join(r.Channels, ","), repeats)
		shown++
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s scheduled\n", humanize.Comma(int64(shown)))
	return err
}

func ingestCalendar(ctx *cli.Context) error {
	cfg, store, err := openStore(context.Background())
	if err != nil {
		return err
	}
	url := ingestURL
	if url == "" {
		url = cfg.IngestURL
	}
	if url == "" || ingestAs == "" {
		return cli.NewExitError("--as and a calendar --url (or INGEST_URL) are required", 1)
	}
	admin, err := store.GetUserByEmail(ingestAs)
	if err != nil {
		return fmt.Errorf("looking up %s: %w", ingestAs, err)
	}
	if !admin.IsAdmin() {
		return cli.NewExitError(fmt.Sprintf("%s is not an admin", ingestAs), 1)
	}

	c, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	res, err := ingest.Import(c, store, ingest.NewCalendarScraper(url), admin.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "found %d, created %d, skipped %d\n", res.Found, res.Created, res.Skipped)
	return nil
}


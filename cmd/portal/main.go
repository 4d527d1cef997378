package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/horario-app/portal-go/internal/apiclient"
	"github.com/horario-app/portal-go/internal/config"
	fichajeDomain "github.com/horario-app/portal-go/internal/domain/fichaje"
	vacacionDomain "github.com/horario-app/portal-go/internal/domain/vacacion"
	"github.com/horario-app/portal-go/internal/pkg/session"
	"github.com/horario-app/portal-go/internal/pkg/timeutil"
	fichajeService "github.com/horario-app/portal-go/internal/service/fichaje"
	vacacionService "github.com/horario-app/portal-go/internal/service/vacacion"
	"github.com/sirupsen/logrus"
)

const usage = `usage: portal <command> [flags]

commands:
  status                       show active fichaje and elapsed time
  check-in [-notes s]          open a work session
  check-out [-notes s]         close the active session
  history [-page n]            list my fichajes
  correct -id n -in "YYYY-MM-DD HH:MM" [-out "YYYY-MM-DD HH:MM"] -reason s
                               request a correction
  review-correction -id n -approve|-reject [-notes s]
                               resolve a correction (HR)
  leave submit -tipo t -from YYYY-MM-DD -to YYYY-MM-DD -motivo s
  leave list [-page n]         list my solicitudes
  leave balance [-user n]      show day balance
  leave pending                list pending solicitudes (HR)
  leave review -id n -approve|-reject [-comments s]
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	if level, err := logrus.ParseLevel(cfg.App.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	sess, err := session.Parse(cfg.API.Token)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error reading token:", err)
		os.Exit(1)
	}
	if sess.Expired(time.Now()) {
		fmt.Fprintln(os.Stderr, "Access token has expired, log in again")
		os.Exit(1)
	}

	client := apiclient.New(cfg.API.BaseURL, func() string { return cfg.API.Token }, cfg.API.Timeout, logger)
	fichajes := fichajeService.NewService(client, cfg.App.PageSize, logger)
	vacaciones := vacacionService.NewService(client, cfg.App.PageSize, logger)

	app := &cli{
		fichajes:   fichajes,
		vacaciones: vacaciones,
		sess:       sess,
	}

	ctx := context.Background()
	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type cli struct {
	fichajes   *fichajeService.ServiceImpl
	vacaciones *vacacionService.ServiceImpl
	sess       session.Session
}

func (c *cli) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "status":
		return c.status(ctx)
	case "check-in":
		return c.checkIn(ctx, args)
	case "check-out":
		return c.checkOut(ctx, args)
	case "history":
		return c.history(ctx, args)
	case "correct":
		return c.correct(ctx, args)
	case "review-correction":
		return c.reviewCorrection(ctx, args)
	case "leave":
		if len(args) < 1 {
			return fmt.Errorf("leave needs a subcommand")
		}
		return c.leave(ctx, args[0], args[1:])
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (c *cli) status(ctx context.Context) error {
	if err := c.fichajes.LoadActive(ctx); err != nil {
		return err
	}
	active := c.fichajes.Active()
	if active == nil {
		fmt.Printf("%s: no active fichaje\n", c.sess.Email)
		return nil
	}
	elapsed := c.fichajes.Elapsed(time.Now()).Round(time.Minute)
	fmt.Printf("%s: checked in at %s %s (%s elapsed)\n",
		c.sess.Email,
		timeutil.FormatDate(active.CheckIn), timeutil.FormatTime(active.CheckIn),
		elapsed,
	)
	return nil
}

func (c *cli) checkIn(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("check-in", flag.ExitOnError)
	notes := fs.String("notes", "", "optional notes")
	fs.Parse(args)

	entry, err := c.fichajes.CheckIn(ctx, *notes)
	if err != nil {
		return err
	}
	fmt.Printf("checked in: fichaje %d at %s\n", entry.ID, timeutil.FormatTime(entry.CheckIn))
	return nil
}

func (c *cli) checkOut(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("check-out", flag.ExitOnError)
	notes := fs.String("notes", "", "optional notes")
	fs.Parse(args)

	if err := c.fichajes.LoadActive(ctx); err != nil {
		return err
	}
	entry, err := c.fichajes.CheckOut(ctx, *notes)
	if err != nil {
		return err
	}
	if entry.HoursWorked != nil {
		fmt.Printf("checked out: fichaje %d, %.2f hours\n", entry.ID, *entry.HoursWorked)
	} else {
		fmt.Printf("checked out: fichaje %d\n", entry.ID)
	}
	return nil
}

func (c *cli) history(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	page := fs.Int("page", 1, "page number")
	fs.Parse(args)

	if err := c.fichajes.LoadFichajes(ctx, fichajeDomain.Query{Skip: -1}); err != nil {
		return err
	}
	if *page != 1 {
		if err := c.fichajes.GoToPage(ctx, *page); err != nil {
			return err
		}
	}

	for _, f := range c.fichajes.Fichajes() {
		out := "-"
		hours := "-"
		if f.CheckOut != nil {
			out = timeutil.FormatTime(*f.CheckOut)
		}
		if f.HoursWorked != nil {
			hours = fmt.Sprintf("%.2f", *f.HoursWorked)
		}
		fmt.Printf("%6d  %s  %s - %-5s  %6s h  %s\n",
			f.ID, timeutil.FormatDate(f.CheckIn), timeutil.FormatTime(f.CheckIn), out, hours, f.Status)
	}
	fmt.Printf("page %d/%d, %d fichajes, %.2f hours total\n",
		c.fichajes.CurrentPage(), c.fichajes.TotalPages(), c.fichajes.Total(), c.fichajes.TotalHours())
	return nil
}

func (c *cli) correct(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("correct", flag.ExitOnError)
	id := fs.Int64("id", 0, "fichaje id")
	in := fs.String("in", "", "proposed check-in (YYYY-MM-DD HH:MM)")
	out := fs.String("out", "", "proposed check-out (YYYY-MM-DD HH:MM)")
	reason := fs.String("reason", "", "correction reason")
	fs.Parse(args)

	checkIn, err := parseLocalInstant(*in)
	if err != nil {
		return err
	}
	var checkOut *time.Time
	if *out != "" {
		t, err := parseLocalInstant(*out)
		if err != nil {
			return err
		}
		checkOut = &t
	}

	// The service validates against the loaded history.
	if err := c.fichajes.LoadFichajes(ctx, fichajeDomain.Query{Skip: -1}); err != nil {
		return err
	}
	entry, err := c.fichajes.RequestCorrection(ctx, *id, checkIn, checkOut, *reason)
	if err != nil {
		return err
	}
	fmt.Printf("correction requested for fichaje %d (status %s)\n", entry.ID, entry.Status)
	return nil
}

func (c *cli) reviewCorrection(ctx context.Context, args []string) error {
	if !c.sess.IsHR() {
		return fmt.Errorf("review-correction requires the hr role")
	}

	fs := flag.NewFlagSet("review-correction", flag.ExitOnError)
	id := fs.Int64("id", 0, "fichaje id")
	approve := fs.Bool("approve", false, "approve the correction")
	reject := fs.Bool("reject", false, "reject the correction")
	notes := fs.String("notes", "", "review notes")
	fs.Parse(args)

	if *approve == *reject {
		return fmt.Errorf("pass exactly one of -approve or -reject")
	}

	var entry fichajeDomain.Fichaje
	var err error
	if *approve {
		entry, err = c.fichajes.ApproveCorrection(ctx, *id, *notes)
	} else {
		entry, err = c.fichajes.RejectCorrection(ctx, *id, *notes)
	}
	if err != nil {
		return err
	}
	fmt.Printf("fichaje %d is now %s\n", entry.ID, entry.Status)
	return nil
}

func (c *cli) leave(ctx context.Context, sub string, args []string) error {
	switch sub {
	case "submit":
		fs := flag.NewFlagSet("leave submit", flag.ExitOnError)
		tipo := fs.String("tipo", "vacation", "vacation|sick_leave|personal|other")
		from := fs.String("from", "", "start date (YYYY-MM-DD)")
		to := fs.String("to", "", "end date (YYYY-MM-DD)")
		motivo := fs.String("motivo", "", "reason")
		fs.Parse(args)

		fechaInicio, err := parseDate(*from)
		if err != nil {
			return err
		}
		fechaFin, err := parseDate(*to)
		if err != nil {
			return err
		}

		created, err := c.vacaciones.Create(ctx, vacacionDomain.CreateInput{
			Tipo:        vacacionDomain.Tipo(*tipo),
			FechaInicio: fechaInicio,
			FechaFin:    fechaFin,
			Motivo:      *motivo,
		})
		if err != nil {
			return err
		}
		fmt.Printf("solicitud %d created (%d days, %s)\n", created.ID, created.DiasSolicitados, created.Status)
		return nil

	case "list":
		fs := flag.NewFlagSet("leave list", flag.ExitOnError)
		page := fs.Int("page", 1, "page number")
		fs.Parse(args)

		if err := c.vacaciones.LoadMine(ctx, vacacionDomain.Query{Skip: -1}); err != nil {
			return err
		}
		if *page != 1 {
			if err := c.vacaciones.GoToPage(ctx, *page); err != nil {
				return err
			}
		}
		for _, v := range c.vacaciones.Vacaciones() {
			fmt.Printf("%6d  %s  %s .. %s  %2d days  %s\n",
				v.ID, v.Tipo, timeutil.FormatDate(v.FechaInicio), timeutil.FormatDate(v.FechaFin),
				v.DiasSolicitados, v.Status)
		}
		fmt.Printf("page %d/%d, %d solicitudes\n",
			c.vacaciones.CurrentPage(), c.vacaciones.TotalPages(), c.vacaciones.Total())
		return nil

	case "balance":
		fs := flag.NewFlagSet("leave balance", flag.ExitOnError)
		userID := fs.Int64("user", 0, "user id (HR only)")
		fs.Parse(args)

		var balance *vacacionDomain.Balance
		if *userID > 0 {
			b, err := c.vacaciones.LoadBalanceFor(ctx, *userID)
			if err != nil {
				return err
			}
			balance = &b
		} else {
			if err := c.vacaciones.LoadBalance(ctx); err != nil {
				return err
			}
			balance = c.vacaciones.Balance()
		}
		if balance == nil {
			return fmt.Errorf("no balance available")
		}
		fmt.Printf("%s: %d/%d days available, %d taken, %d pending\n",
			balance.UserEmail, balance.DiasDisponibles, balance.DiasAnuales,
			balance.DiasTomados, balance.DiasPendientes)
		return nil

	case "pending":
		if !c.sess.IsHR() {
			return fmt.Errorf("leave pending requires the hr role")
		}
		if err := c.vacaciones.LoadPending(ctx, vacacionDomain.Query{Skip: -1}); err != nil {
			return err
		}
		for _, v := range c.vacaciones.PendingSolicitudes() {
			fmt.Printf("%6d  %-24s  %s  %s .. %s  %2d days\n",
				v.ID, v.UserFullName, v.Tipo,
				timeutil.FormatDate(v.FechaInicio), timeutil.FormatDate(v.FechaFin), v.DiasSolicitados)
		}
		fmt.Printf("%d pending solicitudes\n", c.vacaciones.PendingTotal())
		return nil

	case "review":
		if !c.sess.IsHR() {
			return fmt.Errorf("leave review requires the hr role")
		}
		fs := flag.NewFlagSet("leave review", flag.ExitOnError)
		id := fs.Int64("id", 0, "solicitud id")
		approve := fs.Bool("approve", false, "approve the solicitud")
		reject := fs.Bool("reject", false, "reject the solicitud")
		comments := fs.String("comments", "", "review comments")
		fs.Parse(args)

		if *approve == *reject {
			return fmt.Errorf("pass exactly one of -approve or -reject")
		}
		reviewed, err := c.vacaciones.Review(ctx, *id, *approve, *comments)
		if err != nil {
			return err
		}
		fmt.Printf("solicitud %d is now %s\n", reviewed.ID, reviewed.Status)
		return nil

	default:
		return fmt.Errorf("unknown leave subcommand %q", sub)
	}
}

func parseLocalInstant(s string) (time.Time, error) {
	if len(s) < 16 {
		return time.Time{}, fmt.Errorf("expected \"YYYY-MM-DD HH:MM\", got %q", s)
	}
	return timeutil.CombineDateTime(s[:10], s[11:16])
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fleet-dashboard/internal/client"
	"fleet-dashboard/internal/config"
	"fleet-dashboard/internal/platform/logging"
	"fleet-dashboard/internal/ui"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

const usage = `usage: dashboard [flags] <command> [args]

commands:
  dashboard                                  show cards, mileage chart and lists
  vehicles   list | add | edit <id> | delete <id>
  deliveries list | add | edit <id> | delete <id> | export [-o file]
  route      -from <address> -to <address> [-vehicle id] [-geojson file]
  settings   show | set [-combustivel v] [-custo-hora v]
  theme      show | toggle
  nav        <dashboard|vehicles|deliveries|routes|settings>
  watch                                      follow backend changes

flags:
`

type cli struct {
	app    *ui.App
	api    *client.Client
	canvas *ui.GeoJSONCanvas
	out    io.Writer
	log    logrus.FieldLogger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := logging.New(cfg.Logger.Level, cfg.Logger.Format)
	log.SetOutput(os.Stderr)

	apiURL := flag.String("api", cfg.Dashboard.APIURL, "backend base URL")
	prefs := flag.String("prefs", cfg.Dashboard.Preferences, "preferences file")
	yes := flag.Bool("yes", false, "answer yes to confirmations")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	store, err := ui.OpenFileStorage(*prefs)
	if err != nil {
		log.WithError(err).Fatal("open preferences")
	}

	api := client.New(*apiURL, client.WithTimeout(cfg.Dashboard.Timeout), client.WithLogger(log))
	canvas := ui.NewGeoJSONCanvas()
	table := ui.TabwriterTable{W: os.Stdout}

	app, err := ui.New(ui.Options{
		API:      api,
		Storage:  store,
		Map:      canvas,
		Charts:   ui.TextBarChart{W: os.Stdout, Width: 40},
		Tables:   table,
		Cards:    table,
		Confirm:  stdinConfirmer(*yes),
		OnNotify: printNotification,
		Log:      log,
	})
	if err != nil {
		log.WithError(err).Fatal("start dashboard")
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{app: app, api: api, canvas: canvas, out: os.Stdout, log: log}
	err = c.run(ctx, flag.Arg(0), flag.Args()[1:])
	switch {
	case err == nil:
	case errors.Is(err, ui.ErrCancelled):
		fmt.Fprintln(os.Stderr, "cancelado")
	default:
		log.WithError(err).Error(flag.Arg(0) + " failed")
		os.Exit(1)
	}
}

func printNotification(n *ui.Notification) {
	if n == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "[%s] %s\n", n.Kind, n.Message)
}

func stdinConfirmer(always bool) ui.Confirmer {
	return ui.ConfirmFunc(func(message string) bool {
		if always {
			return true
		}
		fmt.Fprintf(os.Stderr, "%s [y/N] ", message)
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes", "s", "sim":
			return true
		}
		return false
	})
}

func (c *cli) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "dashboard":
		return c.dashboard(ctx)
	case "vehicles":
		return c.vehicles(ctx, args)
	case "deliveries":
		return c.deliveries(ctx, args)
	case "route":
		return c.route(ctx, args)
	case "settings":
		return c.settings(ctx, args)
	case "theme":
		return c.theme(args)
	case "nav":
		return c.nav(args)
	case "watch":
		return c.watch(ctx)
	}
	flag.Usage()
	return fmt.Errorf("unknown command %q", cmd)
}

func (c *cli) header() {
	v := c.app.View
	v.LoadTheme()
	v.LoadNavigation()
	fmt.Fprintf(c.out, "== %s  [%s]  %s ==\n", v.HeaderLabel(), v.Theme(), time.Now().Format(ui.ClockLayout))
}

func (c *cli) dashboard(ctx context.Context) error {
	c.header()
	return c.app.Init(ctx)
}

func parseID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, errors.New("missing id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

// formFlags binds one string flag per form field. Only flags given on the
// command line overwrite the form, so edit keeps the stored values.
type formFlags struct {
	fs   *flag.FlagSet
	vals map[string]*string
}

func newFormFlags(name string, fields [][2]string) *formFlags {
	f := &formFlags{fs: flag.NewFlagSet(name, flag.ContinueOnError), vals: map[string]*string{}}
	for _, fd := range fields {
		f.vals[fd[0]] = f.fs.String(fd[0], "", fd[1])
	}
	return f
}

func (f *formFlags) apply(dst map[string]*string) {
	f.fs.Visit(func(fl *flag.Flag) {
		if p, ok := dst[fl.Name]; ok {
			*p = *f.vals[fl.Name]
		}
	})
}

// open parses args for add, or the id plus args for edit.
func (f *formFlags) open(sub string, args []string, create func(), edit func(int64) error) error {
	if sub == "add" {
		if err := f.fs.Parse(args); err != nil {
			return err
		}
		create()
		return nil
	}
	id, err := parseID(args)
	if err != nil {
		return err
	}
	if err := f.fs.Parse(args[1:]); err != nil {
		return err
	}
	return edit(id)
}

var vehicleFields = [][2]string{
	{"placa", "plate"},
	{"tipo", "van, moto, caminhao or carro"},
	{"modelo", "model"},
	{"capacidade", "capacity in kg"},
	{"consumo", "km per liter"},
	{"custo-hora", "hourly cost"},
	{"status", "disponivel, em_rota or manutencao"},
	{"cor", "#rrggbb color"},
}

func (c *cli) vehicles(ctx context.Context, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}
	vc := c.app.Vehicles

	switch sub {
	case "list":
		return vc.Load(ctx)

	case "add", "edit":
		ff := newFormFlags("vehicles "+sub, vehicleFields)
		if err := ff.open(sub, args, vc.OpenCreate, func(id int64) error { return vc.OpenEdit(ctx, id) }); err != nil {
			return err
		}
		form := vc.Modal().Form
		ff.apply(map[string]*string{
			"placa": &form.Plate, "tipo": &form.Type, "modelo": &form.Model,
			"capacidade": &form.Capacity, "consumo": &form.Consumption,
			"custo-hora": &form.HourlyCost, "status": &form.Status, "cor": &form.Color,
		})
		vc.SetForm(form)
		return vc.Save(ctx)

	case "delete":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		return vc.Delete(ctx, id)
	}
	return fmt.Errorf("unknown vehicles command %q", sub)
}

var deliveryFields = [][2]string{
	{"cliente", "client name"},
	{"endereco", "address"},
	{"peso", "weight in kg"},
	{"volume", "volume in m3"},
	{"prazo", "deadline, 2006-01-02T15:04"},
	{"status", "pendente, em_rota, entregue or cancelada"},
	{"prioridade", "baixa, normal, alta or urgente"},
	{"observacao", "notes"},
	{"veiculo", "vehicle id"},
}

func (c *cli) deliveries(ctx context.Context, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}
	dc := c.app.Deliveries

	switch sub {
	case "list":
		return dc.Load(ctx)

	case "add", "edit":
		ff := newFormFlags("deliveries "+sub, deliveryFields)
		if err := ff.open(sub, args, dc.OpenCreate, func(id int64) error { return dc.OpenEdit(ctx, id) }); err != nil {
			return err
		}
		form := dc.Modal().Form
		ff.apply(map[string]*string{
			"cliente": &form.Client, "endereco": &form.Address, "peso": &form.Weight,
			"volume": &form.Volume, "prazo": &form.Deadline, "status": &form.Status,
			"prioridade": &form.Priority, "observacao": &form.Notes, "veiculo": &form.VehicleID,
		})
		dc.SetForm(form)
		return dc.Save(ctx)

	case "delete":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		return dc.Delete(ctx, id)

	case "export":
		fs := flag.NewFlagSet("deliveries export", flag.ContinueOnError)
		out := fs.String("o", "entregas.xlsx", "output file")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return c.export(ctx, *out)
	}
	return fmt.Errorf("unknown deliveries command %q", sub)
}

func (c *cli) export(ctx context.Context, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	n, err := c.api.ExportDeliveries(ctx, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		c.app.Notifier.Error("Erro ao exportar entregas")
		return err
	}
	c.log.WithFields(logrus.Fields{"path": path, "bytes": n}).Info("export written")
	c.app.Notifier.Success("Exportação concluída!")
	return nil
}

func (c *cli) route(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("route", flag.ContinueOnError)
	from := fs.String("from", "", "origin address")
	to := fs.String("to", "", "destination address")
	vehicle := fs.Int64("vehicle", 0, "vehicle id used for costing")
	geojson := fs.String("geojson", "", "write the map as GeoJSON to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	form := ui.RouteForm{Origin: *from, Destination: *to}
	if *vehicle > 0 {
		form.VehicleID = vehicle
	}

	c.app.Map.Init()
	if err := c.app.Routes.CalculateRoute(ctx, form); err != nil {
		return err
	}

	p := c.app.Routes.Panel()
	fmt.Fprintf(c.out, "Distância:    %s\n", p.Distance)
	fmt.Fprintf(c.out, "Duração:      %s\n", p.Duration)
	fmt.Fprintf(c.out, "Combustível:  %s\n", p.FuelCost)
	fmt.Fprintf(c.out, "Funcionário:  %s\n", p.StaffCost)
	fmt.Fprintf(c.out, "Total:        %s\n", p.TotalCost)
	for i, s := range p.Steps {
		fmt.Fprintf(c.out, "%3d. %s (%.2f km, %.1f min)\n", i+1, s.Instruction, s.DistanceKm, s.DurationMin)
	}

	if *geojson != "" {
		return c.canvas.WriteFile(*geojson)
	}
	return nil
}

func (c *cli) settings(ctx context.Context, args []string) error {
	sub := "show"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}
	sc := c.app.Settings
	if err := sc.Load(ctx); err != nil {
		return err
	}

	switch sub {
	case "show":
	case "set":
		ff := newFormFlags("settings set", [][2]string{
			{"combustivel", "fuel price per liter"},
			{"custo-hora", "staff cost per hour"},
		})
		if err := ff.fs.Parse(args); err != nil {
			return err
		}
		form := sc.Form()
		ff.apply(map[string]*string{"combustivel": &form.FuelPrice, "custo-hora": &form.StaffPerHour})
		sc.SetForm(form)
		if err := sc.Save(ctx); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown settings command %q", sub)
	}

	f := sc.Form()
	fmt.Fprintf(c.out, "Preço do combustível:   R$ %s\n", f.FuelPrice)
	fmt.Fprintf(c.out, "Custo hora funcionário: R$ %s\n", f.StaffPerHour)
	return nil
}

func (c *cli) theme(args []string) error {
	v := c.app.View
	v.LoadTheme()
	if len(args) > 0 && args[0] == "toggle" {
		if _, err := v.ToggleTheme(); err != nil {
			return err
		}
	}
	fmt.Fprintf(c.out, "%s (%s, icon %s)\n", v.Theme(), v.RootClass(), v.ThemeIcon())
	return nil
}

func (c *cli) nav(args []string) error {
	v := c.app.View
	v.LoadNavigation()
	if len(args) > 0 {
		if err := v.Select(ui.Section(args[0])); err != nil {
			return err
		}
	}
	for _, e := range v.Nav() {
		mark := " "
		if e.Active {
			mark = "*"
		}
		fmt.Fprintf(c.out, "%s %-12s %s\n", mark, e.Section, e.Label)
	}
	return nil
}

// watch shows the dashboard and refreshes it on every backend change.
func (c *cli) watch(ctx context.Context) error {
	if err := c.dashboard(ctx); err != nil {
		c.log.WithError(err).Warn("initial load incomplete")
	}
	// The clock label is rewritten in place every second.
	go ui.Clock{}.Run(ctx, func(label string) {
		fmt.Fprintf(c.out, "\r-- %s --", label)
	})
	return c.app.Watch(ctx)
}

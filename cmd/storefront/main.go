package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Cheertaboi/storefront-cart/internal/cache"
	"github.com/Cheertaboi/storefront-cart/internal/cartapi"
	"github.com/Cheertaboi/storefront-cart/internal/cartsync"
	"github.com/Cheertaboi/storefront-cart/internal/checkout"
	"github.com/Cheertaboi/storefront-cart/internal/session"
	"github.com/Cheertaboi/storefront-cart/pkg/config"
	"github.com/Cheertaboi/storefront-cart/pkg/logger"
	"github.com/Cheertaboi/storefront-cart/pkg/shutdown"
)

const usage = `usage: storefront [-config file] <command> [args]

cart:
  add <product> <price> [quantity]
  update <product> <quantity>
  remove <product>
  show
  fetch [cart-id]
  clear

account:
  register <email> <name> <password>
  login <email> <password>
  guest <email>
  whoami
  logout

orders:
  checkout [-guest email]
  order [order-id]
`

type app struct {
	cart     *cartsync.Synchronizer
	session  *session.Session
	checkout *checkout.Service
	out      io.Writer
}

func main() {
	configPath := flag.String("config", "", "path to YAML config")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Logs go to stderr so stdout stays clean for command output.
	log := logger.New(logger.Options{Service: "storefront", Env: cfg.AppEnv, Level: cfg.LogLevel, Output: os.Stderr, Text: true})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	a, closeStore, err := build(ctx, cfg, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeStore()

	if err := a.run(ctx, flag.Arg(0), flag.Args()[1:]); err != nil {
		if errors.Is(err, errUsage) {
			flag.Usage()
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", cartsync.UserMessage(err))
		os.Exit(1)
	}
}

func build(ctx context.Context, cfg config.Config, log *slog.Logger) (*app, func(), error) {
	sc := cfg.Storefront
	store, err := cache.Open(ctx, cache.Config{
		Driver:    sc.Cache.Driver,
		Path:      sc.Cache.Path,
		RedisURL:  sc.Cache.RedisURL,
		Namespace: sc.Cache.Namespace,
		TTL:       sc.Cache.TTL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open cache: %w", err)
	}
	closer := func() {}
	if c, ok := store.(io.Closer); ok {
		closer = func() { c.Close() }
	}

	client, err := cartapi.New(sc.APIBaseURL, sc.RequestTimeout)
	if err != nil {
		closer()
		return nil, nil, err
	}

	notify := stderrNotifier{w: os.Stderr}
	cart := cartsync.New(client, store, cartsync.WithNotifier(notify), cartsync.WithLogger(log))
	sess := session.New(client, store, log)

	return &app{
		cart:     cart,
		session:  sess,
		checkout: checkout.New(cart, sess, client, store, notify, log),
		out:      os.Stdout,
	}, closer, nil
}

// stderrNotifier prints shopper-facing notifications on their own line.
type stderrNotifier struct {
	w io.Writer
}

func (n stderrNotifier) Notify(_ context.Context, note cartsync.Notification) {
	if note.Level == cartsync.LevelError {
		fmt.Fprintf(n.w, "! %s\n", note.Message)
		return
	}
	fmt.Fprintf(n.w, "* %s\n", note.Message)
}

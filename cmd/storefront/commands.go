package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/storefront-cart/internal/models"
	"github.com/Cheertaboi/storefront-cart/internal/session"
)

var errUsage = errors.New("usage")

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "add":
		return a.add(ctx, args)
	case "update":
		if len(args) != 2 {
			return errUsage
		}
		qty, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("quantity %q: %w", args[1], models.ErrInvalidQuantity)
		}
		cart, err := a.cart.UpdateLine(ctx, args[0], qty)
		return a.printCart(cart, err)
	case "remove":
		if len(args) != 1 {
			return errUsage
		}
		cart, err := a.cart.RemoveLine(ctx, args[0])
		return a.printCart(cart, err)
	case "show":
		cart, err := a.cart.Cart(ctx)
		return a.printCart(cart, err)
	case "fetch":
		if len(args) > 1 {
			return errUsage
		}
		id := ""
		if len(args) == 1 {
			id = args[0]
		}
		cart, err := a.cart.Fetch(ctx, id)
		return a.printCart(cart, err)
	case "clear":
		return a.cart.Clear(ctx)
	case "register":
		if len(args) != 3 {
			return errUsage
		}
		c, err := a.session.Register(ctx, args[0], args[1], args[2])
		return a.printCustomer(c, err)
	case "login":
		if len(args) != 2 {
			return errUsage
		}
		c, err := a.session.Login(ctx, args[0], args[1])
		return a.printCustomer(c, err)
	case "guest":
		if len(args) != 1 {
			return errUsage
		}
		c, err := a.session.Guest(ctx, args[0])
		return a.printCustomer(c, err)
	case "whoami":
		c, err := a.session.Refresh(ctx)
		if errors.Is(err, session.ErrNoCustomer) {
			fmt.Fprintln(a.out, "not signed in")
			return nil
		}
		return a.printCustomer(c, err)
	case "logout":
		return a.session.Logout(ctx)
	case "checkout":
		return a.placeOrder(ctx, args)
	case "order":
		return a.order(ctx, args)
	default:
		return errUsage
	}
}

func (a *app) add(ctx context.Context, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return errUsage
	}
	price, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Errorf("price %q: %w", args[1], models.ErrInvalidPrice)
	}
	qty := 1
	if len(args) == 3 {
		if qty, err = strconv.Atoi(args[2]); err != nil {
			return fmt.Errorf("quantity %q: %w", args[2], models.ErrInvalidQuantity)
		}
	}
	cart, err := a.cart.AddLine(ctx, args[0], price, qty)
	return a.printCart(cart, err)
}

func (a *app) placeOrder(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	guest := fs.String("guest", "", "check out as a guest with this email")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return errUsage
	}
	order, err := a.checkout.Checkout(ctx, *guest)
	return a.printOrder(order, err)
}

func (a *app) order(ctx context.Context, args []string) error {
	if len(args) == 1 {
		order, err := a.checkout.OrderStatus(ctx, args[0])
		return a.printOrder(order, err)
	}
	if len(args) != 0 {
		return errUsage
	}
	ids, err := a.checkout.RecentOrders(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Fprintln(a.out, "no orders yet")
	}
	for _, id := range ids {
		fmt.Fprintln(a.out, id)
	}
	return nil
}

func (a *app) printCart(cart models.Cart, err error) error {
	if err != nil {
		return err
	}
	if cart.IsEmpty() {
		fmt.Fprintln(a.out, "cart is empty")
		return nil
	}
	fmt.Fprintf(a.out, "cart %s\n", cart.ID)
	writeLines(a.out, cart.Lines)
	fmt.Fprintf(a.out, "items: %d  total: %s\n", cart.ItemCount(), cart.Total().StringFixed(2))
	return nil
}

func (a *app) printCustomer(c models.Customer, err error) error {
	if err != nil {
		return err
	}
	kind := "registered"
	if c.Guest {
		kind = "guest"
	}
	fmt.Fprintf(a.out, "%s <%s> %s %s (%s)\n", c.Name, c.Email, c.ID, kind, c.Status)
	return nil
}

func (a *app) printOrder(o models.Order, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "order %s  status: %s\n", o.ID, o.Status)
	writeLines(a.out, o.Lines)
	fmt.Fprintf(a.out, "total: %s\n", o.Total.StringFixed(2))
	return nil
}

func writeLines(w io.Writer, lines []models.CartLine) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tQTY\tPRICE\tSUBTOTAL")
	for _, l := range lines {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", l.ProductID, l.Quantity, l.Price.StringFixed(2), l.Subtotal().StringFixed(2))
	}
	tw.Flush()
}

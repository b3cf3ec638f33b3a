package widget

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/state"
)

const helpText = `commands:
  open <n>        preview catalog item n
  add             add previewed item to the cart
  basket          open the basket
  remove <n>      remove basket row n
  checkout        start checkout from the basket
  payment <m>     choose payment method (card|cash)
  address <text>  set delivery address
  next            continue to contacts
  email <text>    set contact email
  phone <text>    set contact phone
  pay             submit the order
  close           close the current panel
  quit            exit`

// Run fetches the catalog, renders it, and then translates terminal input
// into view interactions until EOF, "quit", or context cancellation. The
// input loop plays the role of the raw UI event source: it only calls view
// methods, never state.
func (w *Widget) Run(ctx context.Context, in io.Reader) error {
	if err := w.Start(ctx); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "":
		case "help":
			fmt.Fprintln(w.out, helpText)
		case "open":
			w.openByIndex(arg)
		case "add":
			if p, ok := w.state.Preview(); ok {
				w.preview.AddToCart(p)
			} else {
				fmt.Fprintln(w.out, "nothing previewed")
			}
		case "basket":
			w.catalog.OpenBasket()
		case "remove":
			w.removeByIndex(arg)
		case "checkout":
			w.basket.Checkout()
		case "payment":
			w.orderForm.ChoosePayment(arg)
		case "address":
			w.orderForm.Input(order.FieldAddress, arg)
		case "next":
			w.orderForm.Submit()
		case "email":
			w.contacts.Input(order.FieldEmail, arg)
		case "phone":
			w.contacts.Input(order.FieldPhone, arg)
		case "pay":
			w.contacts.Submit()
		case "close":
			w.confirmed.Dismiss()
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintf(w.out, "unknown command %q, try help\n", cmd)
		}
	}
	return scanner.Err()
}

func (w *Widget) openByIndex(arg string) {
	items := w.state.Catalog()
	i, err := strconv.Atoi(arg)
	if err != nil || i < 1 || i > len(items) {
		fmt.Fprintf(w.out, "no catalog item %q\n", arg)
		return
	}
	w.catalog.Select(items[i-1])
}

func (w *Widget) removeByIndex(arg string) {
	if w.state.Phase() != state.PhaseCartReview {
		fmt.Fprintln(w.out, "open the basket first")
		return
	}
	items := w.state.CartItems()
	i, err := strconv.Atoi(arg)
	if err != nil || i < 1 || i > len(items) {
		fmt.Fprintf(w.out, "no basket row %q\n", arg)
		return
	}
	w.basket.Remove(items[i-1])
}

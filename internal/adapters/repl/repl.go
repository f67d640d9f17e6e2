package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"barstock/internal/app"
	"barstock/internal/core"

	"github.com/shopspring/decimal"
)

var errExit = errors.New("exit")

// Session is one interactive REPL bound to an ApplicationService.
type Session struct {
	svc      app.ApplicationService
	reader   *bufio.Reader
	out      io.Writer
	currency string
	style    string // glamour style for audit reports; empty = auto
}

// New creates a REPL session. currency is an ISO code used for amounts.
func New(svc app.ApplicationService, reader *bufio.Reader, out io.Writer, currency, style string) *Session {
	return &Session{svc: svc, reader: reader, out: out, currency: currency, style: style}
}

// Run starts the interactive REPL loop. Every command is a slash command
// working on the active location unless told otherwise.
func (s *Session) Run(ctx context.Context) {
	fmt.Fprintln(s.out, "Barstock")
	fmt.Fprintln(s.out, "Multi-bar inventory reconciliation. Type /help for commands.")
	fmt.Fprintln(s.out, strings.Repeat("-", 70))
	s.printActive(ctx)

	for {
		fmt.Fprint(s.out, "\n> ")
		input, err := s.reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			if err != nil {
				return
			}
			continue
		}
		if !strings.HasPrefix(input, "/") {
			fmt.Fprintln(s.out, "Commands start with '/'. Type /help for the list.")
			continue
		}
		if derr := s.dispatch(ctx, input); derr != nil {
			if derr == errExit {
				fmt.Fprintln(s.out, "Goodbye!")
				return
			}
			fmt.Fprintf(s.out, "Error: %v\n", derr)
		}
		if err != nil {
			return
		}
	}
}

func (s *Session) active(ctx context.Context) (string, error) {
	list, err := s.svc.ListLocations(ctx)
	if err != nil {
		return "", err
	}
	return list.ActiveID, nil
}

func (s *Session) printActive(ctx context.Context) {
	id, err := s.active(ctx)
	if err != nil {
		return
	}
	loc, err := s.svc.GetLocation(ctx, id)
	if err != nil {
		return
	}
	fmt.Fprintf(s.out, "Active location: %s (%s)\n", loc.Location.Name, loc.Location.Role)
}

func (s *Session) dispatch(ctx context.Context, input string) error {
	tokens := strings.Fields(strings.TrimPrefix(input, "/"))
	if len(tokens) == 0 {
		return nil
	}
	cmd := strings.ToLower(tokens[0])
	args := tokens[1:]

	switch cmd {
	case "locations", "locs":
		list, err := s.svc.ListLocations(ctx)
		if err != nil {
			return err
		}
		printLocations(s.out, list)

	case "use":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /use <location-id>")
			return nil
		}
		if err := s.svc.ActivateLocation(ctx, args[0]); err != nil {
			return err
		}
		s.printActive(ctx)

	case "new-bar":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /new-bar <name>")
			return nil
		}
		res, err := s.svc.CreateLocation(ctx, app.CreateLocationRequest{Name: strings.Join(args, " ")})
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Created %s (%s) with %d items. Now active.\n", res.Location.Name, res.Location.ID, len(res.Items))

	case "rename":
		if len(args) < 2 {
			fmt.Fprintln(s.out, "Usage: /rename <location-id> <new name>")
			return nil
		}
		res, err := s.svc.RenameLocation(ctx, app.RenameLocationRequest{LocationID: args[0], Name: strings.Join(args[1:], " ")})
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Renamed to %s.\n", res.Location.Name)

	case "delete-bar":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /delete-bar <location-id>")
			return nil
		}
		if !s.confirm(fmt.Sprintf("Delete location %s and all its items?", args[0])) {
			fmt.Fprintln(s.out, "Cancelled.")
			return nil
		}
		if err := s.svc.DeleteLocation(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Location deleted.")

	case "items", "sheet":
		id, err := s.locationArg(ctx, args)
		if err != nil {
			return err
		}
		loc, err := s.svc.GetLocation(ctx, id)
		if err != nil {
			return err
		}
		printSheet(s.out, loc, s.currency)

	case "set":
		// /set <item-ref> <field> <value...>
		if len(args) < 2 {
			fmt.Fprintln(s.out, "Usage: /set <item-#|item-id> <field> [value]")
			return nil
		}
		return s.set(ctx, args)

	case "add-item":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /add-item <name>")
			return nil
		}
		id, err := s.active(ctx)
		if err != nil {
			return err
		}
		it, err := s.svc.AddItem(ctx, app.AddItemRequest{LocationID: id, Name: strings.Join(args, " ")})
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Added %s (%s).\n", it.Name, it.ID)

	case "delete-item":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /delete-item <item-#|item-id> [...]")
			return nil
		}
		return s.deleteItems(ctx, args)

	case "import":
		format := "csv"
		if len(args) > 0 {
			format = strings.ToLower(args[0])
		}
		return s.importSales(ctx, format)

	case "purchase":
		return s.purchaseWizard(ctx)

	case "purchases":
		res, err := s.svc.ListPurchases(ctx, time.Now())
		if err != nil {
			return err
		}
		printPurchases(s.out, res, s.currency)

	case "rename-category":
		if len(args) < 2 {
			fmt.Fprintln(s.out, "Usage: /rename-category <old> <new>")
			return nil
		}
		n, err := s.svc.RenameCategory(ctx, app.RenameCategoryRequest{OldName: args[0], NewName: strings.Join(args[1:], " ")})
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%d item(s) updated.\n", n)

	case "report":
		sortField := ""
		if len(args) > 0 {
			sortField = args[0]
		}
		desc := !(len(args) > 1 && strings.EqualFold(args[1], "asc"))
		report, err := s.svc.GetFinancialReport(ctx, sortField, desc)
		if err != nil {
			return err
		}
		printFinancialReport(s.out, report, s.currency)

	case "dashboard":
		res, err := s.svc.GetDashboard(ctx)
		if err != nil {
			return err
		}
		printDashboard(s.out, res, s.currency)

	case "audit":
		id, err := s.locationArg(ctx, args)
		if err != nil {
			return err
		}
		return s.audit(ctx, id)

	case "help", "h":
		printHelp(s.out)
	case "exit", "quit", "e", "q":
		return errExit
	default:
		fmt.Fprintf(s.out, "Unknown command: /%s  (type /help for all commands)\n", cmd)
	}
	return nil
}

// locationArg returns args[0] when given, else the active location.
func (s *Session) locationArg(ctx context.Context, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return s.active(ctx)
}

// resolveItem accepts a 1-based row number from /items or an item id.
func resolveItem(loc *app.LocationResult, ref string) (core.InventoryItem, bool) {
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(loc.Location.Items) {
		return loc.Location.Items[n-1], true
	}
	if i := loc.Location.FindItem(ref); i >= 0 {
		return loc.Location.Items[i], true
	}
	return core.InventoryItem{}, false
}

func (s *Session) set(ctx context.Context, args []string) error {
	id, err := s.active(ctx)
	if err != nil {
		return err
	}
	loc, err := s.svc.GetLocation(ctx, id)
	if err != nil {
		return err
	}
	it, ok := resolveItem(loc, args[0])
	if !ok {
		return fmt.Errorf("no item %q in %s", args[0], loc.Location.Name)
	}
	res, err := s.svc.EditItem(ctx, app.EditItemRequest{
		LocationID: id,
		ItemID:     it.ID,
		Field:      args[1],
		Value:      strings.Join(args[2:], " "),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s.%s updated.", it.Name, args[1])
	if n := len(res.PropagatedTo); n > 0 {
		fmt.Fprintf(s.out, " Price copied to %d bar(s).", n)
	}
	if len(res.Recomputed) > 0 {
		fmt.Fprint(s.out, " Central recomputed.")
	}
	fmt.Fprintln(s.out)
	return nil
}

func (s *Session) deleteItems(ctx context.Context, refs []string) error {
	id, err := s.active(ctx)
	if err != nil {
		return err
	}
	loc, err := s.svc.GetLocation(ctx, id)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		it, ok := resolveItem(loc, ref)
		if !ok {
			return fmt.Errorf("no item %q in %s", ref, loc.Location.Name)
		}
		ids = append(ids, it.ID)
	}
	if !s.confirm(fmt.Sprintf("Delete %d item(s) from %s?", len(ids), loc.Location.Name)) {
		fmt.Fprintln(s.out, "Cancelled.")
		return nil
	}
	res, err := s.svc.DeleteItems(ctx, app.DeleteItemsRequest{LocationID: id, ItemIDs: ids})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%d item(s) deleted.\n", len(res.ItemIDs))
	return nil
}

// importSales reads pasted lines until a line with a single ".", previews the
// match and asks before applying it.
func (s *Session) importSales(ctx context.Context, format string) error {
	id, err := s.active(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Paste the %s sales export. End with a line containing only '.'.\n", strings.ToUpper(format))
	var lines []string
	for {
		line, rerr := s.reader.ReadString('\n')
		trimmed := strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(trimmed) == "." {
			break
		}
		lines = append(lines, trimmed)
		if rerr != nil {
			break
		}
	}
	req := app.ImportSalesRequest{LocationID: id, Format: format, Text: strings.Join(lines, "\n")}
	preview, err := s.svc.PreviewSalesImport(ctx, req)
	if err != nil {
		return err
	}
	printImportPreview(s.out, preview)
	if len(preview.Lines) == 0 {
		return nil
	}
	if !s.confirm("Apply these sales?") {
		fmt.Fprintln(s.out, "Import cancelled.")
		return nil
	}
	res, err := s.svc.CommitSalesImport(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Sales updated on %d item(s).\n", len(res.Edit.ItemIDs))
	return nil
}

func (s *Session) purchaseWizard(ctx context.Context) error {
	invoice := s.prompt("Invoice number")
	supplier := s.prompt("Supplier")
	product := s.prompt("Product (exact central name)")
	qty, err := decimal.NewFromString(strings.ReplaceAll(s.prompt("Quantity"), ",", "."))
	if err != nil {
		return fmt.Errorf("invalid quantity: %w", err)
	}
	cost, err := decimal.NewFromString(strings.ReplaceAll(s.prompt("Unit cost"), ",", "."))
	if err != nil {
		return fmt.Errorf("invalid unit cost: %w", err)
	}
	var payment time.Time
	if raw := s.prompt("Payment date (YYYY-MM-DD, blank for none)"); raw != "" {
		payment, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return fmt.Errorf("invalid payment date: %w", err)
		}
	}
	res, err := s.svc.RecordPurchase(ctx, app.RecordPurchaseRequest{
		InvoiceNumber: invoice,
		Supplier:      supplier,
		ProductName:   product,
		Quantity:      qty,
		UnitCost:      cost,
		PaymentDate:   payment,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Purchase recorded: %s x %s = %s.\n",
		res.Purchase.Quantity, res.Purchase.ProductName, renderMoney(res.Purchase.TotalCost, s.currency))
	if res.UpdatedItems == 0 {
		fmt.Fprintln(s.out, "WARNING: no central item has that exact name; inputs were not updated.")
	}
	return nil
}

func (s *Session) audit(ctx context.Context, locationID string) error {
	ch, err := s.svc.RequestAudit(ctx, locationID)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "[AI] Auditing...")
	res, ok := <-ch
	if !ok {
		return ctx.Err()
	}
	printAudit(s.out, res, s.style)
	return nil
}

func (s *Session) prompt(label string) string {
	fmt.Fprintf(s.out, "  %s: ", label)
	raw, _ := s.reader.ReadString('\n')
	return strings.TrimSpace(raw)
}

func (s *Session) confirm(question string) bool {
	fmt.Fprintf(s.out, "%s (y/n): ", question)
	choice, _ := s.reader.ReadString('\n')
	choice = strings.TrimSpace(strings.ToLower(choice))
	return choice == "y" || choice == "yes"
}

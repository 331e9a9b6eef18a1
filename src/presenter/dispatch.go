package presenter

import (
	"context"
	"log/slog"

	"github.com/apimgr/catalog/src/command"
	"github.com/apimgr/catalog/src/model"
)

// Process exit codes
const (
	ExitOK      = 0
	ExitFailure = 1
)

// Catalog is the set of remote operations the dispatcher needs.
// *api.Client satisfies it; tests use a double.
type Catalog interface {
	GetAllProducts(ctx context.Context) ([]model.Product, error)
	GetProductByID(ctx context.Context, id int) (*model.Product, error)
	CreateProduct(ctx context.Context, input model.ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id int) (*model.Product, error)
}

// Dispatcher maps a parsed command to one catalog call and renders it
type Dispatcher struct {
	Catalog   Catalog
	Presenter *Presenter
	Logger    *slog.Logger
}

// NewDispatcher creates a dispatcher
func NewDispatcher(catalog Catalog, p *Presenter, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{Catalog: catalog, Presenter: p, Logger: logger}
}

// Run parses tokens, dispatches the command and renders the outcome.
// Every failure is rendered here exactly once; the return value is the
// process exit code.
func (d *Dispatcher) Run(ctx context.Context, tokens []string) int {
	cmd, err := command.Parse(tokens)
	if err != nil {
		d.Logger.Debug("invalid command", "tokens", tokens, "error", err)
		d.Presenter.Error(err, 0)
		return ExitFailure
	}

	d.Logger.Debug("parsed command", "method", cmd.Method, "operation", cmd.Operation, "product_id", cmd.ProductID)

	if err := d.Dispatch(ctx, cmd); err != nil {
		d.Logger.Debug("command failed", "operation", cmd.Operation, "kind", model.KindOf(err), "error", err)
		d.Presenter.Error(err, cmd.ProductID)
		return ExitFailure
	}

	d.Presenter.Done()
	return ExitOK
}

// Dispatch invokes the catalog operation for cmd and renders the result.
// Errors are returned unrendered.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd command.Command) error {
	switch cmd.Operation {
	case command.OpGetAll:
		d.Presenter.Progress("Fetching all products...")
		products, err := d.Catalog.GetAllProducts(ctx)
		if err != nil {
			return err
		}
		return d.Presenter.ProductList(products)

	case command.OpGetByID:
		d.Presenter.Progress("Looking up product with ID: %d...", cmd.ProductID)
		product, err := d.Catalog.GetProductByID(ctx, cmd.ProductID)
		if err != nil {
			return err
		}
		return d.Presenter.ProductDetail(*product)

	case command.OpCreate:
		if cmd.Data == nil {
			return model.NewError(model.KindMissingParameters, "create command has no product data")
		}
		d.Presenter.Progress("Creating new product...")
		product, err := d.Catalog.CreateProduct(ctx, *cmd.Data)
		if err != nil {
			return err
		}
		return d.Presenter.Created(*product)

	case command.OpDelete:
		d.Presenter.Progress("Deleting product with ID: %d...", cmd.ProductID)
		product, err := d.Catalog.DeleteProduct(ctx, cmd.ProductID)
		if err != nil {
			return err
		}
		return d.Presenter.Deleted(*product)

	default:
		return model.NewError(model.KindInvalidCommand, "unknown operation %q", string(cmd.Operation))
	}
}

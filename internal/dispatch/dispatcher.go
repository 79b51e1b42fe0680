// internal/dispatch/dispatcher.go
package dispatch

import (
	"context"
	"fmt"
	"time"

	commonerrors "invoice-insights/internal/common/errors"
	"invoice-insights/internal/common/logger"
	"invoice-insights/internal/common/metrics"
	"invoice-insights/internal/models"
)

// Store is the read side of the record store consumed by the dispatcher.
// Lookups return nil (not an error) when nothing matches.
type Store interface {
	FindProjectByName(ctx context.Context, name string) (*models.Project, error)
	TopInvoicesByAmount(ctx context.Context, projectID int64, n int) ([]models.Invoice, error)
	HighestBalanceInvoice(ctx context.Context) (*models.Invoice, error)
}

// Completer is the generative fallback. A returned error is already final;
// the dispatcher never retries it.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type handlerFunc func(ctx context.Context, question string) (*models.QueryResponse, error)

// Dispatcher classifies a question, extracts parameters, runs the matching
// structured query or forwards to the fallback, and shapes the uniform
// result envelope. Stateless per request; every branch is terminal after one
// pass.
type Dispatcher struct {
	store     Store
	completer Completer
	logger    logger.Logger
	handlers  map[Intent]handlerFunc
}

func New(store Store, completer Completer, log logger.Logger) *Dispatcher {
	d := &Dispatcher{
		store:     store,
		completer: completer,
		logger:    log.WithFields(map[string]interface{}{"component": "dispatcher"}),
	}
	d.handlers = map[Intent]handlerFunc{
		IntentOffTopic:       d.handleOffTopic,
		IntentTopInvoices:    d.handleTopInvoices,
		IntentHighestBalance: d.handleHighestBalance,
		IntentFallback:       d.handleFallback,
	}
	return d
}

// Dispatch runs one question through classification and the matching
// handler.
func (d *Dispatcher) Dispatch(ctx context.Context, question string) (*models.QueryResponse, error) {
	intent := Classify(question)
	start := time.Now()

	d.logger.Info("dispatching query", map[string]interface{}{
		"intent": string(intent),
	})

	response, err := d.handlers[intent](ctx, question)

	status := "ok"
	if err != nil {
		status = string(commonerrors.Normalize(err).Code)
	}
	metrics.QueriesTotal.WithLabelValues(string(intent), status).Inc()
	metrics.QueryDuration.WithLabelValues(string(intent)).Observe(time.Since(start).Seconds())

	return response, err
}

func (d *Dispatcher) handleOffTopic(ctx context.Context, question string) (*models.QueryResponse, error) {
	return d.complete(ctx, question+". Apologize if out of domain.")
}

func (d *Dispatcher) handleFallback(ctx context.Context, question string) (*models.QueryResponse, error) {
	return d.complete(ctx, question+". Provide relevant insights if possible.")
}

func (d *Dispatcher) handleTopInvoices(ctx context.Context, question string) (*models.QueryResponse, error) {
	params, ok := ExtractTopInvoices(question)
	if !ok {
		// Keywords matched but the phrasing did not parse. Degrade to the
		// generic fallback instead of producing nothing.
		d.logger.Warn("top-invoices phrasing did not parse, degrading to fallback", map[string]interface{}{
			"question": question,
		})
		return d.handleFallback(ctx, question)
	}

	project, err := d.store.FindProjectByName(ctx, params.ProjectName)
	if err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("find_project_by_name", err)
	}
	if project == nil {
		return nil, commonerrors.NewProjectNotFoundError(params.ProjectName)
	}

	invoices, err := d.store.TopInvoicesByAmount(ctx, project.ID, params.Count)
	if err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("top_invoices_by_amount", err)
	}
	if len(invoices) == 0 {
		return models.NewQueryResponse(
			fmt.Sprintf("No invoices found for project '%s'.", params.ProjectName)), nil
	}

	details := make([]map[string]interface{}, 0, len(invoices))
	for _, inv := range invoices {
		details = append(details, map[string]interface{}{
			"Invoice ID":     inv.ID,
			"Vendor Name":    inv.VendorName,
			"Invoice Amount": inv.TotalClaimedAmount,
		})
	}

	return &models.QueryResponse{
		Result: fmt.Sprintf("Top %d invoices for project '%s' retrieved successfully.",
			params.Count, params.ProjectName),
		Details: details,
	}, nil
}

func (d *Dispatcher) handleHighestBalance(ctx context.Context, _ string) (*models.QueryResponse, error) {
	invoice, err := d.store.HighestBalanceInvoice(ctx)
	if err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("highest_balance_invoice", err)
	}
	if invoice == nil {
		return models.NewQueryResponse("No invoices found."), nil
	}

	return &models.QueryResponse{
		Result: "Invoice with the highest balance retrieved successfully.",
		Details: []map[string]interface{}{{
			"Invoice ID":     invoice.ID,
			"Vendor Name":    invoice.VendorName,
			"Balance Amount": invoice.BalanceAmount,
		}},
	}, nil
}

func (d *Dispatcher) complete(ctx context.Context, prompt string) (*models.QueryResponse, error) {
	text, err := d.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, commonerrors.NewUpstreamServiceError(err)
	}
	return models.NewQueryResponse(text), nil
}

package warehouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	bigquery "google.golang.org/api/bigquery/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"wardgate/internal/domain"
)

// bigqueryPollInterval is the wait between job-completion polls.
const bigqueryPollInterval = 500 * time.Millisecond

// BigQueryDialer dials the BigQuery REST API with a service-account key
// file. Jobs are billed to BillingProject, which defaults to the data
// project when unset.
type BigQueryDialer struct {
	// ServiceCredential is the path to the service-account key file.
	ServiceCredential string
	// BillingProject is the project billed for query jobs.
	BillingProject string
}

// Compile-time check.
var _ Dialer = (*BigQueryDialer)(nil)

// Dial constructs the BigQuery service client. The REST client is lazy, so
// the credential is proven by the startup Validate call rather than here.
func (d *BigQueryDialer) Dial(ctx context.Context) (Handle, error) {
	svc, err := bigquery.NewService(ctx,
		option.WithCredentialsFile(d.ServiceCredential),
		option.WithScopes(bigquery.BigqueryScope),
	)
	if err != nil {
		return nil, domain.ErrConnection(err, "create bigquery client")
	}
	return &bigqueryHandle{svc: svc, billingProject: d.BillingProject}, nil
}

// bigqueryHandle runs jobs through the BigQuery v2 REST API.
type bigqueryHandle struct {
	svc            *bigquery.Service
	billingProject string
}

func (h *bigqueryHandle) Query(ctx context.Context, spec domain.QuerySpec) (*domain.ResultTable, error) {
	req := &bigquery.QueryRequest{
		Query:           fmt.Sprintf("SELECT * FROM `%s.%s.%s`", spec.Project, spec.Dataset, spec.Table),
		UseLegacySql:    googleapi.Bool(false),
		ForceSendFields: []string{"UseLegacySql"},
	}

	resp, err := h.svc.Jobs.Query(h.billingProject, req).Context(ctx).Do()
	if err != nil {
		return nil, classifyBigQueryError(err, spec)
	}

	columns := columnNames(resp.Schema)
	rows := cellValues(resp.Rows)

	// Page through the remainder when the first response is partial.
	jobRef := resp.JobReference
	pageToken := resp.PageToken
	complete := resp.JobComplete
	for !complete || pageToken != "" {
		call := h.svc.Jobs.GetQueryResults(jobRef.ProjectId, jobRef.JobId).Context(ctx)
		if jobRef.Location != "" {
			call = call.Location(jobRef.Location)
		}
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		page, err := call.Do()
		if err != nil {
			return nil, classifyBigQueryError(err, spec)
		}
		if !page.JobComplete {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(bigqueryPollInterval):
			}
			continue
		}
		complete = true
		if len(columns) == 0 {
			columns = columnNames(page.Schema)
		}
		rows = append(rows, cellValues(page.Rows)...)
		pageToken = page.PageToken
	}

	return &domain.ResultTable{Columns: columns, Rows: rows, RowCount: len(rows)}, nil
}

// Validate fetches the table metadata to prove both the credential and the
// target table before the first request arrives.
func (h *bigqueryHandle) Validate(ctx context.Context, spec domain.QuerySpec) error {
	_, err := h.svc.Tables.Get(spec.Project, spec.Dataset, spec.Table).Context(ctx).Do()
	if err != nil {
		return classifyBigQueryError(err, spec)
	}
	return nil
}

// Close is a no-op: the REST client holds no persistent connection state.
func (h *bigqueryHandle) Close() error { return nil }

// classifyBigQueryError maps API failures onto the gateway error taxonomy:
// a missing table or dataset is a configuration defect (QueryError), every
// other failure is a ConnectionError.
func classifyBigQueryError(err error, spec domain.QuerySpec) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == 404 {
		return domain.ErrQuery(err, "table %s does not exist", spec.FullyQualifiedTable())
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	return domain.ErrConnection(err, "bigquery request failed")
}

func columnNames(schema *bigquery.TableSchema) []string {
	if schema == nil {
		return nil
	}
	cols := make([]string, len(schema.Fields))
	for i, f := range schema.Fields {
		cols[i] = f.Name
	}
	return cols
}

func cellValues(rows []*bigquery.TableRow) [][]interface{} {
	out := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		row := make([]interface{}, len(r.F))
		for i, cell := range r.F {
			row[i] = cell.V
		}
		out = append(out, row)
	}
	return out
}

package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"wardgate/internal/domain"
)

// s3Credential is the on-disk shape of a DuckDB service credential file:
// the S3 key pair the application uses to reach warehouse storage. This is
// never an end-user login credential.
type s3Credential struct {
	KeyID    string `yaml:"key_id"`
	Secret   string `yaml:"secret"`
	Endpoint string `yaml:"endpoint"`
	Region   string `yaml:"region"`
	URLStyle string `yaml:"url_style"`
}

// DuckDBDialer dials an embedded DuckDB instance and attaches the
// configured database file under the project alias.
type DuckDBDialer struct {
	// Path is the database file to attach (local file or remote URL the
	// httpfs extension understands).
	Path string
	// Project is the alias the database is attached under; the fixed query
	// addresses the table as project.dataset.table.
	Project string
	// ServiceCredential optionally points at an S3 credential YAML file,
	// provisioned as a DuckDB secret before attaching.
	ServiceCredential string
}

// Compile-time check.
var _ Dialer = (*DuckDBDialer)(nil)

// Dial opens DuckDB, provisions the service credential if configured, and
// attaches the warehouse database read-only.
func (d *DuckDBDialer) Dial(ctx context.Context) (Handle, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, domain.ErrConnection(err, "open duckdb")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, domain.ErrConnection(err, "ping duckdb")
	}

	if d.ServiceCredential != "" {
		if err := provisionS3Secret(ctx, db, d.ServiceCredential); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	attach := fmt.Sprintf(`ATTACH %s AS %s (READ_ONLY)`,
		quoteLiteral(d.Path), quoteIdentifier(d.Project))
	if _, err := db.ExecContext(ctx, attach); err != nil {
		_ = db.Close()
		return nil, domain.ErrConnection(err, "attach warehouse database %q", d.Path)
	}

	return &duckdbHandle{db: db}, nil
}

// provisionS3Secret loads the credential file and creates the DuckDB secret
// that httpfs uses for storage access.
func provisionS3Secret(ctx context.Context, db *sql.DB, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from config
	if err != nil {
		return domain.ErrConnection(err, "read service credential")
	}
	var cred s3Credential
	if err := yaml.Unmarshal(data, &cred); err != nil {
		return domain.ErrConnection(err, "parse service credential")
	}
	if cred.KeyID == "" || cred.Secret == "" {
		return domain.ErrConnection(nil, "service credential is missing key_id or secret")
	}
	if cred.URLStyle == "" {
		cred.URLStyle = "path"
	}

	for _, ext := range []string{"INSTALL httpfs; LOAD httpfs;"} {
		if _, err := db.ExecContext(ctx, ext); err != nil {
			return domain.ErrConnection(err, "load httpfs extension")
		}
	}

	secretSQL := fmt.Sprintf(`CREATE SECRET %s (
	TYPE S3,
	KEY_ID %s,
	SECRET %s,
	ENDPOINT %s,
	REGION %s,
	URL_STYLE %s
)`,
		quoteIdentifier("warehouse"),
		quoteLiteral(cred.KeyID),
		quoteLiteral(cred.Secret),
		quoteLiteral(cred.Endpoint),
		quoteLiteral(cred.Region),
		quoteLiteral(cred.URLStyle),
	)
	if _, err := db.ExecContext(ctx, secretSQL); err != nil {
		return domain.ErrConnection(err, "create warehouse secret")
	}
	return nil
}

// duckdbHandle is a live DuckDB connection with the warehouse attached.
type duckdbHandle struct {
	db *sql.DB
}

func (h *duckdbHandle) Query(ctx context.Context, spec domain.QuerySpec) (*domain.ResultTable, error) {
	rows, err := h.db.QueryContext(ctx, selectAllSQL(spec))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, domain.ErrQuery(err, "query %s", spec.FullyQualifiedTable())
	}
	defer rows.Close()

	result, err := scanRows(rows)
	if err != nil {
		return nil, domain.ErrQuery(err, "scan %s", spec.FullyQualifiedTable())
	}
	return result, nil
}

// Validate confirms the target table exists in the attached catalog.
func (h *duckdbHandle) Validate(ctx context.Context, spec domain.QuerySpec) error {
	row := h.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM information_schema.tables
		 WHERE table_catalog = ? AND table_schema = ? AND table_name = ?`,
		spec.Project, spec.Dataset, spec.Table,
	)
	var n int64
	if err := row.Scan(&n); err != nil {
		return domain.ErrConnection(err, "inspect warehouse schema")
	}
	if n == 0 {
		return domain.ErrQuery(nil, "table %s does not exist", spec.FullyQualifiedTable())
	}
	return nil
}

func (h *duckdbHandle) Close() error {
	return h.db.Close()
}

// selectAllSQL renders the one statement the gateway is permitted to run.
// Identifiers come from configuration, never from user input.
func selectAllSQL(spec domain.QuerySpec) string {
	return fmt.Sprintf("SELECT * FROM %s.%s.%s",
		quoteIdentifier(spec.Project),
		quoteIdentifier(spec.Dataset),
		quoteIdentifier(spec.Table),
	)
}

// quoteIdentifier wraps name in double quotes, doubling any embedded quotes.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// quoteLiteral wraps a string value in single quotes, escaping any embedded
// single-quote characters by doubling them (standard SQL).
func quoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

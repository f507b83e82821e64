package db

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/drone/envsubst"
)

type DSN struct {
	driver   string
	scheme   string
	host     string
	port     int64
	username string
	password string
	database string
	schema   string
	options  url.Values
}

var driverMap = map[string]string{
	"psql":       "postgres",
	"postgres":   "postgres",
	"postgresql": "postgres",
	"pgx":        "pgx",
	"clickhouse": "clickhouse",
}

var defaultPorts = map[string]int64{
	"postgres":   5432,
	"pgx":        5432,
	"clickhouse": 9000,
}

// ParseDSN parses `<scheme>://<user>:<password>@<host>:<port>/<database>?<options>`.
// Environment references (`${VAR}`) are expanded before parsing so that secrets
// can be kept out of command lines. A literal `$`, in a password for example,
// must be written `$$`: `pa$word` expands to `pa` when `word` is unset. The
// `schemaName` option selects the schema, other options are forwarded to the
// driver.
func ParseDSN(dsn string) (*DSN, error) {
	expanded, err := envsubst.EvalEnv(dsn)
	if err != nil {
		return nil, fmt.Errorf("expand env: %w", err)
	}

	dsnURL, err := url.Parse(expanded)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}

	driver, ok := driverMap[dsnURL.Scheme]
	if !ok {
		keys := make([]string, 0, len(driverMap))
		for k := range driverMap {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("invalid scheme %q, allowed schemes: %s", dsnURL.Scheme, strings.Join(keys, ", "))
	}

	host := dsnURL.Hostname()
	if host == "" {
		return nil, fmt.Errorf("host is required")
	}

	port := defaultPorts[driver]
	if rawPort := dsnURL.Port(); rawPort != "" {
		port, err = strconv.ParseInt(rawPort, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid port %q: %w", rawPort, err)
		}
	}

	database := strings.TrimPrefix(dsnURL.Path, "/")
	if database == "" {
		return nil, fmt.Errorf("database name is required")
	}

	options := dsnURL.Query()
	schema := options.Get("schemaName")
	options.Del("schemaName")
	if schema == "" {
		if driver != "clickhouse" {
			schema = "public"
		} else {
			schema = database
		}
	}

	d := &DSN{
		driver:   driver,
		scheme:   dsnURL.Scheme,
		host:     host,
		port:     port,
		username: dsnURL.User.Username(),
		database: database,
		schema:   schema,
		options:  options,
	}
	d.password, _ = dsnURL.User.Password()

	return d, nil
}

func (d *DSN) Driver() string {
	return d.driver
}

func (d *DSN) Database() string {
	return d.database
}

func (d *DSN) Schema() string {
	return d.schema
}

func (d *DSN) Host() string {
	return d.host
}

func (d *DSN) Port() int64 {
	return d.port
}

func (d *DSN) Username() string {
	return d.username
}

// ConnString renders the connection string expected by the driver registered
// under Driver(). Both PostgreSQL drivers accept the key/value form.
func (d *DSN) ConnString() string {
	if d.driver == "clickhouse" {
		u := url.URL{
			Scheme:   "clickhouse",
			Host:     fmt.Sprintf("%s:%d", d.host, d.port),
			Path:     "/" + d.database,
			RawQuery: d.options.Encode(),
		}
		if d.username != "" {
			u.User = url.UserPassword(d.username, d.password)
		}
		return u.String()
	}

	params := []string{
		"host=" + quoteConnValue(d.host),
		fmt.Sprintf("port=%d", d.port),
		"dbname=" + quoteConnValue(d.database),
	}
	if d.username != "" {
		params = append(params, "user="+quoteConnValue(d.username))
	}
	if d.password != "" {
		params = append(params, "password="+quoteConnValue(d.password))
	}
	if !d.options.Has("sslmode") {
		params = append(params, "sslmode=disable")
	}
	if d.schema != "public" && !d.options.Has("search_path") {
		params = append(params, "search_path="+quoteConnValue(d.schema))
	}

	keys := make([]string, 0, len(d.options))
	for k := range d.options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		params = append(params, k+"="+quoteConnValue(d.options.Get(k)))
	}

	return strings.Join(params, " ")
}

// String is safe to log, the password is obfuscated.
func (d *DSN) String() string {
	return fmt.Sprintf("%s://%s:%s@%s:%d/%s?schemaName=%s", d.scheme, d.username, obfuscatedString(d.password), d.host, d.port, d.database, d.schema)
}

func quoteConnValue(value string) string {
	if value != "" && !strings.ContainsAny(value, ` '\`) {
		return value
	}

	replacer := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + replacer.Replace(value) + "'"
}
